// Package topo orders the messages of a dependency graph for emission.
//
// The order is a depth-first postorder: roots are taken in discovery order,
// and before a node is emitted its Hard dependencies are visited, then its
// Soft dependencies, each in edge insertion order. A Soft edge that leads
// back to a node still being visited closes a legal cycle and is skipped, as
// is a Soft edge into a node whose Hard dependencies lead back to a node
// still being visited. A Hard edge closing a cycle is an internal-consistency
// error.
package topo

import (
	"strings"

	"github.com/ktr0731/protoorder/descriptor"
	"github.com/ktr0731/protoorder/graph"
	"github.com/pkg/errors"
)

var (
	// ErrHardCycle is returned when messages embed each other by value.
	ErrHardCycle = errors.New("cycle of by-value dependencies")
	// ErrInvalidOrder is returned by Verify.
	ErrInvalidOrder = errors.New("invalid order")
)

type mark byte

const (
	unvisited mark = iota
	inProgress
	done
)

// Sort returns every node of g exactly once, dependencies before dependents.
// g is not modified.
func Sort(g *graph.Graph) ([]*graph.Node, error) {
	s := &sorter{
		g:     g,
		marks: make([]mark, g.Len()),
		seen:  make([]int, g.Len()),
		order: make([]*graph.Node, 0, g.Len()),
	}
	for _, n := range g.Nodes() {
		if s.marks[n.Index] != unvisited {
			continue
		}
		if err := s.visit(n); err != nil {
			return nil, err
		}
	}
	return s.order, nil
}

// Order is like Sort but returns the messages of the nodes.
func Order(g *graph.Graph) ([]*descriptor.Message, error) {
	nodes, err := Sort(g)
	if err != nil {
		return nil, err
	}
	msgs := make([]*descriptor.Message, len(nodes))
	for i, n := range nodes {
		msgs[i] = n.Message
	}
	return msgs, nil
}

type sorter struct {
	g     *graph.Graph
	marks []mark
	order []*graph.Node
	// path holds the nodes currently in progress, outermost first.
	path []*graph.Node

	// seen and stamp track the nodes visited by the current blocked call.
	seen  []int
	stamp int
}

func (s *sorter) visit(n *graph.Node) error {
	s.marks[n.Index] = inProgress
	s.path = append(s.path, n)

	for _, kind := range [...]graph.EdgeKind{graph.Hard, graph.Soft} {
		for _, e := range s.g.Edges(n) {
			if e.Kind != kind {
				continue
			}
			to := s.g.Node(e.To)
			switch s.marks[to.Index] {
			case unvisited:
				if kind == graph.Soft && s.blocked(to) {
					continue
				}
				if err := s.visit(to); err != nil {
					return err
				}
			case inProgress:
				if kind == graph.Hard {
					return errors.Wrapf(ErrHardCycle, "%s", s.cycle(to))
				}
			}
		}
	}

	s.path = s.path[:len(s.path)-1]
	s.marks[n.Index] = done
	s.order = append(s.order, n)
	return nil
}

// blocked reports whether a node in progress is reachable from n through
// Hard edges. Visiting n then would require that node to be complete first.
func (s *sorter) blocked(n *graph.Node) bool {
	s.stamp++
	stack := []*graph.Node{n}
	s.seen[n.Index] = s.stamp
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range s.g.Edges(cur) {
			if e.Kind != graph.Hard || s.seen[e.To] == s.stamp {
				continue
			}
			s.seen[e.To] = s.stamp
			switch s.marks[e.To] {
			case inProgress:
				return true
			case unvisited:
				stack = append(stack, s.g.Node(e.To))
			}
		}
	}
	return false
}

// cycle formats the in-progress path from n back to n.
func (s *sorter) cycle(n *graph.Node) string {
	var names []string
	for i := len(s.path) - 1; i >= 0; i-- {
		if s.path[i] == n {
			for _, p := range s.path[i:] {
				names = append(names, p.String())
			}
			break
		}
	}
	names = append(names, n.String())
	return strings.Join(names, " -> ")
}

// Verify reports whether order is a permutation of the nodes of g in which
// every Hard edge target precedes its source.
func Verify(g *graph.Graph, order []*descriptor.Message) error {
	if len(order) != g.Len() {
		return errors.Wrapf(ErrInvalidOrder, "got %d messages, want %d", len(order), g.Len())
	}

	pos := make([]int, g.Len())
	for i := range pos {
		pos[i] = -1
	}
	for i, m := range order {
		n, ok := g.Lookup(m.FullName)
		if !ok || n.Message != m {
			return errors.Wrapf(ErrInvalidOrder, "%s is not a node of the graph", m.FullName)
		}
		if pos[n.Index] >= 0 {
			return errors.Wrapf(ErrInvalidOrder, "%s appears more than once", m.FullName)
		}
		pos[n.Index] = i
	}

	for _, n := range g.Nodes() {
		for _, e := range g.HardEdges(n) {
			if pos[e.To] > pos[e.From] {
				return errors.Wrapf(ErrInvalidOrder, "%s embeds %s by value but is ordered before it", n, g.Node(e.To))
			}
		}
	}
	return nil
}
