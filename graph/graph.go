// Package graph builds the message dependency graph of a schema file.
//
// Nodes are the messages of one file addressed by discovery index, the
// position in a depth-first, declaration-order walk. Edges point from a
// message to a message it depends on and are either Hard (the dependency is
// embedded by value and must be defined first) or Soft (reached through an
// indirection; ordering preference only).
package graph

import (
	"fmt"

	"github.com/ktr0731/protoorder/descriptor"
	"github.com/pkg/errors"
)

var (
	// ErrUnresolvedType is returned when a field or an extension refers to a
	// message type that is neither declared in the file nor imported.
	ErrUnresolvedType = errors.New("unresolved type reference")
	// ErrDuplicateType is returned when two messages share a full name.
	ErrDuplicateType = errors.New("duplicate type")
)

// EdgeKind classifies an edge.
type EdgeKind int

const (
	Soft EdgeKind = iota
	Hard
)

func (k EdgeKind) String() string {
	switch k {
	case Soft:
		return "soft"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("EdgeKind(%d)", int(k))
}

// Node is a message in the graph.
type Node struct {
	// Index is the discovery index.
	Index   int
	Message *descriptor.Message
}

func (n *Node) String() string {
	return n.Message.FullName
}

// Edge records that From depends on To.
type Edge struct {
	From, To int
	Kind     EdgeKind
	// Via is the name of the field or extension that produced the edge.
	Via string
}

// Graph is an immutable dependency graph. It is safe for concurrent reads.
type Graph struct {
	nodes  []*Node
	byName map[string]int
	// key: discovery index of the source, val: out edges in insertion order.
	edges [][]Edge
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Nodes returns all nodes in discovery order. The returned slice must not be
// modified.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Node returns the node with discovery index i.
func (g *Graph) Node(i int) *Node {
	return g.nodes[i]
}

// Lookup returns the node of the message named name.
func (g *Graph) Lookup(name string) (*Node, bool) {
	i, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Edges returns the out edges of n in insertion order, which is field
// declaration order followed by extension declaration order.
func (g *Graph) Edges(n *Node) []Edge {
	return g.edges[n.Index]
}

// HardEdges returns the Hard out edges of n in insertion order.
func (g *Graph) HardEdges(n *Node) []Edge {
	return g.filter(n, Hard)
}

// SoftEdges returns the Soft out edges of n in insertion order.
func (g *Graph) SoftEdges(n *Node) []Edge {
	return g.filter(n, Soft)
}

func (g *Graph) filter(n *Node, kind EdgeKind) []Edge {
	var edges []Edge
	for _, e := range g.edges[n.Index] {
		if e.Kind == kind {
			edges = append(edges, e)
		}
	}
	return edges
}

// EdgeCount returns the number of edges of the given kind.
func (g *Graph) EdgeCount(kind EdgeKind) int {
	var n int
	for _, edges := range g.edges {
		for _, e := range edges {
			if e.Kind == kind {
				n++
			}
		}
	}
	return n
}

// addEdge records an edge. Duplicate edges of the same kind are ignored.
func (g *Graph) addEdge(e Edge) {
	for _, existing := range g.edges[e.From] {
		if existing.To == e.To && existing.Kind == e.Kind {
			return
		}
	}
	g.edges[e.From] = append(g.edges[e.From], e)
}
