package graph

import (
	"github.com/ktr0731/protoorder/descriptor"
	"github.com/pkg/errors"
)

// Build builds the dependency graph of f.
//
// Message fields embedded by value with singular cardinality produce Hard
// edges; every other message field produces a Soft edge. An extension declared
// in a message produces a Soft edge to its extendee.
// Scalar and enum fields, and references to messages of imported files,
// produce no edge.
//
// Build returns ErrUnresolvedType if a reference cannot be resolved and
// ErrDuplicateType if a full name is declared twice.
func Build(f *descriptor.File) (*Graph, error) {
	g := &Graph{
		byName: make(map[string]int),
	}

	var dupErr error
	f.Walk(func(m *descriptor.Message) bool {
		if _, ok := g.byName[m.FullName]; ok {
			dupErr = errors.Wrapf(ErrDuplicateType, "message %s", m.FullName)
			return false
		}
		g.byName[m.FullName] = len(g.nodes)
		g.nodes = append(g.nodes, &Node{Index: len(g.nodes), Message: m})
		return true
	})
	if dupErr != nil {
		return nil, dupErr
	}
	g.edges = make([][]Edge, len(g.nodes))

	imported := make(map[string]struct{}, len(f.Dependencies))
	for _, name := range f.Dependencies {
		imported[name] = struct{}{}
	}

	// resolve returns the discovery index of name, or -1 if name is imported.
	resolve := func(from *Node, via, name string) (int, error) {
		if i, ok := g.byName[name]; ok {
			return i, nil
		}
		if _, ok := imported[name]; ok {
			return -1, nil
		}
		return 0, errors.Wrapf(ErrUnresolvedType, "%s.%s refers to %s", from.Message.FullName, via, name)
	}

	for _, n := range g.nodes {
		for _, fd := range n.Message.Fields {
			if fd.Kind != descriptor.KindMessage {
				continue
			}
			to, err := resolve(n, fd.Name, fd.Type)
			if err != nil {
				return nil, err
			}
			if to < 0 {
				continue
			}
			kind := Soft
			if fd.Embedded() {
				kind = Hard
			}
			g.addEdge(Edge{From: n.Index, To: to, Kind: kind, Via: fd.Name})
		}

		for _, ext := range n.Message.Extensions {
			to, err := resolve(n, ext.FullName, ext.Extendee)
			if err != nil {
				return nil, err
			}
			if to >= 0 {
				g.addEdge(Edge{From: n.Index, To: to, Kind: Soft, Via: ext.FullName})
			}

			// The value type must resolve but orders nothing.
			if ext.Field != nil && ext.Field.Kind == descriptor.KindMessage {
				if _, err := resolve(n, ext.FullName, ext.Field.Type); err != nil {
					return nil, err
				}
			}
		}
	}

	return g, nil
}
