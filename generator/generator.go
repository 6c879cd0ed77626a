// Package generator binds the ordering pipeline to a single schema file.
package generator

import (
	"github.com/ktr0731/protoorder/descriptor"
	"github.com/ktr0731/protoorder/graph"
	"github.com/ktr0731/protoorder/logger"
	"github.com/ktr0731/protoorder/topo"
	"github.com/pkg/errors"
)

// Emitter receives the messages of a file in emission order.
type Emitter interface {
	Emit(m *descriptor.Message) error
}

// EmitterFunc is an adapter to use a function as an Emitter.
type EmitterFunc func(m *descriptor.Message) error

// Emit calls f(m).
func (f EmitterFunc) Emit(m *descriptor.Message) error {
	return f(m)
}

// FileGenerator holds the emission order of one file.
type FileGenerator struct {
	file  *descriptor.File
	graph *graph.Graph
	order []*descriptor.Message
}

// New builds the dependency graph of f and computes its emission order.
// f must not be modified afterwards.
func New(f *descriptor.File) (*FileGenerator, error) {
	g, err := graph.Build(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build the dependency graph of %s", f.Path)
	}
	logger.Debugf("%s: %d messages, %d hard edges, %d soft edges",
		f.Path, g.Len(), g.EdgeCount(graph.Hard), g.EdgeCount(graph.Soft))

	order, err := topo.Order(g)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to order the messages of %s", f.Path)
	}

	return &FileGenerator{
		file:  f,
		graph: g,
		order: order,
	}, nil
}

// File returns the file the generator is bound to.
func (g *FileGenerator) File() *descriptor.File {
	return g.file
}

// Graph returns the dependency graph of the file. It must not be modified.
func (g *FileGenerator) Graph() *graph.Graph {
	return g.graph
}

// MessagesInTopologicalOrder returns every message of the file, each after
// the messages it embeds by value.
func (g *FileGenerator) MessagesInTopologicalOrder() []*descriptor.Message {
	order := make([]*descriptor.Message, len(g.order))
	copy(order, g.order)
	return order
}

// Verify re-checks the computed order against the graph.
func (g *FileGenerator) Verify() error {
	return topo.Verify(g.graph, g.order)
}

// Generate passes each message to e in order. It stops at the first error.
func (g *FileGenerator) Generate(e Emitter) error {
	for _, m := range g.order {
		if err := e.Emit(m); err != nil {
			return errors.Wrapf(err, "failed to emit %s", m.FullName)
		}
	}
	return nil
}
