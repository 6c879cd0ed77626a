package proto

import (
	"github.com/ktr0731/protoorder/descriptor"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Layout names a target-language rule deciding how message fields are stored.
type Layout string

const (
	// LayoutValue embeds singular message fields by value. Lazy fields are
	// materialized lazily and fields closing a recursion are boxed.
	LayoutValue Layout = "value"
	// LayoutPointer holds every message field behind a pointer.
	LayoutPointer Layout = "pointer"
)

// ErrUnknownLayout is returned by ParseLayout.
var ErrUnknownLayout = errors.New("unknown layout")

// Layouts returns the names of all layouts.
func Layouts() []string {
	return []string{string(LayoutValue), string(LayoutPointer)}
}

// ParseLayout returns the layout named s.
func ParseLayout(s string) (Layout, error) {
	switch l := Layout(s); l {
	case LayoutValue, LayoutPointer:
		return l, nil
	}
	return "", errors.Wrapf(ErrUnknownLayout, "'%s'", s)
}

type storageFunc func(protoreflect.FieldDescriptor) descriptor.Storage

// storage returns the storage rule of l for the fields of fd.
func (l Layout) storage(fd protoreflect.FileDescriptor) (storageFunc, error) {
	switch l {
	case LayoutValue:
		scc := recursionGroups(fd)
		return func(f protoreflect.FieldDescriptor) descriptor.Storage {
			switch {
			case isLazy(f):
				return descriptor.StorageLazy
			case !isMessage(f) || f.Cardinality() == protoreflect.Repeated:
				return descriptor.StorageValue
			}
			from, ok := scc[f.ContainingMessage().FullName()]
			if !ok {
				return descriptor.StorageValue
			}
			if to, ok := scc[f.Message().FullName()]; ok && to == from {
				return descriptor.StorageIndirect
			}
			return descriptor.StorageValue
		}, nil
	case LayoutPointer:
		return func(f protoreflect.FieldDescriptor) descriptor.Storage {
			switch {
			case isLazy(f):
				return descriptor.StorageLazy
			case isMessage(f):
				return descriptor.StorageIndirect
			}
			return descriptor.StorageValue
		}, nil
	}
	return nil, errors.Wrapf(ErrUnknownLayout, "'%s'", string(l))
}

func isMessage(f protoreflect.FieldDescriptor) bool {
	return f.Kind() == protoreflect.MessageKind || f.Kind() == protoreflect.GroupKind
}

func isLazy(f protoreflect.FieldDescriptor) bool {
	opts, ok := f.Options().(*descriptorpb.FieldOptions)
	return ok && (opts.GetLazy() || opts.GetUnverifiedLazy())
}

// recursionGroups assigns an id to every message of fd taking part in a
// recursion through singular, non-lazy message fields declared in fd. Two
// messages share an id iff they can reach each other through such fields.
// A message referring to itself gets an id of its own.
func recursionGroups(fd protoreflect.FileDescriptor) map[protoreflect.FullName]int {
	var msgs []protoreflect.MessageDescriptor
	walkMessages(fd.Messages(), func(md protoreflect.MessageDescriptor) {
		msgs = append(msgs, md)
	})

	deps := func(md protoreflect.MessageDescriptor) []protoreflect.FullName {
		var names []protoreflect.FullName
		fields := md.Fields()
		for i := 0; i < fields.Len(); i++ {
			f := fields.Get(i)
			if !isMessage(f) || f.Cardinality() == protoreflect.Repeated || isLazy(f) {
				continue
			}
			if f.Message().ParentFile().Path() != fd.Path() {
				continue
			}
			names = append(names, f.Message().FullName())
		}
		return names
	}

	// Tarjan's strongly connected components.
	var (
		index    int
		stack    []protoreflect.FullName
		onStack  = make(map[protoreflect.FullName]bool)
		indices  = make(map[protoreflect.FullName]int)
		lowlinks = make(map[protoreflect.FullName]int)
		edges    = make(map[protoreflect.FullName][]protoreflect.FullName, len(msgs))
		groups   = make(map[protoreflect.FullName]int)
		group    int
	)
	for _, md := range msgs {
		edges[md.FullName()] = deps(md)
	}

	var strongConnect func(name protoreflect.FullName)
	strongConnect = func(name protoreflect.FullName) {
		indices[name] = index
		lowlinks[name] = index
		index++
		stack = append(stack, name)
		onStack[name] = true

		for _, dep := range edges[name] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[name] = min(lowlinks[name], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[name] = min(lowlinks[name], indices[dep])
			}
		}

		if lowlinks[name] != indices[name] {
			return
		}
		var scc []protoreflect.FullName
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			scc = append(scc, w)
			if w == name {
				break
			}
		}
		if len(scc) == 1 && !refersTo(edges[name], name) {
			return
		}
		for _, w := range scc {
			groups[w] = group
		}
		group++
	}

	for _, md := range msgs {
		if _, visited := indices[md.FullName()]; !visited {
			strongConnect(md.FullName())
		}
	}
	return groups
}

func refersTo(names []protoreflect.FullName, name protoreflect.FullName) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
