package proto

import (
	"github.com/ktr0731/protoorder/descriptor"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Convert converts fd into a descriptor.File, deciding the storage of every
// field with l.
//
// Messages keep their declaration order and synthetic map entry types are
// kept as nested messages. Groups are message fields. Extensions declared at
// file scope have no declaring message and are dropped. Dependencies lists
// every message declared in the transitive imports of fd.
func Convert(fd protoreflect.FileDescriptor, l Layout) (*descriptor.File, error) {
	storage, err := l.storage(fd)
	if err != nil {
		return nil, err
	}

	c := &converter{storage: storage}
	f := &descriptor.File{
		Path:     fd.Path(),
		Package:  string(fd.Package()),
		Messages: c.messages(fd.Messages()),
		Enums:    enums(fd.Enums(), fd.Messages()),
	}

	seen := map[string]bool{fd.Path(): true}
	var imports func(fd protoreflect.FileDescriptor)
	imports = func(fd protoreflect.FileDescriptor) {
		for i := 0; i < fd.Imports().Len(); i++ {
			imp := fd.Imports().Get(i).FileDescriptor
			if seen[imp.Path()] {
				continue
			}
			seen[imp.Path()] = true
			walkMessages(imp.Messages(), func(md protoreflect.MessageDescriptor) {
				f.Dependencies = append(f.Dependencies, string(md.FullName()))
			})
			imports(imp)
		}
	}
	imports(fd)

	return f, nil
}

type converter struct {
	storage storageFunc
}

func (c *converter) messages(mds protoreflect.MessageDescriptors) []*descriptor.Message {
	if mds.Len() == 0 {
		return nil
	}
	msgs := make([]*descriptor.Message, mds.Len())
	for i := 0; i < mds.Len(); i++ {
		msgs[i] = c.message(mds.Get(i))
	}
	return msgs
}

func (c *converter) message(md protoreflect.MessageDescriptor) *descriptor.Message {
	m := &descriptor.Message{
		FullName: string(md.FullName()),
		Nested:   c.messages(md.Messages()),
		MapEntry: md.IsMapEntry(),
	}
	for i := 0; i < md.Fields().Len(); i++ {
		m.Fields = append(m.Fields, c.field(md.Fields().Get(i)))
	}
	for i := 0; i < md.Extensions().Len(); i++ {
		xd := md.Extensions().Get(i)
		m.Extensions = append(m.Extensions, &descriptor.Extension{
			FullName: string(xd.FullName()),
			Number:   int32(xd.Number()),
			Extendee: string(xd.ContainingMessage().FullName()),
			Field:    c.field(xd),
		})
	}
	return m
}

func (c *converter) field(f protoreflect.FieldDescriptor) *descriptor.Field {
	fd := &descriptor.Field{
		Name:    string(f.Name()),
		Number:  int32(f.Number()),
		Storage: c.storage(f),
	}
	switch {
	case f.IsMap():
		fd.Cardinality = descriptor.Map
	case f.IsList():
		fd.Cardinality = descriptor.Repeated
	}
	switch f.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		fd.Kind = descriptor.KindMessage
		fd.Type = string(f.Message().FullName())
	case protoreflect.EnumKind:
		fd.Kind = descriptor.KindEnum
		fd.Type = string(f.Enum().FullName())
	default:
		fd.Kind = descriptor.KindScalar
		fd.Type = f.Kind().String()
	}
	return fd
}

func enums(eds protoreflect.EnumDescriptors, mds protoreflect.MessageDescriptors) []string {
	var names []string
	for i := 0; i < eds.Len(); i++ {
		names = append(names, string(eds.Get(i).FullName()))
	}
	walkMessages(mds, func(md protoreflect.MessageDescriptor) {
		for i := 0; i < md.Enums().Len(); i++ {
			names = append(names, string(md.Enums().Get(i).FullName()))
		}
	})
	return names
}

func walkMessages(mds protoreflect.MessageDescriptors, fn func(protoreflect.MessageDescriptor)) {
	for i := 0; i < mds.Len(); i++ {
		md := mds.Get(i)
		fn(md)
		walkMessages(md.Messages(), fn)
	}
}
