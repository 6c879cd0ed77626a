// Package descriptortest provides helpers for building descriptor.File values
// in tests.
package descriptortest

import (
	"fmt"

	"github.com/ktr0731/protoorder/descriptor"
)

// File returns a file declaring msgs at the top level.
func File(msgs ...*descriptor.Message) *descriptor.File {
	return &descriptor.File{Path: "test.proto", Messages: msgs}
}

// Msg returns a message named name with fields.
func Msg(name string, fields ...*descriptor.Field) *descriptor.Message {
	for i, f := range fields {
		if f.Number == 0 {
			f.Number = int32(i + 1)
		}
	}
	return &descriptor.Message{FullName: name, Fields: fields}
}

// Nest appends nested to m and returns m.
func Nest(m *descriptor.Message, nested ...*descriptor.Message) *descriptor.Message {
	m.Nested = append(m.Nested, nested...)
	return m
}

// Extend appends an extension of extendee declared in m and returns m.
// value is the extension's field.
func Extend(m *descriptor.Message, extendee string, value *descriptor.Field) *descriptor.Message {
	m.Extensions = append(m.Extensions, &descriptor.Extension{
		FullName: m.FullName + "." + value.Name,
		Number:   int32(1000 + len(m.Extensions)),
		Extendee: extendee,
		Field:    value,
	})
	return m
}

// Value returns a singular message field embedding target by value.
func Value(name, target string) *descriptor.Field {
	return &descriptor.Field{Name: name, Kind: descriptor.KindMessage, Type: target}
}

// Pointer returns a singular message field holding target indirectly.
func Pointer(name, target string) *descriptor.Field {
	return &descriptor.Field{Name: name, Kind: descriptor.KindMessage, Type: target, Storage: descriptor.StorageIndirect}
}

// Lazy returns a singular message field materialized lazily.
func Lazy(name, target string) *descriptor.Field {
	return &descriptor.Field{Name: name, Kind: descriptor.KindMessage, Type: target, Storage: descriptor.StorageLazy}
}

// Repeated returns a repeated message field.
func Repeated(name, target string) *descriptor.Field {
	return &descriptor.Field{Name: name, Kind: descriptor.KindMessage, Type: target, Cardinality: descriptor.Repeated}
}

// MapOf returns a map field whose entry type is entry.
func MapOf(name, entry string) *descriptor.Field {
	return &descriptor.Field{Name: name, Kind: descriptor.KindMessage, Type: entry, Cardinality: descriptor.Map}
}

// Enum returns an enum field.
func Enum(name, target string) *descriptor.Field {
	return &descriptor.Field{Name: name, Kind: descriptor.KindEnum, Type: target}
}

// Scalar returns a scalar field of type typ.
func Scalar(name, typ string) *descriptor.Field {
	return &descriptor.Field{Name: name, Kind: descriptor.KindScalar, Type: typ}
}

// Large synthesizes a deterministic file with 7n/3 or more messages. Every
// top-level message owns a nested group embedded by value, every third one a
// map entry, and every fifth one an extension. Pointer fields link each
// message to both neighbours, forming soft cycles through the whole file.
// By-value edges follow a rank permutation unrelated to declaration order,
// so they never form a cycle but often point forward.
//
// n must be coprime with 37.
func Large(n int) *descriptor.File {
	name := func(i int) string {
		return fmt.Sprintf("large.Type%03d", (i+n)%n)
	}
	rank := func(i int) int { return (i * 37) % n }

	f := &descriptor.File{Path: "large.proto", Package: "large", Enums: []string{"large.Color"}}
	for i := 0; i < n; i++ {
		m := Msg(name(i),
			Scalar("id", "int64"),
			Enum("color", "large.Color"),
			Pointer("next", name(i+1)),
			Pointer("prev", name(i-1)),
			Repeated("siblings", name(i+2)),
		)

		group := Msg(name(i)+".Group", Scalar("label", "string"))
		for d := 1; d < n; d++ {
			if j := (i + d*d) % n; rank(j) < rank(i) {
				group.Fields = append(group.Fields, Value("ref", name(j)))
				break
			}
		}
		Nest(m, group)
		m.Fields = append(m.Fields, Value("group", group.FullName))

		for d := 3; d < n; d += 4 {
			if j := (i + d) % n; rank(j) < rank(i) {
				m.Fields = append(m.Fields, Value(fmt.Sprintf("embedded%d", d), name(j)))
				if len(m.Fields) > 8 {
					break
				}
			}
		}

		if i%3 == 0 {
			entry := Msg(name(i)+".ItemsEntry", Scalar("key", "string"), Value("value", name(i+7)))
			entry.MapEntry = true
			Nest(m, entry)
			m.Fields = append(m.Fields, MapOf("items", entry.FullName))
		}
		if i%5 == 0 {
			Extend(m, name(i+2), Value("ext", name(i+3)))
		}
		for k, fd := range m.Fields {
			fd.Number = int32(k + 1)
		}
		f.Messages = append(f.Messages, m)
	}
	return f
}
