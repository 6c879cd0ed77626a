// Package descriptor defines the schema model the ordering pipeline consumes.
//
// A File is a validated, immutable tree of message descriptors. Values of this
// package must not be modified once they are handed to graph.Build; every
// component downstream keeps pointers to the same descriptor objects and only
// reorders them.
package descriptor

import "fmt"

// Kind is the kind of type a field refers to.
type Kind int

const (
	KindScalar Kind = iota
	KindEnum
	KindMessage
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindEnum:
		return "enum"
	case KindMessage:
		return "message"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Cardinality is how many values of the target type a field holds.
type Cardinality int

const (
	Singular Cardinality = iota
	Repeated
	// Map means the field is a map and its target is the synthetic entry type.
	Map
)

func (c Cardinality) String() string {
	switch c {
	case Singular:
		return "singular"
	case Repeated:
		return "repeated"
	case Map:
		return "map"
	}
	return fmt.Sprintf("Cardinality(%d)", int(c))
}

// Storage is how a field's value is laid out inside the containing type.
type Storage int

const (
	// StorageValue means the value is embedded, so the target type must be
	// complete at the point the containing type is defined.
	StorageValue Storage = iota
	// StorageIndirect means the value is held behind a pointer.
	StorageIndirect
	// StorageLazy means the value is materialized on first access.
	StorageLazy
)

func (s Storage) String() string {
	switch s {
	case StorageValue:
		return "value"
	case StorageIndirect:
		return "indirect"
	case StorageLazy:
		return "lazy"
	}
	return fmt.Sprintf("Storage(%d)", int(s))
}

// Field is a field declared in a message.
type Field struct {
	Name   string
	Number int32
	Kind   Kind
	// Type is the fully-qualified name of the target for enum and message
	// fields, and the scalar type name otherwise.
	Type        string
	Cardinality Cardinality
	Storage     Storage
}

// Embedded reports whether the field requires its target to be complete.
func (f *Field) Embedded() bool {
	return f.Kind == KindMessage && f.Cardinality == Singular && f.Storage == StorageValue
}

// Extension is an extension declared inside a message scope.
type Extension struct {
	FullName string
	Number   int32
	// Extendee is the fully-qualified name of the extended message.
	Extendee string
	// Field describes the extension value.
	Field *Field
}

// Message is a message type. Nested lists the lexically nested messages,
// including synthetic map entry types.
type Message struct {
	FullName   string
	Fields     []*Field
	Nested     []*Message
	Extensions []*Extension
	MapEntry   bool
}

// Name returns the last component of the full name.
func (m *Message) Name() string {
	for i := len(m.FullName) - 1; i >= 0; i-- {
		if m.FullName[i] == '.' {
			return m.FullName[i+1:]
		}
	}
	return m.FullName
}

func (m *Message) String() string {
	return m.FullName
}

// File is one schema file.
type File struct {
	Path    string
	Package string
	// Messages are the top-level messages in declaration order.
	Messages []*Message
	// Enums are the fully-qualified names of enums declared in the file.
	Enums []string
	// Dependencies are the fully-qualified names of messages declared in
	// imported files.
	Dependencies []string
}

// Walk calls fn for every message of f, depth-first in declaration order.
// A message is visited before its nested messages. Walk stops when fn
// returns false.
func (f *File) Walk(fn func(m *Message) bool) {
	var walk func(ms []*Message) bool
	walk = func(ms []*Message) bool {
		for _, m := range ms {
			if !fn(m) {
				return false
			}
			if !walk(m.Nested) {
				return false
			}
		}
		return true
	}
	walk(f.Messages)
}

// Lookup returns the message named name, or nil.
func (f *File) Lookup(name string) *Message {
	var found *Message
	f.Walk(func(m *Message) bool {
		if m.FullName == name {
			found = m
			return false
		}
		return true
	})
	return found
}

// Len returns the number of messages in f, nested ones included.
func (f *File) Len() int {
	var n int
	f.Walk(func(*Message) bool {
		n++
		return true
	})
	return n
}
