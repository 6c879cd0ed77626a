package generator_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ktr0731/protoorder/descriptor"
	dt "github.com/ktr0731/protoorder/descriptor/descriptortest"
	"github.com/ktr0731/protoorder/generator"
	"github.com/ktr0731/protoorder/graph"
	"github.com/ktr0731/protoorder/proto"
	"github.com/ktr0731/protoorder/topo"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T, l proto.Layout) *generator.FileGenerator {
	t.Helper()
	return newFileGenerator(t, "unittest.proto", l)
}

func newFileGenerator(t *testing.T, fname string, l proto.Layout) *generator.FileGenerator {
	t.Helper()
	fds, err := proto.Compile(context.Background(), []string{"../proto/testdata"}, []string{fname})
	require.NoError(t, err)
	f, err := proto.Convert(fds[0], l)
	require.NoError(t, err)
	g, err := generator.New(f)
	require.NoError(t, err)
	return g
}

// The descriptors must be ordered in a topological order.
func TestTopologicallyOrderedDescriptors(t *testing.T) {
	expected := []string{
		"TestAllTypes.OptionalGroup",
		"TestAllTypes.NestedMessage",
		"ForeignMessage",
		"TestAllTypes.RepeatedGroup",
		"TestAllTypes",
		"NestedTestAllTypes",
		"TestAllExtensions",
		"TestRequired",
		"TestRequiredForeign",
		"TestRecursiveMessage",
		"TestMutualRecursionB",
		"TestMutualRecursionA.SubMessage",
		"TestMutualRecursionA.SubGroup",
		"TestMutualRecursionA",
		"TestMaps.MapInt32Int32Entry",
		"TestMaps.MapStringForeignMessageEntry",
		"TestMaps.MapInt32EnumEntry",
		"TestMaps",
		"TestNestedExtension",
		"TestNestedExtension.Payload",
		"TestExtensionOrderings2",
		"TestExtensionOrderings1",
		"TestExtensionOrderings2.TestExtensionOrderings3",
		"Inner",
		"Outer",
		"TestEmptyMessage",
	}

	for _, l := range []proto.Layout{proto.LayoutValue, proto.LayoutPointer} {
		l := l
		t.Run(string(l), func(t *testing.T) {
			g := newGenerator(t, l)
			var actual []string
			for _, m := range g.MessagesInTopologicalOrder() {
				actual = append(actual, strings.TrimPrefix(m.FullName, "protoorder_unittest."))
			}
			if diff := cmp.Diff(expected, actual); diff != "" {
				t.Errorf("(-want, +got)\n%s", diff)
			}
			assert.NoError(t, g.Verify())
		})
	}
}

func TestMessagesInTopologicalOrderReturnsDescriptors(t *testing.T) {
	g := newGenerator(t, proto.LayoutValue)
	order := g.MessagesInTopologicalOrder()
	require.Len(t, order, g.File().Len())

	for _, m := range order {
		assert.Same(t, g.File().Lookup(m.FullName), m, "the order must hold the descriptors of the file")
	}

	order[0] = nil
	assert.NotNil(t, g.MessagesInTopologicalOrder()[0], "the returned slice must be a copy")
}

func TestGenerate(t *testing.T) {
	f := dt.File(
		dt.Msg("Outer", dt.Value("inner", "Inner")),
		dt.Msg("Inner"),
		dt.Msg("Other"),
	)
	g, err := generator.New(f)
	require.NoError(t, err)
	assert.Same(t, f, g.File())
	assert.Equal(t, 3, g.Graph().Len())

	t.Run("emits in order", func(t *testing.T) {
		var emitted []string
		err := g.Generate(generator.EmitterFunc(func(m *descriptor.Message) error {
			emitted = append(emitted, m.FullName)
			return nil
		}))
		require.NoError(t, err)
		if diff := cmp.Diff([]string{"Inner", "Outer", "Other"}, emitted); diff != "" {
			t.Errorf("(-want, +got)\n%s", diff)
		}
	})

	t.Run("stops at the first error", func(t *testing.T) {
		errEmit := errors.New("disk full")
		var n int
		err := g.Generate(generator.EmitterFunc(func(m *descriptor.Message) error {
			n++
			return errEmit
		}))
		assert.True(t, errors.Is(err, errEmit), "want the emitter error, but got '%v'", err)
		assert.Contains(t, err.Error(), "Inner")
		assert.Equal(t, 1, n)
	})
}

func TestNewErrors(t *testing.T) {
	cases := map[string]struct {
		file *descriptor.File
		want error
	}{
		"unresolved reference": {
			file: dt.File(dt.Msg("A", dt.Value("b", "B"))),
			want: graph.ErrUnresolvedType,
		},
		"hard cycle": {
			file: dt.File(dt.Msg("A", dt.Value("b", "B")), dt.Msg("B", dt.Value("a", "A"))),
			want: topo.ErrHardCycle,
		},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			_, err := generator.New(c.file)
			assert.True(t, errors.Is(err, c.want), "want '%s', but got '%v'", c.want, err)
			assert.Contains(t, err.Error(), c.file.Path)
		})
	}
}

func TestLargeFile(t *testing.T) {
	f := dt.Large(91)
	g, err := generator.New(f)
	require.NoError(t, err)

	order := g.MessagesInTopologicalOrder()
	assert.Len(t, order, f.Len())
	assert.Greater(t, len(order), 150)
	assert.NoError(t, g.Verify())
}

func TestLargeProtoFile(t *testing.T) {
	cases := map[proto.Layout]struct {
		hard     bool
		indirect bool
	}{
		// Recursive references are boxed, the rest stays by value.
		proto.LayoutValue:   {hard: true, indirect: true},
		proto.LayoutPointer: {hard: false, indirect: true},
	}

	for l, c := range cases {
		l, c := l, c
		t.Run(string(l), func(t *testing.T) {
			g := newFileGenerator(t, "large.proto", l)
			f := g.File()
			require.Equal(t, 180, f.Len())

			var entries, indirect int
			f.Walk(func(m *descriptor.Message) bool {
				if m.MapEntry {
					entries++
				}
				for _, fd := range m.Fields {
					if fd.Storage == descriptor.StorageIndirect {
						indirect++
					}
				}
				return true
			})
			assert.Equal(t, 20, entries)
			assert.Equal(t, c.indirect, indirect > 0)
			assert.Equal(t, c.hard, g.Graph().EdgeCount(graph.Hard) > 0)
			assert.NotZero(t, g.Graph().EdgeCount(graph.Soft))

			order := g.MessagesInTopologicalOrder()
			assert.Len(t, order, f.Len())
			assert.NoError(t, g.Verify())

			again := newFileGenerator(t, "large.proto", l).MessagesInTopologicalOrder()
			require.Len(t, again, len(order))
			for i := range order {
				assert.Equal(t, order[i].FullName, again[i].FullName, "the order must be deterministic")
			}
		})
	}
}
