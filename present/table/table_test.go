package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPresenter(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		const expected = `+----------+--------+------------+
|  FIELD1  | FIELD2 |   FIELD3   |
+----------+--------+------------+
| field1-1 |    100 | {field3-1} |
| field1-2 |    300 | {field3-2} |
+----------+--------+------------+
`
		type Struct struct {
			StructField string
		}
		type v struct {
			Field1 string
			Field2 int
			Field3 Struct
		}
		type wrapper struct {
			Fields []*v
		}

		vi := &wrapper{
			Fields: []*v{
				{
					Field1: "field1-1",
					Field2: 100,
					Field3: Struct{"field3-1"},
				},
				{
					Field1: "field1-2",
					Field2: 300,
					Field3: Struct{"field3-2"},
				},
			},
		}
		p := NewPresenter()
		actual, err := p.Format(&vi, "")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(expected, actual); diff != "" {
			t.Errorf("(-want, +got)\n%s", diff)
		}
	})

	t.Run("tags and slices", func(t *testing.T) {
		const expected = `+------+-----------+
| NAME | HARD DEPS |
+------+-----------+
| a    | b, c      |
| b    |           |
+------+-----------+
`
		type row struct {
			Name   string
			Hidden int      `table:"-"`
			Deps   []string `table:"hard deps"`
		}
		type wrapper struct {
			Rows []row
		}

		p := NewPresenter()
		actual, err := p.Format(wrapper{Rows: []row{{Name: "a", Deps: []string{"b", "c"}}, {Name: "b"}}}, "")
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(expected, actual); diff != "" {
			t.Errorf("(-want, +got)\n%s", diff)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		cases := map[string]interface{}{
			"not a struct":        100,
			"doesn't have slices": struct{ V int }{1},
			"slice of non-struct": struct{ V []int }{[]int{1}},
		}
		for name, v := range cases {
			v := v
			t.Run(name, func(t *testing.T) {
				if _, err := NewPresenter().Format(v, ""); err == nil {
					t.Error("should return an error, but got nil")
				}
			})
		}
	})
}
