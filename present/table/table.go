// Package table provides a table like formatting.
package table

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

// Presenter formats a struct holding a slice of structs into a table. Each
// element of the slice is a row. Column names are taken from the "table"
// struct tag, or the lowercased field name. Fields tagged with "-" are
// skipped and slice fields are joined with commas.
type Presenter struct{}

func indirect(rv reflect.Value) reflect.Value {
	if rv.Type().Kind() != reflect.Ptr {
		return rv
	}
	return indirect(reflect.Indirect(rv))
}

func indirectType(rt reflect.Type) reflect.Type {
	if rt.Kind() != reflect.Ptr {
		return rt
	}
	return indirectType(rt.Elem())
}

func (p *Presenter) Format(v interface{}, indent string) (string, error) {
	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return "", errors.New("v should be a struct type")
	}

	var rows reflect.Value
	for i := 0; i < rv.NumField(); i++ {
		if f := rv.Field(i); f.Kind() == reflect.Slice {
			rows = f
			break
		}
	}
	if !rows.IsValid() {
		return "", errors.New("the struct should have a slice field")
	}
	rt := indirectType(rows.Type().Elem())
	if rt.Kind() != reflect.Struct {
		return "", errors.New("v should have a slice of a struct")
	}

	keys := processStructKeys(rt)
	vals := make([][]string, 0, rows.Len())
	for i := 0; i < rows.Len(); i++ {
		vals = append(vals, processStructValues(indirect(rows.Index(i))))
	}

	var w bytes.Buffer
	table := tablewriter.NewWriter(&w)
	table.SetHeader(keys)
	table.SetAutoWrapText(false)
	table.AppendBulk(vals)
	table.Render()
	return w.String(), nil
}

func processStructKeys(rt reflect.Type) []string {
	keys := make([]string, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		key := sf.Tag.Get("table")
		if key == "-" {
			continue
		}
		if key == "" {
			key = strings.ToLower(sf.Name)
		}
		keys = append(keys, key)
	}
	return keys
}

func processStructValues(rv reflect.Value) []string {
	rt := rv.Type()
	row := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		if rt.Field(i).Tag.Get("table") == "-" {
			continue
		}
		f := rv.Field(i)
		if f.Kind() != reflect.Slice {
			row = append(row, fmt.Sprint(f.Interface()))
			continue
		}
		elems := make([]string, f.Len())
		for j := 0; j < f.Len(); j++ {
			elems[j] = fmt.Sprint(f.Index(j).Interface())
		}
		row = append(row, strings.Join(elems, ", "))
	}
	return row
}

func NewPresenter() *Presenter {
	return &Presenter{}
}
