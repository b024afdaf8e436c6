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

// Presenter formats the first struct slice of v as a table. Each element is
// a row and each field is a column named by its "table" tag. Fields tagged
// with "-" are skipped.
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

func findSlice(rv reflect.Value) (reflect.Value, bool) {
	if rv.Kind() == reflect.Slice {
		return rv, true
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if rv.Type().Field(i).Tag.Get("table") == "-" {
			continue
		}
		if f.Kind() == reflect.Slice && indirectType(f.Type().Elem()).Kind() == reflect.Struct {
			return f, true
		}
	}
	return rv, false
}

// Format formats v. indent is ignored.
func (p *Presenter) Format(v interface{}, indent string) (string, error) {
	rv := indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Slice {
		return "", errors.New("v should be a struct or a slice type")
	}
	rows, ok := findSlice(rv)
	if !ok {
		return "", errors.New("v should have a struct slice")
	}
	elem := indirectType(rows.Type().Elem())
	if elem.Kind() != reflect.Struct {
		return "", errors.New("the slice should hold structs")
	}

	var w bytes.Buffer
	table := tablewriter.NewWriter(&w)
	table.SetHeader(processStructKeys(elem))
	for i := 0; i < rows.Len(); i++ {
		table.Append(processStructValues(indirect(rows.Index(i))))
	}
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
	row := make([]string, 0, rv.NumField())
	for i := 0; i < rv.NumField(); i++ {
		if rv.Type().Field(i).Tag.Get("table") == "-" {
			continue
		}
		row = append(row, fmt.Sprint(rv.Field(i).Interface()))
	}
	return row
}

func NewPresenter() *Presenter {
	return &Presenter{}
}
