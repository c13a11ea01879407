// Package flattener maps records onto fixed, ordered column schemas.
package flattener

import (
	"fmt"
	"html"
	"strings"

	"github.com/giygas/aides-extras/aidesparser/entities"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/pretty"
)

// ListSeparator joins the elements of list fields
const ListSeparator = "; "

// Transform turns one field into its cell text
type Transform func(entities.Value) string

// Column is one output column. Source is the record key it reads, the column
// name when empty. Transform defaults to FormatValue.
type Column struct {
	Name      string
	Source    string
	Transform Transform
}

func (c Column) source() string {
	if c.Source == "" {
		return c.Name
	}
	return c.Source
}

// Schema is an ordered set of uniquely named columns written with the given
// field delimiter.
type Schema struct {
	Name    string
	Comma   rune
	columns []Column
}

// NewSchema builds a schema, rejecting empty and duplicate column names.
func NewSchema(name string, comma rune, columns ...Column) (*Schema, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("schema %s: empty column name", name)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("schema %s: duplicate column %q", name, c.Name)
		}
		seen[c.Name] = true
	}

	return &Schema{
		Name:    name,
		Comma:   comma,
		columns: append([]Column(nil), columns...),
	}, nil
}

// SchemaFromNames builds a schema of plain columns
func SchemaFromNames(name string, comma rune, names ...string) (*Schema, error) {
	columns := make([]Column, len(names))
	for i, n := range names {
		columns[i] = Column{Name: n}
	}
	return NewSchema(name, comma, columns...)
}

func mustSchema(name string, comma rune, columns ...Column) *Schema {
	s, err := NewSchema(name, comma, columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Columns returns the column names in output order
func (s *Schema) Columns() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Flatten produces the row of r under s. Every column of s is present in the
// row; fields of r that s does not declare are dropped.
func Flatten(r entities.Record, s *Schema) entities.FlatRow {
	row := make(entities.FlatRow, len(s.columns))
	for _, c := range s.columns {
		v := r.Get(c.source())
		if c.Transform != nil {
			row[c.Name] = c.Transform(v)
			continue
		}
		row[c.Name] = FormatValue(v)
	}
	return row
}

// FlattenAll flattens records in order
func FlattenAll(records []entities.Record, s *Schema) []entities.FlatRow {
	rows := make([]entities.FlatRow, len(records))
	for i, r := range records {
		rows[i] = Flatten(r, s)
	}
	return rows
}

// FormatValue renders a field as cell text:
// absent and null give "", booleans give "True" or "False", numbers keep their
// JSON literal, lists are joined with ListSeparator and objects are written as
// compact JSON.
func FormatValue(v entities.Value) string {
	switch v.Kind() {
	case entities.Absent, entities.Null:
		return ""
	case entities.Bool:
		if v.Bool() {
			return "True"
		}
		return "False"
	case entities.Number, entities.String:
		return v.Str()
	case entities.List:
		return joinList(v.Items())
	case entities.Object:
		return string(pretty.Ugly([]byte(v.Raw())))
	}
	return ""
}

// joinList joins list elements. An object element contributes its "name"
// field. In a list holding objects, the other falsy elements are blank.
func joinList(items []entities.Value) string {
	if len(items) == 0 {
		return ""
	}

	hasObject := false
	for _, it := range items {
		if it.Kind() == entities.Object {
			hasObject = true
			break
		}
	}

	parts := make([]string, len(items))
	for i, it := range items {
		switch {
		case it.Kind() == entities.Object:
			parts[i] = FormatValue(it.Get("name"))
		case hasObject && !it.Truthy():
			parts[i] = ""
		default:
			parts[i] = FormatValue(it)
		}
	}
	return strings.Join(parts, ListSeparator)
}

var htmlPolicy = bluemonday.StrictPolicy()

// CleanHTML decodes entities, strips tags and collapses whitespace.
func CleanHTML(s string) string {
	if s == "" {
		return ""
	}
	s = html.UnescapeString(s)
	// The sanitizer escapes the text it keeps
	s = html.UnescapeString(htmlPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// HTMLText is the Transform of the *_clean columns
func HTMLText(v entities.Value) string {
	return CleanHTML(FormatValue(v))
}
