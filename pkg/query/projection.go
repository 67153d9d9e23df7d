// Package query builds parameterized Postgres SELECT statements over a
// single aliased table.
package query

import "strings"

// ProjectionMap binds the field names exposed by a domain type to the
// alias-qualified columns that back them.
type ProjectionMap struct {
	from    string
	alias   string
	byField map[string]string
	ordered []string
}

func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		from:    schema + "." + table + " " + alias,
		alias:   alias,
		byField: make(map[string]string),
	}
}

// Project maps column to field. Columns are selected in projection order,
// which is the order scan functions must read them in.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.byField[field] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

func (p *ProjectionMap) From() string {
	return p.from
}

// Lookup reports the column projected for field.
func (p *ProjectionMap) Lookup(field string) (string, bool) {
	col, ok := p.byField[field]
	return col, ok
}

// Column resolves field to its column. Unprojected names are returned
// unchanged so callers can reference raw expressions.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.byField[field]; ok {
		return col
	}
	return field
}

func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}
