// Package query builds parameterized Postgres queries over a projection of
// view field names onto table columns.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view field names to qualified columns (alias.column) of
// a single table. Only mapped fields may appear in ORDER BY.
type ProjectionMap struct {
	from    string
	alias   string
	columns map[string]string
	order   []string
}

// NewProjectionMap creates a ProjectionMap over schema.table with alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		from:    fmt.Sprintf("%s.%s %s", schema, table, alias),
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to the view field name. Columns are selected in the
// order they are projected.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.columns[field] = qualified
	p.order = append(p.order, qualified)
	return p
}

// From returns the table reference with alias for a FROM clause.
func (p *ProjectionMap) From() string {
	return p.from
}

// Lookup returns the qualified column for field.
func (p *ProjectionMap) Lookup(field string) (string, bool) {
	col, ok := p.columns[field]
	return col, ok
}

// Column returns the qualified column for field, or field itself when unmapped.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.columns[field]; ok {
		return col
	}
	return field
}

// Columns returns the projected columns as a select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.order, ", ")
}
