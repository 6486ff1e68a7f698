// Package schema describes database tables as ordered column
// definitions. A Schema is built once at startup and is read-only
// afterwards; statement builders and the DDL generator borrow it.
package schema

import (
	"fmt"
)

// PrimitiveKind enumerates the scalar column domains.
type PrimitiveKind string

const (
	KindNumber  PrimitiveKind = "number"
	KindString  PrimitiveKind = "string"
	KindBoolean PrimitiveKind = "boolean"
	KindDate    PrimitiveKind = "date"
)

// ColumnType is the tagged representation of a column's data domain.
type ColumnType interface {
	columnType()
}

// Primitive is a scalar column type.
type Primitive struct {
	Kind PrimitiveKind
}

// Json is stored as JSONB.
type Json struct{}

// Uuid is a UUID column type.
type Uuid struct{}

// Enum is a TEXT column restricted to a fixed, non-empty set of values.
type Enum struct {
	Values []string
}

// Array is an array of a primitive item type.
type Array struct {
	Item Primitive
}

func (Primitive) columnType() {}
func (Json) columnType()      {}
func (Uuid) columnType()      {}
func (Enum) columnType()      {}
func (Array) columnType()     {}

// Number returns a numeric column type.
func Number() Primitive { return Primitive{Kind: KindNumber} }

// String returns a text column type.
func String() Primitive { return Primitive{Kind: KindString} }

// Boolean returns a boolean column type.
func Boolean() Primitive { return Primitive{Kind: KindBoolean} }

// Date returns a timestamp column type.
func Date() Primitive { return Primitive{Kind: KindDate} }

// Column pairs a name with a type descriptor and its constraints.
// Columns are values; the fluent modifiers below return copies, so a
// Column can be shared between tables without aliasing.
type Column struct {
	Name       string
	Type       ColumnType
	Nullable   bool
	PrimaryKey bool
	Default    interface{}
	HasDefault bool
}

// Col creates a column definition from a name and type descriptor.
func Col(name string, t ColumnType) Column {
	return Column{Name: name, Type: t}
}

// Null marks the column as nullable.
func (c Column) Null() Column {
	c.Nullable = true
	return c
}

// Primary marks the column as the primary key.
func (c Column) Primary() Column {
	c.PrimaryKey = true
	return c
}

// WithDefault sets the column default. The value must be representable
// as a SQL literal in the column's domain.
func (c Column) WithDefault(v interface{}) Column {
	c.Default = v
	c.HasDefault = true
	return c
}

// Table is an ordered set of column definitions. Declaration order is
// the DDL column order.
type Table struct {
	Name    string
	Columns []Column
}

// NewTable creates a table from column definitions in declaration order.
func NewTable(name string, columns ...Column) Table {
	return Table{Name: name, Columns: columns}
}

// Column looks up a column definition by name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Schema is the registry of tables, keyed by name with declaration
// order preserved.
type Schema struct {
	tables []Table
	byName map[string]int
}

// New builds a schema registry and validates its shape: table and
// column names must be unique and enums must carry at least one value.
func New(tables ...Table) (*Schema, error) {
	s := &Schema{
		tables: tables,
		byName: make(map[string]int, len(tables)),
	}
	for i, table := range tables {
		if table.Name == "" {
			return nil, fmt.Errorf("table %d has no name", i)
		}
		if _, exists := s.byName[table.Name]; exists {
			return nil, fmt.Errorf("duplicate table %q", table.Name)
		}
		s.byName[table.Name] = i

		seen := make(map[string]bool, len(table.Columns))
		for _, col := range table.Columns {
			if col.Name == "" {
				return nil, fmt.Errorf("table %q has an unnamed column", table.Name)
			}
			if seen[col.Name] {
				return nil, fmt.Errorf("table %q: duplicate column %q", table.Name, col.Name)
			}
			seen[col.Name] = true
			if enum, ok := col.Type.(Enum); ok && len(enum.Values) == 0 {
				return nil, fmt.Errorf("table %q: enum column %q has no values", table.Name, col.Name)
			}
		}
	}
	return s, nil
}

// MustNew builds a schema registry, panicking on invalid shape.
func MustNew(tables ...Table) *Schema {
	s, err := New(tables...)
	if err != nil {
		panic(err)
	}
	return s
}

// Table looks up a table by name.
func (s *Schema) Table(name string) (Table, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Table{}, false
	}
	return s.tables[i], true
}

// Tables returns every table in declaration order.
func (s *Schema) Tables() []Table {
	return s.tables
}
