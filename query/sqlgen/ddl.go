package sqlgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quillsql/quill/schema"
)

// GenerateCreateTable renders a CREATE TABLE IF NOT EXISTS statement
// for one table. Column order in the DDL is the schema declaration
// order.
func GenerateCreateTable(table schema.Table) (string, error) {
	defs := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		def, err := columnDefinition(col)
		if err != nil {
			return "", fmt.Errorf("table %q: %w", table.Name, err)
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		quoteIdentifier(table.Name), strings.Join(defs, ", ")), nil
}

// GenerateSchema renders DDL for every table in the registry, in
// declaration order.
func GenerateSchema(s *schema.Schema) ([]string, error) {
	tables := s.Tables()
	statements := make([]string, 0, len(tables))
	for _, table := range tables {
		ddl, err := GenerateCreateTable(table)
		if err != nil {
			return nil, err
		}
		statements = append(statements, ddl)
	}
	return statements, nil
}

func columnDefinition(col schema.Column) (string, error) {
	token, check, err := typeToken(col.Name, col.Type)
	if err != nil {
		return "", err
	}

	parts := []string{quoteIdentifier(col.Name), token}
	if !col.Nullable {
		parts = append(parts, "NOT NULL")
	}
	if col.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
	}
	if col.HasDefault {
		literal, err := defaultLiteral(col.Default)
		if err != nil {
			return "", fmt.Errorf("column %q: %w", col.Name, err)
		}
		parts = append(parts, "DEFAULT "+literal)
	}
	if check != "" {
		parts = append(parts, check)
	}
	return strings.Join(parts, " "), nil
}

// typeToken maps a column descriptor to its PostgreSQL type token,
// plus a CHECK constraint for enums.
func typeToken(name string, t schema.ColumnType) (token, check string, err error) {
	switch v := t.(type) {
	case schema.Primitive:
		tok, ok := primitiveToken(v.Kind)
		if !ok {
			return "", "", fmt.Errorf("column %q: %w: primitive kind %q", name, ErrUnsupportedColumnType, v.Kind)
		}
		return tok, "", nil
	case schema.Json:
		return "JSONB", "", nil
	case schema.Uuid:
		return "UUID", "", nil
	case schema.Enum:
		if len(v.Values) == 0 {
			return "", "", fmt.Errorf("column %q: %w: enum with no values", name, ErrUnsupportedColumnType)
		}
		quoted := make([]string, len(v.Values))
		for i, value := range v.Values {
			quoted[i] = quoteLiteral(value)
		}
		check := fmt.Sprintf("CHECK (%s IN (%s))", quoteIdentifier(name), strings.Join(quoted, ", "))
		return "TEXT", check, nil
	case schema.Array:
		tok, ok := primitiveToken(v.Item.Kind)
		if !ok {
			return "", "", fmt.Errorf("column %q: %w: array item kind %q", name, ErrUnsupportedColumnType, v.Item.Kind)
		}
		return tok + "[]", "", nil
	default:
		return "", "", fmt.Errorf("column %q: %w", name, ErrUnsupportedColumnType)
	}
}

func primitiveToken(kind schema.PrimitiveKind) (string, bool) {
	switch kind {
	case schema.KindNumber:
		return "INTEGER", true
	case schema.KindString:
		return "TEXT", true
	case schema.KindBoolean:
		return "BOOLEAN", true
	case schema.KindDate:
		return "TIMESTAMP", true
	default:
		return "", false
	}
}

// defaultLiteral renders a default value as a SQL literal: strings are
// single-quoted, booleans and numbers stay bare, anything else is
// JSON-serialized and then quoted.
func defaultLiteral(v interface{}) (string, error) {
	switch value := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return quoteLiteral(value), nil
	case bool:
		return fmt.Sprintf("%t", value), nil
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprintf("%v", value), nil
	default:
		serialized, err := json.Marshal(value)
		if err != nil {
			return "", fmt.Errorf("default value is not serializable: %w", err)
		}
		return quoteLiteral(string(serialized)), nil
	}
}

// quoteLiteral single-quotes a string for inline SQL, doubling any
// embedded quotes.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
