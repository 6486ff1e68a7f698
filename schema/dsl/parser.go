// Package dsl parses the quill schema definition language into a
// schema registry. The format is a plain-text mirror of the schema
// package:
//
//	table users {
//	  id uuid pk
//	  email string
//	  role enum(admin, user, guest) default "user"
//	  tags string[]
//	  profile json nullable
//	}
package dsl

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/spf13/afero"

	"github.com/quillsql/quill/schema"
)

type schemaFile struct {
	Tables []*tableDecl `@@*`
}

type tableDecl struct {
	Name    string        `"table" @Ident`
	Columns []*columnDecl `"{" @@* "}"`
}

type columnDecl struct {
	Name      string      `@Ident`
	Type      *typeDecl   `@@`
	Modifiers []*modifier `@@*`
}

type typeDecl struct {
	Name   string   `@Ident`
	Values []string `("(" @Ident ("," @Ident)* ")")?`
	Array  bool     `(@"[" "]")?`
}

type modifier struct {
	Nullable bool     `  @"nullable"`
	Primary  bool     `| @"pk"`
	Default  *literal `| "default" @@`
}

type literal struct {
	Str    *string  `  @String`
	Number *float64 `| @Number`
	Bool   *string  `| @("true" | "false")`
}

var parser = participle.MustBuild[schemaFile](
	participle.Lexer(schemaLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// Parse reads a schema definition and builds the registry.
func Parse(filename string, r io.Reader) (*schema.Schema, error) {
	file, err := parser.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	return convert(file)
}

// ParseString parses a schema definition from a string.
func ParseString(filename, input string) (*schema.Schema, error) {
	return Parse(filename, strings.NewReader(input))
}

// ParseFile parses a schema definition from the given filesystem.
func ParseFile(fs afero.Fs, path string) (*schema.Schema, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f)
}

func convert(file *schemaFile) (*schema.Schema, error) {
	tables := make([]schema.Table, 0, len(file.Tables))
	for _, t := range file.Tables {
		columns := make([]schema.Column, 0, len(t.Columns))
		for _, c := range t.Columns {
			col, err := convertColumn(c)
			if err != nil {
				return nil, fmt.Errorf("table %q: %w", t.Name, err)
			}
			columns = append(columns, col)
		}
		tables = append(tables, schema.NewTable(t.Name, columns...))
	}
	return schema.New(tables...)
}

func convertColumn(decl *columnDecl) (schema.Column, error) {
	columnType, err := convertType(decl.Type)
	if err != nil {
		return schema.Column{}, fmt.Errorf("column %q: %w", decl.Name, err)
	}

	col := schema.Col(decl.Name, columnType)
	for _, m := range decl.Modifiers {
		switch {
		case m.Nullable:
			col = col.Null()
		case m.Primary:
			col = col.Primary()
		case m.Default != nil:
			col = col.WithDefault(m.Default.value())
		}
	}
	return col, nil
}

func convertType(decl *typeDecl) (schema.ColumnType, error) {
	name := strings.ToLower(decl.Name)

	if name == "enum" {
		if decl.Array {
			return nil, fmt.Errorf("enum arrays are not supported")
		}
		if len(decl.Values) == 0 {
			return nil, fmt.Errorf("enum requires at least one value")
		}
		return schema.Enum{Values: decl.Values}, nil
	}
	if len(decl.Values) > 0 {
		return nil, fmt.Errorf("type %q does not take values", decl.Name)
	}

	var primitive schema.Primitive
	switch name {
	case "number", "int", "integer":
		primitive = schema.Number()
	case "string", "text":
		primitive = schema.String()
	case "boolean", "bool":
		primitive = schema.Boolean()
	case "date", "datetime", "timestamp":
		primitive = schema.Date()
	case "json":
		if decl.Array {
			return nil, fmt.Errorf("json arrays are not supported")
		}
		return schema.Json{}, nil
	case "uuid":
		if decl.Array {
			return nil, fmt.Errorf("uuid arrays are not supported")
		}
		return schema.Uuid{}, nil
	default:
		return nil, fmt.Errorf("unknown type %q", decl.Name)
	}

	if decl.Array {
		return schema.Array{Item: primitive}, nil
	}
	return primitive, nil
}

func (l *literal) value() interface{} {
	switch {
	case l.Str != nil:
		return *l.Str
	case l.Number != nil:
		// Integral numbers stay integers so DDL renders DEFAULT 18,
		// not DEFAULT 18.000000.
		if *l.Number == math.Trunc(*l.Number) {
			return int(*l.Number)
		}
		return *l.Number
	case l.Bool != nil:
		return *l.Bool == "true"
	default:
		return nil
	}
}
