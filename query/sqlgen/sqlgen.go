// Package sqlgen compiles captured statement state into PostgreSQL
// text and an ordered argument list. Compilation is a pure function:
// no I/O, and the same statement always produces the same query.
package sqlgen

import (
	"fmt"
	"sort"
	"strings"
)

// Query is a compiled SQL statement with its positional arguments.
// Placeholders are `$n`, numbered 1-based across the whole statement
// in the order each argument is bound.
type Query struct {
	SQL  string
	Args []interface{}
}

// Operation identifies the statement kind.
type Operation string

const (
	OpSelect Operation = "SELECT"
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// Statement is the captured state of one query. Builders own and
// mutate it; Compile only reads it.
type Statement struct {
	Table      string
	Operation  Operation
	Columns    []string    // projection; empty renders as *
	Conditions []Condition // declaration order
	Joins      []Join      // declaration order
	Rows       []map[string]interface{}
	Limit      *int
	Offset     *int
	Returning  bool
}

// Compile renders a statement into SQL text and positional arguments.
// It either fully succeeds or returns an error before producing any
// fragment.
func Compile(stmt *Statement) (*Query, error) {
	switch stmt.Operation {
	case OpSelect:
		return compileSelect(stmt)
	case OpInsert:
		return compileInsert(stmt)
	case OpUpdate:
		return compileUpdate(stmt)
	case OpDelete:
		return compileDelete(stmt)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperation, stmt.Operation)
	}
}

func compileSelect(stmt *Statement) (*Query, error) {
	var parts []string
	var args []interface{}
	argIndex := 1

	if len(stmt.Columns) == 0 {
		parts = append(parts, "SELECT *")
	} else {
		quoted := make([]string, len(stmt.Columns))
		for i, col := range stmt.Columns {
			quoted[i] = quoteIdentifier(col)
		}
		parts = append(parts, "SELECT "+strings.Join(quoted, ", "))
	}

	parts = append(parts, "FROM "+quoteIdentifier(stmt.Table))

	for _, join := range stmt.Joins {
		parts = append(parts, renderJoin(join))
	}

	if len(stmt.Conditions) > 0 {
		whereSQL, whereArgs := buildWhere(stmt.Conditions, &argIndex)
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	}

	if stmt.Limit != nil {
		parts = append(parts, fmt.Sprintf("LIMIT $%d", argIndex))
		args = append(args, *stmt.Limit)
		argIndex++
	}
	if stmt.Offset != nil {
		parts = append(parts, fmt.Sprintf("OFFSET $%d", argIndex))
		args = append(args, *stmt.Offset)
		argIndex++
	}

	return &Query{SQL: strings.Join(parts, " "), Args: args}, nil
}

func compileInsert(stmt *Statement) (*Query, error) {
	if len(stmt.Joins) > 0 {
		return nil, ErrJoinNotAllowed
	}
	if len(stmt.Rows) == 0 {
		return nil, ErrEmptyPayload
	}
	// The first record's keys determine the column list; every record
	// in a bulk insert is assumed to share the same key set.
	columns := sortedKeys(stmt.Rows[0])
	if len(columns) == 0 {
		return nil, ErrEmptyPayload
	}

	var args []interface{}
	argIndex := 1

	quotedCols := make([]string, len(columns))
	for i, col := range columns {
		quotedCols[i] = quoteIdentifier(col)
	}

	tuples := make([]string, len(stmt.Rows))
	for i, row := range stmt.Rows {
		placeholders := make([]string, len(columns))
		for j, col := range columns {
			placeholders[j] = fmt.Sprintf("$%d", argIndex)
			args = append(args, row[col])
			argIndex++
		}
		tuples[i] = "(" + strings.Join(placeholders, ", ") + ")"
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		quoteIdentifier(stmt.Table),
		strings.Join(quotedCols, ", "),
		strings.Join(tuples, ", "))
	if stmt.Returning {
		sql += " RETURNING *"
	}
	return &Query{SQL: sql, Args: args}, nil
}

func compileUpdate(stmt *Statement) (*Query, error) {
	if len(stmt.Joins) > 0 {
		return nil, ErrJoinNotAllowed
	}
	if len(stmt.Rows) == 0 {
		return nil, ErrEmptyPayload
	}
	keys := sortedKeys(stmt.Rows[0])
	if len(keys) == 0 {
		return nil, ErrEmptyPayload
	}

	var parts []string
	var args []interface{}
	argIndex := 1

	parts = append(parts, "UPDATE "+quoteIdentifier(stmt.Table))

	setParts := make([]string, len(keys))
	for i, col := range keys {
		setParts[i] = fmt.Sprintf("%s = $%d", quoteIdentifier(col), argIndex)
		args = append(args, stmt.Rows[0][col])
		argIndex++
	}
	parts = append(parts, "SET "+strings.Join(setParts, ", "))

	if len(stmt.Conditions) > 0 {
		whereSQL, whereArgs := buildWhere(stmt.Conditions, &argIndex)
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	}

	if stmt.Returning {
		parts = append(parts, "RETURNING *")
	}
	return &Query{SQL: strings.Join(parts, " "), Args: args}, nil
}

func compileDelete(stmt *Statement) (*Query, error) {
	if len(stmt.Joins) > 0 {
		return nil, ErrJoinNotAllowed
	}

	var parts []string
	var args []interface{}
	argIndex := 1

	parts = append(parts, "DELETE FROM "+quoteIdentifier(stmt.Table))

	if len(stmt.Conditions) > 0 {
		whereSQL, whereArgs := buildWhere(stmt.Conditions, &argIndex)
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	}

	if stmt.Returning {
		parts = append(parts, "RETURNING *")
	}
	return &Query{SQL: strings.Join(parts, " "), Args: args}, nil
}

// quoteIdentifier double-quotes an identifier for PostgreSQL. "*",
// pre-formed expressions (anything containing a space or parenthesis)
// and names already starting with a quote pass through untouched.
// Dotted names are quoted per segment.
func quoteIdentifier(name string) string {
	if name == "*" || strings.ContainsAny(name, " ()") || strings.HasPrefix(name, `"`) {
		return name
	}
	if strings.Contains(name, ".") {
		segments := strings.Split(name, ".")
		for i, seg := range segments {
			segments[i] = quoteIdentifier(seg)
		}
		return strings.Join(segments, ".")
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// sortedKeys returns a record's column names in sorted order. Go maps
// carry no insertion order, so sorting keeps column lists and SET
// clauses deterministic across compilations.
func sortedKeys(row map[string]interface{}) []string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
