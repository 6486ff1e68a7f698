// Package builder provides the fluent statement builder API. A
// Statement accumulates one query's intent and is compiled exactly
// once per ToSQL call; compilation never mutates it, so repeated calls
// return identical output.
package builder

import (
	"context"
	"errors"
	"sort"

	"github.com/quillsql/quill/query/sqlgen"
)

// ErrNoExecutor is returned by Exec on a statement that was built
// without an executor.
var ErrNoExecutor = errors.New("statement is not bound to an executor")

// Record is one row keyed by column name.
type Record map[string]interface{}

// Executor runs a compiled statement and returns the resulting rows.
// The client and its transaction scopes both satisfy it.
type Executor interface {
	Query(ctx context.Context, query string, args ...interface{}) ([]Record, error)
}

// Op selects comparison operators for one column inside a Where call.
// Fields are expanded in a fixed order: In, NotIn, Like, ILike, Gt,
// Lt, Gte, Lte, Not. A nil field is skipped; a non-nil empty In or
// NotIn is kept and compiles to its empty-set tautology.
type Op struct {
	In    []interface{}
	NotIn []interface{}
	Like  interface{}
	ILike interface{}
	Gt    interface{}
	Lt    interface{}
	Gte   interface{}
	Lte   interface{}
	Not   interface{}
}

// Statement accumulates one query before compilation. Statements are
// not safe for concurrent use; build and compile each on one
// goroutine. Independent statements share nothing and may be compiled
// concurrently.
type Statement struct {
	stmt sqlgen.Statement
	exec Executor
}

// New creates a SELECT statement builder for the given table. The
// executor may be nil for statements that are only ever compiled.
func New(table string, exec Executor) *Statement {
	return &Statement{
		stmt: sqlgen.Statement{Table: table, Operation: sqlgen.OpSelect},
		exec: exec,
	}
}

// Select sets the projection. An empty call leaves the projection
// empty, which renders as *. Columns are not validated against the
// schema here; an unknown column is a database error, not a build
// error.
func (s *Statement) Select(columns ...string) *Statement {
	s.stmt.Operation = sqlgen.OpSelect
	s.stmt.Columns = columns
	return s
}

// Insert switches the statement to INSERT with the given records.
// Multiple records form a bulk insert; the first record's keys
// determine the column list. Written rows are always returned.
func (s *Statement) Insert(records ...Record) *Statement {
	s.stmt.Operation = sqlgen.OpInsert
	s.stmt.Rows = toRows(records)
	s.stmt.Returning = true
	return s
}

// Update switches the statement to UPDATE with the given payload.
// Written rows are always returned.
func (s *Statement) Update(data Record) *Statement {
	s.stmt.Operation = sqlgen.OpUpdate
	s.stmt.Rows = toRows([]Record{data})
	s.stmt.Returning = true
	return s
}

// Delete switches the statement to DELETE. Deleted rows are always
// returned.
func (s *Statement) Delete() *Statement {
	s.stmt.Operation = sqlgen.OpDelete
	s.stmt.Returning = true
	return s
}

// InnerJoin appends an INNER JOIN clause. The table is not validated
// against the schema.
func (s *Statement) InnerJoin(table, leftColumn, operator, rightColumn string) *Statement {
	return s.join("INNER", table, leftColumn, operator, rightColumn)
}

// LeftJoin appends a LEFT JOIN clause.
func (s *Statement) LeftJoin(table, leftColumn, operator, rightColumn string) *Statement {
	return s.join("LEFT", table, leftColumn, operator, rightColumn)
}

// RightJoin appends a RIGHT JOIN clause.
func (s *Statement) RightJoin(table, leftColumn, operator, rightColumn string) *Statement {
	return s.join("RIGHT", table, leftColumn, operator, rightColumn)
}

// FullJoin appends a FULL JOIN clause.
func (s *Statement) FullJoin(table, leftColumn, operator, rightColumn string) *Statement {
	return s.join("FULL", table, leftColumn, operator, rightColumn)
}

func (s *Statement) join(kind, table, leftColumn, operator, rightColumn string) *Statement {
	s.stmt.Joins = append(s.stmt.Joins, sqlgen.Join{
		Kind:        kind,
		Table:       table,
		LeftColumn:  leftColumn,
		Operator:    operator,
		RightColumn: rightColumn,
	})
	return s
}

// Where appends one condition per map entry, each joined to the
// running filter chain with AND. A nil value becomes IS NULL, an Op
// value expands to one condition per set field, and anything else
// becomes an equality check. Entries are expanded in sorted key order
// so compilation stays deterministic.
func (s *Statement) Where(conditions map[string]interface{}) *Statement {
	return s.addConditions("AND", conditions)
}

// OrWhere behaves like Where with an OR connective. Chains stay
// unparenthesized: mixing Where and OrWhere changes precedence purely
// by position.
func (s *Statement) OrWhere(conditions map[string]interface{}) *Statement {
	return s.addConditions("OR", conditions)
}

func (s *Statement) addConditions(connective string, conditions map[string]interface{}) *Statement {
	keys := make([]string, 0, len(conditions))
	for k := range conditions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, column := range keys {
		switch value := conditions[column].(type) {
		case nil:
			s.appendCondition(connective, column, "IS", nil)
		case Op:
			s.expandOp(connective, column, value)
		case *Op:
			s.expandOp(connective, column, *value)
		default:
			s.appendCondition(connective, column, "=", value)
		}
	}
	return s
}

func (s *Statement) expandOp(connective, column string, op Op) {
	if op.In != nil {
		s.appendCondition(connective, column, "IN", op.In)
	}
	if op.NotIn != nil {
		s.appendCondition(connective, column, "NOT IN", op.NotIn)
	}
	if op.Like != nil {
		s.appendCondition(connective, column, "LIKE", op.Like)
	}
	if op.ILike != nil {
		s.appendCondition(connective, column, "ILIKE", op.ILike)
	}
	if op.Gt != nil {
		s.appendCondition(connective, column, ">", op.Gt)
	}
	if op.Lt != nil {
		s.appendCondition(connective, column, "<", op.Lt)
	}
	if op.Gte != nil {
		s.appendCondition(connective, column, ">=", op.Gte)
	}
	if op.Lte != nil {
		s.appendCondition(connective, column, "<=", op.Lte)
	}
	if op.Not != nil {
		s.appendCondition(connective, column, "!=", op.Not)
	}
}

func (s *Statement) appendCondition(connective, column, operator string, value interface{}) {
	s.stmt.Conditions = append(s.stmt.Conditions, sqlgen.Condition{
		Connective: connective,
		Column:     column,
		Operator:   operator,
		Value:      value,
	})
}

// Limit caps the number of returned rows. Only rendered on SELECT.
func (s *Statement) Limit(n int) *Statement {
	s.stmt.Limit = &n
	return s
}

// Offset skips the first n rows. Only rendered on SELECT.
func (s *Statement) Offset(n int) *Statement {
	s.stmt.Offset = &n
	return s
}

// ToSQL compiles the current state into SQL text and positional
// arguments. It is pure and repeatable.
func (s *Statement) ToSQL() (*sqlgen.Query, error) {
	return sqlgen.Compile(&s.stmt)
}

// Exec compiles the statement and runs it through the bound executor.
func (s *Statement) Exec(ctx context.Context) ([]Record, error) {
	if s.exec == nil {
		return nil, ErrNoExecutor
	}
	query, err := s.ToSQL()
	if err != nil {
		return nil, err
	}
	return s.exec.Query(ctx, query.SQL, query.Args...)
}

func toRows(records []Record) []map[string]interface{} {
	rows := make([]map[string]interface{}, len(records))
	for i, record := range records {
		rows[i] = map[string]interface{}(record)
	}
	return rows
}
