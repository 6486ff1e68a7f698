package sqlgen

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestCompileSelect_All(t *testing.T) {
	q, err := Compile(&Statement{Table: "users", Operation: OpSelect})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users"`, q.SQL)
	assert.Empty(t, q.Args)
}

func TestCompileSelect_Projection(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Columns:   []string{"id", "users.email", "count(*)"},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "users"."email", count(*) FROM "users"`, q.SQL)
}

func TestCompileSelect_WhereEquals(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "AND", Column: "id", Operator: "=", Value: 123},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = $1`, q.SQL)
	assert.Equal(t, []interface{}{123}, q.Args)
}

func TestCompileSelect_MixedConnectives(t *testing.T) {
	// Chains stay left-associative and unparenthesized; the first
	// connective is ignored.
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "OR", Column: "a", Operator: "=", Value: 1},
			{Connective: "OR", Column: "b", Operator: "=", Value: 2},
			{Connective: "AND", Column: "c", Operator: "=", Value: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "a" = $1 OR "b" = $2 AND "c" = $3`, q.SQL)
	assert.Equal(t, []interface{}{1, 2, 3}, q.Args)
}

func TestCompileSelect_InList(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "AND", Column: "status", Operator: "IN", Value: []interface{}{"a", "b"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "status" IN ($1, $2)`, q.SQL)
	assert.Equal(t, []interface{}{"a", "b"}, q.Args)
}

func TestCompileSelect_TypedSliceIn(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "AND", Column: "id", Operator: "IN", Value: []int{1, 2, 3}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" IN ($1, $2, $3)`, q.SQL)
	assert.Equal(t, []interface{}{1, 2, 3}, q.Args)
}

func TestCompileSelect_EmptyInTautologies(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "AND", Column: "status", Operator: "IN", Value: []interface{}{}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE 1=0`, q.SQL)
	assert.Empty(t, q.Args)

	q, err = Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "AND", Column: "status", Operator: "NOT IN", Value: []interface{}{}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE 1=1`, q.SQL)
	assert.Empty(t, q.Args)
}

func TestCompileSelect_IsNull(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "AND", Column: "deleted_at", Operator: "IS", Value: nil},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "deleted_at" IS NULL`, q.SQL)
	assert.Empty(t, q.Args)
}

func TestCompileSelect_IsNotInline(t *testing.T) {
	// IS/IS NOT operands are rendered inline, never bound.
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "AND", Column: "active", Operator: "IS NOT", Value: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "active" IS NOT true`, q.SQL)
	assert.Empty(t, q.Args)
}

func TestCompileSelect_Joins(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Joins: []Join{
			{Kind: "INNER", Table: "posts", LeftColumn: "posts.author_id", Operator: "=", RightColumn: "users.id"},
			{Kind: "LEFT", Table: "teams", LeftColumn: "teams.id", Operator: "=", RightColumn: "users.team_id"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT * FROM "users"`+
			` INNER JOIN "posts" ON "posts"."author_id" = "users"."id"`+
			` LEFT JOIN "teams" ON "teams"."id" = "users"."team_id"`,
		q.SQL)
}

func TestCompileSelect_LimitOffset(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "AND", Column: "role", Operator: "=", Value: "admin"},
		},
		Limit:  intPtr(10),
		Offset: intPtr(20),
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "role" = $1 LIMIT $2 OFFSET $3`, q.SQL)
	assert.Equal(t, []interface{}{"admin", 10, 20}, q.Args)
}

func TestCompileInsert_Bulk(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "t",
		Operation: OpInsert,
		Rows: []map[string]interface{}{
			{"a": 1, "b": 2},
			{"a": 3, "b": 4},
		},
		Returning: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "t" ("a", "b") VALUES ($1, $2), ($3, $4) RETURNING *`, q.SQL)
	assert.Equal(t, []interface{}{1, 2, 3, 4}, q.Args)
}

func TestCompileUpdate(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpUpdate,
		Rows:      []map[string]interface{}{{"isActive": false}},
		Conditions: []Condition{
			{Connective: "AND", Column: "id", Operator: "=", Value: 123},
		},
		Returning: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "users" SET "isActive" = $1 WHERE "id" = $2 RETURNING *`, q.SQL)
	assert.Equal(t, []interface{}{false, 123}, q.Args)
}

func TestCompileDelete(t *testing.T) {
	q, err := Compile(&Statement{
		Table:     "users",
		Operation: OpDelete,
		Conditions: []Condition{
			{Connective: "AND", Column: "id", Operator: "=", Value: 7},
		},
		Returning: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = $1 RETURNING *`, q.SQL)
	assert.Equal(t, []interface{}{7}, q.Args)
}

func TestCompile_JoinsRejectedOnWrites(t *testing.T) {
	join := Join{Kind: "INNER", Table: "posts", LeftColumn: "posts.author_id", Operator: "=", RightColumn: "users.id"}

	for _, stmt := range []*Statement{
		{Table: "users", Operation: OpInsert, Rows: []map[string]interface{}{{"a": 1}}, Joins: []Join{join}},
		{Table: "users", Operation: OpUpdate, Rows: []map[string]interface{}{{"a": 1}}, Joins: []Join{join}},
		{Table: "users", Operation: OpDelete, Joins: []Join{join}},
	} {
		_, err := Compile(stmt)
		assert.ErrorIs(t, err, ErrJoinNotAllowed, "operation %s", stmt.Operation)
	}
}

func TestCompile_EmptyPayloadErrors(t *testing.T) {
	for _, stmt := range []*Statement{
		{Table: "users", Operation: OpInsert},
		{Table: "users", Operation: OpInsert, Rows: []map[string]interface{}{}},
		{Table: "users", Operation: OpInsert, Rows: []map[string]interface{}{{}}},
		{Table: "users", Operation: OpUpdate},
		{Table: "users", Operation: OpUpdate, Rows: []map[string]interface{}{{}}},
	} {
		_, err := Compile(stmt)
		assert.ErrorIs(t, err, ErrEmptyPayload)
	}
}

func TestCompile_UnknownOperation(t *testing.T) {
	_, err := Compile(&Statement{Table: "users", Operation: "TRUNCATE"})
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestCompile_Idempotent(t *testing.T) {
	stmt := &Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "AND", Column: "status", Operator: "IN", Value: []interface{}{"a", "b"}},
			{Connective: "OR", Column: "name", Operator: "LIKE", Value: "%x%"},
		},
		Limit: intPtr(5),
	}
	first, err := Compile(stmt)
	require.NoError(t, err)
	second, err := Compile(stmt)
	require.NoError(t, err)
	assert.Equal(t, first.SQL, second.SQL)
	assert.Equal(t, first.Args, second.Args)
}

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

func TestCompile_PlaceholderAccounting(t *testing.T) {
	// Placeholders are global across the statement: $k count equals
	// len(Args) and indices run 1..n in binding order.
	stmt := &Statement{
		Table:     "users",
		Operation: OpSelect,
		Conditions: []Condition{
			{Connective: "AND", Column: "status", Operator: "IN", Value: []interface{}{"a", "b", "c"}},
			{Connective: "AND", Column: "deleted_at", Operator: "IS", Value: nil},
			{Connective: "OR", Column: "age", Operator: ">=", Value: 21},
			{Connective: "AND", Column: "tag", Operator: "NOT IN", Value: []interface{}{}},
		},
		Limit:  intPtr(10),
		Offset: intPtr(0),
	}
	q, err := Compile(stmt)
	require.NoError(t, err)

	matches := placeholderRe.FindAllStringSubmatch(q.SQL, -1)
	require.Len(t, matches, len(q.Args))
	for i, m := range matches {
		assert.Equal(t, strconv.Itoa(i+1), m[1], "placeholder %d out of order", i)
	}
	assert.Equal(t, []interface{}{"a", "b", "c", 21, 10, 0}, q.Args)
}

func TestQuoteIdentifier(t *testing.T) {
	cases := map[string]string{
		"users":       `"users"`,
		"users.id":    `"users"."id"`,
		"*":           "*",
		"count(*)":    "count(*)",
		"a b":         "a b",
		`"already"`:   `"already"`,
		`wei"rd`:      `"wei""rd"`,
		"a.b.c":       `"a"."b"."c"`,
	}
	for in, want := range cases {
		assert.Equal(t, want, quoteIdentifier(in), "input %q", in)
	}
}
