package dsl

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillsql/quill/schema"
)

const sampleSchema = `
// demo schema
table users {
  id uuid pk
  email string
  name string nullable
  age number nullable default 18
  active boolean default true
  score number default 2.5
  role enum(admin, user, guest) default "user"
  tags string[]
  profile json nullable
  created_at date
}

table posts {
  id uuid pk
  author_id uuid
  title text
}
`

func TestParseString(t *testing.T) {
	s, err := ParseString("test.schema", sampleSchema)
	require.NoError(t, err)

	tables := s.Tables()
	require.Len(t, tables, 2)
	assert.Equal(t, "users", tables[0].Name)
	assert.Equal(t, "posts", tables[1].Name)

	users := tables[0]
	require.Len(t, users.Columns, 10)

	id := users.Columns[0]
	assert.Equal(t, "id", id.Name)
	assert.Equal(t, schema.Uuid{}, id.Type)
	assert.True(t, id.PrimaryKey)
	assert.False(t, id.Nullable)

	name, _ := users.Column("name")
	assert.True(t, name.Nullable)

	age, _ := users.Column("age")
	assert.Equal(t, schema.Number(), age.Type)
	assert.True(t, age.Nullable)
	assert.True(t, age.HasDefault)
	assert.Equal(t, 18, age.Default)

	active, _ := users.Column("active")
	assert.Equal(t, true, active.Default)

	score, _ := users.Column("score")
	assert.Equal(t, 2.5, score.Default)

	role, _ := users.Column("role")
	assert.Equal(t, schema.Enum{Values: []string{"admin", "user", "guest"}}, role.Type)
	assert.Equal(t, "user", role.Default)

	tags, _ := users.Column("tags")
	assert.Equal(t, schema.Array{Item: schema.String()}, tags.Type)

	profile, _ := users.Column("profile")
	assert.Equal(t, schema.Json{}, profile.Type)

	title, ok := tables[1].Column("title")
	require.True(t, ok)
	assert.Equal(t, schema.String(), title.Type)
}

func TestParseString_TypeAliases(t *testing.T) {
	s, err := ParseString("t", `
table t {
  a int
  b integer
  c text
  d bool
  e datetime
  f timestamp
}
`)
	require.NoError(t, err)
	table := s.Tables()[0]

	for col, want := range map[string]schema.Primitive{
		"a": schema.Number(),
		"b": schema.Number(),
		"c": schema.String(),
		"d": schema.Boolean(),
		"e": schema.Date(),
		"f": schema.Date(),
	} {
		c, ok := table.Column(col)
		require.True(t, ok, col)
		assert.Equal(t, want, c.Type, col)
	}
}

func TestParseString_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown type":  "table t { a decimal }",
		"enum no vals":  "table t { a enum }",
		"values on int": "table t { a number(1, 2) }",
		"json array":    "table t { a json[] }",
		"uuid array":    "table t { a uuid[] }",
		"enum array":    "table t { a enum(x)[] }",
		"dup column":    "table t { a number \n a string }",
	}
	for name, input := range cases {
		_, err := ParseString("t", input)
		assert.Error(t, err, name)
	}
}

func TestParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "app.schema", []byte(sampleSchema), 0644))

	s, err := ParseFile(fs, "app.schema")
	require.NoError(t, err)
	assert.Len(t, s.Tables(), 2)

	_, err = ParseFile(fs, "missing.schema")
	assert.Error(t, err)
}
