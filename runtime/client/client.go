// Package client executes compiled statements against a live
// database. It is the only part of the system that performs I/O; the
// builder and compiler stay pure.
package client

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/quillsql/quill/internal/debug"
	"github.com/quillsql/quill/query/builder"
	"github.com/quillsql/quill/query/sqlgen"
	"github.com/quillsql/quill/schema"
)

// Client is the database handle. It owns the schema registry and
// hands out statement builders bound to its connection pool.
type Client struct {
	db       *sql.DB
	provider string
	schema   *schema.Schema
}

// Open connects to the database identified by provider and DSN. The
// schema may be nil when DDL generation is not needed.
func Open(provider, dsn string, s *schema.Schema) (*Client, error) {
	driver := driverName(provider)
	if driver == "" {
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return &Client{db: db, provider: provider, schema: s}, nil
}

// NewFromDB wraps an existing connection pool.
func NewFromDB(provider string, db *sql.DB, s *schema.Schema) *Client {
	return &Client{db: db, provider: provider, schema: s}
}

// driverName maps provider names to registered driver names. The
// generated dialect is PostgreSQL; SQLite is compatible with its $n
// placeholders, quoting and RETURNING.
func driverName(provider string) string {
	switch provider {
	case "postgresql", "postgres":
		return "postgres"
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return ""
	}
}

// Connect verifies the database connection.
func (c *Client) Connect(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Disconnect closes the connection pool.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.db.Close()
}

// DB returns the underlying connection pool.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Schema returns the registry the client was built with.
func (c *Client) Schema() *schema.Schema {
	return c.schema
}

// Table returns a statement builder for the named table, bound to the
// client for execution.
func (c *Client) Table(name string) *builder.Statement {
	return builder.New(name, c)
}

// Query runs a statement and maps the result set into records.
func (c *Client) Query(ctx context.Context, query string, args ...interface{}) ([]builder.Record, error) {
	debug.Debug("executing statement", "sql", query, "args", len(args))
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// CreateTables issues CREATE TABLE IF NOT EXISTS for every table in
// the registry, in declaration order.
func (c *Client) CreateTables(ctx context.Context) error {
	if c.schema == nil {
		return nil
	}
	statements, err := sqlgen.GenerateSchema(c.schema)
	if err != nil {
		return err
	}
	for i, ddl := range statements {
		debug.Debug("creating table", "table", c.schema.Tables()[i].Name)
		if _, err := c.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create table %q: %w", c.schema.Tables()[i].Name, err)
		}
	}
	return nil
}
