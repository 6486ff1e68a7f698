package client

import (
	"context"
	"fmt"

	"database/sql"

	"github.com/quillsql/quill/internal/debug"
	"github.com/quillsql/quill/query/builder"
)

// Tx is a transaction-scoped executor. Every statement run through it
// shares the transaction's connection.
type Tx struct {
	tx *sql.Tx
}

// TransactionFunc runs inside a transaction scope.
type TransactionFunc func(tx *Tx) error

// Transaction begins a transaction, runs fn with a scoped executor,
// commits on normal return and rolls back when fn returns an error or
// panics. The original error propagates unchanged after rollback.
func (c *Client) Transaction(ctx context.Context, fn TransactionFunc) error {
	sqlTx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	tx := &Tx{tx: sqlTx}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Table returns a statement builder bound to the transaction scope.
func (t *Tx) Table(name string) *builder.Statement {
	return builder.New(name, t)
}

// Query runs a statement on the transaction's connection.
func (t *Tx) Query(ctx context.Context, query string, args ...interface{}) ([]builder.Record, error) {
	debug.Debug("executing statement in transaction", "sql", query, "args", len(args))
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Transaction runs fn against the same connection. There is no
// savepoint: a nested scope has no atomicity of its own, and a failure
// inside it is handled by the outermost scope's rollback.
func (t *Tx) Transaction(ctx context.Context, fn TransactionFunc) error {
	return fn(t)
}
