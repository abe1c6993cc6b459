package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query, QueryRow and Tx implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    Config
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a statement that does not return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, query string, args ...any) error {
	if b.DB == nil {
		return &ConnectionError{Err: errNotConnected}
	}
	if _, err := b.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Query executes a statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, query string, args ...any) (*Rows, error) {
	if b.DB == nil {
		return nil, &ConnectionError{Err: errNotConnected}
	}
	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return &Rows{Rows: rows}, nil
}

// QueryRow executes a statement expected to return at most one row.
func (b *BaseSQLAdapter) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	if b.DB == nil {
		return nil
	}
	return b.DB.QueryRowContext(ctx, query, args...)
}

// Tx runs fn inside a transaction.
func (b *BaseSQLAdapter) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if b.DB == nil {
		return &ConnectionError{Err: errNotConnected}
	}
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// IsConnected reports whether the connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

var errNotConnected = fmt.Errorf("database connection not established")
