// Package adapter provides the connection facade between the
// synchronizer/mapper and a concrete database. Each adapter owns a single
// logical connection; statements issued through one adapter complete in
// submission order.
package adapter

import (
	"context"
	"database/sql"
	"fmt"
)

// Config holds the settings for connecting to a database.
type Config struct {
	// Type selects the registered adapter ("sqlite", "postgres").
	Type string

	// Path is the file path for file-based stores. ":memory:" selects a
	// volatile in-memory database.
	Path string

	// Host and Port locate network-based stores.
	Host string
	Port int

	// Database is the database name.
	Database string

	// Username and Password authenticate network-based stores.
	Username string
	Password string

	// Options carries additional driver-specific settings.
	Options map[string]string
}

// Column describes one column of a live table.
type Column struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
	Position   int
}

// TableMetadata describes the live structure of one table.
type TableMetadata struct {
	Name    string
	Columns []Column
}

// Rows wraps sql.Rows so callers do not depend on database/sql directly.
type Rows struct {
	*sql.Rows
}

// Adapter is the interface every database backend implements.
type Adapter interface {
	// Connect establishes the connection. ConnectionError on failure.
	Connect(ctx context.Context, cfg Config) error

	// Close releases the connection.
	Close() error

	// Exec runs a statement that returns no rows (DDL, INSERT, DELETE).
	Exec(ctx context.Context, query string, args ...any) error

	// Query runs a statement that returns rows.
	Query(ctx context.Context, query string, args ...any) (*Rows, error)

	// QueryRow runs a statement expected to return at most one row.
	QueryRow(ctx context.Context, query string, args ...any) *sql.Row

	// Tx runs fn inside a transaction, committing on nil and rolling
	// back on error.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error

	// ListTables returns the user table names in the connected database.
	ListTables(ctx context.Context) ([]string, error)

	// TableMetadata returns the live structure of one table.
	TableMetadata(ctx context.Context, table string) (*TableMetadata, error)

	// DialectName identifies the SQL dialect ("sqlite", "postgres").
	DialectName() string
}

// ConnectionError reports that the underlying database link could not be
// established or is no longer available. The facade never retries; retry
// policy belongs to the caller.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("connection to %s unavailable: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("connection unavailable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
