// Package database abstracts the query surface the engine executes
// through, with implementations for pgx pools and database/sql handles.
package database

import (
	"context"
	"database/sql"
	"errors"
)

// ErrLastInsertID is returned by drivers with no last-insert-id notion.
var ErrLastInsertID = errors.New("LastInsertId is not supported by this driver")

// Database runs SQL against one connected target.
type Database interface {
	Query(query string, args ...any) (Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (Rows, error)
	Exec(query string, args ...any) (Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (Result, error)
	PingContext(ctx context.Context) error
	Close() error
}

// Rows is a forward-only result cursor.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Columns() ([]string, error)
	Err() error
}

// Result reports the outcome of a statement that returns no rows.
type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}

// Preparer is implemented by databases that hand out prepared statements.
// Drivers that prepare implicitly, like pgx, do not implement it.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// Valuer is implemented by row cursors that can decode the current row
// without caller-supplied destinations.
type Valuer interface {
	Values() ([]any, error)
}
