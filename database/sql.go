package database

import (
	"context"
	"database/sql"
)

// SqlDatabase implements Database on a *sql.DB. It also implements
// Preparer, so the engine can cache prepared statements for it.
type SqlDatabase struct {
	db *sql.DB
}

// NewSqlDatabase wraps an open handle.
func NewSqlDatabase(db *sql.DB) *SqlDatabase {
	return &SqlDatabase{db: db}
}

func (s *SqlDatabase) Query(query string, args ...any) (Rows, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

func (s *SqlDatabase) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &SqlRows{rows: rows}, nil
}

func (s *SqlDatabase) Exec(query string, args ...any) (Result, error) {
	return s.db.Exec(query, args...)
}

func (s *SqlDatabase) ExecContext(ctx context.Context, query string, args ...any) (Result, error) {
	return s.db.ExecContext(ctx, query, args...)
}

func (s *SqlDatabase) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SqlDatabase) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return s.db.PrepareContext(ctx, query)
}

func (s *SqlDatabase) Close() error { return s.db.Close() }

// SqlRows adapts *sql.Rows to the Rows interface.
type SqlRows struct {
	rows *sql.Rows
}

// NewSqlRows wraps a cursor obtained outside this package, such as one
// from a cached prepared statement.
func NewSqlRows(rows *sql.Rows) *SqlRows {
	return &SqlRows{rows: rows}
}

func (r *SqlRows) Next() bool                 { return r.rows.Next() }
func (r *SqlRows) Scan(dest ...any) error     { return r.rows.Scan(dest...) }
func (r *SqlRows) Close() error               { return r.rows.Close() }
func (r *SqlRows) Columns() ([]string, error) { return r.rows.Columns() }
func (r *SqlRows) Err() error                 { return r.rows.Err() }

var (
	_ Database = (*SqlDatabase)(nil)
	_ Preparer = (*SqlDatabase)(nil)
)
