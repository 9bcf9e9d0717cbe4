package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxDatabase implements Database on a pgxpool.Pool. Statements are
// prepared implicitly by pgx, so it does not implement Preparer.
type PgxDatabase struct {
	pool *pgxpool.Pool
}

// NewPgxDatabase wraps an established pool.
func NewPgxDatabase(pool *pgxpool.Pool) *PgxDatabase {
	return &PgxDatabase{pool: pool}
}

func (p *PgxDatabase) Query(query string, args ...any) (Rows, error) {
	return p.QueryContext(context.Background(), query, args...)
}

func (p *PgxDatabase) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &PgxRows{rows: rows}, nil
}

func (p *PgxDatabase) Exec(query string, args ...any) (Result, error) {
	return p.ExecContext(context.Background(), query, args...)
}

func (p *PgxDatabase) ExecContext(ctx context.Context, query string, args ...any) (Result, error) {
	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgxResult{tag: tag}, nil
}

func (p *PgxDatabase) PingContext(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PgxDatabase) Close() error {
	p.pool.Close()
	return nil
}

// PgxRows adapts pgx.Rows to the Rows interface.
type PgxRows struct {
	rows    pgx.Rows
	columns []string
}

func (r *PgxRows) Next() bool { return r.rows.Next() }

func (r *PgxRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }

func (r *PgxRows) Close() error {
	r.rows.Close()
	return nil
}

func (r *PgxRows) Err() error { return r.rows.Err() }

func (r *PgxRows) Columns() ([]string, error) {
	if r.columns == nil {
		fields := r.rows.FieldDescriptions()
		r.columns = make([]string, len(fields))
		for i, fd := range fields {
			r.columns[i] = fd.Name
		}
	}
	return r.columns, nil
}

// Values decodes the current row into driver-native Go values.
func (r *PgxRows) Values() ([]any, error) {
	return r.rows.Values()
}

type pgxResult struct {
	tag pgconn.CommandTag
}

// LastInsertId is not a PostgreSQL concept; use RETURNING instead.
func (r pgxResult) LastInsertId() (int64, error) {
	return 0, ErrLastInsertID
}

func (r pgxResult) RowsAffected() (int64, error) {
	return r.tag.RowsAffected(), nil
}

var (
	_ Database = (*PgxDatabase)(nil)
	_ Valuer   = (*PgxRows)(nil)
)
