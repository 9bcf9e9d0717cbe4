// Package sqlite provides a pure-Go SQLite connection provider backed by
// modernc.org/sqlite. Importing it registers the "sqlite" provider. The
// config's Database field is the file path, or ":memory:" for an
// in-memory database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Konsultn-Engineering/condex/connector"
	"github.com/Konsultn-Engineering/condex/database"
	"github.com/Konsultn-Engineering/condex/dialect"
)

type Provider struct{}

func init() {
	connector.Register("sqlite", &Provider{})
}

// Connect opens the database file, or an in-memory database when the
// path is empty or ":memory:".
func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	path := cfg.Database
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	if path == ":memory:" {
		// A memory database lives in its connection; more than one
		// pooled connection would each see a separate empty database.
		db.SetMaxOpenConns(1)
	} else {
		pool := cfg.Pool.WithDefaults()
		db.SetMaxOpenConns(pool.MaxOpen)
		db.SetMaxIdleConns(pool.MaxIdle)
		db.SetConnMaxLifetime(pool.MaxLifetime)
		db.SetConnMaxIdleTime(pool.MaxIdleTime)

		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("sqlite enable WAL: %w", err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite connect: %w", err)
	}

	return &connection{db: db}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.SQLite{}
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}

type connection struct {
	db *sql.DB
}

func (c *connection) DB() *sql.DB {
	return c.db
}

func (c *connection) Database() database.Database {
	return database.NewSqlDatabase(c.db)
}

func (c *connection) Dialect() dialect.Dialect {
	return dialect.SQLite{}
}

func (c *connection) Health(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.db.Stats()
	return connector.ConnectionStats{
		OpenConnections: s.OpenConnections,
		InUse:           s.InUse,
		Idle:            s.Idle,
	}
}

func (c *connection) Close() error {
	return c.db.Close()
}

var (
	_ connector.Provider   = (*Provider)(nil)
	_ connector.Connection = (*connection)(nil)
)
