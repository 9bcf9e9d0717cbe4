// Package postgres provides the pgx-backed connection provider.
// Importing it registers the "postgres" provider.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Konsultn-Engineering/condex/connector"
	"github.com/Konsultn-Engineering/condex/database"
	"github.com/Konsultn-Engineering/condex/dialect"
)

type Provider struct{}

func init() {
	connector.Register("postgres", &Provider{})
}

func buildDSN(cfg connector.Config) (string, error) {
	return connector.NewDSNBuilder("postgres").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, cfg.Port).
		Database(cfg.Database).
		Param("sslmode", cfg.SSLMode).
		Params(cfg.Params).
		Build()
}

// Connect opens a pgx pool for the configured target.
func (p *Provider) Connect(ctx context.Context, cfg connector.Config) (connector.Connection, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres dsn: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres config: %w", err)
	}

	pool := cfg.Pool.WithDefaults()
	poolCfg.MaxConns = int32(pool.MaxOpen)
	poolCfg.MinConns = int32(pool.MaxIdle)
	poolCfg.MaxConnLifetime = pool.MaxLifetime
	poolCfg.MaxConnIdleTime = pool.MaxIdleTime
	if pool.HealthCheckFreq > 0 {
		poolCfg.HealthCheckPeriod = pool.HealthCheckFreq
	}

	pgPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}

	return &connection{pool: pgPool}, nil
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.Postgres{}
}

func (p *Provider) HealthCheck(ctx context.Context, conn connector.Connection) error {
	return conn.Health(ctx)
}

type connection struct {
	pool *pgxpool.Pool
}

// DB exposes the pool through the database/sql surface.
func (c *connection) DB() *sql.DB {
	return stdlib.OpenDBFromPool(c.pool)
}

func (c *connection) Database() database.Database {
	return database.NewPgxDatabase(c.pool)
}

func (c *connection) Dialect() dialect.Dialect {
	return dialect.Postgres{}
}

func (c *connection) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *connection) Stats() connector.ConnectionStats {
	s := c.pool.Stat()
	return connector.ConnectionStats{
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

func (c *connection) Close() error {
	c.pool.Close()
	return nil
}

var (
	_ connector.Provider   = (*Provider)(nil)
	_ connector.Connection = (*connection)(nil)
)
