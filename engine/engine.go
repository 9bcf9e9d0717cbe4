// Package engine executes condition trees and select builders against a
// connection. It compiles the named-placeholder SQL for the connection's
// dialect, casts bound values through the schema casters, caches compiled
// plans and prepared statements, and reports each query through slog and
// OpenTelemetry.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/Konsultn-Engineering/condex/cache"
	"github.com/Konsultn-Engineering/condex/connector"
	"github.com/Konsultn-Engineering/condex/database"
	"github.com/Konsultn-Engineering/condex/dialect"
	"github.com/Konsultn-Engineering/condex/ident"
	"github.com/Konsultn-Engineering/condex/query"
	"github.com/Konsultn-Engineering/condex/schema"
)

// Engine runs queries on one connection.
type Engine struct {
	conn     connector.Connection
	db       database.Database
	dialect  dialect.Dialect
	logger   *slog.Logger
	casters  *schema.CasterRegistry
	naming   schema.NamingStrategy
	stmts    *cache.StatementCache
	plans    cache.QueryCache
	queryIDs *ident.ULIDSource
	timeout  time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Without one the engine stays silent.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithCasters replaces the default caster registry.
func WithCasters(casters *schema.CasterRegistry) Option {
	return func(e *Engine) { e.casters = casters }
}

// WithNaming replaces the default naming strategy used by SelectModel.
func WithNaming(naming schema.NamingStrategy) Option {
	return func(e *Engine) { e.naming = naming }
}

// WithStatementCacheSize resizes the prepared statement cache.
func WithStatementCacheSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.stmts = cache.NewStatementCache(size)
		}
	}
}

// WithQueryTimeout bounds each query; zero means no bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// New builds an engine on an established connection.
func New(conn connector.Connection, opts ...Option) *Engine {
	e := &Engine{
		conn:     conn,
		db:       conn.Database(),
		dialect:  conn.Dialect(),
		casters:  schema.DefaultCasters(),
		naming:   schema.DefaultNaming(),
		stmts:    cache.NewStatementCache(256),
		plans:    cache.NewQueryCache(),
		queryIDs: ident.NewULID(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select starts a select builder on the given table.
func (e *Engine) Select(table string, columns ...string) *query.SelectBuilder {
	return query.Select(table, columns...)
}

// SelectModel starts a select builder for a model struct: the table name
// comes from the struct name and the builder is typed from the struct's
// fields, so conditions cast their values before execution.
func (e *Engine) SelectModel(model any, columns ...string) (*query.SelectBuilder, error) {
	table, err := schema.TableFor(model, e.naming)
	if err != nil {
		return nil, err
	}
	types, err := schema.TypeMapFor(model, e.naming)
	if err != nil {
		return nil, err
	}
	return query.Select(table, columns...).Types(types), nil
}

// Connection returns the underlying connection.
func (e *Engine) Connection() connector.Connection {
	return e.conn
}

// Dialect reports the dialect queries compile for.
func (e *Engine) Dialect() dialect.Dialect {
	return e.dialect
}

// Health pings the connection.
func (e *Engine) Health(ctx context.Context) error {
	return e.conn.Health(ctx)
}

// Stats reports connection pool statistics.
func (e *Engine) Stats() connector.ConnectionStats {
	return e.conn.Stats()
}

// Close releases cached statements, then the connection.
func (e *Engine) Close() error {
	e.stmts.Close()
	return e.conn.Close()
}

func (e *Engine) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(ctx, e.timeout)
	}
	return ctx, func() {}
}

// ==== Logging

func (e *Engine) logQuery(queryID, sqlText string, rows int, elapsedMs float64) {
	if e.logger == nil {
		return
	}
	e.logger.Debug("query executed",
		slog.String("query_id", queryID),
		slog.String("sql", sqlText),
		slog.Int("rows", rows),
		slog.Float64("duration_ms", elapsedMs),
	)
}

func (e *Engine) logExec(queryID, sqlText string, affected int64, elapsedMs float64) {
	if e.logger == nil {
		return
	}
	e.logger.Debug("statement executed",
		slog.String("query_id", queryID),
		slog.String("sql", sqlText),
		slog.Int64("rows_affected", affected),
		slog.Float64("duration_ms", elapsedMs),
	)
}

func (e *Engine) logError(queryID, sqlText string, err error) {
	if e.logger == nil {
		return
	}
	e.logger.Error("query failed",
		slog.String("query_id", queryID),
		slog.String("sql", sqlText),
		slog.String("error", err.Error()),
	)
}

// timed returns a closure reporting elapsed milliseconds.
func timed() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
