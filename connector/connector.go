// Package connector manages database connections behind a provider
// registry: providers register themselves by name, configs load from
// yaml or json files, and connections expose the database handle plus
// the dialect the query compiler should target.
package connector

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/condex/database"
	"github.com/Konsultn-Engineering/condex/dialect"
)

// Connection is an established database connection.
type Connection interface {
	// DB exposes the connection as a *sql.DB for code that wants the
	// standard library surface. Providers without a native pool return
	// their handle directly.
	DB() *sql.DB

	// Database exposes the driver-neutral query surface the engine
	// executes through.
	Database() database.Database

	// Dialect reports the placeholder style of the connected engine.
	Dialect() dialect.Dialect

	Health(ctx context.Context) error
	Stats() ConnectionStats
	Close() error
}

// Connector dials connections for a single configured target.
type Connector interface {
	Connect(ctx context.Context) (Connection, error)
	ConnectWithRetry(ctx context.Context, retry RetryConfig) (Connection, error)
	Close() error
}
