package connector

import (
	"context"

	"github.com/Konsultn-Engineering/condex/dialect"
)

// Provider dials connections for one database engine.
type Provider interface {
	Connect(ctx context.Context, config Config) (Connection, error)
	Dialect() dialect.Dialect
	HealthCheck(ctx context.Context, conn Connection) error
}
