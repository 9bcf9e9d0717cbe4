// Package condex compiles condition descriptions into parameterized SQL
// fragments and runs the result against pluggable database providers.
//
// The root package is a facade: it re-exports the expression builders from
// expr and wires Connect through the provider registry, so small programs
// need a single import plus a blank provider import:
//
//	import (
//	    "github.com/Konsultn-Engineering/condex"
//	    _ "github.com/Konsultn-Engineering/condex/providers/sqlite"
//	)
//
//	eng, err := condex.Connect(ctx, "sqlite", condex.Config{Database: "app.db"})
package condex

import (
	"context"

	"github.com/Konsultn-Engineering/condex/connector"
	"github.com/Konsultn-Engineering/condex/engine"
	"github.com/Konsultn-Engineering/condex/expr"
)

type (
	Tree      = expr.Tree
	Binding   = expr.Binding
	Types     = expr.Types
	Condition = expr.Condition
	Raw       = expr.Raw
	Literal   = expr.Literal

	Config = connector.Config
	Engine = engine.Engine
	Option = engine.Option
)

var (
	New     = expr.New
	And     = expr.And
	Or      = expr.Or
	Xor     = expr.Xor
	Not     = expr.Not
	Field   = expr.Field
	Grouped = expr.Grouped
)

// Connect dials the named provider and wraps the connection in an Engine.
// Providers register themselves when their package is imported. When the
// config carries a QueryTimeout it is applied to every query the engine
// runs; explicit options win over config values.
func Connect(ctx context.Context, provider string, cfg Config, opts ...Option) (*engine.Engine, error) {
	c, err := connector.New(provider, cfg)
	if err != nil {
		return nil, err
	}
	conn, err := c.Connect(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.QueryTimeout > 0 {
		opts = append([]Option{engine.WithQueryTimeout(cfg.QueryTimeout)}, opts...)
	}
	return engine.New(conn, opts...), nil
}

// ConnectFile loads a yaml or json config from path and connects with it.
func ConnectFile(ctx context.Context, provider, path string, opts ...Option) (*engine.Engine, error) {
	cfg, err := connector.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return Connect(ctx, provider, cfg, opts...)
}
