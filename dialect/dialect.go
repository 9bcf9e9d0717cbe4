package dialect

import "fmt"

// Dialect captures the per-engine SQL details the compiler needs when it
// turns named placeholders into driver parameters.
type Dialect interface {
	// Name identifies the dialect, matching the provider name that uses it.
	Name() string

	// Placeholder renders the n-th positional parameter, 1-based.
	Placeholder(n int) string
}

var dialects = map[string]Dialect{
	"postgres": Postgres{},
	"sqlite":   SQLite{},
	"mysql":    MySQL{},
}

// ForName returns the dialect registered under name.
func ForName(name string) (Dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q", name)
	}
	return d, nil
}
