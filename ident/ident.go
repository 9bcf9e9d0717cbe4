// Package ident generates the identifiers that namespace expression-tree
// placeholders and tag engine queries. Identifiers are handed out by an
// explicit source, never derived from object identity, so two trees built
// anywhere in the process can never share a placeholder namespace.
package ident

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Source produces unique identifier strings. Implementations must be safe
// for concurrent use.
type Source interface {
	Next() string
	Type() string
}

// CounterSource issues monotonically increasing identifiers rendered in
// base36. It is the default source: short fragments keep synthesized
// placeholder names readable, and monotonicity makes them deterministic
// within a process.
type CounterSource struct {
	n uint64
}

func NewCounter() *CounterSource {
	return &CounterSource{}
}

func (s *CounterSource) Next() string {
	return strconv.FormatUint(atomic.AddUint64(&s.n, 1), 36)
}

func (s *CounterSource) Type() string {
	return "counter"
}

// ULIDSource issues ULIDs. The monotonic entropy reader is not safe for
// concurrent use, so calls are serialized.
type ULIDSource struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULID() *ULIDSource {
	return &ULIDSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (s *ULIDSource) Next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *ULIDSource) Type() string {
	return "ulid"
}

// UUIDSource issues random UUIDs with the dashes stripped, keeping the
// result usable inside a named SQL parameter.
type UUIDSource struct{}

func NewUUID() UUIDSource {
	return UUIDSource{}
}

func (UUIDSource) Next() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (UUIDSource) Type() string {
	return "uuid"
}

// Registry maps source names to instances.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
}

var defaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	r := &Registry{sources: make(map[string]Source)}
	r.Register("counter", NewCounter())
	r.Register("ulid", NewULID())
	r.Register("uuid", NewUUID())
	return r
}

func (r *Registry) Register(name string, source Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = source
}

func (r *Registry) Get(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

func (r *Registry) Next(name string) (string, error) {
	s, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown ident source: %s", name)
	}
	return s.Next(), nil
}

// Register adds a source to the default registry.
func Register(name string, source Source) {
	defaultRegistry.Register(name, source)
}

// Get looks up a source in the default registry.
func Get(name string) (Source, bool) {
	return defaultRegistry.Get(name)
}

var treeSource Source = NewCounter()

// Next returns the next tree identifier from the process-wide source.
func Next() string {
	return treeSource.Next()
}
