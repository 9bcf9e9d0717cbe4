package ident

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterSource(t *testing.T) {
	s := NewCounter()

	assert.Equal(t, "1", s.Next())
	assert.Equal(t, "2", s.Next())
	assert.Equal(t, "counter", s.Type())

	// base36 rollover past 9
	for i := 0; i < 7; i++ {
		s.Next()
	}
	assert.Equal(t, "a", s.Next())
}

func TestCounterSourceConcurrency(t *testing.T) {
	const goroutines = 20
	const perGoroutine = 50

	s := NewCounter()
	seen := make(chan string, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				seen <- s.Next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[string]struct{}, goroutines*perGoroutine)
	for id := range seen {
		unique[id] = struct{}{}
	}
	assert.Equal(t, goroutines*perGoroutine, len(unique), "identifiers must never repeat")
}

func TestULIDSource(t *testing.T) {
	s := NewULID()

	a := s.Next()
	b := s.Next()

	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "ulid", s.Type())
	// monotonic entropy orders same-millisecond ULIDs
	assert.Less(t, a, b)
}

func TestUUIDSource(t *testing.T) {
	s := NewUUID()

	id := s.Next()
	assert.Len(t, id, 32)
	assert.NotContains(t, id, "-")
	assert.NotEqual(t, id, s.Next())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"counter", "ulid", "uuid"} {
		src, ok := r.Get(name)
		require.True(t, ok, "default registry should carry %s", name)
		assert.Equal(t, name, src.Type())
	}

	_, err := r.Next("nope")
	assert.Error(t, err)

	id, err := r.Next("counter")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
