package cache

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNotCached reports a statement-cache miss.
var ErrNotCached = errors.New("statement not cached")

// Key hashes compiled SQL text into a statement-cache key.
func Key(sql string) uint64 {
	return xxhash.Sum64String(sql)
}

// StatementCache keeps prepared statements in an LRU, closing them on
// eviction. Keys are Key(sql) hashes of the compiled statement text.
type StatementCache struct {
	cache *lru.Cache[uint64, *sql.Stmt]
	mu    sync.RWMutex
}

func NewStatementCache(size int) *StatementCache {
	cache, _ := lru.NewWithEvict(size, func(key uint64, stmt *sql.Stmt) {
		stmt.Close()
	})

	return &StatementCache{
		cache: cache,
	}
}

func (s *StatementCache) Get(key uint64) (*sql.Stmt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if stmt, ok := s.cache.Get(key); ok {
		return stmt, nil
	}
	return nil, ErrNotCached
}

func (s *StatementCache) Set(key uint64, stmt *sql.Stmt) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Add(key, stmt)
}

// GetOrPrepare returns the cached statement for key, calling prepare and
// caching the result on a miss. Concurrent misses prepare once.
func (s *StatementCache) GetOrPrepare(key uint64, prepare func() (*sql.Stmt, error)) (*sql.Stmt, error) {
	s.mu.RLock()
	if stmt, ok := s.cache.Get(key); ok {
		s.mu.RUnlock()
		return stmt, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if stmt, ok := s.cache.Get(key); ok {
		return stmt, nil
	}

	stmt, err := prepare()
	if err != nil {
		return nil, err
	}

	s.cache.Add(key, stmt)
	return stmt, nil
}

// Close purges the cache, closing every cached statement through the
// evict callback.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
	return nil
}
