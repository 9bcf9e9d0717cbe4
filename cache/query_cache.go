package cache

import (
	"sync"
)

// CachedQuery is one compiled statement: dialect-positional SQL plus the
// placeholder names behind each argument slot, in order. Re-executions
// rebuild their argument list from ArgsOrder without recompiling.
type CachedQuery struct {
	SQL       string
	ArgsOrder []string
}

// QueryCache maps expression fingerprints to compiled statements.
type QueryCache interface {
	GetSQL(fingerprint uint64) (*CachedQuery, bool)
	SetSQL(fingerprint uint64, q *CachedQuery)
}

type memQueryCache struct {
	mu   sync.RWMutex
	data map[uint64]*CachedQuery
}

func NewQueryCache() QueryCache {
	return &memQueryCache{
		data: make(map[uint64]*CachedQuery, 1024),
	}
}

func (c *memQueryCache) GetSQL(f uint64) (*CachedQuery, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.data[f]
	return q, ok
}

func (c *memQueryCache) SetSQL(f uint64, q *CachedQuery) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[f] = q
}
