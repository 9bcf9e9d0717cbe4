package cache

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKeyIsDeterministic(t *testing.T) {
	a := Key("SELECT * FROM users WHERE id = $1")
	b := Key("SELECT * FROM users WHERE id = $1")
	c := Key("SELECT * FROM users WHERE id = $2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestQueryCacheRoundTrip(t *testing.T) {
	qc := NewQueryCache()

	_, ok := qc.GetSQL(1)
	assert.False(t, ok)

	cached := &CachedQuery{
		SQL:       "SELECT * FROM users WHERE id = $1",
		ArgsOrder: []string{"c1_0"},
	}
	qc.SetSQL(1, cached)

	got, ok := qc.GetSQL(1)
	require.True(t, ok)
	assert.Same(t, cached, got)
}

func TestStatementCacheMiss(t *testing.T) {
	sc := NewStatementCache(4)
	_, err := sc.Get(99)
	assert.ErrorIs(t, err, ErrNotCached)
	assert.NoError(t, sc.Close())
}

func TestGetOrPreparePreparesOnce(t *testing.T) {
	db := openDB(t)
	sc := NewStatementCache(4)
	defer sc.Close()

	prepares := 0
	prepare := func() (*sql.Stmt, error) {
		prepares++
		return db.Prepare("SELECT 41 + 1")
	}

	key := Key("SELECT 41 + 1")
	first, err := sc.GetOrPrepare(key, prepare)
	require.NoError(t, err)
	second, err := sc.GetOrPrepare(key, prepare)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, prepares)

	var n int
	require.NoError(t, first.QueryRow().Scan(&n))
	assert.Equal(t, 42, n)
}

func TestEvictionClosesStatement(t *testing.T) {
	db := openDB(t)
	sc := NewStatementCache(1)
	defer sc.Close()

	older, err := sc.GetOrPrepare(Key("SELECT 1"), func() (*sql.Stmt, error) {
		return db.Prepare("SELECT 1")
	})
	require.NoError(t, err)

	_, err = sc.GetOrPrepare(Key("SELECT 2"), func() (*sql.Stmt, error) {
		return db.Prepare("SELECT 2")
	})
	require.NoError(t, err)

	var n int
	err = older.QueryRow().Scan(&n)
	assert.ErrorContains(t, err, "statement is closed")
}

func TestCloseClosesCachedStatements(t *testing.T) {
	db := openDB(t)
	sc := NewStatementCache(4)

	stmt, err := sc.GetOrPrepare(Key("SELECT 3"), func() (*sql.Stmt, error) {
		return db.Prepare("SELECT 3")
	})
	require.NoError(t, err)
	require.NoError(t, sc.Close())

	var n int
	err = stmt.QueryRow().Scan(&n)
	assert.ErrorContains(t, err, "statement is closed")
}
