package expr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== ARRAY EXPANSION ====================

func TestInListExpansion(t *testing.T) {
	tr := And().In("status", "new", "open", "closed")
	id := tr.ID()

	sql := tr.SQL()
	assert.Equal(t, fmt.Sprintf("status IN (:c%s_1, :c%s_2, :c%s_3)", id, id, id), sql)

	binds := tr.Bindings()
	require.Len(t, binds, 3)
	for i, want := range []string{"new", "open", "closed"} {
		assert.Equal(t, want, binds[i].Value)
		assert.Equal(t, TypeString, binds[i].Type)
		assert.Equal(t, i+1, binds[i].Sequence)
	}
}

func TestEmptyInList(t *testing.T) {
	tr := And().In("status")
	assert.Equal(t, "status IN ()", tr.SQL())
	assert.Empty(t, tr.Bindings())

	tr2 := And().In("status", []string{})
	assert.Equal(t, "status IN ()", tr2.SQL())
	assert.Empty(t, tr2.Bindings())
}

func TestTypedInExpansion(t *testing.T) {
	tr := New(OpAnd, Types{"age": TypeInteger}, Field("age IN", []int{30, 40}))
	id := tr.ID()

	assert.Equal(t, fmt.Sprintf("age IN (:c%s_1, :c%s_2)", id, id), tr.SQL())

	binds := tr.Bindings()
	require.Len(t, binds, 2)
	assert.Equal(t, TypeInteger, binds[0].Type)
	assert.Equal(t, 30, binds[0].Value)
	assert.Equal(t, 40, binds[1].Value)
}

func TestNotInExpansion(t *testing.T) {
	tr := And().NotIn("state", "failed", "dead")
	id := tr.ID()

	assert.Equal(t, fmt.Sprintf("state NOT IN (:c%s_1, :c%s_2)", id, id), tr.SQL())
	assert.Len(t, tr.Bindings(), 2)
}

func TestManualMultiBindExpansion(t *testing.T) {
	tr := And(Raw("id IN (:ids)"))
	tr.Bind(":ids", []int{7, 8, 9}, "integer[]")
	id := tr.ID()

	assert.Equal(t, fmt.Sprintf("id IN (:c%s_1, :c%s_2, :c%s_3)", id, id, id), tr.SQL())

	binds := tr.Bindings()
	require.Len(t, binds, 3)
	for i, want := range []int{7, 8, 9} {
		assert.Equal(t, want, binds[i].Value)
		assert.Equal(t, TypeInteger, binds[i].Type)
	}
}

func TestPositionalMultiBindingPassesThrough(t *testing.T) {
	tr := And(Raw("x IN (?)"))
	tr.Bind("0", []string{"a", "b"}, "string[]")

	assert.Equal(t, "x IN (?)", tr.SQL())

	binds := tr.Bindings()
	require.Len(t, binds, 1)
	assert.Equal(t, "?", binds[0].Placeholder)
	assert.Equal(t, "string[]", binds[0].Type)
}

// Placeholder tokens can prefix one another once a tree has ten or more
// bindings; expansion must still rewrite each token whole.
func TestExpansionIsPrefixSafe(t *testing.T) {
	tr := And()
	tr.Bind(":k0", 0, TypeInteger)
	tr.In("a", "x", "y")
	for i := 1; i <= 10; i++ {
		tr.Bind(fmt.Sprintf(":k%d", i), i, TypeInteger)
	}
	tr.In("b", "z")
	id := tr.ID()

	sql := tr.SQL()
	assert.Contains(t, sql, fmt.Sprintf("a IN (:c%s_13, :c%s_14)", id, id))
	assert.Contains(t, sql, fmt.Sprintf("b IN (:c%s_15)", id))
}

func TestNestedTreeKeepsOwnBindings(t *testing.T) {
	sub := New(OpOr, Types{"tag": TypeString})
	sub.In("tag", "a", "b")

	tr := And(Raw("live = true"), sub)

	assert.Equal(t, "(live = true AND "+sub.SQL()+")", tr.SQL())
	assert.Empty(t, tr.Bindings())
	assert.Len(t, CollectBindings(tr), 2)
}

func TestSubqueryOperandSkipsBinding(t *testing.T) {
	sub := Or(Raw("r = 1"), Raw("r = 2"))
	tr := And().In("id", sub)

	assert.Equal(t, "id IN ((r = 1 OR r = 2))", tr.SQL())
	assert.Empty(t, CollectBindings(tr))
}
