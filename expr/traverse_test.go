package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraverseVisitsChildrenBeforeSelf(t *testing.T) {
	inner := Or(Raw("x = 1"))
	tr := And(inner).Not(Raw("y = 2"))

	var order []Expression
	tr.Traverse(func(e Expression) {
		order = append(order, e)
	})

	require.Len(t, order, 4)
	assert.Same(t, inner, order[0])

	u, ok := order[2].(*Unary)
	require.True(t, ok)
	assert.Same(t, u.Inner(), order[1])
	assert.Same(t, tr, order[3])
}

func TestNegationBindingsReachableByTraversal(t *testing.T) {
	tr := And().Not(Field("deleted", true))

	assert.Contains(t, tr.SQL(), "NOT (deleted = :")
	assert.Empty(t, tr.Bindings())

	binds := CollectBindings(tr)
	require.Len(t, binds, 1)
	assert.Equal(t, true, binds[0].Value)
}

func TestCollectBindingsGathersEveryLevel(t *testing.T) {
	sub := Or(Field("a", 1), Field("b", 2))
	tr := And(sub, Field("c", 3))
	tr.Bind(":manual", 4, TypeInteger)

	binds := CollectBindings(tr)
	require.Len(t, binds, 4)

	values := make([]any, len(binds))
	for i, b := range binds {
		values[i] = b.Value
	}
	assert.Equal(t, []any{1, 2, 3, 4}, values)
}

func TestTraverseEntersComparisonOperand(t *testing.T) {
	sub := Or(Field("n", 9))
	tr := And().In("id", sub)

	binds := CollectBindings(tr)
	require.Len(t, binds, 1)
	assert.Equal(t, 9, binds[0].Value)
}
