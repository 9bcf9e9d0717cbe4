package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== RENDERING SHAPE ====================

func TestEmptyTreeRendersNothing(t *testing.T) {
	tr := And()
	assert.Equal(t, "", tr.SQL())
	assert.Empty(t, tr.Bindings())
	assert.Equal(t, 0, tr.Count())
}

func TestSingleChildRendersBare(t *testing.T) {
	tr := And(Raw("a = 1"))
	assert.Equal(t, "a = 1", tr.SQL())
}

func TestMultipleChildrenWrapOnce(t *testing.T) {
	tr := And(Raw("a = 1"), Raw("b = 2"), Raw("c = 3"))
	assert.Equal(t, "(a = 1 AND b = 2 AND c = 3)", tr.SQL())
}

func TestConjunctionKinds(t *testing.T) {
	assert.Equal(t, "(a OR b)", Or(Raw("a"), Raw("b")).SQL())
	assert.Equal(t, "(a XOR b)", Xor(Raw("a"), Raw("b")).SQL())
}

func TestFreeFormConjunction(t *testing.T) {
	tr := New("and then", nil, Raw("a"), Raw("b"))
	assert.Equal(t, "AND THEN", tr.Conjunction())
	assert.Equal(t, "(a AND THEN b)", tr.SQL())
}

func TestSetConjunctionRerenders(t *testing.T) {
	tr := And(Raw("a"), Raw("b"))
	assert.Equal(t, "(a AND b)", tr.SQL())

	tr.SetConjunction("or")
	assert.Equal(t, "OR", tr.Conjunction())
	assert.Equal(t, "(a OR b)", tr.SQL())

	tr.SetConjunction("  ")
	assert.Equal(t, "AND", tr.Conjunction())
}

// ==================== CONDITION KINDS ====================

func TestEmptyConditionsAreDropped(t *testing.T) {
	tr := And()
	tr.Add(Raw("   "))
	tr.Add(Grouped(OpOr))
	tr.Add(Not())

	var nilTree *Tree
	tr.Add(nilTree)

	emptySub := And()
	tr.Add(emptySub)

	assert.Equal(t, 0, tr.Count())
	assert.Equal(t, "", tr.SQL())
}

func TestNestedTreeCondition(t *testing.T) {
	sub := Or(Raw("x = 1"), Raw("y = 2"))
	tr := And(Raw("z = 3"), sub)
	assert.Equal(t, "(z = 3 AND (x = 1 OR y = 2))", tr.SQL())
}

func TestGroupedCondition(t *testing.T) {
	tr := And(
		Raw("live = true"),
		Grouped(OpOr, Raw("a = 1"), Raw("b = 2")),
	)
	assert.Equal(t, "(live = true AND (a = 1 OR b = 2))", tr.SQL())
}

func TestNegationCondition(t *testing.T) {
	tr := And().Not(Raw("archived = true"))
	assert.Equal(t, "NOT (archived = true)", tr.SQL())

	tr2 := And(Raw("a = 1"), Not(Raw("b = 2"), Raw("c = 3")))
	assert.Equal(t, "(a = 1 AND NOT ((b = 2 AND c = 3)))", tr2.SQL())
}

type stamp struct {
	text string
}

func (s stamp) SQL() string         { return s.text }
func (s stamp) Fingerprint() uint64 { return 7 }

func TestWrapForeignNode(t *testing.T) {
	tr := And(Wrap(stamp{text: "created_at < now()"}))
	assert.Equal(t, "created_at < now()", tr.SQL())
}

// ==================== FIELD KEY PARSING ====================

func TestFieldKeyParsing(t *testing.T) {
	cases := []struct {
		key      string
		field    string
		operator string
	}{
		{"name", "name", "="},
		{"age >", "age", ">"},
		{"age >=", "age", ">="},
		{"status NOT IN", "status", "NOT IN"},
		{"  name  ", "name", "="},
		{" age   > ", "age", ">"},
	}
	for _, c := range cases {
		f := Field(c.key, nil)
		assert.Equal(t, c.field, f.Field, "key %q", c.key)
		assert.Equal(t, c.operator, f.Operator, "key %q", c.key)
	}
}

func TestOperatorCasePreserved(t *testing.T) {
	tr := And(Field("status not in", []string{"a"}))
	assert.Contains(t, tr.SQL(), "status not in (")
}

// ==================== COMPARATOR BATTERY ====================

func TestComparatorBattery(t *testing.T) {
	ops := []struct {
		build    func(*Tree) *Tree
		operator string
	}{
		{func(tr *Tree) *Tree { return tr.Eq("f", 1) }, "="},
		{func(tr *Tree) *Tree { return tr.NotEq("f", 1) }, "!="},
		{func(tr *Tree) *Tree { return tr.Gt("f", 1) }, ">"},
		{func(tr *Tree) *Tree { return tr.Gte("f", 1) }, ">="},
		{func(tr *Tree) *Tree { return tr.Lt("f", 1) }, "<"},
		{func(tr *Tree) *Tree { return tr.Lte("f", 1) }, "<="},
		{func(tr *Tree) *Tree { return tr.Like("f", "x%") }, "LIKE"},
		{func(tr *Tree) *Tree { return tr.NotLike("f", "x%") }, "NOT LIKE"},
	}
	for _, c := range ops {
		tr := c.build(And())
		binds := CollectBindings(tr)
		require.Len(t, binds, 1, "operator %s", c.operator)
		assert.Equal(t, "f "+c.operator+" :"+binds[0].Placeholder, tr.SQL())
	}
}

func TestNullChecks(t *testing.T) {
	tr := And().IsNull("deleted_at").IsNotNull("confirmed_at")
	assert.Equal(t, "(deleted_at IS NULL AND confirmed_at IS NOT NULL)", tr.SQL())
	assert.Empty(t, CollectBindings(tr))
}

// ==================== TYPE MAPS ====================

func TestGroupInheritsTypes(t *testing.T) {
	tr := New(OpAnd, Types{"n": TypeInteger})
	tr.Add(Grouped(OpOr, Field("n", 1), Field("n", 2)))

	binds := CollectBindings(tr)
	require.Len(t, binds, 2)
	for _, b := range binds {
		assert.Equal(t, TypeInteger, b.Type)
	}
}

func TestAddTypedOverridesTreeTypes(t *testing.T) {
	tr := New(OpAnd, Types{"v": TypeString})
	tr.AddTyped(Types{"v": TypeInteger}, Field("v", 1))

	binds := CollectBindings(tr)
	require.Len(t, binds, 1)
	assert.Equal(t, TypeInteger, binds[0].Type)
}

func TestUntypedFieldBindsWithoutType(t *testing.T) {
	tr := And().Eq("anything", 5)
	binds := CollectBindings(tr)
	require.Len(t, binds, 1)
	assert.Equal(t, "", binds[0].Type)
}

// ==================== MANUAL BINDINGS ====================

func TestBindNamedToken(t *testing.T) {
	tr := And(Raw("id = :uid"))
	tr.Bind(":uid", 42, TypeInteger)

	binds := tr.Bindings()
	require.Len(t, binds, 1)
	assert.Equal(t, "uid", binds[0].Placeholder)
	assert.Equal(t, 0, binds[0].Sequence)
	assert.Equal(t, 42, binds[0].Value)
	assert.Equal(t, "id = :uid", tr.SQL())
}

func TestBindTokenRules(t *testing.T) {
	tr := And()
	tr.Bind("3", "positional", TypeString)
	tr.Bind("weight", 1.5, TypeFloat)

	binds := tr.Bindings()
	require.Len(t, binds, 2)

	assert.Equal(t, "?", binds[0].Placeholder)
	assert.Equal(t, 0, binds[0].Sequence)

	assert.Equal(t, "c"+tr.ID()+"_1", binds[1].Placeholder)
	assert.Equal(t, 1, binds[1].Sequence)
}

func TestPlaceholderUniquenessAcrossTrees(t *testing.T) {
	a := And()
	a.Bind("limit", 10, TypeInteger)
	b := And()
	b.Bind("limit", 20, TypeInteger)

	assert.NotEqual(t, a.Bindings()[0].Placeholder, b.Bindings()[0].Placeholder)
}

// ==================== MEMOIZATION ====================

func TestRenderIdempotence(t *testing.T) {
	tr := And().In("tags", "go", "sql")

	sql := tr.SQL()
	binds := tr.Bindings()
	require.Len(t, binds, 2)

	assert.Equal(t, sql, tr.SQL())
	assert.Equal(t, binds, tr.Bindings())
	assert.Equal(t, sql, tr.SQL())
}

func TestMutationAfterRenderGetsFreshPlaceholders(t *testing.T) {
	tr := And().In("a", "x", "y")
	before := tr.Bindings()
	require.Len(t, before, 2)

	tr.In("b", "z")
	assert.Equal(t, 4, tr.table.seq)

	after := tr.Bindings()
	require.Len(t, after, 3)
	for _, nb := range after {
		for _, ob := range before {
			assert.NotEqual(t, ob.Placeholder, nb.Placeholder)
		}
	}
}

func TestFingerprintStableUntilMutation(t *testing.T) {
	tr := And(Raw("a = 1"))
	fp := tr.Fingerprint()
	assert.Equal(t, fp, tr.Fingerprint())

	tr.Add(Raw("b = 2"))
	assert.NotEqual(t, fp, tr.Fingerprint())
}

// ==================== END TO END ====================

func TestEndToEnd(t *testing.T) {
	tr := And(
		Field("name", "bob"),
		Field("age >", 18),
		Grouped(OpOr, Raw("a = 1"), Raw("b = 2")),
	)

	binds := CollectBindings(tr)
	require.Len(t, binds, 2)

	want := "(name = :" + binds[0].Placeholder +
		" AND age > :" + binds[1].Placeholder +
		" AND (a = 1 OR b = 2))"
	assert.Equal(t, want, tr.SQL())
	assert.Equal(t, "bob", binds[0].Value)
	assert.Equal(t, 18, binds[1].Value)
}
