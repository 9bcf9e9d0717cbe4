package expr

import "github.com/Konsultn-Engineering/condex/utils"

// Unary applies a prefix operator to an inner tree, rendering as
// "OP (inner)". The inner tree keeps its own bindings; a traversal
// reaches them through the inner tree before visiting the unary node.
type Unary struct {
	operator string
	inner    *Tree
}

// NewUnary wraps inner in the given prefix operator.
func NewUnary(inner *Tree, operator string) *Unary {
	return &Unary{operator: operator, inner: inner}
}

// Inner returns the wrapped tree.
func (u *Unary) Inner() *Tree {
	return u.inner
}

// Operator returns the prefix keyword.
func (u *Unary) Operator() string {
	return u.operator
}

func (u *Unary) SQL() string {
	return u.operator + " (" + u.inner.SQL() + ")"
}

// Bindings is empty; the inner tree owns the bindings.
func (u *Unary) Bindings() []Binding {
	return nil
}

func (u *Unary) Traverse(fn func(Expression)) {
	u.inner.Traverse(fn)
	fn(u)
}

func (u *Unary) Fingerprint() uint64 {
	return utils.Mix64(utils.U64("unary:"+u.operator), u.inner.Fingerprint())
}

func (*Unary) isCondition() {}

var (
	_ Expression = (*Unary)(nil)
	_ Condition  = (*Unary)(nil)
)
