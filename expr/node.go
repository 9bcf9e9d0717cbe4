// Package expr builds SQL boolean expressions as trees of nodes.
//
// A Tree accumulates conditions joined by a single conjunction (AND, OR,
// XOR or any keyword the caller supplies) and tracks the values bound to
// its placeholders. Rendering a tree produces a parenthesized SQL fragment
// plus a flat table of uniquely named bindings, ready to hand to a query
// builder or an execution engine.
package expr

import "github.com/Konsultn-Engineering/condex/utils"

// Node is a renderable piece of a SQL expression.
type Node interface {
	// SQL renders the node as a SQL fragment.
	SQL() string

	// Fingerprint returns a stable hash of the node's structure.
	// Equal fingerprints imply equal SQL output.
	Fingerprint() uint64
}

// Expression is a node that carries bound parameters. Traverse walks the
// node's children before the node itself, so a full walk visits leaves
// first and the receiver last.
type Expression interface {
	Node
	Bindings() []Binding
	Traverse(fn func(Expression))
}

// Literal is a verbatim SQL fragment. It renders exactly as written and
// carries no bindings of its own.
type Literal string

func (l Literal) SQL() string { return string(l) }

func (l Literal) Fingerprint() uint64 {
	return utils.U64("lit:" + string(l))
}

func (l Literal) isCondition() {}

// CollectBindings walks an expression and gathers the bindings of every
// sub-expression, deepest first.
func CollectBindings(e Expression) []Binding {
	var out []Binding
	e.Traverse(func(x Expression) {
		out = append(out, x.Bindings()...)
	})
	return out
}
