package expr

import "strings"

// Condition is a value accepted by Tree.Add. The set is closed: raw SQL
// strings, field comparisons, nested groups, negations, prebuilt trees and
// the node wrappers below. Anything else must come through Wrap.
type Condition interface {
	isCondition()
}

// Raw is a SQL fragment appended verbatim as a Literal node. Empty or
// all-whitespace fragments are dropped.
type Raw string

func (Raw) isCondition() {}

// FieldOp compares a field against a value with an explicit operator.
// Construct one with Field to get the operator parsed out of the key.
type FieldOp struct {
	Field    string
	Operator string
	Value    any
}

func (FieldOp) isCondition() {}

// Field builds a FieldOp from a condition key. The key splits at the first
// space into field and operator; a bare field defaults to equality.
//
//	Field("age >", 18)          // age > 18
//	Field("status NOT IN", ...) // status NOT IN (...)
//	Field("name", "bob")        // name = bob
func Field(key string, value any) FieldOp {
	key = strings.TrimSpace(key)
	if i := strings.IndexByte(key, ' '); i >= 0 {
		return FieldOp{
			Field:    key[:i],
			Operator: strings.TrimSpace(key[i+1:]),
			Value:    value,
		}
	}
	return FieldOp{Field: key, Operator: OpEqual, Value: value}
}

// Group nests conditions under their own conjunction. The group becomes a
// child Tree that inherits the parent's type map; empty groups are dropped.
type Group struct {
	Conj  string
	Items []Condition
}

func (Group) isCondition() {}

// Grouped is shorthand for a Group literal.
func Grouped(conj string, items ...Condition) Group {
	return Group{Conj: conj, Items: items}
}

// Negation wraps conditions in a NOT. The wrapped conditions form an AND
// tree that renders as NOT (...).
type Negation struct {
	Items []Condition
}

func (Negation) isCondition() {}

// Not builds a Negation over the given conditions.
func Not(conds ...Condition) Negation {
	return Negation{Items: conds}
}

// nodeCondition adapts a foreign Node into the condition set.
type nodeCondition struct {
	node Node
}

func (nodeCondition) isCondition() {}

// Wrap adapts any Node into a Condition so custom expressions can be
// added to a tree alongside the built-in kinds.
func Wrap(n Node) Condition {
	return nodeCondition{node: n}
}
