package expr

import (
	"reflect"
	"strings"

	"github.com/Konsultn-Engineering/condex/ident"
)

// Types maps field names to logical type names, e.g. {"age": "integer"}.
// Fields absent from the map bind untyped.
type Types map[string]string

// Tree is a boolean expression: an ordered list of child nodes joined by
// one conjunction, plus the bindings registered against the tree. Child
// order follows insertion order. A tree renders lazily; the first call to
// SQL or Bindings compiles it and mutating the tree afterwards discards
// that compilation.
type Tree struct {
	conj  string
	id    string
	types Types
	nodes []Node
	table bindingTable
	memo  *compiled
}

// New builds a tree joined by the given conjunction. The conjunction is
// uppercased and not validated, so any SQL keyword works; empty defaults
// to AND. The type map applies to every condition later added.
func New(conjunction string, types Types, conds ...Condition) *Tree {
	id := ident.Next()
	t := &Tree{
		conj:  OpAnd,
		id:    id,
		types: types,
		table: bindingTable{id: id},
	}
	if c := strings.ToUpper(strings.TrimSpace(conjunction)); c != "" {
		t.conj = c
	}
	return t.Add(conds...)
}

// And builds an AND tree over the given conditions.
func And(conds ...Condition) *Tree {
	return New(OpAnd, nil, conds...)
}

// Or builds an OR tree over the given conditions.
func Or(conds ...Condition) *Tree {
	return New(OpOr, nil, conds...)
}

// Xor builds an XOR tree over the given conditions.
func Xor(conds ...Condition) *Tree {
	return New(OpXor, nil, conds...)
}

// ID returns the tree's generated identifier. Synthesized placeholder
// names embed it, which keeps bindings from separate trees distinct.
func (t *Tree) ID() string {
	return t.id
}

// Conjunction returns the keyword joining the tree's children.
func (t *Tree) Conjunction() string {
	return t.conj
}

// SetConjunction replaces the joining keyword. The value is uppercased;
// empty resets to AND.
func (t *Tree) SetConjunction(conj string) *Tree {
	t.invalidate()
	conj = strings.ToUpper(strings.TrimSpace(conj))
	if conj == "" {
		conj = OpAnd
	}
	t.conj = conj
	return t
}

// Count returns the number of direct children.
func (t *Tree) Count() int {
	return len(t.nodes)
}

// SetTypes replaces the tree's type map. Only conditions added afterwards
// see the new map.
func (t *Tree) SetTypes(types Types) *Tree {
	t.types = types
	return t
}

// Add appends conditions to the tree in order.
func (t *Tree) Add(conds ...Condition) *Tree {
	return t.AddTyped(nil, conds...)
}

// AddTyped appends conditions using an extra type map for this call only.
// Per-call types win over the tree's own map on conflict.
func (t *Tree) AddTyped(types Types, conds ...Condition) *Tree {
	t.invalidate()
	for _, c := range conds {
		t.addCondition(types, c)
	}
	return t
}

func (t *Tree) addCondition(types Types, c Condition) {
	switch v := c.(type) {
	case Raw:
		if strings.TrimSpace(string(v)) != "" {
			t.nodes = append(t.nodes, Literal(v))
		}
	case Literal:
		t.nodes = append(t.nodes, v)
	case FieldOp:
		t.addField(types, v)
	case Group:
		child := New(v.Conj, mergeTypes(types, t.types), v.Items...)
		if child.Count() > 0 {
			t.nodes = append(t.nodes, child)
		}
	case Negation:
		inner := New(OpAnd, mergeTypes(types, t.types), v.Items...)
		if inner.Count() > 0 {
			t.nodes = append(t.nodes, NewUnary(inner, OpNot))
		}
	case *Tree:
		if v != nil && v.Count() > 0 {
			t.nodes = append(t.nodes, v)
		}
	case *Comparison:
		if v != nil {
			t.nodes = append(t.nodes, v)
		}
	case *Unary:
		if v != nil {
			t.nodes = append(t.nodes, v)
		}
	case nodeCondition:
		if v.node != nil {
			t.nodes = append(t.nodes, v.node)
		}
	}
}

// addField turns a parsed field condition into a child node. IN and
// NOT IN force a multi-valued string type unless the field already has
// one, and bind the whole list as a single placeholder that expands at
// render time. Everything else becomes a Comparison.
func (t *Tree) addField(types Types, f FieldOp) {
	field := strings.TrimSpace(f.Field)
	op := strings.TrimSpace(f.Operator)
	if op == "" {
		op = OpEqual
	}
	typ := t.typeOf(types, field)

	switch strings.ToUpper(op) {
	case OpIn, OpNotIn:
		if typ == "" {
			typ = TypeString
		}
		typ = AsMulti(typ)
		if _, ok := f.Value.(Node); !ok {
			ph := t.table.register(field, f.Value, typ)
			frag := field + " " + op + " ("
			if ph == "?" {
				frag += ph
			} else {
				frag += ":" + ph
			}
			t.nodes = append(t.nodes, Literal(frag+")"))
			return
		}
	}
	t.nodes = append(t.nodes, NewComparison(field, f.Value, typ, op))
}

func (t *Tree) typeOf(types Types, field string) string {
	if typ, ok := types[field]; ok {
		return typ
	}
	if typ, ok := t.types[field]; ok {
		return typ
	}
	return ""
}

// mergeTypes overlays per-call types on a base map; call entries win.
func mergeTypes(call, base Types) Types {
	if len(call) == 0 {
		return base
	}
	if len(base) == 0 {
		return call
	}
	merged := make(Types, len(base)+len(call))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range call {
		merged[k] = v
	}
	return merged
}

// Eq appends field = value.
func (t *Tree) Eq(field string, value any) *Tree {
	return t.compare(field, OpEqual, value)
}

// NotEq appends field != value.
func (t *Tree) NotEq(field string, value any) *Tree {
	return t.compare(field, OpNotEqual, value)
}

// Gt appends field > value.
func (t *Tree) Gt(field string, value any) *Tree {
	return t.compare(field, OpGreaterThan, value)
}

// Gte appends field >= value.
func (t *Tree) Gte(field string, value any) *Tree {
	return t.compare(field, OpGreaterThanOrEqual, value)
}

// Lt appends field < value.
func (t *Tree) Lt(field string, value any) *Tree {
	return t.compare(field, OpLessThan, value)
}

// Lte appends field <= value.
func (t *Tree) Lte(field string, value any) *Tree {
	return t.compare(field, OpLessThanOrEqual, value)
}

// Like appends field LIKE pattern.
func (t *Tree) Like(field string, pattern any) *Tree {
	return t.compare(field, OpLike, pattern)
}

// NotLike appends field NOT LIKE pattern.
func (t *Tree) NotLike(field string, pattern any) *Tree {
	return t.compare(field, OpNotLike, pattern)
}

func (t *Tree) compare(field, op string, value any) *Tree {
	t.invalidate()
	t.addField(nil, FieldOp{Field: field, Operator: op, Value: value})
	return t
}

// In appends field IN (...). Pass either individual values, one slice,
// or one Node for a subquery-style right side. An empty list renders as
// IN () with no bindings.
func (t *Tree) In(field string, values ...any) *Tree {
	return t.addIn(field, OpIn, values)
}

// NotIn appends field NOT IN (...) with the same value handling as In.
func (t *Tree) NotIn(field string, values ...any) *Tree {
	return t.addIn(field, OpNotIn, values)
}

func (t *Tree) addIn(field, op string, values []any) *Tree {
	t.invalidate()
	if len(values) == 1 {
		_, isNode := values[0].(Node)
		if isNode || isListValue(values[0]) {
			t.addField(nil, FieldOp{Field: field, Operator: op, Value: values[0]})
			return t
		}
	}
	t.addField(nil, FieldOp{Field: field, Operator: op, Value: values})
	return t
}

// IsNull appends field IS NULL.
func (t *Tree) IsNull(field string) *Tree {
	t.invalidate()
	t.nodes = append(t.nodes, Literal(field+" "+OpIsNull))
	return t
}

// IsNotNull appends field IS NOT NULL.
func (t *Tree) IsNotNull(field string) *Tree {
	t.invalidate()
	t.nodes = append(t.nodes, Literal(field+" "+OpIsNotNull))
	return t
}

// Not appends a NOT (...) over the given conditions.
func (t *Tree) Not(conds ...Condition) *Tree {
	return t.Add(Not(conds...))
}

// Bind registers a manual binding under the given placeholder token.
// Tokens follow the placeholder rules: purely numeric tokens become a
// positional "?", tokens with a leading colon keep their name, anything
// else gets a synthesized name. Every call consumes a sequence number.
func (t *Tree) Bind(param string, value any, typ string) *Tree {
	t.invalidate()
	t.table.register(param, value, typ)
	return t
}

// Traverse walks every sub-expression deepest first, ending with the
// tree itself.
func (t *Tree) Traverse(fn func(Expression)) {
	for _, n := range t.nodes {
		if e, ok := n.(Expression); ok {
			e.Traverse(fn)
		}
	}
	fn(t)
}

// invalidate drops the memoized compilation. The draft sequence jumps
// past any placeholders the stale compilation synthesized so they are
// never reissued.
func (t *Tree) invalidate() {
	if t.memo != nil {
		t.table.seq = t.memo.nextSeq
		t.memo = nil
	}
}

func (*Tree) isCondition() {}

func isListValue(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]byte); ok {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

var (
	_ Expression = (*Tree)(nil)
	_ Condition  = (*Tree)(nil)
)
