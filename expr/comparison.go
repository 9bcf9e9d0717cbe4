package expr

import (
	"strings"

	"github.com/Konsultn-Engineering/condex/ident"
	"github.com/Konsultn-Engineering/condex/utils"
)

// Comparison is a field-operator-operand node. Scalar operands bind at
// construction under the comparison's own identifier; multi-valued
// operands expand immediately into one binding per element. A Node
// operand renders inline in parentheses and binds nothing here.
type Comparison struct {
	field    string
	operator string
	typ      string
	value    any
	id       string
	binds    []Binding
	sql      string
}

// NewComparison builds a comparison of field against value. The logical
// type drives casting at execution time; a "[]" suffix expands the value
// into a placeholder list.
func NewComparison(field string, value any, typ string, operator string) *Comparison {
	c := &Comparison{
		field:    field,
		operator: operator,
		typ:      typ,
		value:    value,
		id:       ident.Next(),
	}
	if _, ok := value.(Node); !ok {
		c.bind()
	}
	return c
}

func (c *Comparison) bind() {
	if IsMulti(c.typ) {
		elemType := ElemType(c.typ)
		elems := elements(c.value)
		parts := make([]string, 0, len(elems))
		for i, v := range elems {
			ph := placeholderName(c.id, i)
			c.binds = append(c.binds, Binding{
				Sequence:    i,
				Placeholder: ph,
				Value:       v,
				Type:        elemType,
			})
			parts = append(parts, ":"+ph)
		}
		c.sql = c.field + " " + c.operator + " (" + strings.Join(parts, ", ") + ")"
		return
	}
	ph := placeholderName(c.id, 0)
	c.binds = []Binding{{Sequence: 0, Placeholder: ph, Value: c.value, Type: c.typ}}
	c.sql = c.field + " " + c.operator + " :" + ph
}

// Field returns the left-hand side of the comparison.
func (c *Comparison) Field() string {
	return c.field
}

// Operator returns the comparison operator as written.
func (c *Comparison) Operator() string {
	return c.operator
}

// Value returns the right-hand operand.
func (c *Comparison) Value() any {
	return c.value
}

func (c *Comparison) SQL() string {
	if n, ok := c.value.(Node); ok {
		return c.field + " " + c.operator + " (" + n.SQL() + ")"
	}
	return c.sql
}

func (c *Comparison) Bindings() []Binding {
	out := make([]Binding, len(c.binds))
	copy(out, c.binds)
	return out
}

// Traverse visits a Node operand's sub-expressions first, then the
// comparison itself.
func (c *Comparison) Traverse(fn func(Expression)) {
	if e, ok := c.value.(Expression); ok {
		e.Traverse(fn)
	}
	fn(c)
}

func (c *Comparison) Fingerprint() uint64 {
	base := utils.U64("cmp:" + c.id + ":" + c.field + ":" + c.operator + ":" + c.typ)
	if n, ok := c.value.(Node); ok {
		return utils.Mix64(base, n.Fingerprint())
	}
	return utils.Mix64(base, uint64(len(c.binds)))
}

func (*Comparison) isCondition() {}

var (
	_ Expression = (*Comparison)(nil)
	_ Condition  = (*Comparison)(nil)
)
