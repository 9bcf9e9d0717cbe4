package expr

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/condex/utils"
)

// compiled is one immutable rendering of a tree's draft state: the SQL
// text, the post-expansion binding table, and the sequence number the
// draft should resume from if the tree is mutated afterwards.
type compiled struct {
	sql      string
	bindings []Binding
	nextSeq  int
}

// SQL renders the tree. A single child renders bare; two or more are
// joined by the conjunction and wrapped in one pair of parentheses. An
// empty tree renders as the empty string. The result is memoized, so
// repeated calls return identical text and bindings until the tree is
// mutated again.
func (t *Tree) SQL() string {
	return t.build().sql
}

// Bindings returns the tree's own bindings after array expansion. Nested
// trees keep their bindings; use CollectBindings to gather a whole
// expression.
func (t *Tree) Bindings() []Binding {
	c := t.build()
	out := make([]Binding, len(c.bindings))
	copy(out, c.bindings)
	return out
}

// Fingerprint hashes the tree's identifier, conjunction, children and
// binding shapes. Bound values stay out of the hash except multi-valued
// lengths, which change the rendered SQL.
func (t *Tree) Fingerprint() uint64 {
	parts := make([]uint64, 0, 1+len(t.nodes)+len(t.table.binds))
	parts = append(parts, utils.U64("tree:"+t.id+":"+t.conj))
	for _, n := range t.nodes {
		parts = append(parts, n.Fingerprint())
	}
	for _, b := range t.table.binds {
		shape := "bind:" + b.Placeholder + ":" + b.Type
		if IsMulti(b.Type) {
			shape += ":" + strconv.Itoa(len(elements(b.Value)))
		}
		parts = append(parts, utils.U64(shape))
	}
	return utils.Mix64(parts...)
}

func (t *Tree) build() *compiled {
	if t.memo == nil {
		t.memo = t.compile()
	}
	return t.memo
}

// compile renders the draft without touching it. Multi-valued bindings
// expand first so their placeholder lists are ready when the literal
// fragments serialize.
func (t *Tree) compile() *compiled {
	out := &compiled{nextSeq: t.table.seq}
	replacer := out.expand(&t.table, t.id)

	parts := make([]string, 0, len(t.nodes))
	for _, n := range t.nodes {
		frag := n.SQL()
		if replacer != nil {
			if _, ok := n.(Literal); ok {
				frag = replacer.Replace(frag)
			}
		}
		if frag == "" {
			continue
		}
		parts = append(parts, frag)
	}

	switch len(parts) {
	case 0:
	case 1:
		out.sql = parts[0]
	default:
		out.sql = "(" + strings.Join(parts, " "+t.conj+" ") + ")"
	}
	return out
}

// expand swaps each multi-valued binding for one fresh binding per
// element, continuing the tree's sequence, and returns a replacer that
// rewrites the original placeholder tokens inside literal fragments.
// Longer tokens are installed first so a token that prefixes another can
// never clip it. Positional bindings have no token in the text and pass
// through untouched.
func (c *compiled) expand(table *bindingTable, id string) *strings.Replacer {
	if !table.hasMulti {
		c.bindings = append([]Binding(nil), table.binds...)
		return nil
	}

	type rewrite struct {
		token string
		text  string
	}
	var rewrites []rewrite

	c.bindings = make([]Binding, 0, len(table.binds))
	next := table.seq
	for _, b := range table.binds {
		if !IsMulti(b.Type) || b.Placeholder == "?" {
			c.bindings = append(c.bindings, b)
			continue
		}
		elemType := ElemType(b.Type)
		elems := elements(b.Value)
		parts := make([]string, 0, len(elems))
		for _, v := range elems {
			ph := placeholderName(id, next)
			c.bindings = append(c.bindings, Binding{
				Sequence:    next,
				Placeholder: ph,
				Value:       v,
				Type:        elemType,
			})
			parts = append(parts, ":"+ph)
			next++
		}
		rewrites = append(rewrites, rewrite{
			token: ":" + b.Placeholder,
			text:  strings.Join(parts, ", "),
		})
	}
	c.nextSeq = next

	if len(rewrites) == 0 {
		return nil
	}
	sort.SliceStable(rewrites, func(i, j int) bool {
		return len(rewrites[i].token) > len(rewrites[j].token)
	})
	pairs := make([]string, 0, len(rewrites)*2)
	for _, r := range rewrites {
		pairs = append(pairs, r.token, r.text)
	}
	return strings.NewReplacer(pairs...)
}
