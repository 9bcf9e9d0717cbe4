package expr

import (
	"reflect"
	"strconv"
	"strings"
)

// Logical type names used in type maps and bindings. A "[]" suffix marks
// a multi-valued binding whose elements share the base type.
const (
	TypeString   = "string"
	TypeInteger  = "integer"
	TypeFloat    = "float"
	TypeDecimal  = "decimal"
	TypeBoolean  = "boolean"
	TypeDatetime = "datetime"
	TypeUUID     = "uuid"
	TypeBinary   = "binary"
)

const multiSuffix = "[]"

// IsMulti reports whether a logical type names a list of values.
func IsMulti(typ string) bool {
	return strings.HasSuffix(typ, multiSuffix)
}

// AsMulti marks a logical type as multi-valued. Already-multi types pass
// through unchanged.
func AsMulti(typ string) string {
	if IsMulti(typ) {
		return typ
	}
	return typ + multiSuffix
}

// ElemType strips the multi marker, returning the element type.
func ElemType(typ string) string {
	return strings.TrimSuffix(typ, multiSuffix)
}

// Binding is one bound parameter of an expression.
type Binding struct {
	// Sequence is the binding's position in its tree's allocation order.
	Sequence int

	// Placeholder is the parameter name without the leading colon, or
	// "?" for positional parameters.
	Placeholder string

	Value any

	// Type is the logical type used to cast Value at execution time.
	Type string
}

// bindingTable allocates placeholders and records bindings for one tree.
// Every registration consumes a sequence number, whatever placeholder
// form the token resolves to.
type bindingTable struct {
	id       string
	seq      int
	binds    []Binding
	hasMulti bool
}

func (t *bindingTable) register(token string, value any, typ string) string {
	seq := t.seq
	t.seq++

	var ph string
	switch {
	case isNumeric(token):
		ph = "?"
	case strings.HasPrefix(token, ":"):
		ph = token[1:]
	default:
		ph = placeholderName(t.id, seq)
	}

	t.binds = append(t.binds, Binding{
		Sequence:    seq,
		Placeholder: ph,
		Value:       value,
		Type:        typ,
	})
	if IsMulti(typ) {
		t.hasMulti = true
	}
	return ph
}

// placeholderName builds the synthesized placeholder for a tree id and
// sequence number. The separator keeps distinct (id, seq) pairs from
// colliding as text.
func placeholderName(id string, seq int) string {
	return "c" + id + "_" + strconv.Itoa(seq)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// elements flattens a multi-valued binding's value into its items. Scalars
// and byte slices count as a single item; nil yields none.
func elements(v any) []any {
	if v == nil {
		return nil
	}
	if b, ok := v.([]byte); ok {
		return []any{b}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out
	default:
		return []any{v}
	}
}
