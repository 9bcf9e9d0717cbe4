package query

import (
	"fmt"
	"strings"

	"github.com/Konsultn-Engineering/condex/dialect"
	"github.com/Konsultn-Engineering/condex/expr"
)

// BoundQuery is a statement compiled for one dialect: positional SQL,
// argument values in occurrence order, and the placeholder name behind
// each argument slot ("?" for positional bindings).
type BoundQuery struct {
	SQL   string
	Args  []any
	Names []string
}

// BindNamed rewrites named placeholders into the dialect's positional
// form and lines the bound values up in occurrence order. Text inside
// single quotes, double quotes or backticks is left alone, as are
// Postgres :: casts. Numbered-placeholder dialects reuse one slot for a
// name that occurs twice; bare-? dialects repeat the value instead.
func BindNamed(sql string, bindings []expr.Binding, d dialect.Dialect) (BoundQuery, error) {
	named := make(map[string]expr.Binding, len(bindings))
	var positional []expr.Binding
	for _, b := range bindings {
		if b.Placeholder == "?" {
			positional = append(positional, b)
			continue
		}
		named[b.Placeholder] = b
	}

	reuse := d.Placeholder(1) != "?"

	var out strings.Builder
	out.Grow(len(sql) + 16)
	var args []any
	var names []string
	slots := make(map[string]int)
	posIdx := 0

	i := 0
	for i < len(sql) {
		switch ch := sql[i]; ch {
		case '\'', '"', '`':
			quote := ch
			out.WriteByte(ch)
			i++
			for i < len(sql) {
				out.WriteByte(sql[i])
				if sql[i] == quote {
					if i+1 < len(sql) && sql[i+1] == quote {
						out.WriteByte(sql[i+1])
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}

		case ':':
			if i+1 < len(sql) && sql[i+1] == ':' {
				out.WriteString("::")
				i += 2
				continue
			}
			start := i + 1
			j := start
			for j < len(sql) && isNameChar(sql[j]) {
				j++
			}
			if j == start {
				out.WriteByte(ch)
				i++
				continue
			}
			name := sql[start:j]
			b, ok := named[name]
			if !ok {
				return BoundQuery{}, fmt.Errorf("compile statement: no binding for placeholder :%s", name)
			}
			if reuse {
				if idx, seen := slots[name]; seen {
					out.WriteString(d.Placeholder(idx + 1))
					i = j
					continue
				}
				slots[name] = len(args)
			}
			args = append(args, b.Value)
			names = append(names, name)
			out.WriteString(d.Placeholder(len(args)))
			i = j

		case '?':
			if posIdx >= len(positional) {
				return BoundQuery{}, fmt.Errorf("compile statement: positional parameter %d has no binding", posIdx+1)
			}
			args = append(args, positional[posIdx].Value)
			names = append(names, "?")
			out.WriteString(d.Placeholder(len(args)))
			posIdx++
			i++

		default:
			out.WriteByte(ch)
			i++
		}
	}

	return BoundQuery{SQL: out.String(), Args: args, Names: names}, nil
}

// ArgsFor rebuilds the argument list for an already-compiled statement
// from fresh bindings, using the slot names captured at compile time.
func ArgsFor(names []string, bindings []expr.Binding) ([]any, error) {
	named := make(map[string]expr.Binding, len(bindings))
	var positional []expr.Binding
	for _, b := range bindings {
		if b.Placeholder == "?" {
			positional = append(positional, b)
			continue
		}
		named[b.Placeholder] = b
	}

	args := make([]any, 0, len(names))
	posIdx := 0
	for _, name := range names {
		if name == "?" {
			if posIdx >= len(positional) {
				return nil, fmt.Errorf("rebuild arguments: positional slot %d has no binding", posIdx+1)
			}
			args = append(args, positional[posIdx].Value)
			posIdx++
			continue
		}
		b, ok := named[name]
		if !ok {
			return nil, fmt.Errorf("rebuild arguments: no binding for placeholder :%s", name)
		}
		args = append(args, b.Value)
	}
	return args, nil
}

func isNameChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
