package query

import (
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/condex/expr"
	"github.com/Konsultn-Engineering/condex/utils"
)

// SelectBuilder assembles a SELECT statement around one condition tree.
// The WHERE clause renders with named placeholders; BindNamed turns the
// result into driver-ready positional SQL.
type SelectBuilder struct {
	table    string
	columns  []string
	types    expr.Types
	where    *expr.Tree
	joins    []string
	groupBy  []string
	having   *expr.Tree
	orderBy  []string
	limit    int
	offset   int
	distinct bool
}

// Select starts a builder for the given table. With no columns it selects *.
func Select(table string, columns ...string) *SelectBuilder {
	return &SelectBuilder{
		table:   table,
		columns: columns,
		limit:   -1,
		offset:  -1,
	}
}

// Columns replaces the selected column list.
func (sb *SelectBuilder) Columns(columns ...string) *SelectBuilder {
	sb.columns = columns
	return sb
}

// Distinct marks the statement SELECT DISTINCT.
func (sb *SelectBuilder) Distinct() *SelectBuilder {
	sb.distinct = true
	return sb
}

// Types sets the logical type map applied to conditions added afterwards.
func (sb *SelectBuilder) Types(types expr.Types) *SelectBuilder {
	sb.types = types
	if sb.where != nil {
		sb.where.SetTypes(types)
	}
	if sb.having != nil {
		sb.having.SetTypes(types)
	}
	return sb
}

// Join appends a raw join fragment, rendered verbatim after FROM, e.g.
// "LEFT JOIN orders o ON o.user_id = u.id".
func (sb *SelectBuilder) Join(join string) *SelectBuilder {
	sb.joins = append(sb.joins, join)
	return sb
}

// Table returns the FROM table.
func (sb *SelectBuilder) Table() string {
	return sb.table
}

// WhereTree returns the underlying condition tree, creating it on first
// use. Direct tree manipulation and the builder's battery compose freely.
func (sb *SelectBuilder) WhereTree() *expr.Tree {
	if sb.where == nil {
		sb.where = expr.New(expr.OpAnd, sb.types)
	}
	return sb.where
}

// Where appends conditions joined by AND.
func (sb *SelectBuilder) Where(conds ...expr.Condition) *SelectBuilder {
	sb.WhereTree().Add(conds...)
	return sb
}

// OrWhere groups the existing conditions and ORs the new ones against
// them: old OR (new AND new...).
func (sb *SelectBuilder) OrWhere(conds ...expr.Condition) *SelectBuilder {
	if sb.where == nil || sb.where.Count() == 0 {
		return sb.Where(conds...)
	}
	sb.where = expr.Or(sb.where, expr.New(expr.OpAnd, sb.types, conds...))
	return sb
}

// WhereNot appends a NOT (...) over the given conditions.
func (sb *SelectBuilder) WhereNot(conds ...expr.Condition) *SelectBuilder {
	sb.WhereTree().Not(conds...)
	return sb
}

// AND WHERE methods
func (sb *SelectBuilder) WhereEq(column string, value any) *SelectBuilder {
	sb.WhereTree().Eq(column, value)
	return sb
}

func (sb *SelectBuilder) WhereNotEq(column string, value any) *SelectBuilder {
	sb.WhereTree().NotEq(column, value)
	return sb
}

func (sb *SelectBuilder) WhereGt(column string, value any) *SelectBuilder {
	sb.WhereTree().Gt(column, value)
	return sb
}

func (sb *SelectBuilder) WhereGte(column string, value any) *SelectBuilder {
	sb.WhereTree().Gte(column, value)
	return sb
}

func (sb *SelectBuilder) WhereLt(column string, value any) *SelectBuilder {
	sb.WhereTree().Lt(column, value)
	return sb
}

func (sb *SelectBuilder) WhereLte(column string, value any) *SelectBuilder {
	sb.WhereTree().Lte(column, value)
	return sb
}

func (sb *SelectBuilder) WhereLike(column string, pattern any) *SelectBuilder {
	sb.WhereTree().Like(column, pattern)
	return sb
}

func (sb *SelectBuilder) WhereNotLike(column string, pattern any) *SelectBuilder {
	sb.WhereTree().NotLike(column, pattern)
	return sb
}

func (sb *SelectBuilder) WhereIn(column string, values ...any) *SelectBuilder {
	sb.WhereTree().In(column, values...)
	return sb
}

func (sb *SelectBuilder) WhereNotIn(column string, values ...any) *SelectBuilder {
	sb.WhereTree().NotIn(column, values...)
	return sb
}

func (sb *SelectBuilder) WhereIsNull(column string) *SelectBuilder {
	sb.WhereTree().IsNull(column)
	return sb
}

func (sb *SelectBuilder) WhereIsNotNull(column string) *SelectBuilder {
	sb.WhereTree().IsNotNull(column)
	return sb
}

// OR WHERE methods
func (sb *SelectBuilder) OrWhereEq(column string, value any) *SelectBuilder {
	return sb.OrWhere(expr.Field(column, value))
}

func (sb *SelectBuilder) OrWhereGt(column string, value any) *SelectBuilder {
	return sb.OrWhere(expr.Field(column+" >", value))
}

func (sb *SelectBuilder) OrWhereLt(column string, value any) *SelectBuilder {
	return sb.OrWhere(expr.Field(column+" <", value))
}

func (sb *SelectBuilder) OrWhereLike(column string, pattern any) *SelectBuilder {
	return sb.OrWhere(expr.Field(column+" LIKE", pattern))
}

func (sb *SelectBuilder) OrWhereIn(column string, values ...any) *SelectBuilder {
	if sb.where == nil || sb.where.Count() == 0 {
		return sb.WhereIn(column, values...)
	}
	group := expr.New(expr.OpAnd, sb.types).In(column, values...)
	sb.where = expr.Or(sb.where, group)
	return sb
}

func (sb *SelectBuilder) OrWhereIsNull(column string) *SelectBuilder {
	return sb.OrWhere(expr.Raw(column + " IS NULL"))
}

// GroupBy appends grouping columns.
func (sb *SelectBuilder) GroupBy(columns ...string) *SelectBuilder {
	sb.groupBy = append(sb.groupBy, columns...)
	return sb
}

// HavingTree returns the HAVING condition tree, creating it on first use.
// It is a tree of its own, so its placeholders never collide with WHERE's.
func (sb *SelectBuilder) HavingTree() *expr.Tree {
	if sb.having == nil {
		sb.having = expr.New(expr.OpAnd, sb.types)
	}
	return sb.having
}

// Having appends HAVING conditions joined by AND.
func (sb *SelectBuilder) Having(conds ...expr.Condition) *SelectBuilder {
	sb.HavingTree().Add(conds...)
	return sb
}

// OrderByAsc appends ascending sort columns.
func (sb *SelectBuilder) OrderByAsc(columns ...string) *SelectBuilder {
	sb.orderBy = append(sb.orderBy, columns...)
	return sb
}

// OrderByDesc appends descending sort columns.
func (sb *SelectBuilder) OrderByDesc(columns ...string) *SelectBuilder {
	for _, c := range columns {
		sb.orderBy = append(sb.orderBy, c+" DESC")
	}
	return sb
}

func (sb *SelectBuilder) Limit(limit int) *SelectBuilder {
	sb.limit = limit
	return sb
}

func (sb *SelectBuilder) Offset(offset int) *SelectBuilder {
	sb.offset = offset
	return sb
}

func (sb *SelectBuilder) LimitOffset(limit, offset int) *SelectBuilder {
	sb.limit = limit
	sb.offset = offset
	return sb
}

// Build renders the statement with named placeholders and returns it with
// the flattened bindings of the whole condition tree.
func (sb *SelectBuilder) Build() (string, []expr.Binding) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if sb.distinct {
		b.WriteString("DISTINCT ")
	}
	if len(sb.columns) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(sb.columns, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(sb.table)

	for _, j := range sb.joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if sb.where != nil {
		if cond := sb.where.SQL(); cond != "" {
			b.WriteString(" WHERE ")
			b.WriteString(cond)
		}
	}
	if len(sb.groupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(sb.groupBy, ", "))
	}
	if sb.having != nil {
		if cond := sb.having.SQL(); cond != "" {
			b.WriteString(" HAVING ")
			b.WriteString(cond)
		}
	}
	if len(sb.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(sb.orderBy, ", "))
	}
	if sb.limit >= 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(sb.limit))
	}
	if sb.offset >= 0 {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.Itoa(sb.offset))
	}

	var binds []expr.Binding
	if sb.where != nil {
		binds = expr.CollectBindings(sb.where)
	}
	if sb.having != nil {
		binds = append(binds, expr.CollectBindings(sb.having)...)
	}
	return b.String(), binds
}

// Fingerprint hashes the statement shape and the condition trees. Used as
// a plan-cache key; equal fingerprints imply an identical Build result.
func (sb *SelectBuilder) Fingerprint() uint64 {
	shape := "select:" + sb.table +
		":" + strings.Join(sb.columns, ",") +
		":" + strings.Join(sb.joins, ",") +
		":" + strings.Join(sb.groupBy, ",") +
		":" + strings.Join(sb.orderBy, ",") +
		":" + strconv.Itoa(sb.limit) +
		":" + strconv.Itoa(sb.offset) +
		":" + strconv.FormatBool(sb.distinct)
	fp := utils.U64(shape)
	if sb.where != nil {
		fp = utils.Mix64(fp, sb.where.Fingerprint())
	}
	if sb.having != nil {
		fp = utils.Mix64(fp, sb.having.Fingerprint())
	}
	return fp
}
