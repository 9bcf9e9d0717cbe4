package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Konsultn-Engineering/condex/cache"
	"github.com/Konsultn-Engineering/condex/database"
	"github.com/Konsultn-Engineering/condex/expr"
	"github.com/Konsultn-Engineering/condex/query"
)

// Query compiles and runs a select builder, returning one map per row
// keyed by column name.
func (e *Engine) Query(ctx context.Context, sb *query.SelectBuilder) ([]map[string]any, error) {
	queryID := e.queryIDs.Next()
	ctx, cancel := e.queryContext(ctx)
	defer cancel()

	ctx, span := startQuerySpan(ctx, "condex.query", queryID, e.dialect.Name())
	done := timed()

	sqlText, args, err := e.compileSelect(sb)
	if err != nil {
		endSpan(span, err)
		e.logError(queryID, sqlText, err)
		return nil, err
	}
	setStatement(span, sqlText)

	rows, err := e.executeQuery(ctx, sqlText, args)
	if err != nil {
		err = fmt.Errorf("execute query: %w", err)
		endSpan(span, err)
		e.logError(queryID, sqlText, err)
		return nil, err
	}
	defer rows.Close()

	out, err := rowsToMaps(rows)
	if err != nil {
		err = fmt.Errorf("scan rows: %w", err)
		endSpan(span, err)
		e.logError(queryID, sqlText, err)
		return nil, err
	}

	endSpan(span, nil)
	e.logQuery(queryID, sqlText, len(out), done())
	return out, nil
}

// Exec runs a statement that returns no rows. A non-empty condition tree
// renders as the statement's WHERE clause.
func (e *Engine) Exec(ctx context.Context, sqlText string, tree *expr.Tree) (database.Result, error) {
	queryID := e.queryIDs.Next()
	ctx, cancel := e.queryContext(ctx)
	defer cancel()

	ctx, span := startQuerySpan(ctx, "condex.exec", queryID, e.dialect.Name())
	done := timed()

	named := sqlText
	var binds []expr.Binding
	if tree != nil {
		if where := tree.SQL(); where != "" {
			named += " WHERE " + where
		}
		binds = expr.CollectBindings(tree)
	}

	casted, err := e.castBindings(binds)
	if err != nil {
		endSpan(span, err)
		e.logError(queryID, named, err)
		return nil, err
	}

	bound, err := query.BindNamed(named, casted, e.dialect)
	if err != nil {
		endSpan(span, err)
		e.logError(queryID, named, err)
		return nil, err
	}
	setStatement(span, bound.SQL)

	res, err := e.db.ExecContext(ctx, bound.SQL, bound.Args...)
	if err != nil {
		err = fmt.Errorf("execute statement: %w", err)
		endSpan(span, err)
		e.logError(queryID, bound.SQL, err)
		return nil, err
	}

	affected, _ := res.RowsAffected()
	endSpan(span, nil)
	e.logExec(queryID, bound.SQL, affected, done())
	return res, nil
}

// compileSelect turns a builder into dialect-positional SQL and its
// ordered arguments. The plan cache skips placeholder translation for
// builders that have not changed since their last run.
func (e *Engine) compileSelect(sb *query.SelectBuilder) (string, []any, error) {
	named, binds := sb.Build()

	casted, err := e.castBindings(binds)
	if err != nil {
		return named, nil, err
	}

	fp := sb.Fingerprint()
	if cached, ok := e.plans.GetSQL(fp); ok {
		args, err := query.ArgsFor(cached.ArgsOrder, casted)
		if err != nil {
			return cached.SQL, nil, err
		}
		return cached.SQL, args, nil
	}

	bound, err := query.BindNamed(named, casted, e.dialect)
	if err != nil {
		return named, nil, err
	}
	e.plans.SetSQL(fp, &cache.CachedQuery{SQL: bound.SQL, ArgsOrder: bound.Names})
	return bound.SQL, bound.Args, nil
}

// castBindings runs every binding value through the caster for its
// logical type. Untyped bindings pass through unchanged.
func (e *Engine) castBindings(binds []expr.Binding) ([]expr.Binding, error) {
	if len(binds) == 0 {
		return binds, nil
	}
	out := make([]expr.Binding, len(binds))
	for i, b := range binds {
		v, err := e.casters.Cast(b.Value, b.Type)
		if err != nil {
			return nil, fmt.Errorf("cast binding %q: %w", b.Placeholder, err)
		}
		b.Value = v
		out[i] = b
	}
	return out, nil
}

// executeQuery runs positional SQL, going through the prepared statement
// cache when the database hands out statements.
func (e *Engine) executeQuery(ctx context.Context, sqlText string, args []any) (database.Rows, error) {
	if preparer, ok := e.db.(database.Preparer); ok {
		stmt, err := e.stmts.GetOrPrepare(cache.Key(sqlText), func() (*sql.Stmt, error) {
			return preparer.PrepareContext(ctx, sqlText)
		})
		if err != nil {
			return nil, err
		}
		rows, err := stmt.QueryContext(ctx, args...)
		if err != nil {
			return nil, err
		}
		return database.NewSqlRows(rows), nil
	}
	return e.db.QueryContext(ctx, sqlText, args...)
}

// rowsToMaps drains a cursor into column-keyed maps. Cursors that decode
// their own values skip the scan buffers.
func rowsToMaps(rows database.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	valuer, _ := rows.(database.Valuer)

	var buffers *scanBuffers
	if valuer == nil {
		buffers = scanPool.Get().(*scanBuffers)
		defer scanPool.Put(buffers)
	}

	var out []map[string]any
	for rows.Next() {
		var vals []any
		if valuer != nil {
			vals, err = valuer.Values()
			if err != nil {
				return nil, err
			}
		} else {
			buffers.prepare(len(cols))
			if err := rows.Scan(buffers.ptrs...); err != nil {
				return nil, err
			}
			vals = buffers.vals
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if i < len(vals) {
				row[col] = vals[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
