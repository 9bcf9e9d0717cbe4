package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/condex/expr"
)

func TestSelectStar(t *testing.T) {
	sql, binds := Select("users").Build()
	assert.Equal(t, "SELECT * FROM users", sql)
	assert.Empty(t, binds)
}

func TestSelectColumnsAndDistinct(t *testing.T) {
	sql, _ := Select("users", "id", "name").Distinct().Build()
	assert.Equal(t, "SELECT DISTINCT id, name FROM users", sql)
}

func TestWhereBattery(t *testing.T) {
	sql, binds := Select("users").
		WhereEq("name", "ada").
		WhereGt("age", 30).
		Build()

	require.Len(t, binds, 2)
	want := "SELECT * FROM users WHERE (name = :" + binds[0].Placeholder +
		" AND age > :" + binds[1].Placeholder + ")"
	assert.Equal(t, want, sql)
	assert.Equal(t, "ada", binds[0].Value)
	assert.Equal(t, 30, binds[1].Value)
}

func TestWhereInExpands(t *testing.T) {
	sql, binds := Select("jobs").WhereIn("status", "new", "open", "done").Build()

	require.Len(t, binds, 3)
	assert.Contains(t, sql, "status IN (:")
	for i, want := range []string{"new", "open", "done"} {
		assert.Equal(t, want, binds[i].Value)
	}
}

func TestOrWhereGroupsExisting(t *testing.T) {
	sql, binds := Select("users").
		WhereEq("role", "admin").
		OrWhereEq("superuser", true).
		Build()

	require.Len(t, binds, 2)
	want := "SELECT * FROM users WHERE (role = :" + binds[0].Placeholder +
		" OR superuser = :" + binds[1].Placeholder + ")"
	assert.Equal(t, want, sql)
}

func TestWhereNot(t *testing.T) {
	sql, binds := Select("users").WhereNot(expr.Field("banned", true)).Build()

	require.Len(t, binds, 1)
	assert.Equal(t,
		"SELECT * FROM users WHERE NOT (banned = :"+binds[0].Placeholder+")",
		sql)
}

func TestJoinRendersVerbatim(t *testing.T) {
	sql, _ := Select("users", "u.id", "o.total").
		Join("JOIN orders o ON o.user_id = u.id").
		Join("LEFT JOIN refunds r ON r.order_id = o.id").
		WhereEq("u.active", 1).
		Build()

	assert.Contains(t, sql,
		"FROM users JOIN orders o ON o.user_id = u.id LEFT JOIN refunds r ON r.order_id = o.id WHERE")
}

func TestGroupByHaving(t *testing.T) {
	sql, binds := Select("orders", "user_id", "COUNT(*) AS n").
		GroupBy("user_id").
		Having(expr.Field("COUNT(*) >", 3)).
		Build()

	require.Len(t, binds, 1)
	want := "SELECT user_id, COUNT(*) AS n FROM orders GROUP BY user_id" +
		" HAVING COUNT(*) > :" + binds[0].Placeholder
	assert.Equal(t, want, sql)
	assert.Equal(t, 3, binds[0].Value)
}

func TestHavingBindingsFollowWhereBindings(t *testing.T) {
	_, binds := Select("orders").
		WhereEq("status", "paid").
		GroupBy("user_id").
		Having(expr.Field("SUM(total) >", 100)).
		Build()

	require.Len(t, binds, 2)
	assert.Equal(t, "paid", binds[0].Value)
	assert.Equal(t, 100, binds[1].Value)
	assert.NotEqual(t, binds[0].Placeholder, binds[1].Placeholder)
}

func TestOrderLimitOffset(t *testing.T) {
	sql, _ := Select("posts").
		OrderByAsc("title").
		OrderByDesc("created_at").
		LimitOffset(10, 5).
		Build()

	assert.Equal(t,
		"SELECT * FROM posts ORDER BY title, created_at DESC LIMIT 10 OFFSET 5",
		sql)
}

func TestTypesFlowIntoBindings(t *testing.T) {
	_, binds := Select("users").
		Types(expr.Types{"age": expr.TypeInteger}).
		WhereEq("age", "30").
		Build()

	require.Len(t, binds, 1)
	assert.Equal(t, expr.TypeInteger, binds[0].Type)
}

func TestDirectTreeAccessComposes(t *testing.T) {
	sb := Select("events")
	sb.WhereTree().Bind(":cursor", 99, expr.TypeInteger)
	sb.Where(expr.Raw("id > :cursor"))

	sql, binds := sb.Build()
	assert.Contains(t, sql, "WHERE id > :cursor")
	require.Len(t, binds, 1)
	assert.Equal(t, "cursor", binds[0].Placeholder)
	assert.Equal(t, 99, binds[0].Value)
}

func TestEmptyWhereOmitted(t *testing.T) {
	sql, binds := Select("t").Where().Build()
	assert.Equal(t, "SELECT * FROM t", sql)
	assert.Empty(t, binds)
}

func TestBuilderFingerprint(t *testing.T) {
	sb := Select("users").WhereEq("a", 1)
	fp := sb.Fingerprint()
	assert.Equal(t, fp, sb.Fingerprint())

	sb.Limit(3)
	assert.NotEqual(t, fp, sb.Fingerprint())
}
