package dialect

type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return SQLite{}
}

func (SQLite) Name() string {
	return "sqlite"
}

func (SQLite) Placeholder(n int) string {
	return "?"
}
