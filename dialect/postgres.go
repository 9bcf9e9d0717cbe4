package dialect

import "strconv"

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return Postgres{}
}

func (Postgres) Name() string {
	return "postgres"
}

func (Postgres) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
