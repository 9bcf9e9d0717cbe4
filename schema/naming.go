package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// Naming utilities for mapping Go identifiers onto database names.

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// NamingStrategy converts Go struct and field names to database names.
type NamingStrategy interface {
	// TableName converts a Go struct name to a database table name.
	TableName(structName string) string

	// ColumnName converts a Go field name to a database column name.
	ColumnName(fieldName string) string
}

// snakeStrategy maps names to snake_case, optionally pluralizing tables.
type snakeStrategy struct {
	pluralTables bool
}

// DefaultNaming returns the snake_case strategy with plural table names,
// e.g. BlogPost -> blog_posts, UserID -> user_id.
func DefaultNaming() NamingStrategy {
	return &snakeStrategy{pluralTables: true}
}

// SingularNaming returns the snake_case strategy with singular table names.
func SingularNaming() NamingStrategy {
	return &snakeStrategy{pluralTables: false}
}

func (s *snakeStrategy) TableName(structName string) string {
	snake := toSnakeCase(structName)
	if s.pluralTables {
		return pluralize(snake)
	}
	return snake
}

func (s *snakeStrategy) ColumnName(fieldName string) string {
	return toSnakeCase(fieldName)
}

// toSnakeCase converts any naming convention to snake_case.
// Handles acronyms, digits and already-converted input.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	// Common acronym fast paths
	switch name {
	case "ID":
		return "id"
	case "UUID":
		return "uuid"
	case "URL":
		return "url"
	case "API":
		return "api"
	case "JSON":
		return "json"
	case "SQL":
		return "sql"
	}

	// Already snake_case
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return strings.ToLower(name)
	}

	var result strings.Builder
	result.Grow(len(name) + 10)

	runes := []rune(name)
	for i, r := range runes {
		lower := unicode.ToLower(r)

		needsUnderscore := false
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]

			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				needsUnderscore = true
			} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				needsUnderscore = true
			}
		}

		if needsUnderscore {
			result.WriteByte('_')
		}
		result.WriteRune(lower)
	}

	return result.String()
}

// pluralize converts singular nouns to their plural forms.
func pluralize(name string) string {
	if name == "" {
		return ""
	}

	// Common irregulars skip the library call.
	switch strings.ToLower(name) {
	case "person":
		return "people"
	case "child":
		return "children"
	case "datum":
		return "data"
	case "criterion":
		return "criteria"
	}

	return strings.ToLower(pluralizeClient.Pluralize(name, 2, false))
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
