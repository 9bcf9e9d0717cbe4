package expr

// Comparison Operators
const (
	OpEqual              = "="
	OpNotEqual           = "!="
	OpNotEqualAlt        = "<>"
	OpLessThan           = "<"
	OpLessThanOrEqual    = "<="
	OpGreaterThan        = ">"
	OpGreaterThanOrEqual = ">="
)

// Logical Operators
const (
	OpAnd = "AND"
	OpOr  = "OR"
	OpNot = "NOT"
	OpXor = "XOR"
)

// Pattern Matching
const (
	OpLike    = "LIKE"
	OpNotLike = "NOT LIKE"
)

// Set Operations
const (
	OpIn    = "IN"
	OpNotIn = "NOT IN"
)

// Null Operations
const (
	OpIsNull    = "IS NULL"
	OpIsNotNull = "IS NOT NULL"
)
