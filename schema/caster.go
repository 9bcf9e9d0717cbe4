package schema

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Konsultn-Engineering/condex/expr"
)

// CastFunc coerces a bound value into the Go representation a driver
// should receive for one logical type.
type CastFunc func(value any) (any, error)

// CasterRegistry maps logical type names to cast functions. Safe for
// concurrent use.
type CasterRegistry struct {
	mu      sync.RWMutex
	casters map[string]CastFunc
}

// NewCasterRegistry creates a registry with the built-in casters
// registered: integer, float, decimal, boolean, string, datetime, uuid
// and binary.
func NewCasterRegistry() *CasterRegistry {
	r := &CasterRegistry{casters: make(map[string]CastFunc)}
	r.Register(expr.TypeInteger, castInteger)
	r.Register(expr.TypeFloat, castFloat)
	r.Register(expr.TypeDecimal, castDecimal)
	r.Register(expr.TypeBoolean, castBoolean)
	r.Register(expr.TypeString, castString)
	r.Register(expr.TypeDatetime, castDatetime)
	r.Register(expr.TypeUUID, castUUID)
	r.Register(expr.TypeBinary, castBinary)
	return r
}

// Register adds or replaces the caster for a logical type name.
func (r *CasterRegistry) Register(name string, fn CastFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.casters[name] = fn
}

// Cast coerces value according to the logical type. Nil values, empty
// types and unregistered types pass through unchanged. Multi-valued
// types cast element-wise and return a []any.
func (r *CasterRegistry) Cast(value any, logicalType string) (any, error) {
	if value == nil || logicalType == "" {
		return value, nil
	}

	if expr.IsMulti(logicalType) {
		elemType := expr.ElemType(logicalType)
		items, ok := value.([]any)
		if !ok {
			cast, err := r.Cast(value, elemType)
			if err != nil {
				return nil, err
			}
			return []any{cast}, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			cast, err := r.Cast(item, elemType)
			if err != nil {
				return nil, err
			}
			out[i] = cast
		}
		return out, nil
	}

	r.mu.RLock()
	fn, ok := r.casters[logicalType]
	r.mu.RUnlock()
	if !ok {
		return value, nil
	}
	return fn(value)
}

var defaultCasterRegistry = NewCasterRegistry()

// RegisterCaster adds a caster to the default registry.
func RegisterCaster(name string, fn CastFunc) {
	defaultCasterRegistry.Register(name, fn)
}

// Cast coerces value using the default registry.
func Cast(value any, logicalType string) (any, error) {
	return defaultCasterRegistry.Cast(value, logicalType)
}

// DefaultCasters returns the shared default registry.
func DefaultCasters() *CasterRegistry {
	return defaultCasterRegistry
}

func castInteger(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("cast %q to integer: %w", v, err)
		}
		return n, nil
	}
	return nil, fmt.Errorf("cast %T to integer: unsupported value", value)
}

func castFloat(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("cast %q to float: %w", v, err)
		}
		return f, nil
	}
	return nil, fmt.Errorf("cast %T to float: unsupported value", value)
}

func castDecimal(value any) (any, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("cast %q to decimal: %w", v, err)
		}
		return d, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case []byte:
		d, err := decimal.NewFromString(string(v))
		if err != nil {
			return nil, fmt.Errorf("cast %q to decimal: %w", v, err)
		}
		return d, nil
	}
	return nil, fmt.Errorf("cast %T to decimal: unsupported value", value)
}

func castBoolean(value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("cast %q to boolean: %w", v, err)
		}
		return b, nil
	case int:
		return v != 0, nil
	case int64:
		return v != 0, nil
	}
	return nil, fmt.Errorf("cast %T to boolean: unsupported value", value)
}

func castString(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case fmt.Stringer:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	return fmt.Sprintf("%v", value), nil
}

// datetimeLayouts are tried in order when casting strings.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func castDatetime(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	case string:
		for _, layout := range datetimeLayouts {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, nil
			}
		}
		return nil, fmt.Errorf("cast %q to datetime: unrecognized layout", v)
	case int64:
		return time.Unix(v, 0).UTC(), nil
	}
	return nil, fmt.Errorf("cast %T to datetime: unsupported value", value)
}

func castUUID(value any) (any, error) {
	switch v := value.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("cast %q to uuid: %w", v, err)
		}
		return id, nil
	case []byte:
		id, err := uuid.FromBytes(v)
		if err != nil {
			return nil, fmt.Errorf("cast %d bytes to uuid: %w", len(v), err)
		}
		return id, nil
	}
	return nil, fmt.Errorf("cast %T to uuid: unsupported value", value)
}

func castBinary(value any) (any, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, fmt.Errorf("cast %T to binary: unsupported value", value)
}
