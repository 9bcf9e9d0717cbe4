package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Konsultn-Engineering/condex/expr"
)

// Pre-initialized reflect.Type values for the named-type lookups.
var (
	timeType    = reflect.TypeOf(time.Time{})
	bytesType   = reflect.TypeOf([]byte{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// namedLogicalTypes maps exact Go types to logical type names. Checked
// before the kind-based fallback so time.Time does not land as a struct
// and uuid.UUID does not land as a byte array.
var namedLogicalTypes = map[reflect.Type]string{
	timeType:    expr.TypeDatetime,
	bytesType:   expr.TypeBinary,
	uuidType:    expr.TypeUUID,
	decimalType: expr.TypeDecimal,
}

// LogicalType returns the logical type name for a Go type, or "" when the
// type has no SQL mapping. Pointers unwrap; slices and arrays map to the
// element's type with a multi marker.
func LogicalType(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name, ok := namedLogicalTypes[t]; ok {
		return name
	}

	switch t.Kind() {
	case reflect.String:
		return expr.TypeString
	case reflect.Bool:
		return expr.TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return expr.TypeInteger
	case reflect.Float32, reflect.Float64:
		return expr.TypeFloat
	case reflect.Slice, reflect.Array:
		if elem := LogicalType(t.Elem()); elem != "" {
			return expr.AsMulti(elem)
		}
	}
	return ""
}

// typeMapCache holds computed type maps per struct type for the default
// naming strategy.
var typeMapCache sync.Map // reflect.Type -> expr.Types

// TypeMapFor builds an expr.Types map for a struct, keyed by column name.
// Column names come from the naming strategy unless a db tag overrides
// them; a nil strategy means DefaultNaming. Fields tagged db:"-" and
// fields without a SQL mapping are left out. Embedded structs flatten
// into the parent.
//
//	type User struct {
//	    ID        uuid.UUID `db:"id"`
//	    Age       int
//	    CreatedAt time.Time
//	}
//	// => {"id": "uuid", "age": "integer", "created_at": "datetime"}
func TypeMapFor(model any, naming NamingStrategy) (expr.Types, error) {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("build type map: %T is not a struct", model)
	}

	cacheable := naming == nil
	if cacheable {
		if cached, ok := typeMapCache.Load(t); ok {
			return cached.(expr.Types), nil
		}
		naming = DefaultNaming()
	}

	types := make(expr.Types, t.NumField())
	collectFields(t, naming, types)

	if cacheable {
		typeMapCache.Store(t, types)
	}
	return types, nil
}

func collectFields(t reflect.Type, naming NamingStrategy, types expr.Types) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		if f.Anonymous {
			ft := f.Type
			for ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct && ft != timeType {
				collectFields(ft, naming, types)
				continue
			}
		}
		if f.PkgPath != "" {
			continue
		}

		column, logical, skip := parseFieldTag(f, naming)
		if skip {
			continue
		}
		if logical == "" {
			logical = LogicalType(f.Type)
		}
		if logical == "" {
			continue
		}
		types[column] = logical
	}
}

// parseFieldTag reads a db tag: "-" skips the field, a plain value names
// the column, and "column:x;type:y" options override either part.
func parseFieldTag(f reflect.StructField, naming NamingStrategy) (column, logical string, skip bool) {
	column = naming.ColumnName(f.Name)

	tag := f.Tag.Get("db")
	if tag == "" {
		return column, "", false
	}
	if tag == "-" {
		return "", "", true
	}
	if !strings.ContainsAny(tag, ";:") {
		return tag, "", false
	}

	for _, option := range strings.Split(tag, ";") {
		option = strings.TrimSpace(option)
		if option == "" {
			continue
		}
		key, value, found := strings.Cut(option, ":")
		if !found {
			continue
		}
		switch strings.TrimSpace(key) {
		case "column", "name":
			column = strings.TrimSpace(value)
		case "type":
			logical = strings.TrimSpace(value)
		}
	}
	return column, logical, false
}

// TableFor derives a table name from a struct's type name. A nil strategy
// means DefaultNaming.
func TableFor(model any, naming NamingStrategy) (string, error) {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return "", fmt.Errorf("derive table name: %T is not a struct", model)
	}
	if t.Name() == "" {
		return "", fmt.Errorf("derive table name: anonymous struct has no name")
	}
	if naming == nil {
		naming = DefaultNaming()
	}
	return naming.TableName(t.Name()), nil
}
