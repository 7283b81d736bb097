package driver

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// TypeConversionError reports an unexpected type in a database record.
type TypeConversionError struct {
	Expected string
	Actual   string
	Field    string
}

func (e *TypeConversionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("type conversion error for field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("type conversion error: expected %s, got %s", e.Expected, e.Actual)
}

// AsString safely converts a record value to string.
func AsString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// AsInt64 safely converts a record value to int64.
func AsInt64(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	i, ok := v.(int64)
	return i, ok
}

// AsNumber coerces a record value to float64. Neo4j returns integers as
// int64 even for properties written as floats, so both encodings are
// accepted; anything else yields 0.
func AsNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

// AsStringValues converts a record list value to []string, skipping
// non-string elements.
func AsStringValues(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// AsNumberValues converts a record list value to []float64 using the same
// coercion as AsNumber.
func AsNumberValues(v any) []float64 {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(items))
	for _, item := range items {
		out = append(out, AsNumber(item))
	}
	return out
}

// MustRecordSlice converts a transaction result to []*db.Record or reports
// the actual type.
func MustRecordSlice(v any, field string) ([]*db.Record, error) {
	records, ok := v.([]*db.Record)
	if !ok {
		return nil, &TypeConversionError{Expected: "[]*db.Record", Actual: fmt.Sprintf("%T", v), Field: field}
	}
	return records, nil
}
