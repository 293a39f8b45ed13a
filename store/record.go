package store

import "fmt"

// Numeric columns come back from the driver as int32 or int64 depending on
// the column type, and from the in-memory store as plain int. These helpers
// normalize record values so callers don't repeat type switches.

// AsInt converts a record value to int.
func AsInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case nil:
		return 0, fmt.Errorf("value is NULL")
	default:
		return 0, fmt.Errorf("value %v (%T) is not an integer", v, v)
	}
}

// Int reads an integer column from a record, returning 0 when the column is
// absent, NULL, or not numeric.
func Int(rec Record, col string) int {
	n, err := AsInt(rec[col])
	if err != nil {
		return 0
	}
	return n
}

// String reads a text column from a record, returning "" when the column is
// absent or NULL.
func String(rec Record, col string) string {
	s, _ := rec[col].(string)
	return s
}

// IsNull reports whether the column is absent or NULL.
func IsNull(rec Record, col string) bool {
	v, ok := rec[col]
	return !ok || v == nil
}
