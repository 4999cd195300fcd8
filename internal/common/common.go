package common

import (
	"reflect"
)

// FixedSize returns the wire width for fixed-size primitive kinds.
// int and uint are always written as 64-bit values.
func FixedSize(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Uint64, reflect.Float64, reflect.Int, reflect.Uint:
		return 8
	default:
		return -1
	}
}

// IsSigned reports whether k is a signed integer kind.
func IsSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return true
	default:
		return false
	}
}

// IsByte reports whether t is a single-byte element type eligible for bulk copy.
func IsByte(t reflect.Type) bool {
	return t.Kind() == reflect.Uint8
}

// TypeName returns a readable name for t, used in error details.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
