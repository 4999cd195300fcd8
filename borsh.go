// Package borsh implements the Borsh binary serialization format: a
// deterministic, non-self-describing encoding where every value has exactly
// one byte representation.
//
// Go types map to Borsh as follows. Fixed-width integers, floats and bool
// encode little-endian at their natural width; int and uint are 64-bit.
// Strings and slices carry a u32 length prefix, arrays and anonymous
// structs (tuples) do not. A pointer is an Option, Result is Result and
// Box is transparent. Maps encode as length-prefixed, key-sorted entries;
// a map whose values are struct{} is a set.
//
// A named struct encodes its exported fields in declaration order. A struct
// whose first field is an embedded Enum is a tagged union: the Enum field
// selects which of the remaining fields is encoded, after a one-byte tag.
//
//	type Shape struct {
//		borsh.Enum
//		Circle struct{ R float64 }
//		Square struct{ Side float64 }
//	}
//
// Fields tagged `borsh:"-"` are neither encoded nor described by the
// schema and come back as their zero value.
package borsh

import (
	"reflect"
	"sync/atomic"

	"github.com/rawbytedev/borsh/pkg/errors"
)

var defaultCodec atomic.Pointer[Codec]

// Default returns the codec used by the package-level functions.
func Default() *Codec { return defaultCodec.Load() }

// Marshal encodes v with the default codec.
func Marshal(v any) ([]byte, error) {
	return Default().Marshal(v)
}

// MarshalAppend appends the encoding of v to dst.
func MarshalAppend(dst []byte, v any) ([]byte, error) {
	return Default().MarshalAppend(dst, v)
}

// Unmarshal decodes exactly one value from data into the value v points to.
func Unmarshal(data []byte, v any) error {
	return Default().Unmarshal(data, v)
}

// Decode decodes exactly one T from data.
func Decode[T any](data []byte) (T, error) {
	var out T
	err := Default().Unmarshal(data, &out)
	return out, err
}

// DecodeFrom reads one T from d, leaving the rest of the input unread.
func DecodeFrom[T any](d *Decoder) (T, error) {
	var out T
	err := d.Decode(&out)
	return out, err
}

func NewEncoder() *Encoder { return Default().NewEncoder() }

func NewDecoder(data []byte) *Decoder { return Default().NewDecoder(data) }

// Compile prepares the plan for t ahead of first use and reports whether t
// is encodable.
func (c *Codec) Compile(t reflect.Type) error {
	_, err := c.getPlan(t)
	return err
}

// Error kinds, for use with errors.Is.
var (
	ErrUnexpectedEOF       = errors.ErrUnexpectedEOF
	ErrInvalidDiscriminant = errors.ErrInvalidDiscriminant
	ErrInvalidData         = errors.ErrInvalidData
	ErrInvalidInput        = errors.ErrInvalidInput
	ErrTrailingData        = errors.ErrTrailingData
	ErrSchemaMismatch      = errors.ErrSchemaMismatch
	ErrRedefinition        = errors.ErrRedefinition
	ErrUnsupported         = errors.ErrUnsupported
	ErrOverflow            = errors.ErrOverflow
	ErrNotPointer          = errors.ErrNotPointer
)
