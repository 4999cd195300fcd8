// Package shape derives the declared shape of Go types: which wire class a
// type belongs to, the ordered fields of records, the ordered variants of
// tagged unions, skip flags, generic parameters and post-decode hooks.
//
// The codec compiler and the schema builder both consume shapes through
// Walk, so the two never disagree on field order or skip rules.
package shape

import (
	"reflect"
)

// Class is the wire-level category of a Go type.
type Class uint8

const (
	Invalid Class = iota
	Bool
	Int8
	Int16
	Int32
	Int64
	Int128
	Uint8
	Uint16
	Uint32
	Uint64
	Uint128
	Float32
	Float64
	String
	Unit
	Option
	Result
	Box
	Sequence
	Array
	Set
	Map
	Tuple
	Record
	Union
)

var classNames = [...]string{
	Invalid:  "invalid",
	Bool:     "bool",
	Int8:     "i8",
	Int16:    "i16",
	Int32:    "i32",
	Int64:    "i64",
	Int128:   "i128",
	Uint8:    "u8",
	Uint16:   "u16",
	Uint32:   "u32",
	Uint64:   "u64",
	Uint128:  "u128",
	Float32:  "f32",
	Float64:  "f64",
	String:   "string",
	Unit:     "nil",
	Option:   "option",
	Result:   "result",
	Box:      "box",
	Sequence: "sequence",
	Array:    "array",
	Set:      "set",
	Map:      "map",
	Tuple:    "tuple",
	Record:   "record",
	Union:    "union",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "invalid"
}

// Primitive reports whether c is a fixed-width scalar, string or unit.
func (c Class) Primitive() bool {
	return c >= Bool && c <= Unit
}

// Style is how a record lays out its fields.
type Style uint8

const (
	Named Style = iota
	Unnamed
	Empty
)

func (s Style) String() string {
	switch s {
	case Named:
		return "named"
	case Unnamed:
		return "unnamed"
	default:
		return "empty"
	}
}

// MaxVariants is the most variants a one-byte discriminant can select.
const MaxVariants = 256

// Enum holds the discriminant of a tagged union. A named struct whose first
// field has this type is a union; its remaining exported fields are the
// variants in declaration order and Enum is the index of the active one.
type Enum uint8

// Positional marks a record whose fields are positional rather than named.
// The marker field itself is never encoded.
type Positional struct{}

// Declarer lets a type name itself and list its generic parameters for the
// schema declaration, e.g. "Pair" with [uint64, string].
type Declarer interface {
	BorshDeclaration() (name string, params []reflect.Type)
}

// Boxed is implemented by transparent owning wrappers.
type Boxed interface {
	BorshBoxed() reflect.Type
}

// Outcome is implemented by two-armed result types.
type Outcome interface {
	BorshOutcome() (ok, err reflect.Type)
}

// Wide is implemented by 128-bit integer types laid out as {Lo, Hi}.
type Wide interface {
	BorshWide() (signed bool)
}

// Initializer is invoked on a record or union after it has been decoded.
type Initializer interface {
	BorshInit()
}

// Field is one slot of a record, tuple or variant payload. Index is the
// struct field index, or -1 when the slot is the payload value itself.
type Field struct {
	Name  string
	Index int
	Type  reflect.Type
	Skip  bool
}

// Variant is one arm of a tagged union. Fields is the payload laid out as a
// record and already excludes skipped fields.
type Variant struct {
	Name    string
	Index   int
	Payload reflect.Type
	Style   Style
	Fields  []Field
}

// Shape describes a record or a tagged union.
type Shape struct {
	Type     reflect.Type
	Name     string
	Class    Class
	Style    Style
	Fields   []Field
	Variants []Variant
	Init     bool

	params   []reflect.Type
	paramErr error
}

// Encoded returns the record fields that appear on the wire.
func (s *Shape) Encoded() []Field {
	return encoded(s.Fields)
}

// Params returns the generic parameters of the type, in declaration order.
func (s *Shape) Params() ([]reflect.Type, error) {
	return s.params, s.paramErr
}

func encoded(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if !f.Skip {
			out = append(out, f)
		}
	}
	return out
}

// Type is the resolved description of a Go type.
type Type struct {
	Go    reflect.Type
	Class Class

	// Elem is the element of Option, Box, Sequence, Array and Set, and the
	// value of Map.
	Elem reflect.Type
	// Key is the key of Map.
	Key reflect.Type
	// Ok and Err are the arms of Result.
	Ok, Err reflect.Type
	// Len is the length of Array.
	Len int
	// Fields are the slots of Tuple.
	Fields []Field
	// Shape is set for Record and Union.
	Shape *Shape
}

// Visitor receives the shape of a record or union from Walk.
type Visitor interface {
	VisitRecord(s *Shape, fields []Field) error
	VisitUnion(s *Shape, variants []Variant) error
}

// Walk hands s to the matching Visitor method with skipped fields removed.
func Walk(s *Shape, v Visitor) error {
	if s.Class == Union {
		return v.VisitUnion(s, s.Variants)
	}
	return v.VisitRecord(s, s.Encoded())
}
