package schema

import (
	"fmt"
	"math"
	"math/big"

	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/wire"
)

// MaxDepth bounds nesting during schema-driven decoding. A container from
// untrusted input may describe a type that contains itself.
const MaxDepth = 256

// RecordField is one named value of a decoded struct.
type RecordField struct {
	Name  string
	Value any
}

// Record is a decoded struct with named fields, in declaration order.
type Record []RecordField

// Get returns the value of the named field.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Value is a decoded enum variant.
type Value struct {
	Variant string
	Value   any
}

// Decoder interprets borsh bytes through a container instead of Go types.
type Decoder struct {
	c           *Container
	maxPrealloc int
	lenient     bool
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithMaxPrealloc sets the allocation guard ceiling in bytes.
func WithMaxPrealloc(n int) DecoderOption {
	return func(d *Decoder) {
		if n > 0 {
			d.maxPrealloc = n
		}
	}
}

// WithLenientBool accepts any nonzero bool byte as true.
func WithLenientBool(on bool) DecoderOption {
	return func(d *Decoder) { d.lenient = on }
}

func (c *Container) NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{c: c, maxPrealloc: wire.DefaultMaxPrealloc}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Decode decodes one value of the container's root type from data and
// requires that all of data is consumed. The result is built from Record,
// Value, []any, []byte and scalars; 128-bit integers are *big.Int.
func (c *Container) Decode(data []byte) (any, error) {
	return c.NewDecoder().Decode(data)
}

// Validate checks that data is exactly one valid value of the root type.
func (c *Container) Validate(data []byte) error {
	_, err := c.Decode(data)
	return err
}

func (d *Decoder) Decode(data []byte) (any, error) {
	r := wire.NewReader(data)
	r.LenientBool = d.lenient
	v, err := d.DecodeFrom(r)
	if err != nil {
		return nil, err
	}
	if err := r.Finish(); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeFrom decodes one value from r and leaves the cursor after it.
func (d *Decoder) DecodeFrom(r *wire.Reader) (any, error) {
	return d.decode(r, d.c.Declaration, 0)
}

func (d *Decoder) decode(r *wire.Reader, decl Declaration, depth int) (any, error) {
	if depth > MaxDepth {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(r.Offset()).
			Detail("schema nesting deeper than %d at %q", MaxDepth, decl).
			Build()
	}
	if v, ok, err := primitive(r, decl); ok {
		return v, err
	}
	def, ok := d.c.Definitions[decl]
	if !ok {
		return nil, errors.New(errors.PhaseSchema, errors.KindUnsupported).
			Value(decl).
			Detail("no definition for %q", decl).
			Build()
	}
	depth++

	switch def.Kind {
	case KindArray:
		n := int(def.Array.Length)
		if def.Array.Elements == "u8" {
			raw, err := r.ReadRaw(n)
			if err != nil {
				return nil, err
			}
			return append([]byte(nil), raw...), nil
		}
		if err := r.Expect(n, d.c.minSize(def.Array.Elements, 0)); err != nil {
			return nil, err
		}
		return d.list(r, def.Array.Elements, n, depth)
	case KindSequence:
		n, err := r.ReadLen()
		if err != nil {
			return nil, err
		}
		if def.Sequence.Elements == "u8" {
			raw, err := r.ReadRaw(n)
			if err != nil {
				return nil, err
			}
			return append([]byte(nil), raw...), nil
		}
		if err := r.Expect(n, d.c.minSize(def.Sequence.Elements, 0)); err != nil {
			return nil, err
		}
		return d.list(r, def.Sequence.Elements, n, depth)
	case KindTuple:
		out := make([]any, len(def.Tuple.Elements))
		for i, e := range def.Tuple.Elements {
			v, err := d.decode(r, e, depth)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case KindEnum:
		vs := def.Enum.Variants
		tag, err := r.ReadTag(decl, len(vs))
		if err != nil {
			return nil, err
		}
		v, err := d.decode(r, vs[tag].Declaration, depth)
		if err != nil {
			return nil, err
		}
		return Value{Variant: vs[tag].Name, Value: v}, nil
	case KindStruct:
		f := def.Struct.Fields
		switch f.Kind {
		case FieldsNamed:
			out := make(Record, len(f.NamedFields))
			for i, nf := range f.NamedFields {
				v, err := d.decode(r, nf.Declaration, depth)
				if err != nil {
					return nil, err
				}
				out[i] = RecordField{Name: nf.Name, Value: v}
			}
			return out, nil
		case FieldsUnnamed:
			out := make([]any, len(f.UnnamedFields))
			for i, e := range f.UnnamedFields {
				v, err := d.decode(r, e, depth)
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		}
		return Record{}, nil
	}
	return nil, errors.New(errors.PhaseSchema, errors.KindInvalidData).
		Value(decl).
		Detail("definition of %q has unknown kind %d", decl, def.Kind).
		Build()
}

func (d *Decoder) list(r *wire.Reader, elem Declaration, n, depth int) ([]any, error) {
	// An interface slot is two words.
	const slot = 16
	out := make([]any, 0, wire.Cautious(n, r.Remaining(), d.c.minSize(elem, 0), slot, d.maxPrealloc))
	for i := 0; i < n; i++ {
		start := r.Offset()
		v, err := d.decode(r, elem, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if i == 0 && r.Offset() == start {
			// An element that reads no input depends only on its
			// declaration, so the rest are copies.
			if err := r.Unbacked(n, slot, d.maxPrealloc); err != nil {
				return nil, err
			}
			for len(out) < n {
				out = append(out, v)
			}
			return out, nil
		}
	}
	return out, nil
}

func primitive(r *wire.Reader, decl Declaration) (any, bool, error) {
	var (
		v   any
		err error
	)
	switch decl {
	case "bool":
		v, err = r.ReadBool()
	case "u8":
		v, err = r.ReadU8()
	case "u16":
		v, err = r.ReadU16()
	case "u32":
		v, err = r.ReadU32()
	case "u64":
		v, err = r.ReadU64()
	case "i8":
		v, err = r.ReadI8()
	case "i16":
		v, err = r.ReadI16()
	case "i32":
		v, err = r.ReadI32()
	case "i64":
		v, err = r.ReadI64()
	case "u128", "i128":
		lo, hi, e := r.ReadU128()
		if e != nil {
			return nil, true, e
		}
		b := new(big.Int).SetUint64(hi)
		if decl == "i128" {
			b.SetInt64(int64(hi))
		}
		b.Lsh(b, 64)
		b.Add(b, new(big.Int).SetUint64(lo))
		v = b
	case "f32":
		v, err = r.ReadF32()
	case "f64":
		v, err = r.ReadF64()
	case "string":
		v, err = r.ReadString()
	case "nil":
		return nil, true, nil
	default:
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}

var fixedSizes = map[Declaration]int{
	"bool": 1, "u8": 1, "i8": 1,
	"u16": 2, "i16": 2,
	"u32": 4, "i32": 4, "f32": 4,
	"u64": 8, "i64": 8, "f64": 8,
	"u128": 16, "i128": 16,
	"string": 4, "nil": 0,
}

// minSize is the fewest bytes a value of decl can occupy. Unknown or
// deeply nested declarations count as zero, which only weakens the guard.
func (c *Container) minSize(decl Declaration, depth int) int {
	if n, ok := fixedSizes[decl]; ok {
		return n
	}
	def, ok := c.Definitions[decl]
	if !ok || depth > 16 {
		return 0
	}
	depth++
	sum := func(decls []Declaration) int {
		var n int64
		for _, e := range decls {
			n += int64(c.minSize(e, depth))
		}
		return saturate(n)
	}
	switch def.Kind {
	case KindArray:
		return saturate(int64(def.Array.Length) * int64(c.minSize(def.Array.Elements, depth)))
	case KindSequence:
		return 4
	case KindTuple:
		return sum(def.Tuple.Elements)
	case KindEnum:
		return 1
	case KindStruct:
		switch def.Struct.Fields.Kind {
		case FieldsNamed:
			var n int64
			for _, f := range def.Struct.Fields.NamedFields {
				n += int64(c.minSize(f.Declaration, depth))
			}
			return saturate(n)
		case FieldsUnnamed:
			return sum(def.Struct.Fields.UnnamedFields)
		}
	}
	return 0
}

// saturate caps a minimum size. A smaller bound is still a valid minimum.
func saturate(n int64) int {
	return int(min(n, math.MaxInt32))
}

// String renders v as Variant or Variant(value).
func (v Value) String() string {
	if v.Value == nil {
		return v.Variant
	}
	return fmt.Sprintf("%s(%v)", v.Variant, v.Value)
}
