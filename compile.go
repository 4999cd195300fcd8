package borsh

import (
	"reflect"

	"github.com/rawbytedev/borsh/internal/common"
	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/shape"
	"github.com/rawbytedev/borsh/pkg/wire"
)

// compiler builds the plans for one type graph. The codec write lock is
// held for its whole lifetime.
type compiler struct {
	codec    *Codec
	building map[reflect.Type]*plan
}

func (b *compiler) compile(t reflect.Type) (*plan, error) {
	if p, ok := b.codec.plans[t]; ok {
		return p, nil
	}
	// A type that refers back to itself gets the plan being built; its
	// functions are filled in before any value is encoded.
	if p, ok := b.building[t]; ok {
		return p, nil
	}
	rt, err := shape.Of(t)
	if err != nil {
		return nil, err
	}
	p := &plan{typ: t, class: rt.Class}
	b.building[t] = p
	if err := b.build(p, rt); err != nil {
		return nil, err
	}
	return p, nil
}

func (b *compiler) build(p *plan, rt *shape.Type) error {
	switch rt.Class {
	case shape.Bool, shape.Int8, shape.Int16, shape.Int32, shape.Int64,
		shape.Uint8, shape.Uint16, shape.Uint32, shape.Uint64,
		shape.Float32, shape.Float64:
		return b.fixed(p)
	case shape.Int128, shape.Uint128:
		return b.wide(p)
	case shape.String:
		p.wireSize = 4
		p.enc = func(w *wire.Writer, v reflect.Value) error {
			return w.WriteString(v.String())
		}
		p.dec = func(r *wire.Reader, v reflect.Value) error {
			s, err := r.ReadString()
			if err != nil {
				return err
			}
			v.SetString(s)
			return nil
		}
		return nil
	case shape.Unit:
		p.enc = func(*wire.Writer, reflect.Value) error { return nil }
		p.dec = func(*wire.Reader, reflect.Value) error { return nil }
		return nil
	case shape.Option:
		return b.option(p, rt)
	case shape.Result:
		return b.result(p, rt)
	case shape.Box:
		return b.box(p, rt)
	case shape.Sequence:
		if common.IsByte(rt.Elem) {
			return b.byteSequence(p)
		}
		return b.sequence(p, rt)
	case shape.Array:
		return b.array(p, rt)
	case shape.Set:
		return b.set(p, rt)
	case shape.Map:
		return b.dictionary(p, rt)
	case shape.Tuple:
		return b.tuple(p, rt)
	case shape.Record, shape.Union:
		return shape.Walk(rt.Shape, &deriver{b: b, p: p})
	}
	return errors.Unsupported(errors.PhaseCompile, p.typ.String(), "no codec for class "+rt.Class.String())
}

// fixed covers the fixed-width scalars. int and uint travel as 64-bit
// values and are range-checked on decode.
func (b *compiler) fixed(p *plan) error {
	k := p.typ.Kind()
	p.wireSize = common.FixedSize(k)
	switch p.class {
	case shape.Bool:
		p.enc = func(w *wire.Writer, v reflect.Value) error {
			w.WriteBool(v.Bool())
			return nil
		}
		p.dec = func(r *wire.Reader, v reflect.Value) error {
			x, err := r.ReadBool()
			if err != nil {
				return err
			}
			v.SetBool(x)
			return nil
		}
	case shape.Float32:
		p.enc = func(w *wire.Writer, v reflect.Value) error {
			return w.WriteF32(float32(v.Float()))
		}
		p.dec = func(r *wire.Reader, v reflect.Value) error {
			x, err := r.ReadF32()
			if err != nil {
				return err
			}
			v.SetFloat(float64(x))
			return nil
		}
	case shape.Float64:
		p.enc = func(w *wire.Writer, v reflect.Value) error {
			return w.WriteF64(v.Float())
		}
		p.dec = func(r *wire.Reader, v reflect.Value) error {
			x, err := r.ReadF64()
			if err != nil {
				return err
			}
			v.SetFloat(x)
			return nil
		}
	default:
		if common.IsSigned(k) {
			p.enc, p.dec = signed(p.wireSize)
		} else {
			p.enc, p.dec = unsigned(p.wireSize)
		}
	}
	return nil
}

func signed(size int) (encoderFunc, decoderFunc) {
	enc := func(w *wire.Writer, v reflect.Value) error {
		switch x := v.Int(); size {
		case 1:
			w.WriteI8(int8(x))
		case 2:
			w.WriteI16(int16(x))
		case 4:
			w.WriteI32(int32(x))
		default:
			w.WriteI64(x)
		}
		return nil
	}
	dec := func(r *wire.Reader, v reflect.Value) error {
		off := r.Offset()
		var x int64
		switch size {
		case 1:
			y, err := r.ReadI8()
			if err != nil {
				return err
			}
			x = int64(y)
		case 2:
			y, err := r.ReadI16()
			if err != nil {
				return err
			}
			x = int64(y)
		case 4:
			y, err := r.ReadI32()
			if err != nil {
				return err
			}
			x = int64(y)
		default:
			y, err := r.ReadI64()
			if err != nil {
				return err
			}
			x = y
		}
		if v.OverflowInt(x) {
			return overflow(off, v.Type(), x)
		}
		v.SetInt(x)
		return nil
	}
	return enc, dec
}

func unsigned(size int) (encoderFunc, decoderFunc) {
	enc := func(w *wire.Writer, v reflect.Value) error {
		switch x := v.Uint(); size {
		case 1:
			w.WriteU8(uint8(x))
		case 2:
			w.WriteU16(uint16(x))
		case 4:
			w.WriteU32(uint32(x))
		default:
			w.WriteU64(x)
		}
		return nil
	}
	dec := func(r *wire.Reader, v reflect.Value) error {
		off := r.Offset()
		var x uint64
		switch size {
		case 1:
			y, err := r.ReadU8()
			if err != nil {
				return err
			}
			x = uint64(y)
		case 2:
			y, err := r.ReadU16()
			if err != nil {
				return err
			}
			x = uint64(y)
		case 4:
			y, err := r.ReadU32()
			if err != nil {
				return err
			}
			x = uint64(y)
		default:
			y, err := r.ReadU64()
			if err != nil {
				return err
			}
			x = y
		}
		if v.OverflowUint(x) {
			return overflow(off, v.Type(), x)
		}
		v.SetUint(x)
		return nil
	}
	return enc, dec
}

func overflow(off int, t reflect.Type, x any) error {
	return errors.New(errors.PhaseDecode, errors.KindOverflow).
		Offset(off).
		GoType(t.String()).
		Value(x).
		Detail("value %v does not fit", x).
		Build()
}

// wide encodes the {Lo, Hi} layout of the 128-bit integer types.
func (b *compiler) wide(p *plan) error {
	p.wireSize = 16
	isSigned := p.class == shape.Int128
	p.enc = func(w *wire.Writer, v reflect.Value) error {
		hi := v.Field(1)
		if isSigned {
			w.WriteU128(v.Field(0).Uint(), uint64(hi.Int()))
		} else {
			w.WriteU128(v.Field(0).Uint(), hi.Uint())
		}
		return nil
	}
	p.dec = func(r *wire.Reader, v reflect.Value) error {
		lo, hi, err := r.ReadU128()
		if err != nil {
			return err
		}
		v.Field(0).SetUint(lo)
		if isSigned {
			v.Field(1).SetInt(int64(hi))
		} else {
			v.Field(1).SetUint(hi)
		}
		return nil
	}
	return nil
}

func (b *compiler) option(p *plan, rt *shape.Type) error {
	elem, err := b.compile(rt.Elem)
	if err != nil {
		return err
	}
	p.wireSize = 1
	p.enc = func(w *wire.Writer, v reflect.Value) error {
		if v.IsNil() {
			w.WriteU8(0)
			return nil
		}
		w.WriteU8(1)
		return elem.encode(w, v.Elem())
	}
	p.dec = func(r *wire.Reader, v reflect.Value) error {
		tag, err := r.ReadTag("option", 2)
		if err != nil {
			return err
		}
		if tag == 0 {
			v.SetZero()
			return nil
		}
		n := reflect.New(rt.Elem)
		if err := elem.decode(r, n.Elem()); err != nil {
			return err
		}
		v.Set(n)
		return nil
	}
	return nil
}

// Result field layout: IsOk, Ok, Err.
const (
	resultIsOk = 0
	resultOk   = 1
	resultErr  = 2
)

func (b *compiler) result(p *plan, rt *shape.Type) error {
	okPlan, err := b.compile(rt.Ok)
	if err != nil {
		return err
	}
	errPlan, err := b.compile(rt.Err)
	if err != nil {
		return err
	}
	p.wireSize = 1
	p.enc = func(w *wire.Writer, v reflect.Value) error {
		if v.Field(resultIsOk).Bool() {
			w.WriteU8(1)
			return okPlan.encode(w, v.Field(resultOk))
		}
		w.WriteU8(0)
		return errPlan.encode(w, v.Field(resultErr))
	}
	p.dec = func(r *wire.Reader, v reflect.Value) error {
		tag, err := r.ReadTag("result", 2)
		if err != nil {
			return err
		}
		if tag == 1 {
			v.Field(resultIsOk).SetBool(true)
			return okPlan.decode(r, v.Field(resultOk))
		}
		return errPlan.decode(r, v.Field(resultErr))
	}
	return nil
}

func (b *compiler) box(p *plan, rt *shape.Type) error {
	elem, err := b.compile(rt.Elem)
	if err != nil {
		return err
	}
	p.wireSize = elem.wireSize
	p.enc = func(w *wire.Writer, v reflect.Value) error {
		ptr := v.Field(0)
		if ptr.IsNil() {
			return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				GoType(v.Type().String()).
				Detail("box is empty").
				Build()
		}
		return elem.encode(w, ptr.Elem())
	}
	p.dec = func(r *wire.Reader, v reflect.Value) error {
		n := reflect.New(rt.Elem)
		if err := elem.decode(r, n.Elem()); err != nil {
			return err
		}
		v.Field(0).Set(n)
		return nil
	}
	return nil
}

// byteSequence copies byte slices in one piece instead of per element.
func (b *compiler) byteSequence(p *plan) error {
	p.wireSize = 4
	p.enc = func(w *wire.Writer, v reflect.Value) error {
		return w.WriteBytes(v.Bytes())
	}
	p.dec = func(r *wire.Reader, v reflect.Value) error {
		n, err := r.ReadLen()
		if err != nil {
			return err
		}
		raw, err := r.ReadRaw(n)
		if err != nil {
			return err
		}
		s := reflect.MakeSlice(p.typ, n, n)
		copy(s.Bytes(), raw)
		v.Set(s)
		return nil
	}
	return nil
}

func (b *compiler) sequence(p *plan, rt *shape.Type) error {
	elem, err := b.compile(rt.Elem)
	if err != nil {
		return err
	}
	ceiling := b.codec.opts.MaxPrealloc
	memSize := int(rt.Elem.Size())
	p.wireSize = 4
	p.enc = func(w *wire.Writer, v reflect.Value) error {
		n := v.Len()
		if err := w.WriteLen(n); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if err := elem.encode(w, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
	p.dec = func(r *wire.Reader, v reflect.Value) error {
		n, err := r.ReadLen()
		if err != nil {
			return err
		}
		if elem.wireSize == 0 {
			return decodeUnbacked(r, elem, v, n, memSize, ceiling)
		}
		if err := r.Expect(n, elem.wireSize); err != nil {
			return err
		}
		s := reflect.MakeSlice(p.typ, 0, wire.Cautious(n, r.Remaining(), elem.wireSize, memSize, ceiling))
		zero := reflect.Zero(rt.Elem)
		for i := 0; i < n; i++ {
			s = reflect.Append(s, zero)
			if err := elem.decode(r, s.Index(i)); err != nil {
				return err
			}
		}
		v.Set(s)
		return nil
	}
	return nil
}

// decodeUnbacked fills a sequence of elements that encode to zero bytes.
// They all decode to the same value, so one is decoded and copied.
func decodeUnbacked(r *wire.Reader, elem *plan, v reflect.Value, n, memSize, ceiling int) error {
	if err := r.Unbacked(n, memSize, ceiling); err != nil {
		return err
	}
	s := reflect.MakeSlice(v.Type(), n, n)
	if n > 0 {
		if err := elem.decode(r, s.Index(0)); err != nil {
			return err
		}
		for i := 1; i < n; i *= 2 {
			reflect.Copy(s.Slice(i, n), s.Slice(0, i))
		}
	}
	v.Set(s)
	return nil
}

func (b *compiler) array(p *plan, rt *shape.Type) error {
	n := rt.Len
	if common.IsByte(rt.Elem) {
		p.wireSize = n
		p.enc = func(w *wire.Writer, v reflect.Value) error {
			if v.CanAddr() {
				w.WriteRaw(v.Bytes())
				return nil
			}
			for i := 0; i < n; i++ {
				w.WriteU8(uint8(v.Index(i).Uint()))
			}
			return nil
		}
		p.dec = func(r *wire.Reader, v reflect.Value) error {
			raw, err := r.ReadRaw(n)
			if err != nil {
				return err
			}
			copy(v.Bytes(), raw)
			return nil
		}
		return nil
	}
	elem, err := b.compile(rt.Elem)
	if err != nil {
		return err
	}
	p.wireSize = n * elem.wireSize
	p.enc = func(w *wire.Writer, v reflect.Value) error {
		for i := 0; i < n; i++ {
			if err := elem.encode(w, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
	p.dec = func(r *wire.Reader, v reflect.Value) error {
		for i := 0; i < n; i++ {
			if err := elem.decode(r, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (b *compiler) tuple(p *plan, rt *shape.Type) error {
	fields := rt.Fields
	plans := make([]*plan, len(fields))
	for i, f := range fields {
		fp, err := b.compile(f.Type)
		if err != nil {
			return withField(err, f.Name)
		}
		plans[i] = fp
		p.wireSize += fp.wireSize
	}
	p.enc = func(w *wire.Writer, v reflect.Value) error {
		for i, f := range fields {
			if err := plans[i].encode(w, v.Field(f.Index)); err != nil {
				return err
			}
		}
		return nil
	}
	p.dec = func(r *wire.Reader, v reflect.Value) error {
		for i, f := range fields {
			if err := plans[i].decode(r, v.Field(f.Index)); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

// withField prefixes a compile error's path with the field that led to it.
// Shape errors are cached and shared, so the error is copied first.
func withField(err error, name string) error {
	e, ok := err.(*errors.Error)
	if !ok {
		return err
	}
	cp := *e
	cp.Path = append([]string{name}, e.Path...)
	return &cp
}
