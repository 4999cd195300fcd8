package borsh

import (
	"reflect"

	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/shape"
	"github.com/rawbytedev/borsh/pkg/wire"
)

// deriver is the codec backend of shape.Walk: it turns the declared shape
// of a record or union into its encoder and decoder.
type deriver struct {
	b *compiler
	p *plan
}

func (d *deriver) VisitRecord(s *shape.Shape, fields []shape.Field) error {
	plans := make([]*plan, len(fields))
	for i, f := range fields {
		fp, err := d.b.compile(f.Type)
		if err != nil {
			return withField(err, f.Name)
		}
		plans[i] = fp
		d.p.wireSize += fp.wireSize
	}
	init := s.Init

	d.p.enc = func(w *wire.Writer, v reflect.Value) error {
		for i, f := range fields {
			if err := plans[i].encode(w, v.Field(f.Index)); err != nil {
				return err
			}
		}
		return nil
	}
	d.p.dec = func(r *wire.Reader, v reflect.Value) error {
		for i, f := range fields {
			if err := plans[i].decode(r, v.Field(f.Index)); err != nil {
				return err
			}
		}
		if init {
			v.Addr().Interface().(shape.Initializer).BorshInit()
		}
		return nil
	}
	return nil
}

func (d *deriver) VisitUnion(s *shape.Shape, variants []shape.Variant) error {
	plans := make([]*plan, len(variants))
	for i, vr := range variants {
		vp, err := d.b.compile(vr.Payload)
		if err != nil {
			return withField(err, vr.Name)
		}
		plans[i] = vp
	}
	n := len(variants)
	name := s.Name
	init := s.Init
	d.p.wireSize = 1

	d.p.enc = func(w *wire.Writer, v reflect.Value) error {
		tag := v.Field(0).Uint()
		if tag >= uint64(n) {
			return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				GoType(v.Type().String()).
				Value(tag).
				Detail("discriminant %d is out of range for %d variants", tag, n).
				Build()
		}
		w.WriteU8(uint8(tag))
		return plans[tag].encode(w, v.Field(variants[tag].Index))
	}
	d.p.dec = func(r *wire.Reader, v reflect.Value) error {
		tag, err := r.ReadTag(name, n)
		if err != nil {
			return err
		}
		v.Field(0).SetUint(uint64(tag))
		if err := plans[tag].decode(r, v.Field(variants[tag].Index)); err != nil {
			return err
		}
		if init {
			v.Addr().Interface().(shape.Initializer).BorshInit()
		}
		return nil
	}
	return nil
}
