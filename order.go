package borsh

import (
	"cmp"
	"reflect"
	"slices"
	"strings"

	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/shape"
	"github.com/rawbytedev/borsh/pkg/wire"
)

// comparer returns the total order used to canonicalize set elements and
// map keys: numeric for numbers, false before true, byte-wise for strings
// and lexicographic for arrays, tuples and records.
func (b *compiler) comparer(t reflect.Type) (compareFunc, error) {
	rt, err := shape.Of(t)
	if err != nil {
		return nil, err
	}
	switch rt.Class {
	case shape.Bool:
		return func(a, b reflect.Value) int {
			x, y := a.Bool(), b.Bool()
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}, nil
	case shape.Int8, shape.Int16, shape.Int32, shape.Int64:
		return func(a, b reflect.Value) int { return cmp.Compare(a.Int(), b.Int()) }, nil
	case shape.Uint8, shape.Uint16, shape.Uint32, shape.Uint64:
		return func(a, b reflect.Value) int { return cmp.Compare(a.Uint(), b.Uint()) }, nil
	case shape.Float32, shape.Float64:
		return func(a, b reflect.Value) int { return cmp.Compare(a.Float(), b.Float()) }, nil
	case shape.String:
		return func(a, b reflect.Value) int { return strings.Compare(a.String(), b.String()) }, nil
	case shape.Unit:
		return func(reflect.Value, reflect.Value) int { return 0 }, nil
	case shape.Uint128:
		return func(a, b reflect.Value) int {
			if c := cmp.Compare(a.Field(1).Uint(), b.Field(1).Uint()); c != 0 {
				return c
			}
			return cmp.Compare(a.Field(0).Uint(), b.Field(0).Uint())
		}, nil
	case shape.Int128:
		return func(a, b reflect.Value) int {
			if c := cmp.Compare(a.Field(1).Int(), b.Field(1).Int()); c != 0 {
				return c
			}
			return cmp.Compare(a.Field(0).Uint(), b.Field(0).Uint())
		}, nil
	case shape.Array:
		elem, err := b.comparer(rt.Elem)
		if err != nil {
			return nil, err
		}
		n := rt.Len
		return func(a, b reflect.Value) int {
			for i := 0; i < n; i++ {
				if c := elem(a.Index(i), b.Index(i)); c != 0 {
					return c
				}
			}
			return 0
		}, nil
	case shape.Tuple:
		return b.fieldsComparer(rt.Fields)
	case shape.Record:
		return b.fieldsComparer(rt.Shape.Encoded())
	}
	return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
		GoType(t.String()).
		Detail("%s values have no canonical order and cannot be map keys or set elements", rt.Class).
		Build()
}

func (b *compiler) fieldsComparer(fields []shape.Field) (compareFunc, error) {
	cmps := make([]compareFunc, len(fields))
	for i, f := range fields {
		c, err := b.comparer(f.Type)
		if err != nil {
			return nil, withField(err, f.Name)
		}
		cmps[i] = c
	}
	return func(a, b reflect.Value) int {
		for i, f := range fields {
			if c := cmps[i](a.Field(f.Index), b.Field(f.Index)); c != 0 {
				return c
			}
		}
		return 0
	}, nil
}

// sortedKeys returns the keys of m in canonical order. Two distinct keys
// that compare equal, for instance because they differ only in skipped
// fields, would make the output depend on map iteration and are refused.
func sortedKeys(m reflect.Value, order compareFunc) ([]reflect.Value, error) {
	keys := m.MapKeys()
	slices.SortFunc(keys, order)
	for i := 1; i < len(keys); i++ {
		if order(keys[i-1], keys[i]) == 0 {
			return nil, errors.New(errors.PhaseEncode, errors.KindInvalidInput).
				GoType(m.Type().String()).
				Detail("distinct keys at sorted positions %d and %d have the same canonical order", i-1, i).
				Build()
		}
	}
	return keys, nil
}

func (b *compiler) set(p *plan, rt *shape.Type) error {
	elem, err := b.compile(rt.Elem)
	if err != nil {
		return err
	}
	order, err := b.comparer(rt.Elem)
	if err != nil {
		return err
	}
	ceiling := b.codec.opts.MaxPrealloc
	memSize := int(rt.Elem.Size())
	present := reflect.Zero(p.typ.Elem())
	p.wireSize = 4
	p.enc = func(w *wire.Writer, v reflect.Value) error {
		keys, err := sortedKeys(v, order)
		if err != nil {
			return err
		}
		if err := w.WriteLen(len(keys)); err != nil {
			return err
		}
		for _, k := range keys {
			if err := elem.encode(w, k); err != nil {
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
		if err := r.Expect(n, elem.wireSize); err != nil {
			return err
		}
		m := reflect.MakeMapWithSize(p.typ, wire.Cautious(n, r.Remaining(), elem.wireSize, memSize, ceiling))
		if elem.wireSize == 0 {
			// Every element decodes to the same key.
			n = min(n, 1)
		}
		for i := 0; i < n; i++ {
			k := reflect.New(rt.Elem).Elem()
			if err := elem.decode(r, k); err != nil {
				return err
			}
			m.SetMapIndex(k, present)
		}
		v.Set(m)
		return nil
	}
	return nil
}

// dictionary encodes a map as a sequence of (key, value) pairs sorted by key.
func (b *compiler) dictionary(p *plan, rt *shape.Type) error {
	key, err := b.compile(rt.Key)
	if err != nil {
		return err
	}
	val, err := b.compile(rt.Elem)
	if err != nil {
		return err
	}
	order, err := b.comparer(rt.Key)
	if err != nil {
		return err
	}
	ceiling := b.codec.opts.MaxPrealloc
	memSize := int(rt.Key.Size() + rt.Elem.Size())
	p.wireSize = 4
	p.enc = func(w *wire.Writer, v reflect.Value) error {
		keys, err := sortedKeys(v, order)
		if err != nil {
			return err
		}
		if err := w.WriteLen(len(keys)); err != nil {
			return err
		}
		for _, k := range keys {
			if err := key.encode(w, k); err != nil {
				return err
			}
			if err := val.encode(w, v.MapIndex(k)); err != nil {
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
		pairSize := key.wireSize + val.wireSize
		if err := r.Expect(n, pairSize); err != nil {
			return err
		}
		m := reflect.MakeMapWithSize(p.typ, wire.Cautious(n, r.Remaining(), pairSize, memSize, ceiling))
		if pairSize == 0 {
			n = min(n, 1)
		}
		for i := 0; i < n; i++ {
			k := reflect.New(rt.Key).Elem()
			if err := key.decode(r, k); err != nil {
				return err
			}
			e := reflect.New(rt.Elem).Elem()
			if err := val.decode(r, e); err != nil {
				return err
			}
			m.SetMapIndex(k, e)
		}
		v.Set(m)
		return nil
	}
	return nil
}
