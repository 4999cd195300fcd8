package borsh

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/schema"
)

// SchemaOf returns the schema container of v's type, the type Marshal(v)
// encodes.
func SchemaOf(v any) (*schema.Container, error) {
	return Default().SchemaOf(v)
}

// SchemaFor returns the schema container of T.
func SchemaFor[T any]() (*schema.Container, error) {
	return Default().SchemaFor(reflect.TypeFor[T]())
}

func (c *Codec) SchemaOf(v any) (*schema.Container, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, errors.Unsupported(errors.PhaseSchema, "<nil>", "cannot describe untyped nil")
	}
	return c.SchemaFor(t)
}

// SchemaFor builds the container of t. Containers are never cached; each
// call returns a fresh one the caller owns.
func (c *Codec) SchemaFor(t reflect.Type) (*schema.Container, error) {
	sc, err := schema.For(t)
	if err != nil {
		return nil, err
	}
	c.log.Debug("built schema container",
		zap.Stringer("type", t),
		zap.String("declaration", sc.Declaration),
		zap.Int("definitions", len(sc.Definitions)))
	return sc, nil
}

// MarshalWithSchema encodes v prefixed with the encoding of its schema
// container.
func MarshalWithSchema(v any) ([]byte, error) {
	return Default().MarshalWithSchema(v)
}

// UnmarshalWithSchema decodes a schema-prefixed value and verifies that
// the embedded schema is the schema of the target type.
func UnmarshalWithSchema(data []byte, v any) error {
	return Default().UnmarshalWithSchema(data, v)
}

func (c *Codec) MarshalWithSchema(v any) ([]byte, error) {
	sc, err := c.SchemaOf(v)
	if err != nil {
		return nil, err
	}
	w := c.NewEncoder()
	if err := w.Encode(*sc); err != nil {
		return nil, err
	}
	if err := w.Encode(v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *Codec) UnmarshalWithSchema(data []byte, v any) error {
	rv, err := target(v)
	if err != nil {
		return err
	}
	t := rv.Type().Elem()

	d := c.NewDecoder(data)
	var embedded schema.Container
	if err := d.Decode(&embedded); err != nil {
		return err
	}
	out, err := c.decodeFrom(d.r, t)
	if err != nil {
		return err
	}
	if err := d.Finish(); err != nil {
		return err
	}

	want, err := c.SchemaFor(t)
	if err != nil {
		return err
	}
	if !want.Equal(&embedded) {
		return errors.New(errors.PhaseSchema, errors.KindSchemaMismatch).
			GoType(t.String()).
			Value(embedded.Declaration).
			Detail("schema does not match: got %q, want %q", embedded.Declaration, want.Declaration).
			Build()
	}
	rv.Elem().Set(out)
	return nil
}

// SplitSchema decodes the schema container at the front of a
// schema-prefixed blob and returns it with the remaining value bytes.
func SplitSchema(data []byte) (*schema.Container, []byte, error) {
	d := NewDecoder(data)
	var sc schema.Container
	if err := d.Decode(&sc); err != nil {
		return nil, nil, err
	}
	return &sc, data[d.Offset():], nil
}
