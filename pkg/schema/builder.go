package schema

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/rawbytedev/borsh/pkg/errors"
	"github.com/rawbytedev/borsh/pkg/shape"
)

var primitives = map[shape.Class]Declaration{
	shape.Bool:    "bool",
	shape.Int8:    "i8",
	shape.Int16:   "i16",
	shape.Int32:   "i32",
	shape.Int64:   "i64",
	shape.Int128:  "i128",
	shape.Uint8:   "u8",
	shape.Uint16:  "u16",
	shape.Uint32:  "u32",
	shape.Uint64:  "u64",
	shape.Uint128: "u128",
	shape.Float32: "f32",
	shape.Float64: "f64",
	shape.String:  "string",
	shape.Unit:    "nil",
}

// For builds the container of t by depth-first traversal. Every call
// builds a fresh container.
//
// Two different definitions under one declaration mean the type graph
// itself is ill-formed; For panics with a redefinition *errors.Error.
func For(t reflect.Type) (*Container, error) {
	b := &builder{defs: make(map[Declaration]Definition)}
	decl, err := b.declare(t)
	if err != nil {
		return nil, err
	}
	if err := b.add(t); err != nil {
		return nil, err
	}
	return &Container{Declaration: decl, Definitions: b.defs}, nil
}

// DeclarationOf returns the declaration of t.
func DeclarationOf(t reflect.Type) (Declaration, error) {
	b := &builder{}
	return b.declare(t)
}

type builder struct {
	defs map[Declaration]Definition
}

func (b *builder) declare(t reflect.Type) (Declaration, error) {
	rt, err := shape.Of(t)
	if err != nil {
		return "", err
	}
	if d, ok := primitives[rt.Class]; ok {
		return d, nil
	}
	switch rt.Class {
	case shape.Box:
		return b.declare(rt.Elem)
	case shape.Option:
		return b.generic("Option", rt.Elem)
	case shape.Result:
		return b.generic("Result", rt.Ok, rt.Err)
	case shape.Sequence:
		return b.generic("Vec", rt.Elem)
	case shape.Set:
		return b.generic("HashSet", rt.Elem)
	case shape.Map:
		return b.generic("HashMap", rt.Key, rt.Elem)
	case shape.Array:
		elem, err := b.declare(rt.Elem)
		if err != nil {
			return "", err
		}
		return "Array<" + elem + ", " + strconv.Itoa(rt.Len) + ">", nil
	case shape.Tuple:
		types := make([]reflect.Type, len(rt.Fields))
		for i, f := range rt.Fields {
			types[i] = f.Type
		}
		return b.generic("Tuple", types...)
	case shape.Record, shape.Union:
		params, err := rt.Shape.Params()
		if err != nil {
			return "", err
		}
		if len(params) == 0 {
			return rt.Shape.Name, nil
		}
		return b.generic(rt.Shape.Name, params...)
	}
	return "", errors.Unsupported(errors.PhaseSchema, t.String(), "no declaration for class "+rt.Class.String())
}

func (b *builder) generic(name string, params ...reflect.Type) (Declaration, error) {
	decls := make([]string, len(params))
	for i, p := range params {
		d, err := b.declare(p)
		if err != nil {
			return "", err
		}
		decls[i] = d
	}
	return name + "<" + strings.Join(decls, ", ") + ">", nil
}

// insert records def under decl and reports whether it was new. An
// existing entry must match exactly.
func (b *builder) insert(decl Declaration, def Definition) bool {
	if old, ok := b.defs[decl]; ok {
		if !old.Equal(def) {
			panic(errors.New(errors.PhaseSchema, errors.KindRedefinition).
				Value(decl).
				Detail("redefining type schema for %q; types with the same name are not supported", decl).
				Build())
		}
		return false
	}
	b.defs[decl] = def
	return true
}

func (b *builder) declareAll(types ...reflect.Type) ([]Declaration, error) {
	out := make([]Declaration, len(types))
	for i, t := range types {
		d, err := b.declare(t)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func (b *builder) addAll(types ...reflect.Type) error {
	for _, t := range types {
		if err := b.add(t); err != nil {
			return err
		}
	}
	return nil
}

// add inserts the definition of t and, when it was not already present,
// the definitions of everything t is built from.
func (b *builder) add(t reflect.Type) error {
	rt, err := shape.Of(t)
	if err != nil {
		return err
	}
	if _, ok := primitives[rt.Class]; ok {
		return nil
	}
	if rt.Class == shape.Box {
		return b.add(rt.Elem)
	}
	decl, err := b.declare(t)
	if err != nil {
		return err
	}

	switch rt.Class {
	case shape.Option:
		elem, err := b.declare(rt.Elem)
		if err != nil {
			return err
		}
		if b.insert(decl, EnumOf(Variant("None", "nil"), Variant("Some", elem))) {
			return b.add(rt.Elem)
		}
	case shape.Result:
		ds, err := b.declareAll(rt.Err, rt.Ok)
		if err != nil {
			return err
		}
		if b.insert(decl, EnumOf(Variant("Err", ds[0]), Variant("Ok", ds[1]))) {
			return b.addAll(rt.Err, rt.Ok)
		}
	case shape.Sequence, shape.Set:
		elem, err := b.declare(rt.Elem)
		if err != nil {
			return err
		}
		if b.insert(decl, SequenceOf(elem)) {
			return b.add(rt.Elem)
		}
	case shape.Map:
		pair := reflect.StructOf([]reflect.StructField{
			{Name: "Key", Type: rt.Key},
			{Name: "Value", Type: rt.Elem},
		})
		elem, err := b.declare(pair)
		if err != nil {
			return err
		}
		if b.insert(decl, SequenceOf(elem)) {
			return b.add(pair)
		}
	case shape.Array:
		elem, err := b.declare(rt.Elem)
		if err != nil {
			return err
		}
		if b.insert(decl, ArrayOf(uint32(rt.Len), elem)) {
			return b.add(rt.Elem)
		}
	case shape.Tuple:
		types := make([]reflect.Type, len(rt.Fields))
		for i, f := range rt.Fields {
			types[i] = f.Type
		}
		ds, err := b.declareAll(types...)
		if err != nil {
			return err
		}
		if b.insert(decl, TupleOf(ds...)) {
			return b.addAll(types...)
		}
	case shape.Record, shape.Union:
		return shape.Walk(rt.Shape, &collector{b: b, decl: decl})
	default:
		return errors.Unsupported(errors.PhaseSchema, t.String(), "no definition for class "+rt.Class.String())
	}
	return nil
}

// collector is the schema backend of shape.Walk.
type collector struct {
	b    *builder
	decl Declaration
}

func (c *collector) VisitRecord(s *shape.Shape, fields []shape.Field) error {
	def, types, err := c.b.record(s.Style, fields)
	if err != nil {
		return err
	}
	if c.b.insert(c.decl, def) {
		return c.b.addAll(types...)
	}
	return nil
}

// VisitUnion defines each variant payload as an anonymous struct named
// after the union and the variant, then the union as an Enum over them.
func (c *collector) VisitUnion(s *shape.Shape, variants []shape.Variant) error {
	params, err := s.Params()
	if err != nil {
		return err
	}
	suffix := ""
	if len(params) > 0 {
		ps, err := c.b.declareAll(params...)
		if err != nil {
			return err
		}
		suffix = "<" + strings.Join(ps, ", ") + ">"
	}

	defs := make([]Definition, len(variants))
	payloads := make([][]reflect.Type, len(variants))
	refs := make([]VariantDef, len(variants))
	for i, v := range variants {
		def, types, err := c.b.record(v.Style, v.Fields)
		if err != nil {
			return err
		}
		defs[i] = def
		payloads[i] = types
		refs[i] = Variant(v.Name, s.Name+v.Name+suffix)
	}
	if !c.b.insert(c.decl, EnumOf(refs...)) {
		return nil
	}
	for i := range variants {
		if c.b.insert(refs[i].Declaration, defs[i]) {
			if err := c.b.addAll(payloads[i]...); err != nil {
				return err
			}
		}
	}
	return nil
}

// record builds a struct definition from fields laid out in style and
// returns the field types still to be defined.
func (b *builder) record(style shape.Style, fields []shape.Field) (Definition, []reflect.Type, error) {
	types := make([]reflect.Type, len(fields))
	for i, f := range fields {
		types[i] = f.Type
	}
	switch style {
	case shape.Empty:
		return StructEmpty(), nil, nil
	case shape.Unnamed:
		ds, err := b.declareAll(types...)
		if err != nil {
			return Definition{}, nil, err
		}
		return StructUnnamed(ds...), types, nil
	}
	named := make([]NamedField, len(fields))
	for i, f := range fields {
		d, err := b.declare(f.Type)
		if err != nil {
			return Definition{}, nil, err
		}
		named[i] = Field(f.Name, d)
	}
	return StructNamed(named...), types, nil
}
