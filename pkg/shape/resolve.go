package shape

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/rawbytedev/borsh/pkg/errors"
)

var (
	enumType        = reflect.TypeFor[Enum]()
	positionalType  = reflect.TypeFor[Positional]()
	unitType        = reflect.TypeFor[struct{}]()
	declarerType    = reflect.TypeFor[Declarer]()
	boxedType       = reflect.TypeFor[Boxed]()
	outcomeType     = reflect.TypeFor[Outcome]()
	wideType        = reflect.TypeFor[Wide]()
	initializerType = reflect.TypeFor[Initializer]()
)

type entry struct {
	t   *Type
	err error
}

// Shapes never change once a type exists, so resolutions are cached for the
// life of the process.
var cache sync.Map // reflect.Type -> entry

// Of resolves the shape of t.
func Of(t reflect.Type) (*Type, error) {
	if e, ok := cache.Load(t); ok {
		en := e.(entry)
		return en.t, en.err
	}
	rt, err := resolve(t)
	e, _ := cache.LoadOrStore(t, entry{t: rt, err: err})
	en := e.(entry)
	return en.t, en.err
}

func resolve(t reflect.Type) (*Type, error) {
	if t == nil {
		return nil, errors.Unsupported(errors.PhaseCompile, "<nil>", "untyped nil has no shape")
	}
	rt := &Type{Go: t}

	// Wrappers are recognised by method before their underlying kind.
	switch {
	case t.Implements(wideType):
		if t.Kind() != reflect.Struct || t.NumField() != 2 ||
			t.Field(0).Type.Kind() != reflect.Uint64 {
			return nil, errors.Unsupported(errors.PhaseCompile, t.String(), "128-bit integers must be laid out as {Lo uint64; Hi}")
		}
		rt.Class = Uint128
		if reflect.Zero(t).Interface().(Wide).BorshWide() {
			rt.Class = Int128
		}
		return rt, nil
	case t.Implements(boxedType):
		rt.Class = Box
		rt.Elem = reflect.Zero(t).Interface().(Boxed).BorshBoxed()
		return rt, nil
	case t.Implements(outcomeType):
		rt.Class = Result
		rt.Ok, rt.Err = reflect.Zero(t).Interface().(Outcome).BorshOutcome()
		return rt, nil
	}

	switch t.Kind() {
	case reflect.Bool:
		rt.Class = Bool
	case reflect.Int8:
		rt.Class = Int8
	case reflect.Int16:
		rt.Class = Int16
	case reflect.Int32:
		rt.Class = Int32
	case reflect.Int64, reflect.Int:
		rt.Class = Int64
	case reflect.Uint8:
		rt.Class = Uint8
	case reflect.Uint16:
		rt.Class = Uint16
	case reflect.Uint32:
		rt.Class = Uint32
	case reflect.Uint64, reflect.Uint:
		rt.Class = Uint64
	case reflect.Float32:
		rt.Class = Float32
	case reflect.Float64:
		rt.Class = Float64
	case reflect.String:
		rt.Class = String
	case reflect.Pointer:
		rt.Class = Option
		rt.Elem = t.Elem()
	case reflect.Slice:
		rt.Class = Sequence
		rt.Elem = t.Elem()
	case reflect.Array:
		rt.Class = Array
		rt.Elem = t.Elem()
		rt.Len = t.Len()
	case reflect.Map:
		rt.Key = t.Key()
		if t.Elem() == unitType {
			rt.Class = Set
			rt.Elem = t.Key()
		} else {
			rt.Class = Map
			rt.Elem = t.Elem()
		}
	case reflect.Struct:
		return resolveStruct(t, rt)
	default:
		return nil, errors.Unsupported(errors.PhaseCompile, t.String(), "kind "+t.Kind().String()+" has no wire representation")
	}
	return rt, nil
}

func resolveStruct(t reflect.Type, rt *Type) (*Type, error) {
	if t.Name() == "" {
		if t.NumField() == 0 {
			rt.Class = Unit
			return rt, nil
		}
		fields, _, err := structFields(t)
		if err != nil {
			return nil, err
		}
		rt.Class = Tuple
		rt.Fields = encoded(fields)
		return rt, nil
	}

	s := &Shape{Type: t}
	s.Name, s.params, s.paramErr = declaration(t)
	s.Init = reflect.PointerTo(t).Implements(initializerType)
	rt.Shape = s

	if t.NumField() > 0 && t.Field(0).Type == enumType {
		s.Class = Union
		rt.Class = Union
		variants, err := unionVariants(t)
		if err != nil {
			return nil, err
		}
		s.Variants = variants
		return rt, nil
	}

	s.Class = Record
	rt.Class = Record
	fields, style, err := structFields(t)
	if err != nil {
		return nil, err
	}
	s.Fields = fields
	s.Style = style
	return rt, nil
}

// structFields lists the fields of a record in declaration order, marking
// unexported and tagged fields as skipped and dropping the Positional marker.
func structFields(t reflect.Type) ([]Field, Style, error) {
	style := Named
	fields := make([]Field, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Type == positionalType {
			style = Unnamed
			continue
		}
		if sf.Type == enumType {
			return nil, 0, errors.New(errors.PhaseCompile, errors.KindUnsupported).
				GoType(t.String()).
				Path(sf.Name).
				Detail("the union discriminant must be the first field of a named struct").
				Build()
		}
		name, skip := parseTag(sf)
		fields = append(fields, Field{Name: name, Index: i, Type: sf.Type, Skip: skip})
	}
	if len(fields) == 0 {
		style = Empty
	}
	if style == Unnamed {
		pos := 0
		for i := range fields {
			if !fields[i].Skip {
				fields[i].Name = strconv.Itoa(pos)
				pos++
			}
		}
	}
	return fields, style, nil
}

func unionVariants(t reflect.Type) ([]Variant, error) {
	var variants []Variant
	for i := 1; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, skip := parseTag(sf)
		if skip {
			continue
		}
		v := Variant{Name: name, Index: i, Payload: sf.Type}
		switch {
		case sf.Type == unitType:
			v.Style = Empty
		case sf.Type.Kind() == reflect.Struct && sf.Type.Name() != "" &&
			!sf.Type.Implements(wideType) && !sf.Type.Implements(boxedType) && !sf.Type.Implements(outcomeType):
			if sf.Type.NumField() > 0 && sf.Type.Field(0).Type == enumType {
				v.Style = Unnamed
				v.Fields = []Field{{Name: "0", Index: -1, Type: sf.Type}}
				break
			}
			fields, style, err := structFields(sf.Type)
			if err != nil {
				return nil, err
			}
			v.Style = style
			v.Fields = encoded(fields)
		case sf.Type.Kind() == reflect.Struct && sf.Type.Name() == "":
			fields, style, err := structFields(sf.Type)
			if err != nil {
				return nil, err
			}
			v.Style = style
			v.Fields = encoded(fields)
		default:
			v.Style = Unnamed
			v.Fields = []Field{{Name: "0", Index: -1, Type: sf.Type}}
		}
		variants = append(variants, v)
	}
	if len(variants) > MaxVariants {
		return nil, errors.New(errors.PhaseCompile, errors.KindUnsupported).
			GoType(t.String()).
			Detail("%d variants exceed the one-byte discriminant limit of %d", len(variants), MaxVariants).
			Build()
	}
	return variants, nil
}

// parseTag reads `borsh:"name,skip"`. A tag of "-" also skips.
func parseTag(sf reflect.StructField) (name string, skip bool) {
	name = sf.Name
	if !sf.IsExported() {
		skip = true
	}
	tag, ok := sf.Tag.Lookup("borsh")
	if !ok {
		return name, skip
	}
	if tag == "-" {
		return name, true
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "skip" {
			skip = true
		}
	}
	return name, skip
}
