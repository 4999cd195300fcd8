package shape

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/rawbytedev/borsh/pkg/errors"
)

var predeclared = map[string]reflect.Type{}

func init() {
	for _, t := range []reflect.Type{
		reflect.TypeFor[bool](),
		reflect.TypeFor[int](), reflect.TypeFor[int8](), reflect.TypeFor[int16](),
		reflect.TypeFor[int32](), reflect.TypeFor[int64](),
		reflect.TypeFor[uint](), reflect.TypeFor[uint8](), reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](), reflect.TypeFor[uint64](),
		reflect.TypeFor[float32](), reflect.TypeFor[float64](),
		reflect.TypeFor[string](),
	} {
		predeclared[t.Name()] = t
	}
}

// declaration returns the base name and generic parameters of a named type.
// A Declarer answers for itself; otherwise the instantiated name, such as
// "Pair[uint64,string]", is parsed and each argument is matched against the
// types reachable from t's fields.
func declaration(t reflect.Type) (string, []reflect.Type, error) {
	if t.Implements(declarerType) {
		name, params := reflect.Zero(t).Interface().(Declarer).BorshDeclaration()
		return name, params, nil
	}
	if reflect.PointerTo(t).Implements(declarerType) {
		name, params := reflect.New(t).Interface().(Declarer).BorshDeclaration()
		return name, params, nil
	}

	full := t.Name()
	open := strings.IndexByte(full, '[')
	if open < 0 || !strings.HasSuffix(full, "]") {
		return full, nil, nil
	}
	base := full[:open]
	args := splitArgs(full[open+1 : len(full)-1])

	reachable := map[string]reflect.Type{}
	collect(t, reachable, map[reflect.Type]bool{})

	params := make([]reflect.Type, 0, len(args))
	for _, a := range args {
		if p, ok := predeclared[a]; ok {
			params = append(params, p)
			continue
		}
		p, ok := reachable[a]
		if !ok {
			return base, nil, errors.New(errors.PhaseSchema, errors.KindUnsupported).
				GoType(t.String()).
				Detail("cannot resolve type argument %q; implement shape.Declarer", a).
				Build()
		}
		params = append(params, p)
	}
	return base, params, nil
}

// splitArgs splits a type argument list at top-level commas.
func splitArgs(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

func collect(t reflect.Type, into map[string]reflect.Type, seen map[reflect.Type]bool) {
	if seen[t] {
		return
	}
	seen[t] = true
	into[qualified(t)] = t
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		collect(t.Elem(), into, seen)
	case reflect.Map:
		collect(t.Key(), into, seen)
		collect(t.Elem(), into, seen)
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			collect(t.Field(i).Type, into, seen)
		}
	}
}

// qualified spells t the way the runtime spells type arguments.
func qualified(t reflect.Type) string {
	if t.Name() != "" {
		if t.PkgPath() == "" {
			return t.Name()
		}
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + qualified(t.Elem())
	case reflect.Slice:
		return "[]" + qualified(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + qualified(t.Elem())
	case reflect.Map:
		return "map[" + qualified(t.Key()) + "]" + qualified(t.Elem())
	}
	return t.String()
}
