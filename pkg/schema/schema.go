// Package schema describes borsh types independently of Go: a Declaration
// names a type, a Definition gives its structure, and a Container gathers
// every definition reachable from one root declaration.
//
// The schema types are themselves borsh-encodable and their encoding
// matches the BorshSchemaContainer layout used by other implementations.
package schema

import (
	"reflect"
	"slices"

	"github.com/rawbytedev/borsh/pkg/shape"
)

// Declaration identifies a type, e.g. "u64" or "HashMap<u64, string>".
type Declaration = string

// NamedField is a (name, declaration) pair; it encodes as a tuple.
type NamedField = struct {
	Name        string
	Declaration Declaration
}

// VariantDef is a (variant name, declaration) pair; it encodes as a tuple.
type VariantDef = struct {
	Name        string
	Declaration Declaration
}

// Definition is the structure behind a Declaration. Exactly one variant is
// active, selected by Kind.
type Definition struct {
	Kind     shape.Enum
	Array    ArrayDef
	Sequence SequenceDef
	Tuple    TupleDef
	Enum     EnumDef
	Struct   StructDef
}

// Definition variants, in wire order.
const (
	KindArray shape.Enum = iota
	KindSequence
	KindTuple
	KindEnum
	KindStruct
)

type ArrayDef struct {
	Length   uint32      `borsh:"length"`
	Elements Declaration `borsh:"elements"`
}

type SequenceDef struct {
	Elements Declaration `borsh:"elements"`
}

type TupleDef struct {
	Elements []Declaration `borsh:"elements"`
}

type EnumDef struct {
	Variants []VariantDef `borsh:"variants"`
}

type StructDef struct {
	Fields Fields `borsh:"fields"`
}

// Fields is the field list of a struct definition.
type Fields struct {
	Kind          shape.Enum
	NamedFields   []NamedField
	UnnamedFields []Declaration
	Empty         struct{}
}

// Fields variants, in wire order.
const (
	FieldsNamed shape.Enum = iota
	FieldsUnnamed
	FieldsEmpty
)

// Container holds everything needed to interpret one type without Go types.
type Container struct {
	Declaration Declaration                `borsh:"declaration"`
	Definitions map[Declaration]Definition `borsh:"definitions"`
}

func (Container) BorshDeclaration() (string, []reflect.Type) {
	return "BorshSchemaContainer", nil
}

func ArrayOf(length uint32, elements Declaration) Definition {
	return Definition{Kind: KindArray, Array: ArrayDef{Length: length, Elements: elements}}
}

func SequenceOf(elements Declaration) Definition {
	return Definition{Kind: KindSequence, Sequence: SequenceDef{Elements: elements}}
}

func TupleOf(elements ...Declaration) Definition {
	return Definition{Kind: KindTuple, Tuple: TupleDef{Elements: elements}}
}

func EnumOf(variants ...VariantDef) Definition {
	return Definition{Kind: KindEnum, Enum: EnumDef{Variants: variants}}
}

// Variant is shorthand for a VariantDef.
func Variant(name string, decl Declaration) VariantDef {
	return VariantDef{Name: name, Declaration: decl}
}

// Field is shorthand for a NamedField.
func Field(name string, decl Declaration) NamedField {
	return NamedField{Name: name, Declaration: decl}
}

func StructNamed(fields ...NamedField) Definition {
	if fields == nil {
		fields = []NamedField{}
	}
	return Definition{Kind: KindStruct, Struct: StructDef{Fields: Fields{Kind: FieldsNamed, NamedFields: fields}}}
}

func StructUnnamed(elements ...Declaration) Definition {
	if elements == nil {
		elements = []Declaration{}
	}
	return Definition{Kind: KindStruct, Struct: StructDef{Fields: Fields{Kind: FieldsUnnamed, UnnamedFields: elements}}}
}

func StructEmpty() Definition {
	return Definition{Kind: KindStruct, Struct: StructDef{Fields: Fields{Kind: FieldsEmpty}}}
}

// Equal reports structural equality, looking only at the active variant.
func (d Definition) Equal(o Definition) bool {
	if d.Kind != o.Kind {
		return false
	}
	switch d.Kind {
	case KindArray:
		return d.Array == o.Array
	case KindSequence:
		return d.Sequence == o.Sequence
	case KindTuple:
		return slices.Equal(d.Tuple.Elements, o.Tuple.Elements)
	case KindEnum:
		return slices.Equal(d.Enum.Variants, o.Enum.Variants)
	case KindStruct:
		return d.Struct.Fields.Equal(o.Struct.Fields)
	}
	return false
}

func (f Fields) Equal(o Fields) bool {
	if f.Kind != o.Kind {
		return false
	}
	switch f.Kind {
	case FieldsNamed:
		return slices.Equal(f.NamedFields, o.NamedFields)
	case FieldsUnnamed:
		return slices.Equal(f.UnnamedFields, o.UnnamedFields)
	}
	return true
}

// Equal reports whether c and o describe the same type.
func (c *Container) Equal(o *Container) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.Declaration != o.Declaration || len(c.Definitions) != len(o.Definitions) {
		return false
	}
	for k, d := range c.Definitions {
		od, ok := o.Definitions[k]
		if !ok || !d.Equal(od) {
			return false
		}
	}
	return true
}

// Declarations returns the defined declarations in ascending order.
func (c *Container) Declarations() []Declaration {
	out := make([]Declaration, 0, len(c.Definitions))
	for k := range c.Definitions {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
