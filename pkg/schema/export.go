package schema

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding (RFC 8949 §4.2), so an export of the same schema or value is
// always byte-identical.
var encMode cbor.EncMode

func init() {
	var err error
	encOptions := cbor.CoreDetEncOptions()
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("schema: CBOR encoder initialization failed: " + err.Error())
	}
}

// Plain converts a schema-decoded value into maps, slices and scalars:
// a Record becomes map[string]any and a Value becomes a one-entry map from
// the variant name to its payload.
func Plain(v any) any {
	switch x := v.(type) {
	case Record:
		m := make(map[string]any, len(x))
		for _, f := range x {
			m[f.Name] = Plain(f.Value)
		}
		return m
	case Value:
		return map[string]any{x.Variant: Plain(x.Value)}
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	}
	return v
}

// CBOR encodes a schema-decoded value deterministically.
func CBOR(v any) ([]byte, error) {
	return encMode.Marshal(Plain(v))
}

// CBOR encodes the container deterministically.
func (c *Container) CBOR() ([]byte, error) {
	return encMode.Marshal(c.plain())
}

func (c *Container) plain() map[string]any {
	defs := make(map[string]any, len(c.Definitions))
	for k, d := range c.Definitions {
		defs[k] = d.plain()
	}
	return map[string]any{
		"declaration": c.Declaration,
		"definitions": defs,
	}
}

func (d Definition) plain() map[string]any {
	switch d.Kind {
	case KindArray:
		return map[string]any{"Array": map[string]any{"length": d.Array.Length, "elements": d.Array.Elements}}
	case KindSequence:
		return map[string]any{"Sequence": map[string]any{"elements": d.Sequence.Elements}}
	case KindTuple:
		return map[string]any{"Tuple": map[string]any{"elements": d.Tuple.Elements}}
	case KindEnum:
		vs := make([][]string, len(d.Enum.Variants))
		for i, v := range d.Enum.Variants {
			vs[i] = []string{v.Name, v.Declaration}
		}
		return map[string]any{"Enum": map[string]any{"variants": vs}}
	case KindStruct:
		f := d.Struct.Fields
		var fields any = "Empty"
		switch f.Kind {
		case FieldsNamed:
			named := make([][]string, len(f.NamedFields))
			for i, nf := range f.NamedFields {
				named[i] = []string{nf.Name, nf.Declaration}
			}
			fields = map[string]any{"NamedFields": named}
		case FieldsUnnamed:
			fields = map[string]any{"UnnamedFields": f.UnnamedFields}
		}
		return map[string]any{"Struct": map[string]any{"fields": fields}}
	}
	return map[string]any{"Unknown": int(d.Kind)}
}

// MarshalYAML renders the container with definitions sorted by declaration.
func (c *Container) MarshalYAML() (any, error) {
	defs := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range c.Declarations() {
		val := &yaml.Node{}
		if err := val.Encode(c.Definitions[k].plain()); err != nil {
			return nil, err
		}
		defs.Content = append(defs.Content, scalar(k), val)
	}
	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("declaration"), scalar(c.Declaration),
			scalar("definitions"), defs,
		},
	}, nil
}

// MarshalYAML keeps the fields in declaration order.
func (r Record) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range r {
		val := &yaml.Node{}
		if err := val.Encode(Printable(f.Value)); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, scalar(f.Name), val)
	}
	return n, nil
}

func (v Value) MarshalYAML() (any, error) {
	val := &yaml.Node{}
	if err := val.Encode(Printable(v.Value)); err != nil {
		return nil, err
	}
	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{scalar(v.Variant), val}}, nil
}

// Printable prepares a schema-decoded value for text output: 128-bit
// integers become decimal strings and byte strings 0x-prefixed hex.
func Printable(v any) any {
	switch x := v.(type) {
	case *big.Int:
		return x.String()
	case []byte:
		return fmt.Sprintf("0x%x", x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Printable(e)
		}
		return out
	}
	return v
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
