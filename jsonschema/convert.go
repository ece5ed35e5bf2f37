package jsonschema

import (
	"fmt"
	"sort"

	tm "github.com/typematch/typematch"
)

// FromSuite projects every type of the suite into $defs of one root schema.
// References between suite types become "$ref": "#/$defs/<Name>"; references
// to basic types inline their schema.
func FromSuite(suite tm.TypeSuite) (*Schema, error) {
	defs := make(map[string]*Schema, len(suite))
	for name, t := range suite {
		s, err := FromType(t, suite)
		if err != nil {
			return nil, fmt.Errorf("jsonschema: %s: %w", name, err)
		}
		defs[name] = s
	}
	return &Schema{Defs: defs}, nil
}

// FromType projects one descriptor. Named references are resolved against
// suite: user-defined names become $ref entries (which also terminates
// recursive types), basic-type names inline.
func FromType(t tm.TypeDescriptor, suite tm.TypeSuite) (*Schema, error) {
	switch d := t.(type) {
	case *tm.NameRef:
		if _, ok := suite[d.Name]; ok {
			return &Schema{Ref: "#/$defs/" + d.Name}, nil
		}
		if b, ok := tm.BasicTypes()[d.Name].(*tm.Basic); ok {
			return basicSchema(b), nil
		}
		return nil, fmt.Errorf("unknown type %s", d.Name)
	case *tm.Basic:
		return basicSchema(d), nil
	case *tm.Literal:
		return &Schema{Const: d.Value}, nil
	case *tm.Array:
		items, err := FromType(d.Elem, suite)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil
	case *tm.Tuple:
		return tupleSchema(d.Elems, suite)
	case *tm.Union:
		members, err := eachOf(d.Members, suite)
		if err != nil {
			return nil, err
		}
		return &Schema{OneOf: members}, nil
	case *tm.Intersection:
		members, err := eachOf(d.Members, suite)
		if err != nil {
			return nil, err
		}
		return &Schema{AllOf: members}, nil
	case *tm.Interface:
		return ifaceSchema(d, suite)
	case *tm.Optional:
		// Presence is an object-shape concern; the wrapped type projects
		// as-is and optionality shows up through the required list.
		return FromType(d.Type, suite)
	case *tm.Enum:
		return enumSchema(d), nil
	case *tm.EnumLiteral:
		en, ok := suite[d.Enum].(*tm.Enum)
		if !ok {
			return nil, fmt.Errorf("type %s used in enumlit is not an enum type", d.Enum)
		}
		val, ok := en.Members[d.Member]
		if !ok {
			return nil, fmt.Errorf("unknown value %s.%s used in enumlit", d.Enum, d.Member)
		}
		return &Schema{Const: val}, nil
	case *tm.Function, *tm.ParamList:
		// Callables have no JSON Schema shape.
		return &Schema{}, nil
	}
	return nil, fmt.Errorf("unhandled descriptor %T", t)
}

func eachOf(members []tm.TypeDescriptor, suite tm.TypeSuite) ([]*Schema, error) {
	out := make([]*Schema, len(members))
	for i, m := range members {
		s, err := FromType(m, suite)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func tupleSchema(elems []tm.TypeDescriptor, suite tm.TypeSuite) (*Schema, error) {
	prefix, err := eachOf(elems, suite)
	if err != nil {
		return nil, err
	}
	// Trailing Optional elements relax the minimum length.
	minLen := len(elems)
	for minLen > 0 {
		if _, ok := elems[minLen-1].(*tm.Optional); !ok {
			break
		}
		minLen--
	}
	return &Schema{Type: "array", PrefixItems: prefix, MinItems: &minLen}, nil
}

func ifaceSchema(d *tm.Interface, suite tm.TypeSuite) (*Schema, error) {
	props := make(map[string]*Schema, len(d.Props))
	var required []string
	for _, p := range d.Props {
		s, err := FromType(p.Type, suite)
		if err != nil {
			return nil, fmt.Errorf("prop %s: %w", p.Name, err)
		}
		props[p.Name] = s
		_, wrapped := p.Type.(*tm.Optional)
		if !p.Optional && !wrapped {
			required = append(required, p.Name)
		}
	}
	sort.Strings(required)
	var additional any = true
	if d.Index != nil {
		idx, err := FromType(d.Index, suite)
		if err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}
		additional = idx
	}
	own := &Schema{Type: "object", Properties: props, Required: required, AdditionalProperties: additional}
	if len(d.Bases) == 0 {
		return own, nil
	}
	all := make([]*Schema, 0, len(d.Bases)+1)
	for _, b := range d.Bases {
		ref, err := FromType(&tm.NameRef{Name: b}, suite)
		if err != nil {
			return nil, err
		}
		all = append(all, ref)
	}
	return &Schema{AllOf: append(all, own)}, nil
}

// basicSchema maps a basic type onto its closest JSON Schema shape. Types
// with no JSON representation (symbol, function-adjacent) degrade to the
// nearest carrier; never matches nothing.
func basicSchema(b *tm.Basic) *Schema {
	switch b.Name {
	case "any":
		return &Schema{}
	case "object":
		return &Schema{Type: "object"}
	case "boolean":
		return &Schema{Type: "boolean"}
	case "string", "symbol", "Buffer":
		return &Schema{Type: "string"}
	case "number":
		return &Schema{Type: "number"}
	case "null", "undefined", "void":
		return &Schema{Type: "null"}
	case "never":
		return &Schema{Not: &Schema{}}
	case "Date":
		return &Schema{Type: "string", Format: "date-time"}
	case "RegExp":
		return &Schema{Type: "string", Format: "regex"}
	}
	// Typed arrays all carry numeric elements.
	return &Schema{Type: "array", Items: &Schema{Type: "number"}}
}

func enumSchema(d *tm.Enum) *Schema {
	names := make([]string, 0, len(d.Members))
	for n := range d.Members {
		names = append(names, n)
	}
	sort.Strings(names)
	values := make([]any, 0, len(names))
	for _, n := range names {
		values = append(values, d.Members[n])
	}
	return &Schema{Enum: values}
}
