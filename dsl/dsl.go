// Package dsl provides concise builders for composing type-descriptor trees.
//
// A bare string in a spec position is shorthand for a named reference, a
// plain map[string]any literal for an anonymous interface (property names are
// sorted so error ordering stays deterministic), and a []any literal for a
// tuple. A field or parameter name ending in "?" marks it optional, as does
// wrapping its type with Opt. Builders are pure: calling one twice with equal
// arguments yields independent, semantically equal descriptors. Malformed
// specifications panic, since they are programmer errors caught at
// suite-definition time.
package dsl

import (
	"fmt"
	"sort"
	"strings"

	tm "github.com/typematch/typematch"
)

// Type converts a shorthand specification into a descriptor.
func Type(spec any) tm.TypeDescriptor {
	switch s := spec.(type) {
	case tm.TypeDescriptor:
		return s
	case string:
		return &tm.NameRef{Name: s}
	case map[string]any:
		names := make([]string, 0, len(s))
		for k := range s {
			names = append(names, k)
		}
		sort.Strings(names)
		props := make([]tm.Property, 0, len(s))
		for _, k := range names {
			props = append(props, Field(k, s[k]))
		}
		return &tm.Interface{Props: props}
	case []any:
		return Tuple(s...)
	}
	panic(fmt.Sprintf("dsl: cannot use %T as a type specification", spec))
}

func types(specs []any) []tm.TypeDescriptor {
	out := make([]tm.TypeDescriptor, len(specs))
	for i, s := range specs {
		out[i] = Type(s)
	}
	return out
}

// Name references a type by name, resolved against the suite at compile time.
func Name(name string) *tm.NameRef { return &tm.NameRef{Name: name} }

// Lit matches exactly the given scalar value.
func Lit(value any) *tm.Literal {
	switch value.(type) {
	case string, bool:
	default:
		if !isNumeric(value) {
			panic(fmt.Sprintf("dsl: literal value must be a scalar, got %T", value))
		}
	}
	return &tm.Literal{Value: value}
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// Array matches a sequence of elem.
func Array(elem any) *tm.Array { return &tm.Array{Elem: Type(elem)} }

// Tuple matches a sequence with per-position types.
func Tuple(elems ...any) *tm.Tuple { return &tm.Tuple{Elems: types(elems)} }

// Union matches a value satisfying at least one member.
func Union(members ...any) *tm.Union {
	if len(members) == 0 {
		panic("dsl: union needs at least one member")
	}
	return &tm.Union{Members: types(members)}
}

// Intersect matches a value satisfying every member.
func Intersect(members ...any) *tm.Intersection {
	if len(members) == 0 {
		panic("dsl: intersection needs at least one member")
	}
	return &tm.Intersection{Members: types(members)}
}

// Opt wraps a type so Undefined is also accepted.
func Opt(spec any) *tm.Optional { return &tm.Optional{Type: Type(spec)} }

// Iface builds an interface from base-interface names and ordered fields.
func Iface(bases []string, fields ...tm.Property) *tm.Interface {
	return &tm.Interface{Bases: bases, Props: fields}
}

// Indexed builds an interface carrying a catch-all index signature; index
// signatures admit any property name, so strict extraneous scans are skipped.
func Indexed(bases []string, index any, fields ...tm.Property) *tm.Interface {
	return &tm.Interface{Bases: bases, Props: fields, Index: Type(index)}
}

// Field builds one interface property. A trailing "?" on the name, or an Opt
// wrapper around the type, marks it optional; both spellings are equivalent.
func Field(name string, spec any) tm.Property {
	name, opt := trimOptMarker(name)
	t := Type(spec)
	if _, wrapped := t.(*tm.Optional); wrapped {
		opt = true
	}
	return tm.Property{Name: name, Type: t, Optional: opt}
}

// OptField is Field with the optional flag always set.
func OptField(name string, spec any) tm.Property {
	f := Field(name, spec)
	f.Optional = true
	return f
}

// Enum builds a closed set of permitted scalar values keyed by member name.
func Enum(members map[string]any) *tm.Enum { return &tm.Enum{Members: members} }

// EnumLit pins exactly one named enum member's value.
func EnumLit(enum, member string) *tm.EnumLiteral {
	return &tm.EnumLiteral{Enum: enum, Member: member}
}

// Func describes a callable with the given result type and parameters.
func Func(result any, params ...tm.Param) *tm.Function {
	return &tm.Function{Params: &tm.ParamList{Params: params}, Result: Type(result)}
}

// Param builds one function parameter; a trailing "?" or an Opt-wrapped type
// marks it optional.
func Param(name string, spec any) tm.Param {
	name, opt := trimOptMarker(name)
	t := Type(spec)
	if _, wrapped := t.(*tm.Optional); wrapped {
		opt = true
	}
	return tm.Param{Name: name, Type: t, Optional: opt}
}

// OptParam is Param with the optional flag always set.
func OptParam(name string, spec any) tm.Param {
	p := Param(name, spec)
	p.Optional = true
	return p
}

// Suite converts a name→specification map into a TypeSuite.
func Suite(defs map[string]any) tm.TypeSuite {
	out := make(tm.TypeSuite, len(defs))
	for name, spec := range defs {
		out[name] = Type(spec)
	}
	return out
}

func trimOptMarker(name string) (string, bool) {
	if strings.HasSuffix(name, "?") {
		return strings.TrimSuffix(name, "?"), true
	}
	return name, false
}
