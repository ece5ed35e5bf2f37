package typematch

// TypeDescriptor is one immutable node in a type tree. The set of variants is
// closed: NameRef, Literal, Array, Tuple, Union, Intersection, Interface,
// Optional, Enum, EnumLiteral, Function, ParamList and Basic. Descriptors are
// never mutated after construction and may be shared freely.
type TypeDescriptor interface {
	isTypeDescriptor()
}

// TypeSuite maps type names to descriptors and is the unit of name
// resolution. Suites merge in argument order; later entries win.
type TypeSuite map[string]TypeDescriptor

// MergeSuites combines suites left to right into a new suite.
func MergeSuites(suites ...TypeSuite) TypeSuite {
	out := make(TypeSuite)
	for _, s := range suites {
		for name, t := range s {
			out[name] = t
		}
	}
	return out
}

// NameRef references a type by name. The name is resolved against the active
// suite when a checker is compiled, not when the descriptor is built, which
// is what makes forward references and recursive types work.
type NameRef struct {
	Name string
}

// Literal matches exactly one scalar value (string, number or boolean).
type Literal struct {
	Value any
}

// Array matches a sequence whose every element satisfies Elem.
type Array struct {
	Elem TypeDescriptor
}

// Tuple matches a sequence with per-position element types. Extra trailing
// elements are allowed unless the checker is strict.
type Tuple struct {
	Elems []TypeDescriptor
}

// Union matches a value satisfying at least one member.
type Union struct {
	Members []TypeDescriptor
}

// Intersection matches a value satisfying every member. Members share one
// allowed-property set, so strict extraneous checks consider the union of all
// members' declared properties rather than each member in isolation.
type Intersection struct {
	Members []TypeDescriptor
}

// Interface matches an object shape: base interfaces by name, an ordered
// property list (order drives deterministic error reporting), and an optional
// catch-all index type. An index type disables strict extraneous scanning,
// since any property name is implicitly allowed.
type Interface struct {
	Bases []string
	Props []Property
	Index TypeDescriptor
}

// Property is a named, possibly optional field of an Interface.
type Property struct {
	Name     string
	Type     TypeDescriptor
	Optional bool
}

// Optional wraps a type so that Undefined is accepted in addition to it.
type Optional struct {
	Type TypeDescriptor
}

// Enum is a closed set of permitted scalar values, keyed by member name.
type Enum struct {
	Members map[string]any
}

// EnumLiteral pins exactly one named enum member's value. The enum and member
// are resolved against the suite at compile time and fail fast when absent.
type EnumLiteral struct {
	Enum   string
	Member string
}

// Function describes a callable's shape. The value itself is only checked for
// callability; Params and Result are exposed for explicit argument/result
// validation via the Checker facade and are never invoked automatically.
type Function struct {
	Params *ParamList
	Result TypeDescriptor
}

// Param is one entry of a ParamList.
type Param struct {
	Name     string
	Type     TypeDescriptor
	Optional bool
}

// ParamList is an ordered argument specification. It checks like a restricted
// tuple where optionality, not just position, decides whether a short
// argument list is acceptable.
type ParamList struct {
	Params []Param
}

// Basic is a leaf validator for a fixed vocabulary of primitive and native
// kinds. FailMsg is the fixed human-readable text reported on rejection.
type Basic struct {
	Name      string
	Predicate func(v any) bool
	FailMsg   string
}

func (*NameRef) isTypeDescriptor()      {}
func (*Literal) isTypeDescriptor()      {}
func (*Array) isTypeDescriptor()        {}
func (*Tuple) isTypeDescriptor()        {}
func (*Union) isTypeDescriptor()        {}
func (*Intersection) isTypeDescriptor() {}
func (*Interface) isTypeDescriptor()    {}
func (*Optional) isTypeDescriptor()     {}
func (*Enum) isTypeDescriptor()         {}
func (*EnumLiteral) isTypeDescriptor()  {}
func (*Function) isTypeDescriptor()     {}
func (*ParamList) isTypeDescriptor()    {}
func (*Basic) isTypeDescriptor()        {}

// undefinedValue is the type of the Undefined sentinel.
type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined marks the absence of a value, mirroring a missing object key. An
// object key that is absent and a key explicitly set to Undefined are treated
// identically.
var Undefined any = undefinedValue{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// Symbol is the string-kind analog of the symbol primitive; the "symbol"
// basic type accepts exactly values of this type.
type Symbol string
