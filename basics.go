package typematch

import (
	"encoding/json"
	"reflect"
	"regexp"
	"time"
)

// BasicTypes returns the registry of primitive and native leaf validators.
// The registry is process-wide immutable configuration: it is initialized
// once and merged beneath every user suite during checker creation, so a
// user suite entry of the same name wins.
func BasicTypes() TypeSuite { return basicTypes }

var basicTypes = TypeSuite{
	"any":       &Basic{Name: "any", Predicate: func(any) bool { return true }, FailMsg: "is invalid"},
	"object":    &Basic{Name: "object", Predicate: isObjectValue, FailMsg: "is not an object"},
	"boolean":   &Basic{Name: "boolean", Predicate: isBool, FailMsg: "is not a boolean"},
	"string":    &Basic{Name: "string", Predicate: isString, FailMsg: "is not a string"},
	"symbol":    &Basic{Name: "symbol", Predicate: isSymbol, FailMsg: "is not a symbol"},
	"number":    &Basic{Name: "number", Predicate: isNumber, FailMsg: "is not a number"},
	"null":      &Basic{Name: "null", Predicate: isNull, FailMsg: "is not null"},
	"undefined": &Basic{Name: "undefined", Predicate: IsUndefined, FailMsg: "is not undefined"},
	"void":      &Basic{Name: "void", Predicate: isVoid, FailMsg: "is not void"},
	"never":     &Basic{Name: "never", Predicate: func(any) bool { return false }, FailMsg: "is unexpected"},

	// Native kinds, mapped onto their closest Go shapes. Matching is by
	// dynamic type, not identity, so values produced anywhere pass.
	"Date":   &Basic{Name: "Date", Predicate: isDate, FailMsg: "is not a Date"},
	"RegExp": &Basic{Name: "RegExp", Predicate: isRegExp, FailMsg: "is not a RegExp"},
	"Buffer": &Basic{Name: "Buffer", Predicate: isBuffer, FailMsg: "is not a Buffer"},

	"Int8Array":    typedArray[int8]("Int8Array"),
	"Uint8Array":   typedArray[uint8]("Uint8Array"),
	"Int16Array":   typedArray[int16]("Int16Array"),
	"Uint16Array":  typedArray[uint16]("Uint16Array"),
	"Int32Array":   typedArray[int32]("Int32Array"),
	"Uint32Array":  typedArray[uint32]("Uint32Array"),
	"Float32Array": typedArray[float32]("Float32Array"),
	"Float64Array": typedArray[float64]("Float64Array"),
}

func typedArray[E any](name string) *Basic {
	return &Basic{
		Name:      name,
		Predicate: func(v any) bool { _, ok := v.([]E); return ok },
		FailMsg:   "is not a " + name,
	}
}

func isBool(v any) bool { _, ok := v.(bool); return ok }

func isString(v any) bool { _, ok := v.(string); return ok }

func isSymbol(v any) bool { _, ok := v.(Symbol); return ok }

func isNull(v any) bool { return v == nil }

func isVoid(v any) bool { return v == nil || IsUndefined(v) }

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}

// isObjectValue accepts any non-null object-like value: maps, slices and
// structs (or pointers to structs). Scalars, functions and nil are rejected.
func isObjectValue(v any) bool {
	if v == nil || IsUndefined(v) {
		return false
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Map, reflect.Slice:
		return !rv.IsNil()
	case reflect.Struct:
		return true
	case reflect.Pointer:
		return !rv.IsNil() && rv.Elem().Kind() == reflect.Struct
	}
	return false
}

func isDate(v any) bool {
	switch v.(type) {
	case time.Time, *time.Time:
		return true
	}
	return false
}

func isRegExp(v any) bool {
	switch v.(type) {
	case *regexp.Regexp, regexp.Regexp:
		return true
	}
	return false
}

func isBuffer(v any) bool { _, ok := v.([]byte); return ok }

func isFunc(v any) bool {
	if v == nil {
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.Func
}
