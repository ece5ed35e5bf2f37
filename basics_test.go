package typematch_test

import (
	"regexp"
	"testing"
	"time"

	tm "github.com/typematch/typematch"
	"github.com/typematch/typematch/dsl"
)

func basicChecker(t *testing.T, name string) *tm.Checker {
	t.Helper()
	ck, err := tm.NewChecker(dsl.Name(name))
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return ck
}

func TestBasicTypes_AcceptReject(t *testing.T) {
	cases := []struct {
		name    string
		good    []any
		bad     []any
		failMsg string
	}{
		{
			name:    "number",
			good:    []any{-123.56, 17, int64(4), uint8(2), 0.0},
			bad:     []any{"123", true, nil, map[string]any{}},
			failMsg: "value is not a number",
		},
		{
			name:    "string",
			good:    []any{"", "foo"},
			bad:     []any{5, nil, tm.Symbol("s")},
			failMsg: "value is not a string",
		},
		{
			name:    "boolean",
			good:    []any{true, false},
			bad:     []any{0, "true", nil},
			failMsg: "value is not a boolean",
		},
		{
			name:    "symbol",
			good:    []any{tm.Symbol("id")},
			bad:     []any{"id", 1},
			failMsg: "value is not a symbol",
		},
		{
			name:    "null",
			good:    []any{nil},
			bad:     []any{0, "", tm.Undefined},
			failMsg: "value is not null",
		},
		{
			name:    "undefined",
			good:    []any{tm.Undefined},
			bad:     []any{nil, 0, ""},
			failMsg: "value is not undefined",
		},
		{
			name:    "void",
			good:    []any{nil, tm.Undefined},
			bad:     []any{0, "", false},
			failMsg: "value is not void",
		},
		{
			name:    "object",
			good:    []any{map[string]any{}, []any{1}, time.Now()},
			bad:     []any{nil, "x", 5, tm.Undefined},
			failMsg: "value is not an object",
		},
		{
			name:    "Date",
			good:    []any{time.Now(), &time.Time{}},
			bad:     []any{"2026-01-01", 0},
			failMsg: "value is not a Date",
		},
		{
			name:    "RegExp",
			good:    []any{regexp.MustCompile(`^a+$`)},
			bad:     []any{"^a+$"},
			failMsg: "value is not a RegExp",
		},
		{
			name:    "Buffer",
			good:    []any{[]byte("bytes")},
			bad:     []any{"bytes", []any{1}},
			failMsg: "value is not a Buffer",
		},
		{
			name:    "Int32Array",
			good:    []any{[]int32{1, 2}},
			bad:     []any{[]int64{1}, []any{1}},
			failMsg: "value is not a Int32Array",
		},
		{
			name:    "Float64Array",
			good:    []any{[]float64{1.5}},
			bad:     []any{[]float32{1.5}},
			failMsg: "value is not a Float64Array",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ck := basicChecker(t, tc.name)
			for _, v := range tc.good {
				if err := ck.Check(v); err != nil {
					t.Fatalf("%s should accept %#v, got %v", tc.name, v, err)
				}
			}
			for _, v := range tc.bad {
				err := ck.Check(v)
				if err == nil {
					t.Fatalf("%s should reject %#v", tc.name, v)
				}
				if err.Error() != tc.failMsg {
					t.Fatalf("%s: unexpected message %q, want %q", tc.name, err.Error(), tc.failMsg)
				}
			}
		})
	}
}

func TestBasicAny_AcceptsEverything(t *testing.T) {
	ck := basicChecker(t, "any")
	for _, v := range []any{nil, tm.Undefined, 0, "x", map[string]any{}, []any{}} {
		if !ck.Test(v) {
			t.Fatalf("any should accept %#v", v)
		}
	}
}

func TestBasicNever_RejectsEverything(t *testing.T) {
	ck := basicChecker(t, "never")
	for _, v := range []any{nil, 0, "x"} {
		if ck.Test(v) {
			t.Fatalf("never should reject %#v", v)
		}
	}
	if err := ck.Check(0); err == nil || err.Error() != "value is unexpected" {
		t.Fatalf("unexpected never message: %v", err)
	}
}

func TestUserSuiteOverridesBasicName(t *testing.T) {
	// Later suite entries win, including over the built-in registry.
	suite := tm.TypeSuite{"string": dsl.Name("number")}
	ck, err := tm.NewChecker(dsl.Name("string"), suite)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !ck.Test(5) || ck.Test("five") {
		t.Fatalf("override should make \"string\" behave as number")
	}
}
