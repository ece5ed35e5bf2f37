package source_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	tm "github.com/typematch/typematch"
	"github.com/typematch/typematch/source"
)

const suiteYAML = `
Direction:
  enum:
    Up: 1
    Down: 2
Up:
  enumlit:
    enum: Direction
    member: Up
Shape:
  union: [Square, Circle]
Square:
  props:
    kind: {lit: square}
    size: number
Circle:
  props:
    kind: {lit: circle}
    radius: number
Pair:
  tuple: [string, number]
Node:
  props:
    name: string
    children?: {array: Node}
Tagged:
  props:
    name: string
  index: {union: [string, number]}
Derived:
  extends: [Square]
  props:
    label?: string
Fetch:
  func:
    result: string
    params:
      - {name: id, type: number}
      - {name: hint, type: string, optional: true}
`

func TestSuiteFromYAML_RoundTrip(t *testing.T) {
	suite, err := source.SuiteFromYAML([]byte(suiteYAML))
	require.NoError(t, err)
	cks, err := tm.CreateCheckers(suite)
	require.NoError(t, err)

	require.True(t, cks["Direction"].Test(2))
	require.True(t, cks["Up"].Test(1))
	require.False(t, cks["Up"].Test(2))

	square, err := source.JSONValue([]byte(`{"kind": "square", "size": 4}`))
	require.NoError(t, err)
	require.True(t, cks["Shape"].Test(square))
	require.False(t, cks["Shape"].Test(map[string]any{"kind": "square"}))

	require.True(t, cks["Pair"].Test([]any{"a", 1.5}))
	require.False(t, cks["Pair"].Test([]any{"a", "b"}))

	tree, err := source.JSONValue([]byte(`{"name": "root", "children": [{"name": "leaf"}]}`))
	require.NoError(t, err)
	require.NoError(t, cks["Node"].Check(tree))

	require.True(t, cks["Tagged"].Test(map[string]any{"name": "x", "n": 7}))
	require.False(t, cks["Tagged"].Test(map[string]any{"name": "x", "n": true}))

	require.True(t, cks["Derived"].Test(map[string]any{"kind": "square", "size": 1, "label": "l"}))
	require.False(t, cks["Derived"].Test(map[string]any{"label": "l"}))

	args, err := cks["Fetch"].Args()
	require.NoError(t, err)
	require.NoError(t, args.Check([]any{1.0}))
	require.Error(t, args.Check([]any{}))
}

func TestSuiteFromJSON(t *testing.T) {
	doc := []byte(`{"Point": {"props": {"x": "number", "y": "number"}}}`)
	suite, err := source.SuiteFromJSON(doc)
	require.NoError(t, err)
	ck, err := tm.NewChecker(suite["Point"], suite)
	require.NoError(t, err)

	v, err := source.JSONValue([]byte(`{"x": 1, "y": -2.5}`))
	require.NoError(t, err)
	require.NoError(t, ck.Check(v))
}

func TestYAMLValue_DecodesScalarsAndMappings(t *testing.T) {
	v, err := source.YAMLValue([]byte("size: 4\ntags: [a, b]\n"))
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	require.Equal(t, 4, m["size"])
	require.Equal(t, []any{"a", "b"}, m["tags"])
}

func TestSuiteFromYAML_Errors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"non-mapping document", "- a\n- b\n", "must be a mapping"},
		{"unknown tag", "T:\n  frobnicate: string\n", `unrecognized type tag "frobnicate"`},
		{"two tags", "T:\n  array: string\n  union: [a]\n", "exactly one tag"},
		{"non-scalar literal", "T:\n  lit: [1, 2]\n", "lit value must be a scalar"},
		{"empty union", "T:\n  union: []\n", "non-empty sequence"},
		{"enumlit missing member", "T:\n  enumlit:\n    enum: Direction\n", "enumlit body must be {enum, member}"},
		{"param without name", "T:\n  func:\n    params:\n      - {type: string}\n", "param 0 needs a name"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := source.SuiteFromYAML([]byte(tc.doc))
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestJSONValue_Invalid(t *testing.T) {
	_, err := source.JSONValue([]byte(`{"unterminated": `))
	require.Error(t, err)
}
