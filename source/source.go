// Package source decodes raw JSON or YAML bytes into the value shapes the
// checker consumes, and loads whole type suites from declarative suite
// documents.
//
// A suite document maps type names to type nodes. A node is either a string
// (a named reference, including basic-type names) or a mapping in one of the
// forms:
//
//	{array: node}                 {tuple: [node, ...]}
//	{union: [node, ...]}          {intersection: [node, ...]}
//	{optional: node}              {lit: scalar}
//	{enum: {Member: value, ...}}  {enumlit: {enum: Name, member: Member}}
//	{func: {result: node, params: [{name, type, optional?}, ...]}}
//	{props: {...}, extends: [names], index: node}
//
// Property keys under props ending in "?" mark the property optional.
package source

import (
	"bytes"
	"fmt"
	"sort"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	tm "github.com/typematch/typematch"
	"github.com/typematch/typematch/dsl"
)

// JSONValue decodes JSON bytes into the any-shaped value tree
// (map[string]any, []any, scalars) that checkers validate.
func JSONValue(data []byte) (any, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("source: decode json: %w", err)
	}
	return v, nil
}

// YAMLValue decodes YAML bytes into the same any-shaped value tree.
func YAMLValue(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("source: decode yaml: %w", err)
	}
	return v, nil
}

// SuiteFromJSON loads a suite document from JSON bytes.
func SuiteFromJSON(data []byte) (tm.TypeSuite, error) {
	doc, err := JSONValue(data)
	if err != nil {
		return nil, err
	}
	return suiteFromDoc(doc)
}

// SuiteFromYAML loads a suite document from YAML bytes.
func SuiteFromYAML(data []byte) (tm.TypeSuite, error) {
	doc, err := YAMLValue(data)
	if err != nil {
		return nil, err
	}
	return suiteFromDoc(doc)
}

func suiteFromDoc(doc any) (tm.TypeSuite, error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("source: suite document must be a mapping of type names")
	}
	suite := make(tm.TypeSuite, len(m))
	for name, node := range m {
		t, err := typeNode(node)
		if err != nil {
			return nil, fmt.Errorf("source: type %s: %w", name, err)
		}
		suite[name] = t
	}
	return suite, nil
}

func typeNode(v any) (tm.TypeDescriptor, error) {
	switch n := v.(type) {
	case string:
		return dsl.Name(n), nil
	case map[string]any:
		return mappingNode(n)
	}
	return nil, fmt.Errorf("unrecognized type node %T", v)
}

func mappingNode(n map[string]any) (tm.TypeDescriptor, error) {
	if _, ok := n["props"]; ok {
		return ifaceNode(n)
	}
	if len(n) != 1 {
		return nil, fmt.Errorf("type node must have exactly one tag, got %d", len(n))
	}
	for tag, body := range n {
		switch tag {
		case "array":
			el, err := typeNode(body)
			if err != nil {
				return nil, err
			}
			return dsl.Array(el), nil
		case "tuple":
			elems, err := nodeList(body, tag)
			if err != nil {
				return nil, err
			}
			return &tm.Tuple{Elems: elems}, nil
		case "union":
			members, err := nodeList(body, tag)
			if err != nil {
				return nil, err
			}
			return &tm.Union{Members: members}, nil
		case "intersection":
			members, err := nodeList(body, tag)
			if err != nil {
				return nil, err
			}
			return &tm.Intersection{Members: members}, nil
		case "optional":
			el, err := typeNode(body)
			if err != nil {
				return nil, err
			}
			return dsl.Opt(el), nil
		case "lit":
			switch body.(type) {
			case map[string]any, []any, nil:
				return nil, fmt.Errorf("lit value must be a scalar")
			}
			return &tm.Literal{Value: body}, nil
		case "enum":
			members, ok := body.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("enum body must be a member mapping")
			}
			return dsl.Enum(members), nil
		case "enumlit":
			return enumLitNode(body)
		case "func":
			return funcNode(body)
		}
		return nil, fmt.Errorf("unrecognized type tag %q", tag)
	}
	return nil, fmt.Errorf("empty type node")
}

func nodeList(body any, tag string) ([]tm.TypeDescriptor, error) {
	items, ok := body.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("%s body must be a non-empty sequence", tag)
	}
	out := make([]tm.TypeDescriptor, len(items))
	for i, it := range items {
		t, err := typeNode(it)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func ifaceNode(n map[string]any) (tm.TypeDescriptor, error) {
	for k := range n {
		switch k {
		case "props", "extends", "index":
		default:
			return nil, fmt.Errorf("unrecognized interface key %q", k)
		}
	}
	props, ok := n["props"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("props must be a mapping")
	}
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	fields := make([]tm.Property, 0, len(props))
	for _, k := range names {
		t, err := typeNode(props[k])
		if err != nil {
			return nil, fmt.Errorf("prop %s: %w", k, err)
		}
		fields = append(fields, dsl.Field(k, t))
	}
	var bases []string
	if ext, ok := n["extends"]; ok {
		items, ok := ext.([]any)
		if !ok {
			return nil, fmt.Errorf("extends must be a sequence of type names")
		}
		for _, it := range items {
			name, ok := it.(string)
			if !ok {
				return nil, fmt.Errorf("extends must be a sequence of type names")
			}
			bases = append(bases, name)
		}
	}
	var index tm.TypeDescriptor
	if idx, ok := n["index"]; ok {
		t, err := typeNode(idx)
		if err != nil {
			return nil, fmt.Errorf("index: %w", err)
		}
		index = t
	}
	return &tm.Interface{Bases: bases, Props: fields, Index: index}, nil
}

func enumLitNode(body any) (tm.TypeDescriptor, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("enumlit body must be {enum, member}")
	}
	enum, _ := m["enum"].(string)
	member, _ := m["member"].(string)
	if enum == "" || member == "" {
		return nil, fmt.Errorf("enumlit body must be {enum, member}")
	}
	return dsl.EnumLit(enum, member), nil
}

func funcNode(body any) (tm.TypeDescriptor, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("func body must be {result, params}")
	}
	result := tm.TypeDescriptor(dsl.Name("void"))
	if r, ok := m["result"]; ok {
		t, err := typeNode(r)
		if err != nil {
			return nil, fmt.Errorf("result: %w", err)
		}
		result = t
	}
	var params []tm.Param
	if p, ok := m["params"]; ok {
		items, ok := p.([]any)
		if !ok {
			return nil, fmt.Errorf("params must be a sequence")
		}
		for i, it := range items {
			pm, ok := it.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("param %d must be a mapping", i)
			}
			name, _ := pm["name"].(string)
			if name == "" {
				return nil, fmt.Errorf("param %d needs a name", i)
			}
			pt, err := typeNode(pm["type"])
			if err != nil {
				return nil, fmt.Errorf("param %s: %w", name, err)
			}
			param := dsl.Param(name, pt)
			if opt, _ := pm["optional"].(bool); opt {
				param.Optional = true
			}
			params = append(params, param)
		}
	}
	return &tm.Function{Params: &tm.ParamList{Params: params}, Result: result}, nil
}
