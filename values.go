package typematch

import (
	"encoding/json"
	"sort"
	"strconv"
)

// numericValue normalizes any Go numeric to float64 for equality tests.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// scalarEqual compares two scalar values the way a literal match does:
// numbers compare by numeric value regardless of concrete Go type, strings
// and booleans by identity.
func scalarEqual(a, b any) bool {
	if an, ok := numericValue(a); ok {
		bn, ok := numericValue(b)
		return ok && an == bn
	}
	return a == b
}

// renderScalar renders a literal value for failure messages.
func renderScalar(v any) string {
	switch s := v.(type) {
	case string:
		return strconv.Quote(s)
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return s.String()
	case nil:
		return "null"
	}
	if n, ok := numericValue(v); ok {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return "the expected value"
}

// sortedKeys returns the map's keys in ascending order, so scans over a
// value's own properties behave deterministically.
func sortedKeys(m map[string]any) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}
