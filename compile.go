package typematch

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/typematch/typematch/internal/vctx"
)

// checkFn is one compiled conformance test. It reports acceptance and, on
// rejection, records failure information on the context.
type checkFn func(v any, c vctx.Ctx) bool

// allowedSet is the property allow-list shared across intersection members
// and base interfaces. Interfaces add their declared property names while
// compiling; strict extraneous scans test membership at validation time, by
// which point every member has contributed.
type allowedSet struct {
	names map[string]struct{}
}

func newAllowedSet() *allowedSet { return &allowedSet{names: make(map[string]struct{})} }

func (s *allowedSet) add(name string) { s.names[name] = struct{}{} }

func (s *allowedSet) has(name string) bool {
	_, ok := s.names[name]
	return ok
}

type cacheKey struct {
	name    string
	strict  bool
	allowed *allowedSet
}

// lazyFn is the indirection cell that breaks compile-time recursion: a named
// reference encountered while its own target is still compiling resolves
// through the cell at call time instead.
type lazyFn struct {
	fn checkFn
}

// compiler is one compilation session over a fixed resolution suite. It is
// pure: the same descriptor, suite and strictness always produce behaviorally
// identical closures, so compiled checkers may be shared without locking.
type compiler struct {
	suite TypeSuite
	cache map[cacheKey]*lazyFn
	// hooks run once after the session so computed-optionality probes can
	// call into checkers of recursive references.
	hooks []func()
}

func newCompiler(suite TypeSuite) *compiler {
	return &compiler{suite: suite, cache: make(map[cacheKey]*lazyFn)}
}

func (cp *compiler) finish() {
	for _, h := range cp.hooks {
		h()
	}
	cp.hooks = nil
}

func (cp *compiler) compile(d TypeDescriptor, strict bool, allowed *allowedSet) (checkFn, error) {
	switch t := d.(type) {
	case *NameRef:
		return cp.compileRef(t.Name, strict, allowed, true)
	case *Basic:
		return cp.compileBasic(t)
	case *Literal:
		return cp.compileLiteral(t)
	case *Array:
		return cp.compileArray(t, strict)
	case *Tuple:
		return cp.compileTuple(t, strict)
	case *Union:
		return cp.compileUnion(t, strict, allowed)
	case *Intersection:
		return cp.compileIntersection(t, strict, allowed)
	case *Interface:
		return cp.compileIface(t, strict, allowed)
	case *Optional:
		return cp.compileOptional(t, strict, allowed)
	case *Enum:
		return cp.compileEnum(t)
	case *EnumLiteral:
		return cp.compileEnumLit(t)
	case *Function:
		return cp.compileFunc(t, strict)
	case *ParamList:
		return cp.compileParamList(t, strict)
	}
	return nil, fmt.Errorf("unhandled descriptor %T", d)
}

// compileRef resolves a name against the suite. Resolution failures surface
// here, at compile time, so a malformed suite is caught once at setup rather
// than at every validation call. When wrapNamed is set and the target is a
// complex kind, failures gain an "is not a <Name>" frame so nested errors
// read as a chain; base-interface references skip the wrap.
func (cp *compiler) compileRef(name string, strict bool, allowed *allowedSet, wrapNamed bool) (checkFn, error) {
	target, ok := cp.suite[name]
	if !ok {
		return nil, fmt.Errorf("unknown type %s", name)
	}
	key := cacheKey{name: name, strict: strict, allowed: allowed}
	cell, hit := cp.cache[key]
	if !hit {
		cell = &lazyFn{}
		cp.cache[key] = cell
		fn, err := cp.compile(target, strict, allowed)
		if err != nil {
			delete(cp.cache, key)
			return nil, err
		}
		cell.fn = fn
	}
	inner := cell.fn
	if inner == nil {
		// Recursive reference mid-compilation; defer to call time.
		inner = func(v any, c vctx.Ctx) bool { return cell.fn(v, c) }
	}
	if !wrapNamed || !isComplexKind(target) {
		return inner, nil
	}
	msg := "is not a " + name
	return func(v any, c vctx.Ctx) bool {
		if inner(v, c) {
			return true
		}
		return c.Fail(vctx.None, msg, 0)
	}, nil
}

// isComplexKind reports whether a named reference to d should wrap failures
// with "is not a <Name>". Bare aliases and basic types stay unwrapped.
func isComplexKind(d TypeDescriptor) bool {
	switch d.(type) {
	case *Basic, *NameRef:
		return false
	}
	return true
}

func (cp *compiler) compileBasic(t *Basic) (checkFn, error) {
	pred, msg := t.Predicate, t.FailMsg
	if pred == nil {
		return nil, fmt.Errorf("basic type %s has no predicate", t.Name)
	}
	return func(v any, c vctx.Ctx) bool {
		if pred(v) {
			return true
		}
		return c.Fail(vctx.None, msg, 0)
	}, nil
}

func (cp *compiler) compileLiteral(t *Literal) (checkFn, error) {
	want := t.Value
	// A mismatched literal is common across many union branches; the weak
	// negative score keeps it from winning the best-match heuristic.
	msg := "is not " + renderScalar(want)
	return func(v any, c vctx.Ctx) bool {
		if scalarEqual(v, want) {
			return true
		}
		return c.Fail(vctx.None, msg, -1)
	}, nil
}

func (cp *compiler) compileArray(t *Array, strict bool) (checkFn, error) {
	elem, err := cp.compile(t.Elem, strict, nil)
	if err != nil {
		return nil, err
	}
	return func(v any, c vctx.Ctx) bool {
		arr, ok := v.([]any)
		if !ok {
			return c.Fail(vctx.None, "is not an array", 0)
		}
		for i, el := range arr {
			if !elem(el, c) {
				return c.Fail(vctx.Index(i), "", 1)
			}
		}
		return true
	}, nil
}

func (cp *compiler) compileTuple(t *Tuple, strict bool) (checkFn, error) {
	fns := make([]checkFn, len(t.Elems))
	for i, el := range t.Elems {
		fn, err := cp.compile(el, strict, nil)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	base := func(v any, c vctx.Ctx) bool {
		arr, ok := v.([]any)
		if !ok {
			return c.Fail(vctx.None, "is not an array", 0)
		}
		for i, fn := range fns {
			el := Undefined
			if i < len(arr) {
				el = arr[i]
			}
			if !fn(el, c) {
				return c.Fail(vctx.Index(i), "", 1)
			}
		}
		return true
	}
	if !strict {
		return base, nil
	}
	n := len(fns)
	return func(v any, c vctx.Ctx) bool {
		if !base(v, c) {
			return false
		}
		if arr := v.([]any); len(arr) > n {
			return c.Fail(vctx.Index(n), "is extraneous", 2)
		}
		return true
	}, nil
}

func (cp *compiler) compileUnion(t *Union, strict bool, allowed *allowedSet) (checkFn, error) {
	fns := make([]checkFn, len(t.Members))
	for i, m := range t.Members {
		fn, err := cp.compile(m, strict, allowed)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	msg := unionFailMsg(t.Members)
	return func(v any, c vctx.Ctx) bool {
		r := c.UnionResolver()
		for _, fn := range fns {
			if fn(v, r.NewContext()) {
				return true
			}
		}
		c.ResolveUnion(r)
		return c.Fail(vctx.None, msg, 0)
	}, nil
}

func unionFailMsg(members []TypeDescriptor) string {
	var names []string
	other := 0
	for _, m := range members {
		if nr, ok := m.(*NameRef); ok {
			names = append(names, nr.Name)
		} else {
			other++
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("is none of %d types", len(members))
	}
	if other > 0 {
		names = append(names, fmt.Sprintf("%d more", other))
	}
	return "is none of " + strings.Join(names, ", ")
}

func (cp *compiler) compileIntersection(t *Intersection, strict bool, allowed *allowedSet) (checkFn, error) {
	shared := allowed
	if shared == nil {
		shared = newAllowedSet()
	}
	fns := make([]checkFn, len(t.Members))
	for i, m := range t.Members {
		fn, err := cp.compile(m, strict, shared)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	// All members validate against the same context, so the value is checked
	// once against every constraint.
	return func(v any, c vctx.Ctx) bool {
		for _, fn := range fns {
			if !fn(v, c) {
				return c.Fail(vctx.None, "", 0)
			}
		}
		return true
	}, nil
}

func (cp *compiler) compileIface(t *Interface, strict bool, allowed *allowedSet) (checkFn, error) {
	shared := allowed
	if shared == nil {
		shared = newAllowedSet()
	}
	props := t.Props
	for _, p := range props {
		shared.add(p.Name)
	}
	baseFns := make([]checkFn, len(t.Bases))
	for i, b := range t.Bases {
		fn, err := cp.compileRef(b, strict, shared, false)
		if err != nil {
			return nil, err
		}
		baseFns[i] = fn
	}
	propFns := make([]checkFn, len(props))
	for i, p := range props {
		fn, err := cp.compile(p.Type, strict, nil)
		if err != nil {
			return nil, err
		}
		propFns[i] = fn
	}
	var indexFn checkFn
	if t.Index != nil {
		fn, err := cp.compile(t.Index, strict, nil)
		if err != nil {
			return nil, err
		}
		indexFn = fn
	}

	// Computed optionality: a property is effectively optional when marked so
	// or when its own type already accepts Undefined. Probed once per compile
	// (after the session, so recursive references resolve), never per call.
	isOpt := make([]bool, len(props))
	cp.hooks = append(cp.hooks, func() {
		for i := range props {
			isOpt[i] = props[i].Optional || propFns[i](Undefined, vctx.NewNoDetail())
		}
	})

	fn := func(v any, c vctx.Ctx) bool {
		m, isMap := v.(map[string]any)
		if !isMap {
			return c.Fail(vctx.None, "is not an object", 0)
		}
		// Bases are hard prerequisites, not alternatives.
		for _, bf := range baseFns {
			if !bf(v, c) {
				return false
			}
		}
		ok := true
		for i := range props {
			pv, present := m[props[i].Name]
			if !present {
				pv = Undefined
			}
			f := c.Fork()
			if IsUndefined(pv) {
				if !isOpt[i] {
					f.Fail(vctx.Field(props[i].Name), "is missing", 1)
					ok = false
				}
			} else if !propFns[i](pv, f) {
				f.Fail(vctx.Field(props[i].Name), "", 1)
				ok = false
			}
			if !c.CompleteFork() {
				return false
			}
		}
		if !ok {
			return false
		}
		if indexFn != nil {
			for _, k := range sortedKeys(m) {
				if !indexFn(m[k], c) {
					return c.Fail(vctx.Field(k), "", 1)
				}
			}
		}
		return true
	}
	// An index signature admits any property name, so extraneous scanning is
	// skipped entirely.
	if !strict || t.Index != nil {
		return fn, nil
	}
	return func(v any, c vctx.Ctx) bool {
		if !fn(v, c) {
			return false
		}
		m := v.(map[string]any)
		for _, k := range sortedKeys(m) {
			if !shared.has(k) {
				return c.Fail(vctx.Field(k), "is extraneous", 2)
			}
		}
		return true
	}, nil
}

func (cp *compiler) compileOptional(t *Optional, strict bool, allowed *allowedSet) (checkFn, error) {
	inner, err := cp.compile(t.Type, strict, allowed)
	if err != nil {
		return nil, err
	}
	return func(v any, c vctx.Ctx) bool {
		if IsUndefined(v) {
			return true
		}
		return inner(v, c)
	}, nil
}

func (cp *compiler) compileEnum(t *Enum) (checkFn, error) {
	set := make(map[any]struct{}, len(t.Members))
	for _, val := range t.Members {
		set[enumKey(val)] = struct{}{}
	}
	return func(v any, c vctx.Ctx) bool {
		k := enumKey(v)
		if k == nil || reflect.TypeOf(k).Comparable() {
			if _, ok := set[k]; ok {
				return true
			}
		}
		return c.Fail(vctx.None, "is not a valid enum value", 0)
	}, nil
}

// enumKey normalizes numerics so 17 and 17.0 hit the same set entry.
func enumKey(v any) any {
	if n, ok := numericValue(v); ok {
		return n
	}
	return v
}

func (cp *compiler) compileEnumLit(t *EnumLiteral) (checkFn, error) {
	target, ok := cp.suite[t.Enum]
	if !ok {
		return nil, fmt.Errorf("unknown type %s", t.Enum)
	}
	en, ok := target.(*Enum)
	if !ok {
		return nil, fmt.Errorf("type %s used in enumlit is not an enum type", t.Enum)
	}
	want, ok := en.Members[t.Member]
	if !ok {
		return nil, fmt.Errorf("unknown value %s.%s used in enumlit", t.Enum, t.Member)
	}
	msg := "is not " + t.Enum + "." + t.Member
	return func(v any, c vctx.Ctx) bool {
		if scalarEqual(v, want) {
			return true
		}
		return c.Fail(vctx.None, msg, -1)
	}, nil
}

func (cp *compiler) compileFunc(t *Function, strict bool) (checkFn, error) {
	// Parameter and result types compile eagerly so malformed references fail
	// at setup, but the value itself is only ever checked for callability;
	// argument/result validation is invoked explicitly through the facade.
	if t.Params != nil {
		if _, err := cp.compile(t.Params, strict, nil); err != nil {
			return nil, err
		}
	}
	if t.Result != nil {
		if _, err := cp.compile(t.Result, strict, nil); err != nil {
			return nil, err
		}
	}
	return func(v any, c vctx.Ctx) bool {
		if isFunc(v) {
			return true
		}
		return c.Fail(vctx.None, "is not a function", 0)
	}, nil
}

func (cp *compiler) compileParamList(t *ParamList, strict bool) (checkFn, error) {
	params := t.Params
	fns := make([]checkFn, len(params))
	for i, p := range params {
		fn, err := cp.compile(p.Type, strict, nil)
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}
	isOpt := make([]bool, len(params))
	cp.hooks = append(cp.hooks, func() {
		for i := range params {
			isOpt[i] = params[i].Optional || fns[i](Undefined, vctx.NewNoDetail())
		}
	})
	base := func(v any, c vctx.Ctx) bool {
		arr, ok := v.([]any)
		if !ok {
			return c.Fail(vctx.None, "is not an array", 0)
		}
		for i := range params {
			el := Undefined
			if i < len(arr) {
				el = arr[i]
			}
			if IsUndefined(el) {
				if !isOpt[i] {
					return c.Fail(vctx.Field(params[i].Name), "is missing", 1)
				}
			} else if !fns[i](el, c) {
				return c.Fail(vctx.Field(params[i].Name), "", 1)
			}
		}
		return true
	}
	if !strict {
		return base, nil
	}
	n := len(params)
	return func(v any, c vctx.Ctx) bool {
		if !base(v, c) {
			return false
		}
		if arr := v.([]any); len(arr) > n {
			return c.Fail(vctx.Index(n), "is extraneous", 2)
		}
		return true
	}, nil
}
