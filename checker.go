package typematch

import (
	"fmt"

	"github.com/typematch/typematch/internal/vctx"
)

// Checker is a compiled, reusable validation unit bound to one descriptor and
// one resolution suite. It holds two independent compiled closures (plain and
// strict) and is immutable apart from the cosmetic reported path, so it is
// safe to share across goroutines.
type Checker struct {
	ttype        TypeDescriptor
	suite        TypeSuite
	plain        checkFn
	strict       checkFn
	reportedPath string
}

// CreateCheckers merges the given suites with the basic-type registry into
// one resolution suite and compiles a Checker for every type the user suites
// define. Malformed suites (unknown type names, bad enum-literal references)
// fail here, once, at setup.
func CreateCheckers(suites ...TypeSuite) (map[string]*Checker, error) {
	merged := mergeWithBasics(suites)
	out := make(map[string]*Checker)
	for _, s := range suites {
		for name := range s {
			if _, done := out[name]; done {
				continue
			}
			ck, err := newChecker(merged[name], merged)
			if err != nil {
				return nil, fmt.Errorf("compile %s: %w", name, err)
			}
			out[name] = ck
		}
	}
	return out, nil
}

// MustCreateCheckers is CreateCheckers that panics on setup errors.
func MustCreateCheckers(suites ...TypeSuite) map[string]*Checker {
	cks, err := CreateCheckers(suites...)
	if err != nil {
		panic(err)
	}
	return cks
}

// NewChecker compiles a Checker for an ad hoc descriptor, resolving names
// against the given suites merged with the basic-type registry.
func NewChecker(t TypeDescriptor, suites ...TypeSuite) (*Checker, error) {
	return newChecker(t, mergeWithBasics(suites))
}

// MustNewChecker is NewChecker that panics on setup errors.
func MustNewChecker(t TypeDescriptor, suites ...TypeSuite) *Checker {
	ck, err := NewChecker(t, suites...)
	if err != nil {
		panic(err)
	}
	return ck
}

func mergeWithBasics(suites []TypeSuite) TypeSuite {
	return MergeSuites(append([]TypeSuite{basicTypes}, suites...)...)
}

func newChecker(t TypeDescriptor, merged TypeSuite) (*Checker, error) {
	if t == nil {
		return nil, fmt.Errorf("nil type descriptor")
	}
	cp := newCompiler(merged)
	plain, err := cp.compile(t, false, nil)
	if err != nil {
		return nil, err
	}
	strict, err := cp.compile(t, true, nil)
	if err != nil {
		return nil, err
	}
	cp.finish()
	return &Checker{ttype: t, suite: merged, plain: plain, strict: strict, reportedPath: "value"}, nil
}

// SetReportedPath overrides the leading path segment used when rendering
// error messages (default "value"). Purely cosmetic; pass/fail is unaffected.
func (c *Checker) SetReportedPath(path string) {
	if path == "" {
		path = "value"
	}
	c.reportedPath = path
}

// Test reports whether value conforms. It never builds a message.
func (c *Checker) Test(value any) bool {
	return c.plain(value, vctx.NewNoDetail())
}

// StrictTest is Test with extraneous-property rejection.
func (c *Checker) StrictTest(value any) bool {
	return c.strict(value, vctx.NewNoDetail())
}

// Check validates value and returns a *VError describing every reported
// defect on failure. The fast no-detail pass runs first; only a failure pays
// for the second, detail-collecting pass.
func (c *Checker) Check(value any) error {
	return c.run(c.plain, value)
}

// StrictCheck is Check with extraneous-property rejection.
func (c *Checker) StrictCheck(value any) error {
	return c.run(c.strict, value)
}

// Validate is Check returning the structured detail list instead of an
// error; it returns nil when the value conforms.
func (c *Checker) Validate(value any) []ErrorDetail {
	return c.collect(c.plain, value)
}

// StrictValidate is Validate with extraneous-property rejection.
func (c *Checker) StrictValidate(value any) []ErrorDetail {
	return c.collect(c.strict, value)
}

func (c *Checker) run(fn checkFn, value any) error {
	if fn(value, vctx.NewNoDetail()) {
		return nil
	}
	d := vctx.NewDetail()
	fn(value, d)
	return newVError(c.reportedPath, detailsFromNodes(d.Nodes(c.reportedPath)))
}

func (c *Checker) collect(fn checkFn, value any) []ErrorDetail {
	if fn(value, vctx.NewNoDetail()) {
		return nil
	}
	d := vctx.NewDetail()
	fn(value, d)
	details := detailsFromNodes(d.Nodes(c.reportedPath))
	if len(details) == 0 {
		details = []ErrorDetail{{Path: c.reportedPath, Message: "is invalid"}}
	}
	return details
}

// Type returns the underlying descriptor, as an introspection escape hatch.
func (c *Checker) Type() TypeDescriptor { return c.ttype }

// Prop returns a Checker for a declared property's type. The lookup happens
// at call time against the originating interface, not pre-expanded.
func (c *Checker) Prop(name string) (*Checker, error) {
	iface, err := c.resolveIface()
	if err != nil {
		return nil, fmt.Errorf("type has no property %s", name)
	}
	for _, p := range iface.Props {
		if p.Name == name {
			return newChecker(p.Type, c.suite)
		}
	}
	return nil, fmt.Errorf("type has no property %s", name)
}

// MethodArgs returns a Checker for a function-typed property's parameter
// list; argument arrays are validated against it as []any.
func (c *Checker) MethodArgs(name string) (*Checker, error) {
	fn, err := c.method(name)
	if err != nil {
		return nil, err
	}
	return newChecker(paramListOf(fn), c.suite)
}

// MethodResult returns a Checker for a function-typed property's result type.
func (c *Checker) MethodResult(name string) (*Checker, error) {
	fn, err := c.method(name)
	if err != nil {
		return nil, err
	}
	return newChecker(resultOf(fn), c.suite)
}

// Args returns a Checker for this checker's own parameter list when its
// descriptor is a function signature.
func (c *Checker) Args() (*Checker, error) {
	fn, err := c.resolveFunc()
	if err != nil {
		return nil, err
	}
	return newChecker(paramListOf(fn), c.suite)
}

// Result returns a Checker for this checker's own result type when its
// descriptor is a function signature.
func (c *Checker) Result() (*Checker, error) {
	fn, err := c.resolveFunc()
	if err != nil {
		return nil, err
	}
	return newChecker(resultOf(fn), c.suite)
}

func paramListOf(fn *Function) TypeDescriptor {
	if fn.Params == nil {
		return &ParamList{}
	}
	return fn.Params
}

func resultOf(fn *Function) TypeDescriptor {
	if fn.Result == nil {
		return basicTypes["void"]
	}
	return fn.Result
}

func (c *Checker) method(name string) (*Function, error) {
	iface, err := c.resolveIface()
	if err != nil {
		return nil, fmt.Errorf("type has no method %s", name)
	}
	for _, p := range iface.Props {
		if p.Name != name {
			continue
		}
		t, err := c.resolveNames(p.Type)
		if err != nil {
			return nil, err
		}
		if fn, ok := t.(*Function); ok {
			return fn, nil
		}
		return nil, fmt.Errorf("type has no method %s", name)
	}
	return nil, fmt.Errorf("type has no method %s", name)
}

func (c *Checker) resolveIface() (*Interface, error) {
	t, err := c.resolveNames(c.ttype)
	if err != nil {
		return nil, err
	}
	iface, ok := t.(*Interface)
	if !ok {
		return nil, fmt.Errorf("not an interface type")
	}
	return iface, nil
}

func (c *Checker) resolveFunc() (*Function, error) {
	t, err := c.resolveNames(c.ttype)
	if err != nil {
		return nil, err
	}
	fn, ok := t.(*Function)
	if !ok {
		return nil, fmt.Errorf("applied to non-function")
	}
	return fn, nil
}

// resolveNames follows NameRef indirection through the suite until it reaches
// a structural descriptor.
func (c *Checker) resolveNames(t TypeDescriptor) (TypeDescriptor, error) {
	seen := make(map[string]bool)
	for {
		nr, ok := t.(*NameRef)
		if !ok {
			return t, nil
		}
		if seen[nr.Name] {
			return nil, fmt.Errorf("circular alias %s", nr.Name)
		}
		seen[nr.Name] = true
		next, ok := c.suite[nr.Name]
		if !ok {
			return nil, fmt.Errorf("unknown type %s", nr.Name)
		}
		t = next
	}
}
