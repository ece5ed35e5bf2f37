// Package vctx implements the validation context protocol: the per-call
// accumulator that decouples "did validation fail" from "why did it fail".
//
// Two implementations share one contract. The no-detail context is a single
// boolean flag and runs on every optimistic first pass; the detail context
// records path segments, messages and a severity score, and supports bounded
// forking so several independent sub-failures can be reported at once.
package vctx

import "strconv"

// MaxForks bounds how many failed sibling sub-checks a detail context
// archives. Exceeding the cap truncates reporting but never changes the
// pass/fail outcome.
const MaxForks = 3

// Seg is one relative path segment: a property/parameter name (rendered as
// ".name"), a numeric index (rendered as "[index]"), or None.
type Seg struct {
	name  string
	index int
	kind  segKind
}

type segKind int

const (
	segNone segKind = iota
	segField
	segIndex
)

// None is the empty path segment, used when a frame only contributes a
// message ("the value itself is wrong").
var None = Seg{}

// Field returns a property or parameter name segment.
func Field(name string) Seg { return Seg{name: name, kind: segField} }

// Index returns a numeric index segment.
func Index(i int) Seg { return Seg{index: i, kind: segIndex} }

func (s Seg) render() string {
	switch s.kind {
	case segField:
		return "." + s.name
	case segIndex:
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return ""
}

// Ctx accumulates failure state during one validation call. Checker closures
// call Fail as their terminating expression; it always returns false.
type Ctx interface {
	// Fail records a failure at the current nesting level. msg may be empty
	// when a nested call already recorded the specific message and this frame
	// only attaches a path segment.
	Fail(seg Seg, msg string, score int) bool
	// UnionResolver mints fresh sub-contexts, one per union member attempted.
	UnionResolver() Resolver
	// ResolveUnion, called after every member failed, merges the
	// best-matching member's records into this context.
	ResolveUnion(r Resolver)
	// Fork returns a reusable child context for the next independent
	// sub-check; it is reused in place until CompleteFork.
	Fork() Ctx
	// CompleteFork archives the current fork when it failed and reports
	// whether the caller should keep attempting further forks.
	CompleteFork() bool
	// Failed reports whether this context, including archived forks,
	// recorded anything.
	Failed() bool
}

// Resolver mints one fresh sub-context per union member attempted.
type Resolver interface {
	NewContext() Ctx
}

// NewNoDetail returns the allocation-light context used for the optimistic
// first pass and for boolean tests.
func NewNoDetail() Ctx { return &noCtx{} }

type noCtx struct {
	failed bool
}

func (c *noCtx) Fail(Seg, string, int) bool {
	c.failed = true
	return false
}

func (c *noCtx) UnionResolver() Resolver { return &noResolver{} }

func (c *noCtx) ResolveUnion(Resolver) {}

func (c *noCtx) Fork() Ctx { return c }

func (c *noCtx) CompleteFork() bool { return !c.failed }

func (c *noCtx) Failed() bool { return c.failed }

// noResolver reuses a single scratch context across members; only the flag of
// the most recent attempt matters and a pass short-circuits the union anyway.
type noResolver struct {
	scratch noCtx
}

func (r *noResolver) NewContext() Ctx {
	r.scratch.failed = false
	return &r.scratch
}

// Detail is the error-collecting context. Path segments and messages form an
// append-only stack unwound in reverse when rendering, so the outermost
// frame's message is recorded last but rendered first.
type Detail struct {
	segs  []Seg
	msgs  []string
	score int
	forks []*Detail
	cur   *Detail
}

// NewDetail returns a fresh detail context.
func NewDetail() *Detail { return &Detail{} }

func (c *Detail) Fail(seg Seg, msg string, score int) bool {
	c.segs = append(c.segs, seg)
	c.msgs = append(c.msgs, msg)
	c.score += score
	return false
}

func (c *Detail) UnionResolver() Resolver { return &detailResolver{} }

// ResolveUnion selects the failed member with the numerically highest score
// (ties keep the earliest member) and splices its records into this context.
// The records are only spliced when the score is positive: a non-positive
// best score means no branch showed real evidence of being the intended one,
// so only the union-level message is worth reporting. This is a heuristic
// ranking, not a proof of intent.
func (c *Detail) ResolveUnion(r Resolver) {
	dr, ok := r.(*detailResolver)
	if !ok {
		return
	}
	var best *Detail
	for _, m := range dr.members {
		if best == nil || m.score > best.score {
			best = m
		}
	}
	if best == nil || best.score <= 0 {
		return
	}
	c.segs = append(c.segs, best.segs...)
	c.msgs = append(c.msgs, best.msgs...)
	c.forks = append(c.forks, best.forks...)
	c.score += best.score
}

func (c *Detail) Fork() Ctx {
	if c.cur == nil {
		c.cur = &Detail{}
	}
	return c.cur
}

func (c *Detail) CompleteFork() bool {
	if c.cur != nil && c.cur.Failed() {
		// Fold the fork's severity into this context so union best-branch
		// ranking sees property-level evidence.
		c.score += c.cur.score
		c.forks = append(c.forks, c.cur)
		c.cur = nil
	}
	return len(c.forks) < MaxForks
}

func (c *Detail) Failed() bool {
	return len(c.segs) > 0 || len(c.forks) > 0 || (c.cur != nil && c.cur.Failed())
}

type detailResolver struct {
	members []*Detail
}

func (r *detailResolver) NewContext() Ctx {
	d := &Detail{}
	r.members = append(r.members, d)
	return d
}

// Node is one rendered failure: an absolute path, a message, and nested
// failures recorded beneath it.
type Node struct {
	Path    string
	Message string
	Nested  []Node
}

// Nodes renders the recorded failures as a tree rooted at root (the reported
// path of the value under validation, "value" by default).
//
// The seg/msg stack is walked in reverse: segments accumulate onto the path,
// and every non-empty message becomes one node, each nested under the
// previous. Archived forks attach beneath the innermost node; when a context
// carries no messages of its own, its forks surface at the caller's level.
func (c *Detail) Nodes(root string) []Node {
	path := root
	var chain []Node
	for i := len(c.segs) - 1; i >= 0; i-- {
		path += c.segs[i].render()
		if c.msgs[i] != "" {
			chain = append(chain, Node{Path: path, Message: c.msgs[i]})
		}
	}
	var children []Node
	for _, f := range c.forks {
		children = append(children, f.Nodes(path)...)
	}
	if c.cur != nil && c.cur.Failed() {
		children = append(children, c.cur.Nodes(path)...)
	}
	if len(chain) == 0 {
		return children
	}
	chain[len(chain)-1].Nested = children
	for i := len(chain) - 1; i > 0; i-- {
		chain[i-1].Nested = []Node{chain[i]}
	}
	return chain[:1]
}
