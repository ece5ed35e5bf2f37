package vctx_test

import (
	"testing"

	"github.com/typematch/typematch/internal/vctx"
)

func TestNoDetail_FlagOnly(t *testing.T) {
	c := vctx.NewNoDetail()
	if c.Failed() {
		t.Fatalf("fresh context must not be failed")
	}
	if c.Fork() != c {
		t.Fatalf("no-detail fork must reuse the context itself")
	}
	if !c.CompleteFork() {
		t.Fatalf("CompleteFork must allow continuation while clean")
	}
	if got := c.Fail(vctx.Field("x"), "is missing", 1); got {
		t.Fatalf("Fail must return false")
	}
	if !c.Failed() {
		t.Fatalf("Fail must set the flag")
	}
	if c.CompleteFork() {
		t.Fatalf("CompleteFork must stop iteration once failed")
	}
}

func TestNoDetail_ResolverReusesScratch(t *testing.T) {
	c := vctx.NewNoDetail()
	r := c.UnionResolver()
	m := r.NewContext()
	m.Fail(vctx.None, "is not a string", 0)
	if !m.Failed() {
		t.Fatalf("member must record the flag")
	}
	if r.NewContext().Failed() {
		t.Fatalf("NewContext must hand out a clean scratch")
	}
	c.ResolveUnion(r)
	if c.Failed() {
		t.Fatalf("no-detail resolution must not taint the parent")
	}
}

func TestDetail_ForkCap(t *testing.T) {
	c := vctx.NewDetail()
	for i := 0; i < vctx.MaxForks; i++ {
		f := c.Fork()
		f.Fail(vctx.Index(i), "is missing", 1)
		cont := c.CompleteFork()
		if i < vctx.MaxForks-1 && !cont {
			t.Fatalf("fork %d should not hit the cap", i)
		}
		if i == vctx.MaxForks-1 && cont {
			t.Fatalf("cap must stop iteration after %d forks", vctx.MaxForks)
		}
	}
	nodes := c.Nodes("value")
	if len(nodes) != vctx.MaxForks {
		t.Fatalf("want %d surfaced forks, got %d", vctx.MaxForks, len(nodes))
	}
}

func TestDetail_PassingForkLeavesNoTrace(t *testing.T) {
	c := vctx.NewDetail()
	c.Fork()
	if !c.CompleteFork() {
		t.Fatalf("clean fork must not count toward the cap")
	}
	if c.Failed() {
		t.Fatalf("context must stay clean")
	}
}

func TestResolveUnion_BestPositiveScoreWins(t *testing.T) {
	c := vctx.NewDetail()
	r := c.UnionResolver()

	weak := r.NewContext()
	weak.Fail(vctx.None, "is not a string", 0)
	strong := r.NewContext()
	strong.Fail(vctx.Field("width"), "is missing", 1)
	strong.Fail(vctx.None, "is not a Rectangle", 0)

	c.ResolveUnion(r)
	c.Fail(vctx.None, "is none of 2 types", 0)

	nodes := c.Nodes("value")
	if len(nodes) != 1 || nodes[0].Message != "is none of 2 types" {
		t.Fatalf("unexpected root: %#v", nodes)
	}
	n := nodes[0].Nested
	if len(n) != 1 || n[0].Message != "is not a Rectangle" {
		t.Fatalf("best branch not spliced: %#v", n)
	}
	deep := n[0].Nested
	if len(deep) != 1 || deep[0].Path != "value.width" || deep[0].Message != "is missing" {
		t.Fatalf("branch evidence lost: %#v", deep)
	}
}

func TestResolveUnion_TieKeepsEarliest(t *testing.T) {
	c := vctx.NewDetail()
	r := c.UnionResolver()
	first := r.NewContext()
	first.Fail(vctx.Field("a"), "is missing", 1)
	second := r.NewContext()
	second.Fail(vctx.Field("b"), "is missing", 1)

	c.ResolveUnion(r)
	nodes := c.Nodes("value")
	if len(nodes) != 1 || nodes[0].Path != "value.a" {
		t.Fatalf("tie must keep the earliest member: %#v", nodes)
	}
}

func TestResolveUnion_NonPositiveScoreIsDiscarded(t *testing.T) {
	c := vctx.NewDetail()
	r := c.UnionResolver()
	m1 := r.NewContext()
	m1.Fail(vctx.None, `is not "square"`, -1)
	m2 := r.NewContext()
	m2.Fail(vctx.None, "is not a number", 0)

	c.ResolveUnion(r)
	c.Fail(vctx.None, "is none of 2 types", 0)

	nodes := c.Nodes("value")
	if len(nodes) != 1 || len(nodes[0].Nested) != 0 {
		t.Fatalf("no member showed evidence, nothing should splice: %#v", nodes)
	}
}

func TestCompleteFork_FoldsScoreIntoParent(t *testing.T) {
	// A union member whose defects live only in forks must still outrank a
	// member that failed with zero evidence.
	c := vctx.NewDetail()
	r := c.UnionResolver()

	flat := r.NewContext()
	flat.Fail(vctx.None, "is not an object", 0)

	forked := r.NewContext()
	f := forked.Fork()
	f.Fail(vctx.Field("size"), "is missing", 1)
	forked.CompleteFork()
	forked.Fail(vctx.None, "is not a Square", 0)

	c.ResolveUnion(r)
	c.Fail(vctx.None, "is none of 2 types", 0)

	nodes := c.Nodes("value")
	if len(nodes) != 1 || len(nodes[0].Nested) != 1 {
		t.Fatalf("forked member should have been spliced: %#v", nodes)
	}
	if nodes[0].Nested[0].Message != "is not a Square" {
		t.Fatalf("unexpected spliced branch: %#v", nodes[0].Nested)
	}
}

func TestNodes_SegmentsAccumulateInReverse(t *testing.T) {
	c := vctx.NewDetail()
	c.Fail(vctx.None, "is not a number", 0)
	c.Fail(vctx.Index(2), "", 1)
	c.Fail(vctx.Field("items"), "", 1)

	nodes := c.Nodes("doc")
	if len(nodes) != 1 {
		t.Fatalf("want one chain, got %#v", nodes)
	}
	if nodes[0].Path != "doc.items[2]" || nodes[0].Message != "is not a number" {
		t.Fatalf("unexpected node: %#v", nodes[0])
	}
}
