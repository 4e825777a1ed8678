package types

import (
	"testing"

	"tern/internal/source"
)

func colorFixture(t *testing.T) (*Registry, *source.Interner, OriginIdx, OriginIdx, OriginIdx) {
	t.Helper()
	r := NewRegistry()
	strs := source.NewInterner()
	red := r.RegisterRecord(strs.Intern("Red"), source.Span{})
	blue := r.RegisterRecord(strs.Intern("Blue"), source.Span{})
	green := r.RegisterRecord(strs.Intern("Green"), source.Span{})
	r.SetRecordFields(green, []Field{{Name: strs.Intern("is_light"), Type: NewSet(r.Builtins().Bool)}})
	return r, strs, red, green, blue
}

func TestSubsetReflexive(t *testing.T) {
	r, _, red, green, blue := colorFixture(t)
	sets := []TypeSet{
		NewSet(red),
		NewSet(red, green, blue),
		NewSet(r.Builtins().Int, r.Builtins().String),
		{},
	}
	for _, s := range sets {
		if !r.IsSubset(s, s) {
			t.Fatalf("IsSubset(%v, %v) must hold", s, s)
		}
	}
}

func TestSubsetMembership(t *testing.T) {
	r, _, red, green, blue := colorFixture(t)
	color := NewSet(red, green, blue)
	if !r.IsSubset(NewSet(green), color) {
		t.Fatalf("{Green} must be a subset of Color")
	}
	if r.IsSubset(color, NewSet(red, blue)) {
		t.Fatalf("Color must not fit in {Red, Blue}")
	}
}

func TestSubsetTransitive(t *testing.T) {
	r, _, red, green, blue := colorFixture(t)
	a := NewSet(red)
	b := NewSet(red, green)
	c := NewSet(red, green, blue)
	if !r.IsSubset(a, b) || !r.IsSubset(b, c) || !r.IsSubset(a, c) {
		t.Fatalf("transitivity broken")
	}
}

func TestLiteralBridge(t *testing.T) {
	r, _, _, _, _ := colorFixture(t)
	lit := NewSet(r.InternConstInt(15))
	intOrString := NewSet(r.Builtins().Int, r.Builtins().String)
	if !r.IsSubset(lit, intOrString) {
		t.Fatalf("{15} must be a subset of int|string via the bridge")
	}
	widened, err := r.Widen(lit, intOrString)
	if err != nil {
		t.Fatalf("widen failed: %v", err)
	}
	if !widened.SameIDs(intOrString) {
		t.Fatalf("widen must return exactly the target set, got %v", widened)
	}
	boolOnly := NewSet(r.Builtins().Bool)
	if r.IsSubset(lit, boolOnly) {
		t.Fatalf("the bridge must respect the primitive tag")
	}
}

func TestLiteralBridgeTransitivity(t *testing.T) {
	r, _, _, _, _ := colorFixture(t)
	lit := NewSet(r.InternConstString(source.NoStringID + 1))
	u1 := NewSet(r.Builtins().String)
	u2 := NewSet(r.Builtins().String, r.Builtins().Int)
	w1, err := r.Widen(lit, u1)
	if err != nil {
		t.Fatalf("widen to u1: %v", err)
	}
	if _, err := r.Widen(w1, u2); err != nil {
		t.Fatalf("widened literal must remain valid through the larger union: %v", err)
	}
}

func TestWidenMismatch(t *testing.T) {
	r, _, red, green, blue := colorFixture(t)
	color := NewSet(red, green, blue)
	_, err := r.Widen(color, NewSet(red, blue))
	mismatch, ok := err.(*MismatchError)
	if !ok {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if len(mismatch.Missing) != 1 || mismatch.Missing[0] != green {
		t.Fatalf("mismatch must cite the missing Green, got %v", mismatch.Missing)
	}
}

func TestAliasTransparency(t *testing.T) {
	r, strs, red, green, blue := colorFixture(t)
	aliasRed := r.RegisterAlias(strs.Intern("Crimson"), source.Span{})
	r.SetAliasTarget(aliasRed, red)
	color := NewSet(red, green, blue)
	if !r.IsSubset(NewSet(aliasRed), color) {
		t.Fatalf("an alias must be interchangeable with its target")
	}
	if !r.SetsEqual(NewSet(aliasRed, green, blue), color) {
		t.Fatalf("sets differing only by aliasing must compare equal")
	}
}

func TestErroneousSetSuppression(t *testing.T) {
	r, _, red, _, _ := colorFixture(t)
	got, err := r.Widen(Erroneous(), NewSet(red))
	if err != nil {
		t.Fatalf("erroneous sets must widen silently: %v", err)
	}
	if !got.Contains(red) {
		t.Fatalf("widen result must be the target set")
	}
}

func TestDescribeSet(t *testing.T) {
	r, strs, red, green, blue := colorFixture(t)
	// Set order follows OriginIdx order, which here is declaration order.
	if got := DescribeSet(r, strs, NewSet(red, green, blue)); got != "Red | Blue | Green" {
		t.Fatalf("describe = %q", got)
	}
	if DescribeSet(r, strs, TypeSet{}) != "never" {
		t.Fatalf("empty set must describe as never")
	}
	if DescribeSet(r, strs, Erroneous()) != "<error>" {
		t.Fatalf("erroneous set must describe as <error>")
	}
}
