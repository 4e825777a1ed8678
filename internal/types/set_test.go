package types

import "testing"

func TestNewSetNormalizes(t *testing.T) {
	s := NewSet(7, 3, 7, 1)
	if s.Len() != 3 || s[0] != 1 || s[1] != 3 || s[2] != 7 {
		t.Fatalf("normalize failed: %v", s)
	}
}

func TestSetOps(t *testing.T) {
	a := NewSet(1, 2, 3)
	b := NewSet(2, 3, 4)
	if u := a.Union(b); !u.SameIDs(NewSet(1, 2, 3, 4)) {
		t.Fatalf("union = %v", u)
	}
	if d := a.Diff(b); !d.SameIDs(NewSet(1)) {
		t.Fatalf("diff = %v", d)
	}
	if x := a.Intersect(b); !x.SameIDs(NewSet(2, 3)) {
		t.Fatalf("intersect = %v", x)
	}
}

func TestSetDiffDoesNotAliasInput(t *testing.T) {
	a := NewSet(1, 2, 3)
	_ = a.Diff(NewSet(2))
	if !a.SameIDs(NewSet(1, 2, 3)) {
		t.Fatalf("diff must not mutate its receiver")
	}
}

func TestEmptySetIsBottom(t *testing.T) {
	var bottom TypeSet
	if !bottom.Empty() || bottom.Erroneous() {
		t.Fatalf("the empty set is bottom, not the error sentinel")
	}
	if !Erroneous().Erroneous() {
		t.Fatalf("sentinel must report erroneous")
	}
}
