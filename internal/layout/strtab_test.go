package layout

import "testing"

func TestStringTableInsertDedups(t *testing.T) {
	tab := NewStringTable()
	h1 := tab.Insert("match")
	h2 := tab.Insert("match")
	if h1 != h2 {
		t.Fatalf("tags differ for identical string: %d vs %d", h1, h2)
	}
	if tab.BucketLen("match") != 1 {
		t.Fatalf("duplicate insert grew the bucket: %d", tab.BucketLen("match"))
	}
	if !tab.Contains("match") || tab.Contains("other") {
		t.Fatalf("membership wrong")
	}
}

func TestStringTableCollisionFallsBackToBytes(t *testing.T) {
	tab := NewStringTable()
	tab.hash = func(string) uint64 { return 42 }

	tab.Insert("alpha")
	tab.Insert("beta")
	if tab.BucketLen("alpha") != 2 {
		t.Fatalf("colliding strings must share a bucket, got %d", tab.BucketLen("alpha"))
	}
	if !tab.Contains("alpha") || !tab.Contains("beta") {
		t.Fatalf("both colliding strings must stay distinct members")
	}
	if tab.Contains("gamma") {
		t.Fatalf("hash agreement alone must not mean membership")
	}
	if tab.Equal("alpha", "beta") {
		t.Fatalf("equal hashes must not mean equal strings")
	}
	if !tab.Equal("alpha", "alpha") {
		t.Fatalf("identical strings must compare equal")
	}
}

func TestStringTableTagIsStable(t *testing.T) {
	a := NewStringTable()
	b := NewStringTable()
	if a.Tag("discriminant") != b.Tag("discriminant") {
		t.Fatalf("tags must not depend on table identity")
	}
}
