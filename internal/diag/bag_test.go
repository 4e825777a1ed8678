package diag

import (
	"testing"

	"tern/internal/source"
)

func TestBagCap(t *testing.T) {
	b := NewBag(2)
	for i := 0; i < 3; i++ {
		b.Add(NewError(TypMismatch, source.Span{Start: uint32(i)}, "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("cap not enforced, len=%d", b.Len())
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(NewError(TypAliasCycle, source.Span{File: 1, Start: 5, End: 6}, "later"))
	b.Add(NewWarning(TypInfo, source.Span{File: 0, Start: 9, End: 10}, "warn"))
	b.Add(NewError(TypMismatch, source.Span{File: 0, Start: 9, End: 10}, "err"))
	b.Sort()
	items := b.Items()
	if items[0].Severity != SevError || items[0].Code != TypMismatch {
		t.Fatalf("errors must sort before warnings at the same span, got %v", items[0].Code)
	}
	if items[2].Code != TypAliasCycle {
		t.Fatalf("file ordering broken: %v", items[2].Code)
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(10)
	sp := source.Span{File: 0, Start: 1, End: 2}
	b.Add(NewError(TypMismatch, sp, "a"))
	b.Add(NewError(TypMismatch, sp, "b"))
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("dedup kept %d items", b.Len())
	}
}

func TestCodeID(t *testing.T) {
	if TypNonExhaustiveSwitch.ID() != "TYP3005" {
		t.Fatalf("unexpected code id %q", TypNonExhaustiveSwitch.ID())
	}
	if PrjInvalidManifest.ID() != "PRJ5001" {
		t.Fatalf("unexpected code id %q", PrjInvalidManifest.ID())
	}
}
