package types

import (
	"testing"

	"tern/internal/source"
)

func TestRegistryBuiltins(t *testing.T) {
	r := NewRegistry()
	b := r.Builtins()
	if b.Invalid != NoOrigin {
		t.Fatalf("invalid sentinel must be NoOrigin, got %d", b.Invalid)
	}
	if b.Bool == NoOrigin || b.Int == NoOrigin || b.Float == NoOrigin {
		t.Fatalf("builtins not seeded")
	}
	n := r.MustResolve(b.String)
	if n.Kind != NodePrim || n.Prim != PrimString {
		t.Fatalf("string builtin descriptor wrong: %+v", n)
	}
}

func TestRegisterRecordDistinctIDs(t *testing.T) {
	r := NewRegistry()
	strs := source.NewInterner()
	name := strs.Intern("Point")
	a := r.RegisterRecord(name, source.Span{})
	b := r.RegisterRecord(name, source.Span{})
	if a == b {
		t.Fatalf("independent declarations must get distinct ids")
	}
}

func TestRecordFieldsRoundTrip(t *testing.T) {
	r := NewRegistry()
	strs := source.NewInterner()
	rec := r.RegisterRecord(strs.Intern("Green"), source.Span{})
	r.SetRecordFields(rec, []Field{{Name: strs.Intern("is_light"), Type: NewSet(r.Builtins().Bool)}})
	fields := r.RecordFields(rec)
	if len(fields) != 1 || !fields[0].Type.Contains(r.Builtins().Bool) {
		t.Fatalf("fields not stored: %+v", fields)
	}
}

func TestConstInterningIsStructural(t *testing.T) {
	r := NewRegistry()
	a := r.InternConstInt(15)
	b := r.InternConstInt(15)
	if a != b {
		t.Fatalf("the literal 15 must have exactly one type node")
	}
	if r.InternConstInt(16) == a {
		t.Fatalf("distinct literals must have distinct nodes")
	}
	if r.InternConstChar(15) == a {
		t.Fatalf("literal identity includes the primitive tag")
	}
	info, ok := r.ConstInfo(a)
	if !ok || info.Prim != PrimInt || info.Int != 15 {
		t.Fatalf("const info lost: %+v", info)
	}
}

func TestAliasChase(t *testing.T) {
	r := NewRegistry()
	strs := source.NewInterner()
	rec := r.RegisterRecord(strs.Intern("Red"), source.Span{})
	a := r.RegisterAlias(strs.Intern("A"), source.Span{})
	b := r.RegisterAlias(strs.Intern("B"), source.Span{})
	r.SetAliasTarget(a, b)
	r.SetAliasTarget(b, rec)
	got, err := r.AliasChase(a)
	if err != nil || got != rec {
		t.Fatalf("chase through two links: got %d err %v", got, err)
	}
}

func TestAliasCycleDetected(t *testing.T) {
	r := NewRegistry()
	strs := source.NewInterner()
	a := r.RegisterAlias(strs.Intern("A"), source.Span{})
	b := r.RegisterAlias(strs.Intern("B"), source.Span{})
	r.SetAliasTarget(a, b)
	r.SetAliasTarget(b, a)
	_, err := r.AliasChase(a)
	cycle, ok := err.(*AliasCycleError)
	if !ok {
		t.Fatalf("expected AliasCycleError, got %v", err)
	}
	if len(cycle.Cycle) == 0 {
		t.Fatalf("cycle path not reported")
	}
}

func TestFlattenMembers(t *testing.T) {
	r := NewRegistry()
	strs := source.NewInterner()
	ra := r.RegisterRecord(strs.Intern("A"), source.Span{})
	rb := r.RegisterRecord(strs.Intern("B"), source.Span{})
	rc := r.RegisterRecord(strs.Intern("C"), source.Span{})
	inner := r.RegisterSum(strs.Intern("Inner"), source.Span{})
	r.SetSumMembers(inner, []OriginIdx{rb, rc})

	flat := r.FlattenMembers([]OriginIdx{ra, inner, rb})
	want := []OriginIdx{ra, rb, rc}
	if len(flat) != len(want) {
		t.Fatalf("flatten = %v, want %v", flat, want)
	}
	for i := range want {
		if flat[i] != want[i] {
			t.Fatalf("flatten order = %v, want %v", flat, want)
		}
	}
}

func TestFlattenSelfReferentialSum(t *testing.T) {
	r := NewRegistry()
	strs := source.NewInterner()
	leaf := r.RegisterRecord(strs.Intern("Leaf"), source.Span{})
	tree := r.RegisterSum(strs.Intern("Tree"), source.Span{})
	r.SetSumMembers(tree, []OriginIdx{leaf, tree})
	flat := r.FlattenMembers([]OriginIdx{tree})
	if len(flat) != 1 || flat[0] != leaf {
		t.Fatalf("self-referential sum must flatten to its other members, got %v", flat)
	}
}
