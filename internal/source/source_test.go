package source

import "testing"

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	a := in.Intern("Color")
	b := in.Intern("Color")
	if a != b {
		t.Fatalf("identical strings must share an ID")
	}
	if got := in.MustLookup(a); got != "Color" {
		t.Fatalf("lookup returned %q", got)
	}
	if in.Intern("Point") == a {
		t.Fatalf("distinct strings must not share an ID")
	}
}

func TestInternerEmptyString(t *testing.T) {
	in := NewInterner()
	if in.Intern("") != NoStringID {
		t.Fatalf("empty string must map to NoStringID")
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("lib.tn", []byte("type Red\ntype Blue\n"))
	start, _ := fs.Resolve(Span{File: id, Start: 9, End: 13})
	if start.Line != 2 || start.Col != 1 {
		t.Fatalf("expected 2:1, got %d:%d", start.Line, start.Col)
	}
	if line := fs.Get(id).GetLine(2); line != "type Blue" {
		t.Fatalf("GetLine(2) = %q", line)
	}
}

func TestResolveAroundNewlines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("u.tn", []byte("ab\ncd\nef"))
	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{2, 1, 3}, // the newline ends line 1
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 3, 2},
	}
	for _, tc := range cases {
		got, _ := fs.Resolve(Span{File: id, Start: tc.off, End: tc.off})
		if got.Line != tc.line || got.Col != tc.col {
			t.Fatalf("offset %d resolved to %d:%d, want %d:%d",
				tc.off, got.Line, got.Col, tc.line, tc.col)
		}
	}
}

func TestFileSetNormalizesCRLF(t *testing.T) {
	fs := NewFileSet()
	id := fs.Add("win.tn", []byte("a\nb"), 0)
	f := fs.Get(id)
	if len(f.LineIdx) != 1 || f.LineIdx[0] != 1 {
		t.Fatalf("unexpected line index %v", f.LineIdx)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	c := a.Cover(b)
	if c.Start != 2 || c.End != 8 {
		t.Fatalf("cover = %v", c)
	}
	other := a.Cover(Span{File: 2, Start: 0, End: 100})
	if other != a {
		t.Fatalf("cover across files must be a no-op")
	}
}
