package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"tern/internal/diag"
	"tern/internal/source"
)

func decodeOutput(t *testing.T, buf *bytes.Buffer) DiagnosticsOutput {
	t.Helper()
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	return out
}

func TestJSONShape(t *testing.T) {
	fs := source.NewFileSet()
	diags := oneDiag(fs)

	var buf bytes.Buffer
	if err := JSON(&buf, diags, fs, JSONOpts{IncludePositions: true, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	out := decodeOutput(t, &buf)

	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d, diagnostics = %d", out.Count, len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.Severity != "error" || d.Code != "TYP3001" {
		t.Fatalf("severity/code = %q/%q", d.Severity, d.Code)
	}
	if d.Location.File != "main.tern" || d.Location.StartByte != 13 || d.Location.EndByte != 19 {
		t.Fatalf("location = %+v", d.Location)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 14 {
		t.Fatalf("resolved position = %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "declared here" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestJSONOmitsPositionsAndNotesByDefault(t *testing.T) {
	fs := source.NewFileSet()
	diags := oneDiag(fs)

	var buf bytes.Buffer
	if err := JSON(&buf, diags, fs, JSONOpts{}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	out := decodeOutput(t, &buf)

	d := out.Diagnostics[0]
	if d.Location.StartLine != 0 || d.Location.StartCol != 0 {
		t.Fatalf("positions present without IncludePositions: %+v", d.Location)
	}
	if len(d.Notes) != 0 {
		t.Fatalf("notes present without IncludeNotes: %+v", d.Notes)
	}
}

func TestJSONMaxTruncatesButKeepsCount(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("main.tern", []byte("let a = 1\n"))
	diags := make([]diag.Diagnostic, 5)
	for i := range diags {
		diags[i] = diag.NewError(diag.TypUnresolvedName, source.Span{File: id, Start: 4, End: 5}, "unresolved name a")
	}

	var buf bytes.Buffer
	if err := JSON(&buf, diags, fs, JSONOpts{Max: 2}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	out := decodeOutput(t, &buf)

	if len(out.Diagnostics) != 2 {
		t.Fatalf("rendered %d diagnostics, want 2", len(out.Diagnostics))
	}
	if out.Count != 5 || !out.Truncated {
		t.Fatalf("count = %d truncated = %v", out.Count, out.Truncated)
	}
}

func TestJSONProjectSpanUsesPlaceholderFile(t *testing.T) {
	d := diag.NewError(diag.PrjDuplicateUnit, source.Span{}, "duplicate unit name: core")

	var buf bytes.Buffer
	if err := JSON(&buf, []diag.Diagnostic{d}, nil, JSONOpts{IncludePositions: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	out := decodeOutput(t, &buf)

	if got := out.Diagnostics[0].Location.File; got != "<project>" {
		t.Fatalf("file = %q, want <project>", got)
	}
}
