package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"tern/internal/diag"
	"tern/internal/source"
)

func oneDiag(fs *source.FileSet) []diag.Diagnostic {
	content := []byte("let x: int = \"oops\"\nlet y = x\n")
	id := fs.AddVirtual("main.tern", content)
	d := diag.New(
		diag.SevError,
		diag.TypMismatch,
		source.Span{File: id, Start: 13, End: 19},
		"type mismatch: \"oops\" is not int",
	)
	d = d.WithNote(source.Span{File: id, Start: 4, End: 5}, "declared here")
	return []diag.Diagnostic{d}
}

func TestPrettyHeaderLine(t *testing.T) {
	fs := source.NewFileSet()
	diags := oneDiag(fs)

	var buf bytes.Buffer
	Pretty(&buf, diags, fs, PrettyOpts{Color: false, ShowNotes: false})
	out := buf.String()

	if !strings.Contains(out, "main.tern:1:14: error TYP3001: type mismatch") {
		t.Fatalf("missing header line, got:\n%s", out)
	}
	if strings.Contains(out, "declared here") {
		t.Fatalf("notes rendered despite ShowNotes=false:\n%s", out)
	}
}

func TestPrettyCaretCoversSpan(t *testing.T) {
	fs := source.NewFileSet()
	diags := oneDiag(fs)

	var buf bytes.Buffer
	Pretty(&buf, diags, fs, PrettyOpts{Color: false})
	lines := strings.Split(buf.String(), "\n")

	// header, source line, caret line
	if len(lines) < 3 {
		t.Fatalf("expected context lines, got:\n%s", buf.String())
	}
	if got := lines[1]; got != "    let x: int = \"oops\"" {
		t.Fatalf("source line = %q", got)
	}
	// Span covers 6 bytes starting at column 14.
	want := "    " + strings.Repeat(" ", 13) + "^~~~~~"
	if got := lines[2]; got != want {
		t.Fatalf("caret line = %q, want %q", got, want)
	}
}

func TestPrettyNotesFollowDiagnostic(t *testing.T) {
	fs := source.NewFileSet()
	diags := oneDiag(fs)

	var buf bytes.Buffer
	Pretty(&buf, diags, fs, PrettyOpts{Color: false, ShowNotes: true})
	out := buf.String()

	if !strings.Contains(out, "main.tern:1:5: note: declared here") {
		t.Fatalf("missing note line, got:\n%s", out)
	}
	if strings.Index(out, "TYP3001") > strings.Index(out, "declared here") {
		t.Fatalf("note rendered before its diagnostic:\n%s", out)
	}
}

func TestPrettyProjectSpanHasNoContext(t *testing.T) {
	d := diag.New(diag.SevError, diag.PrjMissingUnit, source.Span{}, "unit file missing: core")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, nil, PrettyOpts{Color: false})
	out := buf.String()

	if !strings.HasPrefix(out, "<project>: error ") {
		t.Fatalf("project diagnostic location, got:\n%s", out)
	}
	if len(strings.Split(strings.TrimRight(out, "\n"), "\n")) != 1 {
		t.Fatalf("expected a single line without context:\n%s", out)
	}
}

func TestPrettyColorDisabledHasNoEscapes(t *testing.T) {
	fs := source.NewFileSet()
	diags := oneDiag(fs)

	var buf bytes.Buffer
	Pretty(&buf, diags, fs, PrettyOpts{Color: false, ShowNotes: true})
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("escape sequences present with color off:\n%q", buf.String())
	}
}
