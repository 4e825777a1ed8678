package diagfmt

import (
	"encoding/json"
	"io"

	"tern/internal/diag"
	"tern/internal/source"
)

// LocationJSON is a span in stable machine-readable form. Byte offsets are
// always present; line/col are optional.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the root of the JSON rendering.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Truncated   bool             `json:"truncated,omitempty"`
}

// JSON writes the diagnostics as one indented JSON document. Count always
// reflects the full list, even when Max truncates the rendered slice.
func JSON(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) error {
	out := DiagnosticsOutput{Count: len(diags)}
	rendered := diags
	if opts.Max > 0 && len(rendered) > opts.Max {
		rendered = rendered[:opts.Max]
		out.Truncated = true
	}
	out.Diagnostics = Convert(rendered, fs, opts)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// Convert maps diagnostics to their JSON form without writing them, for
// callers that embed them in a larger document.
func Convert(diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) []DiagnosticJSON {
	out := make([]DiagnosticJSON, 0, len(diags))
	for i := range diags {
		d := &diags[i]
		dj := DiagnosticJSON{
			Severity: sevLabel(d.Severity),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, fs, opts.IncludePositions),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message:  n.Msg,
					Location: makeLocation(n.Span, fs, opts.IncludePositions),
				})
			}
		}
		out = append(out, dj)
	}
	return out
}

func makeLocation(sp source.Span, fs *source.FileSet, includePositions bool) LocationJSON {
	f := file(fs, sp)
	if f == nil {
		return LocationJSON{File: "<project>", StartByte: sp.Start, EndByte: sp.End}
	}
	loc := LocationJSON{
		File:      f.Path,
		StartByte: sp.Start,
		EndByte:   sp.End,
	}
	if includePositions {
		start, end := fs.Resolve(sp)
		loc.StartLine = start.Line
		loc.StartCol = start.Col
		loc.EndLine = end.Line
		loc.EndCol = end.Col
	}
	return loc
}
