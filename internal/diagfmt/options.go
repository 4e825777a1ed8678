// Package diagfmt renders diagnostics for humans and tools: a colored
// caret-annotated text form and a stable JSON form.
package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	// IncludePositions adds line/col fields next to byte offsets.
	IncludePositions bool
	IncludeNotes     bool
	// Max truncates the rendered list, not the underlying diagnostics.
	Max int
}
