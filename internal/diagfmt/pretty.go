package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tern/internal/diag"
	"tern/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	boldColor = color.New(color.Bold)
)

// Pretty renders diagnostics line by line:
//
//	<path>:<line>:<col>: <severity> <CODE>: <message>
//	    <source line>
//	    ^~~~~
//
// Notes follow indented under their diagnostic. The caret line accounts for
// wide runes in the source.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	for i := range diags {
		prettyOne(w, &diags[i], fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		location(fs, d.Primary),
		paint(opts.Color, sevColor(d.Severity), sevLabel(d.Severity)),
		paint(opts.Color, boldColor, d.Code.ID()),
		d.Message)
	printContext(w, fs, d.Primary, opts)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  %s: %s %s\n",
			location(fs, n.Span),
			paint(opts.Color, infoColor, "note:"),
			n.Msg)
		printContext(w, fs, n.Span, opts)
	}
}

func printContext(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts) {
	f := file(fs, sp)
	if f == nil || sp.Empty() {
		return
	}
	start, end := fs.Resolve(sp)
	line := f.GetLine(start.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)

	// Lead-in width in screen cells, then a caret run over the span. A
	// span continuing past the line gets underlined to the line's end.
	lead := runewidth.StringWidth(line[:min(int(start.Col)-1, len(line))])
	spanEnd := len(line)
	if end.Line == start.Line {
		spanEnd = min(int(end.Col)-1, len(line))
	}
	width := runewidth.StringWidth(line[min(int(start.Col)-1, len(line)):spanEnd])
	if width < 1 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", lead), paint(opts.Color, sevColor(diag.SevError), marker))
}

func location(fs *source.FileSet, sp source.Span) string {
	f := file(fs, sp)
	if f == nil {
		return "<project>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", f.Path, start.Line, start.Col)
}

func file(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || !fs.Has(sp.File) {
		return nil
	}
	return fs.Get(sp.File)
}

func sevLabel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sevColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}

func paint(enabled bool, c *color.Color, s string) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}
