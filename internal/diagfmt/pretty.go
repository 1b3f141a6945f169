package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"gold/internal/diag"
	"gold/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	gutter, caret   *color.Color
	note, bold      *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
		note:   color.New(color.FgGreen, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.gutter, p.caret, p.note, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics the way a terminal user reads them:
//
//	error[SEM3001]: unbound variable `c`
//	  --> add.gld:2:9
//	   |
//	 2 |     a + c
//	   |         ^
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &items[i], fs, opts, pal)
	}
	if bag.Dropped() > 0 {
		fmt.Fprintf(w, "\n%s %d more diagnostics were dropped\n", pal.note.Sprint("note:"), bag.Dropped())
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	label := strings.ToLower(d.Severity.String())
	fmt.Fprintf(w, "%s: %s\n",
		pal.severity(d.Severity).Sprintf("%s[%s]", label, d.Code.ID()),
		pal.bold.Sprint(d.Message))

	if int(d.Primary.File) >= fs.Len() {
		return
	}
	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)

	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))
	pad := strings.Repeat(" ", gutterWidth)
	bar := pal.gutter.Sprint("|")

	fmt.Fprintf(w, "%s%s %s:%d:%d\n", pad, pal.gutter.Sprint("-->"),
		displayPath(fs, d.Primary.File, opts.PathMode, opts.BaseDir), start.Line, start.Col)
	fmt.Fprintf(w, "%s %s\n", pad, bar)

	first := start.Line
	if opts.Context > 0 {
		ctx := uint32(opts.Context) // #nosec G115 -- non-negative checked above
		if ctx >= first {
			first = 1
		} else {
			first -= ctx
		}
	}
	for ln := first; ln <= start.Line; ln++ {
		num := pal.gutter.Sprintf("%*d", gutterWidth, ln)
		fmt.Fprintf(w, "%s %s %s\n", num, bar, expandTabs(f.Line(ln)))
	}

	line := f.Line(start.Line)
	col := clampCol(line, start.Col)
	endCol := uint32(len(line)) + 1 // #nosec G115 -- a single line fits the file bound
	if end.Line == start.Line {
		endCol = clampCol(line, end.Col)
	}
	lead := runewidth.StringWidth(expandTabs(line[:col-1]))
	width := runewidth.StringWidth(expandTabs(line[col-1 : max(endCol, col)-1]))
	if width < 1 {
		width = 1
	}
	fmt.Fprintf(w, "%s %s %s%s\n", pad, bar, strings.Repeat(" ", lead), pal.caret.Sprint(strings.Repeat("^", width)))

	if d.Payload != nil {
		fmt.Fprintf(w, "%s %s expected %s, found %s\n", pad, pal.gutter.Sprint("="), d.Payload.Expected, d.Payload.Actual)
	}
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		where := ""
		if int(n.Span.File) < fs.Len() {
			pos, _ := fs.Resolve(n.Span)
			where = fmt.Sprintf("%s:%d:%d: ", displayPath(fs, n.Span.File, opts.PathMode, opts.BaseDir), pos.Line, pos.Col)
		}
		fmt.Fprintf(w, "%s %s %s %s%s\n", pad, pal.gutter.Sprint("="), pal.note.Sprint("note:"), where, n.Msg)
	}
}

// clampCol keeps a 1-based byte column inside line (one past the end is allowed).
func clampCol(line string, col uint32) uint32 {
	if col < 1 {
		return 1
	}
	limit := uint32(len(line)) + 1 // #nosec G115 -- a single line fits the file bound
	if col > limit {
		return limit
	}
	return col
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// Short renders one line per diagnostic in emission order.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, showNotes bool) {
	if bag == nil {
		return
	}
	if out := diag.FormatShortDiagnostics(bag.Items(), fs, showNotes); out != "" {
		fmt.Fprintln(w, out)
	}
}
