// Package snippet renders human-readable source excerpts for diagnostics.
//
// Given a span, it looks the source up through the registry, slices the
// relevant line out of the resolved content and prints it with a caret
// underline:
//
//	input.txt:2:7: unexpected token
//	  2 | hello wrold
//	    |       ^^^^^
//
// Output is colorized when the destination is a terminal.
package snippet

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/mapweave/mapweave"
	"github.com/mapweave/mapweave/lineindex"
)

// Renderer writes diagnostics for spans registered in a single registry.
type Renderer struct {
	reg      *mapweave.Registry
	out      io.Writer
	useColor bool
}

// New returns a Renderer writing to out. Color is enabled when out is a
// terminal.
func New(reg *mapweave.Registry, out io.Writer) *Renderer {
	return &Renderer{reg: reg, out: out, useColor: isTerminal(out)}
}

// SetColor overrides terminal detection.
func (r *Renderer) SetColor(on bool) {
	r.useColor = on
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render prints msg with the span's location header and an underlined
// excerpt of the source line the span starts on. For a synthetic span only
// the message is printed. Content resolution failures degrade to the header
// without an excerpt; the error is returned but rendering is best-effort.
func (r *Renderer) Render(span mapweave.Span, msg string) error {
	bold := r.paint(color.Bold)
	red := r.paint(color.FgHiRed)

	if span.IsSynthetic() {
		_, err := fmt.Fprintf(r.out, "%s %s\n", bold("<generated>:"), msg)
		return err
	}

	path := r.reg.Path(span.Source)
	loc, err := r.reg.Location(span.Source, span.Start)
	if err != nil {
		fmt.Fprintf(r.out, "%s %s\n", bold(path+":"), msg)
		return err
	}

	// Header positions are one-based, as editors expect.
	header := fmt.Sprintf("%s:%d:%d:", path, loc.Line+1, loc.Column+1)
	fmt.Fprintf(r.out, "%s %s\n", bold(header), red(msg))

	line, err := r.reg.Line(span.Source, loc.Line)
	if err != nil {
		return err
	}
	gutter := fmt.Sprintf("%d", loc.Line+1)
	pad := strings.Repeat(" ", len(gutter))
	fmt.Fprintf(r.out, "  %s | %s\n", gutter, line)
	_, err = fmt.Fprintf(r.out, "  %s | %s%s\n",
		pad,
		strings.Repeat(" ", loc.Column),
		red(strings.Repeat("^", r.caretWidth(span, loc, line))))
	return err
}

// caretWidth returns how many columns of the starting line the span covers,
// at least one so a point span still gets a caret.
func (r *Renderer) caretWidth(span mapweave.Span, loc lineindex.Location, line string) int {
	width := 1
	if end, err := r.reg.Location(span.Source, span.End); err == nil && end.Line == loc.Line {
		width = end.Column - loc.Column
	} else {
		// Multi-line span: underline to the end of the first line.
		width = lineindex.UTF16Len(line) - loc.Column
	}
	if width < 1 {
		width = 1
	}
	return width
}

func (r *Renderer) paint(attr color.Attribute) func(a ...interface{}) string {
	if !r.useColor {
		return fmt.Sprint
	}
	return color.New(attr).SprintFunc()
}
