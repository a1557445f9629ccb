package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"stracejson/internal/diag"
	"stracejson/internal/source"
)

type palette struct {
	err, warn, info, caret, note, dim *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:   color.New(color.FgRed, color.Bold),
		warn:  color.New(color.FgYellow, color.Bold),
		info:  color.New(color.FgCyan),
		caret: color.New(color.FgGreen, color.Bold),
		note:  color.New(color.FgBlue),
		dim:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.caret, p.note, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		sev := p.severity(d.Severity).Sprint(d.Severity.String())

		// у таймингов нет места в логе
		if d.Code == diag.ObsTimings || fs.Len() == 0 {
			fmt.Fprintf(w, "%s %s: %s\n", sev, d.Code.ID(), d.Message)
			if d.Code == diag.ObsTimings {
				for _, n := range d.Notes {
					fmt.Fprintf(w, "  %s\n", p.dim.Sprint(n.Msg))
				}
			}
			continue
		}

		start, _ := fs.Resolve(d.Primary)
		path := displayPath(fs, d.Primary.File, opts.PathMode)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sev, d.Code.ID(), d.Message)
		writeContext(w, fs, d.Primary, opts, p)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			npath := displayPath(fs, n.Span.File, opts.PathMode)
			fmt.Fprintf(w, "%s: %s:%d:%d: %s\n", p.note.Sprint("note"), npath, ns.Line, ns.Col, n.Msg)
		}
	}
}

// writeContext печатает строку со span и соседние строки, под строкой со
// span рисует ^~~~.
func writeContext(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, p palette) {
	f := fs.Get(span.File)
	start, end := fs.Resolve(span)
	total := f.LineCount()
	if total == 0 {
		return
	}
	ctx := max(int(opts.Context), 0)
	first := max(int(start.Line)-ctx, 1)
	last := min(int(start.Line)+ctx, total)

	for ln := first; ln <= last; ln++ {
		text := strings.TrimRight(f.GetLine(uint32(ln)), "\r") //nolint:gosec // ln <= LineCount
		shown := text
		if opts.Width > 0 {
			shown = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s\n", p.dim.Sprintf("%4d |", ln), shown)
		if ln != int(start.Line) {
			continue
		}

		// ширина в колонках терминала, а не в байтах
		colByte := min(int(start.Col-1), len(text))
		endByte := len(text)
		if end.Line == start.Line {
			endByte = min(int(end.Col-1), len(text))
		}
		pad := runewidth.StringWidth(text[:colByte])
		width := max(runewidth.StringWidth(text[colByte:max(endByte, colByte)]), 1)
		if opts.Width > 0 && pad >= int(opts.Width) {
			continue
		}
		underline := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", p.dim.Sprint("     |"), strings.Repeat(" ", pad), p.caret.Sprint(underline))
	}
}
