package parser

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"stracejson/internal/diag"
	"stracejson/internal/lexer"
	"stracejson/internal/source"
	"stracejson/internal/syntax"
	"stracejson/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Result of parsing one log.
type Result struct {
	File    source.FileID
	Root    *syntax.Node // KindLog; lines with errors are left out
	Bag     *diag.Bag
	Lines   int // non-blank input lines
	Skipped int // non-blank lines that did not make it into Root
}

// maxNesting bounds structured recursion; deeper input is kept as a raw
// expression.
const maxNesting = 200

// Parser: состояние парсера на один файл. Лог разбирается построчно:
// строки независимы, и ошибка в одной не затрагивает соседние.
type Parser struct {
	file     *source.File
	toks     []token.Token // токены текущей строки, последний всегда EOF
	pos      int
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики

	lineErrs  int  // errors seen on the current line
	quiet     int  // >0 while a structured parse may still be abandoned
	quietFail bool // an error was swallowed in quiet mode
	depth     int
}

// ParseFile разбирает весь лог в дерево syntax.
func ParseFile(fs *source.FileSet, id source.FileID, opts Options) Result {
	file := fs.Get(id)
	p := Parser{
		file: file,
		opts: opts,
	}

	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	count, err := safecast.Conv[uint32](file.LineCount())
	if err != nil {
		panic(fmt.Errorf("line count overflow: %w", err))
	}

	res := Result{
		File: id,
		Root: syntax.NewNode(syntax.KindLog, source.Span{File: id, Start: 0, End: size}),
	}
	for n := uint32(1); n <= count; n++ {
		sp := file.LineSpan(n)
		if strings.TrimSpace(file.Text(sp)) == "" {
			continue
		}
		res.Lines++
		line := p.parseLine(sp)
		if line == nil {
			res.Skipped++
			continue
		}
		res.Root.Append(syntax.Sub(line))
	}

	res.Bag = bagOf(opts.Reporter)
	return res
}

func bagOf(r diag.Reporter) *diag.Bag {
	for r != nil {
		switch v := r.(type) {
		case *diag.BagReporter:
			return v.Bag
		case diag.BagReporter:
			return v.Bag
		case interface{ Unwrap() diag.Reporter }:
			r = v.Unwrap()
		default:
			return nil
		}
	}
	return nil
}

// lineReporter forwards lexer diagnostics through the parser so they
// count against the current line.
type lineReporter struct{ p *Parser }

func (r lineReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, _ []diag.Note) {
	r.p.report(code, sev, primary, msg)
}

func (p *Parser) parseLine(sp source.Span) *syntax.Node {
	p.toks = p.toks[:0]
	p.pos = 0
	p.lineErrs = 0
	p.quiet = 0
	p.quietFail = false
	p.depth = 0
	p.lastSpan = source.Span{File: sp.File, Start: sp.Start, End: sp.Start}

	lx := lexer.NewLine(p.file, sp, lexer.Options{Reporter: lineReporter{p}})
	for {
		tok := lx.Next()
		p.toks = append(p.toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	line := syntax.NewNode(syntax.KindLine, sp)
	if !p.parsePrefix(line) {
		return nil
	}
	body := p.parseBody()
	if body == nil || p.lineErrs > 0 {
		return nil
	}
	line.Append(syntax.Sub(body))
	return line
}
