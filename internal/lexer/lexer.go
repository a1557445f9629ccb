package lexer

import (
	"stracejson/internal/source"
	"stracejson/internal/token"
)

// Lexer splits one log line into tokens. It never looks past the line's
// limit, so a broken line cannot swallow the next one.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
	prev   token.Kind   // kind of the last token handed out, for <...> disambiguation
	prevAt uint32       // end offset of that token
}

// New creates a lexer over the whole file. Mostly useful in tests; the
// parser lexes line by line with NewLine.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		prev:   token.Invalid,
	}
}

// NewLine creates a lexer restricted to the given line span.
func NewLine(file *source.File, line source.Span, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewRangeCursor(file, line),
		opts:   opts,
		prev:   token.Invalid,
	}
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	spaced := lx.skipBlanks()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.EmptySpan(), SpaceBefore: spaced}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case isIdentStartByte(ch):
		tok = lx.scanIdent()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	case ch == '<':
		tok = lx.scanAngle(spaced)
	case ch == '.' && lx.cursor.HasPrefix("..."):
		start := lx.cursor.Mark()
		lx.cursor.Off += 3
		tok = lx.make(token.Ellipsis, start)
	case ch == '/' && lx.cursor.HasPrefix("/*"):
		tok = lx.scanComment()
	default:
		tok = lx.scanPunct()
	}

	tok.SpaceBefore = spaced
	lx.prev = tok.Kind
	lx.prevAt = tok.Span.End
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// EmptySpan returns a zero-length span at the cursor.
func (lx *Lexer) EmptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

// Rest returns the span from the cursor (or the buffered token) to the line limit.
func (lx *Lexer) Rest() source.Span {
	start := lx.cursor.Off
	if lx.look != nil {
		start = lx.look.Span.Start
	}
	return source.Span{File: lx.file.ID, Start: start, End: lx.cursor.limit()}
}

// Skip moves the lexer to the end of the line.
func (lx *Lexer) Skip() {
	lx.look = nil
	lx.cursor.Off = lx.cursor.limit()
}

func (lx *Lexer) skipBlanks() bool {
	spaced := false
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b != ' ' && b != '\t' {
			break
		}
		lx.cursor.Bump()
		spaced = true
	}
	return spaced
}

func (lx *Lexer) make(kind token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
