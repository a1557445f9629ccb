package parser

import (
	"fmt"

	"stracejson/internal/diag"
	"stracejson/internal/source"
	"stracejson/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekAt смотрит на n токенов вперёд; за концом строки всегда EOF.
func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

// advance съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// atDelim reports whether the next token ends an argument.
func (p *Parser) atDelim() bool {
	return isDelimKind(p.peek().Kind)
}

// spanFrom покрывает токены от start до последнего съеденного.
func (p *Parser) spanFrom(start int) source.Span {
	if p.pos <= start {
		return p.toks[start].Span
	}
	return p.toks[start].Span.Cover(p.toks[p.pos-1].Span)
}

// getDiagnosticSpan возвращает лучший span для диагностики.
// На конце строки указываем сразу за последним токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect ожидает конкретный токен. Если его нет, репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// expectClose работает как expect для закрывающей скобки; заметка указывает на
// открывающую.
func (p *Parser) expectClose(k token.Kind, open source.Span, msg string) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	p.builder(diag.SynUnclosedDelimiter, diag.SevError, p.getDiagnosticSpan(), msg).
		WithNote(open, "opened here").
		Emit()
	return false
}

// expectEOL требует, чтобы строка закончилась.
func (p *Parser) expectEOL() bool {
	if p.at(token.EOF) {
		return true
	}
	rest := p.peek().Span.Cover(p.toks[len(p.toks)-1].Span)
	p.report(diag.SynTrailingInput, diag.SevError, rest, fmt.Sprintf("unexpected %s after end of line", describe(p.peek())))
	return false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

// репортует warning и передает текущий спан
func (p *Parser) warn(code diag.Code, sp source.Span, msg string) bool {
	return p.report(code, diag.SevWarning, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	b := p.builder(code, sev, sp, msg)
	b.Emit()
	return b != nil
}

// builder считает ошибку строки и возвращает nil, если диагностику
// печатать не надо: идёт пробный разбор, нет reporter или исчерпан лимит.
func (p *Parser) builder(code diag.Code, sev diag.Severity, sp source.Span, msg string) *diag.ReportBuilder {
	if p.quiet > 0 {
		if sev == diag.SevError {
			p.quietFail = true
		}
		return nil
	}
	if sev == diag.SevError {
		p.lineErrs++
	}
	if p.opts.Reporter == nil || p.opts.Enough() {
		return nil
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	return diag.NewReportBuilder(p.opts.Reporter, sev, code, sp, msg)
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of line"
	case token.Unfinished, token.ResumedTag, token.Angle, token.Duration:
		return t.Kind.String()
	}
	return fmt.Sprintf("%q", t.Text)
}
