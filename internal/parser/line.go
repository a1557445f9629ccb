package parser

import (
	"strconv"
	"strings"

	"stracejson/internal/diag"
	"stracejson/internal/source"
	"stracejson/internal/syntax"
	"stracejson/internal/token"
)

// parsePrefix reads "[pid N]" or a bare pid, then the timestamp.
//
//	1690000000.123456 open(...)
//	12345 1690000000.123456 open(...)
//	[pid 12345] 12:34:56.789012 open(...)
func (p *Parser) parsePrefix(line *syntax.Node) bool {
	switch {
	case p.at(token.LBracket) && p.peekAt(1).IsIdent() && p.peekAt(1).Text == "pid":
		p.advance()
		p.advance()
		num, ok := p.expect(token.Number, diag.SynBadPid, "expected pid number after '[pid'")
		if !ok || !p.checkPid(num) {
			return false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnclosedDelimiter, "expected ']' after pid"); !ok {
			return false
		}
		line.Append(syntax.Tok(syntax.TokPid, num.Text, num.Span))
		return p.parseTimestamp(line)

	case p.at(token.Number):
		first := p.peek()
		// голое целое перед телом строки означает pid (strace -f)
		if isDigits(first.Text) && !p.gluedColonAt(1) {
			p.advance()
			if !p.checkPid(first) {
				return false
			}
			line.Append(syntax.Tok(syntax.TokPid, first.Text, first.Span))
		}
		return p.parseTimestamp(line)
	}

	p.warn(diag.SynUnrecognizedLine, line.Span, "line does not start with a pid or timestamp; skipped")
	return false
}

func (p *Parser) checkPid(num token.Token) bool {
	if _, err := strconv.ParseUint(num.Text, 10, 32); err != nil {
		p.report(diag.SynBadPid, diag.SevError, num.Span, "pid must be a non-negative 32-bit integer, got "+strconv.Quote(num.Text))
		return false
	}
	return true
}

// gluedColonAt reports whether token n ahead is a ':' stuck to its
// neighbours, i.e. part of an HH:MM:SS stamp.
func (p *Parser) gluedColonAt(n int) bool {
	t := p.peekAt(n)
	return t.IsOp(":") && !t.SpaceBefore
}

// parseTimestamp reads a number, or HH:MM:SS[.frac] which the lexer hands
// out as Number ':' Number ':' Number.
func (p *Parser) parseTimestamp(line *syntax.Node) bool {
	if !p.at(token.Number) {
		p.err(diag.SynMissingTimestamp, "expected timestamp")
		return false
	}
	start := p.pos
	p.advance()
	for p.gluedColonAt(0) && p.peekAt(1).Kind == token.Number && !p.peekAt(1).SpaceBefore {
		p.advance()
		p.advance()
	}
	sp := p.spanFrom(start)
	text := p.file.Text(sp)
	if _, err := syntax.ParseTimestamp(text); err != nil {
		p.report(diag.SynBadTimestamp, diag.SevError, sp, "malformed timestamp "+strconv.Quote(text)+": "+err.Error())
		return false
	}
	line.Append(syntax.Tok(syntax.TokTimestamp, text, sp))
	return true
}

func (p *Parser) parseBody() *syntax.Node {
	t := p.peek()
	switch {
	case t.Kind == token.Ident && p.peekAt(1).Kind == token.LParen:
		return p.parseSyscall()
	case t.Kind == token.ResumedTag:
		return p.parseResumed()
	case t.IsOp("---"):
		return p.parseSignal()
	case t.IsOp("+++"):
		return p.parseAlert()
	case t.Kind == token.EOF:
		p.err(diag.SynUnrecognizedLine, "line ends after the timestamp")
		return nil
	}
	rest := t.Span.Cover(p.toks[len(p.toks)-1].Span)
	p.warn(diag.SynUnrecognizedLine, rest, "unrecognized line body; skipped")
	return nil
}

// parseSyscall: name(args) = result <duration>  или  name(args <unfinished ...>
func (p *Parser) parseSyscall() *syntax.Node {
	start := p.pos
	name := p.advance()
	open := p.advance()

	args := p.parseArgs(syntax.KindArgs, token.RParen)
	if args == nil {
		return nil
	}

	if p.at(token.Unfinished) {
		p.advance()
		if !p.expectEOL() {
			return nil
		}
		n := syntax.NewNode(syntax.KindUnfinished, p.spanFrom(start), syntax.Tok(syntax.TokName, name.Text, name.Span))
		appendArgs(n, args)
		return n
	}

	if !p.expectClose(token.RParen, open.Span, "expected ')' to close the argument list") {
		return nil
	}
	n := syntax.NewNode(syntax.KindSyscall, name.Span, syntax.Tok(syntax.TokName, name.Text, name.Span))
	appendArgs(n, args)
	if !p.parseResult(n) {
		return nil
	}
	n.Span = p.spanFrom(start)
	return n
}

// parseResumed: <... name resumed> args) = result <duration>
func (p *Parser) parseResumed() *syntax.Node {
	start := p.pos
	tag := p.advance()
	n := syntax.NewNode(syntax.KindResumed, tag.Span, syntax.Tok(syntax.TokResumedTag, tag.Text, tag.Span))

	// "<... wait4 resumed>, 0, NULL) = 12": хвост начинается с запятой,
	// если первый аргумент был напечатан до <unfinished ...>
	if p.at(token.Comma) {
		p.advance()
	}
	args := p.parseArgs(syntax.KindArgs, token.RParen)
	if args == nil {
		return nil
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedDelimiter, "expected ')' to close the resumed argument list"); !ok {
		return nil
	}
	appendArgs(n, args)
	if !p.parseResult(n) {
		return nil
	}
	n.Span = p.spanFrom(start)
	return n
}

func appendArgs(n, args *syntax.Node) {
	if len(args.Children) > 0 {
		n.Append(syntax.Sub(args))
	}
}

// parseResult reads "= raw result text [<duration>]" to the end of line.
// The result is kept verbatim: "-1 ENOENT (No such file or directory)".
func (p *Parser) parseResult(n *syntax.Node) bool {
	if !p.at(token.Assign) {
		p.err(diag.SynMissingResult, "expected '=' followed by the call result")
		return false
	}
	p.advance()

	start := p.pos
	for !p.at(token.EOF) && !p.at(token.Duration) {
		p.advance()
	}
	if p.pos == start {
		p.err(diag.SynMissingResult, "missing result after '='")
		return false
	}
	sp := p.spanFrom(start)
	n.Append(syntax.Tok(syntax.TokResult, p.file.Text(sp), sp))

	if p.at(token.Duration) {
		d := p.advance()
		n.Append(syntax.Tok(syntax.TokDuration, strings.TrimSuffix(strings.TrimPrefix(d.Text, "<"), ">"), d.Span))
	}
	return p.expectEOL()
}

// parseSignal: --- SIGCHLD {si_signo=SIGCHLD, ...} ---
// Anything else between dashes ("--- stopped by SIGSTOP ---") is an alert.
func (p *Parser) parseSignal() *syntax.Node {
	sig := p.peekAt(1)
	if !sig.IsIdent() || !strings.HasPrefix(sig.Text, "SIG") || p.peekAt(2).Kind != token.LBrace {
		return p.parseAlert()
	}
	start := p.pos
	p.advance() // ---
	p.advance() // SIGxxx

	info := p.parseStructQuiet()
	if info == nil {
		p.err(diag.SynUnexpectedToken, "malformed signal info after "+sig.Text)
		return nil
	}
	closing := p.peek()
	if !closing.IsOp("---") {
		p.err(diag.SynUnexpectedToken, "expected closing '---' after signal info")
		return nil
	}
	p.advance()
	if !p.expectEOL() {
		return nil
	}
	return syntax.NewNode(syntax.KindSignal, p.spanFrom(start),
		syntax.Tok(syntax.TokSigName, sig.Text, sig.Span),
		syntax.Sub(info),
	)
}

// parseAlert: +++ exited with 0 +++ / --- stopped by SIGSTOP ---.
// The text between the markers is split on blanks into TEXT tokens.
func (p *Parser) parseAlert() *syntax.Node {
	open := p.advance()
	last := len(p.toks) - 2 // последний значимый токен
	inner := source.Span{File: open.Span.File, Start: open.Span.End, End: p.toks[last].Span.End}
	if last > p.pos-1 && p.toks[last].IsOp(open.Text) {
		inner.End = p.toks[last].Span.Start
	}
	p.pos = len(p.toks) - 1

	n := syntax.NewNode(syntax.KindAlert, p.spanFrom(p.pos-1).Cover(open.Span))
	content := p.file.Content[inner.Start:inner.End]
	for i := 0; i < len(content); {
		if content[i] == ' ' || content[i] == '\t' {
			i++
			continue
		}
		j := i
		for j < len(content) && content[j] != ' ' && content[j] != '\t' {
			j++
		}
		sp := source.Span{File: inner.File, Start: inner.Start + uint32(i), End: inner.Start + uint32(j)}
		n.Append(syntax.Tok(syntax.TokText, string(content[i:j]), sp))
		i = j
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
