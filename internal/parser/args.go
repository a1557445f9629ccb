package parser

import (
	"fmt"

	"stracejson/internal/diag"
	"stracejson/internal/source"
	"stracejson/internal/syntax"
	"stracejson/internal/token"
)

func isDelimKind(k token.Kind) bool {
	switch k {
	case token.Comma, token.RParen, token.RBrace, token.RBracket, token.EOF, token.Unfinished:
		return true
	}
	return false
}

// parseArgs разбирает аргументы через запятую до closer, не съедая его.
// Also stops in front of <unfinished ...>.
func (p *Parser) parseArgs(kind syntax.Kind, closer token.Kind) *syntax.Node {
	start := p.pos
	n := syntax.NewNode(kind, p.peek().Span)
	if p.at(closer) || p.at(token.Unfinished) {
		sp := p.peek().Span
		n.Span = source.Span{File: sp.File, Start: sp.Start, End: sp.Start}
		return n
	}
	for {
		arg := p.parseArg()
		if arg == nil {
			return nil
		}
		n.Append(syntax.Sub(arg))
		if !p.at(token.Comma) {
			break
		}
		p.advance()
		if p.at(token.Unfinished) {
			break
		}
	}
	n.Span = p.spanFrom(start)
	return n
}

// parseArg tries the structured shapes first and falls back to a raw
// expression when the structure does not end at a delimiter:
// WIFEXITED(s) && WEXITSTATUS(s) == 0 is one c_expr, not a function.
func (p *Parser) parseArg() *syntax.Node {
	if p.depth < maxNesting {
		p.depth++
		n := p.tryQuiet(func() *syntax.Node {
			n := p.parseStructured()
			if n == nil || !p.atDelim() {
				return nil
			}
			return n
		})
		p.depth--
		if n != nil {
			return n
		}
	}
	return p.parseExpr()
}

// tryQuiet runs fn with diagnostics held back. A nil result or any
// swallowed error rewinds the cursor and yields nil.
func (p *Parser) tryQuiet(fn func() *syntax.Node) *syntax.Node {
	save, saveLast := p.pos, p.lastSpan
	outer := p.quietFail
	p.quiet++
	p.quietFail = false

	n := fn()
	failed := p.quietFail

	p.quiet--
	p.quietFail = outer
	if n == nil || failed {
		p.pos, p.lastSpan = save, saveLast
		return nil
	}
	return n
}

func (p *Parser) parseStructQuiet() *syntax.Node {
	return p.tryQuiet(p.parseStruct)
}

func (p *Parser) parseStructured() *syntax.Node {
	t := p.peek()
	switch t.Kind {
	case token.LBrace:
		return p.parseStruct()
	case token.LBracket:
		return p.parseBracket()
	case token.Tilde:
		if next := p.peekAt(1); next.Kind == token.LBracket && !next.SpaceBefore {
			return p.parseBracket()
		}
	case token.String:
		p.advance()
		return syntax.NewNode(syntax.KindString, t.Span, syntax.Tok(syntax.TokString, t.Text, t.Span))
	case token.Ident, token.Number:
		next := p.peekAt(1)
		switch {
		case next.Kind == token.LParen && !next.SpaceBefore && t.Kind == token.Ident:
			return p.parseFunction()
		case next.Kind == token.Angle:
			return p.parseFdPath()
		case next.Kind == token.Assign && t.Kind == token.Ident:
			return p.parseKeyValue()
		}
	}
	return nil
}

// parseStruct: {key=value, positional, ...}
func (p *Parser) parseStruct() *syntax.Node {
	start := p.pos
	p.advance() // {
	n := syntax.NewNode(syntax.KindStruct, p.toks[start].Span)
	if !p.at(token.RBrace) {
		for {
			if p.at(token.Ellipsis) && isDelimKind(p.peekAt(1).Kind) {
				e := p.advance()
				n.Append(syntax.Tok(syntax.TokEllipsis, e.Text, e.Span))
			} else {
				argStart := p.pos
				arg := p.parseArg()
				if arg == nil {
					return nil
				}
				if e, ok := p.trailingEllipsis(arg, argStart); ok {
					n.Append(syntax.Sub(e))
					last := p.toks[p.pos-1]
					n.Append(syntax.Tok(syntax.TokEllipsis, last.Text, last.Span))
				} else {
					n.Append(syntax.Sub(arg))
				}
			}
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	if !p.expectClose(token.RBrace, p.toks[start].Span, "expected '}' to close the struct") {
		return nil
	}
	n.Span = p.spanFrom(start)
	return n
}

// trailingEllipsis splits a blank-separated "..." off the end of a raw
// member: {B38400 opost isig ...} is a flag list cut short by strace. The
// "abc"... form of a truncated string has no blank and stays whole.
func (p *Parser) trailingEllipsis(arg *syntax.Node, argStart int) (*syntax.Node, bool) {
	last := p.pos - 1
	if arg.Kind != syntax.KindExpr || last <= argStart {
		return nil, false
	}
	if t := p.toks[last]; t.Kind != token.Ellipsis || !t.SpaceBefore {
		return nil, false
	}
	sp := p.toks[argStart].Span.Cover(p.toks[last-1].Span)
	return syntax.NewNode(syntax.KindExpr, sp, syntax.Tok(syntax.TokExpr, p.file.Text(sp), sp)), true
}

func (p *Parser) parseKeyValue() *syntax.Node {
	start := p.pos
	key := p.advance()
	p.advance() // =
	val := p.parseArg()
	if val == nil {
		return nil
	}
	return syntax.NewNode(syntax.KindKeyValue, p.spanFrom(start),
		syntax.Tok(syntax.TokName, key.Text, key.Span),
		syntax.Sub(val),
	)
}

// parseBracket: список [a, b], набор сигналов [CHLD TERM] или ~[RTMIN RT_1].
func (p *Parser) parseBracket() *syntax.Node {
	start := p.pos
	negated := false
	if p.at(token.Tilde) {
		p.advance()
		negated = true
	}
	if p.isSigSet(negated) {
		return p.parseSigSet(start, negated)
	}
	if negated {
		return nil
	}

	open := p.advance()
	list := p.parseArgs(syntax.KindList, token.RBracket)
	if list == nil {
		return nil
	}
	if !p.expectClose(token.RBracket, open.Span, "expected ']' to close the list") {
		return nil
	}
	list.Span = p.spanFrom(start)
	return list
}

// isSigSet looks ahead from '[': only blank-separated names up to ']'.
// A negated set is always a sigset; otherwise every name must look like a
// signal and [] stays an empty list.
func (p *Parser) isSigSet(negated bool) bool {
	names := 0
	for i := 1; ; i++ {
		t := p.peekAt(i)
		switch t.Kind {
		case token.RBracket:
			return negated || names > 0
		case token.Ident:
			if !negated && !isSignalName(t.Text) {
				return false
			}
			names++
		default:
			return false
		}
	}
}

func (p *Parser) parseSigSet(start int, negated bool) *syntax.Node {
	n := syntax.NewNode(syntax.KindSigSet, p.toks[start].Span)
	if negated {
		tilde := p.toks[start]
		n.Append(syntax.Tok(syntax.TokNegated, tilde.Text, tilde.Span))
	}
	p.advance() // [
	for p.at(token.Ident) {
		sig := p.advance()
		n.Append(syntax.Tok(syntax.TokSignal, sig.Text, sig.Span))
	}
	p.advance() // ]
	n.Span = p.spanFrom(start)
	return n
}

func (p *Parser) parseFunction() *syntax.Node {
	start := p.pos
	name := p.advance()
	open := p.advance()
	args := p.parseArgs(syntax.KindArgs, token.RParen)
	if args == nil {
		return nil
	}
	if !p.expectClose(token.RParen, open.Span, "expected ')' to close "+name.Text+"(") {
		return nil
	}
	n := syntax.NewNode(syntax.KindFunction, p.spanFrom(start), syntax.Tok(syntax.TokName, name.Text, name.Span))
	appendArgs(n, args)
	return n
}

// parseFdPath: 3</etc/passwd> (strace -y). The path keeps its escapes.
func (p *Parser) parseFdPath() *syntax.Node {
	start := p.pos
	fd := p.advance()
	ang := p.advance()
	inner := source.Span{File: ang.Span.File, Start: ang.Span.Start + 1, End: ang.Span.End - 1}
	return syntax.NewNode(syntax.KindFdPath, p.spanFrom(start),
		syntax.Tok(syntax.TokFd, fd.Text, fd.Span),
		syntax.Tok(syntax.TokPath, p.file.Text(inner), inner),
	)
}

// parseExpr забирает всё до разделителя верхнего уровня как сырой текст:
// O_RDONLY|O_CLOEXEC, 0x7ffd /* 30 vars */, -1, "abc"...
func (p *Parser) parseExpr() *syntax.Node {
	start := p.pos
	var closers []token.Kind
	for {
		t := p.peek()
		if t.Kind == token.EOF || t.Kind == token.Unfinished {
			break
		}
		if len(closers) == 0 && isDelimKind(t.Kind) {
			break
		}
		switch t.Kind {
		case token.LParen:
			closers = append(closers, token.RParen)
		case token.LBrace:
			closers = append(closers, token.RBrace)
		case token.LBracket:
			closers = append(closers, token.RBracket)
		case token.RParen, token.RBrace, token.RBracket:
			if closers[len(closers)-1] != t.Kind {
				p.report(diag.SynUnexpectedToken, diag.SevError, t.Span, "mismatched "+describe(t)+" in expression")
				return nil
			}
			closers = closers[:len(closers)-1]
		}
		p.advance()
	}

	if len(closers) > 0 {
		p.report(diag.SynUnclosedDelimiter, diag.SevError, p.spanFrom(start),
			fmt.Sprintf("expression is missing %d closing delimiter(s)", len(closers)))
		return nil
	}
	if p.pos == start {
		p.err(diag.SynUnexpectedToken, "expected an argument, found "+describe(p.peek()))
		return nil
	}
	sp := p.spanFrom(start)
	text := p.file.Text(sp)
	return syntax.NewNode(syntax.KindExpr, sp, syntax.Tok(syntax.TokExpr, text, sp))
}
