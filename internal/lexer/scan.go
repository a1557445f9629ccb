package lexer

import (
	"stracejson/internal/diag"
	"stracejson/internal/token"
)

func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() && isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	return lx.make(token.Ident, start)
}

// scanNumber is deliberately loose: 0x7ffd, 1690000000.123456, 0644, 1e-3.
// A dot is only taken when a digit follows, so "3..." stays Number+Ellipsis.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isIdentContinueByte(b) {
			lx.cursor.Bump()
			continue
		}
		if b == '.' {
			_, b1, ok := lx.cursor.Peek2()
			if ok && isDec(b1) {
				lx.cursor.Bump()
				continue
			}
		}
		break
	}
	return lx.make(token.Number, start)
}

// scanString reads "..." honouring backslash escapes. strace marks a
// truncated buffer with a trailing ..., which stays part of the token.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == '"' {
			if lx.cursor.HasPrefix("...") {
				lx.cursor.Off += 3
			}
			return lx.make(token.String, start)
		}
	}
	tok := lx.make(token.String, start)
	lx.errLex(diag.LexUnterminatedString, tok.Span, "unterminated string literal")
	return tok
}

func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Off += 2
	for !lx.cursor.EOF() {
		if lx.cursor.HasPrefix("*/") {
			lx.cursor.Off += 2
			return lx.make(token.Comment, start)
		}
		lx.cursor.Bump()
	}
	tok := lx.make(token.Comment, start)
	lx.errLex(diag.LexUnterminatedComment, tok.Span, "unterminated comment")
	return tok
}

// scanAngle разбирает всё, что начинается с '<':
//   - <unfinished ...> / <detached ...>
//   - <... name resumed>
//   - 3</etc/passwd>, AT_FDCWD</home>, 5<TCP:[1.2.3.4:80->5.6.7.8:99]> (no blank before)
//   - <0.000123> after a result (blank before)
//
// Anything else is an ordinary operator.
func (lx *Lexer) scanAngle(spaced bool) token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.HasPrefix("<unfinished ...>") || lx.cursor.HasPrefix("<detached ...>") {
		lx.cursor.Off += uint32(lx.cursor.IndexByte('>') + 1)
		return lx.make(token.Unfinished, start)
	}

	if lx.cursor.HasPrefix("<... ") {
		end := lx.cursor.IndexByte('>')
		if end < 0 {
			lx.cursor.Off = lx.cursor.limit()
			tok := lx.make(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedAngle, tok.Span, "unterminated resumed marker")
			return tok
		}
		lx.cursor.Off += uint32(end + 1)
		return lx.make(token.ResumedTag, start)
	}

	glued := !spaced && lx.prevAt == lx.cursor.Off && (lx.prev == token.Number || lx.prev == token.Ident)
	if glued {
		if lx.scanAnnotation() {
			return lx.make(token.Angle, start)
		}
		// a < b or a path cut off at the end of the line: plain operator
		lx.cursor.Reset(start)
		return lx.scanPunct()
	}

	if spaced && lx.scanDuration() {
		return lx.make(token.Duration, start)
	}
	lx.cursor.Reset(start)
	return lx.scanPunct()
}

// scanAnnotation consumes <...> tracking [] nesting and skipping "->",
// which socket annotations use inside the brackets.
func (lx *Lexer) scanAnnotation() bool {
	lx.cursor.Bump() // '<'
	depth := 0
	var prev byte
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		switch {
		case b == '[':
			depth++
		case b == ']' && depth > 0:
			depth--
		case b == '>' && depth == 0 && prev != '-':
			return true
		}
		prev = b
	}
	return false
}

func (lx *Lexer) scanDuration() bool {
	mark := lx.cursor.Mark()
	lx.cursor.Bump() // '<'
	digits := 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if isDec(b) {
			digits++
			lx.cursor.Bump()
			continue
		}
		if b == '.' {
			lx.cursor.Bump()
			continue
		}
		break
	}
	if digits > 0 && lx.cursor.Eat('>') {
		return true
	}
	lx.cursor.Reset(mark)
	return false
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	b := lx.cursor.Bump()
	switch b {
	case '(':
		return lx.make(token.LParen, start)
	case ')':
		return lx.make(token.RParen, start)
	case '{':
		return lx.make(token.LBrace, start)
	case '}':
		return lx.make(token.RBrace, start)
	case '[':
		return lx.make(token.LBracket, start)
	case ']':
		return lx.make(token.RBracket, start)
	case ',':
		return lx.make(token.Comma, start)
	case '~':
		return lx.make(token.Tilde, start)
	case '=':
		if lx.cursor.Peek() != '=' {
			return lx.make(token.Assign, start)
		}
	}

	if isOpByte(b) {
		for !lx.cursor.EOF() {
			nb := lx.cursor.Peek()
			if !isOpByte(nb) || lx.cursor.HasPrefix("...") || lx.cursor.HasPrefix("/*") {
				break
			}
			lx.cursor.Bump()
		}
		return lx.make(token.Operator, start)
	}

	if b < 0x20 || b == 0x7f {
		tok := lx.make(token.Invalid, start)
		lx.errLex(diag.LexUnknownChar, tok.Span, "unexpected control character")
		return tok
	}

	// UTF-8 continuation bytes and other stray characters travel as one
	// operator so raw expressions stay lossless.
	for !lx.cursor.EOF() && lx.cursor.Peek() >= 0x80 {
		lx.cursor.Bump()
	}
	return lx.make(token.Operator, start)
}
