package token

import (
	"stracejson/internal/source"
)

// Token represents a single lexed token with its location.
type Token struct {
	Kind        Kind
	Span        source.Span
	Text        string
	SpaceBefore bool
}

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsOp reports whether the token is an Operator with the given text.
func (t Token) IsOp(text string) bool {
	return t.Kind == Operator && t.Text == text
}
