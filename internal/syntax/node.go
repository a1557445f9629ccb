package syntax

import (
	"stracejson/internal/source"
)

// Token is a captured piece of text.
type Token struct {
	Type TokenType
	Text string
	Span source.Span
}

// Child is either a Token or a Node; exactly one is set.
type Child struct {
	Node  *Node
	Token *Token
}

// Node is one rule match.
type Node struct {
	Kind     Kind
	Span     source.Span
	Children []Child
}

// NewNode builds a node.
func NewNode(kind Kind, span source.Span, children ...Child) *Node {
	return &Node{Kind: kind, Span: span, Children: children}
}

// Tok wraps a token as a child.
func Tok(typ TokenType, text string, span source.Span) Child {
	return Child{Token: &Token{Type: typ, Text: text, Span: span}}
}

// Sub wraps a node as a child.
func Sub(n *Node) Child {
	return Child{Node: n}
}

// IsToken reports whether the child is a token of type typ.
func (c Child) IsToken(typ TokenType) bool {
	return c.Token != nil && c.Token.Type == typ
}

// IsNode reports whether the child is a node of kind k.
func (c Child) IsNode(k Kind) bool {
	return c.Node != nil && c.Node.Kind == k
}

// Append adds children to n.
func (n *Node) Append(children ...Child) {
	n.Children = append(n.Children, children...)
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, ch := range n.Children {
		if ch.Node != nil {
			Walk(ch.Node, fn)
		}
	}
}
