package syntax

import (
	"encoding/json"
	"fmt"
	"io"

	"stracejson/internal/diag"
)

// jsonChild is the wire form of a child: a node has Kind (+Children),
// a token has Token and Text.
type jsonChild struct {
	Kind     *string     `json:"kind,omitempty"`
	Token    *string     `json:"token,omitempty"`
	Text     *string     `json:"text,omitempty"`
	Children []jsonChild `json:"children,omitempty"`
}

// DecodeError describes a tree document that breaks the node contract.
// Path points at the offending child, e.g. "$.children[3].children[1]".
type DecodeError struct {
	Path string
	Code diag.Code
	Msg  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s at %s", e.Code.ID(), e.Msg, e.Path)
}

// DecodeJSON reads a tree dumped by an external grammar. The document is
// either a node of kind start/log, a single line node, or a bare array of
// line nodes; the latter two are wrapped into a Log root. Spans are zero.
func DecodeJSON(r io.Reader) (*Node, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &DecodeError{Path: "$", Code: diag.TreeMalformed, Msg: err.Error()}
	}

	var lines []jsonChild
	if err := json.Unmarshal(raw, &lines); err == nil {
		root := &Node{Kind: KindLog}
		for i := range lines {
			ch, err := decodeChild(&lines[i], fmt.Sprintf("$[%d]", i))
			if err != nil {
				return nil, err
			}
			root.Children = append(root.Children, ch)
		}
		return root, nil
	}

	var top jsonChild
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &DecodeError{Path: "$", Code: diag.TreeMalformed, Msg: err.Error()}
	}
	ch, err := decodeChild(&top, "$")
	if err != nil {
		return nil, err
	}
	if ch.Node == nil {
		return nil, &DecodeError{Path: "$", Code: diag.TreeMalformed, Msg: "document root is a token"}
	}
	if ch.Node.Kind == KindLine {
		return &Node{Kind: KindLog, Children: []Child{ch}}, nil
	}
	if ch.Node.Kind != KindLog {
		return nil, &DecodeError{Path: "$", Code: diag.TreeMalformed, Msg: "document root is " + ch.Node.Kind.String()}
	}
	return ch.Node, nil
}

func decodeChild(jc *jsonChild, path string) (Child, error) {
	switch {
	case jc.Kind != nil && jc.Token != nil:
		return Child{}, &DecodeError{Path: path, Code: diag.TreeMalformed, Msg: "child has both kind and token"}
	case jc.Token != nil:
		typ, ok := ParseTokenType(*jc.Token)
		if !ok {
			return Child{}, &DecodeError{Path: path, Code: diag.TreeBadToken, Msg: fmt.Sprintf("unknown token type %q", *jc.Token)}
		}
		if len(jc.Children) != 0 {
			return Child{}, &DecodeError{Path: path, Code: diag.TreeMalformed, Msg: "token has children"}
		}
		text := ""
		if jc.Text != nil {
			text = *jc.Text
		}
		return Child{Token: &Token{Type: typ, Text: text}}, nil
	case jc.Kind != nil:
		kind, ok := ParseKind(*jc.Kind)
		if !ok {
			return Child{}, &DecodeError{Path: path, Code: diag.TreeUnknownKind, Msg: fmt.Sprintf("unknown node kind %q", *jc.Kind)}
		}
		n := &Node{Kind: kind, Children: make([]Child, 0, len(jc.Children))}
		for i := range jc.Children {
			ch, err := decodeChild(&jc.Children[i], fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return Child{}, err
			}
			n.Children = append(n.Children, ch)
		}
		return Child{Node: n}, nil
	}
	return Child{}, &DecodeError{Path: path, Code: diag.TreeMalformed, Msg: "child has neither kind nor token"}
}

// EncodeJSON writes n in the form DecodeJSON reads.
func EncodeJSON(w io.Writer, n *Node, indent string) error {
	enc := json.NewEncoder(w)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(encodeNode(n))
}

func encodeNode(n *Node) jsonChild {
	kind := n.Kind.String()
	out := jsonChild{Kind: &kind, Children: make([]jsonChild, 0, len(n.Children))}
	for _, ch := range n.Children {
		switch {
		case ch.Node != nil:
			out.Children = append(out.Children, encodeNode(ch.Node))
		case ch.Token != nil:
			typ := ch.Token.Type.String()
			text := ch.Token.Text
			out.Children = append(out.Children, jsonChild{Token: &typ, Text: &text})
		}
	}
	return out
}
