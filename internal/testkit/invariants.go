package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"stracejson/internal/source"
	"stracejson/internal/syntax"
)

// CheckTreeInvariants runs a minimal set of invariants on a parsed log:
// 1) root is a Log node whose children are all Line nodes
// 2) every child holds exactly one of Node and Token
// 3) with sf given: spans are well-formed, point at sf, stay within content
// bounds and nest inside the parent span; lines appear in file order
//
// Trees decoded from JSON carry zero spans; pass a nil sf for them.
func CheckTreeInvariants(root *syntax.Node, sf *source.File) error {
	if root == nil {
		return fmt.Errorf("nil root")
	}
	if root.Kind != syntax.KindLog {
		return fmt.Errorf("root kind is %s, want %s", root.Kind, syntax.KindLog)
	}

	var limit uint32
	if sf != nil {
		n, err := safecast.Conv[uint32](len(sf.Content))
		if err != nil {
			return fmt.Errorf("len content overflow: %w", err)
		}
		limit = n
		if err := checkSpan(root.Span, sf.ID, limit); err != nil {
			return fmt.Errorf("root: %w", err)
		}
	}

	var prevEnd uint32
	for i, ch := range root.Children {
		if !ch.IsNode(syntax.KindLine) {
			return fmt.Errorf("root child %d is not a line", i)
		}
		if sf != nil {
			if ch.Node.Span.Start < prevEnd {
				return fmt.Errorf("line %d starts at %d before previous line end %d", i, ch.Node.Span.Start, prevEnd)
			}
			prevEnd = ch.Node.Span.End
		}
	}
	return checkNode(root, sf, limit, "$")
}

func checkNode(n *syntax.Node, sf *source.File, limit uint32, path string) error {
	for i, ch := range n.Children {
		at := fmt.Sprintf("%s/%d", path, i)
		var sp source.Span
		switch {
		case ch.Node != nil && ch.Token != nil:
			return fmt.Errorf("%s: child holds both a node and a token", at)
		case ch.Node != nil:
			if ch.Node.Kind == syntax.KindInvalid {
				return fmt.Errorf("%s: invalid node kind", at)
			}
			sp = ch.Node.Span
		case ch.Token != nil:
			if ch.Token.Type == syntax.TokInvalid {
				return fmt.Errorf("%s: invalid token type", at)
			}
			sp = ch.Token.Span
		default:
			return fmt.Errorf("%s: empty child", at)
		}

		if sf != nil {
			if err := checkSpan(sp, sf.ID, limit); err != nil {
				return fmt.Errorf("%s: %w", at, err)
			}
			if !n.Span.Contains(sp) {
				return fmt.Errorf("%s: span %v is outside parent span %v", at, sp, n.Span)
			}
		}
		if ch.Node != nil {
			if err := checkNode(ch.Node, sf, limit, at); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkSpan(sp source.Span, file source.FileID, limit uint32) error {
	if sp.File != file {
		return fmt.Errorf("span points to different file id: got=%d want=%d", sp.File, file)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("span is inverted: %v", sp)
	}
	if sp.End > limit {
		return fmt.Errorf("span end beyond content: %d > %d", sp.End, limit)
	}
	return nil
}
