package transform

import (
	"fmt"

	"stracejson/internal/source"
	"stracejson/internal/syntax"
)

// ShapeError reports a tree that breaks the node contract, e.g. a struct
// child that is neither a field nor an argument.
type ShapeError struct {
	Kind   syntax.Kind
	Span   source.Span // zero for trees read from JSON
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("malformed %s node: %s", e.Kind, e.Reason)
}

func shapef(n *syntax.Node, format string, args ...any) *ShapeError {
	return &ShapeError{Kind: n.Kind, Span: n.Span, Reason: fmt.Sprintf(format, args...)}
}

// ClassificationError reports a line whose converted body is not one of
// the record shapes.
type ClassificationError struct {
	Line int         // 0-based index among the tree's Line nodes, not a source line
	Kind syntax.Kind // kind of the offending body node, KindInvalid if there was none
	Got  string      // Go type of the converted body
}

func (e *ClassificationError) Error() string {
	if e.Kind == syntax.KindInvalid {
		return fmt.Sprintf("body is not a trace record (got %s)", e.Got)
	}
	return fmt.Sprintf("%s body is not a trace record (got %s)", e.Kind, e.Got)
}
