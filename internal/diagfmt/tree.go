package diagfmt

import (
	"fmt"
	"io"

	"stracejson/internal/source"
	"stracejson/internal/syntax"
)

// FormatTreePretty печатает дерево разбора с соединителями ├─ └─ │.
// fs может быть nil, тогда позиции не печатаются.
func FormatTreePretty(w io.Writer, root *syntax.Node, fs *source.FileSet) error {
	if root == nil {
		_, err := fmt.Fprintln(w, "<nil>")
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", root.Kind, spanSuffix(fs, root.Span)); err != nil {
		return err
	}
	return writeChildren(w, root, "", fs)
}

func writeChildren(w io.Writer, n *syntax.Node, prefix string, fs *source.FileSet) error {
	for i, ch := range n.Children {
		last := i == len(n.Children)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		switch {
		case ch.Node != nil:
			if _, err := fmt.Fprintf(w, "%s%s%s%s\n", prefix, branch, ch.Node.Kind, spanSuffix(fs, ch.Node.Span)); err != nil {
				return err
			}
			if err := writeChildren(w, ch.Node, prefix+next, fs); err != nil {
				return err
			}
		case ch.Token != nil:
			if _, err := fmt.Fprintf(w, "%s%s%s %q\n", prefix, branch, ch.Token.Type, ch.Token.Text); err != nil {
				return err
			}
		}
	}
	return nil
}

func spanSuffix(fs *source.FileSet, sp source.Span) string {
	if fs == nil || fs.Len() == 0 || int(sp.File) >= fs.Len() {
		return ""
	}
	start, end := fs.Resolve(sp)
	return fmt.Sprintf(" @%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
}

// FormatTreeJSON пишет дерево в том виде, который читает --input tree.
func FormatTreeJSON(w io.Writer, root *syntax.Node) error {
	return syntax.EncodeJSON(w, root, "  ")
}
