package parser

import (
	"fmt"
	"strings"
	"testing"

	"stracejson/internal/diag"
	"stracejson/internal/source"
	"stracejson/internal/syntax"
)

func parseText(text string) Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.strace", []byte(text))
	bag := diag.NewBag(100)
	return ParseFile(fs, id, Options{Reporter: &diag.BagReporter{Bag: bag}})
}

// sexpr renders a node compactly: (kind token:text (child ...)).
func sexpr(n *syntax.Node) string {
	var sb strings.Builder
	writeSexpr(&sb, n)
	return sb.String()
}

func writeSexpr(sb *strings.Builder, n *syntax.Node) {
	sb.WriteString("(")
	sb.WriteString(n.Kind.String())
	for _, ch := range n.Children {
		sb.WriteString(" ")
		if ch.Node != nil {
			writeSexpr(sb, ch.Node)
			continue
		}
		fmt.Fprintf(sb, "%s:%s", ch.Token.Type, ch.Token.Text)
	}
	sb.WriteString(")")
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func parseOpts(t *testing.T, text string, maxErrors uint) Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.strace", []byte(text))
	bag := diag.NewBag(100)
	return ParseFile(fs, id, Options{MaxErrors: maxErrors, Reporter: diag.BagReporter{Bag: bag}})
}
