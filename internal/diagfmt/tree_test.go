package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"stracejson/internal/source"
	"stracejson/internal/syntax"
	"stracejson/internal/token"
)

func sampleTree() *syntax.Node {
	var sp source.Span
	args := syntax.NewNode(syntax.KindArgs, sp,
		syntax.Sub(syntax.NewNode(syntax.KindExpr, sp, syntax.Tok(syntax.TokExpr, "3", sp))),
	)
	call := syntax.NewNode(syntax.KindSyscall, sp,
		syntax.Tok(syntax.TokName, "close", sp),
		syntax.Sub(args),
		syntax.Tok(syntax.TokResult, "0", sp),
	)
	line := syntax.NewNode(syntax.KindLine, sp,
		syntax.Tok(syntax.TokTimestamp, "1.5", sp),
		syntax.Sub(call),
	)
	return syntax.NewNode(syntax.KindLog, sp, syntax.Sub(line))
}

func TestFormatTreePretty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTreePretty(&buf, sampleTree(), nil); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"start",
		"└─ line",
		"   ├─ timestamp \"1.5\"",
		"   └─ syscall",
		"      ├─ name \"close\"",
		"      ├─ syscall_args",
		"      │  └─ c_expr",
		"      │     └─ expr \"3\"",
		"      └─ result \"0\"",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("tree mismatch\n got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatTreePrettyPositions(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.strace", []byte("1.5 close(3) = 0\n"))
	root := syntax.NewNode(syntax.KindLog, source.Span{File: id, Start: 0, End: 16})

	var buf bytes.Buffer
	if err := FormatTreePretty(&buf, root, fs); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "start @1:1-1:17\n" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestFormatTreeJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTreeJSON(&buf, sampleTree()); err != nil {
		t.Fatal(err)
	}
	back, err := syntax.DecodeJSON(&buf)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if back.Kind != syntax.KindLog || len(back.Children) != 1 || !back.Children[0].IsNode(syntax.KindLine) {
		t.Fatalf("decoded tree = %+v", back)
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("tok.strace", []byte("close(3)\n"))
	toks := []token.Token{
		{Kind: token.Ident, Span: source.Span{File: id, Start: 0, End: 5}, Text: "close"},
		{Kind: token.LParen, Span: source.Span{File: id, Start: 5, End: 6}, Text: "("},
		{Kind: token.EOF, Span: source.Span{File: id, Start: 8, End: 8}},
	}

	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "  1: Ident       \"close\" at 1:1-1:6\n") {
		t.Errorf("pretty tokens:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatTokensJSON(&buf, toks); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"kind": "LParen"`) {
		t.Errorf("json tokens:\n%s", buf.String())
	}
}
