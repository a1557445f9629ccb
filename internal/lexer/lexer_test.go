package lexer

import (
	"testing"

	"stracejson/internal/diag"
	"stracejson/internal/source"
	"stracejson/internal/token"
)

func lexAll(t *testing.T, src string) ([]token.Token, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.log", []byte(src))
	bag := diag.NewBag(16)
	lx := New(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			break
		}
		toks = append(toks, tok)
		if len(toks) > 1000 {
			t.Fatalf("lexer does not terminate")
		}
	}
	return toks, bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func expectKinds(t *testing.T, src string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, bag := lexAll(t, src)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got kinds %v, want %v", src, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %s (%q), want %s", src, i, got[i], toks[i].Text, want[i])
		}
	}
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics: %+v", src, bag.Items())
	}
	return toks
}

func TestLexSimpleCall(t *testing.T) {
	toks := expectKinds(t, `open("/etc/passwd", O_RDONLY) = 3`,
		token.Ident, token.LParen, token.String, token.Comma, token.Ident, token.RParen, token.Assign, token.Number)
	if toks[2].Text != `"/etc/passwd"` {
		t.Fatalf("string text = %q", toks[2].Text)
	}
	if !toks[4].SpaceBefore || toks[1].SpaceBefore {
		t.Fatalf("SpaceBefore not tracked")
	}
}

func TestLexTruncatedString(t *testing.T) {
	toks := expectKinds(t, `"abc"..., 32`, token.String, token.Comma, token.Number)
	if toks[0].Text != `"abc"...` {
		t.Fatalf("truncation marker must stay on the string: %q", toks[0].Text)
	}
}

func TestLexEscapedQuote(t *testing.T) {
	toks := expectKinds(t, `"a\"b"`, token.String)
	if toks[0].Text != `"a\"b"` {
		t.Fatalf("text = %q", toks[0].Text)
	}
}

func TestLexAngleForms(t *testing.T) {
	expectKinds(t, `<... read resumed>"x", 1) = 1`,
		token.ResumedTag, token.String, token.Comma, token.Number, token.RParen, token.Assign, token.Number)
	expectKinds(t, `read(3, <unfinished ...>`,
		token.Ident, token.LParen, token.Number, token.Comma, token.Unfinished)
	toks := expectKinds(t, `fstat(3</etc/ld.so.cache>, {st_size=1}) = 0 <0.000012>`,
		token.Ident, token.LParen, token.Number, token.Angle, token.Comma,
		token.LBrace, token.Ident, token.Assign, token.Number, token.RBrace, token.RParen,
		token.Assign, token.Number, token.Duration)
	if toks[3].Text != "</etc/ld.so.cache>" {
		t.Fatalf("angle text = %q", toks[3].Text)
	}
	if toks[13].Text != "<0.000012>" {
		t.Fatalf("duration text = %q", toks[13].Text)
	}
}

func TestLexSocketAnnotation(t *testing.T) {
	toks := expectKinds(t, `5<TCP:[127.0.0.1:80->127.0.0.1:5000]>`, token.Number, token.Angle)
	if toks[1].Text != "<TCP:[127.0.0.1:80->127.0.0.1:5000]>" {
		t.Fatalf("angle text = %q", toks[1].Text)
	}
}

func TestLexLessThanIsOperator(t *testing.T) {
	expectKinds(t, `a < b`, token.Ident, token.Operator, token.Ident)
}

func TestLexCommentAndEllipsis(t *testing.T) {
	expectKinds(t, `[/* 30 vars */], {a=1, ...}`,
		token.LBracket, token.Comment, token.RBracket, token.Comma,
		token.LBrace, token.Ident, token.Assign, token.Number, token.Comma, token.Ellipsis, token.RBrace)
}

func TestLexOperators(t *testing.T) {
	toks := expectKinds(t, `S_IFREG|0644, a==b, ~[INT]`,
		token.Ident, token.Operator, token.Number, token.Comma,
		token.Ident, token.Operator, token.Ident, token.Comma,
		token.Tilde, token.LBracket, token.Ident, token.RBracket)
	if toks[5].Text != "==" {
		t.Fatalf("== text = %q", toks[5].Text)
	}
}

func TestLexUnterminatedStringReports(t *testing.T) {
	toks, bag := lexAll(t, `write(1, "abc`)
	if toks[len(toks)-1].Kind != token.String {
		t.Fatalf("unterminated string still yields a String token")
	}
	if !bag.HasErrors() || bag.Items()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected LexUnterminatedString, got %+v", bag.Items())
	}
}

func TestNewLineStaysInsideLine(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("t.log", []byte("a(\"x\nb)")))
	lx := NewLine(f, f.LineSpan(1), Options{})
	var n int
	for tok := lx.Next(); tok.Kind != token.EOF; tok = lx.Next() {
		n++
	}
	if n != 3 {
		t.Fatalf("expected 3 tokens on the first line, got %d", n)
	}
}
