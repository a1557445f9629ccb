package syntax

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"stracejson/internal/diag"
	"stracejson/internal/source"
)

var zero source.Span

func TestKindNamesRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", k.String(), got, ok, k)
		}
	}
	if _, ok := ParseKind("nope"); ok {
		t.Fatalf("unknown kind must not parse")
	}
	if k, ok := ParseKind("key_value"); !ok || k != KindKeyValue {
		t.Fatalf("alias key_value = %v, %v", k, ok)
	}
}

func TestTokenTypeCaseInsensitive(t *testing.T) {
	for _, name := range []string{"pid", "PID", "Pid"} {
		if typ, ok := ParseTokenType(name); !ok || typ != TokPid {
			t.Errorf("ParseTokenType(%q) = %v, %v", name, typ, ok)
		}
	}
	if _, ok := ParseTokenType("invalid"); ok {
		t.Fatalf("invalid must not parse")
	}
}

func TestKindClasses(t *testing.T) {
	for _, k := range Kinds() {
		if k.IsBody() && k.IsArgument() {
			t.Errorf("%v is both a body and an argument", k)
		}
	}
	if !KindFdPath.IsArgument() || !KindAlert.IsBody() || KindArgs.IsArgument() {
		t.Fatalf("unexpected classification")
	}
}

func sampleTree() *Node {
	call := NewNode(KindSyscall, zero,
		Tok(TokName, "open", zero),
		Sub(NewNode(KindArgs, zero,
			Sub(NewNode(KindString, zero, Tok(TokString, `"/etc/passwd"`, zero))),
			Sub(NewNode(KindExpr, zero, Tok(TokExpr, "O_RDONLY", zero))),
		)),
		Tok(TokResult, "3", zero),
	)
	line := NewNode(KindLine, zero,
		Tok(TokPid, "12345", zero),
		Tok(TokTimestamp, "1690000000.123456", zero),
		Sub(call),
	)
	return NewNode(KindLog, zero, Sub(line))
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, sampleTree(), ""); err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := DecodeJSON(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var again bytes.Buffer
	if err := EncodeJSON(&again, back, ""); err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	var first bytes.Buffer
	_ = EncodeJSON(&first, sampleTree(), "")
	if first.String() != again.String() {
		t.Fatalf("round trip differs:\n%s\n%s", first.String(), again.String())
	}
}

func TestDecodeWrapsLines(t *testing.T) {
	doc := `[{"kind":"line","children":[{"token":"timestamp","text":"1.5"},{"kind":"alert_body","children":[{"token":"text","text":"exited"}]}]}]`
	root, err := DecodeJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if root.Kind != KindLog || len(root.Children) != 1 || !root.Children[0].IsNode(KindLine) {
		t.Fatalf("unexpected root %+v", root)
	}

	single := `{"kind":"line","children":[{"token":"TIMESTAMP","text":"1.5"}]}`
	root, err = DecodeJSON(strings.NewReader(single))
	if err != nil {
		t.Fatalf("decode single: %v", err)
	}
	if root.Kind != KindLog || len(root.Children) != 1 {
		t.Fatalf("single line not wrapped: %+v", root)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		code diag.Code
		path string
	}{
		{"syntax", `{`, diag.TreeMalformed, "$"},
		{"unknown kind", `{"kind":"start","children":[{"kind":"weird"}]}`, diag.TreeUnknownKind, "$.children[0]"},
		{"bad token", `[{"kind":"line","children":[{"token":"zzz","text":""}]}]`, diag.TreeBadToken, "$[0].children[0]"},
		{"both", `{"kind":"start","token":"pid"}`, diag.TreeMalformed, "$"},
		{"neither", `{"kind":"start","children":[{}]}`, diag.TreeMalformed, "$.children[0]"},
		{"root token", `{"token":"pid","text":"1"}`, diag.TreeMalformed, "$"},
		{"root args", `{"kind":"syscall_args"}`, diag.TreeMalformed, "$"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tc.doc))
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if de.Code != tc.code || de.Path != tc.path {
				t.Fatalf("got %s at %s, want %s at %s", de.Code.ID(), de.Path, tc.code.ID(), tc.path)
			}
		})
	}
}

func TestWalkSkipsSubtrees(t *testing.T) {
	var seen []Kind
	Walk(sampleTree(), func(n *Node) bool {
		seen = append(seen, n.Kind)
		return n.Kind != KindArgs
	})
	want := []Kind{KindLog, KindLine, KindSyscall, KindArgs}
	if len(seen) != len(want) {
		t.Fatalf("seen %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen %v, want %v", seen, want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1690000000.123456", 1690000000.123456, true},
		{"0.000123", 0.000123, true},
		{"42", 42, true},
		{"00:00:01", 1, true},
		{"12:34:56.5", 12*3600 + 34*60 + 56.5, true},
		{"23:59:60.25", 23*3600 + 59*60 + 60.25, true},
		{"24:00:00", 0, false},
		{"12:60:00", 0, false},
		{"12:00", 0, false},
		{"-1.0", 0, false},
		{"NaN", 0, false},
		{"1e3", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseTimestamp(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseTimestamp(%q) = %v; want error", tc.in, got)
		}
	}
}
