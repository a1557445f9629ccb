package testkit

import (
	"strings"
	"testing"

	"stracejson/internal/diag"
	"stracejson/internal/parser"
	"stracejson/internal/source"
	"stracejson/internal/syntax"
)

const sample = `12345 1690000000.123456 open("/etc/passwd", O_RDONLY) = 3
[pid 42] 12:00:01.5 read(3</etc/passwd>, "root:x:0:0"..., 4096) = 4096 <0.000012>
42 1690000000.2 wait4(-1, <unfinished ...>
42 1690000000.3 <... wait4 resumed>, [{WIFEXITED(s) && WEXITSTATUS(s) == 0}], 0, NULL) = 43
1690000000.4 rt_sigprocmask(SIG_BLOCK, ~[RTMIN RT_1], [CHLD], 8) = 0
1690000000.5 --- SIGCHLD {si_signo=SIGCHLD, si_code=CLD_EXITED, si_pid=43, ...} ---
1690000000.6 +++ exited with 0 +++
`

func TestParsedTreeHoldsInvariants(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("sample.strace", []byte(sample))
	bag := diag.NewBag(20)
	res := parser.ParseFile(fs, id, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	if err := CheckTreeInvariants(res.Root, fs.Get(id)); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestDecodedTreeStructuralOnly(t *testing.T) {
	root, err := syntax.DecodeJSON(strings.NewReader(`[{"kind":"line","children":[{"token":"timestamp","text":"1.5"}]}]`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if err := CheckTreeInvariants(root, nil); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestInvariantViolations(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("v.strace", []byte("1.5 close(3) = 0\n"))
	sf := fs.Get(id)
	in := source.Span{File: id, Start: 0, End: 16}

	tests := []struct {
		name string
		root *syntax.Node
		sf   *source.File
	}{
		{"nil root", nil, nil},
		{"wrong root kind", syntax.NewNode(syntax.KindLine, in), nil},
		{"non-line child", syntax.NewNode(syntax.KindLog, in, syntax.Tok(syntax.TokText, "x", in)), nil},
		{"empty child", syntax.NewNode(syntax.KindLog, in, syntax.Child{}), nil},
		{"span beyond content", syntax.NewNode(syntax.KindLog, source.Span{File: id, Start: 0, End: 99}), sf},
		{
			"child outside parent",
			syntax.NewNode(syntax.KindLog, in, syntax.Sub(syntax.NewNode(syntax.KindLine, source.Span{File: id, Start: 4, End: 8},
				syntax.Tok(syntax.TokTimestamp, "1.5", source.Span{File: id, Start: 0, End: 3})))),
			sf,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckTreeInvariants(tt.root, tt.sf); err == nil {
				t.Fatal("expected an invariant violation")
			}
		})
	}
}
