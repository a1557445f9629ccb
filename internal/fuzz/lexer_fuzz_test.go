package fuzztests

import (
	"testing"

	"stracejson/internal/diag"
	"stracejson/internal/lexer"
	"stracejson/internal/source"
	"stracejson/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.strace", input)
		file := fs.Get(fileID)

		bag := diag.NewBag(64)
		reporter := diag.BagReporter{Bag: bag}
		for n := 1; n <= file.LineCount(); n++ {
			line := file.LineSpan(uint32(n)) //nolint:gosec // bounded by LineCount
			lx := lexer.NewLine(file, line, lexer.Options{Reporter: reporter})
			prev := line.Start
			for {
				tok := lx.Next()
				if !line.Contains(tok.Span) {
					t.Fatalf("token %s %v escapes line %v", tok.Kind, tok.Span, line)
				}
				if tok.Kind == token.EOF {
					break
				}
				if tok.Span.Start < prev || tok.Span.Empty() {
					t.Fatalf("lexer did not advance: %s %v after %d", tok.Kind, tok.Span, prev)
				}
				prev = tok.Span.End
			}
		}
	})
}
