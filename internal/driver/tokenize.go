package driver

import (
	"context"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"stracejson/internal/diag"
	"stracejson/internal/lexer"
	"stracejson/internal/source"
	"stracejson/internal/token"
	"stracejson/internal/trace"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token // каждая непустая строка заканчивается своим EOF
	Bag     *diag.Bag
}

// Tokenize lexes a log the way the parser sees it: one line at a time.
func Tokenize(ctx context.Context, path string, env Env, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := Load(fs, path, env.Stdin)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	_, span := trace.Start(ctx, trace.ScopePass, "tokenize")

	bag := diag.NewBag(maxDiagnostics)
	opts := lexer.Options{Reporter: diag.NewDedupReporter(diag.BagReporter{Bag: bag})}

	count, err := safecast.Conv[uint32](file.LineCount())
	if err != nil {
		span.Fail(err)
		return nil, fmt.Errorf("line count overflow: %w", err)
	}

	var tokens []token.Token
	for n := uint32(1); n <= count; n++ {
		if err := ctx.Err(); err != nil {
			span.End("canceled")
			return nil, err
		}
		lx := lexer.NewLine(file, file.LineSpan(n), opts)
		first := true
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				if !first {
					tokens = append(tokens, tok)
				}
				break
			}
			first = false
			tokens = append(tokens, tok)
		}
	}

	span.WithExtra("tokens", strconv.Itoa(len(tokens))).End("")
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
