package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"stracejson/internal/diag"
	"stracejson/internal/parser"
	"stracejson/internal/source"
	"stracejson/internal/syntax"
	"stracejson/internal/trace"
)

// Input selects how a log file is read.
type Input string

const (
	InputText Input = "text" // raw strace output
	InputTree Input = "tree" // a syntax tree dumped as JSON
)

// ParseInput validates an input kind name.
func ParseInput(s string) (Input, error) {
	switch Input(s) {
	case InputText, "":
		return InputText, nil
	case InputTree:
		return InputTree, nil
	}
	return "", fmt.Errorf("unknown input kind %q (expected: text|tree)", s)
}

type ParseOptions struct {
	Input          Input
	MaxDiagnostics int
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Root    *syntax.Node // nil when a tree document could not be decoded
	Bag     *diag.Bag
	Lines   int // non-blank input lines (text input)
	Skipped int // lines left out of Root because of errors
}

// Parse turns a loaded file into a Log tree. Problems with the input are
// diagnostics in the bag, not errors.
func Parse(ctx context.Context, fs *source.FileSet, id source.FileID, opts ParseOptions) (*ParseResult, error) {
	_, span := trace.Start(ctx, trace.ScopePass, "parse")

	file := fs.Get(id)
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := &ParseResult{FileSet: fs, File: file, Bag: bag}

	switch opts.Input {
	case InputTree:
		root, err := syntax.DecodeJSON(bytes.NewReader(file.Content))
		if err != nil {
			var de *syntax.DecodeError
			if !errors.As(err, &de) {
				span.Fail(err)
				return nil, fmt.Errorf("%s: %w", file.Path, err)
			}
			bag.Add(diag.New(diag.SevError, de.Code, source.Span{File: id}, de.Msg+" at "+de.Path))
			span.End("bad tree")
			return res, nil
		}
		res.Root = root
		res.Lines = len(root.Children)

	case InputText, "":
		maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
		if err != nil {
			span.Fail(err)
			return nil, err
		}
		pr := parser.ParseFile(fs, id, parser.Options{
			Reporter:  diag.NewDedupReporter(&diag.BagReporter{Bag: bag}),
			MaxErrors: maxErrors,
		})
		res.Root = pr.Root
		res.Lines = pr.Lines
		res.Skipped = pr.Skipped

	default:
		span.End("error")
		return nil, fmt.Errorf("unknown input kind %q", opts.Input)
	}

	span.WithExtra("lines", strconv.Itoa(res.Lines)).WithExtra("skipped", strconv.Itoa(res.Skipped)).End("")
	return res, nil
}

// ParsePath loads and parses one file ("-" for stdin).
func ParsePath(ctx context.Context, path string, env Env, opts ParseOptions) (*ParseResult, error) {
	fs := source.NewFileSet()
	id, err := Load(fs, path, env.Stdin)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, fs, id, opts)
}
