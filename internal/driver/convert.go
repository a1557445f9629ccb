package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"stracejson/internal/emit"
	"stracejson/internal/observ"
	"stracejson/internal/source"
	"stracejson/internal/trace"
)

// Env carries the process streams the driver may touch.
type Env struct {
	Stdin io.Reader
	// Warn receives non-fatal driver problems such as a failing cache.
	// nil discards them.
	Warn io.Writer
}

func (e Env) warnf(format string, args ...any) {
	if e.Warn != nil {
		fmt.Fprintf(e.Warn, format+"\n", args...)
	}
}

type ConvertOptions struct {
	Input          Input
	Jobs           int
	MaxDiagnostics int
	Format         emit.Format
	Indent         int
	Cache          *DiskCache // nil disables the output cache
	EnableTimings  bool
	// KeepGoing converts what parsed even when lines had syntax errors.
	// Otherwise such a run writes nothing and returns *SyntaxErrors.
	KeepGoing bool
}

// SyntaxErrors is returned by Convert when the log had error-severity
// diagnostics and KeepGoing was off. The diagnostics are in Parse.Bag.
type SyntaxErrors struct {
	Path    string
	Errors  int
	Skipped int
}

func (e *SyntaxErrors) Error() string {
	return fmt.Sprintf("%s: %d syntax errors, %d lines dropped; no output written (use --keep-going to convert the rest)", e.Path, e.Errors, e.Skipped)
}

// locate prefixes an emit failure with the file path and, when the tree
// came from text, the source line of the failing record.
func locate(pr *ParseResult, err error) error {
	var le *emit.LineError
	if errors.As(err, &le) && !le.Span.Empty() && pr.File != nil && le.Span.File == pr.File.ID {
		start, _ := pr.FileSet.Resolve(le.Span)
		return fmt.Errorf("%s:%d: %w", pr.File.Path, start.Line, err)
	}
	return fmt.Errorf("%s: %w", pr.File.Path, err)
}

type ConvertResult struct {
	// Parse is nil on a cache hit: nothing was parsed.
	Parse    *ParseResult
	Records  int
	CacheHit bool
	Timings  *observ.Report
}

// Convert runs load -> parse -> emit -> encode and writes the encoded
// records to w. Syntax errors stop the run before anything is written
// unless KeepGoing is set; then the lines they dropped are only reported
// in Parse.Bag. A tree that cannot be used at all is always an error.
func Convert(ctx context.Context, path string, w io.Writer, env Env, opts ConvertOptions) (*ConvertResult, error) {
	if opts.Format == "" {
		opts.Format = emit.FormatJSON
	}
	tracer := trace.FromContext(ctx)
	ctx, root := trace.Start(ctx, trace.ScopeDriver, "convert")
	root.WithExtra("path", path)

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	res := &ConvertResult{}
	finish := func(detail string) {
		if timer != nil {
			report := timer.Report()
			res.Timings = &report
			if res.Parse != nil {
				appendTimingDiagnostic(res.Parse.Bag, timingPayload{Path: path, TotalMS: report.TotalMS, Phases: report.Phases})
			}
		}
		root.End(detail)
	}

	loadIdx := timer.Begin("load")
	_, loadSpan := trace.Start(ctx, trace.ScopePass, "load")
	fs := source.NewFileSet()
	id, err := Load(fs, path, env.Stdin)
	loadSpan.End("")
	timer.End(loadIdx, path)
	if err != nil {
		finish("error")
		return nil, err
	}

	var key Digest
	if opts.Cache != nil {
		key = OutputKey(fs.Get(id).Hash, opts.Input, opts.Format, opts.Indent)
		cacheIdx := timer.Begin("cache")
		var hit DiskPayload
		ok, err := opts.Cache.Get(key, &hit)
		timer.End(cacheIdx, strconv.FormatBool(ok))
		switch {
		case err != nil:
			env.warnf("cache: %v", err)
		case ok:
			trace.Point(tracer, trace.ScopePass, "cache", "hit", root.ID())
			if _, err := w.Write(hit.Output); err != nil {
				finish("error")
				return nil, fmt.Errorf("write output: %w", err)
			}
			res.CacheHit = true
			res.Records = hit.Records
			finish("cache hit")
			return res, nil
		}
	}

	parseIdx := timer.Begin("parse")
	pr, err := Parse(ctx, fs, id, ParseOptions{Input: opts.Input, MaxDiagnostics: opts.MaxDiagnostics})
	timer.End(parseIdx, "")
	if err != nil {
		finish("error")
		return nil, err
	}
	res.Parse = pr
	if pr.Root == nil {
		finish("error")
		return res, fmt.Errorf("%s: input is not a usable syntax tree", pr.File.Path)
	}
	if pr.Bag.HasErrors() && !opts.KeepGoing {
		finish("syntax errors")
		return res, &SyntaxErrors{Path: pr.File.Path, Errors: pr.Bag.Errors(), Skipped: pr.Skipped}
	}

	emitIdx := timer.Begin("emit")
	emitCtx, emitSpan := trace.Start(ctx, trace.ScopePass, "emit")
	lines, err := emit.Emit(emitCtx, pr.Root, emit.Options{Jobs: opts.Jobs})
	emitSpan.End("")
	timer.End(emitIdx, strconv.Itoa(len(lines))+" records")
	if err != nil {
		finish("error")
		return res, locate(pr, err)
	}
	res.Records = len(lines)

	encIdx := timer.Begin("encode")
	_, encSpan := trace.Start(ctx, trace.ScopePass, "encode")
	encSpan.WithExtra("format", string(opts.Format))
	var buf bytes.Buffer
	err = emit.Encode(&buf, lines, opts.Format, opts.Indent)
	encSpan.End("")
	timer.End(encIdx, string(opts.Format))
	if err != nil {
		finish("error")
		return res, err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		finish("error")
		return res, fmt.Errorf("write output: %w", err)
	}

	// кешируем только чистый разбор: иначе предупреждения пропадут при повторе
	if opts.Cache != nil && pr.Bag.Len() == 0 {
		err := opts.Cache.Put(key, &DiskPayload{
			Format:  string(opts.Format),
			Indent:  opts.Indent,
			Records: len(lines),
			Output:  buf.Bytes(),
		})
		if err != nil {
			env.warnf("cache: %v", err)
		}
	}

	finish("")
	return res, nil
}
