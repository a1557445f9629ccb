// Package emit turns a parsed log tree into ordered trace records.
package emit

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"stracejson/internal/model"
	"stracejson/internal/source"
	"stracejson/internal/syntax"
	"stracejson/internal/trace"
	"stracejson/internal/transform"
)

// Options configures Emit.
type Options struct {
	// Jobs bounds the number of lines converted at once. Zero or less means
	// GOMAXPROCS; 1 converts sequentially on the calling goroutine.
	Jobs int
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

// LineError wraps the failure of one line. Index counts Line nodes in the
// tree, which differs from the source line once the parser has dropped
// lines; Span locates the line in the source and is zero for trees read
// from JSON.
type LineError struct {
	Index int
	Span  source.Span
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Emit converts every line of a Log tree. Records come back in input order
// whatever the pool size. If lines fail, the error of the lowest-indexed
// one is returned, so the outcome does not depend on scheduling.
func Emit(ctx context.Context, root *syntax.Node, opts Options) ([]model.TraceLine, error) {
	lines, err := logLines(root)
	if err != nil {
		return nil, err
	}

	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID
	results := make([]model.TraceLine, len(lines))
	errs := make([]error, len(lines))

	// firstBad: наименьший индекс упавшей строки; строки правее не нужны
	var firstBad atomic.Int64
	firstBad.Store(int64(len(lines)))

	convert := func(i int) {
		if int64(i) > firstBad.Load() {
			return
		}
		span := trace.Begin(tracer, trace.ScopeLine, "line", parent).WithExtra("index", strconv.Itoa(i))
		rec, err := transform.Line(i, lines[i])
		if err != nil {
			span.Fail(err)
			errs[i] = err
			lowerTo(&firstBad, int64(i))
			return
		}
		span.End(string(rec.Type()))
		results[i] = rec
	}

	if opts.jobs() == 1 {
		for i := range lines {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			convert(i)
			if errs[i] != nil {
				break
			}
		}
	} else {
		var g errgroup.Group
		g.SetLimit(opts.jobs())
		for i := range lines {
			if ctx.Err() != nil || int64(i) > firstBad.Load() {
				break
			}
			g.Go(func() error {
				convert(i)
				return nil
			})
		}
		_ = g.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	for i, err := range errs {
		if err != nil {
			return nil, &LineError{Index: i, Span: lines[i].Span, Err: err}
		}
	}
	return results, nil
}

func lowerTo(v *atomic.Int64, n int64) {
	for {
		cur := v.Load()
		if n >= cur || v.CompareAndSwap(cur, n) {
			return
		}
	}
}

// logLines checks the root and returns its Line children.
func logLines(root *syntax.Node) ([]*syntax.Node, error) {
	if root == nil {
		return nil, &transform.ShapeError{Kind: syntax.KindInvalid, Reason: "nil tree"}
	}
	if root.Kind != syntax.KindLog {
		return nil, &transform.ShapeError{Kind: root.Kind, Span: root.Span, Reason: "expected a log root"}
	}
	lines := make([]*syntax.Node, 0, len(root.Children))
	for i, ch := range root.Children {
		if ch.Node == nil {
			return nil, &transform.ShapeError{Kind: root.Kind, Span: root.Span, Reason: fmt.Sprintf("child %d is a token", i)}
		}
		lines = append(lines, ch.Node)
	}
	return lines, nil
}
