package driver

import (
	"context"

	"stracejson/internal/emit"
	"stracejson/internal/trace"
)

type CheckResult struct {
	Parse   *ParseResult
	Records int
}

// Check parses a log and runs the transform over it without encoding.
// Syntax problems stay in Parse.Bag; a transform failure is an error.
func Check(ctx context.Context, path string, env Env, opts ParseOptions, jobs int) (*CheckResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check")
	span.WithExtra("path", path)

	pr, err := ParsePath(ctx, path, env, opts)
	if err != nil {
		span.Fail(err)
		return nil, err
	}
	res := &CheckResult{Parse: pr}
	if pr.Root == nil {
		span.End("bad tree")
		return res, nil
	}
	lines, err := emit.Emit(ctx, pr.Root, emit.Options{Jobs: jobs})
	if err != nil {
		span.Fail(err)
		return res, locate(pr, err)
	}
	res.Records = len(lines)
	span.End("")
	return res, nil
}
