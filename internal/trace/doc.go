// Package trace records what the converter is doing while it runs.
//
// Tracing is enabled from the command line:
//
//	stracejson convert --trace=- --trace-level=detail app.strace
//
// # Tracers
//
//   - Nop: disabled tracing, zero overhead
//   - StreamTracer: writes each event as it happens (file or stderr)
//   - RingTracer: keeps the last N events for a dump after a failure
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Events carry a scope; the level decides which scopes are emitted.
//
//   - LevelPhase: ScopeDriver and ScopePass (load, parse, emit, encode)
//   - LevelDetail: adds ScopeLine, one span per converted log line
//   - LevelDebug: adds ScopeNode
//
// # Context
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "parse")
//	defer span.End("")
//
// Spans opened with Start under ctx become children of span. Open builds
// a tracer and its heartbeat as one Session.
package trace
