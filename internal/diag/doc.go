// Package diag defines the diagnostic model shared by the log grammar and the
// syntax tree reader.
//
// Diagnostics describe recoverable problems in the input: a line the grammar
// could not parse, a malformed timestamp, an unknown node kind in a dumped
// tree. They never stop a run on their own; the driver decides whether a bag
// with errors is fatal (check) or only reported (convert).
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//
// Producers emit through a Reporter (usually BagReporter) or a ReportBuilder.
// Rendering lives in internal/diagfmt.
package diag
