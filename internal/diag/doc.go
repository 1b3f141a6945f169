// Package diag defines the diagnostic model shared by every phase of the gold
// pipeline: lexer, parser and the semantic analyzer.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error.
//   - Code – compact numeric identifier with a stable string form (LEX1001,
//     SYN2001, SEM3001...). Ranges are fixed per phase, see codes.go.
//   - Message – short, actionable text.
//   - Primary – the source.Span the message is about.
//   - Notes – secondary spans, e.g. "parameter declared here".
//   - Payload – optional expected/actual pair for mismatch diagnostics, so
//     tools and tests do not have to parse messages.
//
// # Producing diagnostics
//
// Phases never own storage. They receive a Reporter and emit through it,
// usually with the ReportBuilder helpers:
//
//	diag.ReportError(r, diag.SemaArityMismatch, argsSpan, msg).
//		WithNote(declSpan, "function declared here").
//		WithPayload("2", "1").
//		Emit()
//
// BagReporter stores into a Bag, DedupReporter drops repeats, and tests are
// free to implement Reporter themselves.
//
// Package diag does no rendering; pretty, short and JSON output live in
// internal/diagfmt (short and golden forms are here because tests use them).
package diag
