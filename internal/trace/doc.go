// Package trace records what the gold pipeline is doing: each phase opens a
// span, spans nest through context, and a Tracer writes the events as text or
// NDJSON.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "sema", 0)
//	ctx = trace.WithSpan(ctx, span)
//	defer span.End("")
//
// Verbosity is a Level: phase shows driver and pass spans, detail adds
// per-file spans, debug adds per-function spans.
package trace
