// Package trace records spans and instant events for quoted runs.
//
// Tracing shows where a long batch run spends its time and which segment a
// stuck run is sitting on.
//
//	quoted batch --trace=- --trace-level=detail dump.txt
//
// # Modes
//
// ModeStream writes events as they happen. ModeRing keeps the newest
// RingSize events and writes them when the tracer is closed. ModeBoth
// streams, and appends the ring tail only when some span failed.
// A Heartbeat can wrap any of them.
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver (a whole batch or quote run) and ScopePass
// (one lex+parse or split). LevelDetail adds ScopeSegment (one batch
// segment). LevelDebug adds ScopeNode (tuple/list boundaries). LevelError
// keeps only spans closed with Fail.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, sp := trace.Start(ctx, trace.ScopePass, "parse")
//	defer sp.End("ok")
package trace
