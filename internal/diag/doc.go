// Package diag defines the diagnostic model shared by the lexer, the grammar
// parser, the batch driver and the quoter runner.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string form (LEX1002,
//     SYN2001, IO4002, QTR5001...), see codes.go.
//   - Message: short human oriented text.
//   - Primary: the source.Span pointing to the offending bytes of the dump.
//   - Notes: optional secondary spans, e.g. where an unclosed '{' was opened.
//
// # Emitting diagnostics
//
// Producers talk to a Reporter and never to storage directly. The parser
// builds diagnostics with ReportError(...).WithNote(...).Emit(); simple cases
// call Reporter.Report. BagReporter collects into a Bag, which supports
// sorting, deduplication and merging. Bag is safe for concurrent use because
// batch segments are parsed in parallel.
//
// Package diag does not format anything for terminals; rendering lives in
// internal/diagfmt. FormatShortDiagnostics is the only renderer here: stable
// one-line output behind --diagnostics=short and in tests.
package diag
