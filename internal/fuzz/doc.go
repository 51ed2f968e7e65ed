// Package fuzztests houses Go fuzz harnesses for the dump reader
// (source -> lexer -> parser, and batch splitting). They guard against
// panics, hangs and span invariant violations on arbitrary input. The
// targets never run the quoter or the CLI.
package fuzztests
