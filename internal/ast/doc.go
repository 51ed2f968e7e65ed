// Package ast holds the parsed form of a quoted-term dump.
//
// Values are plain immutable trees built bottom-up by the parser: no spans,
// no parent links, no sharing. Positions live in diagnostics only, so the
// same body parsed at different offsets of a batch yields equal trees.
package ast
