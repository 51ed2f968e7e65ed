package lexer

import (
	"quoted/internal/diag"
	"quoted/internal/token"
)

// scanString captures "..." verbatim: no escapes, newlines allowed.
// A backslash does not escape the quote; the first '"' ends the string.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '"' {
			return lx.tokenFrom(token.String, lx.cursor.SpanFrom(start))
		}
	}
	// EOF before the closing quote
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return lx.tokenFrom(token.Invalid, sp)
}
