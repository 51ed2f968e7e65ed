package lexer

import (
	"quoted/internal/token"
)

// scanIdentOrKeyword scans an identifier and checks LookupKeyword.
// Token.Text is the source slice.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentRune(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.tokenFrom(token.Ident, lx.cursor.SpanFrom(start))
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
