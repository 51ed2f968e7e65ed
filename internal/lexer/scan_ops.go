package lexer

import (
	"quoted/internal/token"
)

func (lx *Lexer) atEmptyMap() bool {
	r0, r1, r2, ok := lx.cursor.Peek3()
	return ok && r0 == '%' && r1 == '{' && r2 == '}'
}

func (lx *Lexer) scanEmptyMap() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	lx.cursor.Bump()
	lx.cursor.Bump()
	return lx.tokenFrom(token.EmptyMap, lx.cursor.SpanFrom(start))
}

func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	var kind token.Kind
	switch lx.cursor.Bump() {
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	case ',':
		kind = token.Comma
	case ':':
		kind = token.Colon
	}
	return lx.tokenFrom(kind, lx.cursor.SpanFrom(start))
}
