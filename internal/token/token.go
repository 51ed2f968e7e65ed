package token

import (
	"quoted/internal/source"
)

// Token represents a single dump token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
	Num  float64 // Number only
}

// IsKeyword reports whether the token is one of the reserved words.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwNil, KwTrue, KwFalse, KwAccess, KwKernel:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether the token carries a literal payload.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, String, Ident, EmptyMap:
		return true
	default:
		return t.IsKeyword()
	}
}

// IsPunct reports whether the token is a structural delimiter.
func (t Token) IsPunct() bool {
	switch t.Kind {
	case LBrace, RBrace, LBracket, RBracket, Comma, Colon:
		return true
	default:
		return false
	}
}

// Payload returns the literal content of the token: the characters between
// the quotes for String, the source text for every other kind.
// No escape processing is performed.
func (t Token) Payload() string {
	if t.Kind == String && len(t.Text) >= 2 && t.Text[0] == '"' && t.Text[len(t.Text)-1] == '"' {
		return t.Text[1 : len(t.Text)-1]
	}
	return t.Text
}
