package token_test

import (
	"testing"

	"quoted/internal/source"
	"quoted/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}, Text: text}
}

func TestIsKeyword(t *testing.T) {
	for _, k := range []token.Kind{token.KwNil, token.KwTrue, token.KwFalse, token.KwAccess, token.KwKernel} {
		if !tok(k, "").IsKeyword() {
			t.Fatalf("%v should be keyword", k)
		}
	}
	for _, k := range []token.Kind{token.Ident, token.String, token.Colon, token.EmptyMap} {
		if tok(k, "").IsKeyword() {
			t.Fatalf("%v must NOT be keyword", k)
		}
	}
}

func TestIsPunctAndLiteral(t *testing.T) {
	punct := []token.Kind{token.LBrace, token.RBrace, token.LBracket, token.RBracket, token.Comma, token.Colon}
	for _, k := range punct {
		tk := tok(k, "")
		if !tk.IsPunct() || tk.IsLiteral() {
			t.Fatalf("%v: IsPunct=%v IsLiteral=%v", k, tk.IsPunct(), tk.IsLiteral())
		}
	}
	lits := []token.Kind{token.Number, token.String, token.Ident, token.EmptyMap, token.KwNil}
	for _, k := range lits {
		if !tok(k, "").IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
}

func TestPayload(t *testing.T) {
	tests := []struct {
		tok  token.Token
		want string
	}{
		{tok(token.String, `"bar"`), "bar"},
		{tok(token.String, `""`), ""},
		{tok(token.String, `"a\nb"`), `a\nb`}, // no escape processing
		{tok(token.Ident, "foo"), "foo"},
		{tok(token.EmptyMap, "%{}"), "%{}"},
		{tok(token.KwKernel, "Kernel"), "Kernel"},
	}
	for _, tt := range tests {
		if got := tt.tok.Payload(); got != tt.want {
			t.Errorf("Payload(%v %q) = %q, want %q", tt.tok.Kind, tt.tok.Text, got, tt.want)
		}
	}
}

func TestKindStrings(t *testing.T) {
	if token.EmptyMap.String() != "EmptyMap" {
		t.Errorf("String() = %q", token.EmptyMap.String())
	}
	if token.RBrace.Describe() != "'}'" {
		t.Errorf("Describe() = %q", token.RBrace.Describe())
	}
	if token.EOF.Describe() != "end of input" || !token.EOF.IsEOF() {
		t.Errorf("EOF description mismatch")
	}
	if token.Kind(200).String() != "Kind(?)" {
		t.Errorf("unknown kind must not panic")
	}
}
