package lexer

import (
	"fmt"
	"unicode"

	"quoted/internal/diag"
	"quoted/internal/source"
	"quoted/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // one-token pushback
}

// New creates a lexer over the whole file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// NewRange creates a lexer over span of file; token spans stay absolute.
func NewRange(file *source.File, span source.Span, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewRangeCursor(file, span.Start, span.End),
		opts:   opts,
	}
}

// Next returns the next token, and EOF forever after the input ends.
// Rule order: %{} then { } [ ] , : then number, string, identifier, skip.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	for !lx.cursor.EOF() {
		r := lx.cursor.Peek()
		switch {
		case r == '%' && lx.atEmptyMap():
			return lx.scanEmptyMap()
		case isPunct(r):
			return lx.scanPunct()
		case isDigit(r):
			return lx.scanNumber()
		case r == '"':
			return lx.scanString()
		case isIdentRune(r):
			return lx.scanIdentOrKeyword()
		case unicode.IsSpace(r) || lx.opts.Mode == ModeLenient:
			lx.cursor.Bump()
		default:
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected character %q", r))
			return lx.tokenFrom(token.Invalid, sp)
		}
	}

	return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// All lexes the remaining input, EOF token included.
func (lx *Lexer) All() []token.Token {
	var tokens []token.Token
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			return tokens
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	off := lx.cursor.Off()
	return source.Span{File: lx.file.ID, Start: off, End: off}
}

func (lx *Lexer) tokenFrom(kind token.Kind, sp source.Span) token.Token {
	return token.Token{Kind: kind, Span: sp, Text: string(sp.Bytes(lx.file.Content))}
}
