package parser

import (
	"fmt"

	"quoted/internal/ast"
	"quoted/internal/diag"
	"quoted/internal/token"
	"quoted/internal/trace"
)

// parseTop: ровно одно выражение, затем EOF.
func (p *Parser) parseTop() (ast.Expr, bool) {
	expr, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	switch p.tok.Kind {
	case token.EOF:
		return expr, true
	case token.Invalid:
		return nil, p.failLexical()
	default:
		return nil, p.fail(diag.SynTrailingTokens,
			fmt.Sprintf("unexpected %s after the expression", describe(p.tok)), token.EOF)
	}
}

// parseExpr: number | quoted | atom | tuple | list.
func (p *Parser) parseExpr() (ast.Expr, bool) {
	switch p.tok.Kind {
	case token.Number:
		return ast.Number{Value: p.advance().Num}, true

	case token.String:
		if p.peekNext().Kind == token.Colon {
			return nil, p.failSugar()
		}
		return ast.Binary{Value: p.advance().Payload()}, true

	case token.Colon:
		return p.parseAtom()

	case token.KwNil, token.KwTrue, token.KwFalse, token.KwAccess, token.KwKernel:
		if p.peekNext().Kind == token.Colon {
			return nil, p.failSugar()
		}
		return ast.Atom{Name: p.advance().Text}, true

	case token.LBrace:
		return p.parseTuple()

	case token.LBracket:
		return p.parseList()

	case token.Ident:
		if p.peekNext().Kind == token.Colon {
			return nil, p.failSugar()
		}
		return nil, p.fail(diag.SynUnexpectedToken,
			fmt.Sprintf("bare %s is not a value; atoms are written ':%s'", describe(p.tok), p.tok.Text), token.Colon)

	case token.EmptyMap:
		return nil, p.fail(diag.SynUnexpectedToken, "'%{}' is only valid as an atom name, write ':%{}'", token.Colon)

	case token.Invalid:
		return nil, p.failLexical()

	default:
		return nil, p.fail(diag.SynExpectExpression,
			fmt.Sprintf("expected expression, found %s", describe(p.tok)),
			token.Number, token.String, token.Colon, token.LBrace, token.LBracket)
	}
}

// failSugar: `key: value` встретился вне списка.
func (p *Parser) failSugar() bool {
	return p.fail(diag.SynSugarOutsideList,
		fmt.Sprintf("keyword shorthand '%s:' is only allowed inside a list", p.tok.Payload()))
}

// parseAtom: ':' (ident | quoted | reserved | %{}).
func (p *Parser) parseAtom() (ast.Expr, bool) {
	colon := p.advance()
	var name string
	switch p.tok.Kind {
	case token.Ident, token.KwNil, token.KwTrue, token.KwFalse, token.KwAccess, token.KwKernel:
		name = p.tok.Text
	case token.String:
		name = p.tok.Payload()
	case token.EmptyMap:
		name = ast.MapMarker
	case token.Invalid:
		return nil, p.failLexical()
	default:
		p.fail(diag.SynExpectAtomName,
			fmt.Sprintf("expected atom name after ':', found %s", describe(p.tok)),
			token.Ident, token.String, token.EmptyMap)
		p.note(colon.Span, "atom starts here")
		return nil, false
	}
	p.advance()
	return ast.Atom{Name: name}, true
}

func (p *Parser) parseTuple() (ast.Expr, bool) {
	elems, ok := p.parseSeq(token.RBrace, false)
	if !ok {
		return nil, false
	}
	if ast.IsDefmoduleShape(elems) {
		return ast.Defmodule{Elems: elems}, true
	}
	return ast.Tuple{Elems: elems}, true
}

func (p *Parser) parseList() (ast.Expr, bool) {
	elems, ok := p.parseSeq(token.RBracket, true)
	if !ok {
		return nil, false
	}
	return ast.List{Elems: elems}, true
}

// parseSeq разбирает `open [elem {',' elem}] close`, где open уже текущий токен.
// Висячая запятая перед close считается ошибкой.
func (p *Parser) parseSeq(closeKind token.Kind, inList bool) ([]ast.Expr, bool) {
	open := p.advance()
	elems := []ast.Expr{}
	if p.at(closeKind) {
		p.advance()
		p.traceNode(open, closeKind, 0)
		return elems, true
	}

	for {
		if p.at(token.EOF) {
			p.fail(diag.SynUnclosedDelimiter,
				fmt.Sprintf("unclosed %s, expected %s", open.Kind.Describe(), closeKind.Describe()), closeKind)
			p.note(open.Span, "opened here")
			return nil, false
		}

		var el ast.Expr
		var ok bool
		if inList {
			el, ok = p.parseElem()
		} else {
			el, ok = p.parseExpr()
		}
		if !ok {
			return nil, false
		}
		elems = append(elems, el)

		switch p.tok.Kind {
		case token.Comma:
			comma := p.advance()
			if p.at(closeKind) {
				p.fail(diag.SynTrailingComma,
					fmt.Sprintf("trailing comma before %s", closeKind.Describe()), token.Number, token.String, token.Colon, token.LBrace, token.LBracket)
				p.note(comma.Span, "remove this comma")
				return nil, false
			}
		case closeKind:
			p.advance()
			p.traceNode(open, closeKind, len(elems))
			return elems, true
		case token.Invalid:
			return nil, p.failLexical()
		case token.EOF:
			p.fail(diag.SynUnclosedDelimiter,
				fmt.Sprintf("unclosed %s, expected %s", open.Kind.Describe(), closeKind.Describe()), token.Comma, closeKind)
			p.note(open.Span, "opened here")
			return nil, false
		default:
			return nil, p.fail(diag.SynExpectComma,
				fmt.Sprintf("expected ',' or %s, found %s", closeKind.Describe(), describe(p.tok)), token.Comma, closeKind)
		}
	}
}

// parseElem: `key ':' expr` | expr. Ключ: идентификатор, строка или
// зарезервированное слово, сразу за которым идёт ':'.
func (p *Parser) parseElem() (ast.Expr, bool) {
	switch p.tok.Kind {
	case token.Ident, token.String, token.KwNil, token.KwTrue, token.KwFalse, token.KwAccess, token.KwKernel:
		if p.peekNext().Kind != token.Colon {
			break
		}
		key := p.advance()
		p.advance() // ':'
		val, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		return ast.NewTuple(ast.Atom{Name: key.Payload()}, val), true
	}
	return p.parseExpr()
}

func (p *Parser) traceNode(open token.Token, closeKind token.Kind, n int) {
	if !p.nodeTrace {
		return
	}
	name := "tuple"
	if closeKind == token.RBracket {
		name = "list"
	}
	p.sp.Point(trace.ScopeNode, name, fmt.Sprintf("%d elems at %d", n, open.Span.Start))
}
