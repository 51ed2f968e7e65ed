package format

import (
	"github.com/mattn/go-runewidth"

	"quoted/internal/ast"
)

const (
	DefaultWidth  = 98
	defaultIndent = 2
	tabWidth      = 4
)

type Options struct {
	// Width is the line limit; negative disables breaking.
	Width        int
	IndentWidth  int
	UseTabs      bool
	KeywordSugar bool
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.IndentWidth <= 0 {
		o.IndentWidth = defaultIndent
	}
	return o
}

type printer struct {
	w   *lineWriter
	opt Options
}

// Tree prints e followed by a newline. A sequence that does not fit the
// remaining width is broken one element per line; the output always parses
// back to a tree equal to e.
func Tree(e ast.Expr, opt Options) []byte {
	opt = opt.withDefaults()
	p := printer{w: newLineWriter(opt), opt: opt}
	p.print(e, 0)
	p.w.newline()
	return p.w.bytes()
}

// print writes e; trail is the width of what must still fit after it on
// the same line (the separating comma).
func (p *printer) print(e ast.Expr, trail int) {
	flat := ast.Encode(e, ast.EncodeOptions{KeywordSugar: p.opt.KeywordSugar})
	if p.fits(flat, trail) || len(ast.Children(e)) == 0 {
		p.w.text(flat)
		return
	}
	switch v := e.(type) {
	case ast.Tuple:
		p.printSeq("{", "}", v.Elems, false)
	case ast.Defmodule:
		p.printSeq("{", "}", v.Elems, false)
	case ast.List:
		p.printSeq("[", "]", v.Elems, p.opt.KeywordSugar)
	default:
		// leaves never break
		p.w.text(flat)
	}
}

func (p *printer) fits(s string, trail int) bool {
	if p.opt.Width < 0 {
		return true
	}
	return p.w.column()+runewidth.StringWidth(s)+trail <= p.opt.Width
}

func (p *printer) printSeq(open, close string, elems []ast.Expr, sugar bool) {
	p.w.text(open)
	p.w.newline()
	p.w.indent()
	for i, el := range elems {
		// no comma after the last element: the parser rejects trailing commas
		trail := 1
		if i == len(elems)-1 {
			trail = 0
		}
		if key, val, ok := ast.KeywordPair(el); sugar && ok {
			p.w.text(ast.EncodeKey(key) + ": ")
			p.print(val, trail)
		} else {
			p.print(el, trail)
		}
		if trail > 0 {
			p.w.text(",")
		}
		p.w.newline()
	}
	p.w.dedent()
	p.w.text(close)
}
