package parser

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"

	"quoted/internal/ast"
	"quoted/internal/diag"
	"quoted/internal/lexer"
	"quoted/internal/source"
	"quoted/internal/token"
	"quoted/internal/trace"
)

type Options struct {
	Mode lexer.Mode
	// Reporter receives exactly one diagnostic per failed parse. May be nil.
	Reporter diag.Reporter
}

// Parser holds the state of one parse. Parsing stops at the first error.
type Parser struct {
	lx   *lexer.Lexer // lx.Peek() is the second lookahead token
	file *source.File
	opts Options
	tok  token.Token // current token

	lexDiags []diag.Diagnostic // everything the lexer reported, lookahead included
	err      *Error

	sp        *trace.Span
	nodeTrace bool
}

// lexCapture holds lexer diagnostics; only the one the parse actually
// stopped on is reported.
type lexCapture struct{ p *Parser }

func (c lexCapture) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	c.p.lexDiags = append(c.p.lexDiags, diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
}

// ParseFile parses the whole file as exactly one expression.
func ParseFile(ctx context.Context, file *source.File, opts Options) (ast.Expr, error) {
	end, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.Path, err)
	}
	return ParseRange(ctx, file, source.Span{File: file.ID, Start: 0, End: end}, opts)
}

// ParseRange parses span of file as exactly one expression. Error spans are
// absolute offsets in file, so a batch segment reports positions in the batch.
func ParseRange(ctx context.Context, file *source.File, span source.Span, opts Options) (ast.Expr, error) {
	_, sp := trace.Start(ctx, trace.ScopePass, "parse")
	sp.Set("bytes", fmt.Sprint(span.Len()))

	p := &Parser{file: file, opts: opts}
	p.lx = lexer.NewRange(file, span, lexer.Options{Reporter: lexCapture{p}, Mode: opts.Mode})
	p.sp = sp
	p.nodeTrace = sp.Traces(trace.ScopeNode)
	p.advance()

	expr, ok := p.parseTop()
	if !ok {
		p.emit()
		sp.Set("code", p.err.Code.ID()).Fail(p.err.Message)
		return nil, p.err
	}
	sp.End("ok")
	return expr, nil
}

// ParseString parses text held in memory. Spans refer to a private
// one-file set, so they are offsets into text.
func ParseString(text string, opts Options) (ast.Expr, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("<string>", []byte(text)))
	return ParseFile(context.Background(), file, opts)
}

// ParseBytes decodes raw (BOM / UTF-16 aware), adds it to fs under name and
// parses it. Undecodable input yields an ErrEncoding *Error and no tree.
func ParseBytes(ctx context.Context, fs *source.FileSet, name string, raw []byte, opts Options) (ast.Expr, source.FileID, error) {
	content, flags, err := source.Decode(name, raw)
	if err != nil {
		var encErr *source.EncodingError
		if !errors.As(err, &encErr) {
			return nil, 0, err
		}
		id := fs.Add(name, raw, source.FileVirtual)
		pe := FromEncodingError(id, encErr)
		if opts.Reporter != nil {
			d := pe.Diagnostic()
			opts.Reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		}
		return nil, id, pe
	}
	id := fs.Add(name, content, flags|source.FileVirtual)
	expr, err := ParseFile(ctx, fs.Get(id), opts)
	return expr, id, err
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

// advance moves to the next token.
func (p *Parser) advance() token.Token {
	prev := p.tok
	p.tok = p.lx.Next()
	return prev
}

// peekNext is the token after the current one.
func (p *Parser) peekNext() token.Token {
	return p.lx.Peek()
}

// fail records a grammar error at the current token. Always false.
func (p *Parser) fail(code diag.Code, msg string, expected ...token.Kind) bool {
	p.err = &Error{
		Kind:     ErrGrammar,
		Code:     code,
		Token:    p.tok,
		Span:     p.tok.Span,
		Message:  msg,
		Expected: expected,
	}
	return false
}

// failLexical turns an Invalid token into an error using the lexer
// diagnostic for its span.
func (p *Parser) failLexical() bool {
	p.err = &Error{
		Kind:    ErrLexical,
		Code:    diag.LexUnknownChar,
		Token:   p.tok,
		Span:    p.tok.Span,
		Message: fmt.Sprintf("invalid token %q", p.tok.Text),
	}
	for _, d := range p.lexDiags {
		if d.Primary == p.tok.Span {
			p.err.Code = d.Code
			p.err.Message = d.Message
			break
		}
	}
	return false
}

func (p *Parser) note(sp source.Span, msg string) {
	if p.err != nil {
		p.err.Notes = append(p.err.Notes, diag.Note{Span: sp, Msg: msg})
	}
}

func (p *Parser) emit() {
	if p.opts.Reporter == nil || p.err == nil {
		return
	}
	b := diag.ReportError(p.opts.Reporter, p.err.Code, p.err.Span, p.err.Message)
	for _, n := range p.err.Notes {
		b.WithNote(n.Span, n.Msg)
	}
	b.Emit()
}

// describe is how a token reads in an error message.
func describe(tok token.Token) string {
	switch tok.Kind {
	case token.Ident:
		return fmt.Sprintf("identifier '%s'", tok.Text)
	case token.Number:
		return fmt.Sprintf("number %s", tok.Text)
	case token.String:
		return fmt.Sprintf("string %s", tok.Text)
	default:
		return tok.Kind.Describe()
	}
}
