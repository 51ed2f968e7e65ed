package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"quoted/internal/ast"
	"quoted/internal/diag"
	"quoted/internal/driver"
	"quoted/internal/lexer"
	"quoted/internal/parser"
	"quoted/internal/token"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParse(t *testing.T) {
	path := writeFile(t, "a.qd", []byte(`[{:foo, 5}, "bar"]`))
	res, err := driver.Parse(context.Background(), path, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := ast.NewList(ast.NewTuple(ast.Atom{Name: "foo"}, ast.Number{Value: 5}), ast.Binary{Value: "bar"})
	if res.Err != nil || !ast.Equal(res.Expr, want) {
		t.Fatalf("Parse = %v, %v", res.Expr, res.Err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %+v", res.Bag.Items())
	}
}

func TestParseFailureIsResult(t *testing.T) {
	path := writeFile(t, "bad.qd", []byte("{:a\n  :b}"))
	res, err := driver.Parse(context.Background(), path, driver.Options{Timings: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Expr != nil || res.Err == nil || res.Err.Code != diag.SynExpectComma {
		t.Fatalf("result = %v / %v", res.Expr, res.Err)
	}
	start, _ := res.FileSet.Resolve(res.Err.Span)
	if start.Line != 2 || start.Col != 3 {
		t.Fatalf("error at %d:%d, want 2:3", start.Line, start.Col)
	}
	// the parse error plus timings
	if res.Bag.Len() != 2 || !res.Bag.HasErrors() {
		t.Fatalf("bag = %+v", res.Bag.Items())
	}
}

func TestParseTextEncoding(t *testing.T) {
	res, err := driver.ParseText(context.Background(), "<stdin>", []byte("\xFE\xFF\x00[\x00:\x00a\x00]"), driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !ast.Equal(res.Expr, ast.NewList(ast.Atom{Name: "a"})) {
		t.Fatalf("UTF-16 input parsed to %v / %v", res.Expr, res.Err)
	}

	res, err = driver.ParseText(context.Background(), "<stdin>", []byte{'[', 0xC3}, driver.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Err == nil || res.Err.Kind != parser.ErrEncoding || res.File != nil {
		t.Fatalf("result = %+v", res)
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := driver.Parse(context.Background(), filepath.Join(t.TempDir(), "nope.qd"), driver.Options{}); err == nil {
		t.Fatal("expected read error")
	}
}

func TestTokenize(t *testing.T) {
	path := writeFile(t, "t.qd", []byte("{:a, 1} ;"))
	res, err := driver.Tokenize(path, driver.Options{Mode: lexer.ModeStrict})
	if err != nil {
		t.Fatal(err)
	}
	kinds := []token.Kind{token.LBrace, token.Colon, token.Ident, token.Comma, token.Number, token.RBrace, token.Invalid, token.EOF}
	if len(res.Tokens) != len(kinds) {
		t.Fatalf("tokens = %+v", res.Tokens)
	}
	for i, k := range kinds {
		if res.Tokens[i].Kind != k {
			t.Fatalf("token %d = %v, want %v", i, res.Tokens[i].Kind, k)
		}
	}
	if items := res.Bag.Items(); len(items) != 1 || items[0].Code != diag.LexUnknownChar {
		t.Fatalf("bag = %+v", items)
	}

	res, err = driver.TokenizeText("<stdin>", []byte("\xff"), driver.Options{})
	if err != nil || res.Tokens != nil || !res.Bag.HasErrors() {
		t.Fatalf("encoding failure: %+v, %v", res, err)
	}
}
