package testkit

import (
	"os"
	"path/filepath"
	"testing"

	"quoted/internal/ast"
	"quoted/internal/dump"
	"quoted/internal/lexer"
	"quoted/internal/parser"
	"quoted/internal/source"
	"quoted/internal/token"
)

func loadTestdata(t *testing.T, name string) *source.File {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	if err != nil {
		t.Fatalf("read testdata: %v", err)
	}
	fs := source.NewFileSet()
	return fs.Get(fs.Add(name, data, 0))
}

func TestTestdataSingle(t *testing.T) {
	f := loadTestdata(t, "hello.qd")
	tokens := lexer.New(f, lexer.Options{Mode: lexer.ModeStrict}).All()
	if err := CheckTokenSpans(tokens, f, source.Span{}); err != nil {
		t.Fatal(err)
	}
	e, err := parser.ParseFile(t.Context(), f, parser.Options{Mode: lexer.ModeStrict})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if e.Kind() != ast.KindDefmodule {
		t.Fatalf("root kind = %v", e.Kind())
	}
	if err := CheckRoundTrip(e); err != nil {
		t.Fatal(err)
	}
}

func TestTestdataBatch(t *testing.T) {
	f := loadTestdata(t, "batch.qd")
	segs, err := dump.Split(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 3 {
		t.Fatalf("segments = %d", len(segs))
	}
	for _, seg := range segs {
		if err := CheckRangeLexing(f, seg.BodySpan, lexer.ModeStrict); err != nil {
			t.Fatalf("%s: %v", seg.Name(), err)
		}
		e, err := parser.ParseRange(t.Context(), f, seg.BodySpan, parser.Options{Mode: lexer.ModeStrict})
		if err != nil {
			t.Fatalf("%s: %v", seg.Name(), err)
		}
		if err := CheckRoundTrip(e); err != nil {
			t.Fatalf("%s: %v", seg.Name(), err)
		}
	}
}

func TestCheckTokenSpansRejects(t *testing.T) {
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("x", []byte("[:a]")))
	good := lexer.New(f, lexer.Options{}).All()

	tests := []struct {
		name   string
		tokens []token.Token
	}{
		{"empty", nil},
		{"no eof", good[:len(good)-1]},
		{"overlap", append([]token.Token{good[1]}, good...)},
		{"outside", []token.Token{{Kind: token.EOF, Span: source.Span{File: f.ID, Start: 9, End: 9}}}},
		{"other file", []token.Token{{Kind: token.EOF, Span: source.Span{File: f.ID + 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckTokenSpans(tt.tokens, f, source.Span{}); err == nil {
				t.Fatal("expected an invariant violation")
			}
		})
	}
	if err := CheckTokenSpans(good, f, source.Span{}); err != nil {
		t.Fatal(err)
	}
}
