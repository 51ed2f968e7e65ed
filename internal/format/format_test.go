package format

import (
	"strings"
	"testing"

	"quoted/internal/ast"
	"quoted/internal/lexer"
	"quoted/internal/parser"
)

func mustParse(t *testing.T, text string) ast.Expr {
	t.Helper()
	e, err := parser.ParseString(text, parser.Options{Mode: lexer.ModeStrict})
	if err != nil {
		t.Fatalf("parse %q: %v", text, err)
	}
	return e
}

func TestTreeFitsOnOneLine(t *testing.T) {
	e := mustParse(t, `[{:foo, 5}, "bar"]`)
	if got := string(Tree(e, Options{KeywordSugar: true})); got != "[foo: 5, \"bar\"]\n" {
		t.Fatalf("Tree = %q", got)
	}
}

func TestTreeBreaksLongSequences(t *testing.T) {
	e := mustParse(t, `{:def, [line: 2], [{:sum, [line: 2], [:a, :b]}, [do: {:"+", [line: 2], [:a, :b]}]]}`)
	got := string(Tree(e, Options{Width: 40, KeywordSugar: true}))
	want := strings.Join([]string{
		"{",
		"  :def,",
		"  [line: 2],",
		"  [",
		"    {:sum, [line: 2], [:a, :b]},",
		"    [do: {:\"+\", [line: 2], [:a, :b]}]",
		"  ]",
		"}",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("Tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestTreeKeywordBreak(t *testing.T) {
	e := mustParse(t, `[do: {:block, [], [:aaaaaaaa, :bbbbbbbb, :cccccccc]}, else: nil]`)
	got := string(Tree(e, Options{Width: 30, IndentWidth: 4, KeywordSugar: true}))
	want := strings.Join([]string{
		"[",
		"    do: {",
		"        :block,",
		"        [],",
		"        [",
		"            :aaaaaaaa,",
		"            :bbbbbbbb,",
		"            :cccccccc",
		"        ]",
		"    },",
		"    else: :nil",
		"]",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("Tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestTreeReparses(t *testing.T) {
	inputs := []string{
		`{:%{}, [line: 1], [timeout: 5000, retries: 3, name: "svc", "a b": []]}`,
		`{:defmodule, [line: 1], [{:__aliases__, [line: 1], [:Hello]}, [do: {:def, [line: 2], [{:greet, [line: 2], nil}, [do: "world"]]}]]}`,
		`[[[[[[[[]]]]]]]]`,
	}
	for _, in := range inputs {
		e := mustParse(t, in)
		for _, opt := range []Options{
			{Width: 10},
			{Width: 10, KeywordSugar: true},
			{Width: 1, UseTabs: true, KeywordSugar: true},
			{Width: -1},
		} {
			out := string(Tree(e, opt))
			back := mustParse(t, out)
			if !ast.Equal(e, back) {
				t.Fatalf("opts %+v: %q does not re-parse to the same tree", opt, out)
			}
		}
	}
}

func TestTreeNoBreak(t *testing.T) {
	e := mustParse(t, `[:aaaaaaaaaaaaaaaaaaaaaa, :bbbbbbbbbbbbbbbbbbbbbbbbbbbb, :cccccccccccccccccccccc]`)
	if got := string(Tree(e, Options{Width: -1})); strings.Count(got, "\n") != 1 {
		t.Fatalf("negative width must not break: %q", got)
	}
}
