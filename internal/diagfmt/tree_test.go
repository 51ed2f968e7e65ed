package diagfmt

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"quoted/internal/ast"
)

func sampleTree() ast.Expr {
	return ast.NewList(
		ast.NewTuple(ast.Atom{Name: "foo"}, ast.Number{Value: 5}),
		ast.Binary{Value: "bar"},
		ast.NewTuple(ast.Atom{Name: ast.MapMarker}, ast.NewList(), ast.NewList(ast.NewTuple(ast.Atom{Name: "a"}, ast.Number{Value: 1.5}))),
	)
}

func TestFormatTreePretty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTreePretty(&buf, sampleTree()); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"list (3)",
		"├─ tuple (2)",
		"│  ├─ atom :foo",
		"│  └─ number 5",
		`├─ binary "bar"`,
		"└─ map (1 pairs)",
		"   ├─ atom :%{}",
		"   ├─ list (0)",
		"   └─ list (1)",
		"      └─ tuple (2)",
		"         ├─ atom :a",
		"         └─ number 1.5",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatTreeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTreeJSON(&buf, sampleTree()); err != nil {
		t.Fatal(err)
	}
	var out TreeNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Type != "List" || len(out.Children) != 3 {
		t.Fatalf("root = %+v", out)
	}
	first := out.Children[0]
	if first.Type != "Tuple" || first.Children[0].Value != "foo" || first.Children[1].Value != float64(5) {
		t.Fatalf("first child = %+v", first)
	}
}

func TestOverflowedNumberRenders(t *testing.T) {
	tree := ast.NewList(ast.Number{Value: math.Inf(1)})

	var js bytes.Buffer
	if err := FormatTreeJSON(&js, tree); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(js.String(), `"+Inf"`) {
		t.Errorf("json = %s", js.String())
	}

	var ym bytes.Buffer
	if err := FormatTreeYAML(&ym, tree); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var back []float64
	if err := yaml.Unmarshal(ym.Bytes(), &back); err != nil || len(back) != 1 || !math.IsInf(back[0], 1) {
		t.Errorf("yaml %q decoded to %v, %v", ym.String(), back, err)
	}
}

func TestFormatTreeYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTreeYAML(&buf, sampleTree()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"!tuple", "!atom foo", `"bar"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("yaml missing %q:\n%s", want, out)
		}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, out)
	}
	root := doc.Content[0]
	if root.Kind != yaml.SequenceNode || len(root.Content) != 3 {
		t.Fatalf("root = %+v", root)
	}
	tuple := root.Content[0]
	if tuple.Tag != "!tuple" || tuple.Content[0].Tag != "!atom" || tuple.Content[0].Value != "foo" {
		t.Fatalf("tuple = %+v", tuple)
	}
	if m := root.Content[2]; m.Content[0].Value != ast.MapMarker {
		t.Fatalf("map marker = %q", m.Content[0].Value)
	}
}

func TestFormatTreeDiagram(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatTreeDiagram(&buf, ast.NewTuple(ast.Atom{Name: "a"}, ast.Number{Value: 1})); err != nil {
		t.Fatal(err)
	}
	want := "  {}\n / | \\\n:a   1\n"
	if buf.String() != want {
		t.Fatalf("diagram:\n%s\nwant:\n%s", buf.String(), want)
	}

	// a wide label over narrow children
	buf.Reset()
	if err := FormatTreeDiagram(&buf, ast.Defmodule{Elems: []ast.Expr{ast.Number{Value: 1}}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "defmodule\n    |\n    1\n" {
		t.Fatalf("diagram:\n%q", buf.String())
	}
}
