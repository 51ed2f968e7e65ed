package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"quoted/internal/ast"
)

// TreeNodeOutput is the JSON shape of a tree node.
type TreeNodeOutput struct {
	Type     string           `json:"type"`
	Value    any              `json:"value,omitempty"`
	Children []TreeNodeOutput `json:"children,omitempty"`
}

// FormatTreePretty prints e as an indented outline.
func FormatTreePretty(w io.Writer, e ast.Expr) error {
	if _, err := fmt.Fprintln(w, nodeLabel(e)); err != nil {
		return err
	}
	return formatChildrenPretty(w, e, "")
}

func formatChildrenPretty(w io.Writer, e ast.Expr, prefix string) error {
	children := ast.Children(e)
	for i, child := range children {
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLabel(child)); err != nil {
			return err
		}
		if err := formatChildrenPretty(w, child, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

func nodeLabel(e ast.Expr) string {
	switch v := e.(type) {
	case ast.Atom:
		return "atom " + ast.Encode(v, ast.EncodeOptions{})
	case ast.Binary:
		return "binary " + strconv.Quote(v.Value)
	case ast.Number:
		return "number " + strconv.FormatFloat(v.Value, 'g', -1, 64)
	case ast.Tuple:
		if pairs, ok := ast.MapPairs(v); ok {
			return fmt.Sprintf("map (%d pairs)", len(pairs))
		}
		return fmt.Sprintf("tuple (%d)", len(v.Elems))
	case ast.List:
		return fmt.Sprintf("list (%d)", len(v.Elems))
	case ast.Defmodule:
		return fmt.Sprintf("defmodule (%d)", len(v.Elems))
	default:
		return "<nil>"
	}
}

// BuildTreeOutput converts e into its JSON shape.
func BuildTreeOutput(e ast.Expr) TreeNodeOutput {
	out := TreeNodeOutput{}
	if e == nil {
		out.Type = "nil"
		return out
	}
	out.Type = e.Kind().String()
	switch v := e.(type) {
	case ast.Atom:
		out.Value = v.Name
	case ast.Binary:
		out.Value = v.Value
	case ast.Number:
		// JSON has no infinities
		if math.IsInf(v.Value, 0) || math.IsNaN(v.Value) {
			out.Value = strconv.FormatFloat(v.Value, 'g', -1, 64)
		} else {
			out.Value = v.Value
		}
	default:
		for _, child := range ast.Children(e) {
			out.Children = append(out.Children, BuildTreeOutput(child))
		}
	}
	return out
}

// FormatTreeJSON writes e as indented JSON.
func FormatTreeJSON(w io.Writer, e ast.Expr) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildTreeOutput(e))
}

// FormatTreeYAML writes e as YAML: atoms are `!atom name` scalars, binaries
// quoted strings, tuples `!tuple` and module definitions `!defmodule`
// sequences. Sequences of scalars use flow style.
func FormatTreeYAML(w io.Writer, e ast.Expr) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BuildYAMLNode(e)); err != nil {
		return err
	}
	return enc.Close()
}

// BuildYAMLNode converts e into a yaml.v3 node tree.
func BuildYAMLNode(e ast.Expr) *yaml.Node {
	switch v := e.(type) {
	case ast.Atom:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!atom", Value: v.Name}
	case ast.Binary:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Value, Style: yaml.DoubleQuotedStyle}
	case ast.Number:
		return &yaml.Node{Kind: yaml.ScalarNode, Value: yamlFloat(v.Value)}
	case ast.Tuple:
		return yamlSeq("!tuple", v.Elems)
	case ast.List:
		return yamlSeq("", v.Elems)
	case ast.Defmodule:
		return yamlSeq("!defmodule", v.Elems)
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func yamlFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return ".inf"
	case math.IsInf(v, -1):
		return "-.inf"
	case math.IsNaN(v):
		return ".nan"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func yamlSeq(tag string, elems []ast.Expr) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: tag, Style: yaml.FlowStyle}
	for _, el := range elems {
		child := BuildYAMLNode(el)
		if child.Kind != yaml.ScalarNode {
			n.Style = 0
		}
		n.Content = append(n.Content, child)
	}
	return n
}
