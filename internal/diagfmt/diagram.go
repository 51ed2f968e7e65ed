package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"quoted/internal/ast"
)

// diagramNode is one box of the top-down tree diagram.
type diagramNode struct {
	label    string
	children []*diagramNode
}

// diagramBlock is a rendered subtree: lines padded to width, root is the
// column under which the parent's connector lands.
type diagramBlock struct {
	lines []string
	width int
	root  int
}

const diagramSpacing = 3

// FormatTreeDiagram draws e as a top-down ASCII diagram. Leaves carry their
// value, inner nodes their kind. Meant for small trees.
func FormatTreeDiagram(w io.Writer, e ast.Expr) error {
	block := renderDiagram(buildDiagram(e))
	for _, line := range block.lines {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func buildDiagram(e ast.Expr) *diagramNode {
	node := &diagramNode{label: diagramLabel(e)}
	for _, child := range ast.Children(e) {
		node.children = append(node.children, buildDiagram(child))
	}
	return node
}

func diagramLabel(e ast.Expr) string {
	switch v := e.(type) {
	case ast.Atom:
		return ast.Encode(v, ast.EncodeOptions{})
	case ast.Binary:
		return strconv.Quote(v.Value)
	case ast.Number:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case ast.Tuple:
		if _, ok := ast.MapPairs(v); ok {
			return "%{}"
		}
		return "{}"
	case ast.List:
		return "[]"
	case ast.Defmodule:
		return "defmodule"
	default:
		return "?"
	}
}

func padTo(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// renderDiagram lays children side by side, centres the label over them and
// draws a connector row of / | \ between the two.
func renderDiagram(node *diagramNode) diagramBlock {
	labelWidth := runewidth.StringWidth(node.label)
	if len(node.children) == 0 {
		return diagramBlock{lines: []string{node.label}, width: labelWidth, root: labelWidth / 2}
	}

	blocks := make([]diagramBlock, len(node.children))
	height := 0
	for i, child := range node.children {
		blocks[i] = renderDiagram(child)
		height = max(height, len(blocks[i].lines))
	}

	// child root columns relative to the row's left edge
	roots := make([]int, len(blocks))
	rowWidth := 0
	for i, b := range blocks {
		if i > 0 {
			rowWidth += diagramSpacing
		}
		roots[i] = rowWidth + b.root
		rowWidth += b.width
	}

	center := (roots[0] + roots[len(roots)-1]) / 2
	labelStart := center - labelWidth/2
	rowShift := 0
	if labelStart < 0 {
		rowShift = -labelStart
		labelStart = 0
	}
	rootCol := labelStart + labelWidth/2
	width := max(rowWidth+rowShift, labelStart+labelWidth)

	connector := []byte(strings.Repeat(" ", width))
	connector[rootCol] = '|'
	for _, r := range roots {
		col := r + rowShift
		switch {
		case col < rootCol:
			connector[col] = '/'
		case col > rootCol:
			connector[col] = '\\'
		}
	}

	lines := make([]string, 0, height+2)
	lines = append(lines, padTo(strings.Repeat(" ", labelStart)+node.label, width), string(connector))
	for row := range height {
		var sb strings.Builder
		sb.WriteString(strings.Repeat(" ", rowShift))
		for i, b := range blocks {
			if i > 0 {
				sb.WriteString(strings.Repeat(" ", diagramSpacing))
			}
			line := ""
			if row < len(b.lines) {
				line = b.lines[row]
			}
			sb.WriteString(padTo(line, b.width))
		}
		lines = append(lines, padTo(sb.String(), width))
	}
	return diagramBlock{lines: lines, width: width, root: rootCol}
}
