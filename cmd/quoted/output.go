package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"quoted/internal/ast"
	"quoted/internal/diagfmt"
	"quoted/internal/format"
)

// treeFormats lists the renderings accepted by --format for trees.
var treeFormats = []string{"pretty", "tree", "diagram", "json", "yaml"}

func checkTreeFormat(format string) error {
	for _, f := range treeFormats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unknown format: %s (expected pretty|tree|diagram|json|yaml)", format)
}

// treeStyle is how trees are printed: --format, --sugar and --width.
type treeStyle struct {
	format string
	sugar  bool
	width  int
}

func readTreeStyle(cmd *cobra.Command) (treeStyle, error) {
	var st treeStyle
	var err error
	if st.format, err = cmd.Flags().GetString("format"); err != nil {
		return st, fmt.Errorf("failed to get format flag: %w", err)
	}
	if st.sugar, err = cmd.Flags().GetBool("sugar"); err != nil {
		return st, fmt.Errorf("failed to get sugar flag: %w", err)
	}
	if st.width, err = cmd.Flags().GetInt("width"); err != nil {
		return st, fmt.Errorf("failed to get width flag: %w", err)
	}
	return st, nil
}

func addTreeFlags(cmd *cobra.Command, formats string) {
	cmd.Flags().String("format", "pretty", "output format ("+formats+")")
	cmd.Flags().Bool("sugar", true, "print keyword lists as key: value in pretty output")
	cmd.Flags().Int("width", 0, "line width for pretty output (0=default, -1=single line)")
}

// writeTree renders e; pretty is the dump syntax itself.
func writeTree(w io.Writer, e ast.Expr, st treeStyle) error {
	switch st.format {
	case "tree":
		return diagfmt.FormatTreePretty(w, e)
	case "diagram":
		return diagfmt.FormatTreeDiagram(w, e)
	case "json":
		return diagfmt.FormatTreeJSON(w, e)
	case "yaml":
		return diagfmt.FormatTreeYAML(w, e)
	default:
		_, err := w.Write(format.Tree(e, format.Options{Width: st.width, KeywordSugar: st.sugar}))
		return err
	}
}

func readStdin(cmd *cobra.Command) ([]byte, error) {
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return raw, nil
}
