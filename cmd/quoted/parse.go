package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quoted/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file|->",
	Short: "Parse a dump holding exactly one expression",
	Long: `Parse reads one quoted-term dump (or stdin for "-") and prints its tree.
A parse failure prints the diagnostic and exits with status 2`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	addTreeFlags(parseCmd, "pretty|tree|diagram|json|yaml")
}

func runParse(cmd *cobra.Command, args []string) error {
	style, err := readTreeStyle(cmd)
	if err != nil {
		return err
	}
	if err = checkTreeFormat(style.format); err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	var result *driver.ParseResult
	if args[0] == "-" {
		raw, readErr := readStdin(cmd)
		if readErr != nil {
			return readErr
		}
		result, err = driver.ParseText(cmd.Context(), "<stdin>", raw, s.options)
	} else {
		result, err = driver.Parse(cmd.Context(), args[0], s.options)
	}
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if err := s.reportDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet); err != nil {
		return err
	}
	if result.Err != nil {
		return &reportedError{failed: 1}
	}
	return writeTree(cmd.OutOrStdout(), result.Expr, style)
}
