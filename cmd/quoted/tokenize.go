package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"quoted/internal/diagfmt"
	"quoted/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Tokenize a dump file",
	Long:  `Tokenize breaks a dump into its tokens and prints them with their positions`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	var result *driver.TokenizeResult
	if args[0] == "-" {
		raw, readErr := readStdin(cmd)
		if readErr != nil {
			return readErr
		}
		result, err = driver.TokenizeText("<stdin>", raw, s.options)
	} else {
		result, err = driver.Tokenize(args[0], s.options)
	}
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Diagnostics go to stderr.
	result.Bag.Sort()
	if err := s.reportDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet); err != nil {
		return err
	}
	if result.File == nil {
		return &reportedError{failed: 1}
	}

	switch format {
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	}
}
