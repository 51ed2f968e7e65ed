package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"quoted/internal/diag"
	"quoted/internal/driver"
	"quoted/internal/quoter"
	"quoted/internal/source"
)

var quoteCmd = &cobra.Command{
	Use:   "quote [flags] <path>",
	Short: "Run the quoting tool on a file or directory and parse its dump",
	Long: `Quote runs the external quoting tool ([quoter] in quoted.toml, elixir
quote_dir.exs by default) on path and parses the batch dump it prints.
With --eval the snippet is quoted through the string script instead and
parsed as a single expression`,
	Args: cobra.RangeArgs(0, 1),
	RunE: runQuote,
}

func init() {
	addBatchFlags(quoteCmd)
	quoteCmd.Flags().String("eval", "", "quote this source snippet instead of a path")
	quoteCmd.Flags().String("save", "", "also write the raw dump to this file")
}

func runQuote(cmd *cobra.Command, args []string) error {
	eval, err := cmd.Flags().GetString("eval")
	if err != nil {
		return fmt.Errorf("failed to get eval flag: %w", err)
	}
	if (eval == "") == (len(args) == 0) {
		return errors.New("quote needs either a path or --eval")
	}
	save, err := cmd.Flags().GetString("save")
	if err != nil {
		return fmt.Errorf("failed to get save flag: %w", err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	bf, err := readBatchFlags(cmd, s)
	if err != nil {
		return err
	}
	qcfg := s.config.QuoterConfig(s.workDir())

	if eval != "" {
		out, err := quoter.QuoteString(cmd.Context(), qcfg, eval)
		if err != nil {
			return reportQuoterError(cmd, s, err)
		}
		if err := saveDump(save, out.Stdout); err != nil {
			return err
		}
		return parseQuotedSnippet(cmd, s, bf, out.Stdout)
	}

	path := args[0]
	if abs, absErr := filepath.Abs(path); absErr == nil {
		path = abs
	}
	closeCache, err := bf.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	var stderr string
	parse := func(ctx context.Context, opts driver.BatchOptions) (*driver.BatchResult, error) {
		out, err := quoter.QuotePath(ctx, qcfg, path)
		if err != nil {
			return nil, err
		}
		stderr = out.Stderr
		if err := saveDump(save, out.Stdout); err != nil {
			return nil, err
		}
		return driver.ParseBatchText(ctx, args[0], out.Stdout, opts)
	}
	res, err := executeBatch(cmd, args[0], bf, parse)
	if err != nil {
		return reportQuoterError(cmd, s, err)
	}
	if stderr != "" && !s.quiet {
		fmt.Fprint(cmd.ErrOrStderr(), stderr)
	}
	return reportBatch(cmd, s, bf, res)
}

func parseQuotedSnippet(cmd *cobra.Command, s *settings, bf *batchFlags, raw []byte) error {
	res, err := driver.ParseText(cmd.Context(), "<eval>", raw, s.options)
	if err != nil {
		return err
	}
	if err := s.reportDiagnostics(cmd.ErrOrStderr(), res.Bag, res.FileSet); err != nil {
		return err
	}
	if res.Err != nil {
		return &reportedError{failed: 1}
	}
	style := bf.style
	switch style.format {
	case "none":
		return nil
	case "dump":
		style.format = "pretty"
	}
	return writeTree(cmd.OutOrStdout(), res.Expr, style)
}

// reportQuoterError prints a collaborator failure as a diagnostic; other
// errors pass through.
func reportQuoterError(cmd *cobra.Command, s *settings, err error) error {
	var qe *quoter.Error
	if !errors.As(err, &qe) {
		return err
	}
	bag := diag.NewBag(1)
	bag.Add(qe.Diagnostic())
	if err := s.reportDiagnostics(cmd.ErrOrStderr(), bag, source.NewFileSet()); err != nil {
		return err
	}
	return &reportedError{failed: 1}
}

func saveDump(path string, data []byte) error {
	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to save dump: %w", err)
	}
	return nil
}
