package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"quoted/internal/driver"
	"quoted/internal/format"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] file...",
	Short: "Reformat single-expression dump files",
	Long: `Fmt parses each file and prints it back with canonical spacing, breaking
sequences that exceed --width. --write rewrites the files in place,
--check only lists the files whose formatting differs`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().Bool("write", false, "rewrite files in place")
	fmtCmd.Flags().Bool("check", false, "exit with status 1 if any file is not formatted")
	fmtCmd.Flags().Bool("sugar", true, "print keyword lists as key: value")
	fmtCmd.Flags().Int("width", 0, "line width (0=default, -1=single line)")
}

func runFmt(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	write, _ := f.GetBool("write")
	check, _ := f.GetBool("check")
	sugar, _ := f.GetBool("sugar")
	width, err := f.GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	failed, unformatted := 0, 0
	for _, path := range args {
		res, err := driver.Parse(cmd.Context(), path, s.options)
		if err != nil {
			return err
		}
		if res.Err != nil {
			if err := s.reportDiagnostics(cmd.ErrOrStderr(), res.Bag, res.FileSet); err != nil {
				return err
			}
			failed++
			continue
		}
		out := format.Tree(res.Expr, format.Options{Width: width, KeywordSugar: sugar})
		switch {
		case check:
			if !bytes.Equal(out, res.File.Content) {
				fmt.Fprintln(cmd.OutOrStdout(), path)
				unformatted++
			}
		case write:
			if bytes.Equal(out, res.File.Content) {
				continue
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
		default:
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
		}
	}
	if failed > 0 {
		return &reportedError{failed: failed}
	}
	if unformatted > 0 {
		return fmt.Errorf("%d file(s) need formatting", unformatted)
	}
	return nil
}
