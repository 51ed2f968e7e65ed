package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"quoted/internal/ast"
	"quoted/internal/driver"
	"quoted/internal/dump"
)

var batchCmd = &cobra.Command{
	Use:   "batch [flags] <file|->",
	Short: "Parse a batch dump of many files",
	Long: `Batch splits a dump produced by the quoting tool into per-file segments and
parses each of them. By default the run stops at the first failed segment;
--continue parses every segment and reports every failure`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	addBatchFlags(batchCmd)
}

// addBatchFlags registers the flags shared by batch and quote.
func addBatchFlags(cmd *cobra.Command) {
	addTreeFlags(cmd, "pretty|tree|diagram|json|yaml|dump|none")
	cmd.Flags().Bool("continue", false, "keep parsing after a failed segment")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	cmd.Flags().Bool("cache", false, "reuse parsed trees from the on-disk cache")
	cmd.Flags().String("cache-dir", "", "cache directory (default $XDG_CACHE_HOME/quoted)")
	cmd.Flags().Bool("clear-cache", false, "drop every cached tree before the run")
}

type batchFlags struct {
	style      treeStyle
	opts       driver.BatchOptions
	ui         bool
	useCache   bool
	cacheDir   string
	clearCache bool
}

func readBatchFlags(cmd *cobra.Command, s *settings) (*batchFlags, error) {
	f := cmd.Flags()
	bf := &batchFlags{opts: driver.BatchOptions{Options: s.options}}
	var err error

	if bf.style, err = readTreeStyle(cmd); err != nil {
		return nil, err
	}
	if bf.style.format != "dump" && bf.style.format != "none" {
		if err = checkTreeFormat(bf.style.format); err != nil {
			return nil, err
		}
	}

	if !s.config.Parse.StopOnError {
		bf.opts.Policy = driver.Continue
	}
	if f.Changed("continue") {
		cont, _ := f.GetBool("continue")
		bf.opts.Policy = driver.StopOnError
		if cont {
			bf.opts.Policy = driver.Continue
		}
	}

	bf.opts.Jobs = s.config.Parse.Jobs
	if f.Changed("jobs") {
		if bf.opts.Jobs, err = f.GetInt("jobs"); err != nil {
			return nil, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	if bf.opts.Jobs <= 0 {
		bf.opts.Jobs = runtime.GOMAXPROCS(0)
	}

	uiFlag, err := f.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if bf.ui, err = readSwitch("ui", uiFlag, isTerminal(os.Stdout) && isTerminal(os.Stderr)); err != nil {
		return nil, err
	}

	bf.useCache = s.config.Cache.Enabled
	if f.Changed("cache") {
		bf.useCache, _ = f.GetBool("cache")
	}
	bf.cacheDir = s.config.Cache.Dir
	if f.Changed("cache-dir") {
		bf.cacheDir, _ = f.GetString("cache-dir")
	}
	bf.clearCache, _ = f.GetBool("clear-cache")
	return bf, nil
}

// openCache opens the cache when enabled; the returned close func is
// always safe to call.
func (bf *batchFlags) openCache() (func(), error) {
	if !bf.useCache {
		return func() {}, nil
	}
	dir := bf.cacheDir
	if dir == "" {
		var err error
		if dir, err = driver.DefaultCacheDir("quoted"); err != nil {
			return nil, fmt.Errorf("cache dir: %w", err)
		}
	}
	cache, err := driver.OpenCache(dir)
	if err != nil {
		return nil, err
	}
	if bf.clearCache {
		if err := cache.DropAll(); err != nil {
			_ = cache.Close()
			return nil, err
		}
	}
	bf.opts.Cache = cache
	return func() { _ = cache.Close() }, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	bf, err := readBatchFlags(cmd, s)
	if err != nil {
		return err
	}
	closeCache, err := bf.openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	var raw []byte
	fromStdin := args[0] == "-"
	if fromStdin {
		if raw, err = readStdin(cmd); err != nil {
			return err
		}
	}
	parse := func(ctx context.Context, opts driver.BatchOptions) (*driver.BatchResult, error) {
		if fromStdin {
			return driver.ParseBatchText(ctx, "<stdin>", raw, opts)
		}
		return driver.ParseBatch(ctx, args[0], opts)
	}
	res, err := executeBatch(cmd, args[0], bf, parse)
	if err != nil {
		return err
	}
	return reportBatch(cmd, s, bf, res)
}

type batchFunc func(ctx context.Context, opts driver.BatchOptions) (*driver.BatchResult, error)

// executeBatch runs parse either behind the progress UI or directly.
func executeBatch(cmd *cobra.Command, title string, bf *batchFlags, parse batchFunc) (*driver.BatchResult, error) {
	if bf.ui {
		return runBatchWithUI(cmd.Context(), title, bf.opts, parse)
	}
	return parse(cmd.Context(), bf.opts)
}

// reportBatch prints the trees to stdout, then the diagnostics and a
// summary to stderr. Failed segments turn into exit status 2.
func reportBatch(cmd *cobra.Command, s *settings, bf *batchFlags, res *driver.BatchResult) error {
	out := cmd.OutOrStdout()
	if err := writeSegments(out, res, bf.style, s.quiet); err != nil {
		return err
	}

	if err := s.reportDiagnostics(cmd.ErrOrStderr(), res.Bag, res.FileSet); err != nil {
		return err
	}
	if !s.quiet {
		printBatchSummary(cmd.ErrOrStderr(), res, bf.opts)
	}

	if res.Err != nil {
		return &reportedError{failed: 1}
	}
	if _, failed, _ := res.Counts(); failed > 0 {
		return &reportedError{failed: failed}
	}
	return nil
}

func writeSegments(out io.Writer, res *driver.BatchResult, style treeStyle, quiet bool) error {
	switch style.format {
	case "none":
		return nil
	case "dump":
		w := dump.NewWriter(out)
		for i := range res.Segments {
			if seg := &res.Segments[i]; seg.OK() {
				if err := w.Add(seg.Segment.Label, ast.Encode(seg.Expr, ast.EncodeOptions{KeywordSugar: style.sugar})); err != nil {
					return err
				}
			}
		}
		return w.Flush()
	}

	for i := range res.Segments {
		seg := &res.Segments[i]
		if !seg.OK() {
			continue
		}
		if !quiet {
			if _, err := fmt.Fprintf(out, "== %s ==\n", seg.Segment.Name()); err != nil {
				return err
			}
		}
		if err := writeTree(out, seg.Expr, style); err != nil {
			return err
		}
	}
	return nil
}

func printBatchSummary(w io.Writer, res *driver.BatchResult, opts driver.BatchOptions) {
	ok, failed, skipped := res.Counts()
	fmt.Fprintf(w, "%d parsed, %d failed, %d skipped (policy %s)", ok, failed, skipped, opts.Policy)
	if opts.Cache != nil {
		hits, misses := opts.Cache.Stats()
		fmt.Fprintf(w, ", cache %d hit / %d miss", hits, misses)
	}
	fmt.Fprintln(w)
}
