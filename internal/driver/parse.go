package driver

import (
	"context"

	"quoted/internal/ast"
	"quoted/internal/diag"
	"quoted/internal/observ"
	"quoted/internal/parser"
	"quoted/internal/source"
)

// ParseResult is the outcome of Parse-one. Exactly one of Expr and Err is set.
type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Expr    ast.Expr
	Err     *parser.Error
	Bag     *diag.Bag
	Timer   *observ.Timer
}

// Parse parses the dump at path as exactly one expression. A parse failure
// is a result, not an error: it lands in Err and in the bag. The returned
// error is only set when the file cannot be read.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	res := newParseResult(opts)
	done := res.Timer.Track("load")
	file, err := readInput(res.FileSet, path, res.Bag)
	done("")
	return res.finish(ctx, path, file, err, opts)
}

// ParseText is Parse over in-memory bytes; name labels diagnostics.
func ParseText(ctx context.Context, name string, raw []byte, opts Options) (*ParseResult, error) {
	res := newParseResult(opts)
	done := res.Timer.Track("decode")
	file, err := addInput(res.FileSet, name, raw, res.Bag)
	done("")
	return res.finish(ctx, name, file, err, opts)
}

func newParseResult(opts Options) *ParseResult {
	return &ParseResult{
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.maxDiagnostics()),
		Timer:   observ.NewTimer(),
	}
}

func (res *ParseResult) finish(ctx context.Context, name string, file *source.File, loadErr error, opts Options) (*ParseResult, error) {
	if file == nil {
		pe, ok := parser.AsError(loadErr)
		if !ok {
			return nil, loadErr
		}
		res.Err = pe
		return res, nil
	}
	res.File = file

	done := res.Timer.Track("parse")
	expr, err := parser.ParseFile(ctx, file, parser.Options{
		Mode:     opts.Mode,
		Reporter: diag.BagReporter{Bag: res.Bag},
	})
	if err != nil {
		pe, ok := parser.AsError(err)
		if !ok {
			done("failed")
			return nil, err
		}
		res.Err = pe
		done(pe.Code.ID())
	} else {
		res.Expr = expr
		done("ok")
	}

	if opts.Timings {
		addTimings(res.Bag, timingNote{Kind: "parse", Path: name, Report: res.Timer.Report()})
	}
	return res, nil
}
