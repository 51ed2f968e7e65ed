package driver

import (
	"quoted/internal/diag"
	"quoted/internal/lexer"
	"quoted/internal/source"
	"quoted/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File // nil when the file did not decode
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes the dump at path. Lexer diagnostics go to the bag; an
// encoding failure leaves Tokens empty and is reported in the bag too.
// Only read errors are returned.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	bag := diag.NewBag(opts.maxDiagnostics())
	file, err := readInput(fs, path, bag)
	return tokenizeFile(fs, file, bag, opts, err)
}

// TokenizeText is Tokenize over in-memory bytes (stdin).
func TokenizeText(name string, raw []byte, opts Options) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	bag := diag.NewBag(opts.maxDiagnostics())
	file, err := addInput(fs, name, raw, bag)
	return tokenizeFile(fs, file, bag, opts, err)
}

func tokenizeFile(fs *source.FileSet, file *source.File, bag *diag.Bag, opts Options, loadErr error) (*TokenizeResult, error) {
	res := &TokenizeResult{FileSet: fs, File: file, Bag: bag}
	if file == nil {
		if isEncodingError(loadErr) {
			return res, nil
		}
		return nil, loadErr
	}
	lx := lexer.New(file, lexer.Options{
		Reporter: diag.BagReporter{Bag: bag},
		Mode:     opts.Mode,
	})
	res.Tokens = lx.All()
	return res, nil
}
