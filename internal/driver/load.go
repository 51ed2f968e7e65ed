package driver

import (
	"errors"
	"fmt"
	"os"

	"quoted/internal/diag"
	"quoted/internal/parser"
	"quoted/internal/source"
)

// readInput reads path from disk and hands it to addInput.
func readInput(fs *source.FileSet, path string, bag *diag.Bag) (*source.File, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("failed to load %s: %v", path, err)))
		return nil, err
	}
	return addInput(fs, path, raw, bag)
}

// addInput decodes raw and adds it to fs. Undecodable bytes are added as is
// (so the diagnostic can point into them), reported as IO4002 and returned
// as an ErrEncoding *parser.Error.
func addInput(fs *source.FileSet, name string, raw []byte, bag *diag.Bag) (*source.File, error) {
	content, flags, err := source.Decode(name, raw)
	if err != nil {
		var encErr *source.EncodingError
		if !errors.As(err, &encErr) {
			bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, err.Error()))
			return nil, err
		}
		pe := parser.FromEncodingError(fs.Add(name, raw, flags), encErr)
		bag.Add(pe.Diagnostic())
		return nil, pe
	}
	return fs.Get(fs.Add(name, content, flags)), nil
}

func isEncodingError(err error) bool {
	pe, ok := parser.AsError(err)
	return ok && pe.Kind == parser.ErrEncoding
}
