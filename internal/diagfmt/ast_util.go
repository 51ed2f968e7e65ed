package diagfmt

import (
	"fmt"

	"quoted/internal/diag"
	"quoted/internal/source"
)

// formatSpan renders span as "startLine:startCol-endLine:endCol", or as
// "span(start-end)" without a file set.
func formatSpan(span source.Span, fs *source.FileSet) string {
	if fs != nil && fs.Get(span.File) != nil {
		start, end := fs.Resolve(span)
		return fmt.Sprintf("%d:%d-%d:%d", start.Line, start.Col, end.Line, end.Col)
	}
	return fmt.Sprintf("span(%d-%d)", span.Start, span.End)
}

func formatPath(f *source.File, fs *source.FileSet, mode source.PathMode) string {
	return f.FormatPath(mode, fs.BaseDir())
}

// located reports whether d points into a file. Load failures, quoter
// failures and timings carry a zero span that means "no location".
func located(d *diag.Diagnostic, fs *source.FileSet) bool {
	if fs == nil || fs.Get(d.Primary.File) == nil {
		return false
	}
	switch d.Code {
	case diag.IOLoadFileError, diag.ObsTimings, diag.QuoterFailed, diag.QuoterNotFound:
		return d.Primary != source.Span{}
	}
	return true
}
