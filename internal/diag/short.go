package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"quoted/internal/source"
)

// shortLine is one rendered row: "<sev> <CODE> <path>:<line>:<col> <msg>".
type shortLine struct {
	sev  string
	code string
	path string
	pos  source.LineCol
	msg  string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
}

func compareShort(a, b shortLine) int {
	return cmp.Or(
		strings.Compare(a.path, b.path),
		cmp.Compare(a.pos.Line, b.pos.Line),
		cmp.Compare(a.pos.Col, b.pos.Col),
		strings.Compare(a.sev, b.sev),
		strings.Compare(a.code, b.code),
		strings.Compare(a.msg, b.msg),
	)
}

var flattenEOL = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func shortPath(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

// FormatShortDiagnostics renders one line per diagnostic (and per note when
// withNotes is set), sorted by position so the output is stable across
// parallel batch runs. Paths are printed per mode. Diagnostics whose file fs
// does not know are skipped. Lines are joined without a trailing newline.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, mode source.PathMode, withNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	add := func(sev string, code Code, span source.Span, msg string) {
		file := fs.Get(span.File)
		if file == nil {
			return
		}
		start, _ := fs.Resolve(span)
		lines = append(lines, shortLine{
			sev:  sev,
			code: code.ID(),
			path: shortPath(file.FormatPath(mode, fs.BaseDir())),
			pos:  start,
			msg:  strings.TrimSpace(flattenEOL.Replace(msg)),
		})
	}
	for _, d := range diags {
		add(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message)
		if withNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}

	slices.SortStableFunc(lines, compareShort)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}
