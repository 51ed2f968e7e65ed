package format

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// lineWriter builds the output line by line. Indentation is written lazily,
// on the first text of a line, so blank lines carry no trailing spaces.
type lineWriter struct {
	out   strings.Builder
	unit  string // one indentation step
	unitW int    // its display width
	depth int
	col   int
	fresh bool
}

func newLineWriter(opt Options) *lineWriter {
	lw := &lineWriter{fresh: true}
	if opt.UseTabs {
		lw.unit, lw.unitW = "\t", tabWidth
	} else {
		lw.unit, lw.unitW = strings.Repeat(" ", opt.IndentWidth), opt.IndentWidth
	}
	return lw
}

// column is the display column the next text starts at.
func (lw *lineWriter) column() int {
	if lw.fresh {
		return lw.depth * lw.unitW
	}
	return lw.col
}

// text appends s, which must not contain a newline.
func (lw *lineWriter) text(s string) {
	if s == "" {
		return
	}
	if lw.fresh {
		lw.out.WriteString(strings.Repeat(lw.unit, lw.depth))
		lw.col, lw.fresh = lw.depth*lw.unitW, false
	}
	lw.out.WriteString(s)
	lw.col += runewidth.StringWidth(s)
}

func (lw *lineWriter) newline() {
	lw.out.WriteByte('\n')
	lw.col, lw.fresh = 0, true
}

func (lw *lineWriter) indent() { lw.depth++ }

func (lw *lineWriter) dedent() { lw.depth = max(lw.depth-1, 0) }

func (lw *lineWriter) bytes() []byte { return []byte(lw.out.String()) }
