package dump

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Writer produces a batch in the collaborator's framing.
type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Add appends one file dump. A label holding a separator cannot be framed.
func (w *Writer) Add(label, body string) error {
	if w.err != nil {
		return w.err
	}
	if containsSep(label) {
		w.err = fmt.Errorf("label %q contains a batch separator", label)
		return w.err
	}
	_, w.err = fmt.Fprintf(w.w, "%s%s\n%s%s\n", FileSeparator, label, HeaderSeparator, body)
	return w.err
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

func containsSep(s string) bool {
	return strings.Contains(s, FileSeparator) || strings.Contains(s, HeaderSeparator)
}
