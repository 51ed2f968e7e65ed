// Package dump splits a batch dump into per-file segments.
//
// A batch is what the quoting collaborator prints for a directory: file dumps
// joined by FileSeparator, each one shaped as `label HeaderSeparator body`.
// Splitting is framing only; bodies are handed to the parser untouched.
package dump

import (
	"bytes"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"quoted/internal/source"
)

const (
	// FileSeparator separates file dumps inside a batch.
	FileSeparator = "@!&*(^)|"
	// HeaderSeparator separates the file label from the quoted term.
	HeaderSeparator = "|)&@^#%"
)

var (
	fileSep   = []byte(FileSeparator)
	headerSep = []byte(HeaderSeparator)
)

// Segment is one file dump of a batch. Spans are absolute in the batch file.
type Segment struct {
	Index int    // порядковый номер среди непустых сегментов
	Label string // заголовок без пробелов по краям; пуст, если нет HeaderSeparator
	Body  string

	Span      source.Span // весь сегмент между FileSeparator
	BodySpan  source.Span
	HasHeader bool
}

// Split cuts file into segments in order of appearance. Segments that hold
// only whitespace are skipped (the batch usually starts with a separator and
// ends with a newline). A segment without HeaderSeparator is returned with
// HasHeader false and the whole segment as Body; the driver reports it.
// Everything after the first HeaderSeparator is the body.
func Split(file *source.File) ([]Segment, error) {
	content := file.Content
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		return nil, err
	}

	var segs []Segment
	start := 0
	for start <= len(content) {
		end := len(content)
		next := end + 1
		if i := bytes.Index(content[start:], fileSep); i >= 0 {
			end = start + i
			next = end + len(fileSep)
		}
		if seg, ok := cut(file, start, end); ok {
			seg.Index = len(segs)
			segs = append(segs, seg)
		}
		start = next
	}
	return segs, nil
}

func cut(file *source.File, start, end int) (Segment, bool) {
	raw := file.Content[start:end]
	if len(bytes.TrimSpace(raw)) == 0 {
		return Segment{}, false
	}
	seg := Segment{Span: span(file.ID, start, end)}

	h := bytes.Index(raw, headerSep)
	if h < 0 {
		seg.Body = string(raw)
		seg.BodySpan = seg.Span
		return seg, true
	}
	bodyStart := start + h + len(headerSep)
	seg.HasHeader = true
	seg.Label = strings.TrimSpace(string(raw[:h]))
	seg.Body = string(file.Content[bodyStart:end])
	seg.BodySpan = span(file.ID, bodyStart, end)
	return seg, true
}

// длина файла уже проверена в Split, переполнения здесь нет
func span(id source.FileID, start, end int) source.Span {
	return source.Span{File: id, Start: uint32(start), End: uint32(end)} //nolint:gosec
}

// Blank reports whether the body holds no quoted term at all.
func (s Segment) Blank() bool {
	return strings.TrimSpace(s.Body) == ""
}

// Name is the label, or "#<index>" when the segment has none.
func (s Segment) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return "#" + strconv.Itoa(s.Index)
}
