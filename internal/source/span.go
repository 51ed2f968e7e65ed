package source

import "fmt"

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

// String prints "file:start-end"; diagnostics resolve line and column
// through the FileSet instead.
func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether other lies fully inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

// Bytes cuts the span out of content, clamped to its length.
func (s Span) Bytes(content []byte) []byte {
	n := uint64(len(content))
	start := min(uint64(s.Start), n)
	return content[start:max(start, min(uint64(s.End), n))]
}

// ShiftLeft rebases an absolute span onto offset n, so a span inside a batch
// segment becomes relative to the segment. Spans that start before n are
// returned unchanged.
func (s Span) ShiftLeft(n uint32) Span {
	if s.Start < n {
		return s
	}
	s.Start -= n
	s.End -= n
	return s
}
