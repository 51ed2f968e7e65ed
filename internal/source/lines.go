package source

import (
	"bytes"
	"path/filepath"
	"slices"
)

// buildLineIndex returns the offsets of every '\n' in content.
func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for off := 0; ; {
		i := bytes.IndexByte(content[off:], '\n')
		if i < 0 {
			return idx
		}
		off += i
		idx = append(idx, uint32(off))
		off++
	}
}

// toLineCol maps a byte offset to a 1-based line and byte column. The
// newline itself belongs to the line it ends.
func toLineCol(newlines []uint32, off uint32) LineCol {
	// newlines strictly before off
	before, _ := slices.BinarySearch(newlines, off)
	if before == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}
	lineStart := newlines[before-1] + 1
	return LineCol{Line: uint32(before) + 1, Col: off - lineStart + 1}
}

// normalizePath gives one spelling per path so lookups and diffs agree
// across platforms.
func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
