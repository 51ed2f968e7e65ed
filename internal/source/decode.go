package source

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingError reports input that is not valid UTF-8 text after BOM handling.
type EncodingError struct {
	Path   string
	Offset int // first invalid byte
}

func (e *EncodingError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid UTF-8 at byte %d", e.Offset)
	}
	return fmt.Sprintf("%s: invalid UTF-8 at byte %d", e.Path, e.Offset)
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// Decode turns raw dump bytes into UTF-8 text.
// A UTF-8 BOM is stripped, BOM-marked UTF-16 is transcoded; anything else must
// already be valid UTF-8. Offsets of every later phase refer to the returned slice.
func Decode(path string, raw []byte) ([]byte, FileFlags, error) {
	var flags FileFlags
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		flags |= FileHadBOM
	case bytes.HasPrefix(raw, bomUTF16BE), bytes.HasPrefix(raw, bomUTF16LE):
		flags |= FileHadBOM | FileTranscoded
	}

	content := raw
	if flags != 0 {
		// BOMOverride strips a UTF-8 BOM, transcodes UTF-16, passes the rest.
		out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
		if err != nil {
			return nil, flags, fmt.Errorf("%s: decode: %w", path, err)
		}
		content = out
	}

	if !utf8.Valid(content) {
		return nil, flags, &EncodingError{Path: path, Offset: firstInvalid(content)}
	}
	return content, flags, nil
}

func firstInvalid(b []byte) int {
	off := 0
	for off < len(b) {
		r, sz := utf8.DecodeRune(b[off:])
		if r == utf8.RuneError && sz <= 1 {
			return off
		}
		off += sz
	}
	return off
}
