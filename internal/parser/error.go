package parser

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"quoted/internal/diag"
	"quoted/internal/source"
	"quoted/internal/token"
)

// ErrorKind classifies a parse failure.
type ErrorKind uint8

const (
	// ErrEncoding: input bytes are not valid text.
	ErrEncoding ErrorKind = iota + 1
	// ErrLexical: a literal capture is malformed (number, unterminated string,
	// unknown character in strict mode).
	ErrLexical
	// ErrGrammar: the token stream matches no production, or tokens remain
	// after the top-level expression.
	ErrGrammar
)

func (k ErrorKind) String() string {
	switch k {
	case ErrEncoding:
		return "encoding"
	case ErrLexical:
		return "lexical"
	case ErrGrammar:
		return "grammar"
	default:
		return "unknown"
	}
}

// Error is the structured failure returned by every parse entry point.
// Span is a byte range in the file that was parsed; for end-of-input it is
// empty and sits at the end of the parsed range.
type Error struct {
	Kind     ErrorKind
	Code     diag.Code
	Token    token.Token // offending token; Kind EOF for end of input
	Span     source.Span
	Message  string
	Expected []token.Kind
	Notes    []diag.Note
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s error %s at %d..%d: %s", e.Kind, e.Code.ID(), e.Span.Start, e.Span.End, e.Message)
	if len(e.Expected) > 0 {
		b.WriteString(" (expected ")
		b.WriteString(describeKinds(e.Expected))
		b.WriteString(")")
	}
	return b.String()
}

// Diagnostic converts the error into a diagnostic for diagfmt and bags.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code, e.Span, e.Message)
	d.Notes = append(d.Notes, e.Notes...)
	return d
}

// AsError extracts *Error from a wrapped error chain.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// FromEncodingError converts a decode failure of file into an *Error.
func FromEncodingError(file source.FileID, encErr *source.EncodingError) *Error {
	off, err := safecast.Conv[uint32](encErr.Offset)
	if err != nil {
		off = 0
	}
	return &Error{
		Kind:    ErrEncoding,
		Code:    diag.IOInvalidEncoding,
		Token:   token.Token{Kind: token.Invalid},
		Span:    source.Span{File: file, Start: off, End: off + 1},
		Message: fmt.Sprintf("invalid UTF-8 at byte %d", encErr.Offset),
	}
}

func describeKinds(kinds []token.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.Describe()
	}
	switch len(parts) {
	case 1:
		return parts[0]
	case 2:
		return parts[0] + " or " + parts[1]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + " or " + parts[len(parts)-1]
	}
}
