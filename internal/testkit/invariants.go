package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"quoted/internal/ast"
	"quoted/internal/lexer"
	"quoted/internal/parser"
	"quoted/internal/source"
	"quoted/internal/token"
)

// CheckTokenSpans runs the span invariants on a token stream lexed from
// within (the whole file when within is the zero span):
// 1) every span points at sf and lies inside within
// 2) spans are ordered and do not overlap
// 3) the stream ends with exactly one EOF, whose span is empty
func CheckTokenSpans(tokens []token.Token, sf *source.File, within source.Span) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if within == (source.Span{}) {
		n, err := safecast.Conv[uint32](len(sf.Content))
		if err != nil {
			return fmt.Errorf("len content overflow: %w", err)
		}
		within = source.Span{File: sf.ID, End: n}
	}
	if len(tokens) == 0 {
		return fmt.Errorf("empty token stream")
	}

	var prevEnd = within.Start
	for i, tok := range tokens {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if !within.Contains(sp) {
			return fmt.Errorf("token %d (%s): span %v outside %v", i, tok.Kind, sp, within)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("token %d (%s): span %v overlaps previous end %d", i, tok.Kind, sp, prevEnd)
		}
		prevEnd = sp.End

		last := i == len(tokens)-1
		if tok.Kind.IsEOF() != last {
			return fmt.Errorf("token %d: EOF must be last and only once", i)
		}
		if tok.Kind.IsEOF() && !sp.Empty() {
			return fmt.Errorf("EOF span is not empty: %v", sp)
		}
		if !tok.Kind.IsEOF() && sp.Empty() {
			return fmt.Errorf("token %d (%s): empty span", i, tok.Kind)
		}
	}
	return nil
}

// CheckRangeLexing verifies that lexing span of sf yields the same tokens
// as lexing the span's text as a standalone file, with spans offset by
// span.Start. Diagnostics are not compared.
func CheckRangeLexing(sf *source.File, span source.Span, mode lexer.Mode) error {
	ranged := lexer.NewRange(sf, span, lexer.Options{Mode: mode}).All()
	if err := CheckTokenSpans(ranged, sf, span); err != nil {
		return fmt.Errorf("range lexing: %w", err)
	}

	fs := source.NewFileSet()
	alone := fs.Get(fs.AddVirtual("range", span.Bytes(sf.Content)))
	standalone := lexer.New(alone, lexer.Options{Mode: mode}).All()

	if len(ranged) != len(standalone) {
		return fmt.Errorf("token count differs: range=%d standalone=%d", len(ranged), len(standalone))
	}
	for i := range ranged {
		r, s := ranged[i], standalone[i]
		rel := r.Span.ShiftLeft(span.Start)
		if r.Kind != s.Kind || r.Text != s.Text || rel.Start != s.Span.Start || rel.End != s.Span.End {
			return fmt.Errorf("token %d: range=%s %q %v, standalone=%s %q %v",
				i, r.Kind, r.Text, rel, s.Kind, s.Text, s.Span)
		}
	}
	return nil
}

// CheckRoundTrip encodes e in dump syntax (with and without keyword
// sugar) and checks that a strict re-parse gives an equal tree.
func CheckRoundTrip(e ast.Expr) error {
	for _, sugar := range []bool{false, true} {
		text := ast.Encode(e, ast.EncodeOptions{KeywordSugar: sugar})
		back, err := parser.ParseString(text, parser.Options{Mode: lexer.ModeStrict})
		if err != nil {
			return fmt.Errorf("re-parse of %q (sugar=%v): %w", text, sugar, err)
		}
		if !ast.Equal(e, back) {
			return fmt.Errorf("round trip mismatch (sugar=%v): %q", sugar, text)
		}
	}
	return nil
}
