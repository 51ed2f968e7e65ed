package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"quoted/internal/source"
	"quoted/internal/token"
)

type TokenOutput struct {
	Kind   string      `json:"kind"`
	Text   string      `json:"text,omitempty"`
	Number *float64    `json:"number,omitempty"`
	Span   source.Span `json:"span"`
}

// FormatTokensPretty writes one token per line with its resolved position.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-10s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		if tok.Kind == token.Number {
			fmt.Fprintf(w, " = %g", tok.Num)
		}
		fmt.Fprintf(w, " at %s\n", formatSpan(tok.Span, fs))

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON writes tokens as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Span: tok.Span,
		}
		// +Inf has no JSON form; the text still carries the literal
		if tok.Kind == token.Number && !math.IsInf(tok.Num, 0) {
			v := tok.Num
			out.Number = &v
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
