package lexer

import (
	"errors"
	"fmt"
	"strconv"

	"quoted/internal/diag"
	"quoted/internal/token"
)

// scanNumber takes [0-9.e]* after the first digit and parses the capture as
// float64. A malformed capture ("1.2.3", "1e", "2e.5") becomes one Invalid
// token with LexBadNumber. A capture too large for float64 is +Inf.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isNumberRune(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	tok := lx.tokenFrom(token.Number, sp)

	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		lx.errLex(diag.LexBadNumber, sp, fmt.Sprintf("malformed number %q", tok.Text))
		tok.Kind = token.Invalid
		return tok
	}
	tok.Num = v
	return tok
}
