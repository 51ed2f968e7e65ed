package ast

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// EncodeOptions controls Encode.
type EncodeOptions struct {
	// KeywordSugar writes `key: value` for list elements that are 2-tuples
	// headed by an atom, the way dumps print keyword lists.
	KeywordSugar bool
}

// Encode writes e back in dump syntax. For every tree the parser can produce
// the output parses to an Equal tree. Negative numbers, -Inf, NaN and names
// containing '"' have no dump form and are written as is.
func Encode(e Expr, opts EncodeOptions) string {
	var b strings.Builder
	encode(&b, e, opts)
	return b.String()
}

func encode(b *strings.Builder, e Expr, opts EncodeOptions) {
	switch v := e.(type) {
	case Tuple:
		encodeSeq(b, '{', '}', v.Elems, opts, false)
	case Defmodule:
		encodeSeq(b, '{', '}', v.Elems, opts, false)
	case List:
		encodeSeq(b, '[', ']', v.Elems, opts, opts.KeywordSugar)
	case Atom:
		b.WriteByte(':')
		if v.Name == MapMarker || isBareName(v.Name) {
			b.WriteString(v.Name)
		} else {
			writeQuoted(b, v.Name)
		}
	case Binary:
		writeQuoted(b, v.Value)
	case Number:
		b.WriteString(FormatNumber(v.Value))
	case nil:
		b.WriteString("nil")
	}
}

// FormatNumber spells v the way a dump would. A literal too large for
// float64 lexes as +Inf, so +Inf is written as 1e999.
func FormatNumber(v float64) string {
	if math.IsInf(v, 1) {
		return "1e999"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func encodeSeq(b *strings.Builder, open, close byte, elems []Expr, opts EncodeOptions, sugar bool) {
	b.WriteByte(open)
	for i, el := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		if key, val, ok := KeywordPair(el); sugar && ok {
			b.WriteString(EncodeKey(key))
			b.WriteString(": ")
			encode(b, val, opts)
			continue
		}
		encode(b, el, opts)
	}
	b.WriteByte(close)
}

// KeywordPair splits a 2-tuple headed by an atom (other than the map
// marker) into the key and value of `key: value` sugar.
func KeywordPair(e Expr) (key string, val Expr, ok bool) {
	t, isTuple := e.(Tuple)
	if !isTuple || len(t.Elems) != 2 {
		return "", nil, false
	}
	a, isAtom := t.Elems[0].(Atom)
	if !isAtom || a.Name == MapMarker {
		return "", nil, false
	}
	return a.Name, t.Elems[1], true
}

// EncodeKey writes key as it appears before ':' in keyword sugar.
func EncodeKey(key string) string {
	if isBareName(key) {
		return key
	}
	return `"` + key + `"`
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	b.WriteString(s)
	b.WriteByte('"')
}

// isBareName reports whether s lexes back as exactly one identifier or
// reserved-word token.
func isBareName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && r >= '0' && r <= '9' {
			return false
		}
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

func isNameRune(r rune) bool {
	if r < 0x80 {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			strings.ContainsRune("_@!?=.|<>-%&", r)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
