package lexer

import (
	"strings"
	"unicode"
)

// символы, которые помимо букв и цифр встречаются в именах дампа (a.b, ==, |>, %Struct)
const identExtra = "_@!?=.|<>-%&"

func isIdentRune(r rune) bool {
	if r < 0x80 {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || isDigit(r) || strings.ContainsRune(identExtra, r)
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// число: цифры, '.', 'e' (знак и 'E' не входят)
func isNumberRune(r rune) bool { return isDigit(r) || r == '.' || r == 'e' }

func isPunct(r rune) bool {
	switch r {
	case '{', '}', '[', ']', ',', ':':
		return true
	}
	return false
}
