package lexer

import (
	"fmt"

	"quoted/internal/diag"
	"quoted/internal/source"
)

// Mode выбирает поведение на символах, которые не начинают ни один токен.
type Mode uint8

const (
	// ModeLenient молча пропускает такие символы (как исходный дампер).
	ModeLenient Mode = iota
	// ModeStrict сообщает LexUnknownChar и выдаёт Invalid. Пробельные символы
	// пропускаются в обоих режимах.
	ModeStrict
)

func (m Mode) String() string {
	switch m {
	case ModeLenient:
		return "lenient"
	case ModeStrict:
		return "strict"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode converts a config/flag value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "lenient":
		return ModeLenient, nil
	case "strict":
		return ModeStrict, nil
	default:
		return ModeLenient, fmt.Errorf("unknown lexer mode %q (want lenient|strict)", s)
	}
}

type Options struct {
	Reporter diag.Reporter // может быть nil, тогда ошибки игнорируем (но продолжаем лексить)
	Mode     Mode
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil)
	}
}
