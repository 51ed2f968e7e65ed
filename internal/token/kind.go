package token

// Kind represents the category of a dump token.
type Kind uint8

const (
	// Invalid marks a token the lexer could not complete (bad number, unterminated string,
	// unknown character in strict mode). The lexer has already reported why.
	Invalid Kind = iota
	// EOF marks the end of the input.
	EOF

	// LBrace represents the tuple opener.
	LBrace // {
	// RBrace represents the tuple closer.
	RBrace // }
	// LBracket represents the list opener.
	LBracket // [
	// RBracket represents the list closer.
	RBracket // ]
	// Comma separates elements.
	Comma // ,
	// Colon prefixes atoms and separates sugar keys from values.
	Colon // :

	// EmptyMap is the 3-character marker `%{}`.
	EmptyMap // %{}

	// Number is a numeric literal; its value is Token.Num.
	Number
	// String is a double-quoted literal captured verbatim.
	String
	// Ident is a bare identifier.
	Ident

	// KwNil represents the reserved word 'nil'.
	KwNil // nil
	// KwTrue represents the reserved word 'true'.
	KwTrue // true
	// KwFalse represents the reserved word 'false'.
	KwFalse // false
	// KwAccess represents the module alias 'Access'.
	KwAccess // Access
	// KwKernel represents the module alias 'Kernel'.
	KwKernel // Kernel
)

var kindNames = [...]string{
	Invalid:  "Invalid",
	EOF:      "EOF",
	LBrace:   "LBrace",
	RBrace:   "RBrace",
	LBracket: "LBracket",
	RBracket: "RBracket",
	Comma:    "Comma",
	Colon:    "Colon",
	EmptyMap: "EmptyMap",
	Number:   "Number",
	String:   "String",
	Ident:    "Ident",
	KwNil:    "KwNil",
	KwTrue:   "KwTrue",
	KwFalse:  "KwFalse",
	KwAccess: "KwAccess",
	KwKernel: "KwKernel",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Describe renders the kind the way it looks in a dump, for diagnostics
// ("expected '}'", "unexpected identifier").
func (k Kind) Describe() string {
	switch k {
	case EOF:
		return "end of input"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case Comma:
		return "','"
	case Colon:
		return "':'"
	case EmptyMap:
		return "'%{}'"
	case Number:
		return "number"
	case String:
		return "string"
	case Ident:
		return "identifier"
	case KwNil:
		return "'nil'"
	case KwTrue:
		return "'true'"
	case KwFalse:
		return "'false'"
	case KwAccess:
		return "'Access'"
	case KwKernel:
		return "'Kernel'"
	default:
		return "invalid token"
	}
}

// IsEOF reports whether the kind marks end of input.
func (k Kind) IsEOF() bool { return k == EOF }
