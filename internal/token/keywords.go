package token

var keywords = map[string]Kind{
	"nil":    KwNil,
	"true":   KwTrue,
	"false":  KwFalse,
	"Access": KwAccess,
	"Kernel": KwKernel,
}

// LookupKeyword reports the kind of a reserved word. Case matters:
// "Nil" and "access" are plain identifiers.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
