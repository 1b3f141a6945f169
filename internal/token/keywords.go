package token

var keywords = map[string]Kind{
	"fn":    KwFn,
	"let":   KwLet,
	"if":    KwIf,
	"elif":  KwElif,
	"else":  KwElse,
	"while": KwWhile,
	"is":    KwIs,
	"not":   KwNot,
}

// LookupKeyword returns the keyword kind for ident, if any.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
