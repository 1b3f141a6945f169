package token

// Kind classifies a token.
type Kind uint8

const (
	Invalid Kind = iota
	EOF

	Ident
	IntLit
	FloatLit
	StringLit

	KwFn
	KwLet
	KwIf
	KwElif
	KwElse
	KwWhile
	KwIs
	KwNot

	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Caret     // ^
	Assign    // =
	Lt        // <
	LtEq      // <=
	Gt        // >
	GtEq      // >=
	Comma     // ,
	Semicolon // ;
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	FloatLit:  "FloatLit",
	StringLit: "StringLit",
	KwFn:      "fn",
	KwLet:     "let",
	KwIf:      "if",
	KwElif:    "elif",
	KwElse:    "else",
	KwWhile:   "while",
	KwIs:      "is",
	KwNot:     "not",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Caret:     "^",
	Assign:    "=",
	Lt:        "<",
	LtEq:      "<=",
	Gt:        ">",
	GtEq:      ">=",
	Comma:     ",",
	Semicolon: ";",
	LParen:    "(",
	RParen:    ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Describe renders the kind for "expected X, found Y" messages.
func (k Kind) Describe() string {
	switch k {
	case EOF:
		return "end of file"
	case Ident:
		return "identifier"
	case IntLit, FloatLit:
		return "number"
	case StringLit:
		return "string literal"
	case Invalid:
		return "invalid token"
	}
	return "'" + k.String() + "'"
}
