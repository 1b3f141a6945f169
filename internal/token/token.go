package token

import (
	"gold/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwFn && t.Kind <= KwNot
}

// LeadingComments returns the line comments attached to the token, in order.
func (t Token) LeadingComments() []Trivia {
	var out []Trivia
	for _, tr := range t.Leading {
		if tr.Kind == TriviaLineComment {
			out = append(out, tr)
		}
	}
	return out
}
