package lexer_test

import (
	"testing"

	"gold/internal/diag"
	"gold/internal/lexer"
	"gold/internal/source"
	"gold/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.gld", []byte(input)))
	bag := diag.NewBag(0)
	return lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexer_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{"empty", "", []token.Kind{token.EOF}},
		{"keywords", "fn let if elif else while is not", []token.Kind{
			token.KwFn, token.KwLet, token.KwIf, token.KwElif, token.KwElse, token.KwWhile, token.KwIs, token.KwNot, token.EOF,
		}},
		{"operators", "+ - * / ^ = < <= > >= , ; ( ) { } [ ]", []token.Kind{
			token.Plus, token.Minus, token.Star, token.Slash, token.Caret, token.Assign,
			token.Lt, token.LtEq, token.Gt, token.GtEq, token.Comma, token.Semicolon,
			token.LParen, token.RParen, token.LBrace, token.RBrace, token.LBracket, token.RBracket, token.EOF,
		}},
		{"numbers", "1 1_000 2.5 3e2 4.", []token.Kind{
			token.IntLit, token.IntLit, token.FloatLit, token.FloatLit, token.IntLit, token.Invalid, token.EOF,
		}},
		{"call", `println("hi")`, []token.Kind{token.Ident, token.LParen, token.StringLit, token.RParen, token.EOF}},
		{"unicode ident", "значение + 1", []token.Kind{token.Ident, token.Plus, token.IntLit, token.EOF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, _ := makeTestLexer(tt.input)
			got := kinds(lx.All())
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: got %v, want %v (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestLexer_HeaderCommentsBecomeTrivia(t *testing.T) {
	src := "// add is a function.\n// Params:\n// 'a' is of type Int.\n// Returns: Int\nfn { a }"
	lx, bag := makeTestLexer(src)
	tok := lx.Next()
	if tok.Kind != token.KwFn {
		t.Fatalf("first token = %v, want fn", tok.Kind)
	}
	comments := tok.LeadingComments()
	if len(comments) != 4 {
		t.Fatalf("got %d comments, want 4", len(comments))
	}
	if comments[2].Text != "// 'a' is of type Int." {
		t.Fatalf("comment text = %q", comments[2].Text)
	}
	if got := src[comments[0].Span.Start:comments[0].Span.End]; got != comments[0].Text {
		t.Fatalf("span/text mismatch: %q vs %q", got, comments[0].Text)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestLexer_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"unterminated string", `"abc`, diag.LexUnterminatedString},
		{"newline in string", "\"ab\ncd\"", diag.LexUnterminatedString},
		{"bad escape", `"a\qb"`, diag.LexBadEscape},
		{"unknown char", "a $ b", diag.LexUnknownChar},
		{"bad exponent", "1e+", diag.LexBadNumber},
		{"letters after digits", "12abc", diag.LexBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, bag := makeTestLexer(tt.input)
			lx.All()
			if bag.Len() == 0 {
				t.Fatal("expected a diagnostic")
			}
			if got := bag.Items()[0].Code; got != tt.code {
				t.Fatalf("code = %v, want %v", got.ID(), tt.code.ID())
			}
		})
	}
}

func TestLexer_PeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("x = 1")
	if lx.Peek().Kind != token.Ident || lx.Peek().Kind != token.Ident {
		t.Fatal("Peek must be idempotent")
	}
	if lx.Next().Text != "x" || lx.Next().Kind != token.Assign {
		t.Fatal("Next after Peek returned wrong tokens")
	}
}

func TestUnquote(t *testing.T) {
	tests := map[string]string{
		`"plain"`:     "plain",
		`"a\nb"`:      "a\nb",
		`"q\"q"`:      `q"q`,
		`"tab\there"`: "tab\there",
		`"keep\q"`:    `keep\q`,
		"\"e\u0301\"": "\u00e9",
	}
	for raw, want := range tests {
		if got := lexer.Unquote(raw); got != want {
			t.Errorf("Unquote(%q) = %q, want %q", raw, got, want)
		}
	}
}
