package fuzztests

import (
	"testing"

	"gold/internal/diag"
	"gold/internal/lexer"
	"gold/internal/source"
	"gold/internal/token"
)

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampSeed(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.gld", input))
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: diag.NewBag(64)}})

		// каждый шаг потребляет хотя бы байт, иначе лексер завис
		prev := uint32(0)
		for i := 0; i <= len(input)+1; i++ {
			tok := lx.Next()
			if tok.Span.End < tok.Span.Start || int(tok.Span.End) > len(input) {
				t.Fatalf("token %s has bad span %v for %d bytes", tok.Kind, tok.Span, len(input))
			}
			if tok.Kind == token.EOF {
				return
			}
			if tok.Span.Start < prev {
				t.Fatalf("token %s moved backwards: %v after offset %d", tok.Kind, tok.Span, prev)
			}
			prev = tok.Span.End
		}
		t.Fatalf("lexer did not reach EOF within %d tokens", len(input)+2)
	})
}
