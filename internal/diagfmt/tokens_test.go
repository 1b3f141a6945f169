package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"gold/internal/source"
	"gold/internal/token"
)

func sampleTokens() ([]token.Token, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.gld", []byte("fn f\n"))
	sp := func(a, b uint32) source.Span { return source.Span{File: id, Start: a, End: b} }
	return []token.Token{
		{Kind: token.KwFn, Span: sp(0, 2), Text: "fn"},
		{Kind: token.Ident, Span: sp(3, 4), Text: "f", Leading: []token.Trivia{{Kind: token.TriviaSpace, Span: sp(2, 3), Text: " "}}},
		{Kind: token.EOF, Span: sp(5, 5), Leading: []token.Trivia{{Kind: token.TriviaNewline, Span: sp(4, 5), Text: "\n"}}},
		{Kind: token.Ident, Span: sp(5, 5), Text: "after-eof"},
	}, fs
}

func TestFormatTokensPretty(t *testing.T) {
	toks, fs := sampleTokens()
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	want := "" +
		"  1: fn           \"fn\" at 1:1-1:3\n" +
		"  2: Ident        \"f\" at 1:4-1:5 (leading: space)\n" +
		"  3: EOF          at 2:1-2:1 (leading: newline)\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatTokensJSON(t *testing.T) {
	toks, fs := sampleTokens()
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	var out []TokenOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 tokens (stop at EOF), got %d", len(out))
	}
	if out[1].Kind != "Ident" || out[1].Col != 4 || len(out[1].Leading) != 1 || out[1].Leading[0] != "space" {
		t.Errorf("unexpected ident token: %+v", out[1])
	}
	if out[2].Line != 2 || out[2].Text != "" {
		t.Errorf("unexpected EOF token: %+v", out[2])
	}
}
