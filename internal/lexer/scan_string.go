package lexer

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"gold/internal/diag"
	"gold/internal/token"
)

// scanString сканирует "...". Экранирование: \n \t \" \\ \0.
// Перевод строки внутри литерала - ошибка.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: lx.text(sp)}
		case '\\':
			escStart := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				continue
			}
			if _, ok := escapeValue(lx.cursor.Bump()); !ok {
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "unknown escape sequence "+lx.text(lx.cursor.SpanFrom(escStart)))
			}
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		default:
			lx.cursor.Bump()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

func escapeValue(b byte) (byte, bool) {
	switch b {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '0':
		return 0, true
	}
	return 0, false
}

// Unquote decodes the text of a StringLit token and returns its value in
// Unicode normalization form C. Unknown escapes are kept verbatim (the lexer
// already reported them).
func Unquote(raw string) string {
	raw = strings.TrimPrefix(raw, `"`)
	raw = strings.TrimSuffix(raw, `"`)
	if !strings.ContainsRune(raw, '\\') {
		return norm.NFC.String(raw)
	}
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			b.WriteByte(c)
			continue
		}
		if v, ok := escapeValue(raw[i+1]); ok {
			b.WriteByte(v)
		} else {
			b.WriteByte(c)
			b.WriteByte(raw[i+1])
		}
		i++
	}
	return norm.NFC.String(b.String())
}
