package parser

import (
	"strings"

	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/source"
	"gold/internal/token"
)

// parseHeader reads the function header out of the comments attached to fn.
// Only the trailing run of comments starting at the last
// "// <name> is a function." line belongs to the header; earlier comments are
// ordinary prose.
func (p *Parser) parseHeader(fnTok token.Token) (ast.Fn, bool) {
	comments := fnTok.LeadingComments()
	start := -1
	for i := len(comments) - 1; i >= 0; i-- {
		if isHeaderStart(comments[i].Text) {
			start = i
			break
		}
	}
	if start < 0 {
		p.fail(diag.SynMissingHeader, fnTok.Span,
			"expected a header comment \"// <name> is a function.\" before 'fn'")
		return ast.Fn{}, false
	}
	lines := comments[start:]

	var fn ast.Fn
	hs := newHeaderScanner(lines[0])
	name, nameSpan, ok := hs.ident()
	if !ok || !hs.words("is", "a", "function.") || !hs.end() {
		p.fail(diag.SynBadHeaderLine, hs.errSpan(), "expected \"// <name> is a function.\"")
		return ast.Fn{}, false
	}
	fn.Name, fn.NameSpan = name, nameSpan

	if len(lines) < 2 {
		p.fail(diag.SynBadHeaderLine, afterLine(lines[0]), "expected \"// Params:\" after the function name line")
		return ast.Fn{}, false
	}
	hs = newHeaderScanner(lines[1])
	if !hs.words("Params:") || !hs.end() {
		p.fail(diag.SynBadHeaderLine, hs.errSpan(), "expected \"// Params:\"")
		return ast.Fn{}, false
	}

	i := 2
	for ; i < len(lines); i++ {
		hs = newHeaderScanner(lines[i])
		if hs.peekWord("Returns:") {
			break
		}
		param, ok := p.parseParamLine(hs)
		if !ok {
			return ast.Fn{}, false
		}
		fn.Params = append(fn.Params, param)
	}
	if i >= len(lines) {
		last := lines[len(lines)-1]
		p.fail(diag.SynBadHeaderLine, afterLine(last), "expected \"// Returns: <Type>\" before 'fn'")
		return ast.Fn{}, false
	}

	hs = newHeaderScanner(lines[i])
	hs.words("Returns:")
	retName, retSpan, ok := hs.ident()
	if ok {
		hs.words(".") // точка в конце необязательна
	}
	if !ok || !hs.end() {
		p.fail(diag.SynBadHeaderLine, hs.errSpan(), "expected \"// Returns: <Type>\"")
		return ast.Fn{}, false
	}
	fn.Return = ast.TypeRef{Name: retName, Span: retSpan}

	if i+1 < len(lines) {
		extra := lines[i+1]
		p.fail(diag.SynBadHeaderLine, extra.Span, "unexpected comment between the function header and 'fn'")
		return ast.Fn{}, false
	}

	fn.HeaderSpan = lines[0].Span.Cover(lines[i].Span)
	return fn, true
}

// "// 'a' is of type Int."
func (p *Parser) parseParamLine(hs *headerScanner) (ast.Param, bool) {
	name, nameSpan, ok := hs.quoted()
	if !ok {
		p.fail(diag.SynBadHeaderLine, hs.errSpan(), "expected \"// '<param>' is of type <Type>.\" or \"// Returns: <Type>\"")
		return ast.Param{}, false
	}
	if !hs.words("is", "of", "type") {
		p.fail(diag.SynBadHeaderLine, hs.errSpan(), "expected \"is of type\" after parameter name")
		return ast.Param{}, false
	}
	typeName, typeSpan, ok := hs.ident()
	if !ok {
		p.fail(diag.SynBadHeaderLine, hs.errSpan(), "expected a type name")
		return ast.Param{}, false
	}
	if !hs.words(".") || !hs.end() {
		p.fail(diag.SynBadHeaderLine, hs.errSpan(), "expected '.' at the end of the parameter line")
		return ast.Param{}, false
	}
	return ast.Param{Name: name, NameSpan: nameSpan, Type: ast.TypeRef{Name: typeName, Span: typeSpan}}, true
}

func isHeaderStart(comment string) bool {
	hs := newHeaderScanner(token.Trivia{Text: comment})
	_, _, ok := hs.ident()
	return ok && hs.words("is", "a", "function.") && hs.end()
}

func afterLine(tr token.Trivia) source.Span {
	return source.Span{File: tr.Span.File, Start: tr.Span.End, End: tr.Span.End}
}

// headerScanner walks the text of one comment line keeping absolute offsets.
type headerScanner struct {
	text string
	base source.Span // span of the whole comment
	pos  int
}

func newHeaderScanner(tr token.Trivia) *headerScanner {
	hs := &headerScanner{text: tr.Text, base: tr.Span}
	hs.pos = len("//")
	if !strings.HasPrefix(tr.Text, "//") {
		hs.pos = 0
	}
	return hs
}

func (hs *headerScanner) skipSpaces() {
	for hs.pos < len(hs.text) && (hs.text[hs.pos] == ' ' || hs.text[hs.pos] == '\t') {
		hs.pos++
	}
}

func (hs *headerScanner) spanOf(start, end int) source.Span {
	return source.Span{
		File:  hs.base.File,
		Start: hs.base.Start + uint32(start), // #nosec G115 -- comment length fits the file
		End:   hs.base.Start + uint32(end),   // #nosec G115 -- comment length fits the file
	}
}

// errSpan указывает на остаток строки с текущей позиции
func (hs *headerScanner) errSpan() source.Span {
	hs.skipSpaces()
	end := len(hs.text)
	if end == hs.pos {
		return hs.spanOf(hs.pos, hs.pos)
	}
	return hs.spanOf(hs.pos, end)
}

func (hs *headerScanner) ident() (string, source.Span, bool) {
	hs.skipSpaces()
	start := hs.pos
	for hs.pos < len(hs.text) && isHeaderIdentByte(hs.text[hs.pos], hs.pos == start) {
		hs.pos++
	}
	if hs.pos == start {
		return "", source.Span{}, false
	}
	return hs.text[start:hs.pos], hs.spanOf(start, hs.pos), true
}

// quoted reads 'name' and returns the span of name without the quotes.
func (hs *headerScanner) quoted() (string, source.Span, bool) {
	hs.skipSpaces()
	if hs.pos >= len(hs.text) || hs.text[hs.pos] != '\'' {
		return "", source.Span{}, false
	}
	save := hs.pos
	hs.pos++
	name, sp, ok := hs.ident()
	if !ok || hs.pos >= len(hs.text) || hs.text[hs.pos] != '\'' {
		hs.pos = save
		return "", source.Span{}, false
	}
	hs.pos++
	return name, sp, true
}

// words consumes each word in order; on mismatch the position is where the
// mismatch happened.
func (hs *headerScanner) words(ws ...string) bool {
	for _, w := range ws {
		hs.skipSpaces()
		if !strings.HasPrefix(hs.text[hs.pos:], w) {
			return false
		}
		hs.pos += len(w)
	}
	return true
}

func (hs *headerScanner) peekWord(w string) bool {
	save := hs.pos
	ok := hs.words(w)
	hs.pos = save
	return ok
}

func (hs *headerScanner) end() bool {
	hs.skipSpaces()
	return hs.pos == len(hs.text)
}

func isHeaderIdentByte(b byte, first bool) bool {
	if b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') {
		return true
	}
	return !first && b >= '0' && b <= '9'
}
