package parser

import (
	"gold/internal/diag"
	"gold/internal/source"
	"gold/internal/token"
)

func (p *Parser) peek() token.Token {
	return p.toks[p.pos]
}

// peekN смотрит на n токенов вперёд; за концом всегда EOF.
func (p *Parser) peekN(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan - для EOF указываем сразу за последним токеном
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect - ожидаем конкретный токен, иначе ошибка "expected X, found Y".
func (p *Parser) expect(k token.Kind, code diag.Code) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.fail(code, p.diagnosticSpan(), "expected "+k.Describe()+", found "+p.peek().Kind.Describe())
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}, false
}

// fail репортит первую синтаксическую ошибку и останавливает разбор.
// Invalid-токены уже зарепорчены лексером, повторно не сообщаем.
func (p *Parser) fail(code diag.Code, sp source.Span, msg string) {
	if p.failed {
		return
	}
	p.failed = true
	if p.peek().Kind == token.Invalid {
		return
	}
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, code, sp, msg).Emit()
	}
}

// failWithNote is fail plus a secondary span, e.g. the unclosed opener.
func (p *Parser) failWithNote(code diag.Code, sp source.Span, msg string, noteSpan source.Span, note string) {
	if p.failed {
		return
	}
	p.failed = true
	if p.peek().Kind == token.Invalid {
		return
	}
	if p.opts.Reporter != nil {
		diag.ReportError(p.opts.Reporter, code, sp, msg).WithNote(noteSpan, note).Emit()
	}
}
