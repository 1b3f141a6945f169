package parser

import (
	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/source"
	"gold/internal/token"
)

// parseBlock разбирает `{ stmt* }`. Точка с запятой между инструкциями
// необязательна.
func (p *Parser) parseBlock() ([]ast.ExprID, source.Span, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken)
	if !ok {
		return nil, source.Span{}, false
	}
	var stmts []ast.ExprID
	for !p.failed {
		for p.at(token.Semicolon) {
			p.advance()
		}
		switch p.peek().Kind {
		case token.RBrace:
			closeTok := p.advance()
			return stmts, open.Span.Cover(closeTok.Span), true
		case token.EOF:
			p.failWithNote(diag.SynUnclosedBrace, p.diagnosticSpan(), "expected '}', found end of file",
				open.Span, "block opened here")
			return nil, source.Span{}, false
		}
		stmt, ok := p.parseStmt()
		if !ok {
			return nil, source.Span{}, false
		}
		stmts = append(stmts, stmt)
	}
	return nil, source.Span{}, false
}

// parseStmt: `let x = e` | `x = e` | expr
func (p *Parser) parseStmt() (ast.ExprID, bool) {
	switch {
	case p.at(token.KwLet):
		letTok := p.advance()
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier)
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken); !ok {
			return ast.NoExprID, false
		}
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		span := letTok.Span.Cover(p.exprSpan(value))
		return p.arenas.Exprs.NewAssign(span, name.Text, name.Span, value), true

	case p.at(token.Ident) && p.peekN(1).Kind == token.Assign:
		name := p.advance()
		p.advance() // =
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		span := name.Span.Cover(p.exprSpan(value))
		return p.arenas.Exprs.NewReassign(span, name.Text, name.Span, value), true
	}
	return p.parseExpr()
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}
