package parser

import (
	"strconv"
	"strings"

	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/lexer"
	"gold/internal/source"
	"gold/internal/token"
)

func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBinaryExpr(precComparison)
}

// parseBinaryExpr - классический precedence climbing.
func (p *Parser) parseBinaryExpr(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parsePrimaryExpr()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		op, prec, rightAssoc, width := p.binaryOp()
		if prec < minPrec {
			return left, true
		}
		for range width {
			p.advance()
		}
		next := prec + 1
		if rightAssoc {
			next = prec
		}
		right, ok := p.parseBinaryExpr(next)
		if !ok {
			return ast.NoExprID, false
		}
		span := p.exprSpan(left).Cover(p.exprSpan(right))
		left = p.arenas.Exprs.NewBinary(span, op, left, right)
	}
}

func (p *Parser) parsePrimaryExpr() (ast.ExprID, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(strings.ReplaceAll(tok.Text, "_", ""), 10, 64)
		if err != nil {
			p.fail(diag.LexBadNumber, tok.Span, "integer literal "+tok.Text+" does not fit in 64 bits")
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewIntLit(tok.Span, tok.Text, v), true

	case token.FloatLit:
		p.advance()
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok.Text, "_", ""), 64)
		if err != nil {
			p.fail(diag.LexBadNumber, tok.Span, "malformed float literal "+tok.Text)
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewFloatLit(tok.Span, tok.Text, v), true

	case token.StringLit:
		p.advance()
		return p.arenas.Exprs.NewStringLit(tok.Span, tok.Text, lexer.Unquote(tok.Text)), true

	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			return p.parseCallExpr(tok)
		}
		return p.arenas.Exprs.NewVar(tok.Span, tok.Text), true

	case token.LParen:
		open := p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		closeTok, ok := p.expectClosing(token.RParen, diag.SynUnclosedParen, open.Span)
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewGroup(open.Span.Cover(closeTok.Span), inner), true

	case token.LBracket:
		return p.parseListExpr()

	case token.KwIf:
		return p.parseIfExpr()

	case token.KwWhile:
		return p.parseWhileExpr()
	}

	p.fail(diag.SynExpectExpression, p.diagnosticSpan(), "expected expression, found "+tok.Kind.Describe())
	return ast.NoExprID, false
}

// name(args...)
func (p *Parser) parseCallExpr(name token.Token) (ast.ExprID, bool) {
	open := p.advance() // (
	args, closeTok, ok := p.parseExprList(token.RParen, diag.SynUnclosedParen, open.Span)
	if !ok {
		return ast.NoExprID, false
	}
	argsSpan := open.Span.Cover(closeTok.Span)
	return p.arenas.Exprs.NewCall(name.Span.Cover(argsSpan), name.Text, name.Span, args, argsSpan), true
}

func (p *Parser) parseListExpr() (ast.ExprID, bool) {
	open := p.advance() // [
	elems, closeTok, ok := p.parseExprList(token.RBracket, diag.SynUnclosedBracket, open.Span)
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewList(open.Span.Cover(closeTok.Span), elems), true
}

// parseExprList разбирает `e, e, ...` до закрывающего токена; висячая
// запятая разрешена.
func (p *Parser) parseExprList(closing token.Kind, code diag.Code, open source.Span) ([]ast.ExprID, token.Token, bool) {
	var out []ast.ExprID
	for !p.at(closing) {
		e, ok := p.parseExpr()
		if !ok {
			return nil, token.Token{}, false
		}
		out = append(out, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	closeTok, ok := p.expectClosing(closing, code, open)
	return out, closeTok, ok
}

func (p *Parser) expectClosing(k token.Kind, code diag.Code, open source.Span) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.failWithNote(code, p.diagnosticSpan(), "expected "+k.Describe()+", found "+p.peek().Kind.Describe(),
		open, "opened here")
	return token.Token{}, false
}

// if c { ... } elif c { ... } else { ... }
func (p *Parser) parseIfExpr() (ast.ExprID, bool) {
	ifTok := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	body, bodySpan, ok := p.parseBlock()
	if !ok {
		return ast.NoExprID, false
	}
	span := ifTok.Span.Cover(bodySpan)

	var elifs []ast.ExprID
	for p.at(token.KwElif) {
		elifTok := p.advance()
		c, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		b, bSpan, ok := p.parseBlock()
		if !ok {
			return ast.NoExprID, false
		}
		elifSpan := elifTok.Span.Cover(bSpan)
		elifs = append(elifs, p.arenas.Exprs.NewElif(elifSpan, c, b))
		span = span.Cover(elifSpan)
	}

	els := ast.NoExprID
	if p.at(token.KwElse) {
		elseTok := p.advance()
		b, bSpan, ok := p.parseBlock()
		if !ok {
			return ast.NoExprID, false
		}
		elseSpan := elseTok.Span.Cover(bSpan)
		els = p.arenas.Exprs.NewElse(elseSpan, b)
		span = span.Cover(elseSpan)
	}
	return p.arenas.Exprs.NewIf(span, cond, body, elifs, els), true
}

func (p *Parser) parseWhileExpr() (ast.ExprID, bool) {
	whileTok := p.advance()
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	body, bodySpan, ok := p.parseBlock()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewWhile(whileTok.Span.Cover(bodySpan), cond, body), true
}
