// Package parser turns gold tokens into an ast.File.
//
// A file is a sequence of functions. Each function is a comment header
// followed by `fn { ... }`:
//
//	// add is a function.
//	// Params:
//	// 'a' is of type Int.
//	// 'b' is of type Int.
//	// Returns: Int
//	fn {
//	  a + b
//	}
//
// The header comments reach the parser as leading trivia of the `fn` token.
// Parsing stops at the first syntax error: there is no partial AST.
package parser

import (
	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/lexer"
	"gold/internal/source"
	"gold/internal/token"
)

type Options struct {
	Reporter diag.Reporter
}

type Result struct {
	File ast.FileID // ast.NoFileID when parsing failed
	OK   bool
}

// Parser - состояние парсера на один файл
type Parser struct {
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	file     ast.FileID
	opts     Options
	lastSpan source.Span // span последнего съеденного токена
	failed   bool
}

// ParseFile lexes and parses the whole input of lx.
func ParseFile(lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	p := Parser{
		toks:   lx.All(),
		arenas: arenas,
		opts:   opts,
	}
	eof := p.toks[len(p.toks)-1].Span
	p.file = arenas.NewFile(source.Span{File: eof.File, Start: 0, End: eof.End})

	p.parseFns()
	if p.failed {
		return Result{File: ast.NoFileID}
	}
	return Result{File: p.file, OK: true}
}

// parseFns - основной цикл верхнего уровня.
func (p *Parser) parseFns() {
	for !p.at(token.EOF) && !p.failed {
		if !p.at(token.KwFn) {
			p.fail(diag.SynUnexpectedTopLevel, p.peek().Span,
				"expected function header and 'fn', found "+p.peek().Kind.Describe())
			return
		}
		fn, ok := p.parseFn()
		if !ok {
			return
		}
		p.arenas.PushFn(p.file, fn)
	}
	if p.failed {
		return
	}
	if len(p.arenas.Files.Get(p.file).Fns) == 0 {
		sp := p.peek().Span
		if comments := p.peek().LeadingComments(); len(comments) > 0 {
			sp = comments[0].Span.Cover(comments[len(comments)-1].Span)
		}
		p.fail(diag.SynEmptyFile, sp, "file declares no functions")
	}
}

// parseFn разбирает заголовок из trivia токена `fn` и тело.
func (p *Parser) parseFn() (ast.Fn, bool) {
	fnTok := p.peek()
	fn, ok := p.parseHeader(fnTok)
	if !ok {
		return ast.Fn{}, false
	}
	p.advance() // fn
	body, bodySpan, ok := p.parseBlock()
	if !ok {
		return ast.Fn{}, false
	}
	fn.Body = body
	fn.BodySpan = fnTok.Span.Cover(bodySpan)
	fn.Span = fn.HeaderSpan.Cover(fn.BodySpan)
	return fn, true
}
