package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/lexer"
	"gold/internal/parser"
	"gold/internal/source"
	"gold/internal/testkit"
)

type parsed struct {
	b    *ast.Builder
	src  *source.File
	file ast.FileID
	bag  *diag.Bag
	ok   bool
}

func parseSource(t *testing.T, input string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("test.gld", []byte(input)))
	bag := diag.NewBag(0)
	r := diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(lexer.New(sf, lexer.Options{Reporter: r}), b, parser.Options{Reporter: r})
	return parsed{b: b, src: sf, file: res.File, bag: bag, ok: res.OK}
}

// mustParse падает, если есть диагностики, и проверяет инварианты спанов
func mustParse(t *testing.T, input string) parsed {
	t.Helper()
	p := parseSource(t, input)
	if !p.ok || p.bag.Len() != 0 {
		t.Fatalf("unexpected parse failure: %s", diagnosticsSummary(p.bag))
	}
	if err := testkit.CheckSpanInvariants(p.b, p.file, p.src); err != nil {
		t.Fatalf("span invariants: %v", err)
	}
	return p
}

func (p parsed) fn(i int) *ast.Fn {
	return p.b.Fns.Get(p.b.Files.Get(p.file).Fns[i])
}

func (p parsed) text(sp source.Span) string {
	return p.src.Text(sp)
}

// render печатает выражение в префиксной форме для сравнения структуры
func (p parsed) render(id ast.ExprID) string {
	ex := p.b.Exprs
	e := ex.Get(id)
	switch e.Kind {
	case ast.ExprLit:
		lit, _ := ex.Literal(id)
		return lit.Raw
	case ast.ExprVar:
		v, _ := ex.Var(id)
		return v.Name
	case ast.ExprBinary:
		bin, _ := ex.Binary(id)
		return fmt.Sprintf("(%s %s %s)", bin.Op, p.render(bin.Left), p.render(bin.Right))
	case ast.ExprGroup:
		g, _ := ex.Group(id)
		return p.render(g.Inner)
	case ast.ExprCall:
		c, _ := ex.Call(id)
		args := make([]string, len(c.Args))
		for i, a := range c.Args {
			args[i] = p.render(a)
		}
		return c.Name + "(" + strings.Join(args, ", ") + ")"
	case ast.ExprList:
		l, _ := ex.List(id)
		elems := make([]string, len(l.Elems))
		for i, a := range l.Elems {
			elems[i] = p.render(a)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case ast.ExprAssign, ast.ExprReassign:
		a, _ := ex.Assign(id)
		return fmt.Sprintf("(%s %s %s)", e.Kind, a.Name, p.render(a.Value))
	}
	return e.Kind.String()
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// wrap оборачивает тело в функцию без параметров
func wrap(body string) string {
	return "// f is a function.\n// Params:\n// Returns: Int\nfn {\n" + body + "\n}\n"
}
