package testkit

import (
	"testing"

	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/lexer"
	"gold/internal/parser"
	"gold/internal/source"
)

// Unit is one parsed in-memory source file.
type Unit struct {
	FS      *source.FileSet
	Src     *source.File
	Builder *ast.Builder
	File    ast.FileID
	Bag     *diag.Bag
}

// Reporter returns a reporter appending to u.Bag.
func (u *Unit) Reporter() diag.Reporter {
	return diag.BagReporter{Bag: u.Bag}
}

// Golden renders the collected diagnostics with notes.
func (u *Unit) Golden() string {
	return diag.FormatGoldenDiagnostics(u.Bag.Items(), u.FS, true)
}

// Text returns the source text under sp.
func (u *Unit) Text(sp source.Span) string {
	return u.Src.Text(sp)
}

// MustParse parses src as "test.gld" and fails the test on any syntax error.
func MustParse(tb testing.TB, src string) *Unit {
	tb.Helper()
	u := &Unit{FS: source.NewFileSet(), Bag: diag.NewBag(0)}
	u.Src = u.FS.Get(u.FS.AddVirtual("test.gld", []byte(src)))
	u.Builder = ast.NewBuilder(ast.Hints{})
	r := u.Reporter()
	res := parser.ParseFile(lexer.New(u.Src, lexer.Options{Reporter: r}), u.Builder, parser.Options{Reporter: r})
	if !res.OK {
		tb.Fatalf("parse failed:\n%s", u.Golden())
	}
	if err := CheckSpanInvariants(u.Builder, res.File, u.Src); err != nil {
		tb.Fatalf("span invariants: %v", err)
	}
	u.File = res.File
	return u
}

// FnByName looks up a function item by name.
func (u *Unit) FnByName(name string) (ast.FnID, *ast.Fn) {
	for _, id := range u.Builder.Files.Get(u.File).Fns {
		if fn := u.Builder.Fns.Get(id); fn != nil && fn.Name == name {
			return id, fn
		}
	}
	return ast.NoFnID, nil
}
