package sema

import (
	"fmt"

	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/source"
	"gold/internal/trace"
	"gold/internal/types"
)

// checkFn walks one body inside a fresh frame seeded with the parameters.
func (tc *typeChecker) checkFn(id ast.FnID, fn *ast.Fn) {
	sig := tc.result.FnSigs[id]
	if sig == nil {
		return
	}
	span := trace.Begin(tc.tracer, trace.ScopeNode, "sema.fn", tc.parent).WithExtra("fn", fn.Name)
	defer span.End("")

	tc.env.PushFrame()
	for i, p := range fn.Params {
		tc.env.Bind(p.Name, VariableBinding{Type: sig.Params[i].Type, Span: p.NameSpan})
	}

	bodyType := tc.checkBlock(fn.Body)
	tc.checkReturn(fn, sig, bodyType)

	tc.result.Scopes[id] = tc.env.PopFrame()
}

func (tc *typeChecker) checkReturn(fn *ast.Fn, sig *FunctionSignature, bodyType types.Type) {
	if sig.Return == types.Void || bodyType.AssignableTo(sig.Return) {
		return
	}
	at := fn.BodySpan
	if n := len(fn.Body); n > 0 {
		at = tc.exprSpan(fn.Body[n-1])
	}
	tc.report(diag.SemaReturnTypeMismatch, at,
		fmt.Sprintf("function `%s` returns %s, but its body evaluates to %s", fn.Name, sig.Return, bodyType)).
		WithNote(fn.Return.Span, "return type declared here").
		WithPayload(sig.Return.String(), bodyType.String()).
		Emit()
}

// checkBlock checks statements in order; the block has the type of its last
// statement, Void when empty.
func (tc *typeChecker) checkBlock(stmts []ast.ExprID) types.Type {
	last := types.Void
	for _, stmt := range stmts {
		last = tc.check(stmt)
	}
	return last
}

func (tc *typeChecker) exprSpan(id ast.ExprID) source.Span {
	if e := tc.builder.Exprs.Get(id); e != nil {
		return e.Span
	}
	return source.Span{}
}

func (tc *typeChecker) report(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	tc.result.Diagnosed = true
	return diag.ReportError(tc.reporter, code, sp, msg)
}
