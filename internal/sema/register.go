package sema

import (
	"fmt"
	"strings"

	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/types"
)

// register builds the signature of fn and stores it in the environment.
// A second declaration under the same name is reported and the first one wins.
func (tc *typeChecker) register(id ast.FnID, fn *ast.Fn) {
	sig := &FunctionSignature{
		Name:     fn.Name,
		Return:   tc.resolveType(fn.Return),
		DeclSpan: fn.NameSpan,
		Fn:       id,
	}
	sig.Params = make([]ParamSig, 0, len(fn.Params))
	for _, p := range fn.Params {
		sig.Params = append(sig.Params, ParamSig{
			Name: p.Name,
			Type: tc.resolveType(p.Type),
			Span: p.Type.Span,
		})
	}
	tc.result.FnSigs[id] = sig

	if !IsBuiltin(fn.Name) && IsReserved(fn.Name) {
		tc.report(diag.SemaDuplicateFunction, fn.NameSpan,
			fmt.Sprintf("function `%s` is already declared by the runtime", fn.Name)).Emit()
		return
	}
	prev, ok := tc.env.Declare(sig)
	if ok {
		return
	}
	if prev.Builtin {
		tc.report(diag.SemaDuplicateFunction, fn.NameSpan,
			fmt.Sprintf("function `%s` is already declared as a builtin", fn.Name)).Emit()
		return
	}
	tc.report(diag.SemaDuplicateFunction, fn.NameSpan,
		fmt.Sprintf("function `%s` is already declared", fn.Name)).
		WithNote(prev.DeclSpan, "first declared here").
		Emit()
}

// resolveType maps a header type name to a types.Type. Unknown names are
// reported and become Invalid.
func (tc *typeChecker) resolveType(ref ast.TypeRef) types.Type {
	if t, ok := types.Lookup(ref.Name); ok {
		return t
	}
	tc.report(diag.SemaUnknownTypeName, ref.Span, fmt.Sprintf("unknown type `%s`", ref.Name)).
		WithNote(ref.Span, "known types: "+strings.Join(types.Names(), ", ")).
		Emit()
	return types.Invalid
}
