package sema

import (
	"fmt"
	"strconv"

	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/types"
)

// checkCall resolves the callee and matches arguments against its
// parameters. With the wrong number of arguments only the arity is reported.
func (tc *typeChecker) checkCall(call *ast.ExprCallData) types.Type {
	argTypes := make([]types.Type, len(call.Args))
	for i, arg := range call.Args {
		argTypes[i] = tc.check(arg)
	}

	sig, ok := tc.env.Function(call.Name)
	if !ok {
		tc.report(diag.SemaFunctionDoesNotExist, call.NameSpan,
			fmt.Sprintf("function `%s` does not exist", call.Name)).Emit()
		return types.Invalid
	}

	want, got := len(sig.Params), len(call.Args)
	if want != got {
		b := tc.report(diag.SemaArityMismatch, call.ArgsSpan,
			fmt.Sprintf("`%s` takes %s but %s supplied", call.Name, plural(want, "argument"), wasWere(got))).
			WithPayload(strconv.Itoa(want), strconv.Itoa(got))
		if !sig.Builtin {
			b.WithNote(sig.DeclSpan, fmt.Sprintf("`%s` declared here", sig.Name))
		}
		b.WithNote(call.ArgsSpan, fmt.Sprintf("expected %d, found %d", want, got)).Emit()
		return sig.Return
	}

	for i, param := range sig.Params {
		if acceptsArg(param.Type, argTypes[i]) {
			continue
		}
		b := tc.report(diag.SemaArgumentTypeMismatch, tc.exprSpan(call.Args[i]),
			fmt.Sprintf("argument %d of `%s` must be %s, found %s", i+1, call.Name, param.Type, argTypes[i])).
			WithPayload(param.Type.String(), argTypes[i].String())
		if !sig.Builtin {
			b.WithNote(param.Span, fmt.Sprintf("parameter `%s` declared here", param.Name))
		}
		b.Emit()
	}
	return sig.Return
}

// acceptsArg is exact type equality, except that a Number parameter takes
// any numeric argument.
func acceptsArg(param, arg types.Type) bool {
	switch {
	case param == types.Invalid || arg == types.Invalid:
		return true
	case param == types.Number:
		return arg.IsNumeric()
	}
	return param == arg
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}

func wasWere(n int) string {
	if n == 1 {
		return "1 was"
	}
	return strconv.Itoa(n) + " were"
}
