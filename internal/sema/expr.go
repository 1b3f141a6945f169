package sema

import (
	"fmt"

	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/types"
)

// check computes the type of an expression, reports what is wrong with it and
// records the result in ExprTypes. It always returns; Invalid marks a type
// that could not be computed.
func (tc *typeChecker) check(id ast.ExprID) types.Type {
	t := tc.checkExpr(id)
	tc.result.ExprTypes[id] = t
	return t
}

func (tc *typeChecker) checkExpr(id ast.ExprID) types.Type {
	expr := tc.builder.Exprs.Get(id)
	if expr == nil {
		return types.Invalid
	}
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := tc.builder.Exprs.Literal(id)
		switch lit.Kind {
		case ast.ExprLitInt:
			return types.Int
		case ast.ExprLitFloat:
			return types.Float
		case ast.ExprLitString:
			return types.String
		}
		return types.Invalid

	case ast.ExprVar:
		v, _ := tc.builder.Exprs.Var(id)
		b, ok := tc.env.Lookup(v.Name)
		if !ok {
			tc.unbound(v.Name, expr)
			return types.Invalid
		}
		return b.Type

	case ast.ExprCall:
		call, _ := tc.builder.Exprs.Call(id)
		return tc.checkCall(call)

	case ast.ExprList:
		list, _ := tc.builder.Exprs.List(id)
		if len(list.Elems) == 0 {
			tc.report(diag.SemaEmptyList, expr.Span, "cannot infer the type of an empty list").Emit()
			return types.Invalid
		}
		first := tc.check(list.Elems[0])
		for _, elem := range list.Elems[1:] {
			tc.check(elem)
		}
		return first

	case ast.ExprBinary:
		bin, _ := tc.builder.Exprs.Binary(id)
		return tc.checkBinary(expr, bin)

	case ast.ExprGroup:
		g, _ := tc.builder.Exprs.Group(id)
		return tc.check(g.Inner)

	case ast.ExprAssign:
		a, _ := tc.builder.Exprs.Assign(id)
		t := tc.check(a.Value)
		tc.env.Bind(a.Name, VariableBinding{Type: t, Span: a.NameSpan})
		return t

	case ast.ExprReassign:
		a, _ := tc.builder.Exprs.Assign(id)
		return tc.checkReassign(a)

	case ast.ExprIf:
		node, _ := tc.builder.Exprs.If(id)
		tc.check(node.Cond)
		t := tc.checkBlock(node.Body)
		for _, elif := range node.Elifs {
			tc.check(elif)
		}
		if node.Else.IsValid() {
			tc.check(node.Else)
		}
		return t

	case ast.ExprElif:
		node, _ := tc.builder.Exprs.Elif(id)
		tc.check(node.Cond)
		return tc.checkBlock(node.Body)

	case ast.ExprElse:
		node, _ := tc.builder.Exprs.Else(id)
		return tc.checkBlock(node.Body)

	case ast.ExprWhile:
		node, _ := tc.builder.Exprs.While(id)
		tc.check(node.Cond)
		return tc.checkBlock(node.Body)
	}
	return types.Invalid
}

func (tc *typeChecker) unbound(name string, expr *ast.Expr) {
	tc.report(diag.SemaUnboundVariable, expr.Span,
		fmt.Sprintf("unbound variable `%s`", name)).Emit()
}

// checkReassign requires an existing binding and keeps its recorded type.
func (tc *typeChecker) checkReassign(a *ast.ExprAssignData) types.Type {
	t := tc.check(a.Value)
	b, ok := tc.env.Lookup(a.Name)
	if !ok {
		tc.report(diag.SemaUnboundVariable, a.NameSpan,
			fmt.Sprintf("cannot assign to unbound variable `%s`", a.Name)).
			WithNote(a.NameSpan, fmt.Sprintf("use `let %s = ...` to bind it first", a.Name)).
			Emit()
		return t
	}
	if !t.AssignableTo(b.Type) {
		tc.report(diag.SemaReassignTypeMismatch, tc.exprSpan(a.Value),
			fmt.Sprintf("cannot assign %s to `%s` of type %s", t, a.Name, b.Type)).
			WithNote(b.Span, fmt.Sprintf("`%s` bound as %s here", a.Name, b.Type)).
			WithPayload(b.Type.String(), t.String()).
			Emit()
	}
	return t
}

func (tc *typeChecker) checkBinary(expr *ast.Expr, bin *ast.ExprBinaryData) types.Type {
	left := tc.check(bin.Left)
	right := tc.check(bin.Right)
	failed := types.Invalid
	if bin.Op.IsComparison() {
		failed = types.Bool
	}
	if left == types.Invalid || right == types.Invalid {
		return failed
	}
	if left != right {
		tc.report(diag.SemaOperandTypeMismatch, tc.exprSpan(bin.Left),
			fmt.Sprintf("mismatched operand types for `%s`: %s and %s", bin.Op, left, right)).
			WithNote(tc.exprSpan(bin.Right), "right operand has type "+right.String()).
			WithPayload(left.String(), right.String()).
			Emit()
		return failed
	}
	if !operatorDefined(bin.Op, left) {
		tc.report(diag.SemaInvalidOperator, expr.Span,
			fmt.Sprintf("operator `%s` is not defined for %s", bin.Op, left)).Emit()
		return failed
	}
	switch {
	case bin.Op.IsComparison():
		return types.Bool
	case left == types.String:
		return types.String
	}
	return types.Number
}

func operatorDefined(op ast.ExprBinaryOp, t types.Type) bool {
	switch op {
	case ast.ExprBinaryEq, ast.ExprBinaryNotEq:
		return true
	case ast.ExprBinaryAdd:
		return t.IsNumeric() || t == types.String
	}
	return t.IsNumeric()
}
