package lower

import (
	"gold/internal/ast"
	"gold/internal/ir"
	"gold/internal/types"
)

type arm struct {
	cond ast.ExprID // NoExprID for else
	body []ast.ExprID
}

// lowerIf emits a chain of conditional branches. Every arm jumps to a merge
// block; the selected value travels through a result variable that starts
// at zero, so arms without a value of the right slot leave zero behind.
func (l *fnLowerer) lowerIf(id ast.ExprID) (ir.Value, error) {
	node, _ := l.ast.Exprs.If(id)
	arms := []arm{{cond: node.Cond, body: node.Body}}
	for _, e := range node.Elifs {
		elif, _ := l.ast.Exprs.Elif(e)
		arms = append(arms, arm{cond: elif.Cond, body: elif.Body})
	}
	if node.Else.IsValid() {
		els, _ := l.ast.Exprs.Else(node.Else)
		arms = append(arms, arm{cond: ast.NoExprID, body: els.Body})
	}

	result, hasResult := l.resultVar(id)
	merge := l.b.CreateBlock()

	for _, a := range arms {
		if !a.cond.IsValid() {
			if err := l.lowerArm(a.body, result, hasResult); err != nil {
				return ir.NoValue, err
			}
			l.b.Ins().Jump(merge)
			break
		}
		cond, err := l.lowerCond(a.cond)
		if err != nil {
			return ir.NoValue, err
		}
		then, next := l.b.CreateBlock(), l.b.CreateBlock()
		l.b.Ins().Brif(cond, then, next)

		l.b.SwitchToBlock(then)
		l.b.SealBlock(then)
		if err := l.lowerArm(a.body, result, hasResult); err != nil {
			return ir.NoValue, err
		}
		l.b.Ins().Jump(merge)

		l.b.SwitchToBlock(next)
		l.b.SealBlock(next)
	}
	if !l.b.IsTerminated() {
		l.b.Ins().Jump(merge)
	}

	l.b.SwitchToBlock(merge)
	l.b.SealBlock(merge)
	if !hasResult {
		return ir.NoValue, nil
	}
	return l.b.UseVar(result), nil
}

// lowerWhile emits header, body and exit blocks. The header is sealed once
// the back edge from the body exists.
func (l *fnLowerer) lowerWhile(id ast.ExprID) (ir.Value, error) {
	node, _ := l.ast.Exprs.While(id)
	result, hasResult := l.resultVar(id)

	header, body, exit := l.b.CreateBlock(), l.b.CreateBlock(), l.b.CreateBlock()
	l.b.Ins().Jump(header)

	l.b.SwitchToBlock(header)
	cond, err := l.lowerCond(node.Cond)
	if err != nil {
		return ir.NoValue, err
	}
	l.b.Ins().Brif(cond, body, exit)

	l.b.SwitchToBlock(body)
	l.b.SealBlock(body)
	if err := l.lowerArm(node.Body, result, hasResult); err != nil {
		return ir.NoValue, err
	}
	l.b.Ins().Jump(header)
	l.b.SealBlock(header)

	l.b.SwitchToBlock(exit)
	l.b.SealBlock(exit)
	if !hasResult {
		return ir.NoValue, nil
	}
	return l.b.UseVar(result), nil
}

func (l *fnLowerer) lowerArm(body []ast.ExprID, result ir.Var, hasResult bool) error {
	v, err := l.lowerBlock(body)
	if err != nil {
		return err
	}
	if hasResult && v != ir.NoValue {
		if cv, ok := l.coerce(v, l.b.VarType(result)); ok {
			l.b.DefVar(result, cv)
		}
	}
	return nil
}

// resultVar declares the zero-initialised variable carrying the value of a
// control-flow expression.
func (l *fnLowerer) resultVar(id ast.ExprID) (ir.Var, bool) {
	t := l.irTypeOf(id)
	if t == ir.TypeNone {
		return 0, false
	}
	v := l.b.DeclareVar(t)
	l.b.DefVar(v, l.zero(t))
	return v, true
}

// lowerCond yields an integer condition; floats compare against zero.
func (l *fnLowerer) lowerCond(id ast.ExprID) (ir.Value, error) {
	v, err := l.lowerExpr(id)
	if err != nil {
		return ir.NoValue, err
	}
	switch {
	case v == ir.NoValue:
		return l.b.Ins().Iconst(ir.I8, 0), nil
	case l.b.ValueType(v) == ir.F64:
		return l.b.Ins().Fcmp(ir.CondNe, v, l.b.Ins().F64const(0)), nil
	}
	return v, nil
}

// irTypeOf predicts the slot of an expression before it is lowered. Number
// is resolved by looking at the operands: any float makes it f64.
func (l *fnLowerer) irTypeOf(id ast.ExprID) ir.Type {
	if t := l.res.TypeOf(id); t != types.Number {
		return irType(t)
	}
	expr := l.ast.Exprs.Get(id)
	if expr == nil {
		return ir.I64
	}
	switch expr.Kind {
	case ast.ExprBinary:
		bin, _ := l.ast.Exprs.Binary(id)
		if l.irTypeOf(bin.Left) == ir.F64 || l.irTypeOf(bin.Right) == ir.F64 {
			return ir.F64
		}
	case ast.ExprGroup:
		g, _ := l.ast.Exprs.Group(id)
		return l.irTypeOf(g.Inner)
	case ast.ExprVar:
		v, _ := l.ast.Exprs.Var(id)
		if slot, ok := l.vars[v.Name]; ok {
			return l.b.VarType(slot)
		}
	case ast.ExprAssign, ast.ExprReassign:
		a, _ := l.ast.Exprs.Assign(id)
		return l.irTypeOf(a.Value)
	case ast.ExprIf:
		node, _ := l.ast.Exprs.If(id)
		return l.lastType(node.Body)
	case ast.ExprWhile:
		node, _ := l.ast.Exprs.While(id)
		return l.lastType(node.Body)
	}
	return ir.I64
}

func (l *fnLowerer) lastType(body []ast.ExprID) ir.Type {
	if len(body) == 0 {
		return ir.TypeNone
	}
	return l.irTypeOf(body[len(body)-1])
}
