package lower

import (
	"fmt"

	"fortio.org/safecast"

	"gold/internal/ast"
	"gold/internal/ir"
	"gold/internal/types"
)

func (l *fnLowerer) lowerExpr(id ast.ExprID) (ir.Value, error) {
	expr := l.ast.Exprs.Get(id)
	if expr == nil {
		return ir.NoValue, l.internal(l.fn.Span, fmt.Sprintf("missing expression %d", id), nil)
	}
	switch expr.Kind {
	case ast.ExprLit:
		lit, _ := l.ast.Exprs.Literal(id)
		switch lit.Kind {
		case ast.ExprLitInt:
			return l.b.Ins().Iconst(ir.I64, lit.Int), nil
		case ast.ExprLitFloat:
			return l.b.Ins().F64const(lit.Float), nil
		case ast.ExprLitString:
			return l.lowerString(lit.Str)
		}

	case ast.ExprVar:
		v, _ := l.ast.Exprs.Var(id)
		slot, ok := l.vars[v.Name]
		if !ok {
			t := l.irTypeOf(id)
			if t == ir.TypeNone {
				return ir.NoValue, l.internal(expr.Span, fmt.Sprintf("variable %q has no type", v.Name), nil)
			}
			slot = l.b.DeclareZeroedVar(t)
			l.vars[v.Name] = slot
		}
		return l.b.UseVar(slot), nil

	case ast.ExprCall:
		call, _ := l.ast.Exprs.Call(id)
		return l.lowerCall(expr, call)

	case ast.ExprList:
		list, _ := l.ast.Exprs.List(id)
		return l.lowerList(list)

	case ast.ExprBinary:
		bin, _ := l.ast.Exprs.Binary(id)
		return l.lowerBinary(bin)

	case ast.ExprGroup:
		g, _ := l.ast.Exprs.Group(id)
		return l.lowerExpr(g.Inner)

	case ast.ExprAssign:
		a, _ := l.ast.Exprs.Assign(id)
		val, err := l.lowerExpr(a.Value)
		if err != nil {
			return ir.NoValue, err
		}
		val = l.valueOrZero(val)
		t := l.b.ValueType(val)
		slot, ok := l.vars[a.Name]
		if !ok || l.b.VarType(slot) != t {
			// новое связывание с другим типом получает свой слот
			slot = l.b.DeclareZeroedVar(t)
			l.vars[a.Name] = slot
		}
		l.b.DefVar(slot, val)
		return val, nil

	case ast.ExprReassign:
		a, _ := l.ast.Exprs.Assign(id)
		slot, ok := l.vars[a.Name]
		if !ok {
			return ir.NoValue, l.internal(a.NameSpan, fmt.Sprintf("reassignment of %q before it was lowered", a.Name), nil)
		}
		val, err := l.lowerExpr(a.Value)
		if err != nil {
			return ir.NoValue, err
		}
		cv, ok := l.coerce(l.valueOrZero(val), l.b.VarType(slot))
		if !ok {
			return ir.NoValue, l.internal(expr.Span, fmt.Sprintf("cannot store %s into %q of type %s",
				l.b.ValueType(val), a.Name, l.b.VarType(slot)), nil)
		}
		l.b.DefVar(slot, cv)
		return cv, nil

	case ast.ExprIf:
		return l.lowerIf(id)

	case ast.ExprWhile:
		return l.lowerWhile(id)
	}
	return ir.NoValue, l.internal(expr.Span, "unexpected "+expr.Kind.String()+" expression", nil)
}

// lowerString places the literal as a NUL-terminated data object.
func (l *fnLowerer) lowerString(s string) (ir.Value, error) {
	data, err := l.mod.DeclareData(fmt.Sprintf("str.%d", len(l.mod.Data)), append([]byte(s), 0))
	if err != nil {
		return ir.NoValue, l.internal(l.fn.Span, "string literal", err)
	}
	return l.b.Ins().DataAddr(data), nil
}

// lowerList allocates 8 bytes per element and stores the elements in order.
func (l *fnLowerer) lowerList(list *ast.ExprListData) (ir.Value, error) {
	vals := make([]ir.Value, 0, len(list.Elems))
	for _, elem := range list.Elems {
		v, err := l.lowerExpr(elem)
		if err != nil {
			return ir.NoValue, err
		}
		vals = append(vals, l.valueOrZero(v))
	}
	ptr, err := l.callRuntime("malloc", l.b.Ins().Iconst(ir.I64, int64(8*len(vals))))
	if err != nil {
		return ir.NoValue, err
	}
	for i, v := range vals {
		off, err := safecast.Conv[int32](8 * i)
		if err != nil {
			return ir.NoValue, l.internal(l.fn.Span, "list too long", err)
		}
		l.b.Ins().Store(v, ptr, off)
	}
	return ptr, nil
}

func (l *fnLowerer) lowerCall(expr *ast.Expr, call *ast.ExprCallData) (ir.Value, error) {
	args := make([]ir.Value, len(call.Args))
	for i, arg := range call.Args {
		v, err := l.lowerExpr(arg)
		if err != nil {
			return ir.NoValue, err
		}
		args[i] = l.valueOrZero(v)
	}

	switch call.Name {
	case "int", "float":
		if len(args) != 1 {
			return ir.NoValue, l.internal(expr.Span, call.Name+" takes one argument", nil)
		}
		want := ir.I64
		if call.Name == "float" {
			want = ir.F64
		}
		v, ok := l.coerce(args[0], want)
		if !ok {
			return ir.NoValue, l.internal(expr.Span, "cannot convert "+l.b.ValueType(args[0]).String(), nil)
		}
		return v, nil
	}

	fid, ok := l.mod.FuncByName(call.Name)
	if !ok {
		return ir.NoValue, l.internal(call.NameSpan, fmt.Sprintf("call to undeclared function %q", call.Name), nil)
	}
	sig := l.mod.Decl(fid).Sig
	if len(sig.Params) != len(args) {
		return ir.NoValue, l.internal(call.ArgsSpan, fmt.Sprintf("%q called with %d arguments", call.Name, len(args)), nil)
	}
	for i := range args {
		cv, ok := l.coerce(args[i], sig.Params[i])
		if !ok {
			return ir.NoValue, l.internal(l.ast.Exprs.Get(call.Args[i]).Span, "argument slot mismatch", nil)
		}
		args[i] = cv
	}
	return l.b.Ins().Call(fid, args...), nil
}

func (l *fnLowerer) callRuntime(name string, args ...ir.Value) (ir.Value, error) {
	fid, ok := l.mod.FuncByName(name)
	if !ok {
		return ir.NoValue, l.internal(l.fn.Span, "runtime function "+name+" is not declared", nil)
	}
	return l.b.Ins().Call(fid, args...), nil
}

func (l *fnLowerer) lowerBinary(bin *ast.ExprBinaryData) (ir.Value, error) {
	left, err := l.lowerExpr(bin.Left)
	if err != nil {
		return ir.NoValue, err
	}
	right, err := l.lowerExpr(bin.Right)
	if err != nil {
		return ir.NoValue, err
	}
	left, right = l.valueOrZero(left), l.valueOrZero(right)

	// Number-типы могут разойтись по слотам: i64 расширяем до f64
	lt, rt := l.b.ValueType(left), l.b.ValueType(right)
	if lt != rt {
		want := ir.I64
		if lt == ir.F64 || rt == ir.F64 {
			want = ir.F64
		}
		var okL, okR bool
		left, okL = l.coerce(left, want)
		right, okR = l.coerce(right, want)
		if !okL || !okR {
			return ir.NoValue, l.internal(l.fn.Span, fmt.Sprintf("operands %s and %s for %s", lt, rt, bin.Op), nil)
		}
	}
	isFloat := l.b.ValueType(left) == ir.F64

	if bin.Op.IsComparison() {
		cond := condCode(bin.Op)
		if isFloat {
			return l.b.Ins().Fcmp(cond, left, right), nil
		}
		return l.b.Ins().Icmp(cond, left, right), nil
	}

	if l.res.TypeOf(bin.Left) == types.String {
		return l.callRuntime("concat", left, right)
	}
	if bin.Op == ast.ExprBinaryPow {
		if isFloat {
			return l.callRuntime("powf", left, right)
		}
		return l.callRuntime("ipowi", left, right)
	}

	var op ir.BinOp
	switch bin.Op {
	case ast.ExprBinaryAdd:
		op = ir.BinIadd
	case ast.ExprBinarySub:
		op = ir.BinIsub
	case ast.ExprBinaryMul:
		op = ir.BinImul
	case ast.ExprBinaryDiv:
		op = ir.BinSdiv
	}
	if isFloat {
		op += ir.BinFadd
	}
	if !isFloat && l.b.ValueType(left) == ir.I8 {
		left = l.b.Ins().Convert(ir.ConvUextend, left)
		right = l.b.Ins().Convert(ir.ConvUextend, right)
	}
	return l.b.Ins().Binary(op, left, right), nil
}

func condCode(op ast.ExprBinaryOp) ir.CondCode {
	switch op {
	case ast.ExprBinaryNotEq:
		return ir.CondNe
	case ast.ExprBinaryGreater:
		return ir.CondGt
	case ast.ExprBinaryLess:
		return ir.CondLt
	case ast.ExprBinaryGreaterEq:
		return ir.CondGe
	case ast.ExprBinaryLessEq:
		return ir.CondLe
	}
	return ir.CondEq
}
