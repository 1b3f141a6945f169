package lower

import (
	"fmt"

	"gold/internal/ast"
	"gold/internal/ir"
	"gold/internal/sema"
	"gold/internal/source"
)

// returnVar names the synthetic result slot. '$' cannot start an identifier,
// so no user variable can collide with it.
const returnVar = "$ret"

type fnLowerer struct {
	mod  *ir.Module
	b    *ir.FunctionBuilder
	ast  *ast.Builder
	res  *sema.Result
	fn   *ast.Fn
	vars map[string]ir.Var
}

// Function lowers one checked function into mod and defines it. The function
// is declared first if Program has not done so; callees must already be
// declared.
func Function(mod *ir.Module, b *ast.Builder, id ast.FnID, res *sema.Result) (ir.FuncID, error) {
	fn := b.Fns.Get(id)
	if fn == nil {
		return ir.NoFuncID, &InternalError{Fn: "<module>", Msg: fmt.Sprintf("unknown function item %d", id)}
	}
	fid, err := declare(mod, fn, res.FnSigs[id])
	if err != nil {
		return ir.NoFuncID, err
	}

	l := &fnLowerer{
		mod:  mod,
		b:    ir.NewFunctionBuilder(mod, fid),
		ast:  b,
		res:  res,
		fn:   fn,
		vars: make(map[string]ir.Var, len(fn.Params)+1),
	}
	if err := l.lower(); err != nil {
		return ir.NoFuncID, err
	}

	f, err := l.b.Finalize()
	if err != nil {
		return ir.NoFuncID, l.internal(fn.Span, "finalize", err)
	}
	if err := mod.DefineFunction(fid, f); err != nil {
		return ir.NoFuncID, l.internal(fn.Span, "define", err)
	}
	return fid, nil
}

func (l *fnLowerer) lower() error {
	sig := l.b.Func().Sig
	entry := l.b.CreateBlock()
	l.b.AppendBlockParamsForFunctionParams(entry)
	l.b.SwitchToBlock(entry)
	l.b.SealBlock(entry)

	for i, p := range l.fn.Params {
		v := l.b.DeclareVar(sig.Params[i])
		l.b.DefVar(v, l.b.BlockParams(entry)[i])
		l.vars[p.Name] = v
	}

	rt := sig.Result()
	if rt != ir.TypeNone {
		ret := l.b.DeclareVar(rt)
		l.b.DefVar(ret, l.zero(rt))
		l.vars[returnVar] = ret
	}

	val, err := l.lowerBlock(l.fn.Body)
	if err != nil {
		return err
	}
	if rt == ir.TypeNone {
		l.b.Ins().Return()
		return nil
	}
	ret := l.vars[returnVar]
	if val != ir.NoValue {
		if cv, ok := l.coerce(val, rt); ok {
			l.b.DefVar(ret, cv)
		}
	}
	l.b.Ins().Return(l.b.UseVar(ret))
	return nil
}

// lowerBlock emits each statement and yields the value of the last one.
func (l *fnLowerer) lowerBlock(stmts []ast.ExprID) (ir.Value, error) {
	last := ir.NoValue
	for _, stmt := range stmts {
		v, err := l.lowerExpr(stmt)
		if err != nil {
			return ir.NoValue, err
		}
		last = v
	}
	return last, nil
}

func (l *fnLowerer) zero(t ir.Type) ir.Value {
	if t == ir.F64 {
		return l.b.Ins().F64const(0)
	}
	return l.b.Ins().Iconst(t, 0)
}

// coerce converts v to want between numeric slots. It reports false when no
// conversion exists.
func (l *fnLowerer) coerce(v ir.Value, want ir.Type) (ir.Value, bool) {
	have := l.b.ValueType(v)
	switch {
	case have == want:
		return v, true
	case have == ir.I64 && want == ir.F64:
		return l.b.Ins().Convert(ir.ConvFromSint, v), true
	case have == ir.F64 && want == ir.I64:
		return l.b.Ins().Convert(ir.ConvToSint, v), true
	case have == ir.I8 && want == ir.I64:
		return l.b.Ins().Convert(ir.ConvUextend, v), true
	case have == ir.I8 && want == ir.F64:
		return l.b.Ins().Convert(ir.ConvFromSint, l.b.Ins().Convert(ir.ConvUextend, v)), true
	}
	return ir.NoValue, false
}

// valueOrZero stands in an i64 zero for statements without a value.
func (l *fnLowerer) valueOrZero(v ir.Value) ir.Value {
	if v == ir.NoValue {
		return l.b.Ins().Iconst(ir.I64, 0)
	}
	return v
}

func (l *fnLowerer) internal(sp source.Span, msg string, err error) *InternalError {
	return &InternalError{Fn: l.fn.Name, Span: sp, Msg: msg, Err: err}
}
