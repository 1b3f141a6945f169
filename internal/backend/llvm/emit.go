// Package llvm renders an ir.Module as textual LLVM IR.
//
// Pointers stay i64 as in gold IR: data objects are taken with ptrtoint and
// memory accesses go through inttoptr. Variables become allocas at the top of
// the entry block.
package llvm

import (
	"errors"
	"fmt"

	gir "gold/internal/ir"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Emit translates mod into LLVM IR text.
func Emit(mod *gir.Module) (string, error) {
	if mod == nil {
		return "", errors.New("llvm: nil module")
	}
	if err := gir.Validate(mod); err != nil {
		return "", fmt.Errorf("llvm: %w", err)
	}
	e := &emitter{src: mod, out: ir.NewModule()}
	e.out.SourceFilename = mod.Name
	if err := e.emit(); err != nil {
		return "", err
	}
	return e.out.String(), nil
}

type emitter struct {
	src   *gir.Module
	out   *ir.Module
	funcs []*ir.Func
	data  []*ir.Global
}

func (e *emitter) emit() error {
	for _, obj := range e.src.Data {
		g := e.out.NewGlobalDef(obj.Name, constant.NewCharArray(append([]byte(nil), obj.Bytes...)))
		g.Immutable = true
		g.Linkage = enum.LinkagePrivate
		e.data = append(e.data, g)
	}
	for i := range e.src.Decls {
		d := &e.src.Decls[i]
		params := make([]*ir.Param, len(d.Sig.Params))
		for k, t := range d.Sig.Params {
			params[k] = ir.NewParam(fmt.Sprintf("p%d", k), slotType(t))
		}
		fn := e.out.NewFunc(d.Name, returnType(d.Sig), params...)
		if d.Linkage == gir.LinkageLocal {
			fn.Linkage = enum.LinkageInternal
		}
		e.funcs = append(e.funcs, fn)
	}
	for i, f := range e.src.Funcs {
		if f == nil {
			continue
		}
		if err := e.emitFunc(e.funcs[i], f); err != nil {
			return fmt.Errorf("llvm: %s: %w", f.Name, err)
		}
	}
	return nil
}

func slotType(t gir.Type) types.Type {
	switch t {
	case gir.I8:
		return types.I8
	case gir.F64:
		return types.Double
	}
	return types.I64
}

func returnType(sig gir.Signature) types.Type {
	if r := sig.Result(); r != gir.TypeNone {
		return slotType(r)
	}
	return types.Void
}

type funcEmitter struct {
	e      *emitter
	fn     *ir.Func
	src    *gir.Func
	blocks []*ir.Block
	vals   []value.Value
	vars   []*ir.InstAlloca
}

func (e *emitter) emitFunc(fn *ir.Func, f *gir.Func) error {
	fe := &funcEmitter{e: e, fn: fn, src: f, vals: make([]value.Value, len(f.Values))}
	for i := range f.Blocks {
		fe.blocks = append(fe.blocks, fn.NewBlock(fmt.Sprintf("block%d", f.Blocks[i].ID)))
	}
	entry := fe.blocks[f.Entry]
	for _, t := range f.Vars {
		fe.vars = append(fe.vars, entry.NewAlloca(slotType(t)))
	}
	for k, p := range f.Blocks[f.Entry].Params {
		if k >= len(fn.Params) {
			return fmt.Errorf("entry block has more params than the signature")
		}
		fe.vals[p] = fn.Params[k]
	}
	for i := range f.Blocks {
		if err := fe.block(fe.blocks[i], &f.Blocks[i]); err != nil {
			return fmt.Errorf("block%d: %w", f.Blocks[i].ID, err)
		}
	}
	return nil
}

func (fe *funcEmitter) val(v gir.Value) (value.Value, error) {
	if int(v) >= len(fe.vals) || fe.vals[v] == nil {
		return nil, fmt.Errorf("use of undefined v%d", v)
	}
	return fe.vals[v], nil
}

func (fe *funcEmitter) block(b *ir.Block, src *gir.Block) error {
	for k := range src.Instrs {
		in := &src.Instrs[k]
		v, err := fe.instr(b, in)
		if err != nil {
			return err
		}
		if in.Result != gir.NoValue && v != nil {
			fe.vals[in.Result] = v
		}
	}
	return fe.term(b, &src.Term)
}

func (fe *funcEmitter) instr(b *ir.Block, in *gir.Instr) (value.Value, error) {
	switch in.Kind {
	case gir.InstrIconst:
		if in.Const.Type == gir.I8 {
			return constant.NewInt(types.I8, in.Const.Int), nil
		}
		return constant.NewInt(types.I64, in.Const.Int), nil
	case gir.InstrF64const:
		return constant.NewFloat(types.Double, in.Const.Float), nil
	case gir.InstrBinary:
		x, y, err := fe.pair(in.Binary.Left, in.Binary.Right)
		if err != nil {
			return nil, err
		}
		return binary(b, in.Binary.Op, x, y), nil
	case gir.InstrIcmp, gir.InstrFcmp:
		x, y, err := fe.pair(in.Cmp.Left, in.Cmp.Right)
		if err != nil {
			return nil, err
		}
		var c value.Value
		if in.Kind == gir.InstrIcmp {
			c = b.NewICmp(ipred(in.Cmp.Cond), x, y)
		} else {
			c = b.NewFCmp(fpred(in.Cmp.Cond), x, y)
		}
		// i1 -> i8, bools are bytes in gold IR
		return b.NewZExt(c, types.I8), nil
	case gir.InstrConvert:
		x, err := fe.val(in.Convert.Arg)
		if err != nil {
			return nil, err
		}
		switch in.Convert.Op {
		case gir.ConvFromSint:
			return b.NewSIToFP(x, types.Double), nil
		case gir.ConvToSint:
			return b.NewFPToSI(x, types.I64), nil
		}
		return b.NewZExt(x, types.I64), nil
	case gir.InstrCall:
		if int(in.Call.Func) >= len(fe.e.funcs) {
			return nil, fmt.Errorf("call of unknown function id %d", in.Call.Func)
		}
		args := make([]value.Value, len(in.Call.Args))
		for i, a := range in.Call.Args {
			v, err := fe.val(a)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return b.NewCall(fe.e.funcs[in.Call.Func], args...), nil
	case gir.InstrDataAddr:
		if int(in.DataAddr.Data) >= len(fe.e.data) {
			return nil, fmt.Errorf("unknown data object d%d", in.DataAddr.Data)
		}
		return b.NewPtrToInt(fe.e.data[in.DataAddr.Data], types.I64), nil
	case gir.InstrLoad:
		t := slotType(in.Mem.Type)
		p, err := fe.address(b, in.Mem.Addr, in.Mem.Offset, t)
		if err != nil {
			return nil, err
		}
		return b.NewLoad(t, p), nil
	case gir.InstrStore:
		v, err := fe.val(in.Mem.Value)
		if err != nil {
			return nil, err
		}
		p, err := fe.address(b, in.Mem.Addr, in.Mem.Offset, slotType(in.Mem.Type))
		if err != nil {
			return nil, err
		}
		b.NewStore(v, p)
		return nil, nil
	case gir.InstrDefVar:
		v, err := fe.val(in.Var.Value)
		if err != nil {
			return nil, err
		}
		if int(in.Var.Var) >= len(fe.vars) {
			return nil, fmt.Errorf("def of undeclared var%d", in.Var.Var)
		}
		b.NewStore(v, fe.vars[in.Var.Var])
		return nil, nil
	case gir.InstrUseVar:
		if int(in.Var.Var) >= len(fe.vars) {
			return nil, fmt.Errorf("use of undeclared var%d", in.Var.Var)
		}
		slot := fe.vars[in.Var.Var]
		return b.NewLoad(slot.ElemType, slot), nil
	}
	return nil, fmt.Errorf("unsupported instruction kind %d", in.Kind)
}

func (fe *funcEmitter) pair(l, r gir.Value) (value.Value, value.Value, error) {
	x, err := fe.val(l)
	if err != nil {
		return nil, nil, err
	}
	y, err := fe.val(r)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// address computes inttoptr(addr + offset) as a pointer to elem.
func (fe *funcEmitter) address(b *ir.Block, addr gir.Value, offset int32, elem types.Type) (value.Value, error) {
	base, err := fe.val(addr)
	if err != nil {
		return nil, err
	}
	if offset != 0 {
		base = b.NewAdd(base, constant.NewInt(types.I64, int64(offset)))
	}
	return b.NewIntToPtr(base, types.NewPointer(elem)), nil
}

func (fe *funcEmitter) term(b *ir.Block, t *gir.Terminator) error {
	switch t.Kind {
	case gir.TermJump:
		b.NewBr(fe.blocks[t.Jump.Target])
	case gir.TermBrif:
		c, err := fe.val(t.Brif.Cond)
		if err != nil {
			return err
		}
		cond := b.NewICmp(enum.IPredNE, c, constant.NewInt(types.I8, 0))
		b.NewCondBr(cond, fe.blocks[t.Brif.Then], fe.blocks[t.Brif.Else])
	case gir.TermReturn:
		if len(t.Return.Values) == 0 {
			b.NewRet(nil)
			return nil
		}
		v, err := fe.val(t.Return.Values[0])
		if err != nil {
			return err
		}
		b.NewRet(v)
	default:
		return errors.New("unterminated block")
	}
	return nil
}

func binary(b *ir.Block, op gir.BinOp, x, y value.Value) value.Value {
	switch op {
	case gir.BinIadd:
		return b.NewAdd(x, y)
	case gir.BinIsub:
		return b.NewSub(x, y)
	case gir.BinImul:
		return b.NewMul(x, y)
	case gir.BinSdiv:
		return b.NewSDiv(x, y)
	case gir.BinFadd:
		return b.NewFAdd(x, y)
	case gir.BinFsub:
		return b.NewFSub(x, y)
	case gir.BinFmul:
		return b.NewFMul(x, y)
	}
	return b.NewFDiv(x, y)
}

func ipred(c gir.CondCode) enum.IPred {
	switch c {
	case gir.CondEq:
		return enum.IPredEQ
	case gir.CondNe:
		return enum.IPredNE
	case gir.CondLt:
		return enum.IPredSLT
	case gir.CondGt:
		return enum.IPredSGT
	case gir.CondLe:
		return enum.IPredSLE
	}
	return enum.IPredSGE
}

func fpred(c gir.CondCode) enum.FPred {
	switch c {
	case gir.CondEq:
		return enum.FPredOEQ
	case gir.CondNe:
		return enum.FPredONE
	case gir.CondLt:
		return enum.FPredOLT
	case gir.CondGt:
		return enum.FPredOGT
	case gir.CondLe:
		return enum.FPredOLE
	}
	return enum.FPredOGE
}
