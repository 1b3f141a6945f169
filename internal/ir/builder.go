package ir

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// FunctionBuilder assembles one Func block by block. Variables are mutable
// slots read and written with UseVar/DefVar.
//
// The first misuse is remembered and returned by Finalize; later calls are
// ignored so callers may chain without checking every step.
type FunctionBuilder struct {
	mod *Module
	fn  *Func
	cur BlockID
	err error
}

// NewFunctionBuilder starts the body of a declared function.
func NewFunctionBuilder(mod *Module, id FuncID) *FunctionBuilder {
	b := &FunctionBuilder{mod: mod, cur: NoBlockID}
	d := mod.Decl(id)
	if d == nil {
		b.fail(fmt.Errorf("unknown function id %d", id))
		b.fn = &Func{ID: id, Entry: NoBlockID}
		return b
	}
	b.fn = &Func{ID: id, Name: d.Name, Sig: d.Sig, Entry: NoBlockID}
	return b
}

func (b *FunctionBuilder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns the first recorded error.
func (b *FunctionBuilder) Err() error { return b.err }

func (b *FunctionBuilder) Func() *Func { return b.fn }

func (b *FunctionBuilder) CreateBlock() BlockID {
	idx, err := safecast.Conv[uint32](len(b.fn.Blocks))
	if err != nil {
		b.fail(fmt.Errorf("too many blocks: %w", err))
		return NoBlockID
	}
	id := BlockID(idx)
	b.fn.Blocks = append(b.fn.Blocks, Block{ID: id})
	if b.fn.Entry == NoBlockID {
		b.fn.Entry = id
	}
	return id
}

func (b *FunctionBuilder) block(id BlockID) *Block {
	blk := b.fn.Block(id)
	if blk == nil {
		b.fail(fmt.Errorf("unknown block %d", id))
	}
	return blk
}

// AppendBlockParamsForFunctionParams gives blk one parameter per function
// parameter. Only the entry block may have parameters.
func (b *FunctionBuilder) AppendBlockParamsForFunctionParams(id BlockID) {
	blk := b.block(id)
	if blk == nil {
		return
	}
	if id != b.fn.Entry {
		b.fail(fmt.Errorf("block%d: only the entry block takes function parameters", id))
		return
	}
	for _, t := range b.fn.Sig.Params {
		blk.Params = append(blk.Params, b.newValue(t))
	}
}

func (b *FunctionBuilder) BlockParams(id BlockID) []Value {
	if blk := b.block(id); blk != nil {
		return blk.Params
	}
	return nil
}

func (b *FunctionBuilder) SwitchToBlock(id BlockID) {
	if b.block(id) != nil {
		b.cur = id
	}
}

// IsTerminated reports whether the current block already has a terminator.
func (b *FunctionBuilder) IsTerminated() bool {
	return b.fn.Block(b.cur).Terminated()
}

// SealBlock declares that every predecessor of id is known.
func (b *FunctionBuilder) SealBlock(id BlockID) {
	if blk := b.block(id); blk != nil {
		blk.Sealed = true
	}
}

func (b *FunctionBuilder) DeclareVar(t Type) Var {
	if t == TypeNone {
		b.fail(errors.New("variable of type none"))
	}
	idx, err := safecast.Conv[uint32](len(b.fn.Vars))
	if err != nil {
		b.fail(fmt.Errorf("too many variables: %w", err))
		return 0
	}
	b.fn.Vars = append(b.fn.Vars, t)
	return Var(idx)
}

// DeclareZeroedVar declares a variable and writes zero into it at the end of
// the entry block, even when the builder is positioned elsewhere. A slot first
// written on one branch then reads as zero on every other path.
func (b *FunctionBuilder) DeclareZeroedVar(t Type) Var {
	v := b.DeclareVar(t)
	if t == TypeNone {
		return v
	}
	entry := b.fn.Block(b.fn.Entry)
	if entry == nil {
		b.fail(errors.New("zeroed variable before the entry block"))
		return v
	}
	zero := Instr{Kind: InstrIconst, Const: ConstInstr{Type: t}}
	if t == F64 {
		zero = Instr{Kind: InstrF64const, Const: ConstInstr{Type: F64}}
	}
	zero.Result = b.newValue(t)
	// терминатор хранится отдельно, поэтому дописывать в закрытый entry можно
	entry.Instrs = append(entry.Instrs, zero,
		Instr{Kind: InstrDefVar, Result: NoValue, Var: VarInstr{Var: v, Value: zero.Result}})
	return v
}

func (b *FunctionBuilder) VarType(v Var) Type {
	if int(v) >= len(b.fn.Vars) {
		return TypeNone
	}
	return b.fn.Vars[v]
}

func (b *FunctionBuilder) ValueType(v Value) Type {
	return b.fn.ValueType(v)
}

// DefVar writes val into v.
func (b *FunctionBuilder) DefVar(v Var, val Value) {
	if vt, t := b.VarType(v), b.ValueType(val); vt != t {
		b.fail(fmt.Errorf("def_var v%d: variable is %s, value is %s", v, vt, t))
		return
	}
	b.append(Instr{Kind: InstrDefVar, Result: NoValue, Var: VarInstr{Var: v, Value: val}})
}

// UseVar reads the current value of v.
func (b *FunctionBuilder) UseVar(v Var) Value {
	t := b.VarType(v)
	if t == TypeNone {
		b.fail(fmt.Errorf("use_var: unknown variable v%d", v))
		return NoValue
	}
	return b.appendValue(Instr{Kind: InstrUseVar, Var: VarInstr{Var: v}}, t)
}

func (b *FunctionBuilder) newValue(t Type) Value {
	idx, err := safecast.Conv[uint32](len(b.fn.Values))
	if err != nil {
		b.fail(fmt.Errorf("too many values: %w", err))
		return NoValue
	}
	b.fn.Values = append(b.fn.Values, t)
	return Value(idx)
}

// current returns the block instructions go to, failing when there is none
// or it is already terminated.
func (b *FunctionBuilder) current() *Block {
	blk := b.fn.Block(b.cur)
	switch {
	case blk == nil:
		b.fail(errors.New("no current block"))
		return nil
	case blk.Terminated():
		b.fail(fmt.Errorf("block%d is already terminated", b.cur))
		return nil
	}
	return blk
}

func (b *FunctionBuilder) append(in Instr) {
	if blk := b.current(); blk != nil {
		blk.Instrs = append(blk.Instrs, in)
	}
}

func (b *FunctionBuilder) appendValue(in Instr, t Type) Value {
	blk := b.current()
	if blk == nil {
		return NoValue
	}
	in.Result = b.newValue(t)
	blk.Instrs = append(blk.Instrs, in)
	return in.Result
}

func (b *FunctionBuilder) terminate(term Terminator) {
	blk := b.current()
	if blk == nil {
		return
	}
	for _, succ := range term.Successors() {
		target := b.block(succ)
		if target == nil {
			return
		}
		if target.Sealed {
			b.fail(fmt.Errorf("block%d: jump into sealed block%d", b.cur, succ))
			return
		}
		if succ == b.fn.Entry {
			b.fail(fmt.Errorf("block%d: jump into the entry block", b.cur))
			return
		}
	}
	for _, succ := range term.Successors() {
		target := b.fn.Block(succ)
		target.Preds = append(target.Preds, b.cur)
	}
	blk.Term = term
}

// Ins returns the instruction inserter for the current block.
func (b *FunctionBuilder) Ins() Ins { return Ins{b: b} }

// Finalize checks the body and returns it. Every block must be terminated
// and sealed.
func (b *FunctionBuilder) Finalize() (*Func, error) {
	if b.err != nil {
		return nil, fmt.Errorf("%s: %w", b.fn.Name, b.err)
	}
	if err := validateFunc(b.mod, b.fn); err != nil {
		return nil, fmt.Errorf("%s: %w", b.fn.Name, err)
	}
	return b.fn, nil
}
