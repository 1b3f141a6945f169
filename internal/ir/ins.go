package ir

import "fmt"

// Ins appends instructions to the builder's current block.
type Ins struct {
	b *FunctionBuilder
}

func (i Ins) Iconst(t Type, v int64) Value {
	if !t.IsInt() {
		i.b.fail(fmt.Errorf("iconst: %s is not an integer type", t))
		return NoValue
	}
	return i.b.appendValue(Instr{Kind: InstrIconst, Const: ConstInstr{Type: t, Int: v}}, t)
}

func (i Ins) F64const(v float64) Value {
	return i.b.appendValue(Instr{Kind: InstrF64const, Const: ConstInstr{Type: F64, Float: v}}, F64)
}

// Binary emits an arithmetic instruction; both operands must have the type
// the operation expects.
func (i Ins) Binary(op BinOp, left, right Value) Value {
	want := I64
	if op.IsFloat() {
		want = F64
	}
	if lt, rt := i.b.ValueType(left), i.b.ValueType(right); lt != want || rt != want {
		i.b.fail(fmt.Errorf("%s: operands are %s and %s, want %s", op, lt, rt, want))
		return NoValue
	}
	return i.b.appendValue(Instr{Kind: InstrBinary, Binary: BinaryInstr{Op: op, Left: left, Right: right}}, want)
}

// Icmp compares two integers of the same type and yields an i8 0 or 1.
func (i Ins) Icmp(cond CondCode, left, right Value) Value {
	lt, rt := i.b.ValueType(left), i.b.ValueType(right)
	if !lt.IsInt() || lt != rt {
		i.b.fail(fmt.Errorf("icmp: operands are %s and %s", lt, rt))
		return NoValue
	}
	return i.b.appendValue(Instr{Kind: InstrIcmp, Cmp: CmpInstr{Cond: cond, Left: left, Right: right}}, I8)
}

func (i Ins) Fcmp(cond CondCode, left, right Value) Value {
	if lt, rt := i.b.ValueType(left), i.b.ValueType(right); lt != F64 || rt != F64 {
		i.b.fail(fmt.Errorf("fcmp: operands are %s and %s", lt, rt))
		return NoValue
	}
	return i.b.appendValue(Instr{Kind: InstrFcmp, Cmp: CmpInstr{Cond: cond, Left: left, Right: right}}, I8)
}

func (i Ins) Convert(op ConvOp, arg Value) Value {
	var from, to Type
	switch op {
	case ConvFromSint:
		from, to = I64, F64
	case ConvToSint:
		from, to = F64, I64
	case ConvUextend:
		from, to = I8, I64
	}
	if t := i.b.ValueType(arg); t != from {
		i.b.fail(fmt.Errorf("%s: argument is %s, want %s", op, t, from))
		return NoValue
	}
	return i.b.appendValue(Instr{Kind: InstrConvert, Convert: ConvertInstr{Op: op, Arg: arg}}, to)
}

// Call emits a direct call. The result is NoValue for void callees.
func (i Ins) Call(fn FuncID, args ...Value) Value {
	d := i.b.mod.Decl(fn)
	if d == nil {
		i.b.fail(fmt.Errorf("call: unknown function id %d", fn))
		return NoValue
	}
	if len(args) != len(d.Sig.Params) {
		i.b.fail(fmt.Errorf("call %s: %d arguments, want %d", d.Name, len(args), len(d.Sig.Params)))
		return NoValue
	}
	for k, a := range args {
		if t := i.b.ValueType(a); t != d.Sig.Params[k] {
			i.b.fail(fmt.Errorf("call %s: argument %d is %s, want %s", d.Name, k, t, d.Sig.Params[k]))
			return NoValue
		}
	}
	in := Instr{Kind: InstrCall, Call: CallInstr{Func: fn, Args: append([]Value(nil), args...)}}
	if res := d.Sig.Result(); res != TypeNone {
		return i.b.appendValue(in, res)
	}
	in.Result = NoValue
	i.b.append(in)
	return NoValue
}

// DataAddr yields the address of a module data object.
func (i Ins) DataAddr(data DataID) Value {
	if int(data) >= len(i.b.mod.Data) {
		i.b.fail(fmt.Errorf("data_addr: unknown data object %d", data))
		return NoValue
	}
	return i.b.appendValue(Instr{Kind: InstrDataAddr, DataAddr: DataAddrInstr{Data: data}}, Ptr)
}

func (i Ins) Load(t Type, addr Value, offset int32) Value {
	if at := i.b.ValueType(addr); at != Ptr || t == TypeNone {
		i.b.fail(fmt.Errorf("load: address is %s, type %s", at, t))
		return NoValue
	}
	return i.b.appendValue(Instr{Kind: InstrLoad, Mem: MemInstr{Type: t, Addr: addr, Offset: offset, Value: NoValue}}, t)
}

func (i Ins) Store(val, addr Value, offset int32) {
	t := i.b.ValueType(val)
	if at := i.b.ValueType(addr); at != Ptr || t == TypeNone {
		i.b.fail(fmt.Errorf("store: address is %s, value %s", at, t))
		return
	}
	i.b.append(Instr{Kind: InstrStore, Result: NoValue, Mem: MemInstr{Type: t, Addr: addr, Offset: offset, Value: val}})
}

func (i Ins) Jump(target BlockID) {
	i.b.terminate(Terminator{Kind: TermJump, Jump: JumpTerm{Target: target}})
}

// Brif branches on an integer condition.
func (i Ins) Brif(cond Value, then, els BlockID) {
	if t := i.b.ValueType(cond); !t.IsInt() {
		i.b.fail(fmt.Errorf("brif: condition is %s", t))
		return
	}
	i.b.terminate(Terminator{Kind: TermBrif, Brif: BrifTerm{Cond: cond, Then: then, Else: els}})
}

func (i Ins) Return(vals ...Value) {
	i.b.terminate(Terminator{Kind: TermReturn, Return: ReturnTerm{Values: append([]Value(nil), vals...)}})
}
