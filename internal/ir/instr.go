package ir

// InstrKind enumerates instruction kinds.
type InstrKind uint8

const (
	InstrIconst InstrKind = iota
	InstrF64const
	InstrBinary
	InstrIcmp
	InstrFcmp
	InstrConvert
	InstrCall
	InstrDataAddr
	InstrLoad
	InstrStore
	InstrDefVar
	InstrUseVar
)

// Instr is one instruction. Only the payload matching Kind is meaningful.
type Instr struct {
	Kind   InstrKind
	Result Value // NoValue when the instruction yields nothing

	Const    ConstInstr
	Binary   BinaryInstr
	Cmp      CmpInstr
	Convert  ConvertInstr
	Call     CallInstr
	DataAddr DataAddrInstr
	Mem      MemInstr
	Var      VarInstr
}

type ConstInstr struct {
	Type  Type
	Int   int64
	Float float64
}

// BinOp is an arithmetic operation; the i/f prefix selects the operand type.
type BinOp uint8

const (
	BinIadd BinOp = iota
	BinIsub
	BinImul
	BinSdiv
	BinFadd
	BinFsub
	BinFmul
	BinFdiv
)

func (op BinOp) String() string {
	switch op {
	case BinIadd:
		return "iadd"
	case BinIsub:
		return "isub"
	case BinImul:
		return "imul"
	case BinSdiv:
		return "sdiv"
	case BinFadd:
		return "fadd"
	case BinFsub:
		return "fsub"
	case BinFmul:
		return "fmul"
	case BinFdiv:
		return "fdiv"
	}
	return "?"
}

// IsFloat reports whether op works on F64 operands.
func (op BinOp) IsFloat() bool { return op >= BinFadd }

type BinaryInstr struct {
	Op          BinOp
	Left, Right Value
}

// CondCode is a comparison predicate. Integer comparisons are signed, float
// comparisons are ordered.
type CondCode uint8

const (
	CondEq CondCode = iota
	CondNe
	CondLt
	CondGt
	CondLe
	CondGe
)

func (c CondCode) String() string {
	switch c {
	case CondEq:
		return "eq"
	case CondNe:
		return "ne"
	case CondLt:
		return "lt"
	case CondGt:
		return "gt"
	case CondLe:
		return "le"
	case CondGe:
		return "ge"
	}
	return "?"
}

type CmpInstr struct {
	Cond        CondCode
	Left, Right Value
}

// ConvOp converts between slot types.
type ConvOp uint8

const (
	ConvFromSint ConvOp = iota // i64 -> f64
	ConvToSint                 // f64 -> i64, truncating
	ConvUextend                // i8 -> i64
)

func (op ConvOp) String() string {
	switch op {
	case ConvFromSint:
		return "fcvt_from_sint"
	case ConvToSint:
		return "fcvt_to_sint"
	case ConvUextend:
		return "uextend"
	}
	return "?"
}

type ConvertInstr struct {
	Op  ConvOp
	Arg Value
}

type CallInstr struct {
	Func FuncID
	Args []Value
}

type DataAddrInstr struct {
	Data DataID
}

// MemInstr serves load and store: Value is the stored value.
type MemInstr struct {
	Type   Type
	Addr   Value
	Offset int32
	Value  Value
}

// VarInstr serves def_var and use_var.
type VarInstr struct {
	Var   Var
	Value Value
}
