package jit

import (
	"fmt"
	"math"

	"gold/internal/ir"
)

// frame holds the registers of one activation.
type frame struct {
	vals []uint64
	vars []uint64
	ret  uint64
}

type step func(fr *frame) *Trap

// exit runs a terminator and returns the next block, nil after a return.
type exit func(fr *frame) *block

type block struct {
	steps []step
	exit  exit
}

type function struct {
	name   string
	sig    ir.Signature
	native native

	nvals, nvars int
	params       []ir.Value
	entry        *block
}

func (m *Module) compile(fn *function, f *ir.Func) error {
	fn.nvals = len(f.Values)
	fn.nvars = len(f.Vars)
	blocks := make([]*block, len(f.Blocks))
	for i := range blocks {
		blocks[i] = &block{}
	}
	for i := range f.Blocks {
		src := &f.Blocks[i]
		dst := blocks[i]
		for k := range src.Instrs {
			s, err := m.compileInstr(f, &src.Instrs[k])
			if err != nil {
				return fmt.Errorf("block%d: %w", src.ID, err)
			}
			dst.steps = append(dst.steps, s)
		}
		dst.exit = compileTerm(&src.Term, blocks)
	}
	entry := f.Block(f.Entry)
	if entry == nil {
		return fmt.Errorf("missing entry block%d", f.Entry)
	}
	fn.params = entry.Params
	fn.entry = blocks[f.Entry]
	return nil
}

func compileTerm(t *ir.Terminator, blocks []*block) exit {
	switch t.Kind {
	case ir.TermJump:
		target := blocks[t.Jump.Target]
		return func(*frame) *block { return target }
	case ir.TermBrif:
		cond, then, els := t.Brif.Cond, blocks[t.Brif.Then], blocks[t.Brif.Else]
		return func(fr *frame) *block {
			if fr.vals[cond] != 0 {
				return then
			}
			return els
		}
	}
	if len(t.Return.Values) == 0 {
		return func(*frame) *block { return nil }
	}
	v := t.Return.Values[0]
	return func(fr *frame) *block {
		fr.ret = fr.vals[v]
		return nil
	}
}

func (m *Module) compileInstr(f *ir.Func, in *ir.Instr) (step, error) {
	res := in.Result
	switch in.Kind {
	case ir.InstrIconst:
		c := uint64(in.Const.Int)
		if in.Const.Type == ir.I8 {
			c &= 0xff
		}
		return func(fr *frame) *Trap { fr.vals[res] = c; return nil }, nil

	case ir.InstrF64const:
		c := math.Float64bits(in.Const.Float)
		return func(fr *frame) *Trap { fr.vals[res] = c; return nil }, nil

	case ir.InstrBinary:
		return compileBinary(in.Binary, res), nil

	case ir.InstrIcmp:
		l, r, cc := in.Cmp.Left, in.Cmp.Right, in.Cmp.Cond
		return func(fr *frame) *Trap {
			fr.vals[res] = b2u(icmp(cc, int64(fr.vals[l]), int64(fr.vals[r])))
			return nil
		}, nil

	case ir.InstrFcmp:
		l, r, cc := in.Cmp.Left, in.Cmp.Right, in.Cmp.Cond
		return func(fr *frame) *Trap {
			x, y := math.Float64frombits(fr.vals[l]), math.Float64frombits(fr.vals[r])
			fr.vals[res] = b2u(fcmp(cc, x, y))
			return nil
		}, nil

	case ir.InstrConvert:
		return compileConvert(in.Convert, res)

	case ir.InstrCall:
		if int(in.Call.Func) >= len(m.funcs) {
			return nil, fmt.Errorf("call of unknown function id %d", in.Call.Func)
		}
		callee := m.funcs[in.Call.Func]
		args := append([]ir.Value(nil), in.Call.Args...)
		return func(fr *frame) *Trap {
			argv := make([]uint64, len(args))
			for i, a := range args {
				argv[i] = fr.vals[a]
			}
			out, trap := m.invoke(callee, argv)
			if trap != nil {
				return trap
			}
			if res != ir.NoValue {
				fr.vals[res] = out
			}
			return nil
		}, nil

	case ir.InstrDataAddr:
		if int(in.DataAddr.Data) >= len(m.data) {
			return nil, fmt.Errorf("unknown data object d%d", in.DataAddr.Data)
		}
		addr := m.data[in.DataAddr.Data]
		return func(fr *frame) *Trap { fr.vals[res] = addr; return nil }, nil

	case ir.InstrLoad:
		addr, off, size := in.Mem.Addr, uint64(int64(in.Mem.Offset)), uint64(in.Mem.Type.Size()) // #nosec G115 -- sizes are 1 or 8
		return func(fr *frame) *Trap {
			v, trap := m.heap.load(fr.vals[addr]+off, size)
			if trap != nil {
				return trap
			}
			fr.vals[res] = v
			return nil
		}, nil

	case ir.InstrStore:
		addr, off, val := in.Mem.Addr, uint64(int64(in.Mem.Offset)), in.Mem.Value
		size := uint64(f.ValueType(val).Size()) // #nosec G115 -- sizes are 1 or 8
		if in.Mem.Type != ir.TypeNone {
			size = uint64(in.Mem.Type.Size()) // #nosec G115 -- sizes are 1 or 8
		}
		return func(fr *frame) *Trap {
			return m.heap.store(fr.vals[addr]+off, size, fr.vals[val])
		}, nil

	case ir.InstrDefVar:
		v, val := in.Var.Var, in.Var.Value
		return func(fr *frame) *Trap { fr.vars[v] = fr.vals[val]; return nil }, nil

	case ir.InstrUseVar:
		v := in.Var.Var
		return func(fr *frame) *Trap { fr.vals[res] = fr.vars[v]; return nil }, nil
	}
	return nil, fmt.Errorf("unsupported instruction kind %d", in.Kind)
}

func compileBinary(b ir.BinaryInstr, res ir.Value) step {
	l, r := b.Left, b.Right
	if b.Op.IsFloat() {
		op := b.Op
		return func(fr *frame) *Trap {
			x, y := math.Float64frombits(fr.vals[l]), math.Float64frombits(fr.vals[r])
			var z float64
			switch op {
			case ir.BinFadd:
				z = x + y
			case ir.BinFsub:
				z = x - y
			case ir.BinFmul:
				z = x * y
			default:
				z = x / y
			}
			fr.vals[res] = math.Float64bits(z)
			return nil
		}
	}
	switch b.Op {
	case ir.BinIadd:
		return func(fr *frame) *Trap { fr.vals[res] = fr.vals[l] + fr.vals[r]; return nil }
	case ir.BinIsub:
		return func(fr *frame) *Trap { fr.vals[res] = fr.vals[l] - fr.vals[r]; return nil }
	case ir.BinImul:
		return func(fr *frame) *Trap { fr.vals[res] = fr.vals[l] * fr.vals[r]; return nil }
	}
	return func(fr *frame) *Trap {
		x, y := int64(fr.vals[l]), int64(fr.vals[r])
		switch {
		case y == 0:
			return trapf(TrapDivByZero, "%d / 0", x)
		case x == math.MinInt64 && y == -1:
			return trapf(TrapIntOverflow, "%d / -1", x)
		}
		fr.vals[res] = uint64(x / y)
		return nil
	}
}

func compileConvert(c ir.ConvertInstr, res ir.Value) (step, error) {
	arg := c.Arg
	switch c.Op {
	case ir.ConvFromSint:
		return func(fr *frame) *Trap {
			fr.vals[res] = math.Float64bits(float64(int64(fr.vals[arg])))
			return nil
		}, nil
	case ir.ConvToSint:
		return func(fr *frame) *Trap {
			f := math.Float64frombits(fr.vals[arg])
			// 2^63 itself does not fit
			if math.IsNaN(f) || f < math.MinInt64 || f >= -math.MinInt64 {
				return trapf(TrapBadConversion, "%v", f)
			}
			fr.vals[res] = uint64(int64(f))
			return nil
		}, nil
	case ir.ConvUextend:
		return func(fr *frame) *Trap { fr.vals[res] = fr.vals[arg] & 0xff; return nil }, nil
	}
	return nil, fmt.Errorf("unsupported conversion %s", c.Op)
}

func icmp(cc ir.CondCode, x, y int64) bool {
	switch cc {
	case ir.CondEq:
		return x == y
	case ir.CondNe:
		return x != y
	case ir.CondLt:
		return x < y
	case ir.CondGt:
		return x > y
	case ir.CondLe:
		return x <= y
	}
	return x >= y
}

func fcmp(cc ir.CondCode, x, y float64) bool {
	switch cc {
	case ir.CondEq:
		return x == y
	case ir.CondNe:
		return x != y
	case ir.CondLt:
		return x < y
	case ir.CondGt:
		return x > y
	case ir.CondLe:
		return x <= y
	}
	return x >= y
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// invoke runs fn with raw argument slots. Traps are tagged with the
// innermost compiled function.
func (m *Module) invoke(fn *function, args []uint64) (uint64, *Trap) {
	if fn.native != nil {
		out, trap := fn.native(m, args)
		if trap != nil && trap.Func == "" {
			trap.Func = fn.name
		}
		return out, trap
	}
	if m.depth >= m.opts.MaxCallDepth {
		return 0, &Trap{Code: TrapStackOverflow, Func: fn.name, Message: fmt.Sprintf("depth limit %d reached", m.opts.MaxCallDepth)}
	}
	m.depth++
	defer func() { m.depth-- }()

	fr := &frame{vals: make([]uint64, fn.nvals), vars: make([]uint64, fn.nvars)}
	for i, p := range fn.params {
		fr.vals[p] = args[i]
	}
	for b := fn.entry; b != nil; b = b.exit(fr) {
		for _, s := range b.steps {
			if trap := s(fr); trap != nil {
				if trap.Func == "" {
					trap.Func = fn.name
				}
				return 0, trap
			}
		}
	}
	return fr.ret, nil
}
