package jit

import (
	"io"
	"math"

	"gold/internal/ir"
)

// native is a runtime function callable from compiled code.
type native func(m *Module, args []uint64) (uint64, *Trap)

type symbol struct {
	sig ir.Signature
	fn  native
}

var (
	sigPtrToInt = ir.Signature{Params: []ir.Type{ir.Ptr}, Returns: []ir.Type{ir.I64}}
	sigIntInt   = ir.Signature{Params: []ir.Type{ir.I64, ir.I64}, Returns: []ir.Type{ir.I64}}
)

// runtimeSymbols is the symbol table imports are linked against.
var runtimeSymbols = map[string]symbol{
	"print":   {sig: sigPtrToInt, fn: rtPrint},
	"println": {sig: sigPtrToInt, fn: rtPrintln},
	"malloc":  {sig: ir.Signature{Params: []ir.Type{ir.I64}, Returns: []ir.Type{ir.Ptr}}, fn: rtMalloc},
	"free":    {sig: ir.Signature{Params: []ir.Type{ir.Ptr}}, fn: rtFree},
	"ipowi":   {sig: sigIntInt, fn: rtIpowi},
	"powf":    {sig: ir.Signature{Params: []ir.Type{ir.F64, ir.F64}, Returns: []ir.Type{ir.F64}}, fn: rtPowf},
	"concat":  {sig: ir.Signature{Params: []ir.Type{ir.Ptr, ir.Ptr}, Returns: []ir.Type{ir.Ptr}}, fn: rtConcat},
}

// Symbols lists the names of the runtime functions.
func Symbols() []string {
	return []string{"print", "println", "malloc", "free", "ipowi", "powf", "concat"}
}

func writeString(w io.Writer, s string) (uint64, *Trap) {
	n, err := io.WriteString(w, s)
	if err != nil {
		// как у printf: ошибка вывода - отрицательный результат
		return uint64(math.MaxUint64), nil
	}
	return uint64(n), nil // #nosec G115 -- n >= 0
}

func rtPrint(m *Module, args []uint64) (uint64, *Trap) {
	s, trap := m.heap.cstring(args[0])
	if trap != nil {
		return 0, trap
	}
	return writeString(m.opts.Stdout, s)
}

func rtPrintln(m *Module, args []uint64) (uint64, *Trap) {
	s, trap := m.heap.cstring(args[0])
	if trap != nil {
		return 0, trap
	}
	return writeString(m.opts.Stdout, s+"\n")
}

func rtMalloc(m *Module, args []uint64) (uint64, *Trap) {
	if int64(args[0]) < 0 {
		return 0, trapf(TrapOutOfMemory, "malloc(%d)", int64(args[0]))
	}
	return m.heap.alloc(args[0])
}

func rtFree(m *Module, args []uint64) (uint64, *Trap) {
	return 0, m.heap.release(args[0])
}

// rtIpowi raises an integer to an integer power with wrapping multiplication.
// Negative exponents give 0 except for bases 1 and -1.
func rtIpowi(_ *Module, args []uint64) (uint64, *Trap) {
	base, exp := int64(args[0]), int64(args[1])
	if exp < 0 {
		switch base {
		case 1:
			return 1, nil
		case -1:
			if exp%2 == 0 {
				return 1, nil
			}
			return uint64(math.MaxUint64), nil // -1
		}
		return 0, nil
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return uint64(result), nil
}

func rtPowf(_ *Module, args []uint64) (uint64, *Trap) {
	x, y := math.Float64frombits(args[0]), math.Float64frombits(args[1])
	return math.Float64bits(math.Pow(x, y)), nil
}

func rtConcat(m *Module, args []uint64) (uint64, *Trap) {
	a, trap := m.heap.cstring(args[0])
	if trap != nil {
		return 0, trap
	}
	b, trap := m.heap.cstring(args[1])
	if trap != nil {
		return 0, trap
	}
	buf := make([]byte, 0, len(a)+len(b)+1)
	buf = append(buf, a...)
	buf = append(buf, b...)
	buf = append(buf, 0)
	return m.heap.putBytes(buf)
}
