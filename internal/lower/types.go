package lower

import (
	"gold/internal/ir"
	"gold/internal/types"
)

// irType maps a declared type to its slot. Void has no slot.
func irType(t types.Type) ir.Type {
	switch t {
	case types.Int:
		return ir.I64
	case types.Float:
		return ir.F64
	case types.Bool:
		return ir.I8
	case types.String:
		return ir.Ptr
	}
	return ir.TypeNone
}

// Signature derives the slot signature of a function from its declared types.
// A Void parameter still occupies an i64 slot.
func Signature(params []types.Type, ret types.Type) ir.Signature {
	sig := ir.Signature{Params: make([]ir.Type, len(params))}
	for i, p := range params {
		t := irType(p)
		if t == ir.TypeNone {
			t = ir.I64
		}
		sig.Params[i] = t
	}
	if rt := irType(ret); rt != ir.TypeNone {
		sig.Returns = []ir.Type{rt}
	}
	return sig
}
