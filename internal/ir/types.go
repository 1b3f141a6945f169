// Package ir is the backend-facing intermediate representation produced by
// lowering: functions made of basic blocks over typed mutable variables and
// single-definition values.
//
// Entity ids (Value, Var, BlockID) are per function and start at 0 in every
// Func. FuncID and DataID are per Module.
package ir

import "math"

// Type is a machine-level slot type.
type Type uint8

const (
	TypeNone Type = iota
	I8            // bool
	I64           // int and pointer
	F64
)

// Ptr is the pointer type; pointers are 64-bit integers.
const Ptr = I64

func (t Type) String() string {
	switch t {
	case I8:
		return "i8"
	case I64:
		return "i64"
	case F64:
		return "f64"
	}
	return "none"
}

// Size returns the width of t in bytes.
func (t Type) Size() int {
	switch t {
	case I8:
		return 1
	case I64, F64:
		return 8
	}
	return 0
}

func (t Type) IsInt() bool { return t == I8 || t == I64 }

type (
	FuncID  uint32
	DataID  uint32
	BlockID uint32
	Var     uint32
	Value   uint32
)

const (
	NoFuncID  FuncID  = math.MaxUint32
	NoBlockID BlockID = math.MaxUint32
	NoValue   Value   = math.MaxUint32
)

// Signature is a function type in slot terms. Returns has at most one entry.
type Signature struct {
	Params  []Type
	Returns []Type
}

// Equal reports whether two signatures have the same slots.
func (s Signature) Equal(o Signature) bool {
	if len(s.Params) != len(o.Params) || len(s.Returns) != len(o.Returns) {
		return false
	}
	for i := range s.Params {
		if s.Params[i] != o.Params[i] {
			return false
		}
	}
	for i := range s.Returns {
		if s.Returns[i] != o.Returns[i] {
			return false
		}
	}
	return true
}

// Result returns the return slot type, TypeNone for void functions.
func (s Signature) Result() Type {
	if len(s.Returns) == 0 {
		return TypeNone
	}
	return s.Returns[0]
}
