package jit

import "fmt"

// TrapCode classifies runtime faults of compiled code.
type TrapCode uint8

const (
	TrapDivByZero TrapCode = iota + 1
	TrapIntOverflow
	TrapBadConversion
	TrapBadPointer
	TrapBadFree
	TrapOutOfMemory
	TrapStackOverflow
)

func (c TrapCode) String() string {
	switch c {
	case TrapDivByZero:
		return "integer division by zero"
	case TrapIntOverflow:
		return "integer overflow"
	case TrapBadConversion:
		return "bad conversion to integer"
	case TrapBadPointer:
		return "out of bounds memory access"
	case TrapBadFree:
		return "free of an unallocated pointer"
	case TrapOutOfMemory:
		return "out of memory"
	case TrapStackOverflow:
		return "call stack exhausted"
	}
	return "unknown trap"
}

// Trap is returned by Code.Call when compiled code faults.
type Trap struct {
	Code    TrapCode
	Func    string // function executing when the trap fired
	Message string
}

func (t *Trap) Error() string {
	if t.Message == "" {
		return fmt.Sprintf("trap in %s: %s", t.Func, t.Code)
	}
	return fmt.Sprintf("trap in %s: %s: %s", t.Func, t.Code, t.Message)
}

func trapf(code TrapCode, format string, args ...any) *Trap {
	return &Trap{Code: code, Message: fmt.Sprintf(format, args...)}
}
