package jit

import (
	"fmt"
	"math"

	"gold/internal/ir"
)

// Code is a callable function of a finalized Module. Arguments and the
// result travel as int64 slots: floats as their IEEE bits (see FloatArg and
// FloatResult), bools as 0/1, strings and lists as heap addresses.
type Code struct {
	m  *Module
	fn *function
}

func (c *Code) Name() string { return c.fn.name }

func (c *Code) Signature() ir.Signature { return c.fn.sig }

// Call runs the function. A runtime fault is reported as *Trap.
func (c *Code) Call(args ...int64) (int64, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.m.closed {
		return 0, ErrClosed
	}
	if len(args) != len(c.fn.sig.Params) {
		return 0, fmt.Errorf("jit: %s takes %d arguments, got %d", c.fn.name, len(c.fn.sig.Params), len(args))
	}
	raw := make([]uint64, len(args))
	for i, a := range args {
		raw[i] = uint64(a)
		if c.fn.sig.Params[i] == ir.I8 {
			raw[i] &= 0xff
		}
	}
	c.m.depth = 0
	res, trap := c.m.invoke(c.fn, raw)
	if trap != nil {
		return 0, trap
	}
	return int64(res), nil
}

// ReadString reads a NUL-terminated string produced by compiled code.
func (c *Code) ReadString(addr int64) (string, error) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	if c.m.closed {
		return "", ErrClosed
	}
	s, trap := c.m.heap.cstring(uint64(addr))
	if trap != nil {
		trap.Func = c.fn.name
		return "", trap
	}
	return s, nil
}

func FloatArg(f float64) int64 { return int64(math.Float64bits(f)) }

func FloatResult(v int64) float64 { return math.Float64frombits(uint64(v)) }
