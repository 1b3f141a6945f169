// Package jit executes an ir.Module in-process. Finalize compiles every
// defined function into a chain of Go closures over a register frame and
// links imported declarations against the runtime symbol table.
package jit

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"gold/internal/ir"
)

// ErrClosed is returned by calls made after Module.Close.
var ErrClosed = errors.New("jit: module is closed")

const defaultMaxCallDepth = 10000

type Options struct {
	// Stdout receives print/println output; io.Discard when nil.
	Stdout io.Writer
	// MaxCallDepth bounds recursion; exceeding it traps. 0 selects the default.
	MaxCallDepth int
	// HeapLimit caps the heap in bytes. 0 selects 64 MiB.
	HeapLimit int
}

// Module is a finalized, callable image of an ir.Module. Calls are serialized.
type Module struct {
	mu   sync.Mutex
	src  *ir.Module
	opts Options

	heap  *heap
	funcs []*function // indexed by ir.FuncID
	data  []uint64    // heap address per ir.DataID
	depth int

	finalized bool
	closed    bool
}

func New(mod *ir.Module, opts Options) *Module {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = defaultMaxCallDepth
	}
	return &Module{src: mod, opts: opts, heap: newHeap(clampLimit(opts.HeapLimit))}
}

// Finalize validates the module, links imports and compiles every function.
// Calling it again is a no-op.
func (m *Module) Finalize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.closed:
		return ErrClosed
	case m.finalized:
		return nil
	case m.src == nil:
		return errors.New("jit: nil module")
	}
	if err := ir.Validate(m.src); err != nil {
		return fmt.Errorf("jit: %w", err)
	}

	m.funcs = make([]*function, len(m.src.Decls))
	for i := range m.src.Decls {
		d := &m.src.Decls[i]
		fn := &function{name: d.Name, sig: d.Sig}
		if d.Linkage == ir.LinkageImport {
			sym, ok := runtimeSymbols[d.Name]
			if !ok {
				return fmt.Errorf("jit: unresolved import %q", d.Name)
			}
			if !sym.sig.Equal(d.Sig) {
				return fmt.Errorf("jit: import %q: signature does not match the runtime symbol", d.Name)
			}
			fn.native = sym.fn
		} else if m.src.Funcs[i] == nil {
			return fmt.Errorf("jit: function %q is declared but never defined", d.Name)
		}
		m.funcs[i] = fn
	}

	m.data = make([]uint64, len(m.src.Data))
	for i, obj := range m.src.Data {
		addr, trap := m.heap.putBytes(obj.Bytes)
		if trap != nil {
			return fmt.Errorf("jit: data %s: %w", obj.Name, trap)
		}
		m.data[i] = addr
	}

	for i, fn := range m.funcs {
		if fn.native != nil {
			continue
		}
		if err := m.compile(fn, m.src.Funcs[i]); err != nil {
			return fmt.Errorf("jit: %s: %w", fn.name, err)
		}
	}
	m.finalized = true
	return nil
}

// Function looks a callable up by name.
func (m *Module) Function(name string) (*Code, error) {
	id, ok := m.src.FuncByName(name)
	if !ok {
		return nil, fmt.Errorf("jit: no function named %q", name)
	}
	return m.FunctionByID(id)
}

func (m *Module) FunctionByID(id ir.FuncID) (*Code, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.closed:
		return nil, ErrClosed
	case !m.finalized:
		return nil, errors.New("jit: module is not finalized")
	case int(id) >= len(m.funcs):
		return nil, fmt.Errorf("jit: unknown function id %d", id)
	}
	return &Code{m: m, fn: m.funcs[id]}, nil
}

// HeapInUse reports the bytes currently allocated, string data included.
func (m *Module) HeapInUse() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int(m.heap.inUse) // #nosec G115 -- bounded by clampLimit
}

// Close drops compiled code and heap memory. Outstanding Code values fail
// with ErrClosed afterwards.
func (m *Module) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.funcs = nil
	m.data = nil
	m.heap = newHeap(0)
	return nil
}

// NewString copies s onto the heap as a NUL-terminated string and returns
// its address, ready to pass as a String argument.
func (m *Module) NewString(s string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, ErrClosed
	}
	addr, trap := m.heap.putBytes(append([]byte(s), 0))
	if trap != nil {
		return 0, trap
	}
	return int64(addr), nil // #nosec G115 -- heap addresses stay below 2^32
}
