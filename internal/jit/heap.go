package jit

import (
	"bytes"
	"encoding/binary"
	"math"
	"sort"
)

// heapBase is the lowest valid address; everything below it, including 0,
// faults.
const heapBase uint64 = 0x1000

// heap is the byte memory behind malloc/free and string data. Allocations
// are 8-byte aligned; freed blocks are reused first-fit.
type heap struct {
	mem   []byte
	live  map[uint64]uint64 // addr -> size
	free  []freeBlock       // sorted by addr
	limit uint64
	inUse uint64
}

type freeBlock struct {
	addr, size uint64
}

func newHeap(limit uint64) *heap {
	return &heap{live: make(map[uint64]uint64), limit: limit}
}

func align8(n uint64) uint64 {
	return (n + 7) &^ 7
}

func (h *heap) alloc(n uint64) (uint64, *Trap) {
	size := align8(n)
	if size == 0 {
		size = 8
	}
	for i, fb := range h.free {
		if fb.size < size {
			continue
		}
		addr := fb.addr
		if fb.size == size {
			h.free = append(h.free[:i], h.free[i+1:]...)
		} else {
			h.free[i] = freeBlock{addr: fb.addr + size, size: fb.size - size}
		}
		clear(h.mem[addr-heapBase : addr-heapBase+size])
		h.live[addr] = size
		h.inUse += size
		return addr, nil
	}
	if uint64(len(h.mem))+size > h.limit {
		return 0, trapf(TrapOutOfMemory, "malloc(%d) exceeds the %d byte heap", n, h.limit)
	}
	addr := heapBase + uint64(len(h.mem))
	h.mem = append(h.mem, make([]byte, size)...)
	h.live[addr] = size
	h.inUse += size
	return addr, nil
}

func (h *heap) release(addr uint64) *Trap {
	if addr == 0 {
		return nil
	}
	size, ok := h.live[addr]
	if !ok {
		return trapf(TrapBadFree, "free(%#x)", addr)
	}
	delete(h.live, addr)
	h.inUse -= size
	i := sort.Search(len(h.free), func(i int) bool { return h.free[i].addr > addr })
	h.free = append(h.free, freeBlock{})
	copy(h.free[i+1:], h.free[i:])
	h.free[i] = freeBlock{addr: addr, size: size}
	return nil
}

// slice returns n bytes at addr, or a trap when the range leaves the heap.
func (h *heap) slice(addr, n uint64) ([]byte, *Trap) {
	end := heapBase + uint64(len(h.mem))
	if addr < heapBase || addr > end || n > end-addr {
		return nil, trapf(TrapBadPointer, "access of %d bytes at %#x", n, addr)
	}
	off := addr - heapBase
	return h.mem[off : off+n], nil
}

func (h *heap) load(addr, n uint64) (uint64, *Trap) {
	b, trap := h.slice(addr, n)
	if trap != nil {
		return 0, trap
	}
	if n == 1 {
		return uint64(b[0]), nil
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (h *heap) store(addr, n, v uint64) *Trap {
	b, trap := h.slice(addr, n)
	if trap != nil {
		return trap
	}
	if n == 1 {
		b[0] = byte(v)
		return nil
	}
	binary.LittleEndian.PutUint64(b, v)
	return nil
}

// cstring reads a NUL-terminated string.
func (h *heap) cstring(addr uint64) (string, *Trap) {
	if _, trap := h.slice(addr, 0); trap != nil {
		return "", trap
	}
	rest := h.mem[addr-heapBase:]
	n := bytes.IndexByte(rest, 0)
	if n < 0 {
		return "", trapf(TrapBadPointer, "unterminated string at %#x", addr)
	}
	return string(rest[:n]), nil
}

// putBytes allocates and fills a block with data.
func (h *heap) putBytes(data []byte) (uint64, *Trap) {
	addr, trap := h.alloc(uint64(len(data)))
	if trap != nil {
		return 0, trap
	}
	copy(h.mem[addr-heapBase:], data)
	return addr, nil
}

const defaultHeapLimit = 64 << 20

func clampLimit(n int) uint64 {
	if n <= 0 {
		return defaultHeapLimit
	}
	if uint64(n) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint64(n)
}
