package jit

import "testing"

func TestIpowi(t *testing.T) {
	tests := []struct{ base, exp, want int64 }{
		{2, 0, 1},
		{2, 10, 1024},
		{-3, 3, -27},
		{0, 0, 1},
		{5, -1, 0},
		{1, -7, 1},
		{-1, -3, -1},
		{-1, -4, 1},
	}
	for _, tt := range tests {
		got, trap := rtIpowi(nil, []uint64{uint64(tt.base), uint64(tt.exp)})
		if trap != nil {
			t.Fatal(trap)
		}
		if int64(got) != tt.want {
			t.Errorf("ipowi(%d, %d) = %d, want %d", tt.base, tt.exp, int64(got), tt.want)
		}
	}
}

func TestHeap_ReuseAndFaults(t *testing.T) {
	h := newHeap(1 << 10)
	a, trap := h.alloc(10)
	if trap != nil {
		t.Fatal(trap)
	}
	if a != heapBase || h.inUse != 16 {
		t.Fatalf("alloc(10) = %#x, inUse %d", a, h.inUse)
	}
	b, _ := h.alloc(8)
	if trap := h.store(b, 8, 0xdeadbeef); trap != nil {
		t.Fatal(trap)
	}
	if v, _ := h.load(b, 8); v != 0xdeadbeef {
		t.Fatalf("load = %#x", v)
	}
	if trap := h.release(a); trap != nil {
		t.Fatal(trap)
	}
	c, _ := h.alloc(4)
	if c != a {
		t.Fatalf("freed block not reused: %#x", c)
	}
	if trap := h.release(a + 8); trap == nil || trap.Code != TrapBadFree {
		t.Fatalf("bad free: %v", trap)
	}
	if _, trap := h.load(0, 8); trap == nil || trap.Code != TrapBadPointer {
		t.Fatalf("null load: %v", trap)
	}
	if _, trap := h.alloc(4096); trap == nil || trap.Code != TrapOutOfMemory {
		t.Fatalf("oversized alloc: %v", trap)
	}
}

func TestHeap_CString(t *testing.T) {
	h := newHeap(1 << 10)
	addr, _ := h.putBytes([]byte("hi\x00"))
	s, trap := h.cstring(addr)
	if trap != nil || s != "hi" {
		t.Fatalf("cstring = %q, %v", s, trap)
	}
	raw, _ := h.putBytes([]byte("abcdefgh"))
	if _, trap := h.cstring(raw); trap == nil {
		t.Fatal("unterminated string accepted")
	}
}
