package types

import "testing"

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		ty, ok := Lookup(name)
		if !ok || ty.String() != name {
			t.Errorf("Lookup(%q) = %v, %v", name, ty, ok)
		}
	}
	for _, bad := range []string{"Number", "int", "Integer", ""} {
		if _, ok := Lookup(bad); ok {
			t.Errorf("Lookup(%q) must fail", bad)
		}
	}
}

func TestAssignableTo(t *testing.T) {
	tests := []struct {
		src, dst Type
		want     bool
	}{
		{Int, Int, true},
		{Number, Int, true},
		{Number, Float, true},
		{Number, String, false},
		{Int, Float, false},
		{Float, Number, true},
		{Bool, Number, false},
		{Float, Int, false},
		{String, Bool, false},
		{Invalid, String, true},
		{Bool, Invalid, true},
	}
	for _, tt := range tests {
		if got := tt.src.AssignableTo(tt.dst); got != tt.want {
			t.Errorf("%v.AssignableTo(%v) = %v, want %v", tt.src, tt.dst, got, tt.want)
		}
	}
}
