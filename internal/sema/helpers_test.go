package sema_test

import (
	"context"
	"testing"

	"gold/internal/diag"
	"gold/internal/sema"
	"gold/internal/testkit"
)

const addSource = `// add is a function.
// Params:
// 'a' is of type Int.
// 'b' is of type Int.
// Returns: Int
fn {
  a + b
}
`

func checkSource(t *testing.T, src string) (*testkit.Unit, sema.Result) {
	t.Helper()
	u := testkit.MustParse(t, src)
	res := sema.Check(context.Background(), u.Builder, u.File, sema.Options{Reporter: u.Reporter()})
	return u, res
}

// withMain добавляет к add функцию main с заданным телом
func withMain(ret, body string) string {
	return addSource + "\n// main is a function.\n// Params:\n// Returns: " + ret + "\nfn {\n  " + body + "\n}\n"
}

func codes(bag *diag.Bag) []diag.Code {
	items := bag.Items()
	out := make([]diag.Code, len(items))
	for i, d := range items {
		out[i] = d.Code
	}
	return out
}

func expectCodes(t *testing.T, u *testkit.Unit, want ...diag.Code) {
	t.Helper()
	got := codes(u.Bag)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v\n%s", got, want, u.Golden())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("diagnostic %d: got %s, want %s\n%s", i, got[i].ID(), want[i].ID(), u.Golden())
		}
	}
}
