package sema_test

import (
	"strings"
	"testing"

	"gold/internal/diag"
	"gold/internal/sema"
	"gold/internal/types"
)

func TestCheck_DynamicRebinding(t *testing.T) {
	src := "// f is a function.\n// Params:\n// Returns: String\nfn {\n  let x = 1\n  let x = \"s\"\n  x\n}\n"
	u, res := checkSource(t, src)
	expectCodes(t, u)
	id, fn := u.FnByName("f")
	if got := res.Scopes[id]["x"].Type; got != types.String {
		t.Fatalf("x bound as %v after rebinding", got)
	}
	if got := res.TypeOf(fn.Body[0]); got != types.Int {
		t.Fatalf("first let typed %v", got)
	}
	if got := res.TypeOf(fn.Body[2]); got != types.String {
		t.Fatalf("x typed %v", got)
	}
}

func TestCheck_ScopesAreIsolatedPerFunction(t *testing.T) {
	src := "// f is a function.\n// Params:\n// Returns: Int\nfn { let shared = 1\nshared }\n\n" +
		"// g is a function.\n// Params:\n// Returns: Int\nfn { shared }\n"
	u, _ := checkSource(t, src)
	expectCodes(t, u, diag.SemaUnboundVariable)
}

func TestCheck_DuplicateFunction(t *testing.T) {
	src := "// f is a function.\n// Params:\n// Returns: Int\nfn { 1 }\n\n" +
		"// f is a function.\n// Params:\n// 'x' is of type String.\n// Returns: String\nfn { x }\n\n" +
		"// main is a function.\n// Params:\n// Returns: Int\nfn { f() }\n"
	u, res := checkSource(t, src)
	expectCodes(t, u, diag.SemaDuplicateFunction)

	d := u.Bag.Items()[0]
	if len(d.Notes) != 1 || u.FS.Position(d.Notes[0].Span) != "test.gld:1:4" {
		t.Fatalf("notes = %+v", d.Notes)
	}
	if u.FS.Position(d.Primary) != "test.gld:6:4" {
		t.Fatalf("primary at %s", u.FS.Position(d.Primary))
	}
	// первая сигнатура сохраняется, вызов f() без аргументов корректен
	sig, _ := res.Function("f")
	if sig.Return != types.Int || len(sig.Params) != 0 {
		t.Fatalf("kept signature = %+v", sig)
	}
	if len(res.Order) != 2 || res.Order[0] != "f" || res.Order[1] != "main" {
		t.Fatalf("order = %v", res.Order)
	}
}

func TestCheck_BuiltinCannotBeRedeclared(t *testing.T) {
	src := "// print is a function.\n// Params:\n// Returns: Int\nfn { 1 }\n"
	u, _ := checkSource(t, src)
	expectCodes(t, u, diag.SemaDuplicateFunction)
	if !strings.Contains(u.Bag.Items()[0].Message, "builtin") {
		t.Fatalf("message = %q", u.Bag.Items()[0].Message)
	}
}

func TestCheck_RuntimeSymbolNamesAreReserved(t *testing.T) {
	for _, name := range []string{"malloc", "free", "ipowi", "powf", "concat"} {
		t.Run(name, func(t *testing.T) {
			src := "// " + name + " is a function.\n// Params:\n// 'n' is of type Int.\n// Returns: Int\nfn { n }\n"
			u, res := checkSource(t, src)
			expectCodes(t, u, diag.SemaDuplicateFunction)
			if !res.Diagnosed {
				t.Fatal("result is not marked as diagnosed")
			}
			d := u.Bag.Items()[0]
			if u.Text(d.Primary) != name || !strings.Contains(d.Message, "runtime") {
				t.Fatalf("diagnostic = %q at %q", d.Message, u.Text(d.Primary))
			}
		})
	}
}

func TestCheck_CallToRuntimeSymbolIsUnknown(t *testing.T) {
	u, _ := checkSource(t, withMain("Int", "malloc(8)"))
	expectCodes(t, u, diag.SemaFunctionDoesNotExist)
}

func TestCheck_UnknownTypeNameDoesNotCascade(t *testing.T) {
	src := "// f is a function.\n// Params:\n// 'x' is of type Strin.\n// Returns: Int\nfn {\n  x + 1\n}\n"
	u, res := checkSource(t, src)
	expectCodes(t, u, diag.SemaUnknownTypeName)
	if got := u.Text(u.Bag.Items()[0].Primary); got != "Strin" {
		t.Fatalf("span = %q", got)
	}
	sig, _ := res.Function("f")
	if sig.Params[0].Type != types.Invalid {
		t.Fatalf("unknown type resolved to %v", sig.Params[0].Type)
	}
}

func TestCheck_EmptyList(t *testing.T) {
	u, _ := checkSource(t, withMain("Int", "[]"))
	expectCodes(t, u, diag.SemaEmptyList)
}

func TestCheck_ListHasTypeOfFirstElement(t *testing.T) {
	u, res := checkSource(t, withMain("Void", `["a", "b"]`))
	expectCodes(t, u)
	_, fn := u.FnByName("main")
	if got := res.TypeOf(fn.Body[0]); got != types.String {
		t.Fatalf("list typed %v", got)
	}
}

func TestCheck_ReassignKeepsBoundType(t *testing.T) {
	tests := []struct {
		body string
		want []diag.Code
	}{
		{"let x = 1\nx = \"s\"\nx", []diag.Code{diag.SemaReassignTypeMismatch}},
		{"let x = 1\nx = x + 1\nx", nil},
		{"let x = 1 + 2\nx = 5\nint(x)", nil},
		{"let x = 1.5\nx = 2\n1", []diag.Code{diag.SemaReassignTypeMismatch}},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			u, _ := checkSource(t, withMain("Int", tt.body))
			expectCodes(t, u, tt.want...)
			if len(tt.want) == 0 {
				return
			}
			d := u.Bag.Items()[0]
			if d.Payload == nil || len(d.Notes) != 1 || u.Text(d.Notes[0].Span) != "x" {
				t.Fatalf("diagnostic = %+v", d)
			}
		})
	}
}

func TestCheck_ReturnType(t *testing.T) {
	tests := []struct {
		ret  string
		body string
		want []diag.Code
	}{
		{"String", "1", []diag.Code{diag.SemaReturnTypeMismatch}},
		{"Int", "", []diag.Code{diag.SemaReturnTypeMismatch}},
		{"Void", "1", nil},
		{"Void", "", nil},
		{"Int", "1 + 2", nil},
		{"Float", "1.5 * 2.0", nil},
		{"Float", "float(1)", nil},
		{"Int", "1 < 2", []diag.Code{diag.SemaReturnTypeMismatch}},
		{"Int", `println("hi")`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.ret+"/"+tt.body, func(t *testing.T) {
			u, _ := checkSource(t, withMain(tt.ret, tt.body))
			expectCodes(t, u, tt.want...)
			if len(tt.want) == 1 {
				d := u.Bag.Items()[0]
				if d.Payload == nil || d.Payload.Expected != tt.ret {
					t.Fatalf("payload = %+v", d.Payload)
				}
			}
		})
	}
}

func TestCheck_Builtins(t *testing.T) {
	tests := []struct {
		body string
		want []diag.Code
	}{
		{`print("x")`, nil},
		{"print(1)", []diag.Code{diag.SemaArgumentTypeMismatch}},
		{"int(2.5)", nil},
		{"int(1 + 2)", nil},
		{`int("2")`, []diag.Code{diag.SemaArgumentTypeMismatch}},
		{"float(1, 2)", []diag.Code{diag.SemaArityMismatch}},
		{"add(int(1 + 2), 3)", nil},
		{"add(1 + 2, 3)", []diag.Code{diag.SemaArgumentTypeMismatch}},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			u, _ := checkSource(t, withMain("Void", tt.body))
			expectCodes(t, u, tt.want...)
			for _, d := range u.Bag.Items() {
				// у встроенных функций нет спана объявления
				for _, n := range d.Notes {
					if n.Span.Empty() {
						t.Fatalf("note with empty span: %+v", n)
					}
				}
			}
		})
	}
	if !sema.IsBuiltin("println") || sema.IsBuiltin("add") {
		t.Fatal("IsBuiltin")
	}
}

func TestCheck_ControlFlowTypes(t *testing.T) {
	tests := []struct {
		body string
		want types.Type
	}{
		{"if 1 < 2 { 1 } else { 2 }", types.Int},
		{`if 1 < 2 { "a" } elif 2 < 3 { 1 } else { 2.5 }`, types.String},
		{"if 1 < 2 { }", types.Void},
		{"let i = 0\nwhile i < 3 { i = i + 1 }", types.Number},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			u, res := checkSource(t, withMain("Void", tt.body))
			expectCodes(t, u)
			_, fn := u.FnByName("main")
			last := fn.Body[len(fn.Body)-1]
			if got := res.TypeOf(last); got != tt.want {
				t.Fatalf("typed %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheck_DiagnosticsAccumulate(t *testing.T) {
	u, _ := checkSource(t, withMain("Void", "c\nf()\nadd(1)\n1 is \"s\""))
	expectCodes(t, u,
		diag.SemaUnboundVariable,
		diag.SemaFunctionDoesNotExist,
		diag.SemaArityMismatch,
		diag.SemaOperandTypeMismatch,
	)
}

func TestCheck_Golden(t *testing.T) {
	u, _ := checkSource(t, withMain("Int", "add(1)"))
	want := strings.Join([]string{
		"note SEM3003 test.gld:1:4 `add` declared here",
		"error SEM3003 test.gld:14:6 `add` takes 2 arguments but 1 was supplied",
		"note SEM3003 test.gld:14:6 expected 2, found 1",
	}, "\n")
	if got := u.Golden(); got != want {
		t.Fatalf("golden mismatch:\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEnvironment(t *testing.T) {
	env := sema.NewEnvironment()
	sig := &sema.FunctionSignature{Name: "f", Return: types.Int}
	if _, ok := env.Declare(sig); !ok {
		t.Fatal("first declaration must succeed")
	}
	if prev, ok := env.Declare(&sema.FunctionSignature{Name: "f"}); ok || prev != sig {
		t.Fatal("second declaration must return the first signature")
	}

	env.PushFrame()
	env.Bind("x", sema.VariableBinding{Type: types.Int})
	env.PushFrame()
	if _, ok := env.Lookup("x"); ok {
		t.Fatal("inner frame must not see outer locals")
	}
	env.PopFrame()
	if b, ok := env.Lookup("x"); !ok || b.Type != types.Int {
		t.Fatal("binding lost after pop")
	}
	if got := env.PopFrame(); len(got) != 1 {
		t.Fatalf("popped %v", got)
	}
}
