package lower_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gold/internal/ir"
	"gold/internal/lower"
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

func fnSource(name, ret, body string) string {
	return "// " + name + " is a function.\n// Params:\n// Returns: " + ret + "\nfn {\n" + body + "\n}\n"
}

func lowerSource(t *testing.T, src string) *ir.Module {
	t.Helper()
	u := testkit.MustParse(t, src)
	res := sema.Check(context.Background(), u.Builder, u.File, sema.Options{Reporter: u.Reporter()})
	if res.Diagnosed {
		t.Fatalf("unexpected diagnostics:\n%s", u.Golden())
	}
	mod, err := lower.Program(context.Background(), u.Builder, u.File, &res, lower.Options{})
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	if err := ir.Validate(mod); err != nil {
		t.Fatalf("validate: %v\n%s", err, ir.Format(mod))
	}
	return mod
}

func TestProgram_Add(t *testing.T) {
	mod := lowerSource(t, addSource)
	want := strings.Join([]string{
		"export fn add(i64, i64) -> i64 {",
		"    var0: i64",
		"    var1: i64",
		"    var2: i64",
		"block0(v0: i64, v1: i64):",
		"    def_var var0, v0",
		"    def_var var1, v1",
		"    v2 = iconst.i64 0",
		"    def_var var2, v2",
		"    v3 = use_var var0",
		"    v4 = use_var var1",
		"    v5 = iadd v3, v4",
		"    def_var var2, v5",
		"    v6 = use_var var2",
		"    return v6",
		"}",
	}, "\n")
	got := ir.Format(mod)
	if !strings.Contains(got, want) {
		t.Fatalf("unexpected IR:\n%s", got)
	}
	for _, d := range lower.RuntimeImports() {
		if !strings.Contains(got, "import fn "+d.Name+"(") {
			t.Errorf("runtime import %s missing", d.Name)
		}
	}
}

func TestProgram_IdsRestartPerFunction(t *testing.T) {
	src := addSource + "\n" + fnSource("main", "Int", "let x = 1\nadd(x, 2)")
	mod := lowerSource(t, src)
	for _, name := range []string{"add", "main"} {
		id, ok := mod.FuncByName(name)
		if !ok {
			t.Fatalf("%s not declared", name)
		}
		f := mod.Func(id)
		if f == nil || f.Entry != 0 || len(f.Blocks[0].Instrs) == 0 {
			t.Fatalf("%s: bad body", name)
		}
		if f.Blocks[0].Instrs[0].Kind != ir.InstrDefVar && f.Blocks[0].Instrs[0].Kind != ir.InstrIconst {
			t.Fatalf("%s: unexpected first instruction", name)
		}
	}
	mainID, _ := mod.FuncByName("main")
	// $ret и x: слоты нумеруются заново в каждой функции
	if got := len(mod.Func(mainID).Vars); got != 2 {
		t.Fatalf("main vars = %d", got)
	}
}

func TestProgram_Constructs(t *testing.T) {
	tests := []struct {
		name string
		ret  string
		body string
		want []string
	}{
		{"if", "Int", "if 1 < 2 { 10 } elif 2 < 3 { 20 } else { 30 }", []string{"brif", "icmp lt"}},
		{"while", "Int", "let i = 0\nwhile i < 10 { i = i + 1 }\ni", []string{"brif", "jump block1"}},
		{"string", "Int", `println("hello")`, []string{`data d0 str.0 = "hello\x00"`, "data_addr d0", "call println("}},
		{"concat", "String", `"a" + "b"`, []string{"call concat("}},
		{"pow int", "Int", "2 ^ 10", []string{"call ipowi("}},
		{"pow float", "Float", "2.0 ^ 0.5", []string{"call powf("}},
		{"float math", "Float", "1.5 * 2.0", []string{"fmul"}},
		{"float compare", "Bool", "1.5 <= 2.0", []string{"fcmp le"}},
		{"not equal", "Bool", "1 is not 2", []string{"icmp ne"}},
		{"casts", "Float", "float(int(2.5))", []string{"fcvt_to_sint", "fcvt_from_sint"}},
		{"list", "Void", "[1, 2, 3]", []string{"call malloc(", "store.i64", "+16"}},
		{"mixed number", "Float", "(1 + 2) + (1.5 + 2.5)", []string{"fcvt_from_sint", "fadd"}},
		{"bool return", "Bool", "1 < 2", []string{"-> i8"}},
		{"void", "Void", "1", []string{"return\n"}},
		{"division", "Int", "7 / 2", []string{"sdiv"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := lowerSource(t, fnSource("f", tt.ret, tt.body))
			got := ir.Format(mod)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Fatalf("IR does not contain %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestProgram_RebindingWithNewTypeGetsNewSlot(t *testing.T) {
	mod := lowerSource(t, fnSource("f", "Float", "let x = 1\nlet x = 2.5\nx"))
	id, _ := mod.FuncByName("f")
	vars := mod.Func(id).Vars
	var hasInt, hasFloat bool
	for _, v := range vars[1:] { // var0 - $ret
		hasInt = hasInt || v == ir.I64
		hasFloat = hasFloat || v == ir.F64
	}
	if !hasInt || !hasFloat {
		t.Fatalf("vars = %v", vars)
	}
}

func TestRuntimeImportsAreReservedNames(t *testing.T) {
	for _, d := range lower.RuntimeImports() {
		if !sema.IsReserved(d.Name) {
			t.Errorf("runtime import %q can be declared by user code", d.Name)
		}
	}
}

func TestProgram_BranchLocalSlotsAreZeroedAtEntry(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"if", "if 1 is 2 { let x = 5 }\nx"},
		{"elif", "if 1 is 2 { 1 } elif 2 is 3 { let y = 2 } else { 0 }\ny"},
		{"while", "let i = 0\nwhile i < 3 { let step = 1\ni = i + step }\nstep"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := lowerSource(t, fnSource("f", "Int", tt.body))
			id, _ := mod.FuncByName("f")
			f := mod.Func(id)
			written := make(map[ir.Var]bool)
			for _, in := range f.Block(f.Entry).Instrs {
				if in.Kind == ir.InstrDefVar {
					written[in.Var.Var] = true
				}
			}
			for v := range f.Vars {
				if !written[ir.Var(v)] {
					t.Fatalf("var%d is not written in the entry block:\n%s", v, ir.Format(mod))
				}
			}
		})
	}
}

func TestProgram_RefusesDiagnosedResult(t *testing.T) {
	u := testkit.MustParse(t, fnSource("f", "Int", "c"))
	res := sema.Check(context.Background(), u.Builder, u.File, sema.Options{Reporter: u.Reporter()})
	_, err := lower.Program(context.Background(), u.Builder, u.File, &res, lower.Options{})
	var ie *lower.InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v", err)
	}
}

func TestFunction_ReassignWithoutSlotIsInternal(t *testing.T) {
	u := testkit.MustParse(t, fnSource("f", "Int", "x = 1"))
	res := sema.Check(context.Background(), u.Builder, u.File, sema.Options{Reporter: u.Reporter()})
	mod := ir.NewModule("m")
	if err := lower.DeclareRuntime(mod); err != nil {
		t.Fatal(err)
	}
	id, _ := u.FnByName("f")
	_, err := lower.Function(mod, u.Builder, id, &res)
	var ie *lower.InternalError
	if !errors.As(err, &ie) {
		t.Fatalf("err = %v", err)
	}
	if ie.Fn != "f" || u.Text(ie.Span) != "x" {
		t.Fatalf("internal error = %+v", ie)
	}
}
