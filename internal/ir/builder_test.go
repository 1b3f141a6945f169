package ir_test

import (
	"strings"
	"testing"

	"gold/internal/ir"
)

var i64x2 = ir.Signature{Params: []ir.Type{ir.I64, ir.I64}, Returns: []ir.Type{ir.I64}}

func buildAdd(t *testing.T) (*ir.Module, ir.FuncID) {
	t.Helper()
	mod := ir.NewModule("test")
	id, err := mod.DeclareFunction("add", ir.LinkageExport, i64x2)
	if err != nil {
		t.Fatal(err)
	}
	b := ir.NewFunctionBuilder(mod, id)
	entry := b.CreateBlock()
	b.AppendBlockParamsForFunctionParams(entry)
	b.SwitchToBlock(entry)
	b.SealBlock(entry)

	x := b.DeclareVar(ir.I64)
	params := b.BlockParams(entry)
	b.DefVar(x, params[0])
	sum := b.Ins().Binary(ir.BinIadd, b.UseVar(x), params[1])
	b.Ins().Return(sum)

	f, err := b.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if err := mod.DefineFunction(id, f); err != nil {
		t.Fatalf("define: %v", err)
	}
	return mod, id
}

func TestBuilder_AddFormat(t *testing.T) {
	mod, _ := buildAdd(t)
	want := strings.Join([]string{
		"module test",
		"export fn add(i64, i64) -> i64 {",
		"    var0: i64",
		"block0(v0: i64, v1: i64):",
		"    def_var var0, v0",
		"    v2 = use_var var0",
		"    v3 = iadd v2, v1",
		"    return v3",
		"}",
		"",
	}, "\n")
	if got := ir.Format(mod); got != want {
		t.Fatalf("format mismatch:\n%s\nwant:\n%s", got, want)
	}
	if err := ir.Validate(mod); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *ir.FunctionBuilder, entry ir.BlockID)
		want  string
	}{
		{
			name: "jump into sealed block",
			build: func(b *ir.FunctionBuilder, entry ir.BlockID) {
				next := b.CreateBlock()
				b.SealBlock(next)
				b.Ins().Jump(next)
			},
			want: "sealed",
		},
		{
			name: "unterminated block",
			build: func(b *ir.FunctionBuilder, entry ir.BlockID) {
				b.Ins().Iconst(ir.I64, 1)
			},
			want: "not terminated",
		},
		{
			name: "unsealed block",
			build: func(b *ir.FunctionBuilder, entry ir.BlockID) {
				next := b.CreateBlock()
				b.Ins().Jump(next)
				b.SwitchToBlock(next)
				b.Ins().Return(b.Ins().Iconst(ir.I64, 0))
			},
			want: "not sealed",
		},
		{
			name: "def_var type mismatch",
			build: func(b *ir.FunctionBuilder, entry ir.BlockID) {
				v := b.DeclareVar(ir.F64)
				b.DefVar(v, b.Ins().Iconst(ir.I64, 1))
			},
			want: "def_var",
		},
		{
			name: "mixed operands",
			build: func(b *ir.FunctionBuilder, entry ir.BlockID) {
				b.Ins().Binary(ir.BinIadd, b.Ins().Iconst(ir.I64, 1), b.Ins().F64const(1))
			},
			want: "iadd",
		},
		{
			name: "instruction after return",
			build: func(b *ir.FunctionBuilder, entry ir.BlockID) {
				b.Ins().Return(b.Ins().Iconst(ir.I64, 0))
				b.Ins().Iconst(ir.I64, 1)
			},
			want: "already terminated",
		},
		{
			name: "wrong return type",
			build: func(b *ir.FunctionBuilder, entry ir.BlockID) {
				b.Ins().Return(b.Ins().F64const(0))
			},
			want: "returns f64",
		},
		{
			name: "call arity",
			build: func(b *ir.FunctionBuilder, entry ir.BlockID) {
				b.Ins().Call(0, b.Ins().Iconst(ir.I64, 1))
			},
			want: "1 arguments, want 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod := ir.NewModule("test")
			id, _ := mod.DeclareFunction("f", ir.LinkageLocal, i64x2)
			b := ir.NewFunctionBuilder(mod, id)
			entry := b.CreateBlock()
			b.AppendBlockParamsForFunctionParams(entry)
			b.SwitchToBlock(entry)
			b.SealBlock(entry)
			tt.build(b, entry)
			_, err := b.Finalize()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestBuilder_LoopSealsHeaderAfterBackEdge(t *testing.T) {
	mod := ir.NewModule("loop")
	id, _ := mod.DeclareFunction("count", ir.LinkageExport, ir.Signature{Returns: []ir.Type{ir.I64}})
	b := ir.NewFunctionBuilder(mod, id)
	entry, header, body, exit := b.CreateBlock(), b.CreateBlock(), b.CreateBlock(), b.CreateBlock()
	b.SwitchToBlock(entry)
	b.SealBlock(entry)
	i := b.DeclareVar(ir.I64)
	b.DefVar(i, b.Ins().Iconst(ir.I64, 0))
	b.Ins().Jump(header)

	b.SwitchToBlock(header)
	cond := b.Ins().Icmp(ir.CondLt, b.UseVar(i), b.Ins().Iconst(ir.I64, 10))
	b.Ins().Brif(cond, body, exit)

	b.SwitchToBlock(body)
	b.SealBlock(body)
	b.DefVar(i, b.Ins().Binary(ir.BinIadd, b.UseVar(i), b.Ins().Iconst(ir.I64, 1)))
	b.Ins().Jump(header)
	b.SealBlock(header)

	b.SwitchToBlock(exit)
	b.SealBlock(exit)
	b.Ins().Return(b.UseVar(i))

	f, err := b.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if preds := f.Block(header).Preds; len(preds) != 2 {
		t.Fatalf("header preds = %v", preds)
	}
}

func TestModule_Declarations(t *testing.T) {
	mod := ir.NewModule("m")
	printSig := ir.Signature{Params: []ir.Type{ir.Ptr}, Returns: []ir.Type{ir.I64}}
	a, err := mod.DeclareFunction("print", ir.LinkageImport, printSig)
	if err != nil {
		t.Fatal(err)
	}
	b, err := mod.DeclareFunction("print", ir.LinkageImport, printSig)
	if err != nil || a != b {
		t.Fatalf("compatible redeclaration: %v, %d != %d", err, a, b)
	}
	if _, err := mod.DeclareFunction("print", ir.LinkageImport, i64x2); err == nil {
		t.Fatal("incompatible redeclaration must fail")
	}
	if err := mod.DefineFunction(a, &ir.Func{Sig: printSig}); err == nil {
		t.Fatal("defining an import must fail")
	}

	local, _ := mod.DeclareFunction("helper", ir.LinkageLocal, i64x2)
	if err := ir.Validate(mod); err == nil || !strings.Contains(err.Error(), "helper") {
		t.Fatalf("validate = %v", err)
	}
	if got, ok := mod.FuncByName("helper"); !ok || got != local {
		t.Fatal("FuncByName")
	}

	data, err := mod.DeclareData("str.0", []byte("hi\x00"))
	if err != nil || data != 0 {
		t.Fatalf("data = %d, %v", data, err)
	}
}

func TestBuilder_DeclareZeroedVarWritesEntry(t *testing.T) {
	mod := ir.NewModule("zero")
	id, _ := mod.DeclareFunction("f", ir.LinkageExport, ir.Signature{Returns: []ir.Type{ir.F64}})
	b := ir.NewFunctionBuilder(mod, id)
	entry, next := b.CreateBlock(), b.CreateBlock()
	b.SwitchToBlock(entry)
	b.SealBlock(entry)
	b.Ins().Jump(next)

	b.SwitchToBlock(next)
	b.SealBlock(next)
	x := b.DeclareZeroedVar(ir.F64)
	b.Ins().Return(b.UseVar(x))

	f, err := b.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	instrs := f.Block(entry).Instrs
	if len(instrs) != 2 || instrs[0].Kind != ir.InstrF64const || instrs[1].Kind != ir.InstrDefVar || instrs[1].Var.Var != x {
		t.Fatalf("entry instructions = %+v", instrs)
	}
	if len(f.Block(next).Instrs) != 1 {
		t.Fatalf("next block got %d instructions", len(f.Block(next).Instrs))
	}
}
