// Package lower turns checked gold functions into ir.
package lower

import (
	"context"
	"fmt"

	"gold/internal/ast"
	"gold/internal/ir"
	"gold/internal/sema"
	"gold/internal/trace"
)

// Runtime functions every module imports.
var runtimeImports = []ir.Decl{
	{Name: "print", Linkage: ir.LinkageImport, Sig: ir.Signature{Params: []ir.Type{ir.Ptr}, Returns: []ir.Type{ir.I64}}},
	{Name: "println", Linkage: ir.LinkageImport, Sig: ir.Signature{Params: []ir.Type{ir.Ptr}, Returns: []ir.Type{ir.I64}}},
	{Name: "malloc", Linkage: ir.LinkageImport, Sig: ir.Signature{Params: []ir.Type{ir.I64}, Returns: []ir.Type{ir.Ptr}}},
	{Name: "free", Linkage: ir.LinkageImport, Sig: ir.Signature{Params: []ir.Type{ir.Ptr}}},
	{Name: "ipowi", Linkage: ir.LinkageImport, Sig: ir.Signature{Params: []ir.Type{ir.I64, ir.I64}, Returns: []ir.Type{ir.I64}}},
	{Name: "powf", Linkage: ir.LinkageImport, Sig: ir.Signature{Params: []ir.Type{ir.F64, ir.F64}, Returns: []ir.Type{ir.F64}}},
	{Name: "concat", Linkage: ir.LinkageImport, Sig: ir.Signature{Params: []ir.Type{ir.Ptr, ir.Ptr}, Returns: []ir.Type{ir.Ptr}}},
}

// RuntimeImports returns the declarations lowering expects the backend to
// provide.
func RuntimeImports() []ir.Decl {
	return append([]ir.Decl(nil), runtimeImports...)
}

type Options struct {
	ModuleName string
	Tracer     trace.Tracer // nil means the tracer from ctx
}

// Program lowers every function of a checked file into a new module. It
// refuses results that carry semantic errors.
func Program(ctx context.Context, b *ast.Builder, file ast.FileID, res *sema.Result, opts Options) (*ir.Module, error) {
	if res == nil || res.Diagnosed {
		return nil, &InternalError{Fn: "<module>", Msg: "lowering requested for a program with semantic errors"}
	}
	f := b.Files.Get(file)
	if f == nil {
		return nil, &InternalError{Fn: "<module>", Msg: fmt.Sprintf("unknown file %d", file)}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	parent := trace.CurrentSpan(ctx).SpanID

	name := opts.ModuleName
	if name == "" {
		name = "main"
	}
	mod := ir.NewModule(name)
	if err := DeclareRuntime(mod); err != nil {
		return nil, &InternalError{Fn: "<module>", Msg: "declare runtime", Err: err}
	}
	for _, id := range f.Fns {
		if _, err := declare(mod, b.Fns.Get(id), res.FnSigs[id]); err != nil {
			return nil, err
		}
	}
	for _, id := range f.Fns {
		span := trace.Begin(tracer, trace.ScopeNode, "lower.fn", parent).WithExtra("fn", b.Fns.Get(id).Name)
		_, err := Function(mod, b, id, res)
		span.End("")
		if err != nil {
			return nil, err
		}
	}
	return mod, nil
}

// DeclareRuntime adds the runtime imports to mod.
func DeclareRuntime(mod *ir.Module) error {
	for _, d := range runtimeImports {
		if _, err := mod.DeclareFunction(d.Name, d.Linkage, d.Sig); err != nil {
			return err
		}
	}
	return nil
}

func declare(mod *ir.Module, fn *ast.Fn, sig *sema.FunctionSignature) (ir.FuncID, error) {
	if fn == nil || sig == nil {
		return ir.NoFuncID, &InternalError{Fn: "<module>", Msg: "function without a signature"}
	}
	id, err := mod.DeclareFunction(fn.Name, ir.LinkageExport, Signature(sig.ParamTypes(), sig.Return))
	if err != nil {
		return ir.NoFuncID, &InternalError{Fn: fn.Name, Span: fn.NameSpan, Msg: "declare", Err: err}
	}
	return id, nil
}
