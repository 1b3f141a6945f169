// Package sema is the gold Analyzer. It assigns a types.Type to every
// expression and reports misuse of types and undeclared names.
//
// Checking runs in two phases: every function header is registered in the
// Environment first, then bodies are walked in source order. Diagnostics
// accumulate; the walk never stops at the first error.
package sema

import (
	"context"

	"gold/internal/ast"
	"gold/internal/diag"
	"gold/internal/trace"
	"gold/internal/types"
)

// Options configure a semantic pass over a file.
type Options struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer // nil means the tracer from ctx
}

// Result stores semantic artefacts produced by the checker.
type Result struct {
	// Signatures holds builtins and user functions by name.
	Signatures map[string]*FunctionSignature
	// Order lists user function names in declaration order, without duplicates.
	Order []string
	// FnSigs maps every function item to the signature built from its own
	// header, including items rejected as duplicates.
	FnSigs    map[ast.FnID]*FunctionSignature
	ExprTypes map[ast.ExprID]types.Type
	// Scopes keeps the variable table of each function as it was at the end
	// of the body.
	Scopes    map[ast.FnID]map[string]VariableBinding
	Diagnosed bool // at least one error was reported
}

// Function returns the signature registered under name.
func (r *Result) Function(name string) (*FunctionSignature, bool) {
	if r == nil {
		return nil, false
	}
	sig, ok := r.Signatures[name]
	return sig, ok
}

// TypeOf returns the type recorded for an expression, Invalid if none.
func (r *Result) TypeOf(id ast.ExprID) types.Type {
	if r == nil {
		return types.Invalid
	}
	return r.ExprTypes[id]
}

// Check performs semantic analysis of one parsed file.
func Check(ctx context.Context, builder *ast.Builder, fileID ast.FileID, opts Options) Result {
	res := Result{
		Signatures: make(map[string]*FunctionSignature),
		FnSigs:     make(map[ast.FnID]*FunctionSignature),
		ExprTypes:  make(map[ast.ExprID]types.Type),
		Scopes:     make(map[ast.FnID]map[string]VariableBinding),
	}
	if builder == nil || !fileID.IsValid() {
		return res
	}

	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	tc := typeChecker{
		builder:  builder,
		fileID:   fileID,
		reporter: opts.Reporter,
		tracer:   tracer,
		parent:   trace.CurrentSpan(ctx).SpanID,
		env:      NewEnvironment(),
		result:   &res,
	}
	tc.run()

	res.Signatures = tc.env.functions
	res.Order = tc.env.order
	return res
}

type typeChecker struct {
	builder  *ast.Builder
	fileID   ast.FileID
	reporter diag.Reporter
	tracer   trace.Tracer
	parent   uint64
	env      *Environment
	result   *Result
}

func (tc *typeChecker) run() {
	file := tc.builder.Files.Get(tc.fileID)
	if file == nil {
		return
	}

	span := trace.Begin(tc.tracer, trace.ScopeModule, "sema.declare", tc.parent)
	tc.registerBuiltins()
	for _, id := range file.Fns {
		if fn := tc.builder.Fns.Get(id); fn != nil {
			tc.register(id, fn)
		}
	}
	span.End("")

	for _, id := range file.Fns {
		if fn := tc.builder.Fns.Get(id); fn != nil {
			tc.checkFn(id, fn)
		}
	}
}
