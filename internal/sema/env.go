package sema

import (
	"gold/internal/ast"
	"gold/internal/source"
	"gold/internal/types"
)

// ParamSig is one declared parameter. Span points at the type annotation.
type ParamSig struct {
	Name string
	Type types.Type
	Span source.Span
}

// FunctionSignature is created once when the header is registered and never
// changed afterwards.
type FunctionSignature struct {
	Name     string
	Return   types.Type
	Params   []ParamSig
	DeclSpan source.Span // span of the name in the header; empty for builtins
	Builtin  bool
	Fn       ast.FnID // ast.NoFnID for builtins
}

// ParamTypes returns the declared parameter types in order.
func (s *FunctionSignature) ParamTypes() []types.Type {
	out := make([]types.Type, len(s.Params))
	for i, p := range s.Params {
		out[i] = p.Type
	}
	return out
}

// VariableBinding is the recorded state of a local name.
type VariableBinding struct {
	Type types.Type
	Span source.Span // where the name was last bound
}

// Environment is the symbol table of one compilation unit: the function
// signatures plus a stack of function frames holding local variables.
// Lookups only see the innermost frame, so locals never leak between
// functions.
type Environment struct {
	functions map[string]*FunctionSignature
	order     []string
	frames    []map[string]VariableBinding
}

func NewEnvironment() *Environment {
	return &Environment{functions: make(map[string]*FunctionSignature)}
}

// Declare stores sig unless the name is taken, in which case the existing
// signature is returned and nothing changes.
func (e *Environment) Declare(sig *FunctionSignature) (*FunctionSignature, bool) {
	if prev, ok := e.functions[sig.Name]; ok {
		return prev, false
	}
	e.functions[sig.Name] = sig
	if !sig.Builtin {
		e.order = append(e.order, sig.Name)
	}
	return sig, true
}

func (e *Environment) Function(name string) (*FunctionSignature, bool) {
	sig, ok := e.functions[name]
	return sig, ok
}

// PushFrame opens the variable scope of a function body.
func (e *Environment) PushFrame() {
	e.frames = append(e.frames, make(map[string]VariableBinding))
}

// PopFrame closes the innermost frame and returns its bindings.
func (e *Environment) PopFrame() map[string]VariableBinding {
	if len(e.frames) == 0 {
		return nil
	}
	top := e.frames[len(e.frames)-1]
	e.frames = e.frames[:len(e.frames)-1]
	return top
}

// Bind inserts or overwrites a binding in the innermost frame.
func (e *Environment) Bind(name string, b VariableBinding) {
	if len(e.frames) == 0 {
		e.PushFrame()
	}
	e.frames[len(e.frames)-1][name] = b
}

func (e *Environment) Lookup(name string) (VariableBinding, bool) {
	if len(e.frames) == 0 {
		return VariableBinding{}, false
	}
	b, ok := e.frames[len(e.frames)-1][name]
	return b, ok
}
