package sema

import (
	"gold/internal/ast"
	"gold/internal/types"
)

// Builtin functions visible to every program. int and float take any
// numeric argument; a Number parameter means exactly that.
var builtinSignatures = []FunctionSignature{
	{Name: "print", Return: types.Int, Params: []ParamSig{{Name: "s", Type: types.String}}},
	{Name: "println", Return: types.Int, Params: []ParamSig{{Name: "s", Type: types.String}}},
	{Name: "int", Return: types.Int, Params: []ParamSig{{Name: "x", Type: types.Number}}},
	{Name: "float", Return: types.Float, Params: []ParamSig{{Name: "x", Type: types.Number}}},
}

// IsBuiltin reports whether name is provided by the runtime rather than
// declared in source.
func IsBuiltin(name string) bool {
	for i := range builtinSignatures {
		if builtinSignatures[i].Name == name {
			return true
		}
	}
	return false
}

// Symbols the runtime links into every module next to the builtins. They
// cannot be called from source but their names are taken.
var runtimeSymbols = []string{"malloc", "free", "ipowi", "powf", "concat"}

// IsReserved reports whether name belongs to a builtin or a runtime symbol
// and so cannot name a user function.
func IsReserved(name string) bool {
	if IsBuiltin(name) {
		return true
	}
	for _, s := range runtimeSymbols {
		if s == name {
			return true
		}
	}
	return false
}

func (tc *typeChecker) registerBuiltins() {
	for i := range builtinSignatures {
		sig := builtinSignatures[i]
		sig.Builtin = true
		sig.Fn = ast.NoFnID
		tc.env.Declare(&sig)
	}
}
