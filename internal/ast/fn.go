package ast

import (
	"gold/internal/source"
)

// TypeRef is a type name as written in a header comment. Resolution to a
// concrete type happens in sema.
type TypeRef struct {
	Name string
	Span source.Span
}

type Param struct {
	Name     string
	NameSpan source.Span
	Type     TypeRef
}

// Fn is a function item: comment header plus `fn { ... }` body.
type Fn struct {
	Name       string
	NameSpan   source.Span
	Params     []Param
	Return     TypeRef
	Body       []ExprID
	HeaderSpan source.Span // from "// name is a function." to "// Returns: T"
	BodySpan   source.Span // from 'fn' to '}'
	Span       source.Span
}

type Fns struct {
	Arena *Arena[Fn]
}

func NewFns(capHint uint) *Fns {
	return &Fns{Arena: NewArena[Fn](capHint)}
}

func (f *Fns) New(fn Fn) FnID {
	fn.Params = append([]Param(nil), fn.Params...)
	fn.Body = append([]ExprID(nil), fn.Body...)
	return FnID(f.Arena.Allocate(fn))
}

func (f *Fns) Get(id FnID) *Fn {
	return f.Arena.Get(uint32(id))
}
