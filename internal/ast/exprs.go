package ast

import (
	"gold/internal/source"
)

// Exprs manages allocation of expressions: one arena for the tagged nodes
// and one arena per payload kind.
type Exprs struct {
	Arena    *Arena[Expr]
	Literals *Arena[ExprLiteralData]
	Vars     *Arena[ExprVarData]
	Calls    *Arena[ExprCallData]
	Lists    *Arena[ExprListData]
	Binaries *Arena[ExprBinaryData]
	Groups   *Arena[ExprGroupData]
	Assigns  *Arena[ExprAssignData]
	Ifs      *Arena[ExprIfData]
	Elifs    *Arena[ExprElifData]
	Elses    *Arena[ExprElseData]
	Whiles   *Arena[ExprWhileData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Literals: NewArena[ExprLiteralData](capHint),
		Vars:     NewArena[ExprVarData](capHint),
		Calls:    NewArena[ExprCallData](small),
		Lists:    NewArena[ExprListData](small),
		Binaries: NewArena[ExprBinaryData](capHint),
		Groups:   NewArena[ExprGroupData](small),
		Assigns:  NewArena[ExprAssignData](small),
		Ifs:      NewArena[ExprIfData](small),
		Elifs:    NewArena[ExprElifData](small),
		Elses:    NewArena[ExprElseData](small),
		Whiles:   NewArena[ExprWhileData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

// Get returns the expression with the given ID, or nil.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != kind {
		return 0, false
	}
	return uint32(expr.Payload), true
}

func (e *Exprs) NewIntLit(span source.Span, raw string, v int64) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLiteralData{Kind: ExprLitInt, Raw: raw, Int: v}))
}

func (e *Exprs) NewFloatLit(span source.Span, raw string, v float64) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLiteralData{Kind: ExprLitFloat, Raw: raw, Float: v}))
}

func (e *Exprs) NewStringLit(span source.Span, raw, v string) ExprID {
	return e.new(ExprLit, span, e.Literals.Allocate(ExprLiteralData{Kind: ExprLitString, Raw: raw, Str: v}))
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	p, ok := e.payload(id, ExprLit)
	if !ok {
		return nil, false
	}
	return e.Literals.Get(p), true
}

func (e *Exprs) NewVar(span source.Span, name string) ExprID {
	return e.new(ExprVar, span, e.Vars.Allocate(ExprVarData{Name: name}))
}

func (e *Exprs) Var(id ExprID) (*ExprVarData, bool) {
	p, ok := e.payload(id, ExprVar)
	if !ok {
		return nil, false
	}
	return e.Vars.Get(p), true
}

// NewCall creates a call by name. span covers the name and the argument list.
func (e *Exprs) NewCall(span source.Span, name string, nameSpan source.Span, args []ExprID, argsSpan source.Span) ExprID {
	payload := e.Calls.Allocate(ExprCallData{
		Name:     name,
		NameSpan: nameSpan,
		Args:     append([]ExprID(nil), args...),
		ArgsSpan: argsSpan,
	})
	return e.new(ExprCall, span, payload)
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewList(span source.Span, elems []ExprID) ExprID {
	return e.new(ExprList, span, e.Lists.Allocate(ExprListData{Elems: append([]ExprID(nil), elems...)}))
}

func (e *Exprs) List(id ExprID) (*ExprListData, bool) {
	p, ok := e.payload(id, ExprList)
	if !ok {
		return nil, false
	}
	return e.Lists.Get(p), true
}

func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinary, span, e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	p, ok := e.payload(id, ExprBinary)
	if !ok {
		return nil, false
	}
	return e.Binaries.Get(p), true
}

func (e *Exprs) NewGroup(span source.Span, inner ExprID) ExprID {
	return e.new(ExprGroup, span, e.Groups.Allocate(ExprGroupData{Inner: inner}))
}

func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	p, ok := e.payload(id, ExprGroup)
	if !ok {
		return nil, false
	}
	return e.Groups.Get(p), true
}

// NewAssign creates `let name = value`.
func (e *Exprs) NewAssign(span source.Span, name string, nameSpan source.Span, value ExprID) ExprID {
	return e.new(ExprAssign, span, e.Assigns.Allocate(ExprAssignData{Name: name, NameSpan: nameSpan, Value: value}))
}

// NewReassign creates `name = value`.
func (e *Exprs) NewReassign(span source.Span, name string, nameSpan source.Span, value ExprID) ExprID {
	return e.new(ExprReassign, span, e.Assigns.Allocate(ExprAssignData{Name: name, NameSpan: nameSpan, Value: value}))
}

// Assign returns the payload of an Assign or a Reassign.
func (e *Exprs) Assign(id ExprID) (*ExprAssignData, bool) {
	expr := e.Get(id)
	if expr == nil || (expr.Kind != ExprAssign && expr.Kind != ExprReassign) {
		return nil, false
	}
	return e.Assigns.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewIf(span source.Span, cond ExprID, body, elifs []ExprID, els ExprID) ExprID {
	payload := e.Ifs.Allocate(ExprIfData{
		Cond:  cond,
		Body:  append([]ExprID(nil), body...),
		Elifs: append([]ExprID(nil), elifs...),
		Else:  els,
	})
	return e.new(ExprIf, span, payload)
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	p, ok := e.payload(id, ExprIf)
	if !ok {
		return nil, false
	}
	return e.Ifs.Get(p), true
}

func (e *Exprs) NewElif(span source.Span, cond ExprID, body []ExprID) ExprID {
	return e.new(ExprElif, span, e.Elifs.Allocate(ExprElifData{Cond: cond, Body: append([]ExprID(nil), body...)}))
}

func (e *Exprs) Elif(id ExprID) (*ExprElifData, bool) {
	p, ok := e.payload(id, ExprElif)
	if !ok {
		return nil, false
	}
	return e.Elifs.Get(p), true
}

func (e *Exprs) NewElse(span source.Span, body []ExprID) ExprID {
	return e.new(ExprElse, span, e.Elses.Allocate(ExprElseData{Body: append([]ExprID(nil), body...)}))
}

func (e *Exprs) Else(id ExprID) (*ExprElseData, bool) {
	p, ok := e.payload(id, ExprElse)
	if !ok {
		return nil, false
	}
	return e.Elses.Get(p), true
}

func (e *Exprs) NewWhile(span source.Span, cond ExprID, body []ExprID) ExprID {
	return e.new(ExprWhile, span, e.Whiles.Allocate(ExprWhileData{Cond: cond, Body: append([]ExprID(nil), body...)}))
}

func (e *Exprs) While(id ExprID) (*ExprWhileData, bool) {
	p, ok := e.payload(id, ExprWhile)
	if !ok {
		return nil, false
	}
	return e.Whiles.Get(p), true
}
