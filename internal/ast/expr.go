package ast

import (
	"gold/internal/source"
)

// ExprKind is the closed set of expression variants.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprLit
	ExprVar
	ExprCall
	ExprList
	ExprBinary
	ExprGroup
	ExprAssign   // let x = v
	ExprReassign // x = v
	ExprIf
	ExprElif
	ExprElse
	ExprWhile
)

func (k ExprKind) String() string {
	switch k {
	case ExprLit:
		return "Lit"
	case ExprVar:
		return "Var"
	case ExprCall:
		return "Call"
	case ExprList:
		return "List"
	case ExprBinary:
		return "Binary"
	case ExprGroup:
		return "Group"
	case ExprAssign:
		return "Assign"
	case ExprReassign:
		return "Reassign"
	case ExprIf:
		return "If"
	case ExprElif:
		return "Elif"
	case ExprElse:
		return "Else"
	case ExprWhile:
		return "While"
	}
	return "Invalid"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitFloat
	ExprLitString
)

// ExprLiteralData keeps both the raw token text and the decoded value.
type ExprLiteralData struct {
	Kind  ExprLitKind
	Raw   string
	Int   int64
	Float float64
	Str   string
}

type ExprVarData struct {
	Name string
}

type ExprCallData struct {
	Name     string
	NameSpan source.Span
	Args     []ExprID
	ArgsSpan source.Span // от '(' до ')' включительно
}

type ExprListData struct {
	Elems []ExprID
}

type ExprBinaryOp uint8

const (
	ExprBinaryEq ExprBinaryOp = iota // is
	ExprBinaryNotEq                  // is not
	ExprBinaryGreater
	ExprBinaryLess
	ExprBinaryGreaterEq
	ExprBinaryLessEq
	ExprBinaryAdd
	ExprBinarySub
	ExprBinaryMul
	ExprBinaryDiv
	ExprBinaryPow
)

func (op ExprBinaryOp) String() string {
	switch op {
	case ExprBinaryEq:
		return "is"
	case ExprBinaryNotEq:
		return "is not"
	case ExprBinaryGreater:
		return ">"
	case ExprBinaryLess:
		return "<"
	case ExprBinaryGreaterEq:
		return ">="
	case ExprBinaryLessEq:
		return "<="
	case ExprBinaryAdd:
		return "+"
	case ExprBinarySub:
		return "-"
	case ExprBinaryMul:
		return "*"
	case ExprBinaryDiv:
		return "/"
	case ExprBinaryPow:
		return "^"
	}
	return "?"
}

// IsComparison reports whether op yields Bool.
func (op ExprBinaryOp) IsComparison() bool {
	return op <= ExprBinaryLessEq
}

type ExprBinaryData struct {
	Op    ExprBinaryOp
	Left  ExprID
	Right ExprID
}

type ExprGroupData struct {
	Inner ExprID
}

// ExprAssignData serves both Assign and Reassign.
type ExprAssignData struct {
	Name     string
	NameSpan source.Span
	Value    ExprID
}

type ExprIfData struct {
	Cond  ExprID
	Body  []ExprID
	Elifs []ExprID // ExprElif
	Else  ExprID   // ExprElse or NoExprID
}

type ExprElifData struct {
	Cond ExprID
	Body []ExprID
}

type ExprElseData struct {
	Body []ExprID
}

type ExprWhileData struct {
	Cond ExprID
	Body []ExprID
}
