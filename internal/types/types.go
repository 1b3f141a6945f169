// Package types holds the closed set of gold value types.
package types

// Type is one of the language's value types. The zero value Invalid is never
// the type of a well-formed expression; sema uses it after an error so that
// one mistake does not cascade into more diagnostics.
type Type uint8

const (
	Invalid Type = iota
	Int
	Float
	Number // результат арифметики, ещё не Int и не Float
	String
	Bool
	Void
)

func (t Type) String() string {
	switch t {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Number:
		return "Number"
	case String:
		return "String"
	case Bool:
		return "Bool"
	case Void:
		return "Void"
	}
	return "<invalid>"
}

// Lookup resolves a type name as written in a function header.
// Number is not spellable.
func Lookup(name string) (Type, bool) {
	switch name {
	case "Int":
		return Int, true
	case "Float":
		return Float, true
	case "String":
		return String, true
	case "Bool":
		return Bool, true
	case "Void":
		return Void, true
	}
	return Invalid, false
}

// Names lists the spellable type names, used in "did you mean" notes.
func Names() []string {
	return []string{"Int", "Float", "String", "Bool", "Void"}
}

// IsNumeric reports whether t is Int, Float or Number.
func (t Type) IsNumeric() bool {
	return t == Int || t == Float || t == Number
}

// AssignableTo reports whether a value of type t may flow into a slot of
// type dst where gold tolerates the generic Number: Number fits Int and Float
// and any numeric type fits Number. Invalid is assignable everywhere so errors do not cascade.
func (t Type) AssignableTo(dst Type) bool {
	switch {
	case t == Invalid || dst == Invalid:
		return true
	case t == dst:
		return true
	case t == Number:
		return dst == Int || dst == Float
	case dst == Number:
		return t.IsNumeric()
	}
	return false
}
