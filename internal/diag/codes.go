package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003
	LexBadEscape          Code = 1004

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectExpression   Code = 2002
	SynExpectIdentifier   Code = 2003
	SynUnclosedParen      Code = 2004
	SynUnclosedBrace      Code = 2005
	SynUnclosedBracket    Code = 2006
	SynMissingHeader      Code = 2007
	SynBadHeaderLine      Code = 2008
	SynEmptyFile          Code = 2009
	SynUnexpectedTopLevel Code = 2010

	// Семантические
	SemaInfo                 Code = 3000
	SemaUnboundVariable      Code = 3001
	SemaFunctionDoesNotExist Code = 3002
	SemaArityMismatch        Code = 3003
	SemaArgumentTypeMismatch Code = 3004
	SemaOperandTypeMismatch  Code = 3005
	SemaUnknownTypeName      Code = 3006
	SemaDuplicateFunction    Code = 3007
	SemaEmptyList            Code = 3008
	SemaReassignTypeMismatch Code = 3009
	SemaReturnTypeMismatch   Code = 3010
	SemaInvalidOperator      Code = 3011

	// I/O и проект
	IOLoadFileError     Code = 4001
	ProjInvalidManifest Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexInfo:               "Lexical information",
	LexUnknownChar:        "Unknown character",
	LexUnterminatedString: "Unterminated string literal",
	LexBadNumber:          "Malformed number literal",
	LexBadEscape:          "Unknown escape sequence",

	SynInfo:               "Syntax information",
	SynUnexpectedToken:    "Unexpected token",
	SynExpectExpression:   "Expected expression",
	SynExpectIdentifier:   "Expected identifier",
	SynUnclosedParen:      "Unclosed parenthesis",
	SynUnclosedBrace:      "Unclosed brace",
	SynUnclosedBracket:    "Unclosed bracket",
	SynMissingHeader:      "Missing function header",
	SynBadHeaderLine:      "Malformed function header line",
	SynEmptyFile:          "File declares no functions",
	SynUnexpectedTopLevel: "Unexpected top-level token",

	SemaInfo:                 "Semantic information",
	SemaUnboundVariable:      "Unbound variable",
	SemaFunctionDoesNotExist: "Function does not exist",
	SemaArityMismatch:        "Wrong number of arguments",
	SemaArgumentTypeMismatch: "Argument type mismatch",
	SemaOperandTypeMismatch:  "Operand type mismatch",
	SemaUnknownTypeName:      "Unknown type name",
	SemaDuplicateFunction:    "Duplicate function",
	SemaEmptyList:            "Empty list literal",
	SemaReassignTypeMismatch: "Reassignment type mismatch",
	SemaReturnTypeMismatch:   "Return type mismatch",
	SemaInvalidOperator:      "Operator not defined for type",

	IOLoadFileError:     "I/O load file error",
	ProjInvalidManifest: "Invalid gold.toml",
}

// ID returns the stable textual identifier, e.g. SEM3003.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
