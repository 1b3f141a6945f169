package parser

import (
	"gold/internal/ast"
	"gold/internal/token"
)

// Таблица приоритетов для бинарных операторов.
// Чем больше число, тем выше приоритет.
const (
	precComparison     = 1 // is, is not, <, >, <=, >=
	precAdditive       = 2 // + -
	precMultiplicative = 3 // * /
	precPower          = 4 // ^
)

// binaryOp возвращает оператор, его приоритет, правоассоциативность и
// количество токенов, которое он занимает ("is not" - два).
func (p *Parser) binaryOp() (op ast.ExprBinaryOp, prec int, rightAssoc bool, width int) {
	switch p.peek().Kind {
	case token.KwIs:
		if p.peekN(1).Kind == token.KwNot {
			return ast.ExprBinaryNotEq, precComparison, false, 2
		}
		return ast.ExprBinaryEq, precComparison, false, 1
	case token.Lt:
		return ast.ExprBinaryLess, precComparison, false, 1
	case token.Gt:
		return ast.ExprBinaryGreater, precComparison, false, 1
	case token.LtEq:
		return ast.ExprBinaryLessEq, precComparison, false, 1
	case token.GtEq:
		return ast.ExprBinaryGreaterEq, precComparison, false, 1
	case token.Plus:
		return ast.ExprBinaryAdd, precAdditive, false, 1
	case token.Minus:
		return ast.ExprBinarySub, precAdditive, false, 1
	case token.Star:
		return ast.ExprBinaryMul, precMultiplicative, false, 1
	case token.Slash:
		return ast.ExprBinaryDiv, precMultiplicative, false, 1
	case token.Caret:
		return ast.ExprBinaryPow, precPower, true, 1
	}
	return 0, -1, false, 0
}
