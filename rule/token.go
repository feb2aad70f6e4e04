package rule

import "github.com/jvitoroc/ruleast/eval"

type tokenType string

const (
	leftParenthesis  tokenType = "left_parenthesis"
	rightParenthesis tokenType = "right_parenthesis"
	and              tokenType = "and"
	or               tokenType = "or"
	comparison       tokenType = "comparison"
	operand          tokenType = "operand"
)

type token struct {
	_type    tokenType
	strValue string
}

// classify decides what a lexeme is. Only exact operator spellings are
// operators; anything else, including runs like "=>", is an operand.
func classify(lexeme string) token {
	tk := token{strValue: lexeme}

	switch eval.OperatorType(lexeme) {
	case "(":
		tk._type = leftParenthesis
	case ")":
		tk._type = rightParenthesis
	case eval.And:
		tk._type = and
	case eval.Or:
		tk._type = or
	case eval.Equal, eval.Assign, eval.GreaterThan, eval.GreaterEqual, eval.LessThan, eval.LessEqual:
		tk._type = comparison
	default:
		tk._type = operand
	}

	return tk
}

func (tk *token) isLeftParenthesis() bool {
	return tk._type == leftParenthesis
}

func (tk *token) isRightParenthesis() bool {
	return tk._type == rightParenthesis
}

func (tk *token) isOperand() bool {
	return tk._type == operand
}

func (tk *token) isOperator() bool {
	return tk._type == and || tk._type == or || tk._type == comparison
}

// precedence is fixed: comparisons bind tighter than AND, AND tighter than OR.
func (tk *token) precedence() int {
	switch tk._type {
	case or:
		return 1
	case and:
		return 2
	case comparison:
		return 3
	}

	return 0
}

// yieldsTo reports whether the stacked operator tk1 must be output before tk
// is pushed. All operators are left-associative.
func (tk *token) yieldsTo(tk1 token) bool {
	if !tk1.isOperator() {
		return false
	}

	return tk1.precedence() >= tk.precedence()
}
