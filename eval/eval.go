package eval

import (
	"fmt"
	"slices"
)

type OperatorType string
type ExpressionType string

const (
	And          OperatorType = "AND"
	Or           OperatorType = "OR"
	Equal        OperatorType = "=="
	Assign       OperatorType = "="
	GreaterThan  OperatorType = ">"
	GreaterEqual OperatorType = ">="
	LessThan     OperatorType = "<"
	LessEqual    OperatorType = "<="
)

var operators = []OperatorType{And, Or, Equal, Assign, GreaterThan, GreaterEqual, LessThan, LessEqual}

func IsOperator(operator string) bool {
	return slices.Contains(operators, OperatorType(operator))
}

func IsConnective(operator OperatorType) bool {
	return operator == And || operator == Or
}

const (
	Operator ExpressionType = "operator"
	Operand  ExpressionType = "operand"
)

// Expression is a node of a rule tree. An operand holds the raw token text
// in Value and has no children; an operator holds its symbol in Value and
// always has both children. Trees are never modified once built, so one
// tree may be evaluated from several goroutines at once.
type Expression struct {
	Type  ExpressionType
	Value string

	Left  *Expression
	Right *Expression
}

func NewOperand(value string) *Expression {
	return &Expression{Type: Operand, Value: value}
}

func NewOperator(op OperatorType, left, right *Expression) *Expression {
	return &Expression{
		Type:  Operator,
		Value: string(op),
		Left:  left,
		Right: right,
	}
}

func (expr *Expression) Evaluate(values Record) (Value, error) {
	return Evaluate(expr, values)
}

// Evaluate walks the tree against values. Operands resolve to the record
// entry of the same name or, when there is none, to their own text; both are
// coerced.
func Evaluate(expr *Expression, values Record) (Value, error) {
	if expr == nil {
		return Value{}, fmt.Errorf("%w: nil expression", ErrMalformedNode)
	}

	switch expr.Type {
	case Operand:
		if v, ok := values[expr.Value]; ok {
			return Coerce(v), nil
		}

		return CoerceString(expr.Value), nil
	case Operator:
		if expr.Left == nil || expr.Right == nil {
			return Value{}, fmt.Errorf("%w: operator '%s' needs two operands", ErrMalformedNode, expr.Value)
		}

		switch OperatorType(expr.Value) {
		case And:
			return expr.evaluateAnd(values)
		case Or:
			return expr.evaluateOr(values)
		case Equal, Assign:
			return expr.evaluateEqual(values)
		case GreaterThan:
			return expr.evaluateGreater(values)
		case GreaterEqual:
			return expr.evaluateGreaterEqual(values)
		case LessThan:
			return expr.evaluateLess(values)
		case LessEqual:
			return expr.evaluateLessEqual(values)
		}

		return Value{}, &UnknownOperatorError{Operator: expr.Value}
	}

	return Value{}, fmt.Errorf("%w: '%s'", ErrInvalidNodeKind, expr.Type)
}

// Matches evaluates expr and reports the truthiness of the result.
func Matches(expr *Expression, values Record) (bool, error) {
	v, err := Evaluate(expr, values)
	if err != nil {
		return false, err
	}

	return v.Truthy(), nil
}

// Clone returns a deep copy of the tree.
func (expr *Expression) Clone() *Expression {
	if expr == nil {
		return nil
	}

	return &Expression{
		Type:  expr.Type,
		Value: expr.Value,
		Left:  expr.Left.Clone(),
		Right: expr.Right.Clone(),
	}
}
