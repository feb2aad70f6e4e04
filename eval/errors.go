package eval

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownOperator matches every *UnknownOperatorError.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrInvalidNodeKind is returned for an expression whose type is neither
	// operand nor operator.
	ErrInvalidNodeKind = errors.New("invalid node kind")

	// ErrMalformedNode is returned for a nil tree, an operator missing one of
	// its operands, or an operand carrying children.
	ErrMalformedNode = errors.New("malformed node")
)

type UnknownOperatorError struct {
	Operator string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator '%s'", e.Operator)
}

func (e *UnknownOperatorError) Is(target error) bool {
	return target == ErrUnknownOperator
}
