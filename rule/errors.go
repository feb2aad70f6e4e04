package rule

import "errors"

var (
	// ErrMismatchedParens is returned when a parenthesis has no partner.
	ErrMismatchedParens = errors.New("mismatched parentheses")

	// ErrInsufficientOperands is returned when an operator is reduced with
	// fewer than two operands available.
	ErrInsufficientOperands = errors.New("not enough operands")

	// ErrInvalidExpression is returned when the tokens do not reduce to
	// exactly one tree.
	ErrInvalidExpression = errors.New("invalid expression")

	// ErrInvalidConnective is returned when rules are combined with anything
	// other than AND or OR.
	ErrInvalidConnective = errors.New("invalid connective")
)
