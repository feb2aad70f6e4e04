package rule

import (
	"fmt"

	"github.com/jvitoroc/ruleast/eval"
)

// Parse compiles a rule such as
//
//	(age > 30 AND department = 'Sales') OR experience > 5
//
// into an expression tree.
func Parse(rule string) (*eval.Expression, error) {
	return ParseTokens(Tokenize(rule))
}

// ParseTokens builds a tree from lexemes as returned by Tokenize.
func ParseTokens(lexemes []string) (*eval.Expression, error) {
	tokens := make([]token, len(lexemes))
	for i, l := range lexemes {
		tokens[i] = classify(l)
	}

	return infixToExpressionTree(tokens)
}

func infixToExpressionTree(tokens []token) (*eval.Expression, error) {
	t, err := infixToPostfix(tokens)
	if err != nil {
		return nil, err
	}

	return postfixToExpressionTree(t)
}

func infixToPostfix(tokens []token) ([]token, error) {
	s := stack[token]{}
	postfix := make([]token, 0, len(tokens))

	for _, tk := range tokens {
		if tk.isLeftParenthesis() {
			s.push(tk)
		} else if tk.isRightParenthesis() {
			matched := false
			for s.len() > 0 {
				tki := s.pop()
				if tki.isLeftParenthesis() {
					matched = true
					break
				}
				postfix = append(postfix, tki)
			}

			if !matched {
				return nil, fmt.Errorf("%w: unexpected ')'", ErrMismatchedParens)
			}
		} else if tk.isOperator() {
			for {
				top, ok := s.peek()
				if !ok || !tk.yieldsTo(top) {
					break
				}
				postfix = append(postfix, s.pop())
			}
			s.push(tk)
		} else {
			postfix = append(postfix, tk)
		}
	}

	for s.len() > 0 {
		tki := s.pop()
		if tki.isLeftParenthesis() {
			return nil, fmt.Errorf("%w: '(' is never closed", ErrMismatchedParens)
		}
		postfix = append(postfix, tki)
	}

	return postfix, nil
}

func postfixToExpressionTree(tokens []token) (*eval.Expression, error) {
	s := stack[*eval.Expression]{}

	for _, tk := range tokens {
		if tk.isOperand() {
			s.push(eval.NewOperand(tk.strValue))
			continue
		}

		if s.len() < 2 {
			return nil, fmt.Errorf("%w for '%s'", ErrInsufficientOperands, tk.strValue)
		}

		right := s.pop()
		left := s.pop()

		s.push(eval.NewOperator(eval.OperatorType(tk.strValue), left, right))
	}

	if s.len() != 1 {
		return nil, fmt.Errorf("%w: %d trees left after parsing, want 1", ErrInvalidExpression, s.len())
	}

	return s.pop(), nil
}
