package rule

import (
	"fmt"

	"github.com/jvitoroc/ruleast/eval"
)

// Combine parses every rule and joins the trees left to right under
// connective, which must be eval.And or eval.Or. A single rule comes back
// as its own tree; no rules give a nil tree and no error.
func Combine(rules []string, connective eval.OperatorType) (*eval.Expression, error) {
	if !eval.IsConnective(connective) {
		return nil, fmt.Errorf("%w '%s'", ErrInvalidConnective, connective)
	}

	exprs := make([]*eval.Expression, len(rules))
	for i, r := range rules {
		expr, err := Parse(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}

		exprs[i] = expr
	}

	return CombineExpressions(exprs, connective)
}

// CombineExpressions joins already parsed trees the way Combine does. The
// inputs become subtrees of the result and must not be shared elsewhere.
func CombineExpressions(exprs []*eval.Expression, connective eval.OperatorType) (*eval.Expression, error) {
	if !eval.IsConnective(connective) {
		return nil, fmt.Errorf("%w '%s'", ErrInvalidConnective, connective)
	}

	if len(exprs) == 0 {
		return nil, nil
	}

	combined := exprs[0]
	for _, expr := range exprs[1:] {
		combined = eval.NewOperator(connective, combined, expr)
	}

	return combined, nil
}
