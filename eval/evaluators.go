package eval

func (expr *Expression) operands(values Record) (Value, Value, error) {
	left, err := Evaluate(expr.Left, values)
	if err != nil {
		return Value{}, Value{}, err
	}

	right, err := Evaluate(expr.Right, values)
	if err != nil {
		return Value{}, Value{}, err
	}

	return Coerce(left), Coerce(right), nil
}

func (expr *Expression) evaluateAnd(values Record) (Value, error) {
	left, right, err := expr.operands(values)
	if err != nil {
		return Value{}, err
	}

	return Bool(left.Truthy() && right.Truthy()), nil
}

func (expr *Expression) evaluateOr(values Record) (Value, error) {
	left, right, err := expr.operands(values)
	if err != nil {
		return Value{}, err
	}

	return Bool(left.Truthy() || right.Truthy()), nil
}

func (expr *Expression) evaluateEqual(values Record) (Value, error) {
	left, right, err := expr.operands(values)
	if err != nil {
		return Value{}, err
	}

	return Bool(left.Equal(right)), nil
}

func (expr *Expression) evaluateGreater(values Record) (Value, error) {
	left, right, err := expr.operands(values)
	if err != nil {
		return Value{}, err
	}

	return Bool(left.Compare(right) > 0), nil
}

func (expr *Expression) evaluateGreaterEqual(values Record) (Value, error) {
	left, right, err := expr.operands(values)
	if err != nil {
		return Value{}, err
	}

	return Bool(left.Compare(right) >= 0), nil
}

func (expr *Expression) evaluateLess(values Record) (Value, error) {
	left, right, err := expr.operands(values)
	if err != nil {
		return Value{}, err
	}

	return Bool(left.Compare(right) < 0), nil
}

func (expr *Expression) evaluateLessEqual(values Record) (Value, error) {
	left, right, err := expr.operands(values)
	if err != nil {
		return Value{}, err
	}

	return Bool(left.Compare(right) <= 0), nil
}
