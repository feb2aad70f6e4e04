package eval

import (
	"fmt"

	"github.com/valyala/fastjson"
)

var (
	arenas  fastjson.ArenaPool
	parsers fastjson.ParserPool
)

// MarshalJSON encodes a tree as nested objects carrying type, value and,
// for operators, left and right.
func MarshalJSON(expr *Expression) ([]byte, error) {
	a := arenas.Get()
	defer arenas.Put(a)

	v, err := toJSON(a, expr)
	if err != nil {
		return nil, err
	}

	return v.MarshalTo(nil), nil
}

func toJSON(a *fastjson.Arena, expr *Expression) (*fastjson.Value, error) {
	if expr == nil {
		return nil, fmt.Errorf("%w: nil expression", ErrMalformedNode)
	}

	o := a.NewObject()
	o.Set("type", a.NewString(string(expr.Type)))
	o.Set("value", a.NewString(expr.Value))

	switch expr.Type {
	case Operand:
		if expr.Left != nil || expr.Right != nil {
			return nil, fmt.Errorf("%w: operand '%s' has children", ErrMalformedNode, expr.Value)
		}
	case Operator:
		left, err := toJSON(a, expr.Left)
		if err != nil {
			return nil, err
		}

		right, err := toJSON(a, expr.Right)
		if err != nil {
			return nil, err
		}

		o.Set("left", left)
		o.Set("right", right)
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidNodeKind, expr.Type)
	}

	return o, nil
}

// ParseJSON decodes the form written by MarshalJSON. The node kind may also
// be given under "node_type".
func ParseJSON(data []byte) (*Expression, error) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse ast: %w", err)
	}

	return fromJSON(v)
}

func fromJSON(v *fastjson.Value) (*Expression, error) {
	if v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrMalformedNode, v.Type())
	}

	kind := v.Get("type")
	if kind == nil {
		kind = v.Get("node_type")
	}
	if kind == nil || kind.Type() != fastjson.TypeString {
		return nil, fmt.Errorf("%w: missing node type", ErrMalformedNode)
	}

	value, err := nodeValue(v.Get("value"))
	if err != nil {
		return nil, err
	}

	left, right := child(v, "left"), child(v, "right")

	switch t := ExpressionType(kind.GetStringBytes()); t {
	case Operand:
		if left != nil || right != nil {
			return nil, fmt.Errorf("%w: operand '%s' has children", ErrMalformedNode, value)
		}

		return NewOperand(value), nil
	case Operator:
		if left == nil || right == nil {
			return nil, fmt.Errorf("%w: operator '%s' needs two operands", ErrMalformedNode, value)
		}

		l, err := fromJSON(left)
		if err != nil {
			return nil, err
		}

		r, err := fromJSON(right)
		if err != nil {
			return nil, err
		}

		return &Expression{Type: Operator, Value: value, Left: l, Right: r}, nil
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidNodeKind, t)
	}
}

func nodeValue(v *fastjson.Value) (string, error) {
	if v == nil {
		return "", fmt.Errorf("%w: missing node value", ErrMalformedNode)
	}

	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes()), nil
	case fastjson.TypeNumber:
		return string(v.MarshalTo(nil)), nil
	}

	return "", fmt.Errorf("%w: node value must be a string, got %s", ErrMalformedNode, v.Type())
}

func child(v *fastjson.Value, key string) *fastjson.Value {
	c := v.Get(key)
	if c == nil || c.Type() == fastjson.TypeNull {
		return nil
	}

	return c
}

func (expr *Expression) MarshalJSON() ([]byte, error) {
	return MarshalJSON(expr)
}

func (expr *Expression) UnmarshalJSON(data []byte) error {
	e, err := ParseJSON(data)
	if err != nil {
		return err
	}

	*expr = *e
	return nil
}
