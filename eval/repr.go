package eval

import "strings"

// String renders the tree in the debug form returned by the rule API:
//
//	Node('operator', Node('operand', value='age'), Node('operand', value='30'), value='>')
func (expr *Expression) String() string {
	var sb strings.Builder
	expr.writeTo(&sb)

	return sb.String()
}

func (expr *Expression) writeTo(sb *strings.Builder) {
	if expr == nil {
		sb.WriteString("None")
		return
	}

	switch expr.Type {
	case Operand:
		sb.WriteString("Node('operand', value='")
		sb.WriteString(expr.Value)
		sb.WriteString("')")
	case Operator:
		sb.WriteString("Node('operator', ")
		expr.Left.writeTo(sb)
		sb.WriteString(", ")
		expr.Right.writeTo(sb)
		sb.WriteString(", value='")
		sb.WriteString(expr.Value)
		sb.WriteString("')")
	default:
		sb.WriteString("Node(")
		sb.WriteString(string(expr.Type))
		sb.WriteString(", ")
		sb.WriteString(expr.Value)
		sb.WriteString(", ")
		expr.Left.writeTo(sb)
		sb.WriteString(", ")
		expr.Right.writeTo(sb)
		sb.WriteString(")")
	}
}
