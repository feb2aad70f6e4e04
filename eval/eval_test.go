package eval

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func cmpValue() cmp.Option {
	return cmp.AllowUnexported(Value{})
}

func Test_Evaluate(t *testing.T) {
	type args struct {
		expr *Expression
		row  Record
	}
	tests := []struct {
		name    string
		args    args
		want    Value
		wantErr error
	}{
		{
			name: "numeric comparison on string input",
			args: args{
				row:  Record{"age": String("35")},
				expr: NewOperator(GreaterThan, NewOperand("age"), NewOperand("30")),
			},
			want: Bool(true),
		},
		{
			name: "numeric comparison false",
			args: args{
				row:  Record{"age": String("20")},
				expr: NewOperator(GreaterThan, NewOperand("age"), NewOperand("30")),
			},
			want: Bool(false),
		},
		{
			name: "lexicographic fallback",
			args: args{
				row:  Record{"name": String("Carol")},
				expr: NewOperator(GreaterThan, NewOperand("name"), NewOperand("'Bob'")),
			},
			want: Bool(true),
		},
		{
			name: "missing field falls back to its name",
			args: args{
				row:  Record{},
				expr: NewOperand("unknownField"),
			},
			want: String("unknownField"),
		},
		{
			name: "operand surfaces coerced record value",
			args: args{
				row:  Record{"salary": String("'60000'")},
				expr: NewOperand("salary"),
			},
			want: Int(60000),
		},
		{
			name: "quoted literal equality",
			args: args{
				row:  Record{"department": String("Sales")},
				expr: NewOperator(Assign, NewOperand("department"), NewOperand("'Sales'")),
			},
			want: Bool(true),
		},
		{
			name: "double equals",
			args: args{
				row:  Record{"department": String("Marketing")},
				expr: NewOperator(Equal, NewOperand("department"), NewOperand("'Sales'")),
			},
			want: Bool(false),
		},
		{
			name: "int equals float",
			args: args{
				row:  Record{"x": Float(5)},
				expr: NewOperator(Equal, NewOperand("x"), NewOperand("5")),
			},
			want: Bool(true),
		},
		{
			name: "number against string",
			args: args{
				row:  Record{"x": Int(5)},
				expr: NewOperator(Equal, NewOperand("x"), NewOperand("five")),
			},
			want: Bool(false),
		},
		{
			name: "mixed numeric ordering",
			args: args{
				row:  Record{"score": Float(4.5)},
				expr: NewOperator(LessEqual, NewOperand("score"), NewOperand("5")),
			},
			want: Bool(true),
		},
		{
			name: "greater equal on boundary",
			args: args{
				row:  Record{"score": Int(5)},
				expr: NewOperator(GreaterEqual, NewOperand("score"), NewOperand("5.0")),
			},
			want: Bool(true),
		},
		{
			name: "less than",
			args: args{
				row:  Record{"foo": Int(23), "bar": Int(123)},
				expr: NewOperator(LessThan, NewOperand("bar"), NewOperand("foo")),
			},
			want: Bool(false),
		},
		{
			name: "boolean literal",
			args: args{
				row:  Record{"active": String("TRUE")},
				expr: NewOperator(Equal, NewOperand("active"), NewOperand("true")),
			},
			want: Bool(true),
		},
		{
			name: "and uses truthiness of non boolean operands",
			args: args{
				row:  Record{"count": Int(3)},
				expr: NewOperator(And, NewOperand("count"), NewOperand("name")),
			},
			want: Bool(true),
		},
		{
			name: "and with zero",
			args: args{
				row:  Record{"count": Int(0)},
				expr: NewOperator(And, NewOperand("count"), NewOperand("name")),
			},
			want: Bool(false),
		},
		{
			name: "or with empty string",
			args: args{
				row:  Record{"a": String(""), "b": Float(0)},
				expr: NewOperator(Or, NewOperand("a"), NewOperand("b")),
			},
			want: Bool(false),
		},
		{
			name: "unknown operator",
			args: args{
				row:  Record{},
				expr: &Expression{Type: Operator, Value: "!=", Left: NewOperand("a"), Right: NewOperand("b")},
			},
			wantErr: ErrUnknownOperator,
		},
		{
			name: "invalid node kind",
			args: args{
				row:  Record{},
				expr: &Expression{Type: "function", Value: "max"},
			},
			wantErr: ErrInvalidNodeKind,
		},
		{
			name: "operator without right operand",
			args: args{
				row:  Record{},
				expr: &Expression{Type: Operator, Value: "AND", Left: NewOperand("a")},
			},
			wantErr: ErrMalformedNode,
		},
		{
			name: "error inside subtree propagates",
			args: args{
				row: Record{},
				expr: NewOperator(Or,
					NewOperand("true"),
					&Expression{Type: Operator, Value: "XOR", Left: NewOperand("a"), Right: NewOperand("b")},
				),
			},
			wantErr: ErrUnknownOperator,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(tt.args.expr, tt.args.row)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Evaluate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr != nil {
				return
			}
			if diff := cmp.Diff(tt.want, got, cmpValue()); diff != "" {
				t.Errorf("Evaluate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnknownOperatorError(t *testing.T) {
	_, err := Evaluate(&Expression{Type: Operator, Value: "<>", Left: NewOperand("a"), Right: NewOperand("b")}, nil)

	var opErr *UnknownOperatorError
	if !errors.As(err, &opErr) {
		t.Fatalf("expected *UnknownOperatorError, got %v", err)
	}

	if opErr.Operator != "<>" {
		t.Errorf("expected operator '<>', got '%s'", opErr.Operator)
	}
}

func TestMatchesNested(t *testing.T) {
	// ((age > 30 AND department = 'Sales') OR (age < 25 AND department = 'Marketing')) AND (salary > 50000 OR experience > 5)
	expr := NewOperator(And,
		NewOperator(Or,
			NewOperator(And,
				NewOperator(GreaterThan, NewOperand("age"), NewOperand("30")),
				NewOperator(Assign, NewOperand("department"), NewOperand("'Sales'")),
			),
			NewOperator(And,
				NewOperator(LessThan, NewOperand("age"), NewOperand("25")),
				NewOperator(Assign, NewOperand("department"), NewOperand("'Marketing'")),
			),
		),
		NewOperator(Or,
			NewOperator(GreaterThan, NewOperand("salary"), NewOperand("50000")),
			NewOperator(GreaterThan, NewOperand("experience"), NewOperand("5")),
		),
	)

	tests := []struct {
		name string
		row  Record
		want bool
	}{
		{"sales senior", Record{"age": Int(35), "department": String("Sales"), "salary": Int(60000), "experience": Int(2)}, true},
		{"marketing junior", Record{"age": Int(22), "department": String("Marketing"), "salary": Int(30000), "experience": Int(6)}, true},
		{"low pay", Record{"age": Int(35), "department": String("Sales"), "salary": Int(40000), "experience": Int(2)}, false},
		{"wrong department", Record{"age": Int(35), "department": String("Marketing"), "salary": Int(60000), "experience": Int(10)}, false},
		{"padded numbers", Record{"age": String(" 35"), "department": String("Sales"), "salary": String("60000 "), "experience": Int(2)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(expr, tt.row)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	tree := NewOperator(And, NewOperand("a"), NewOperator(Or, NewOperand("b"), NewOperand("c")))
	c := tree.Clone()

	if diff := cmp.Diff(tree, c); diff != "" {
		t.Errorf("Clone() mismatch (-want +got):\n%s", diff)
	}

	if c.Right == tree.Right {
		t.Error("Clone() shares subtrees with the original")
	}
}
