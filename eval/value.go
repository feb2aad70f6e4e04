package eval

import (
	"math"
	"strconv"
	"strings"
)

type Kind uint8

const (
	StringKind Kind = iota
	BoolKind
	IntKind
	FloatKind
)

func (k Kind) String() string {
	switch k {
	case StringKind:
		return "string"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is one of bool, int64, float64 or string. The zero Value is the
// empty string.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

func Bool(b bool) Value {
	return Value{kind: BoolKind, b: b}
}

func Int(i int64) Value {
	return Value{kind: IntKind, i: i}
}

func Float(f float64) Value {
	return Value{kind: FloatKind, f: f}
}

func String(s string) Value {
	return Value{kind: StringKind, s: s}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNumber() bool {
	return v.kind == IntKind || v.kind == FloatKind
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == BoolKind
}

func (v Value) Int() (int64, bool) {
	return v.i, v.kind == IntKind
}

func (v Value) Float() (float64, bool) {
	return v.f, v.kind == FloatKind
}

func (v Value) Str() (string, bool) {
	return v.s, v.kind == StringKind
}

// number returns the value as float64. Only meaningful when IsNumber is true.
func (v Value) number() float64 {
	if v.kind == IntKind {
		return float64(v.i)
	}

	return v.f
}

// String returns the literal text of the value. It is the form used by the
// textual fallback of comparisons.
func (v Value) String() string {
	switch v.kind {
	case BoolKind:
		return strconv.FormatBool(v.b)
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return formatFloat(v.f)
	}

	return v.s
}

// GoValue returns the value as a plain Go value.
func (v Value) GoValue() any {
	switch v.kind {
	case BoolKind:
		return v.b
	case IntKind:
		return v.i
	case FloatKind:
		return v.f
	}

	return v.s
}

// Truthy reports how the value reads as a condition: booleans as is,
// non-zero numbers and non-empty strings are true.
func (v Value) Truthy() bool {
	switch v.kind {
	case BoolKind:
		return v.b
	case IntKind:
		return v.i != 0
	case FloatKind:
		return v.f != 0
	}

	return v.s != ""
}

// Equal compares two coerced values. Numbers compare numerically whatever
// their kind, values of the same kind compare directly, and anything else
// is equal only when both have the same literal text.
func (v Value) Equal(o Value) bool {
	if v.IsNumber() && o.IsNumber() {
		if v.kind == IntKind && o.kind == IntKind {
			return v.i == o.i
		}
		return v.number() == o.number()
	}

	if v.kind == o.kind {
		switch v.kind {
		case BoolKind:
			return v.b == o.b
		case StringKind:
			return v.s == o.s
		}
	}

	return v.String() == o.String()
}

// Compare orders two coerced values, returning -1, 0 or +1. Numbers are
// ordered numerically, everything else by literal text.
func (v Value) Compare(o Value) int {
	if v.IsNumber() && o.IsNumber() {
		if v.kind == IntKind && o.kind == IntKind {
			return compare(v.i, o.i)
		}
		return compare(v.number(), o.number())
	}

	return strings.Compare(v.String(), o.String())
}

func compare[T int64 | float64](l, r T) int {
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}

	return 0
}

// Coerce turns a string value into the most specific kind its text allows.
// Other kinds are returned unchanged, so Coerce(Coerce(v)) == Coerce(v).
func Coerce(v Value) Value {
	if v.kind != StringKind {
		return v
	}

	return CoerceString(v.s)
}

// CoerceString strips one layer of matching surrounding quotes, then tries
// a boolean, an integer and a finite float in that order. Numbers may be
// padded with whitespace.
func CoerceString(s string) Value {
	s = unquote(s)

	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	num := strings.TrimSpace(s)
	if i, err := strconv.ParseInt(num, 10, 64); err == nil {
		return Int(i)
	}

	if f, err := strconv.ParseFloat(num, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return Float(f)
	}

	return String(s)
}

func unquote(s string) string {
	if len(s) < 2 {
		return s
	}

	first, last := s[0], s[len(s)-1]
	if first == last && (first == '\'' || first == '"') {
		return s[1 : len(s)-1]
	}

	return s
}

// formatFloat writes positional notation for magnitudes in [1e-4, 1e16)
// and exponent notation outside it. Integral positional values get ".0".
func formatFloat(f float64) string {
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) || math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}

	return s + ".0"
}
