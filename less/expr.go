package less

import (
	"math"

	"github.com/splitbrain/lessgo/internal/lesserr"
)

// evaluate reduces both operands (coercing raw_color/named-keyword
// operands to color first), then dispatches per spec §4.3.
func (c *Compiler) evaluate(frame *Frame, e Expression) (Value, error) {
	left, err := c.reduce(frame, e.Left, true)
	if err != nil {
		return nil, err
	}

	right, err := c.reduce(frame, e.Right, true)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "and":
		return BoolValue(IsTruthy(left) && IsTruthy(right)), nil
	case "=":
		return BoolValue(ValuesEqual(left, right)), nil
	}

	if e.Op == "+" {
		if s, ok := stringConcat(left, right); ok {
			return s, nil
		}
	}

	switch l := left.(type) {
	case Number:
		if r, ok := right.(Number); ok {
			return numberOp(e.Op, l, r)
		}

		if r, ok := right.(Color); ok && (e.Op == "+" || e.Op == "*") {
			return colorNumberOp(e.Op, r, l)
		}
	case Color:
		if r, ok := right.(Color); ok {
			return colorColorOp(e.Op, l, r)
		}

		if r, ok := right.(Number); ok {
			return colorNumberOp(e.Op, l, r)
		}
	}

	op := e.Op
	if e.WSBefore {
		op = " " + op
	}

	if e.WSAfter {
		op += " "
	}

	return String{Parts: []StringPart{
		{IsInner: true, Inner: left},
		{Literal: op},
		{IsInner: true, Inner: right},
	}}, nil
}

// stringConcat implements the "+ with any string-coercible operand"
// branch: if either side is a string, concatenate, clearing the right
// string's delimiter so its contents inline when both sides are strings.
func stringConcat(left, right Value) (Value, bool) {
	ls, lok := left.(String)
	rs, rok := right.(String)

	switch {
	case lok && rok:
		rs.Delim = 0

		return String{Delim: ls.Delim, Parts: append(append([]StringPart{}, ls.Parts...), rs.Parts...)}, true
	case lok:
		return String{Delim: ls.Delim, Parts: append(append([]StringPart{}, ls.Parts...), StringPart{IsInner: true, Inner: right})}, true
	case rok:
		return String{Delim: rs.Delim, Parts: append([]StringPart{{IsInner: true, Inner: left}}, rs.Parts...)}, true
	default:
		return nil, false
	}
}

func numberOp(op string, l, r Number) (Value, error) {
	unit := l.Unit
	if unit == "" {
		unit = r.Unit
	}

	switch op {
	case "+":
		return Number{Val: l.Val + r.Val, Unit: unit}, nil
	case "-":
		return Number{Val: l.Val - r.Val, Unit: unit}, nil
	case "*":
		return Number{Val: l.Val * r.Val, Unit: unit}, nil
	case "/":
		if r.Val == 0 {
			return nil, lesserr.New("divide by zero")
		}

		return Number{Val: l.Val / r.Val, Unit: unit}, nil
	case "%":
		if r.Val == 0 {
			return nil, lesserr.New("divide by zero")
		}

		return Number{Val: math.Mod(l.Val, r.Val), Unit: unit}, nil
	case "<":
		return BoolValue(l.Val < r.Val), nil
	case ">":
		return BoolValue(l.Val > r.Val), nil
	case ">=":
		return BoolValue(l.Val >= r.Val), nil
	case "=<":
		return BoolValue(l.Val <= r.Val), nil
	default:
		return nil, lesserr.New("unknown operator %q for number/number", op)
	}
}

func colorColorOp(op string, l, r Color) (Value, error) {
	apply := func(f func(a, b float64) float64) Color {
		c := Color{R: f(l.R, r.R), G: f(l.G, r.G), B: f(l.B, r.B), A: l.A, HasAlpha: l.HasAlpha || r.HasAlpha}
		if l.HasAlpha || r.HasAlpha {
			c.A = f(l.A, r.A)
		}

		return clampColor(c)
	}

	switch op {
	case "+":
		return apply(func(a, b float64) float64 { return a + b }), nil
	case "-":
		return apply(func(a, b float64) float64 { return a - b }), nil
	case "*":
		return apply(func(a, b float64) float64 { return a * b }), nil
	case "/":
		return apply(func(a, b float64) float64 {
			if b == 0 {
				return a
			}

			return a / b
		}), nil
	case "%":
		return apply(func(a, b float64) float64 {
			if b == 0 {
				return a
			}

			return math.Mod(a, b)
		}), nil
	default:
		return nil, lesserr.New("unknown operator %q for color/color", op)
	}
}

func colorNumberOp(op string, col Color, num Number) (Value, error) {
	val := num.Val
	if num.Unit == "%" {
		val /= 100
	}

	switch op {
	case "+", "-", "*", "/", "%":
	default:
		return nil, lesserr.New("unknown operator %q for color/number", op)
	}

	apply := func(f func(a, b float64) float64) Color {
		c := Color{R: f(col.R, val), G: f(col.G, val), B: f(col.B, val), A: col.A, HasAlpha: col.HasAlpha}

		return clampColor(c)
	}

	switch op {
	case "+":
		return apply(func(a, b float64) float64 { return a + b }), nil
	case "-":
		return apply(func(a, b float64) float64 { return a - b }), nil
	case "*":
		return apply(func(a, b float64) float64 { return a * b }), nil
	case "/":
		return apply(func(a, b float64) float64 {
			if b == 0 {
				return a
			}

			return a / b
		}), nil
	default: // "%"
		return apply(func(a, b float64) float64 {
			if b == 0 {
				return a
			}

			return math.Mod(a, b)
		}), nil
	}
}

// stringify renders v as it would appear inlined inside a string/selector:
// a String value contributes its Text() (no quotes), anything else its
// surface String().
func stringify(v Value) string {
	if s, ok := v.(String); ok {
		return s.Text()
	}

	return v.String()
}
