package less

import (
	"strings"

	"github.com/splitbrain/lessgo/internal/lesserr"
)

// reduce normalises v to canonical form: resolving variables, evaluating
// expressions, invoking functions, and collapsing unary operators on
// numbers, per spec §4.2. It is idempotent on already-reduced values that
// do not reference the mutable environment.
//
// forExpression additionally coerces keyword/raw_color operands to color
// when set, matching the coercion expression evaluation performs on its
// operands before dispatch.
func (c *Compiler) reduce(frame *Frame, v Value, forExpression bool) (Value, error) {
	switch val := v.(type) {
	case Number, Color:
		return val, nil

	case RawColor:
		if forExpression {
			if col, ok := coerceColor(val); ok {
				return col, nil
			}
		}

		return val, nil

	case Keyword:
		if forExpression {
			if col, ok := coerceColor(val); ok {
				return col, nil
			}
		}

		return val, nil

	case List:
		items := make([]Value, len(val.Items))

		for i, item := range val.Items {
			reduced, err := c.reduce(frame, item, forExpression)
			if err != nil {
				return nil, err
			}

			items[i] = reduced
		}

		return List{Delim: val.Delim, Items: items}, nil

	case String:
		return c.reduceString(frame, val, forExpression)

	case Variable:
		return c.reduceVariable(frame, val, forExpression)

	case Interpolate:
		return c.reduceInterpolate(frame, val)

	case Escape:
		inner, err := c.reduce(frame, val.Inner, forExpression)
		if err != nil {
			return nil, err
		}

		return PlainString(stringify(inner)), nil

	case Expression:
		return c.evaluate(frame, val)

	case Unary:
		return c.reduceUnary(frame, val)

	case Function:
		return c.reduceFunction(frame, val)

	default:
		return nil, lesserr.New("unknown value type %T", v)
	}
}

func (c *Compiler) reduceString(frame *Frame, s String, forExpression bool) (Value, error) {
	parts := make([]StringPart, 0, len(s.Parts))

	for _, p := range s.Parts {
		if !p.IsInner {
			parts = append(parts, p)

			continue
		}

		_, wasVariable := p.Inner.(Variable)

		reduced, err := c.reduce(frame, p.Inner, forExpression)
		if err != nil {
			return nil, err
		}

		text := stringify(reduced)
		if wasVariable {
			text = strings.Trim(text, "\"'")
		}

		parts = append(parts, StringPart{Literal: text})
	}

	return String{Delim: s.Delim, Parts: parts}, nil
}

func (c *Compiler) reduceVariable(frame *Frame, v Variable, forExpression bool) (Value, error) {
	name := v.Name

	if v.Inner != nil {
		reduced, err := c.reduce(frame, v.Inner, false)
		if err != nil {
			return nil, err
		}

		name = "@" + strings.TrimPrefix(stringify(reduced), "@")
	}

	if !frame.StartSeen(name) {
		return nil, lesserr.New("recursive variable definition for %s", name)
	}
	defer frame.EndSeen(name)

	stored, ok := frame.Get(name)
	if !ok {
		return nil, lesserr.New("variable %s is undefined", name)
	}

	return c.reduce(frame, stored, forExpression)
}

func (c *Compiler) reduceInterpolate(frame *Frame, v Interpolate) (Value, error) {
	inner, err := c.reduce(frame, v.Inner, false)
	if err != nil {
		return nil, err
	}

	name := "@" + strings.TrimPrefix(stringify(inner), "@")

	stored, ok := frame.Get(name)
	if !ok {
		return nil, lesserr.New("variable %s is undefined", name)
	}

	reduced, err := c.reduce(frame, stored, false)
	if err != nil {
		return nil, err
	}

	if rc, ok := reduced.(RawColor); ok {
		if col, ok := coerceColor(rc); ok {
			reduced = col
		}
	}

	if v.StripQuotes {
		return Keyword{Name: stringify(reduced)}, nil
	}

	return reduced, nil
}

func (c *Compiler) reduceUnary(frame *Frame, v Unary) (Value, error) {
	inner, err := c.reduce(frame, v.Inner, false)
	if err != nil {
		return nil, err
	}

	num, ok := inner.(Number)
	if !ok {
		return Unary{Op: v.Op, Inner: inner}, nil
	}

	if v.Op == '-' {
		num.Val = -num.Val
	}

	return num, nil
}

func (c *Compiler) reduceFunction(frame *Frame, fn Function) (Value, error) {
	arg, err := c.reduce(frame, fn.Arg, false)
	if err != nil {
		return nil, err
	}

	if col, ok := colorConstructor(fn.Name, arg); ok {
		return col, nil
	}

	impl, ok := c.lookupFunction(fn.Name)
	if !ok {
		return Function{Name: fn.Name, Arg: arg}, nil
	}

	reducedArgs := make([]Value, len(fn.Args()))

	for i, a := range fn.Args() {
		ra, err := c.reduce(frame, a, false)
		if err != nil {
			return nil, err
		}

		reducedArgs[i] = ra
	}

	return impl(c, frame, reducedArgs)
}
