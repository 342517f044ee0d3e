package lessparse

import (
	"strconv"

	"github.com/splitbrain/lessgo/internal/lesserr"
	"github.com/splitbrain/lessgo/internal/lexer"
	"github.com/splitbrain/lessgo/less"
)

func isDeclEnd(t lexer.Token) bool {
	return t.Kind == lexer.EOF || (t.Kind == lexer.Punct && (t.Text == ";" || t.Text == "}"))
}

// parseValueList reads a sequence of expressions separated by ',' or
// plain adjacency (space-joined), stopping when stop(cur()) holds. A
// single item is returned unwrapped; more than one becomes a [less.List].
func (px *parse) parseValueList(stop func(lexer.Token) bool) (less.Value, error) {
	var (
		items []less.Value
		delim = " "
	)

	for !stop(px.cur()) && !px.atEOF() {
		v, err := px.parseExpr()
		if err != nil {
			return nil, err
		}

		items = append(items, v)

		if px.isPunct(",") {
			delim = ","
			px.advance()

			continue
		}

		if stop(px.cur()) {
			break
		}
	}

	if len(items) == 0 {
		return less.PlainString(""), nil
	}

	if len(items) == 1 {
		return items[0], nil
	}

	return less.List{Delim: delim, Items: items}, nil
}

// Binary operator precedence, per spec §4.3.
var precedence = map[string]int{
	"and": 0,
	"=":   1, "<": 1, ">": 1, ">=": 1, "=<": 1,
	"+": 2, "-": 2,
	"*": 3, "/": 3, "%": 3,
}

func (px *parse) parseExpr() (less.Value, error) {
	return px.parseBinary(0)
}

func (px *parse) parseBinary(minPrec int) (less.Value, error) {
	left, err := px.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, wsBefore, ok := px.peekOperator()
		if !ok {
			return left, nil
		}

		prec, known := precedence[op]
		if !known || prec < minPrec {
			return left, nil
		}

		px.advance()

		wsAfter := px.hasLeadingGapFromPrev()

		right, err := px.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}

		left = less.Expression{Op: op, Left: left, Right: right, WSBefore: wsBefore, WSAfter: wsAfter}
	}
}

// peekOperator reports the operator token at the cursor, if any, along
// with whether whitespace preceded it (used only for the string-coercion
// fallback's padded rendering).
func (px *parse) peekOperator() (string, bool, bool) {
	t := px.cur()

	_, known := precedence[t.Text]

	switch {
	case t.Kind == lexer.Punct && known:
		return t.Text, px.hasLeadingGapFromPrev(), true
	case t.Kind == lexer.Ident && t.Text == "and":
		return t.Text, true, true
	default:
		return "", false, false
	}
}

func (px *parse) hasLeadingGapFromPrev() bool {
	if px.pos == 0 {
		return false
	}

	prev := px.toks[px.pos-1]

	return prev.Offset+len(tokenSpan(prev)) != px.cur().Offset
}

func (px *parse) parseUnary() (less.Value, error) {
	if px.isPunct("+") || px.isPunct("-") {
		op := px.advance().Text[0]

		inner, err := px.parseUnary()
		if err != nil {
			return nil, err
		}

		return less.Unary{Op: op, Inner: inner}, nil
	}

	return px.parsePrimary()
}

func (px *parse) parsePrimary() (less.Value, error) {
	t := px.cur()

	switch t.Kind {
	case lexer.Number:
		px.advance()

		return px.finishNumber(t)

	case lexer.Color:
		px.advance()

		return less.RawColor{Hex: t.Text}, nil

	case lexer.String:
		return px.parseInterpolatedString()

	case lexer.Escape:
		px.advance()

		inner, err := px.parsePrimary()
		if err != nil {
			return nil, err
		}

		return less.Escape{Inner: inner}, nil

	case lexer.AtInterpBeg:
		px.advance()

		inner, err := px.parseValueList(func(t lexer.Token) bool {
			return t.Kind == lexer.Punct && t.Text == "}"
		})
		if err != nil {
			return nil, err
		}

		if err := px.expectPunct("}"); err != nil {
			return nil, err
		}

		return less.Interpolate{Inner: inner}, nil

	case lexer.AtName:
		px.advance()

		return less.Variable{Name: t.Text}, nil

	case lexer.HashName:
		px.advance()

		return less.Keyword{Name: t.Text}, nil

	case lexer.Ident:
		return px.parseIdentOrCall(t)

	case lexer.Punct:
		if t.Text == "(" {
			px.advance()

			inner, err := px.parseValueList(func(t lexer.Token) bool {
				return t.Kind == lexer.Punct && t.Text == ")"
			})
			if err != nil {
				return nil, err
			}

			if err := px.expectPunct(")"); err != nil {
				return nil, err
			}

			return inner, nil
		}

		if t.Text == "%" {
			// the "%" sprintf function, called like any other ident-style
			// function but lexed as punctuation since it shares a glyph
			// with the percentage unit.
			px.advance()

			return px.finishCall("%")
		}

		return nil, lesserr.New("unexpected token %q", t.Text)

	default:
		return nil, lesserr.New("unexpected token %q", t.Text)
	}
}

// parseInterpolatedString reassembles a quoted string the lexer split on
// "@{...}" into a less.String with one StringPart per literal/interpolated
// run, reusing the same AtInterpBeg/parseValueList/"}" sequence the
// top-level "@{...}" case above and parseOneSelector both parse.
func (px *parse) parseInterpolatedString() (less.Value, error) {
	first := px.advance()

	if !first.MoreString {
		return less.QuotedString(first.Delim, first.Text), nil
	}

	parts := []less.StringPart{{Literal: first.Text}}

	for {
		if px.cur().Kind != lexer.AtInterpBeg {
			return nil, lesserr.New("unterminated string interpolation")
		}

		px.advance()

		inner, err := px.parseValueList(func(t lexer.Token) bool {
			return t.Kind == lexer.Punct && t.Text == "}"
		})
		if err != nil {
			return nil, err
		}

		if err := px.expectPunct("}"); err != nil {
			return nil, err
		}

		parts = append(parts, less.StringPart{IsInner: true, Inner: less.Interpolate{Inner: inner}})

		frag := px.cur()
		if frag.Kind != lexer.String {
			return nil, lesserr.New("unterminated string interpolation")
		}

		px.advance()
		parts = append(parts, less.StringPart{Literal: frag.Text})

		if !frag.MoreString {
			break
		}
	}

	return less.String{Delim: first.Delim, Parts: parts}, nil
}

func (px *parse) finishNumber(t lexer.Token) (less.Value, error) {
	val, err := parseFloat(t.Text)
	if err != nil {
		return nil, lesserr.New("invalid number %q", t.Text)
	}

	unit := ""

	next := px.cur()
	if adjacent(t, next) {
		switch {
		case next.Kind == lexer.Ident:
			unit = px.advance().Text
		case next.Kind == lexer.Punct && next.Text == "%":
			unit = "%"
			px.advance()
		}
	}

	return less.Number{Val: val, Unit: unit}, nil
}

func (px *parse) parseIdentOrCall(t lexer.Token) (less.Value, error) {
	px.advance()

	if t.Text == "true" || t.Text == "false" {
		return less.BoolValue(t.Text == "true"), nil
	}

	if px.isPunct("(") && adjacent(t, px.cur()) {
		return px.finishCall(t.Text)
	}

	return less.Keyword{Name: t.Text}, nil
}

func (px *parse) finishCall(name string) (less.Value, error) {
	if err := px.expectPunct("("); err != nil {
		return nil, err
	}

	arg, err := px.parseValueList(func(t lexer.Token) bool {
		return t.Kind == lexer.Punct && t.Text == ")"
	})
	if err != nil {
		return nil, err
	}

	if err := px.expectPunct(")"); err != nil {
		return nil, err
	}

	return less.Function{Name: name, Arg: arg}, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
