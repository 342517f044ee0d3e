package lessparse

import (
	"strings"

	"github.com/splitbrain/lessgo/internal/lesserr"
	"github.com/splitbrain/lessgo/internal/lexer"
	"github.com/splitbrain/lessgo/less"
)

// parseSelectorOrDeclaration handles every statement that doesn't start
// with an at-rule or comment: a plain declaration ("name: value;"), a
// mixin/ruleset call ("path(args);" or "path(args) !important;"), a
// mixin/ruleset definition ("path(args) when (guard) { ... }"), or a
// plain CSS selector block ("sel, sel { ... }").
func (px *parse) parseSelectorOrDeclaration() ([]*less.Prop, error) {
	if px.declarationAhead() {
		return px.parseDeclaration()
	}

	start := px.pos
	path, isRuleset, args, kwargs, argSpecs, isVararg, hasParens := px.parsePathHead()

	if hasParens && !px.isPunct("{") {
		guards, err := px.parseOptionalGuards()
		if err != nil {
			return nil, err
		}

		if len(guards) > 0 && px.isPunct("{") {
			return px.parseMixinDefinitionBody(path, argSpecs, isVararg, guards)
		}

		return px.parseMixinCallTail(path, isRuleset, args, kwargs)
	}

	if hasParens {
		guards, err := px.parseOptionalGuards()
		if err != nil {
			return nil, err
		}

		return px.parseMixinDefinitionBody(path, argSpecs, isVararg, guards)
	}

	// A plain selector keeps its source text (leading '.' or '#', '>'
	// combinators); path only holds the prefix-stripped names.
	if len(path) > 0 {
		path = []string{strings.TrimSpace(rawSpan(px.src, px.toks, start, px.pos))}
	}

	return px.parseSelectorBlock(path)
}

// declarationAhead reports whether the upcoming tokens look like
// "ident :" (a CSS property declaration) rather than a selector or mixin
// call — the distinguishing signal is an immediate ':' with no '(' or
// selector-combinator tokens in between.
func (px *parse) declarationAhead() bool {
	if px.cur().Kind != lexer.Ident {
		return false
	}

	i := px.pos

	for i < len(px.toks) && (px.toks[i].Kind == lexer.Ident || (px.toks[i].Kind == lexer.Punct && px.toks[i].Text == "-")) {
		i++
	}

	return i < len(px.toks) && px.toks[i].Kind == lexer.Punct && px.toks[i].Text == ":"
}

func (px *parse) parseDeclaration() ([]*less.Prop, error) {
	var name strings.Builder

	for px.cur().Kind == lexer.Ident || px.isPunct("-") {
		name.WriteString(px.advance().Text)
	}

	if err := px.expectPunct(":"); err != nil {
		return nil, err
	}

	val, err := px.parseValueList(isDeclEnd)
	if err != nil {
		return nil, err
	}

	px.skipSemicolons()

	return []*less.Prop{{Kind: less.PropAssign, Name: name.String(), Value: val}}, nil
}

// parsePathHead reads a dotted/hashed name path (".a.b", "#a", "$a",
// "name") optionally followed by a parenthesized argument/parameter
// list, returning enough information for the caller to decide whether
// this is a call or a definition.
func (px *parse) parsePathHead() (path []string, isRuleset bool, args []less.Value, kwargs map[string]less.Value, argSpecs []less.ArgSpec, isVararg bool, hasParens bool) {
	if px.isPunct("$") {
		isRuleset = true
		px.advance()
	}

	for {
		seg, ok := px.readPathSegment()
		if !ok {
			break
		}

		path = append(path, seg)

		if px.isPunct(">") {
			px.advance()

			continue
		}

		break
	}

	if px.isPunct("(") {
		hasParens = true
		px.advance()

		args, kwargs, argSpecs, isVararg = px.parseArgsOrParams()
		_ = px.expectPunct(")")
	}

	return path, isRuleset, args, kwargs, argSpecs, isVararg, hasParens
}

func (px *parse) readPathSegment() (string, bool) {
	t := px.cur()

	switch {
	case t.Kind == lexer.Punct && t.Text == ".":
		px.advance()

		if px.cur().Kind == lexer.Ident {
			return px.advance().Text, true
		}

		return "", false
	case t.Kind == lexer.HashName:
		px.advance()

		return strings.TrimPrefix(t.Text, "#"), true
	case t.Kind == lexer.Ident:
		px.advance()

		return t.Text, true
	default:
		return "", false
	}
}

// parseArgsOrParams parses a parenthesized list that may be either call
// arguments (values, possibly "name: value" keyword form) or mixin
// parameter declarations (arg(name[: default]) / rest "@name..." /
// literal values used as guard-style dispatch keys). The two shapes are
// disambiguated per-item: an item starting with "@name" followed by ':'
// or "..." is a parameter spec; anything else is a call argument/literal.
func (px *parse) parseArgsOrParams() ([]less.Value, map[string]less.Value, []less.ArgSpec, bool) {
	var (
		args     []less.Value
		argSpecs []less.ArgSpec
		isVararg bool
	)

	kwargs := map[string]less.Value{}

	for !px.isPunct(")") && !px.atEOF() {
		if px.cur().Kind == lexer.AtName {
			name := px.cur().Text

			if px.peekN(1).Kind == lexer.Punct && px.peekN(1).Text == "." && px.peekN(2).Kind == lexer.Punct && px.peekN(2).Text == "." {
				px.advance()
				px.skipEllipsis()
				argSpecs = append(argSpecs, less.ArgSpec{Kind: less.ArgRest, Name: name})
				isVararg = true
			} else if px.peekN(1).Kind == lexer.Punct && px.peekN(1).Text == ":" {
				px.advance()
				px.advance()

				def, _ := px.parseExpr()
				argSpecs = append(argSpecs, less.ArgSpec{Kind: less.ArgNamed, Name: name, Default: def})
			} else if px.peekN(1).Kind == lexer.Punct && px.peekN(1).Text == "=" {
				// keyword call argument: "@name=value" style, rare; treat
				// name as the kwarg key.
				px.advance()
				px.advance()

				v, _ := px.parseExpr()
				kwargs[name] = v
			} else {
				argSpecs = append(argSpecs, less.ArgSpec{Kind: less.ArgNamed, Name: name})
				px.advance()
			}
		} else {
			v, _ := px.parseExpr()

			if v != nil {
				argSpecs = append(argSpecs, less.ArgSpec{Kind: less.ArgLit, Lit: v})
				args = append(args, v)
			}
		}

		if px.isPunct(",") || px.isPunct(";") {
			px.advance()

			continue
		}

		break
	}

	return args, kwargs, argSpecs, isVararg
}

func (px *parse) skipEllipsis() {
	for px.isPunct(".") {
		px.advance()
	}
}

// parseOptionalGuards parses a "when (...) [and (...)]*, (...) ..." guard
// clause list, per spec §4.4.
func (px *parse) parseOptionalGuards() (less.Guards, error) {
	if !(px.cur().Kind == lexer.Ident && px.cur().Text == "when") {
		return nil, nil
	}

	px.advance()

	var guards less.Guards

	for {
		conj, err := px.parseGuardConjunction()
		if err != nil {
			return nil, err
		}

		guards = append(guards, conj)

		if px.isPunct(",") {
			px.advance()

			continue
		}

		break
	}

	return guards, nil
}

func (px *parse) parseGuardConjunction() (less.GuardConjunction, error) {
	var conj less.GuardConjunction

	for {
		negate := false

		if px.cur().Kind == lexer.Ident && px.cur().Text == "not" {
			negate = true

			px.advance()
		}

		if err := px.expectPunct("("); err != nil {
			return nil, err
		}

		expr, err := px.parseValueList(func(t lexer.Token) bool {
			return t.Kind == lexer.Punct && t.Text == ")"
		})
		if err != nil {
			return nil, err
		}

		if err := px.expectPunct(")"); err != nil {
			return nil, err
		}

		conj = append(conj, less.GuardClause{Expr: expr, Negate: negate})

		if px.cur().Kind == lexer.Ident && px.cur().Text == "and" {
			px.advance()

			continue
		}

		break
	}

	return conj, nil
}

func (px *parse) parseMixinCallTail(path []string, isRuleset bool, args []less.Value, kwargs map[string]less.Value) ([]*less.Prop, error) {
	suffix := ""

	if px.cur().Kind == lexer.Punct && px.cur().Text == "!" {
		px.advance()

		if px.cur().Kind == lexer.Ident {
			suffix = "!" + px.advance().Text
		}
	}

	px.skipSemicolons()

	return []*less.Prop{{Kind: less.PropCall, Path: path, IsRuleset: isRuleset, Args: args, KwArgs: kwargs, Suffix: suffix}}, nil
}

func (px *parse) parseMixinDefinitionBody(path []string, argSpecs []less.ArgSpec, isVararg bool, guards less.Guards) ([]*less.Prop, error) {
	if err := px.expectPunct("{"); err != nil {
		return nil, err
	}

	block := less.NewBlock(less.BlockRuleset)
	block.Tags = []less.Value{less.PlainString(strings.Join(path, " "))}
	block.Args = argSpecs
	block.IsVararg = isVararg
	block.Guards = guards

	props, err := px.parseStatements(false)
	if err != nil {
		return nil, err
	}

	block.Props = props
	registerChildren(block, props)

	return []*less.Prop{{Kind: less.PropBlock, Child: block}}, nil
}

func (px *parse) parseSelectorBlock(firstPath []string) ([]*less.Prop, error) {
	var tags []less.Value

	if len(firstPath) > 0 {
		tags = append(tags, less.PlainString(joinSelectorPath(firstPath)))
	}

	for !px.isPunct("{") && !px.atEOF() {
		if px.isPunct(",") {
			px.advance()

			sel, err := px.parseOneSelector()
			if err != nil {
				return nil, err
			}

			tags = append(tags, sel)

			continue
		}

		if len(tags) == 0 {
			sel, err := px.parseOneSelector()
			if err != nil {
				return nil, err
			}

			tags = append(tags, sel)

			continue
		}

		// extend the last selector with combinator/compound tokens
		// (e.g. "div span", "a > b", "&:hover").
		extra := px.consumeSelectorToken()
		if extra == "" {
			break
		}

		last := tags[len(tags)-1]
		tags[len(tags)-1] = appendSelectorText(last, extra)
	}

	if err := px.expectPunct("{"); err != nil {
		return nil, err
	}

	block := less.NewBlock(less.BlockRuleset)
	block.Tags = tags

	props, err := px.parseStatements(false)
	if err != nil {
		return nil, err
	}

	block.Props = props
	registerChildren(block, props)

	return []*less.Prop{{Kind: less.PropBlock, Child: block}}, nil
}

// parseOneSelector reads raw selector text up to ',' or '{', including
// "@{...}" interpolation spliced in as nested values.
func (px *parse) parseOneSelector() (less.Value, error) {
	var parts []less.StringPart

	for {
		t := px.cur()

		if t.Kind == lexer.EOF {
			return nil, lesserr.New("unexpected end of input in selector")
		}

		if t.Kind == lexer.Punct && (t.Text == "," || t.Text == "{") {
			break
		}

		if t.Kind == lexer.AtInterpBeg {
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

			continue
		}

		parts = append(parts, less.StringPart{Literal: tokenSurfaceText(px.advance())})
	}

	return collapseSelectorParts(parts), nil
}

func (px *parse) consumeSelectorToken() string {
	t := px.cur()
	if t.Kind == lexer.EOF || (t.Kind == lexer.Punct && (t.Text == "," || t.Text == "{")) {
		return ""
	}

	px.advance()

	return tokenSurfaceText(t)
}

func tokenSurfaceText(t lexer.Token) string {
	switch t.Kind {
	case lexer.HashName:
		return t.Text
	case lexer.String:
		return string(t.Delim) + t.Text + string(t.Delim)
	default:
		return t.Text
	}
}

func collapseSelectorParts(parts []less.StringPart) less.Value {
	if len(parts) == 1 && !parts[0].IsInner {
		return less.PlainString(strings.TrimSpace(parts[0].Literal))
	}

	return less.String{Parts: parts}
}

func appendSelectorText(v less.Value, extra string) less.Value {
	s, ok := v.(less.String)
	if !ok {
		s = less.PlainString(v.String())
	}

	s.Parts = append(s.Parts, less.StringPart{Literal: " " + extra})

	return s
}

func joinSelectorPath(path []string) string {
	return strings.Join(path, " ")
}

// registerChildren indexes every nested ruleset prop of owner (blocks of
// any other type are skipped) into owner's Children map, keyed by the block's leading selector
// identifier (stripped of '.', '#', '&'), per §4.4.1's findBlocks lookup.
func registerChildren(owner *less.Block, props []*less.Prop) {
	for _, p := range props {
		if p.Kind != less.PropBlock || p.Child.Type != less.BlockRuleset {
			continue
		}

		name := leadingName(p.Child.Tags)
		if name == "" {
			continue
		}

		owner.AddChild(name, p.Child)
	}
}

func leadingName(tags []less.Value) string {
	if len(tags) == 0 {
		return ""
	}

	text := tags[0].String()
	text = strings.TrimSpace(strings.SplitN(text, " ", 2)[0])

	return strings.TrimLeft(text, ".#&")
}
