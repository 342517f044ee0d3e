// Package lessparse is the hand-written recursive-descent parser that
// turns LESS source text into the less.Block/less.Prop/less.Value tree
// the evaluator in package less consumes. It implements the Parser
// interface the evaluator declares as an external collaborator (spec
// §6.2): no parser generator, no separate grammar file — a LESS
// stylesheet is irregular enough (selectors, declarations, at-rules, and
// expressions all sharing the same token stream with different
// termination rules) that a hand-rolled descent reads more directly than
// a generated one.
package lessparse

import (
	"strings"

	"github.com/splitbrain/lessgo/internal/lesserr"
	"github.com/splitbrain/lessgo/internal/lexer"
	"github.com/splitbrain/lessgo/less"
)

// Parser implements less.Parser.
type Parser struct {
	writeComments bool
}

// New constructs a Parser with comment-writing disabled by default.
func New() *Parser { return &Parser{} }

// SetWriteComments implements less.Parser.
func (p *Parser) SetWriteComments(w bool) { p.writeComments = w }

// Parse implements less.Parser.
func (p *Parser) Parse(name, source string) (*less.Block, error) {
	px := &parse{
		name:          name,
		src:           source,
		toks:          lexer.New(source).Tokens(),
		writeComments: p.writeComments,
	}

	root := less.NewBlock(less.BlockRoot)

	props, err := px.parseStatements(true)
	if err != nil {
		return nil, px.wrapErr(err)
	}

	root.Props = props
	registerChildren(root, props)

	return root, nil
}

// parse holds one Parse call's mutable state.
type parse struct {
	name          string
	src           string
	toks          []lexer.Token
	pos           int
	writeComments bool
}

func (px *parse) wrapErr(err error) error {
	if pe, ok := err.(*lesserr.ParserError); ok {
		return pe.At(&lesserr.Source{Name: px.name, Text: px.src}, px.offset())
	}

	return err
}

func (px *parse) cur() lexer.Token {
	if px.pos >= len(px.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}

	return px.toks[px.pos]
}

func (px *parse) peekN(n int) lexer.Token {
	if px.pos+n >= len(px.toks) {
		return lexer.Token{Kind: lexer.EOF}
	}

	return px.toks[px.pos+n]
}

func (px *parse) advance() lexer.Token {
	t := px.cur()
	if px.pos < len(px.toks) {
		px.pos++
	}

	return t
}

func (px *parse) offset() int {
	return px.cur().Offset
}

func (px *parse) atEOF() bool { return px.cur().Kind == lexer.EOF }

func (px *parse) isPunct(s string) bool {
	t := px.cur()

	return t.Kind == lexer.Punct && t.Text == s
}

func (px *parse) expectPunct(s string) error {
	if !px.isPunct(s) {
		return lesserr.New("expected %q, got %q", s, px.cur().Text)
	}

	px.advance()

	return nil
}

// adjacent reports whether token b immediately follows token a in the
// source with no intervening whitespace/comment.
func adjacent(a, b lexer.Token) bool {
	return a.Offset+len(tokenSpan(a)) == b.Offset
}

func tokenSpan(t lexer.Token) string {
	switch t.Kind {
	case lexer.String:
		// quote + text + quote (escapes counted 1:1 is an approximation;
		// adjacency checks involving strings are not load-bearing here).
		return string(t.Delim) + t.Text + string(t.Delim)
	case lexer.AtName:
		return t.Text
	default:
		return t.Text
	}
}

// parseStatements parses statements until '}' (or EOF at the root).
func (px *parse) parseStatements(isRoot bool) ([]*less.Prop, error) {
	var props []*less.Prop

	for {
		px.skipSemicolons()

		if px.atEOF() {
			if !isRoot {
				return nil, lesserr.New("unexpected end of input, expected '}'")
			}

			return props, nil
		}

		if px.isPunct("}") {
			if isRoot {
				return nil, lesserr.New("unexpected '}'")
			}

			px.advance()

			return props, nil
		}

		stmt, err := px.parseStatement()
		if err != nil {
			return nil, err
		}

		if stmt != nil {
			props = append(props, stmt...)
		}
	}
}

func (px *parse) skipSemicolons() {
	for px.isPunct(";") {
		px.advance()
	}
}

func (px *parse) parseStatement() ([]*less.Prop, error) {
	switch {
	case px.cur().Kind == lexer.Comment:
		return px.parseComment()
	case px.cur().Kind == lexer.AtName && px.cur().Text == "@import":
		return px.parseImport()
	case px.cur().Kind == lexer.AtName && px.cur().Text == "@media":
		return px.parseMedia()
	case px.cur().Kind == lexer.AtName && px.variableAssignAhead():
		return px.parseVariableAssign()
	case px.cur().Kind == lexer.AtName:
		return px.parseAtRule()
	default:
		return px.parseSelectorOrDeclaration()
	}
}

func (px *parse) parseComment() ([]*less.Prop, error) {
	t := px.advance()

	if !px.writeComments {
		return nil, nil
	}

	return []*less.Prop{{Kind: less.PropComment, Text: t.Text, SourceOffset: t.Offset}}, nil
}

// variableAssignAhead reports whether the current "@name" token is
// followed by ':' (a variable assignment) rather than being the start of
// a directive or media/import keyword already special-cased above.
func (px *parse) variableAssignAhead() bool {
	return px.peekN(1).Kind == lexer.Punct && px.peekN(1).Text == ":"
}

func (px *parse) parseVariableAssign() ([]*less.Prop, error) {
	name := px.advance().Text

	if err := px.expectPunct(":"); err != nil {
		return nil, err
	}

	val, err := px.parseValueList(isDeclEnd)
	if err != nil {
		return nil, err
	}

	px.skipSemicolons()

	return []*less.Prop{{Kind: less.PropAssign, Name: name, Value: val}}, nil
}

// parseAtRule handles @-rules other than @media/@import/variable
// assignment: either "@name value;" (PropDirective) or "@name value {
// ... }" (a nested directive Block).
func (px *parse) parseAtRule() ([]*less.Prop, error) {
	name := strings.TrimPrefix(px.advance().Text, "@")

	val, err := px.parseValueList(func(t lexer.Token) bool {
		return (t.Kind == lexer.Punct && (t.Text == ";" || t.Text == "{")) || t.Kind == lexer.EOF
	})
	if err != nil {
		return nil, err
	}

	if px.isPunct("{") {
		px.advance()

		block := less.NewBlock(less.BlockDirective)
		block.Name = name
		block.DirVal = val

		props, err := px.parseStatements(false)
		if err != nil {
			return nil, err
		}

		block.Props = props
		registerChildren(block, props)

		return []*less.Prop{{Kind: less.PropBlock, Child: block}}, nil
	}

	px.skipSemicolons()

	return []*less.Prop{{Kind: less.PropDirective, Name: name, Value: val}}, nil
}

func (px *parse) parseImport() ([]*less.Prop, error) {
	px.advance() // "@import"

	val, err := px.parseValueList(isDeclEnd)
	if err != nil {
		return nil, err
	}

	px.skipSemicolons()

	return []*less.Prop{{Kind: less.PropImport, Value: val}}, nil
}

func (px *parse) parseMedia() ([]*less.Prop, error) {
	px.advance() // "@media"

	var queries []less.Value

	for {
		q, err := px.parseMediaQuery()
		if err != nil {
			return nil, err
		}

		queries = append(queries, q)

		if px.isPunct(",") {
			px.advance()

			continue
		}

		break
	}

	if err := px.expectPunct("{"); err != nil {
		return nil, err
	}

	block := less.NewBlock(less.BlockMedia)
	block.Queries = queries

	props, err := px.parseStatements(false)
	if err != nil {
		return nil, err
	}

	block.Props = props
	registerChildren(block, props)

	return []*less.Prop{{Kind: less.PropBlock, Child: block}}, nil
}

// parseMediaQuery reads raw text up to ',' or '{' and wraps it as a
// plain string value (media feature expressions are passed through
// verbatim, only the query-list separators matter to the evaluator).
func (px *parse) parseMediaQuery() (less.Value, error) {
	start := px.pos

	depth := 0

	for {
		t := px.cur()

		if t.Kind == lexer.EOF {
			return nil, lesserr.New("unexpected end of input in @media query")
		}

		if t.Kind == lexer.Punct && t.Text == "(" {
			depth++
		}

		if t.Kind == lexer.Punct && t.Text == ")" {
			depth--
		}

		if depth == 0 && t.Kind == lexer.Punct && (t.Text == "," || t.Text == "{") {
			break
		}

		px.advance()
	}

	text := rawSpan(px.src, px.toks, start, px.pos)

	return less.PlainString(strings.TrimSpace(text)), nil
}

func rawSpan(src string, toks []lexer.Token, from, to int) string {
	if from >= len(toks) {
		return ""
	}

	start := toks[from].Offset

	end := len(src)
	if to < len(toks) {
		end = toks[to].Offset
	}

	return src[start:end]
}
