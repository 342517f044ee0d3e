package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_ScansIdentsAndPunct(t *testing.T) {
	toks := New(".foo { color: red; }").Tokens()

	require.NotEmpty(t, toks)
	assert.Equal(t, Punct, toks[0].Kind)
	assert.Equal(t, ".", toks[0].Text)
	assert.Equal(t, Ident, toks[1].Kind)
	assert.Equal(t, "foo", toks[1].Text)
	assert.Equal(t, EOF, toks[len(toks)-1].Kind)
}

func TestLexer_ScansAtName(t *testing.T) {
	toks := New("@width: 10px;").Tokens()

	require.NotEmpty(t, toks)
	assert.Equal(t, AtName, toks[0].Kind)
	assert.Equal(t, "@width", toks[0].Text)
}

func TestLexer_ScansAtInterpolation(t *testing.T) {
	toks := New("@{name}").Tokens()

	require.NotEmpty(t, toks)
	assert.Equal(t, AtInterpBeg, toks[0].Kind)
	assert.Equal(t, Ident, toks[1].Kind)
	assert.Equal(t, "name", toks[1].Text)
}

func TestLexer_ScansHexColorsVsHashNames(t *testing.T) {
	toks := New("#fff #header #abcdef12").Tokens()

	require.Len(t, toks, 4) // 3 tokens + EOF
	assert.Equal(t, Color, toks[0].Kind)
	assert.Equal(t, "#fff", toks[0].Text)
	assert.Equal(t, HashName, toks[1].Kind)
	assert.Equal(t, "#header", toks[1].Text)
	assert.Equal(t, Color, toks[2].Kind)
	assert.Equal(t, "#abcdef12", toks[2].Text)
}

func TestLexer_ScansNumberWithoutConsumingUnit(t *testing.T) {
	toks := New("1.5px").Tokens()

	require.Len(t, toks, 3) // Number, Ident("px"), EOF
	assert.Equal(t, Number, toks[0].Kind)
	assert.Equal(t, "1.5", toks[0].Text)
	assert.Equal(t, Ident, toks[1].Kind)
	assert.Equal(t, "px", toks[1].Text)
}

func TestLexer_ScansQuotedStringsWithEscapes(t *testing.T) {
	toks := New(`"a\"b"`).Tokens()

	require.NotEmpty(t, toks)
	assert.Equal(t, String, toks[0].Kind)
	assert.Equal(t, byte('"'), toks[0].Delim)
	assert.Equal(t, `a\"b`, toks[0].Text)
}

func TestLexer_ScansComments(t *testing.T) {
	toks := New("// line\n/* block */").Tokens()

	require.Len(t, toks, 3)
	assert.Equal(t, Comment, toks[0].Kind)
	assert.Equal(t, "// line", toks[0].Text)
	assert.Equal(t, Comment, toks[1].Kind)
	assert.Equal(t, "/* block */", toks[1].Text)
}

func TestLexer_ScansMultiCharOperators(t *testing.T) {
	toks := New(">= =< ==").Tokens()

	require.Len(t, toks, 4)
	for i, want := range []string{">=", "=<", "=="} {
		assert.Equal(t, Punct, toks[i].Kind)
		assert.Equal(t, want, toks[i].Text)
	}
}

func TestLexer_ScansEscapeMarker(t *testing.T) {
	toks := New(`~"raw"`).Tokens()

	require.Len(t, toks, 3)
	assert.Equal(t, Escape, toks[0].Kind)
	assert.Equal(t, String, toks[1].Kind)
}

func TestLexer_EmptySourceYieldsOnlyEOF(t *testing.T) {
	toks := New("").Tokens()

	require.Len(t, toks, 1)
	assert.Equal(t, EOF, toks[0].Kind)
}
