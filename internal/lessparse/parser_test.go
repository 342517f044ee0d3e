package lessparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitbrain/lessgo/less"
)

func TestParser_ParsesSimpleRuleset(t *testing.T) {
	p := New()

	root, err := p.Parse("t.less", ".foo { color: red; width: 10px; }")
	require.NoError(t, err)
	require.Len(t, root.Props, 1)

	block := root.Props[0].Child
	require.NotNil(t, block)
	assert.Equal(t, less.BlockRuleset, block.Type)
	require.Len(t, block.Props, 2)
	assert.Equal(t, less.PropAssign, block.Props[0].Kind)
	assert.Equal(t, "color", block.Props[0].Name)
}

func TestParser_ParsesVariableAssign(t *testing.T) {
	p := New()

	root, err := p.Parse("t.less", "@width: 10px;")
	require.NoError(t, err)
	require.Len(t, root.Props, 1)
	assert.Equal(t, less.PropAssign, root.Props[0].Kind)
	assert.Equal(t, "@width", root.Props[0].Name)
}

func TestParser_ParsesMixinCallWithArgs(t *testing.T) {
	p := New()

	root, err := p.Parse("t.less", ".foo { .bar(1, 2); }")
	require.NoError(t, err)

	block := root.Props[0].Child
	require.Len(t, block.Props, 1)
	call := block.Props[0]
	assert.Equal(t, less.PropCall, call.Kind)
	assert.Equal(t, []string{"bar"}, call.Path)
	assert.Len(t, call.Args, 2)
}

func TestParser_ParsesNestedMediaBlock(t *testing.T) {
	p := New()

	root, err := p.Parse("t.less", "@media screen { .foo { color: red; } }")
	require.NoError(t, err)
	require.Len(t, root.Props, 1)

	media := root.Props[0].Child
	require.NotNil(t, media)
	assert.Equal(t, less.BlockMedia, media.Type)
	require.Len(t, media.Queries, 1)
}

func TestParser_ParsesImport(t *testing.T) {
	p := New()

	root, err := p.Parse("t.less", `@import "foo.less";`)
	require.NoError(t, err)
	require.Len(t, root.Props, 1)
	assert.Equal(t, less.PropImport, root.Props[0].Kind)
}

func TestParser_DropsCommentsByDefaultAndKeepsWhenEnabled(t *testing.T) {
	p := New()

	root, err := p.Parse("t.less", "// a comment\n@width: 1px;")
	require.NoError(t, err)
	require.Len(t, root.Props, 1) // comment dropped

	p.SetWriteComments(true)

	root, err = p.Parse("t.less", "// a comment\n@width: 1px;")
	require.NoError(t, err)
	require.Len(t, root.Props, 2)
	assert.Equal(t, less.PropComment, root.Props[0].Kind)
}

func TestParser_ReportsSyntaxErrorWithLocation(t *testing.T) {
	p := New()

	_, err := p.Parse("t.less", ".foo {")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "t.less:1")
}

func TestParser_ParsesDirectiveWithoutBlock(t *testing.T) {
	p := New()

	root, err := p.Parse("t.less", "@charset \"utf-8\";")
	require.NoError(t, err)
	require.Len(t, root.Props, 1)
	assert.Equal(t, less.PropDirective, root.Props[0].Kind)
	assert.Equal(t, "charset", root.Props[0].Name)
}
