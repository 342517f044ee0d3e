package less

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDedupLines_ScenarioS6 implements spec §8 S6: two identical
// declarations, each preceded by its own comment, collapse to one
// declaration with both comments spliced above it in source order.
func TestDedupLines_ScenarioS6(t *testing.T) {
	ob := &OutputBlock{
		Type: BlockRuleset,
		Lines: []OutputLine{
			{Text: "/* first */", IsComment: true},
			{Text: "color: url('x');"},
			{Text: "/* second */", IsComment: true},
			{Text: "color: url('x');"},
		},
	}

	dedupLines(ob)

	want := []OutputLine{
		{Text: "/* first */", IsComment: true},
		{Text: "/* second */", IsComment: true},
		{Text: "color: url('x');"},
	}
	assert.Equal(t, want, ob.Lines)
}

// TestDedupLines_PreservesFirstOccurrenceOrder implements invariant 5 of
// spec §8: non-comment lines keep first-occurrence order, and every
// unique comment survives.
func TestDedupLines_PreservesFirstOccurrenceOrder(t *testing.T) {
	ob := &OutputBlock{
		Lines: []OutputLine{
			{Text: "color: red;"},
			{Text: "width: 10px;"},
			{Text: "color: red;"},
			{Text: "height: 5px;"},
		},
	}

	dedupLines(ob)

	want := []OutputLine{
		{Text: "color: red;"},
		{Text: "width: 10px;"},
		{Text: "height: 5px;"},
	}
	assert.Equal(t, want, ob.Lines)
}

// TestDedupLines_TrailingCommentAppendedAtEnd covers a comment with no
// following declaration to re-anchor to: it stays at the end instead of
// being dropped.
func TestDedupLines_TrailingCommentAppendedAtEnd(t *testing.T) {
	ob := &OutputBlock{
		Lines: []OutputLine{
			{Text: "color: red;"},
			{Text: "/* trailing */", IsComment: true},
		},
	}

	dedupLines(ob)

	want := []OutputLine{
		{Text: "color: red;"},
		{Text: "/* trailing */", IsComment: true},
	}
	assert.Equal(t, want, ob.Lines)
}

// TestDedupLines_RecursesIntoChildren confirms each nested block
// deduplicates independently of its parent's lines.
func TestDedupLines_RecursesIntoChildren(t *testing.T) {
	child := &OutputBlock{
		Lines: []OutputLine{
			{Text: "color: red;"},
			{Text: "color: red;"},
		},
	}
	root := &OutputBlock{Children: []*OutputBlock{child}}

	dedupLines(root)

	assert.Equal(t, []OutputLine{{Text: "color: red;"}}, child.Lines)
}
