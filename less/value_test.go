package less

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber_StringOmitsTrailingZeroForIntegers(t *testing.T) {
	assert.Equal(t, "5px", Number{Val: 5, Unit: "px"}.String())
	assert.Equal(t, "5.5px", Number{Val: 5.5, Unit: "px"}.String())
}

func TestColor_StringUsesHexWithoutAlphaAndRGBAWithIt(t *testing.T) {
	assert.Equal(t, "#ff0000", Color{R: 255, G: 0, B: 0}.String())
	assert.Equal(t, "rgba(255, 0, 0, 0.5)", Color{R: 255, G: 0, B: 0, A: 0.5, HasAlpha: true}.String())
}

func TestIsTruthy_OnlyTrueKeywordIsTruthy(t *testing.T) {
	assert.True(t, IsTruthy(True))
	assert.False(t, IsTruthy(False))
	assert.False(t, IsTruthy(Keyword{Name: "other"}))
	assert.False(t, IsTruthy(Number{Val: 1}))
}

func TestString_TextJoinsLiteralAndInnerParts(t *testing.T) {
	s := String{
		Delim: '"',
		Parts: []StringPart{
			{Literal: "hello "},
			{IsInner: true, Inner: PlainString("world")},
		},
	}

	assert.Equal(t, "hello world", s.Text())
	assert.Equal(t, `"hello world"`, s.String())
}

func TestList_StringJoinsWithDelimiter(t *testing.T) {
	l := List{Delim: ", ", Items: []Value{Number{Val: 1}, Number{Val: 2}}}
	assert.Equal(t, "1, 2", l.String())
}

func TestFunction_ArgsSplitsListButNotOtherValues(t *testing.T) {
	f := Function{Name: "rgb", Arg: List{Delim: ", ", Items: []Value{Number{Val: 1}, Number{Val: 2}}}}
	assert.Len(t, f.Args(), 2)

	f2 := Function{Name: "foo", Arg: Number{Val: 1}}
	assert.Len(t, f2.Args(), 1)

	f3 := Function{Name: "foo"}
	assert.Nil(t, f3.Args())
}

func TestValuesEqual_NumbersRequireSameUnit(t *testing.T) {
	assert.True(t, ValuesEqual(Number{Val: 1, Unit: "px"}, Number{Val: 1, Unit: "px"}))
	assert.False(t, ValuesEqual(Number{Val: 1, Unit: "px"}, Number{Val: 1, Unit: "em"}))
}

func TestValuesEqual_ListsCompareElementwise(t *testing.T) {
	a := List{Items: []Value{Number{Val: 1}, Number{Val: 2}}}
	b := List{Items: []Value{Number{Val: 1}, Number{Val: 2}}}
	c := List{Items: []Value{Number{Val: 1}, Number{Val: 3}}}

	assert.True(t, ValuesEqual(a, b))
	assert.False(t, ValuesEqual(a, c))
}

func TestValuesEqual_NilHandledSymmetrically(t *testing.T) {
	assert.True(t, ValuesEqual(nil, nil))
	assert.False(t, ValuesEqual(nil, Number{Val: 0}))
	assert.False(t, ValuesEqual(Number{Val: 0}, nil))
}

func TestBoolValue_RoundTripsWithIsTruthy(t *testing.T) {
	assert.True(t, IsTruthy(BoolValue(true)))
	assert.False(t, IsTruthy(BoolValue(false)))
}
