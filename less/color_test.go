package less

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceColor_ParsesHexAndNamedColors(t *testing.T) {
	c, ok := coerceColor(RawColor{Hex: "#ff0000"})
	assert.True(t, ok)
	assert.Equal(t, 255.0, c.R)
	assert.Equal(t, 0.0, c.G)
	assert.Equal(t, 0.0, c.B)

	c, ok = coerceColor(Keyword{Name: "rebeccapurple"})
	assert.True(t, ok)
	assert.InDelta(t, 102, c.R, 1)
}

func TestCoerceColor_RejectsNonColorKeyword(t *testing.T) {
	_, ok := coerceColor(Keyword{Name: "not-a-color"})
	assert.False(t, ok)
}

func TestColorConstructor_RGBClampsOutOfRange(t *testing.T) {
	c, ok := colorConstructor("rgb", List{Items: []Value{
		Number{Val: 300}, Number{Val: -10}, Number{Val: 128},
	}})
	assert.True(t, ok)
	assert.Equal(t, 255.0, c.R)
	assert.Equal(t, 0.0, c.G)
	assert.Equal(t, 128.0, c.B)
}

func TestColorConstructor_RGBAWithPercentAlpha(t *testing.T) {
	c, ok := colorConstructor("rgba", List{Items: []Value{
		Number{Val: 10}, Number{Val: 20}, Number{Val: 30}, Number{Val: 50, Unit: "%"},
	}})
	assert.True(t, ok)
	assert.InDelta(t, 0.5, c.A, 1e-9)
	assert.True(t, c.HasAlpha)
}

func TestHSLToRGB_RoundTripsThroughRGBToHSL(t *testing.T) {
	r, g, b := hslToRGB(210, 0.5, 0.5)
	h, s, l := rgbToHSL(r, g, b)

	assert.InDelta(t, 210, h, 1)
	assert.InDelta(t, 0.5, s, 0.02)
	assert.InDelta(t, 0.5, l, 0.02)
}

func TestLuma_WhiteIsBrighterThanBlack(t *testing.T) {
	white := Color{R: 255, G: 255, B: 255}
	black := Color{R: 0, G: 0, B: 0}

	assert.Greater(t, luma(white), luma(black))
}

func TestArgbHex_FormatsWithAlphaFirst(t *testing.T) {
	hex := argbHex(Color{R: 255, G: 0, B: 0, A: 1})
	assert.Equal(t, "#ffff0000", hex)
}

func TestMixColors_EqualWeightAverages(t *testing.T) {
	a := Color{R: 255, G: 0, B: 0, A: 1}
	b := Color{R: 0, G: 0, B: 255, A: 1}

	m := mixColors(a, b, 0.5)
	assert.InDelta(t, 127.5, m.R, 1)
	assert.InDelta(t, 127.5, m.B, 1)
}
