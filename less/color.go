package less

import (
	"math"
	"strconv"

	"github.com/mazznoer/csscolorparser"
)

// coerceColor attempts to resolve v (a [RawColor] hex literal or a CSS
// named [Keyword]) to a [Color], delegating named-color and hex parsing
// to csscolorparser so the full CSS named-color table (not just the
// handful LESS's own source hard-codes) is recognised.
func coerceColor(v Value) (Color, bool) {
	var text string

	switch val := v.(type) {
	case RawColor:
		text = val.Hex
	case Keyword:
		text = val.Name
	default:
		return Color{}, false
	}

	parsed, err := csscolorparser.Parse(text)
	if err != nil {
		return Color{}, false
	}

	r, g, b, a := parsed.RGBA255()

	return Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a) / 255, HasAlpha: a != 255}, true
}

// colorConstructor implements the reducer's "try coercing to a color
// first" step for the rgb/rgba/hsl/hsla built-ins (spec §4.2).
func colorConstructor(name string, arg Value) (Color, bool) {
	list, ok := arg.(List)
	if !ok {
		if arg == nil {
			return Color{}, false
		}

		list = List{Items: []Value{arg}}
	}

	nums := make([]float64, len(list.Items))
	units := make([]string, len(list.Items))

	for i, item := range list.Items {
		n, ok := item.(Number)
		if !ok {
			return Color{}, false
		}

		nums[i] = n.Val
		units[i] = n.Unit
	}

	switch name {
	case "rgb":
		if len(nums) != 3 {
			return Color{}, false
		}

		return clampColor(Color{R: nums[0], G: nums[1], B: nums[2], A: 1}), true
	case "rgba":
		if len(nums) != 4 {
			return Color{}, false
		}

		alpha := nums[3]
		if units[3] == "%" {
			alpha /= 100
		}

		return clampColor(Color{R: nums[0], G: nums[1], B: nums[2], A: alpha, HasAlpha: true}), true
	case "hsl":
		if len(nums) != 3 {
			return Color{}, false
		}

		r, g, b := hslToRGB(nums[0], pct(nums[1], units[1]), pct(nums[2], units[2]))

		return clampColor(Color{R: r, G: g, B: b, A: 1}), true
	case "hsla":
		if len(nums) != 4 {
			return Color{}, false
		}

		r, g, b := hslToRGB(nums[0], pct(nums[1], units[1]), pct(nums[2], units[2]))
		alpha := nums[3]

		if units[3] == "%" {
			alpha /= 100
		}

		return clampColor(Color{R: r, G: g, B: b, A: alpha, HasAlpha: true}), true
	default:
		return Color{}, false
	}
}

// pct divides by 100 when unit is "%", otherwise returns v unchanged —
// hsl()'s saturation/lightness arguments are conventionally written as
// percentages but the function accepts bare numbers too.
func pct(v float64, unit string) float64 {
	if unit == "%" {
		return v / 100
	}

	return v
}

// hslToRGB converts h (degrees), s, l (both 0..1) to RGB components in
// [0,255], the standard piecewise formulation.
func hslToRGB(h, s, l float64) (r, g, b float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	if s == 0 {
		return l * 255, l * 255, l * 255
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}

	p := 2*l - q
	hk := h / 360

	r = hueToRGB(p, q, hk+1.0/3) * 255
	g = hueToRGB(p, q, hk) * 255
	b = hueToRGB(p, q, hk-1.0/3) * 255

	return r, g, b
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}

	if t > 1 {
		t--
	}

	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

// rgbToHSL is the inverse of hslToRGB; r,g,b in [0,255], result h in
// degrees, s/l in [0,1].
func rgbToHSL(r, g, b float64) (h, s, l float64) {
	rn, gn, bn := r/255, g/255, b/255

	max := math.Max(rn, math.Max(gn, bn))
	min := math.Min(rn, math.Min(gn, bn))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case rn:
		h = (gn - bn) / d
		if gn < bn {
			h += 6
		}
	case gn:
		h = (bn-rn)/d + 2
	default:
		h = (rn-gn)/d + 4
	}

	return h * 60, s, l
}

// luma computes perceptual luminance per spec §4.6: sRGB gamma expansion
// with the 0.03928 threshold and ITU-R BT.709 coefficients.
func luma(c Color) float64 {
	expand := func(v float64) float64 {
		v /= 255

		if v <= 0.03928 {
			return v / 12.92
		}

		return math.Pow((v+0.055)/1.055, 2.4)
	}

	return 0.2126*expand(c.R) + 0.7152*expand(c.G) + 0.0722*expand(c.B)
}

// argbHex renders c as "#AARRGGBB".
func argbHex(c Color) string {
	a := clampByte(int(math.Round(c.A * 255)))
	r := clampByte(int(math.Round(c.R)))
	g := clampByte(int(math.Round(c.G)))
	b := clampByte(int(math.Round(c.B)))

	return "#" + hex2(a) + hex2(r) + hex2(g) + hex2(b)
}

func hex2(v int) string {
	s := strconv.FormatInt(int64(v), 16)
	if len(s) < 2 {
		s = "0" + s
	}

	return s
}

func mixColors(a, b Color, weight float64) Color {
	w := weight*2 - 1
	alphaDelta := a.A - b.A

	var ratio float64
	if w*alphaDelta == -1 {
		ratio = w
	} else {
		ratio = (w + alphaDelta) / (1 + w*alphaDelta)
	}

	w1 := (ratio + 1) / 2
	w2 := 1 - w1

	return clampColor(Color{
		R:        a.R*w1 + b.R*w2,
		G:        a.G*w1 + b.G*w2,
		B:        a.B*w1 + b.B*w2,
		A:        a.A*weight + b.A*(1-weight),
		HasAlpha: a.HasAlpha || b.HasAlpha,
	})
}
