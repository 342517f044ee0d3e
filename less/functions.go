package less

import (
	"encoding/base64"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/splitbrain/lessgo/internal/lesserr"
)

// functionImpl is the signature a built-in (or user-registered) function
// implements: reduced argument values in, a single value out.
type functionImpl func(c *Compiler, frame *Frame, args []Value) (Value, error)

func (c *Compiler) lookupFunction(name string) (functionImpl, bool) {
	if fn, ok := c.userFunctions[name]; ok {
		return fn, true
	}

	fn, ok := builtinFunctions[name]

	return fn, ok
}

// builtinFunctions is the function library, keyed by LESS name, per
// spec §4.6.
var builtinFunctions = map[string]functionImpl{
	"pow":  mathFn2(math.Pow),
	"mod":  mathFn2(math.Mod),
	"min":  mathFn2(math.Min),
	"max":  mathFn2(math.Max),
	"abs":  mathFn1(math.Abs),
	"tan":  mathFn1(math.Tan),
	"sin":  mathFn1(math.Sin),
	"cos":  mathFn1(math.Cos),
	"atan": mathFn1(math.Atan),
	"asin": mathFn1(math.Asin),
	"acos": mathFn1(math.Acos),
	"sqrt": mathFn1(math.Sqrt),
	"floor": mathFn1(math.Floor),
	"ceil":  mathFn1(math.Ceil),

	"pi": func(c *Compiler, f *Frame, args []Value) (Value, error) {
		return Number{Val: math.Pi}, nil
	},

	"round":      fnRound,
	"percentage": fnPercentage,
	"unit":       fnUnit,

	"extract": fnExtract,

	"isnumber":     typePredicate(func(v Value) bool { _, ok := v.(Number); return ok }),
	"isstring":     typePredicate(func(v Value) bool { _, ok := v.(String); return ok }),
	"iscolor":      typePredicate(isColorish),
	"iskeyword":    typePredicate(func(v Value) bool { _, ok := v.(Keyword); return ok }),
	"ispixel":      unitPredicate("px"),
	"ispercentage": unitPredicate("%"),
	"isem":         unitPredicate("em"),
	"isrem":        unitPredicate("rem"),

	"red":        colorChannel(func(c Color) float64 { return c.R }),
	"green":      colorChannel(func(c Color) float64 { return c.G }),
	"blue":       colorChannel(func(c Color) float64 { return c.B }),
	"alpha":      colorAlphaChannel,
	"hue":        hslChannel(0),
	"saturation": hslChannel(1),
	"lightness":  hslChannel(2),
	"luma":       fnLuma,

	"argb":     fnARGBHex,
	"rgbahex":  fnARGBHex,

	"darken":    colorAdjustHSL(func(h, s, l, amt float64) (float64, float64, float64) { return h, s, clamp(l-amt, 0, 1) }),
	"lighten":   colorAdjustHSL(func(h, s, l, amt float64) (float64, float64, float64) { return h, s, clamp(l+amt, 0, 1) }),
	"saturate":  colorAdjustHSL(func(h, s, l, amt float64) (float64, float64, float64) { return h, clamp(s+amt, 0, 1), l }),
	"desaturate": colorAdjustHSL(func(h, s, l, amt float64) (float64, float64, float64) { return h, clamp(s-amt, 0, 1), l }),
	"spin":      fnSpin,

	"fadein":  fnFadeIn,
	"fadeout": fnFadeOut,
	"fade":    fnFade,

	"tint":  fnTint,
	"shade": fnShade,
	"mix":   fnMix,

	"contrast": fnContrast,

	"convert": fnConvert,

	"e":       fnEscape,
	"%":       fnSprintf,

	"data-uri": fnDataURI,
}

func mathFn1(f func(float64) float64) functionImpl {
	return func(c *Compiler, frame *Frame, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, lesserr.New("argument count mismatch: expected 1, got %d", len(args))
		}

		n, ok := args[0].(Number)
		if !ok {
			return nil, lesserr.New("expected a number argument")
		}

		return Number{Val: f(n.Val), Unit: n.Unit}, nil
	}
}

// mathFn2 combines two Number operands through f. When both operands carry
// units, b's unit must convert to a's (the same table fnConvert uses, per
// spec §4.6/§8 S4: max(10px, 5%) must fail rather than silently picking
// a.Unit and ignoring b's incompatible one).
func mathFn2(f func(a, b float64) float64) functionImpl {
	return func(c *Compiler, frame *Frame, args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, lesserr.New("argument count mismatch: expected 2, got %d", len(args))
		}

		a, ok1 := args[0].(Number)
		b, ok2 := args[1].(Number)

		if !ok1 || !ok2 {
			return nil, lesserr.New("expected two number arguments")
		}

		unit := a.Unit
		bVal := b.Val

		switch {
		case a.Unit == "":
			unit = b.Unit
		case b.Unit == "" || b.Unit == a.Unit:
			// compatible as-is
		default:
			converted, err := convertUnit(b.Val, b.Unit, a.Unit)
			if err != nil {
				return nil, err
			}

			bVal = converted
		}

		return Number{Val: f(a.Val, bVal), Unit: unit}, nil
	}
}

func fnRound(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, lesserr.New("argument count mismatch for round")
	}

	n, ok := args[0].(Number)
	if !ok {
		return nil, lesserr.New("round expects a number")
	}

	precision := 0.0

	if len(args) == 2 {
		p, ok := args[1].(Number)
		if !ok {
			return nil, lesserr.New("round precision must be a number")
		}

		precision = p.Val
	}

	mult := math.Pow(10, precision)

	return Number{Val: math.Round(n.Val*mult) / mult, Unit: n.Unit}, nil
}

func fnPercentage(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, lesserr.New("argument count mismatch for percentage")
	}

	n, ok := args[0].(Number)
	if !ok {
		return nil, lesserr.New("percentage expects a number")
	}

	return Number{Val: n.Val * 100, Unit: "%"}, nil
}

func fnUnit(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, lesserr.New("argument count mismatch for unit")
	}

	n, ok := args[0].(Number)
	if !ok {
		return nil, lesserr.New("unit expects a number")
	}

	unit := ""

	if len(args) == 2 {
		unit = stringify(args[1])
	}

	return Number{Val: n.Val, Unit: unit}, nil
}

// fnExtract implements the 1-based list indexing built-in.
func fnExtract(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, lesserr.New("argument count mismatch for extract")
	}

	list, ok := args[0].(List)
	if !ok {
		list = List{Items: []Value{args[0]}}
	}

	idx, ok := args[1].(Number)
	if !ok {
		return nil, lesserr.New("extract index must be a number")
	}

	i := int(idx.Val)
	if i < 1 || i > len(list.Items) {
		// out-of-range: re-emit the original unevaluated call, matching the
		// original implementation's behavior rather than failing.
		return Function{Name: "extract", Arg: List{Delim: ", ", Items: args}}, nil
	}

	return list.Items[i-1], nil
}

func typePredicate(pred func(Value) bool) functionImpl {
	return func(c *Compiler, frame *Frame, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, lesserr.New("argument count mismatch for type predicate")
		}

		return BoolValue(pred(args[0])), nil
	}
}

func isColorish(v Value) bool {
	switch v.(type) {
	case Color, RawColor:
		return true
	default:
		return false
	}
}

func unitPredicate(unit string) functionImpl {
	return typePredicate(func(v Value) bool {
		n, ok := v.(Number)
		return ok && n.Unit == unit
	})
}

func asColor(v Value) (Color, bool) {
	switch val := v.(type) {
	case Color:
		return val, true
	case RawColor:
		return coerceColor(val)
	default:
		return Color{}, false
	}
}

func colorChannel(f func(Color) float64) functionImpl {
	return func(c *Compiler, frame *Frame, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, lesserr.New("argument count mismatch for color channel function")
		}

		col, ok := asColor(args[0])
		if !ok {
			return nil, lesserr.New("expected a color argument")
		}

		return Number{Val: f(col)}, nil
	}
}

func colorAlphaChannel(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, lesserr.New("argument count mismatch for alpha")
	}

	col, ok := asColor(args[0])
	if !ok {
		return nil, lesserr.New("expected a color argument")
	}

	return Number{Val: col.A}, nil
}

func hslChannel(idx int) functionImpl {
	return func(c *Compiler, frame *Frame, args []Value) (Value, error) {
		if len(args) != 1 {
			return nil, lesserr.New("argument count mismatch for hsl channel function")
		}

		col, ok := asColor(args[0])
		if !ok {
			return nil, lesserr.New("expected a color argument")
		}

		h, s, l := rgbToHSL(col.R, col.G, col.B)

		switch idx {
		case 0:
			return Number{Val: h}, nil
		case 1:
			return Number{Val: s * 100, Unit: "%"}, nil
		default:
			return Number{Val: l * 100, Unit: "%"}, nil
		}
	}
}

func fnLuma(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, lesserr.New("argument count mismatch for luma")
	}

	col, ok := asColor(args[0])
	if !ok {
		return nil, lesserr.New("expected a color argument")
	}

	return Number{Val: luma(col) * 100, Unit: "%"}, nil
}

func fnARGBHex(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, lesserr.New("argument count mismatch for argb")
	}

	col, ok := asColor(args[0])
	if !ok {
		return nil, lesserr.New("expected a color argument")
	}

	return PlainString(argbHex(col)), nil
}

func colorAdjustHSL(adjust func(h, s, l, amt float64) (float64, float64, float64)) functionImpl {
	return func(c *Compiler, frame *Frame, args []Value) (Value, error) {
		if len(args) != 2 {
			return nil, lesserr.New("argument count mismatch for color adjustment function")
		}

		col, ok := asColor(args[0])
		if !ok {
			return nil, lesserr.New("expected a color argument")
		}

		amt, ok := args[1].(Number)
		if !ok {
			return nil, lesserr.New("expected a number amount")
		}

		a := amt.Val
		if amt.Unit == "%" || amt.Unit == "" {
			a /= 100
		}

		h, s, l := rgbToHSL(col.R, col.G, col.B)
		h, s, l = adjust(h, s, l, a)
		r, g, b := hslToRGB(h, s, l)

		return clampColor(Color{R: r, G: g, B: b, A: col.A, HasAlpha: col.HasAlpha}), nil
	}
}

func fnSpin(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, lesserr.New("argument count mismatch for spin")
	}

	col, ok := asColor(args[0])
	if !ok {
		return nil, lesserr.New("expected a color argument")
	}

	amt, ok := args[1].(Number)
	if !ok {
		return nil, lesserr.New("expected a number amount")
	}

	h, s, l := rgbToHSL(col.R, col.G, col.B)
	r, g, b := hslToRGB(h+amt.Val, s, l)

	return clampColor(Color{R: r, G: g, B: b, A: col.A, HasAlpha: col.HasAlpha}), nil
}

func alphaAdjust(col Color, delta float64) Color {
	a := col.A + delta
	col.A = clamp(a, 0, 1)
	col.HasAlpha = true

	return col
}

func fnFadeIn(c *Compiler, frame *Frame, args []Value) (Value, error) {
	return fadeBy(args, 1)
}

func fnFadeOut(c *Compiler, frame *Frame, args []Value) (Value, error) {
	return fadeBy(args, -1)
}

func fadeBy(args []Value, sign float64) (Value, error) {
	if len(args) != 2 {
		return nil, lesserr.New("argument count mismatch for fadein/fadeout")
	}

	col, ok := asColor(args[0])
	if !ok {
		return nil, lesserr.New("expected a color argument")
	}

	amt, ok := args[1].(Number)
	if !ok {
		return nil, lesserr.New("expected a number amount")
	}

	delta := amt.Val
	if amt.Unit == "%" || amt.Unit == "" {
		delta /= 100
	}

	return alphaAdjust(col, sign*delta), nil
}

func fnFade(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, lesserr.New("argument count mismatch for fade")
	}

	col, ok := asColor(args[0])
	if !ok {
		return nil, lesserr.New("expected a color argument")
	}

	amt, ok := args[1].(Number)
	if !ok {
		return nil, lesserr.New("expected a number amount")
	}

	alpha := amt.Val
	if amt.Unit == "%" || amt.Unit == "" {
		alpha /= 100
	}

	col.A = clamp(alpha, 0, 1)
	col.HasAlpha = true

	return col, nil
}

func fnTint(c *Compiler, frame *Frame, args []Value) (Value, error) {
	return mixWith(args, Color{R: 255, G: 255, B: 255, A: 1})
}

func fnShade(c *Compiler, frame *Frame, args []Value) (Value, error) {
	return mixWith(args, Color{R: 0, G: 0, B: 0, A: 1})
}

func mixWith(args []Value, other Color) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, lesserr.New("argument count mismatch for tint/shade")
	}

	col, ok := asColor(args[0])
	if !ok {
		return nil, lesserr.New("expected a color argument")
	}

	weight := 0.5

	if len(args) == 2 {
		w, ok := args[1].(Number)
		if !ok {
			return nil, lesserr.New("expected a number weight")
		}

		weight = w.Val
		if w.Unit == "%" || w.Unit == "" {
			weight /= 100
		}
	}

	return mixColors(other, col, weight), nil
}

func fnMix(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, lesserr.New("argument count mismatch for mix")
	}

	a, ok1 := asColor(args[0])
	b, ok2 := asColor(args[1])

	if !ok1 || !ok2 {
		return nil, lesserr.New("mix expects two color arguments")
	}

	weight := 0.5

	if len(args) == 3 {
		w, ok := args[2].(Number)
		if !ok {
			return nil, lesserr.New("expected a number weight")
		}

		weight = w.Val
		if w.Unit == "%" || w.Unit == "" {
			weight /= 100
		}
	}

	return mixColors(a, b, weight), nil
}

func fnContrast(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 4 {
		return nil, lesserr.New("argument count mismatch for contrast")
	}

	col, ok := asColor(args[0])
	if !ok {
		return nil, lesserr.New("expected a color argument")
	}

	dark := Color{R: 0, G: 0, B: 0, A: 1}
	light := Color{R: 255, G: 255, B: 255, A: 1}
	threshold := 0.43

	if len(args) >= 2 {
		if d, ok := asColor(args[1]); ok {
			dark = d
		}
	}

	if len(args) >= 3 {
		if l, ok := asColor(args[2]); ok {
			light = l
		}
	}

	if len(args) == 4 {
		if t, ok := args[3].(Number); ok {
			threshold = t.Val
			if t.Unit == "%" {
				threshold /= 100
			}
		}
	}

	if luma(col) < threshold {
		return light, nil
	}

	return dark, nil
}

// pxPerUnit are the length-unit conversion factors relative to px, per
// spec §4.6.
var pxPerUnit = map[string]float64{
	"px": 1,
	"m":  3779.52755906,
	"cm": 37.79527559,
	"mm": 3.77952756,
	"in": 96,
	"pt": 1.33333333,
	"pc": 16,
}

var lengthUnits = newUnitSet(pxPerUnit)
var timeUnits = newUnitSet(map[string]float64{"s": 1000, "ms": 1})
var angleUnits = newUnitSet(map[string]float64{"deg": 1, "rad": 1, "turn": 1, "grad": 1})

func newUnitSet(m map[string]float64) map[string]bool {
	set := make(map[string]bool, len(m))
	for k := range m {
		set[k] = true
	}

	return set
}

// fnConvert implements unit conversion per spec §4.6: length via px
// factors, time via s/ms, angle via degrees as the hub unit.
func fnConvert(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) != 2 {
		return nil, lesserr.New("argument count mismatch for convert")
	}

	n, ok := args[0].(Number)
	if !ok {
		return nil, lesserr.New("convert expects a number")
	}

	to := stringify(args[1])

	val, err := convertUnit(n.Val, n.Unit, to)
	if err != nil {
		return nil, err
	}

	return Number{Val: val, Unit: to}, nil
}

// convertUnit converts val from one unit to another through the length/
// time/angle conversion tables, and is the single compatibility check
// shared by fnConvert and mathFn2 (same units in, same error out).
func convertUnit(val float64, from, to string) (float64, error) {
	switch {
	case lengthUnits[from] && lengthUnits[to]:
		px := val * pxPerUnit[from]

		return round8(px / pxPerUnit[to]), nil
	case timeUnits[from] && timeUnits[to]:
		ms := val * map[string]float64{"s": 1000, "ms": 1}[from]

		return round8(ms / map[string]float64{"s": 1000, "ms": 1}[to]), nil
	case angleUnits[from] && angleUnits[to]:
		deg, err := toDegrees(val, from)
		if err != nil {
			return 0, err
		}

		result, err := fromDegrees(deg, to)
		if err != nil {
			return 0, err
		}

		return round8(result), nil
	default:
		return 0, lesserr.New("Cannot convert %s to %s", from, to)
	}
}

func toDegrees(v float64, unit string) (float64, error) {
	switch unit {
	case "deg":
		return v, nil
	case "rad":
		return v * 180 / math.Pi, nil
	case "turn":
		return v * 360, nil
	case "grad":
		return v / (400.0 / 360.0), nil
	default:
		return 0, lesserr.New("unknown angle unit %q", unit)
	}
}

func fromDegrees(deg float64, unit string) (float64, error) {
	switch unit {
	case "deg":
		return deg, nil
	case "rad":
		return deg * math.Pi / 180, nil
	case "turn":
		return deg / 360, nil
	case "grad":
		return deg * (400.0 / 360.0), nil
	default:
		return 0, lesserr.New("unknown angle unit %q", unit)
	}
}

func round8(v float64) float64 {
	const mult = 1e8

	return math.Round(v*mult) / mult
}

func fnEscape(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, lesserr.New("argument count mismatch for e")
	}

	return Keyword{Name: stringify(args[0])}, nil
}

// fnSprintf implements the "%"/_sprintf built-in: %s/%d/%a placeholder
// substitution of the remaining arguments, in order.
func fnSprintf(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) < 1 {
		return nil, lesserr.New("argument count mismatch for %%")
	}

	format := stringify(args[0])
	rest := args[1:]

	var b strings.Builder

	argIdx := 0

	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			b.WriteByte(format[i])

			continue
		}

		verb := format[i+1]
		if verb != 's' && verb != 'd' && verb != 'a' {
			b.WriteByte(format[i])

			continue
		}

		if argIdx >= len(rest) {
			return nil, lesserr.New("not enough arguments for %%")
		}

		b.WriteString(stringify(rest[argIdx]))
		argIdx++
		i++
	}

	return QuotedString('"', b.String()), nil
}

// fnDataURI implements data-uri(url) / data-uri(mime, url): base64-embeds
// files smaller than 32 KiB resolvable via an import directory; otherwise
// emits a plain url().
func fnDataURI(c *Compiler, frame *Frame, args []Value) (Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, lesserr.New("argument count mismatch for data-uri")
	}

	var mime, url string

	if len(args) == 2 {
		mime = stringify(args[0])
		url = stringify(args[1])
	} else {
		url = stringify(args[0])
		mime = mimeFromExt(filepath.Ext(url))
	}

	path := c.findImport(url)
	if path == "" {
		return PlainString(fmt.Sprintf("url(%q)", url)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil || len(data) >= 32*1024 {
		return PlainString(fmt.Sprintf("url(%q)", url)), nil
	}

	encoded := base64.StdEncoding.EncodeToString(data)

	return PlainString(fmt.Sprintf("url(\"data:%s;base64,%s\")", mime, encoded)), nil
}

func mimeFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}

