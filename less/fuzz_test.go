package less

import (
	"math"
	"testing"
)

// FuzzReduce_Idempotent implements spec §8 invariant 1: for values that do
// not reference the mutable environment, reduce(reduce(v)) == reduce(v).
func FuzzReduce_Idempotent(f *testing.F) {
	f.Add(10.0, "px", "red")
	f.Add(0.0, "", "true")
	f.Add(-3.25, "%", "blue")

	f.Fuzz(func(t *testing.T, val float64, unit, keyword string) {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			t.Skip("not finite")
		}

		c := &Compiler{}
		frame := NewFrame(nil)

		v := List{Delim: " ", Items: []Value{
			Number{Val: val, Unit: unit},
			Keyword{Name: keyword},
		}}

		once, err := c.reduce(frame, v, false)
		if err != nil {
			t.Fatalf("first reduce: %v", err)
		}

		twice, err := c.reduce(frame, once, false)
		if err != nil {
			t.Fatalf("second reduce: %v", err)
		}

		if !ValuesEqual(once, twice) {
			t.Errorf("reduce not idempotent: reduce(v)=%v, reduce(reduce(v))=%v", once, twice)
		}
	})
}

// FuzzConvertUnit_RoundTrip implements spec §8 invariant 4: for any two
// units in the same family, converting out and back returns the original
// value within 1e-7 relative error.
func FuzzConvertUnit_RoundTrip(f *testing.F) {
	units := []string{"px", "cm", "mm", "in", "pt", "pc", "m"}

	f.Add(10.0, 0, 1)
	f.Add(0.0, 2, 5)
	f.Add(-123.456, 3, 0)

	f.Fuzz(func(t *testing.T, x float64, i, j int) {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Skip("not finite")
		}

		u1 := units[((i%len(units))+len(units))%len(units)]
		u2 := units[((j%len(units))+len(units))%len(units)]

		forward, err := convertUnit(x, u1, u2)
		if err != nil {
			t.Fatalf("convertUnit(%v, %q, %q): %v", x, u1, u2, err)
		}

		back, err := convertUnit(forward, u2, u1)
		if err != nil {
			t.Fatalf("convertUnit(%v, %q, %q): %v", forward, u2, u1, err)
		}

		if math.Abs(x) < 1e-9 {
			if math.Abs(back) > 1e-7 {
				t.Errorf("round trip of ~0 did not return to ~0, got %v", back)
			}

			return
		}

		rel := math.Abs(back-x) / math.Abs(x)
		if rel > 1e-7 {
			t.Errorf("round trip %v -(%s->%s)-> %v exceeds 1e-7 relative error (rel=%v)", x, u1, u2, back, rel)
		}
	})
}
