package less

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertUnit_LengthFamily(t *testing.T) {
	got, err := convertUnit(96, "px", "in")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-7)
}

func TestConvertUnit_IncompatibleFamiliesError(t *testing.T) {
	_, err := convertUnit(5, "%", "px")
	require.Error(t, err)
	assert.Equal(t, "Cannot convert % to px", err.Error())

	_, err = convertUnit(10, "px", "s")
	require.Error(t, err)
	assert.Equal(t, "Cannot convert px to s", err.Error())
}

func TestFnConvert_ScenarioS4Second(t *testing.T) {
	c := &Compiler{}

	_, err := fnConvert(c, NewFrame(nil), []Value{
		Number{Val: 10, Unit: "px"},
		PlainString("s"),
	})
	require.Error(t, err)
	assert.Equal(t, "Cannot convert px to s", err.Error())
}

func TestFnConvert_SameFamilyRoundTrips(t *testing.T) {
	c := &Compiler{}

	v, err := fnConvert(c, NewFrame(nil), []Value{
		Number{Val: 1, Unit: "in"},
		PlainString("px"),
	})
	require.NoError(t, err)

	n, ok := v.(Number)
	require.True(t, ok)
	assert.InDelta(t, 96, n.Val, 1e-7)
	assert.Equal(t, "px", n.Unit)
}

// TestMathFn2_IncompatibleUnitsError implements spec §8 S4's first case:
// max(10px, 5%) must fail instead of silently picking the first operand's
// unit.
func TestMathFn2_IncompatibleUnitsError(t *testing.T) {
	c := &Compiler{}

	fn := builtinFunctions["max"]

	_, err := fn(c, NewFrame(nil), []Value{
		Number{Val: 10, Unit: "px"},
		Number{Val: 5, Unit: "%"},
	})
	require.Error(t, err)
	assert.Equal(t, "Cannot convert % to px", err.Error())
}

func TestMathFn2_ConvertsCompatibleUnits(t *testing.T) {
	c := &Compiler{}

	fn := builtinFunctions["max"]

	v, err := fn(c, NewFrame(nil), []Value{
		Number{Val: 1, Unit: "in"},
		Number{Val: 50, Unit: "px"},
	})
	require.NoError(t, err)

	n, ok := v.(Number)
	require.True(t, ok)
	assert.Equal(t, "in", n.Unit)
	assert.InDelta(t, 1, n.Val, 1e-7)
}

func TestMathFn2_UnitlessOperandTakesOtherUnit(t *testing.T) {
	c := &Compiler{}

	fn := builtinFunctions["min"]

	v, err := fn(c, NewFrame(nil), []Value{
		Number{Val: 10, Unit: ""},
		Number{Val: 5, Unit: "px"},
	})
	require.NoError(t, err)

	n, ok := v.(Number)
	require.True(t, ok)
	assert.Equal(t, "px", n.Unit)
	assert.InDelta(t, 5, n.Val, 1e-9)
}
