package less_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitbrain/lessgo/internal/lessparse"
	"github.com/splitbrain/lessgo/less"
)

func newCompiler(t *testing.T, opts ...less.Option) *less.Compiler {
	t.Helper()

	c, err := less.NewCompiler(lessparse.New(), opts...)
	require.NoError(t, err)

	return c
}

func TestCompile_SimpleRuleset(t *testing.T) {
	c := newCompiler(t)

	css, err := c.Compile(".foo { color: red; }", "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, ".foo")
	assert.Contains(t, css, "color: red")
}

func TestCompile_VariableSubstitution(t *testing.T) {
	c := newCompiler(t)

	css, err := c.Compile("@width: 10px;\n.foo { width: @width; }", "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "width: 10px")
}

func TestCompile_NestedRulesetWithAmpersand(t *testing.T) {
	c := newCompiler(t)

	css, err := c.Compile(".foo { &:hover { color: blue; } }", "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, ".foo:hover")
}

func TestCompile_MixinCallInlinesDeclarations(t *testing.T) {
	c := newCompiler(t)

	src := `
.bordered() {
  border: 1px solid black;
}
.foo {
  .bordered();
}
`
	css, err := c.Compile(src, "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "border: 1px solid black")
}

func TestCompile_MixinGuardSelectsMatchingBlock(t *testing.T) {
	c := newCompiler(t)

	src := `
.mixin(@a) when (@a > 5) {
  result: big;
}
.mixin(@a) when (@a =< 5) {
  result: small;
}
.foo {
  .mixin(10);
}
.bar {
  .mixin(1);
}
`
	css, err := c.Compile(src, "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "result: big")
	assert.Contains(t, css, "result: small")
}

func TestCompile_UndefinedMixinReturnsError(t *testing.T) {
	c := newCompiler(t)

	_, err := c.Compile(".foo { .missing(); }", "t.less")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undefined")
}

func TestCompile_MediaQueryNesting(t *testing.T) {
	c := newCompiler(t)

	src := `
@media screen {
  .foo { color: red; }
}
`
	css, err := c.Compile(src, "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "@media screen")
	assert.Contains(t, css, ".foo")
}

func TestCompile_ArithmeticExpression(t *testing.T) {
	c := newCompiler(t)

	css, err := c.Compile(".foo { width: 2px + 3px; }", "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "width: 5px")
}

func TestCompile_ImportsDisabledPassesThrough(t *testing.T) {
	c := newCompiler(t, less.WithImportsDisabled())

	css, err := c.Compile(`@import "missing.less";`, "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "import")
}

func TestCompile_WithVariablesOptionSeedsRootFrame(t *testing.T) {
	c := newCompiler(t, less.WithVariables(map[string]less.Value{
		"@theme": less.PlainString("dark"),
	}))

	css, err := c.Compile(".foo { theme: @theme; }", "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "theme: dark")
}

func TestCompile_CompressedFormatterOmitsWhitespace(t *testing.T) {
	c := newCompiler(t, less.WithFormatter("compressed"))

	css, err := c.Compile(".foo { color: red; }", "t.less")
	require.NoError(t, err)
	assert.NotContains(t, css, "\n")
}

func TestCompiler_SetFormatterRejectsUnknownName(t *testing.T) {
	c := newCompiler(t)

	err := c.SetFormatter("nonexistent")
	assert.Error(t, err)
}

func TestCompiler_RegisterFunctionOverridesBuiltin(t *testing.T) {
	c := newCompiler(t)

	c.RegisterFunction("percentage", func(cc *less.Compiler, frame *less.Frame, args []less.Value) (less.Value, error) {
		return less.PlainString("overridden"), nil
	})

	css, err := c.Compile(".foo { width: percentage(0.5); }", "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "overridden")
}

func TestCompiler_SetVariablesPrefixesAtSign(t *testing.T) {
	c := newCompiler(t)

	c.SetVariables(map[string]less.Value{"width": less.Number{Val: 5, Unit: "px"}})

	css, err := c.Compile(".foo { width: @width; }", "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "width: 5px")
}

func TestCompiler_CheckedCompileSkipsWhenOutputNewer(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.less")
	out := filepath.Join(dir, "out.css")

	require.NoError(t, os.WriteFile(in, []byte(".foo { color: red; }"), 0o644))

	c := newCompiler(t)

	changed, err := c.CheckedCompile(in, out)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = c.CheckedCompile(in, out)
	require.NoError(t, err)
	assert.False(t, changed, "second call should be a no-op since output is now newer")
}

func TestCompiler_CachedCompileDetectsStaleness(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.less")

	require.NoError(t, os.WriteFile(in, []byte(".foo { color: red; }"), 0o644))

	c := newCompiler(t)

	rec, err := c.CachedCompile(in, nil, false)
	require.NoError(t, err)
	assert.True(t, rec.Updated)
	assert.NotEmpty(t, rec.Compiled)

	rec2, err := c.CachedCompile(in, rec, false)
	require.NoError(t, err)
	assert.False(t, rec2.Updated, "cache should be a hit when nothing changed")
}

// TestCompile_ScenarioS3_GuardMismatch implements spec §8 S3: a call whose
// arguments match no guarded mixin definition is reported the same as an
// undefined mixin, with the exact message text spec.md mandates.
func TestCompile_ScenarioS3_GuardMismatch(t *testing.T) {
	c := newCompiler(t)

	src := `
.flipped(@x) when (@x =< 10) {
  rule: value;
}
.selector {
  .flipped(12);
}
`
	_, err := c.Compile(src, "t.less")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), ".flipped is undefined"),
		"error %q should start with the mandated %q", err.Error(), ".flipped is undefined")
}

// TestCompile_ScenarioS4_UnitConversionFailure implements spec §8 S4: both
// an incompatible-unit two-operand math call and an incompatible convert()
// call fail with the exact "Cannot convert X to Y" message.
func TestCompile_ScenarioS4_UnitConversionFailure(t *testing.T) {
	c := newCompiler(t)

	_, err := c.Compile(".s { max: max(10px, 5%); }", "t.less")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot convert % to px")

	c2 := newCompiler(t)

	_, err = c2.Compile(".s { convert: convert(10px, s); }", "t.less")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot convert px to s")
}

// TestCompiler_ScenarioS5_RegisterAndUnregisterFunction implements spec §8
// S5: a registered user function shadows the call, and unregistering it
// restores the prior (here, undefined-function) behavior for the same
// input.
func TestCompiler_ScenarioS5_RegisterAndUnregisterFunction(t *testing.T) {
	c := newCompiler(t)

	c.RegisterFunction("add-two", func(cc *less.Compiler, frame *less.Frame, args []less.Value) (less.Value, error) {
		a, ok1 := args[0].(less.Number)
		b, ok2 := args[1].(less.Number)
		if !ok1 || !ok2 {
			return nil, assert.AnError
		}

		return less.Number{Val: a.Val + b.Val}, nil
	})

	css, err := c.Compile(".x { r: add-two(10, 20); }", "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "r: 30")

	c.UnregisterFunction("add-two")

	css, err = c.Compile(".x { r: add-two(10, 20); }", "t.less")
	require.NoError(t, err)
	assert.Contains(t, css, "add-two(10,20)")
}

func TestCompiler_AllParsedFilesTracksCanonicalName(t *testing.T) {
	c := newCompiler(t)

	_, err := c.Compile(".foo {}", "t.less")
	require.NoError(t, err)

	files := c.AllParsedFiles()
	assert.Len(t, files, 1)
}
