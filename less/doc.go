// Package less implements the evaluator core of a LESS-to-CSS compiler:
// the value model, environment stack, reducer, expression evaluator, mixin
// resolver, block compiler, and built-in function library that together
// turn a parsed LESS abstract tree into a tree of CSS rules ready for
// textual emission.
//
// # Pipeline
//
// A [Compiler] owns one compilation: it parses LESS source with
// [Compiler.Compile] (via the internal lexer/parser), walks the resulting
// [*Block] tree with the block compiler, resolving variables and mixins
// against an [*Frame] stack, reducing [Value] trees along the way, and
// finally hands the resulting [*OutputBlock] tree to a [Formatter] to
// produce CSS text.
//
// # Philosophy
//
// Every value flowing through the evaluator is a [Value]: a small closed
// set of concrete types (Number, Color, RawColor, Keyword, String, List,
// Function, Expression, Variable, Interpolate, Escape, Unary) satisfying
// the [Value] interface, dispatched with ordinary Go type switches instead
// of the tagged-array representation a dynamically typed source language
// would use. No parser generator is used for the LESS grammar — the
// evaluator is the point of this module, so the parser
// (internal/lessparse) stays a plain hand-written recursive-descent
// design.
package less
