// Package lesserr implements the single error kind the evaluator raises:
// [ParserError]. It carries a message, an optional reference to the source
// text being compiled, an optional byte offset into that source, and
// derives the offending line and its text on demand.
//
// There is no recovery path: every trigger listed in spec §7 (undefined
// variable, undefined mixin, infinite variable recursion, divide by zero,
// unknown operator for the operand types, color coercion failure, unit
// conversion between incompatible kinds, argument count mismatch, unknown
// value/block type) raises a *ParserError that unwinds to the caller of
// Compile.
package lesserr

import (
	"fmt"
	"log/slog"
	"strings"
)

// Source is a reference to the text being compiled, shared by every
// ParserError raised while compiling it.
type Source struct {
	Name string // file path, or "" for in-memory input
	Text string
}

// ParserError is the evaluator's single error kind (spec §7).
type ParserError struct {
	Message string
	Source  *Source
	// Offset is the byte offset into Source.Text this error refers to, or
	// -1 if no location is attached. Only parse errors get a location
	// (via At); errors raised while compiling keep -1 and no Source.
	Offset int

	attrs []slog.Attr
}

// New creates a ParserError with no location information attached.
func New(format string, args ...any) *ParserError {
	return &ParserError{Message: fmt.Sprintf(format, args...), Offset: -1}
}

// At returns a copy of e with the given source and offset attached. A
// negative offset leaves the error without location info, matching the
// "no source offset is active" case in spec §7.
func (e *ParserError) At(src *Source, offset int) *ParserError {
	cp := *e
	cp.Source = src
	cp.Offset = offset

	return &cp
}

// With returns a copy of e carrying additional structured logging
// attributes.
func (e *ParserError) With(attrs ...slog.Attr) *ParserError {
	cp := *e
	cp.attrs = append(append([]slog.Attr{}, e.attrs...), attrs...)

	return &cp
}

// Line returns the 1-based source line the error refers to, or 0 if no
// location is attached.
func (e *ParserError) Line() int {
	if e.Source == nil || e.Offset < 0 || e.Offset > len(e.Source.Text) {
		return 0
	}

	return 1 + strings.Count(e.Source.Text[:e.Offset], "\n")
}

// Culprit returns the full text of the offending source line, or "" if no
// location is attached.
func (e *ParserError) Culprit() string {
	if e.Source == nil || e.Offset < 0 || e.Offset > len(e.Source.Text) {
		return ""
	}

	text := e.Source.Text
	start := strings.LastIndexByte(text[:e.Offset], '\n') + 1

	end := strings.IndexByte(text[e.Offset:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end += e.Offset
	}

	return text[start:end]
}

// Error implements the error interface.
func (e *ParserError) Error() string {
	if e.Source == nil || e.Offset < 0 {
		return e.Message
	}

	name := e.Source.Name
	if name == "" {
		name = "<input>"
	}

	return fmt.Sprintf("%s: %s:%d: %s", e.Message, name, e.Line(), e.Culprit())
}

// LogValue implements slog.LogValuer for structured logging.
func (e *ParserError) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)
	attrs = append(attrs, slog.String("message", e.Message))

	if e.Source != nil && e.Offset >= 0 {
		attrs = append(attrs,
			slog.Int("line", e.Line()),
			slog.String("culprit", e.Culprit()),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}
