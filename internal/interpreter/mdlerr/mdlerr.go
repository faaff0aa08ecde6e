// Package mdlerr implements §7's error taxonomy as plain Go error values:
// a small closed set of exported struct types wrapped with fmt.Errorf and
// %w where needed, no external errors library, so callers can errors.As
// into the one they expect.
package mdlerr

import (
	"fmt"

	"markdownlang/internal/mdl/source"
)

// WithSpan is implemented by every error below so the executor can attach a
// span on the way out per §7 "Span attachment" when one wasn't set at the
// point of failure.
type WithSpan interface {
	error
	Span() (source.Span, bool)
	SetSpan(source.Span)
}

type base struct {
	sp    source.Span
	hasSp bool
}

func (b *base) Span() (source.Span, bool) {
	return b.sp, b.hasSp
}

func (b *base) SetSpan(sp source.Span) {
	if !b.hasSp {
		b.sp = sp
		b.hasSp = true
	}
}

// TypeError reports a value of the wrong kind was used where another was
// expected.
type TypeError struct {
	base
	Expected string
	Got      string
}

func NewTypeError(expected, got string) *TypeError {
	return &TypeError{Expected: expected, Got: got}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type error: expected %s, got %s", e.Expected, e.Got)
}

// UndefinedVariable reports a lookup that found nothing, hoisted or
// otherwise (§4.3 "NotFound").
type UndefinedVariable struct {
	base
	Name string
}

func NewUndefinedVariable(name string) *UndefinedVariable {
	return &UndefinedVariable{Name: name}
}

func (e *UndefinedVariable) Error() string {
	return fmt.Sprintf("undefined variable '%s'", e.Name)
}

// UndefinedBlock reports a block reference that the registry has no entry
// for.
type UndefinedBlock struct {
	base
	Name string
}

func NewUndefinedBlock(name string) *UndefinedBlock {
	return &UndefinedBlock{Name: name}
}

func (e *UndefinedBlock) Error() string {
	return fmt.Sprintf("undefined block '%s'", e.Name)
}

// ArgumentOutOfBounds reports an out-of-range `#N` reference.
type ArgumentOutOfBounds struct {
	base
	Index int
	Count int
}

func NewArgumentOutOfBounds(index, count int) *ArgumentOutOfBounds {
	return &ArgumentOutOfBounds{Index: index, Count: count}
}

func (e *ArgumentOutOfBounds) Error() string {
	return fmt.Sprintf("argument #%d out of bounds (have %d)", e.Index, e.Count)
}

// NonExhaustiveMatch reports a match with no arm and no otherwise clause
// matching the scrutinee.
type NonExhaustiveMatch struct {
	base
}

func NewNonExhaustiveMatch() *NonExhaustiveMatch { return &NonExhaustiveMatch{} }

func (e *NonExhaustiveMatch) Error() string { return "non-exhaustive match" }

// DivisionByZero reports `/` or `%` with a zero right operand.
type DivisionByZero struct {
	base
	Op string
}

func NewDivisionByZero(op string) *DivisionByZero { return &DivisionByZero{Op: op} }

func (e *DivisionByZero) Error() string { return fmt.Sprintf("division by zero in '%s'", e.Op) }

// NoEntryPoint reports a program with no block to use as its entry.
type NoEntryPoint struct {
	base
	Name string
}

func NewNoEntryPoint(name string) *NoEntryPoint { return &NoEntryPoint{Name: name} }

func (e *NoEntryPoint) Error() string {
	if e.Name == "" {
		return "no entry point: program is empty"
	}
	return fmt.Sprintf("no entry point named '%s'", e.Name)
}

// ImportNotImplemented reports a remote (http/https) import, or an import
// path that escapes the module root (§9 supplemented behavior).
type ImportNotImplemented struct {
	base
	Detail string
}

func NewImportNotImplemented(detail string) *ImportNotImplemented {
	return &ImportNotImplemented{Detail: detail}
}

func (e *ImportNotImplemented) Error() string {
	return fmt.Sprintf("import not implemented: %s", e.Detail)
}

// IoError reports a write failure from Print, or a path or read failure
// while resolving an import (an imported file that fails to parse is
// reported as Custom).
type IoError struct {
	base
	Cause error
}

func NewIoError(cause error) *IoError { return &IoError{Cause: cause} }

func (e *IoError) Error() string { return fmt.Sprintf("io error: %v", e.Cause) }

func (e *IoError) Unwrap() error { return e.Cause }

// StackOverflow reports evaluation or block-invocation depth exceeding the
// fixed cap (§4.4).
type StackOverflow struct {
	base
	Depth int
}

func NewStackOverflow(depth int) *StackOverflow { return &StackOverflow{Depth: depth} }

func (e *StackOverflow) Error() string { return fmt.Sprintf("stack overflow at depth %d", e.Depth) }

// Custom carries a domain message that doesn't fit the closed taxonomy
// above (§7 "Custom(message)").
type Custom struct {
	base
	Message string
}

func NewCustom(msg string) *Custom { return &Custom{Message: msg} }

func (e *Custom) Error() string { return e.Message }
