// Package errs implements the typesetting engine's error taxonomy: a
// small set of named kinds, each carrying its own recovery policy — an
// error code plus a human-readable message, unwrappable via errors.As.
package errs

import (
	"errors"
	"fmt"
)

// Kind enumerates the error kinds the typesetting engine distinguishes.
// Each has a fixed recovery policy documented on the constant itself.
type Kind int

const (
	// NoError is the zero value; KindOf(nil) reports it.
	NoError Kind = iota

	// InputInvariantViolation marks a programmer error: a unit built with
	// more than one discriminant, a Translated unit missing its font or
	// style, or a unicode string of length != 1 for a translated unit.
	// Fatal for the paragraph it occurs in — callers abort that paragraph
	// and move on to the next one.
	InputInvariantViolation

	// FontMappingMissing marks a translated codepoint with no mapped
	// font. Callers filter the offending unit out and continue.
	FontMappingMissing

	// LayoutInfeasible marks a ScaleSearch that exhausted its range
	// without finding a fit, even after box expansion and English-break
	// relaxation. Callers commit the last attempted layout anyway.
	LayoutInfeasible

	// PreScaleFailure marks a paragraph whose preprocess pass failed.
	// Callers fall back to optimal_scale = 1.0 and continue.
	PreScaleFailure

	// OverlapAdjustFailure marks a failure of the per-page overlap
	// correction. Callers skip that page's correction and continue
	// rendering.
	OverlapAdjustFailure
)

func (k Kind) String() string {
	switch k {
	case NoError:
		return "no-error"
	case InputInvariantViolation:
		return "input-invariant-violation"
	case FontMappingMissing:
		return "font-mapping-missing"
	case LayoutInfeasible:
		return "layout-infeasible"
	case PreScaleFailure:
		return "pre-scale-failure"
	case OverlapAdjustFailure:
		return "overlap-adjust-failure"
	}
	return "undefined-error"
}

// TypesetError is an error with an associated Kind and a human-readable
// message.
type TypesetError interface {
	error
	ErrorKind() Kind
}

type typesetError struct {
	error
	kind Kind
}

func (e typesetError) Unwrap() error { return e.error }

func (e typesetError) Error() string {
	return fmt.Sprintf("[%s] %v", e.kind, e.error)
}

func (e typesetError) ErrorKind() Kind {
	return e.kind
}

var _ TypesetError = typesetError{}

// New creates an error of the given kind with a formatted message.
func New(kind Kind, format string, v ...any) error {
	return typesetError{errors.New(fmt.Sprintf(format, v...)), kind}
}

// Wrap attaches a Kind to an existing error, preserving it in the chain.
func Wrap(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return typesetError{err, kind}
}

// KindOf returns the Kind associated with err, NoError if err is nil, or
// InputInvariantViolation if err carries no Kind.
func KindOf(err error) Kind {
	if err == nil {
		return NoError
	}
	var te TypesetError
	if errors.As(err, &te) {
		return te.ErrorKind()
	}
	return InputInvariantViolation
}

// Is reports whether err's chain carries the given Kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
