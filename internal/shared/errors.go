// Package shared holds the error taxonomy used by every engine package.
//
// Each structured error unwraps to one sentinel, so callers can branch with
// errors.Is and still recover context (offending code, cycle path, line)
// with errors.As.
package shared

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrScopeEmpty indicates no trial-balance row matched the requested scope.
	ErrScopeEmpty = errors.New("reclass: no rows match scope")
	// ErrConflictingMapping indicates one account mapped to two statement lines.
	ErrConflictingMapping = errors.New("reclass: conflicting account mapping")
	// ErrCyclicFormula indicates a formula depends on itself.
	ErrCyclicFormula = errors.New("reclass: cyclic formula")
	// ErrUnresolvedReference indicates a formula names an unknown code.
	ErrUnresolvedReference = errors.New("reclass: unresolved reference")
	// ErrAmbiguousReference indicates an unqualified code exists in both CE and SP.
	ErrAmbiguousReference = errors.New("reclass: ambiguous reference")
	// ErrDivisionByZero indicates a formula divided by zero.
	ErrDivisionByZero = errors.New("reclass: division by zero")
	// ErrInvalidDateRange indicates end is not after start.
	ErrInvalidDateRange = errors.New("reclass: invalid date range")
	// ErrInvalidInput indicates a malformed value object.
	ErrInvalidInput = errors.New("reclass: invalid input")
	// ErrParse indicates malformed formula syntax.
	ErrParse = errors.New("reclass: malformed formula")
)

// ScopeError reports an empty aggregation scope.
type ScopeError struct {
	ClientID string
	Periods  []string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("%v: client %q periods [%s]", ErrScopeEmpty, e.ClientID, strings.Join(e.Periods, " "))
}

func (e *ScopeError) Unwrap() error { return ErrScopeEmpty }

// ConflictError reports an account assigned to two statement-line codes.
type ConflictError struct {
	Account   string
	Code      string
	OtherCode string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: account %q maps to both %q and %q", ErrConflictingMapping, e.Account, e.Code, e.OtherCode)
}

func (e *ConflictError) Unwrap() error { return ErrConflictingMapping }

// CycleError reports a formula cycle. Path starts and ends with the same code.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCyclicFormula, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicFormula }

// ReferenceError reports a code that could not be resolved (or resolved twice).
type ReferenceError struct {
	Line      string
	Code      string
	Ambiguous bool
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%v: %q in %s", e.Unwrap(), e.Code, lineLabel(e.Line))
}

func (e *ReferenceError) Unwrap() error {
	if e.Ambiguous {
		return ErrAmbiguousReference
	}
	return ErrUnresolvedReference
}

// DivisionError reports a division by zero while evaluating Line.
type DivisionError struct {
	Line string
}

func (e *DivisionError) Error() string {
	return fmt.Sprintf("%v in %s", ErrDivisionByZero, lineLabel(e.Line))
}

func (e *DivisionError) Unwrap() error { return ErrDivisionByZero }

// ParseError reports a syntax error at byte offset Pos of a formula.
type ParseError struct {
	Line string
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v in %s at offset %d: %s", ErrParse, lineLabel(e.Line), e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// InputError reports an invalid field on an input value.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// DateRangeError reports an accrual window whose end is not after its start.
type DateRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *DateRangeError) Error() string {
	return fmt.Sprintf("%v: %s is not after %s", ErrInvalidDateRange, e.End.Format(time.DateOnly), e.Start.Format(time.DateOnly))
}

func (e *DateRangeError) Unwrap() error { return ErrInvalidDateRange }

// WithLine attaches a line (or indicator) identifier to the structured
// errors produced while evaluating a formula. Errors that already carry a
// line, or carry none, are returned unchanged.
func WithLine(err error, line string) error {
	var (
		refErr   *ReferenceError
		divErr   *DivisionError
		parseErr *ParseError
	)
	switch {
	case errors.As(err, &refErr) && refErr.Line == "":
		cp := *refErr
		cp.Line = line
		return &cp
	case errors.As(err, &divErr) && divErr.Line == "":
		return &DivisionError{Line: line}
	case errors.As(err, &parseErr) && parseErr.Line == "":
		cp := *parseErr
		cp.Line = line
		return &cp
	}
	return err
}

func lineLabel(line string) string {
	if line == "" {
		return "formula"
	}
	return fmt.Sprintf("line %q", line)
}
