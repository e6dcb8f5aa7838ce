package shared

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinels(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{&ScopeError{ClientID: "c1"}, ErrScopeEmpty},
		{&ConflictError{Account: "6010", Code: "A.1", OtherCode: "A.2"}, ErrConflictingMapping},
		{&CycleError{Path: []string{"X", "Y", "X"}}, ErrCyclicFormula},
		{&ReferenceError{Code: "Z"}, ErrUnresolvedReference},
		{&ReferenceError{Code: "Z", Ambiguous: true}, ErrAmbiguousReference},
		{&DivisionError{Line: "R1"}, ErrDivisionByZero},
		{&ParseError{Pos: 3, Msg: "unexpected )"}, ErrParse},
		{&InputError{Field: "sign", Reason: "must be + or -"}, ErrInvalidInput},
		{&DateRangeError{}, ErrInvalidDateRange},
	}
	for _, tt := range tests {
		wrapped := fmt.Errorf("evaluating: %w", tt.err)
		assert.ErrorIs(t, wrapped, tt.want, "%T", tt.err)
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "reclass: cyclic formula: X -> Y -> X", (&CycleError{Path: []string{"X", "Y", "X"}}).Error())
	assert.Equal(t, `reclass: unresolved reference: "Z" in line "A"`, (&ReferenceError{Line: "A", Code: "Z"}).Error())
	assert.Equal(t, `reclass: division by zero in line "R1"`, (&DivisionError{Line: "R1"}).Error())
	assert.Contains(t, (&ConflictError{Account: "6010", Code: "A.1", OtherCode: "A.2"}).Error(), `"6010"`)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "reclass: invalid date range: 2024-01-01 is not after 2024-01-01", (&DateRangeError{Start: start, End: start}).Error())
}

func TestWithLine(t *testing.T) {
	err := WithLine(fmt.Errorf("eval: %w", &DivisionError{}), "R1")
	var divErr *DivisionError
	require.True(t, errors.As(err, &divErr))
	assert.Equal(t, "R1", divErr.Line)

	err = WithLine(&ReferenceError{Code: "Z"}, "A")
	var refErr *ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "A", refErr.Line)
	assert.Equal(t, "Z", refErr.Code)

	// An existing line is kept.
	err = WithLine(&ParseError{Line: "B", Pos: 1}, "A")
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "B", parseErr.Line)

	other := errors.New("boom")
	assert.Same(t, other, WithLine(other, "A"))
}
