// Package accrual computes simple interest accrued on invoice advances.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/formula"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/shared"
)

// DaysInYear is the day-count basis (actual/365).
const DaysInYear = 365

var basis = decimal.NewFromInt(100 * DaysInYear)

// Days returns the calendar days in [start, end). Only the dates matter;
// times of day and locations are ignored.
func Days(start, end time.Time) int {
	s := civil(start)
	e := civil(end)
	return int(e.Sub(s).Hours() / 24)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Accrue returns principal * (annualRatePercent/100) * (days/365), with
// days counted over [start, end).
func Accrue(principal, annualRatePercent decimal.Decimal, start, end time.Time) (decimal.Decimal, error) {
	if principal.IsNegative() {
		return decimal.Zero, &shared.InputError{Field: "principal", Reason: "is negative"}
	}
	if annualRatePercent.IsNegative() {
		return decimal.Zero, &shared.InputError{Field: "annual rate", Reason: "is negative"}
	}
	days := Days(start, end)
	if days <= 0 {
		return decimal.Zero, &shared.DateRangeError{Start: start, End: end}
	}
	interest := principal.Mul(annualRatePercent).Mul(decimal.NewFromInt(int64(days)))
	return interest.DivRound(basis, formula.DivisionScale), nil
}

// ForAdvance accrues interest on an advance from its start to repayment,
// or to its deadline while still open.
func ForAdvance(a model.Advance) (decimal.Decimal, error) {
	return Accrue(a.Principal, a.Rate, a.Start, a.End())
}
