package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Advance is a short-term bank financing drawn against an invoice
// (anticipo fatture). Interest accrues from Start until Repaid, or until
// Deadline while the advance is still open.
type Advance struct {
	ClientID  string
	Invoice   string
	Bank      string
	Principal decimal.Decimal
	Rate      decimal.Decimal // annual, percent
	Start     time.Time
	Deadline  time.Time
	Repaid    *time.Time
}

// End returns the last (exclusive) day of the accrual window.
func (a Advance) End() time.Time {
	if a.Repaid != nil {
		return *a.Repaid
	}
	return a.Deadline
}
