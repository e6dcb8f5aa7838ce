package model

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/period"
)

// TrialBalanceRow is one imported trial-balance line. Rows are immutable
// once imported.
type TrialBalanceRow struct {
	ClientID    string
	Period      period.Period
	Account     string // chart-of-accounts code (mastrino)
	Description string
	Amount      decimal.Decimal // signed
	Note        string
}

// RowKey identifies a trial-balance row.
type RowKey struct {
	ClientID    string
	Period      period.Period
	Account     string
	Description string
}

// Key returns the row identity (client, month, year, account, description).
func (r TrialBalanceRow) Key() RowKey {
	return RowKey{
		ClientID:    r.ClientID,
		Period:      r.Period,
		Account:     r.Account,
		Description: r.Description,
	}
}
