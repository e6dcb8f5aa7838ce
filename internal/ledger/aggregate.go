// Package ledger sums trial-balance rows by account code over a scope.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/period"
	"github.com/cleared-dev/reclass/internal/shared"
)

// Totals maps an account (or statement-line) code to a summed amount.
// Codes with no contributing row are absent, never zero-filled.
type Totals map[string]decimal.Decimal

// Sum returns the total of every value.
func (t Totals) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range t {
		sum = sum.Add(v)
	}
	return sum
}

// Codes returns the codes in sorted order.
func (t Totals) Codes() []string {
	codes := make([]string, 0, len(t))
	for c := range t {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Clone returns an independent copy.
func (t Totals) Clone() Totals {
	out := make(Totals, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// PeriodTotals holds the totals of one period within a breakdown.
type PeriodTotals struct {
	Period period.Period
	Totals Totals
}

// Breakdown is a multi-period aggregation: the combined totals plus one
// entry per period that had rows, in chronological order.
type Breakdown struct {
	Total   Totals
	Periods []PeriodTotals
}

// Aggregate sums rows of the scope's client whose period is in scope, by
// account code. It returns *shared.ScopeError when nothing matches.
func Aggregate(rows []model.TrialBalanceRow, scope model.Scope) (Totals, error) {
	b, err := AggregateByPeriod(rows, scope)
	if err != nil {
		return nil, err
	}
	return b.Total, nil
}

// AggregateByPeriod is Aggregate that also keeps a per-period breakdown.
func AggregateByPeriod(rows []model.TrialBalanceRow, scope model.Scope) (Breakdown, error) {
	total := make(Totals)
	byPeriod := make(map[period.Period]Totals)
	var order []period.Period

	for _, row := range rows {
		if row.ClientID != scope.ClientID || !scope.Contains(row.Period) {
			continue
		}
		pt, seen := byPeriod[row.Period]
		if !seen {
			pt = make(Totals)
			byPeriod[row.Period] = pt
			order = append(order, row.Period)
		}
		pt[row.Account] = pt[row.Account].Add(row.Amount)
		total[row.Account] = total[row.Account].Add(row.Amount)
	}

	if len(order) == 0 {
		return Breakdown{}, &shared.ScopeError{ClientID: scope.ClientID, Periods: scope.PeriodStrings()}
	}

	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })
	b := Breakdown{Total: total, Periods: make([]PeriodTotals, len(order))}
	for i, p := range order {
		b.Periods[i] = PeriodTotals{Period: p, Totals: byPeriod[p]}
	}
	return b, nil
}
