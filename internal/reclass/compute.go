// Package reclass runs the full reclassification pipeline: trial balance to
// account totals, account totals to statement-line totals, template
// evaluation, and indicators over the designated CE and SP statements.
package reclass

import (
	"errors"

	"github.com/cleared-dev/reclass/internal/ledger"
	"github.com/cleared-dev/reclass/internal/mapping"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/shared"
	"github.com/cleared-dev/reclass/internal/template"
)

// Input is everything one evaluation reads.
type Input struct {
	Scope      model.Scope
	Rows       []model.TrialBalanceRow
	Mappings   []model.AccountMapping
	Lines      []model.TemplateLine
	AllowEmpty bool // treat an empty scope as an empty ledger instead of an error
}

// Result is one computed statement with the intermediate totals that
// produced it.
type Result struct {
	Scope     model.Scope
	Run       string
	Statement model.Statement
	Lines     []model.TemplateLine // copies with Computed filled
	Ledger    ledger.Breakdown     // account totals, overall and per period
	Mapped    ledger.Totals        // statement-line code totals from mappings
	Unmapped  []string             // accounts with a total but no mapping
}

// Compute is the pure pipeline behind Service.Build.
func Compute(in Input) (Result, error) {
	breakdown, err := ledger.AggregateByPeriod(in.Rows, in.Scope)
	if err != nil {
		if !in.AllowEmpty || !errors.Is(err, shared.ErrScopeEmpty) {
			return Result{}, err
		}
		breakdown = ledger.Breakdown{Total: ledger.Totals{}}
	}

	resolved, err := mapping.Resolve(in.Mappings, in.Scope)
	if err != nil {
		return Result{}, err
	}
	mapped := resolved.Totals(breakdown.Total)

	stmt, err := template.Evaluate(in.Lines, referenceTotals(mapped, breakdown.Total))
	if err != nil {
		return Result{}, err
	}

	return Result{
		Scope:     in.Scope,
		Statement: stmt,
		Lines:     template.Apply(in.Lines, stmt),
		Ledger:    breakdown,
		Mapped:    mapped,
		Unmapped:  resolved.Unmapped(breakdown.Total),
	}, nil
}

// referenceTotals is what formulas may reference besides other lines:
// mapped statement-line totals, then raw account totals for codes no
// mapping produced.
func referenceTotals(mapped, accounts ledger.Totals) ledger.Totals {
	out := mapped.Clone()
	for code, v := range accounts {
		if _, ok := out[code]; !ok {
			out[code] = v
		}
	}
	return out
}
