// Package template computes the final value of every line of a
// reclassification template.
//
// A line without a formula is its signed base amount. A line with a formula
// is evaluated after every line it references; references resolve first
// against other lines, then against ledger totals. Cycles, unknown codes and
// divisions by zero fail the whole evaluation: no partial statement is ever
// returned.
package template

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/ledger"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/shared"
)

// Evaluate computes the statement for lines. Neither argument is modified.
func Evaluate(lines []model.TemplateLine, ledgerTotals ledger.Totals) (model.Statement, error) {
	g, err := build(lines, ledgerTotals, true)
	if err != nil {
		return model.Statement{}, err
	}
	order, err := g.order()
	if err != nil {
		return model.Statement{}, err
	}

	values := make([]decimal.Decimal, len(lines))
	for _, u := range order {
		line := lines[u]
		expr := g.exprs[u]
		if expr == nil {
			values[u] = line.Signed()
			continue
		}
		v, err := expr.Eval(func(code string) (decimal.Decimal, error) {
			if j, ok := g.index[code]; ok {
				return values[j], nil
			}
			if t, ok := ledgerTotals[code]; ok {
				return t, nil
			}
			return decimal.Zero, &shared.ReferenceError{Code: code}
		})
		if err != nil {
			return model.Statement{}, shared.WithLine(err, line.Code)
		}
		values[u] = v
	}

	stmt := model.NewStatement()
	for i, l := range lines {
		stmt.Set(l.Code, values[i])
	}
	return stmt, nil
}

// Order returns the line codes in evaluation order. References to codes
// that are not lines are ignored.
func Order(lines []model.TemplateLine) ([]string, error) {
	g, err := build(lines, nil, false)
	if err != nil {
		return nil, err
	}
	order, err := g.order()
	if err != nil {
		return nil, err
	}
	codes := make([]string, len(order))
	for i, u := range order {
		codes[i] = lines[u].Code
	}
	return codes, nil
}

// Apply returns a copy of lines with Computed taken from stmt. This is the
// only place the cached amount is derived.
func Apply(lines []model.TemplateLine, stmt model.Statement) []model.TemplateLine {
	out := make([]model.TemplateLine, len(lines))
	for i, l := range lines {
		if v, ok := stmt.Get(l.Code); ok {
			l.Computed = v
		}
		out[i] = l
	}
	return out
}
