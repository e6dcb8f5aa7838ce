// Package indicator evaluates user-defined financial ratios over a computed
// income statement (CE) and balance sheet (SP).
//
// References may be qualified as CE:code or SP:code (or [CE:code] when the
// code needs brackets). An unqualified code is looked up in both statements
// and must exist in exactly one. Indicators never reference each other, so
// every definition is evaluated in a single pass.
package indicator

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/formula"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/shared"
)

const (
	// PrefixCE qualifies a reference to the income statement.
	PrefixCE = "CE:"
	// PrefixSP qualifies a reference to the balance sheet.
	PrefixSP = "SP:"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate checks the definition's required fields and enumerations.
func Validate(def model.IndicatorDefinition) error {
	err := structValidator().Struct(def)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &shared.InputError{
			Field:  "indicator " + def.Name + " " + strings.ToLower(fe.Field()),
			Reason: "fails " + fe.Tag(),
		}
	}
	return &shared.InputError{Field: "indicator " + def.Name, Reason: err.Error()}
}

// Evaluate computes one indicator. Errors carry the indicator name as line.
func Evaluate(def model.IndicatorDefinition, ce, sp model.Statement) (decimal.Decimal, error) {
	if err := Validate(def); err != nil {
		return decimal.Zero, err
	}
	expr, err := formula.Parse(def.Formula)
	if err != nil {
		return decimal.Zero, shared.WithLine(err, def.Name)
	}
	v, err := expr.Eval(resolver(ce, sp))
	if err != nil {
		return decimal.Zero, shared.WithLine(err, def.Name)
	}
	return v, nil
}

// Result is the outcome of one definition in EvaluateAll.
type Result struct {
	Definition model.IndicatorDefinition
	Value      decimal.Decimal
	Err        error
}

// EvaluateAll evaluates every definition independently, in input order. A
// failing indicator does not prevent the others from being computed.
func EvaluateAll(defs []model.IndicatorDefinition, ce, sp model.Statement) []Result {
	out := make([]Result, len(defs))
	for i, def := range defs {
		v, err := Evaluate(def, ce, sp)
		out[i] = Result{Definition: def, Value: v, Err: err}
	}
	return out
}

func resolver(ce, sp model.Statement) formula.Resolver {
	return func(ref string) (decimal.Decimal, error) {
		switch {
		case strings.HasPrefix(ref, PrefixCE):
			return lookup(ce, ref, strings.TrimPrefix(ref, PrefixCE))
		case strings.HasPrefix(ref, PrefixSP):
			return lookup(sp, ref, strings.TrimPrefix(ref, PrefixSP))
		}
		ceVal, inCE := ce.Get(ref)
		spVal, inSP := sp.Get(ref)
		switch {
		case inCE && inSP:
			return decimal.Zero, &shared.ReferenceError{Code: ref, Ambiguous: true}
		case inCE:
			return ceVal, nil
		case inSP:
			return spVal, nil
		}
		return decimal.Zero, &shared.ReferenceError{Code: ref}
	}
}

func lookup(stmt model.Statement, ref, code string) (decimal.Decimal, error) {
	if v, ok := stmt.Get(code); ok {
		return v, nil
	}
	return decimal.Zero, &shared.ReferenceError{Code: ref}
}
