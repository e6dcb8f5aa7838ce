package model

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/period"
)

// Sign is the sign applied to a template line's base amount.
type Sign string

const (
	SignPlus  Sign = "+"
	SignMinus Sign = "-"
)

// Valid reports whether s is "+", "-" or empty (treated as "+").
func (s Sign) Valid() bool {
	return s == "" || s == SignPlus || s == SignMinus
}

// TemplateLine is one classified statement line of a reclassification
// template. Lines are scoped by client, period and run; Run distinguishes
// parallel reclassification variants for the same client and period.
type TemplateLine struct {
	ClientID    string
	Period      period.Period
	Run         string
	Code        string
	Description string
	BaseAmount  decimal.Decimal
	Sign        Sign
	Formula     string          // overrides BaseAmount when non-empty
	Computed    decimal.Decimal // cache only, never read by the evaluator
}

// HasFormula reports whether the line derives its value from a formula.
func (l TemplateLine) HasFormula() bool {
	return strings.TrimSpace(l.Formula) != ""
}

// Signed returns the base amount with the line's sign applied.
func (l TemplateLine) Signed() decimal.Decimal {
	if l.Sign == SignMinus {
		return l.BaseAmount.Neg()
	}
	return l.BaseAmount
}
