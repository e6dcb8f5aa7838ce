// Package formula parses and evaluates the arithmetic sub-language shared by
// template lines and indicators: decimal literals, statement-line codes and
// the operators + - * / ( ). There are no functions, comparisons or string
// values. All arithmetic is decimal.
package formula

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/shared"
)

// DivisionScale is the number of fractional digits kept by a division.
const DivisionScale int32 = 16

// Resolver returns the value of a referenced code. Implementations report
// unknown codes with *shared.ReferenceError.
type Resolver func(code string) (decimal.Decimal, error)

// Expr is a parsed formula.
type Expr struct {
	src  string
	root node
	refs []string
}

// String returns the source text.
func (e *Expr) String() string { return e.src }

// Refs returns the distinct codes referenced, in order of first appearance.
func (e *Expr) Refs() []string {
	out := make([]string, len(e.refs))
	copy(out, e.refs)
	return out
}

// Eval evaluates the expression, resolving references through r.
func (e *Expr) Eval(r Resolver) (decimal.Decimal, error) {
	return e.root.eval(r)
}

type node interface {
	eval(r Resolver) (decimal.Decimal, error)
}

type numNode struct{ v decimal.Decimal }

func (n numNode) eval(Resolver) (decimal.Decimal, error) { return n.v, nil }

type refNode struct{ code string }

func (n refNode) eval(r Resolver) (decimal.Decimal, error) {
	if r == nil {
		return decimal.Zero, &shared.ReferenceError{Code: n.code}
	}
	return r(n.code)
}

type negNode struct{ x node }

func (n negNode) eval(r Resolver) (decimal.Decimal, error) {
	v, err := n.x.eval(r)
	if err != nil {
		return decimal.Zero, err
	}
	return v.Neg(), nil
}

type binNode struct {
	op   byte
	l, r node
}

func (n binNode) eval(r Resolver) (decimal.Decimal, error) {
	l, err := n.l.eval(r)
	if err != nil {
		return decimal.Zero, err
	}
	rv, err := n.r.eval(r)
	if err != nil {
		return decimal.Zero, err
	}
	switch n.op {
	case '+':
		return l.Add(rv), nil
	case '-':
		return l.Sub(rv), nil
	case '*':
		return l.Mul(rv), nil
	default:
		if rv.IsZero() {
			return decimal.Zero, &shared.DivisionError{}
		}
		return l.DivRound(rv, DivisionScale), nil
	}
}
