package model

import "github.com/shopspring/decimal"

// Statement is a computed statement: the final value of every line code for
// one client, scope and template run. Codes keeps insertion order.
type Statement struct {
	Values map[string]decimal.Decimal
	Codes  []string
}

// NewStatement returns an empty statement.
func NewStatement() Statement {
	return Statement{Values: make(map[string]decimal.Decimal)}
}

// Set records a value, appending code to the order on first write.
func (s *Statement) Set(code string, v decimal.Decimal) {
	if s.Values == nil {
		s.Values = make(map[string]decimal.Decimal)
	}
	if _, ok := s.Values[code]; !ok {
		s.Codes = append(s.Codes, code)
	}
	s.Values[code] = v
}

// Get returns the value for code.
func (s Statement) Get(code string) (decimal.Decimal, bool) {
	v, ok := s.Values[code]
	return v, ok
}

// Len returns the number of lines.
func (s Statement) Len() int {
	return len(s.Codes)
}
