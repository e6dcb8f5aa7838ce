package model

import (
	"fmt"

	"github.com/cleared-dev/reclass/internal/period"
)

// Scope selects one client over one or more fiscal periods.
type Scope struct {
	ClientID string
	Periods  []period.Period
}

// NewScope builds a scope covering from..to inclusive.
func NewScope(clientID string, from, to period.Period) (Scope, error) {
	if clientID == "" {
		return Scope{}, fmt.Errorf("scope requires a client")
	}
	periods, err := period.Range(from, to)
	if err != nil {
		return Scope{}, err
	}
	return Scope{ClientID: clientID, Periods: periods}, nil
}

// Contains reports whether p is one of the scope's periods.
func (s Scope) Contains(p period.Period) bool {
	for _, q := range s.Periods {
		if q == p {
			return true
		}
	}
	return false
}

// MultiPeriod reports whether the scope consolidates more than one period.
func (s Scope) MultiPeriod() bool {
	return len(s.Periods) > 1
}

// Last returns the latest period in the scope.
func (s Scope) Last() period.Period {
	var last period.Period
	for _, p := range s.Periods {
		if last.Before(p) {
			last = p
		}
	}
	return last
}

// PeriodStrings returns the periods formatted as "YYYY-MM".
func (s Scope) PeriodStrings() []string {
	out := make([]string, len(s.Periods))
	for i, p := range s.Periods {
		out[i] = p.String()
	}
	return out
}
