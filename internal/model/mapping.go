package model

import "github.com/cleared-dev/reclass/internal/period"

// AccountMapping associates ledger accounts with a statement-line code over
// a period range. A zero To means the single period From.
type AccountMapping struct {
	ClientID string
	From     period.Period
	To       period.Period
	Accounts []string
	Code     string
}

// Until returns the last period the mapping covers.
func (m AccountMapping) Until() period.Period {
	if m.To.IsZero() {
		return m.From
	}
	return m.To
}

// Covers reports whether the mapping applies to p.
func (m AccountMapping) Covers(p period.Period) bool {
	return p.Within(m.From, m.Until())
}
