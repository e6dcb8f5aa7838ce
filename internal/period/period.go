package period

import (
	"fmt"
	"strconv"
	"strings"
)

// Period is one fiscal month.
type Period struct {
	Year  int
	Month int
}

// New returns the period for year/month. It does not validate.
func New(year, month int) Period {
	return Period{Year: year, Month: month}
}

// String returns a period like "2024-03".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// IsZero reports whether p is the zero period.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Valid reports whether the month is in 1..12 and the year is positive.
func (p Period) Valid() bool {
	return p.Year > 0 && p.Month >= 1 && p.Month <= 12
}

// Before reports whether p comes strictly before q.
func (p Period) Before(q Period) bool {
	if p.Year != q.Year {
		return p.Year < q.Year
	}
	return p.Month < q.Month
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// Within reports whether p lies in [from, to].
func (p Period) Within(from, to Period) bool {
	return !p.Before(from) && !to.Before(p)
}

// Parse parses "2024-03" (or "2024-3") into a Period.
func Parse(s string) (Period, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("invalid period format: %q", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("invalid year in period %q: %w", s, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("invalid month in period %q: %w", s, err)
	}

	p := Period{Year: year, Month: month}
	if !p.Valid() {
		return Period{}, fmt.Errorf("period %q out of range", s)
	}
	return p, nil
}

// Range returns every month from from to to inclusive, in order.
// An inverted range returns an error.
func Range(from, to Period) ([]Period, error) {
	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("invalid period range %s..%s", from, to)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("period range %s..%s is inverted", from, to)
	}
	var out []Period
	for p := from; !to.Before(p); p = p.Next() {
		out = append(out, p)
	}
	return out, nil
}
