package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/period"
)

// Parser converts an accounting-software trial-balance export into rows
// for one client.
type Parser interface {
	Parse(r io.Reader, clientID string) ([]model.TrialBalanceRow, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&StandardParser{})
	r.Register(&ItalianParser{})
	return r
}

// Export columns shared by both built-in formats.
const (
	exportNumFields = 4
	exportColPeriod = 0
	exportColAcct   = 1
	exportColDesc   = 2
	exportColAmount = 3
)

// StandardParser reads comma-separated exports with "2024-03" periods and
// "1234.56" amounts:
//
//	period,account,description,amount
type StandardParser struct{}

// Format returns the parser name.
func (p *StandardParser) Format() string { return "standard" }

// Parse reads a standard export.
func (p *StandardParser) Parse(r io.Reader, clientID string) ([]model.TrialBalanceRow, error) {
	return parseExport(r, ',', clientID, "standard", period.Parse, decimal.NewFromString)
}

// ItalianParser reads semicolon-separated exports with "03/2024" periods
// and "1.234,56" amounts, as produced by Italian accounting packages:
//
//	periodo;conto;descrizione;importo
type ItalianParser struct{}

// Format returns the parser name.
func (p *ItalianParser) Format() string { return "italian" }

// Parse reads an italian export.
func (p *ItalianParser) Parse(r io.Reader, clientID string) ([]model.TrialBalanceRow, error) {
	return parseExport(r, ';', clientID, "italian", parseItalianPeriod, ParseItalianAmount)
}

func parseExport(
	r io.Reader,
	comma rune,
	clientID, format string,
	parsePeriod func(string) (period.Period, error),
	parseAmount func(string) (decimal.Decimal, error),
) ([]model.TrialBalanceRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = exportNumFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", format, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var rows []model.TrialBalanceRow
	for i, rec := range records[1:] {
		p, err := parsePeriod(rec[exportColPeriod])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing period: %w", i+2, err)
		}
		amount, err := parseAmount(strings.TrimSpace(rec[exportColAmount]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[exportColAmount], err)
		}
		account := strings.TrimSpace(rec[exportColAcct])
		if account == "" {
			return nil, fmt.Errorf("row %d: missing account", i+2)
		}
		rows = append(rows, model.TrialBalanceRow{
			ClientID:    clientID,
			Period:      p,
			Account:     account,
			Description: strings.TrimSpace(rec[exportColDesc]),
			Amount:      amount,
		})
	}
	return rows, nil
}

// parseItalianPeriod parses "03/2024".
func parseItalianPeriod(s string) (period.Period, error) {
	month, year, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return period.Period{}, fmt.Errorf("invalid period format: %q", s)
	}
	return period.Parse(year + "-" + month)
}

// ParseItalianAmount parses amounts like "1.234,56", "-0,5" or "1234".
func ParseItalianAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	return decimal.NewFromString(s)
}
