package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/period"
	"github.com/cleared-dev/reclass/internal/shared"
)

// Project-relative file locations.
const (
	TrialBalanceFile = "ledger/trial-balance.csv"
	MappingsFile     = "mappings/mappings.csv"
	TemplatesFile    = "templates/template-lines.csv"
	IndicatorsFile   = "indicators/indicators.csv"
	AdvancesFile     = "advances/advances.csv"
)

// Store reads and writes the CSV files of one project directory.
type Store struct {
	root string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the project directory.
func (s *Store) Root() string { return s.root }

func (s *Store) path(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// Init creates every data file with only its header. Existing files are
// left untouched.
func (s *Store) Init() error {
	files := []struct {
		rel    string
		header []string
	}{
		{TrialBalanceFile, trialBalanceHeader},
		{MappingsFile, mappingHeader},
		{TemplatesFile, templateHeader},
		{IndicatorsFile, indicatorHeader},
		{AdvancesFile, advanceHeader},
	}
	for _, f := range files {
		p := s.path(f.rel)
		if _, err := os.Stat(p); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(f.rel), err)
		}
		if err := os.WriteFile(p, []byte(strings.Join(f.header, ",")+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", f.rel, err)
		}
	}
	return nil
}

// load opens rel and decodes it. A missing file reads as empty.
func load[T any](s *Store, rel string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(s.path(rel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", rel, err)
	}
	defer f.Close()

	items, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}
	return items, nil
}

// save replaces rel with items.
func save[T any](s *Store, rel string, items []T, write func(io.Writer, []T) error) error {
	p := s.path(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(rel), err)
	}
	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("creating %s: %w", rel, err)
	}
	if err := write(f, items); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", rel, err)
	}
	return f.Close()
}

func filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// TrialBalance returns the client's trial-balance rows.
func (s *Store) TrialBalance(ctx context.Context, clientID string) ([]model.TrialBalanceRow, error) {
	rows, err := load(s, TrialBalanceFile, ReadTrialBalance)
	if err != nil {
		return nil, err
	}
	return filter(rows, func(r model.TrialBalanceRow) bool { return r.ClientID == clientID }), nil
}

// Mappings returns the client's account mappings.
func (s *Store) Mappings(ctx context.Context, clientID string) ([]model.AccountMapping, error) {
	mappings, err := load(s, MappingsFile, ReadMappings)
	if err != nil {
		return nil, err
	}
	return filter(mappings, func(m model.AccountMapping) bool { return m.ClientID == clientID }), nil
}

// TemplateLines returns the client's template lines for one period and run,
// in file order.
func (s *Store) TemplateLines(ctx context.Context, clientID string, p period.Period, run string) ([]model.TemplateLine, error) {
	lines, err := load(s, TemplatesFile, ReadTemplateLines)
	if err != nil {
		return nil, err
	}
	return filter(lines, func(l model.TemplateLine) bool {
		return l.ClientID == clientID && l.Period == p && l.Run == run
	}), nil
}

// Indicators returns the client's indicator definitions.
func (s *Store) Indicators(ctx context.Context, clientID string) ([]model.IndicatorDefinition, error) {
	defs, err := load(s, IndicatorsFile, ReadIndicators)
	if err != nil {
		return nil, err
	}
	return filter(defs, func(d model.IndicatorDefinition) bool { return d.ClientID == clientID }), nil
}

// Advances returns the client's invoice advances.
func (s *Store) Advances(ctx context.Context, clientID string) ([]model.Advance, error) {
	advances, err := load(s, AdvancesFile, ReadAdvances)
	if err != nil {
		return nil, err
	}
	return filter(advances, func(a model.Advance) bool { return a.ClientID == clientID }), nil
}

// AppendTrialBalance adds imported rows. A row whose key already exists, in
// the file or earlier in rows, rejects the whole batch.
func (s *Store) AppendTrialBalance(ctx context.Context, rows []model.TrialBalanceRow) error {
	existing, err := load(s, TrialBalanceFile, ReadTrialBalance)
	if err != nil {
		return err
	}

	seen := make(map[model.RowKey]bool, len(existing)+len(rows))
	for _, r := range existing {
		seen[r.Key()] = true
	}
	for _, r := range rows {
		k := r.Key()
		if seen[k] {
			return &shared.InputError{
				Field:  "trial balance row",
				Reason: fmt.Sprintf("duplicate %s/%s account %s %q", k.ClientID, k.Period, k.Account, k.Description),
			}
		}
		seen[k] = true
	}

	return save(s, TrialBalanceFile, append(existing, rows...), WriteTrialBalance)
}

// SaveMappings replaces mappings.csv.
func (s *Store) SaveMappings(mappings []model.AccountMapping) error {
	return save(s, MappingsFile, mappings, WriteMappings)
}

// SaveTemplateLines replaces template-lines.csv.
func (s *Store) SaveTemplateLines(lines []model.TemplateLine) error {
	return save(s, TemplatesFile, lines, WriteTemplateLines)
}

// SaveIndicators replaces indicators.csv.
func (s *Store) SaveIndicators(defs []model.IndicatorDefinition) error {
	return save(s, IndicatorsFile, defs, WriteIndicators)
}

// SaveAdvances replaces advances.csv.
func (s *Store) SaveAdvances(advances []model.Advance) error {
	return save(s, AdvancesFile, advances, WriteAdvances)
}
