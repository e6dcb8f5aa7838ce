package reclass

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/reclass/internal/indicator"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/period"
)

// Source is the persistence collaborator. The engine packages never call
// it; only Service does.
type Source interface {
	TrialBalance(ctx context.Context, clientID string) ([]model.TrialBalanceRow, error)
	Mappings(ctx context.Context, clientID string) ([]model.AccountMapping, error)
	TemplateLines(ctx context.Context, clientID string, p period.Period, run string) ([]model.TemplateLine, error)
	Indicators(ctx context.Context, clientID string) ([]model.IndicatorDefinition, error)
}

// Request selects one statement: a scope and a template run. Template lines
// are taken from the scope's last period.
type Request struct {
	Scope      model.Scope
	Run        string
	AllowEmpty bool
}

// Service loads inputs from a Source and evaluates them.
type Service struct {
	src     Source
	workers int
}

// NewService creates a Service. workers bounds BuildMany's parallelism;
// values below 1 mean one.
func NewService(src Source, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{src: src, workers: workers}
}

// Build loads and evaluates one statement.
func (s *Service) Build(ctx context.Context, req Request) (Result, error) {
	client := req.Scope.ClientID
	if len(req.Scope.Periods) == 0 {
		return Result{}, fmt.Errorf("building statement for %s: scope has no periods", client)
	}

	rows, err := s.src.TrialBalance(ctx, client)
	if err != nil {
		return Result{}, fmt.Errorf("loading trial balance for %s: %w", client, err)
	}
	mappings, err := s.src.Mappings(ctx, client)
	if err != nil {
		return Result{}, fmt.Errorf("loading mappings for %s: %w", client, err)
	}
	lines, err := s.src.TemplateLines(ctx, client, req.Scope.Last(), req.Run)
	if err != nil {
		return Result{}, fmt.Errorf("loading template %q for %s: %w", req.Run, client, err)
	}

	res, err := Compute(Input{
		Scope:      req.Scope,
		Rows:       rows,
		Mappings:   mappings,
		Lines:      lines,
		AllowEmpty: req.AllowEmpty,
	})
	if err != nil {
		return Result{}, fmt.Errorf("evaluating template %q for %s: %w", req.Run, client, err)
	}
	res.Run = req.Run
	return res, nil
}

// BuildMany evaluates independent requests in parallel. Results are in
// request order; the first error cancels the rest.
func (s *Service) BuildMany(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.Build(ctx, req)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// IndicatorRequest selects the scope and default CE/SP runs for indicators.
// A definition naming its own CEStatistic or SPStatistic overrides them.
type IndicatorRequest struct {
	Scope model.Scope
	CERun string
	SPRun string
}

// Indicators evaluates every indicator defined for the scope's client.
func (s *Service) Indicators(ctx context.Context, req IndicatorRequest) ([]indicator.Result, error) {
	client := req.Scope.ClientID
	defs, err := s.src.Indicators(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("loading indicators for %s: %w", client, err)
	}

	runs := make(map[string]int)
	var reqs []Request
	need := func(run string) {
		if _, ok := runs[run]; ok {
			return
		}
		runs[run] = len(reqs)
		reqs = append(reqs, Request{Scope: req.Scope, Run: run})
	}
	for _, def := range defs {
		need(orDefault(def.CEStatistic, req.CERun))
		need(orDefault(def.SPStatistic, req.SPRun))
	}

	built, err := s.BuildMany(ctx, reqs)
	if err != nil {
		return nil, err
	}

	out := make([]indicator.Result, len(defs))
	for i, def := range defs {
		ce := built[runs[orDefault(def.CEStatistic, req.CERun)]].Statement
		sp := built[runs[orDefault(def.SPStatistic, req.SPRun)]].Statement
		v, err := indicator.Evaluate(def, ce, sp)
		out[i] = indicator.Result{Definition: def, Value: v, Err: err}
	}
	return out, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
