package commands

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/auditlog"
	"github.com/cleared-dev/reclass/internal/config"
	"github.com/cleared-dev/reclass/internal/format"
	"github.com/cleared-dev/reclass/internal/gitops"
	"github.com/cleared-dev/reclass/internal/logging"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/period"
	"github.com/cleared-dev/reclass/internal/reclass"
	"github.com/cleared-dev/reclass/internal/store"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// project is an opened reclass project directory.
type project struct {
	root  string
	cfg   *config.Config
	store *store.Store
	log   *slog.Logger
	fmt   *format.Formatter
}

func openProject(cmd *cobra.Command, repoDir string) (*project, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("opening project %s: %w", root, err)
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	f, err := format.New(cfg.Display.Currency, cfg.Display.Locale, cfg.Display.Decimals)
	if err != nil {
		return nil, fmt.Errorf("display settings: %w", err)
	}

	return &project{
		root:  root,
		cfg:   cfg,
		store: store.New(root),
		log:   logging.New(cmd.ErrOrStderr(), level, cfg.Log.Format),
		fmt:   f,
	}, nil
}

func (p *project) service() *reclass.Service {
	return reclass.NewService(p.store, p.cfg.Statistics.Workers)
}

func (p *project) identity() gitops.Identity {
	return gitops.Identity{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
}

// audit records an action in logs/audit-log.csv. Failures are logged, not
// returned: the evaluation itself already succeeded.
func (p *project) audit(client, action, scope, details string) {
	e := auditlog.Entry{
		Timestamp: time.Now(),
		Client:    client,
		Action:    action,
		Scope:     scope,
		Details:   details,
	}
	if err := auditlog.Append(p.root, e); err != nil {
		p.log.Warn("writing audit log", "error", err)
		return
	}
	p.log.Debug("audit entry written", "action", action, "client", client, "scope", scope)
}

// scopeFlags are the --client/--from/--to flags shared by evaluating commands.
type scopeFlags struct {
	client string
	from   string
	to     string
}

func (s *scopeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.client, "client", "", "client identifier (required)")
	cmd.Flags().StringVar(&s.from, "from", "", "first period, YYYY-MM (required)")
	cmd.Flags().StringVar(&s.to, "to", "", "last period, YYYY-MM (defaults to --from)")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("from")
}

func (s *scopeFlags) scope() (model.Scope, error) {
	from, err := period.Parse(s.from)
	if err != nil {
		return model.Scope{}, fmt.Errorf("--from: %w", err)
	}
	to := from
	if s.to != "" {
		if to, err = period.Parse(s.to); err != nil {
			return model.Scope{}, fmt.Errorf("--to: %w", err)
		}
	}
	return model.NewScope(s.client, from, to)
}

// scopeLabel renders a scope as "2024-03" or "2024-01..2024-03".
func scopeLabel(s model.Scope) string {
	if len(s.Periods) == 0 {
		return ""
	}
	first := s.Periods[0].String()
	if !s.MultiPeriod() {
		return first
	}
	return first + ".." + s.Last().String()
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeRow(w io.Writer, cols ...string) error {
	_, err := fmt.Fprintln(w, strings.Join(cols, "\t"))
	return err
}

func writeHeader(w io.Writer, cols ...string) error {
	styled := make([]string, len(cols))
	for i, c := range cols {
		styled[i] = headerStyle.Render(c)
	}
	return writeRow(w, styled...)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
