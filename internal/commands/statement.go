package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/auditlog"
	"github.com/cleared-dev/reclass/internal/reclass"
)

func newStatementCommand() *cobra.Command {
	var sf scopeFlags
	var run, repoDir string
	var breakdown, allowEmpty bool

	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Evaluate a reclassified statement for a client and period range",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, repoDir)
			if err != nil {
				return err
			}
			scope, err := sf.scope()
			if err != nil {
				return err
			}
			run = orDefault(run, p.cfg.Statistics.CE)
			label := scopeLabel(scope)

			p.log.Info("building statement", "client", scope.ClientID, "scope", label, "run", run)
			res, err := p.service().Build(cmd.Context(), reclass.Request{
				Scope:      scope,
				Run:        run,
				AllowEmpty: allowEmpty,
			})
			if err != nil {
				return err
			}
			if len(res.Unmapped) > 0 {
				p.log.Warn("accounts without mapping", "client", scope.ClientID, "accounts", strings.Join(res.Unmapped, ","))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s, %s\n\n", run, scope.ClientID, label)
			if err := printStatement(out, p, res); err != nil {
				return err
			}
			if breakdown {
				fmt.Fprintln(out)
				if err := printBreakdown(out, p, res); err != nil {
					return err
				}
			}

			p.audit(scope.ClientID, auditlog.ActionStatement, label, fmt.Sprintf("run=%s lines=%d", run, res.Statement.Len()))
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&run, "run", "", "template run (defaults to the configured CE run)")
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "also print account totals per period")
	cmd.Flags().BoolVar(&allowEmpty, "allow-empty", false, "evaluate even when no trial-balance row is in scope")
	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")

	return cmd
}

func printStatement(w io.Writer, p *project, res reclass.Result) error {
	tw := newTable(w)
	if err := writeHeader(tw, "Code", "Description", "Amount"); err != nil {
		return err
	}
	for _, l := range res.Lines {
		if err := writeRow(tw, l.Code, l.Description, p.fmt.Currency(l.Computed)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// printBreakdown prints account totals with one column per period.
func printBreakdown(w io.Writer, p *project, res reclass.Result) error {
	tw := newTable(w)
	header := []string{"Account"}
	for _, pt := range res.Ledger.Periods {
		header = append(header, pt.Period.String())
	}
	header = append(header, "Total")
	if err := writeHeader(tw, header...); err != nil {
		return err
	}

	for _, account := range res.Ledger.Total.Codes() {
		row := []string{account}
		for _, pt := range res.Ledger.Periods {
			row = append(row, p.fmt.Currency(pt.Totals[account]))
		}
		row = append(row, p.fmt.Currency(res.Ledger.Total[account]))
		if err := writeRow(tw, row...); err != nil {
			return err
		}
	}
	return tw.Flush()
}
