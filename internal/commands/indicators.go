package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/auditlog"
	"github.com/cleared-dev/reclass/internal/reclass"
)

func newIndicatorsCommand() *cobra.Command {
	var sf scopeFlags
	var repoDir string

	cmd := &cobra.Command{
		Use:   "indicators",
		Short: "Evaluate a client's custom indicators over the CE and SP statements",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, repoDir)
			if err != nil {
				return err
			}
			scope, err := sf.scope()
			if err != nil {
				return err
			}
			label := scopeLabel(scope)

			p.log.Info("evaluating indicators", "client", scope.ClientID, "scope", label,
				"ce", p.cfg.Statistics.CE, "sp", p.cfg.Statistics.SP)
			results, err := p.service().Indicators(cmd.Context(), reclass.IndicatorRequest{
				Scope: scope,
				CERun: p.cfg.Statistics.CE,
				SPRun: p.cfg.Statistics.SP,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No indicators defined for %s.\n", scope.ClientID)
				return nil
			}

			tw := newTable(out)
			if err := writeHeader(tw, "Indicator", "Category", "Value"); err != nil {
				return err
			}
			failed := 0
			for _, r := range results {
				value := p.fmt.Value(r.Value, r.Definition.Format)
				if r.Err != nil {
					failed++
					value = "error: " + r.Err.Error()
					p.log.Warn("indicator failed", "client", scope.ClientID, "indicator", r.Definition.Name, "error", r.Err)
				}
				if err := writeRow(tw, r.Definition.Name, string(r.Definition.Category), value); err != nil {
					return err
				}
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			p.audit(scope.ClientID, auditlog.ActionIndicators, label, fmt.Sprintf("count=%d failed=%d", len(results), failed))
			return nil
		},
	}

	sf.register(cmd)
	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")

	return cmd
}
