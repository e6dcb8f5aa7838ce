package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/auditlog"
	"github.com/cleared-dev/reclass/internal/gitops"
	"github.com/cleared-dev/reclass/internal/model"
	"github.com/cleared-dev/reclass/internal/period"
	"github.com/cleared-dev/reclass/internal/store"
)

func newImportCommand() *cobra.Command {
	var client, formatName, repoDir string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a trial-balance export",
		Long: `Import a trial-balance export into ledger/trial-balance.csv.

Without a file argument every CSV waiting in import/ is imported and moved
to import/processed/.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, repoDir)
			if err != nil {
				return err
			}
			parser := store.DefaultRegistry().Get(formatName)
			if parser == nil {
				return fmt.Errorf("unknown format %q (available: %s)",
					formatName, strings.Join(store.DefaultRegistry().Formats(), ", "))
			}

			if len(args) == 1 {
				return importFile(cmd, p, parser, client, args[0], "")
			}

			files, err := store.Scan(p.root)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
				return nil
			}
			for _, f := range files {
				if err := importFile(cmd, p, parser, client, f.Path, f.Name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&client, "client", "", "client the rows belong to (required)")
	_ = cmd.MarkFlagRequired("client")
	cmd.Flags().StringVar(&formatName, "format", "standard", "export format: standard or italian")
	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")

	return cmd
}

// importFile parses path and appends its rows. inboxName, when set, is the
// file's name in import/ and the file is moved to processed afterwards.
func importFile(cmd *cobra.Command, p *project, parser store.Parser, client, path, inboxName string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	rows, err := parser.Parse(f, client)
	f.Close()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	if err := p.store.AppendTrialBalance(cmd.Context(), rows); err != nil {
		return fmt.Errorf("importing %s: %w", filepath.Base(path), err)
	}
	if inboxName != "" {
		if err := store.MarkProcessed(p.root, inboxName); err != nil {
			return err
		}
	}

	label := periodsLabel(rows)
	p.log.Info("imported trial balance", "client", client, "file", filepath.Base(path), "rows", len(rows), "periods", label)
	p.audit(client, auditlog.ActionImport, label, fmt.Sprintf("file=%s rows=%d format=%s", filepath.Base(path), len(rows), parser.Format()))

	if p.cfg.Git.AutoCommit && gitops.IsRepo(p.root) {
		msg := fmt.Sprintf("import: %s for %s", filepath.Base(path), client)
		hash, err := gitops.CommitPaths(p.root, msg, p.identity(), store.TrialBalanceFile, auditlog.File, store.ImportDir)
		if err != nil {
			return err
		}
		p.log.Debug("committed import", "hash", hash)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows for %s from %s\n", len(rows), client, filepath.Base(path))
	return nil
}

// periodsLabel renders the period span covered by rows.
func periodsLabel(rows []model.TrialBalanceRow) string {
	var first, last period.Period
	for _, r := range rows {
		if first.IsZero() || r.Period.Before(first) {
			first = r.Period
		}
		if last.Before(r.Period) {
			last = r.Period
		}
	}
	switch {
	case first.IsZero():
		return ""
	case first == last:
		return first.String()
	default:
		return first.String() + ".." + last.String()
	}
}
