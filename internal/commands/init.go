package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/auditlog"
	"github.com/cleared-dev/reclass/internal/config"
	"github.com/cleared-dev/reclass/internal/gitops"
	"github.com/cleared-dev/reclass/internal/store"
)

func newInitCommand() *cobra.Command {
	var firm string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new reclass project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			hash, err := runInit(absDir, firm, !noGit)
			if err != nil {
				return err
			}
			if hash != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized reclass project at %s (%s)\n", absDir, hash)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Initialized reclass project at %s\n", absDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&firm, "firm", "", "accounting firm name (required)")
	_ = cmd.MarkFlagRequired("firm")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git repository initialization")

	return cmd
}

// runInit writes the project skeleton and returns the initial commit hash
// (empty when git is skipped).
func runInit(dir, firm string, useGit bool) (string, error) {
	for _, d := range []string{"logs", store.ImportDir, store.ProcessedDir} {
		if err := os.MkdirAll(filepath.Join(dir, filepath.FromSlash(d)), 0o755); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(firm)
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}

	if err := store.New(dir).Init(); err != nil {
		return "", fmt.Errorf("writing data files: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, store.ImportDir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return "", fmt.Errorf("writing .gitkeep: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("exports/\n"), 0o644); err != nil {
		return "", fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := auditlog.Append(dir, auditlog.Entry{
		Timestamp: time.Now(),
		Action:    auditlog.ActionInit,
		Details:   "firm=" + firm,
	}); err != nil {
		return "", err
	}

	if !useGit {
		return "", nil
	}
	if err := gitops.Init(dir); err != nil {
		return "", err
	}
	hash, err := gitops.CommitAll(dir, "init: Initialize "+firm, gitops.Identity{
		Name:  cfg.Git.AuthorName,
		Email: cfg.Git.AuthorEmail,
	})
	if err != nil {
		return "", fmt.Errorf("initial commit: %w", err)
	}
	return hash, nil
}
