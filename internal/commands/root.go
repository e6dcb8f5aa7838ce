package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/reclass/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "reclass",
		Short:   "Reclassified financial statements and ratios from trial balances",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(),
		newStatementCommand(),
		newIndicatorsCommand(),
		newAccrueCommand(),
	)

	return rootCmd
}
