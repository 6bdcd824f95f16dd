// Package commands wires the statement-analyzer CLI: statement analysis from
// files or stdin, payment reconciliation, and report export.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dvloznov/statement-analyzer/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "statement-analyzer",
		Short:   "Bank statement analysis and payment reconciliation",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newReconcileCommand())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "statement-analyzer %s (commit: %s, built: %s)\n",
				buildinfo.Version, buildinfo.Commit, buildinfo.Date)
		},
	})

	return rootCmd
}
