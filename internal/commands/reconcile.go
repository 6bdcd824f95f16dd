package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dvloznov/statement-analyzer/internal/pipeline"
)

func newReconcileCommand() *cobra.Command {
	var (
		analysisFile string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile <expected.csv|expected.xlsx>",
		Short: "Reconcile an expected-payments list against a saved analysis",
		Long: `Reconcile compares an expected-payments list (CSV or Excel) against the
client summaries of a previously saved analysis, produced by
"analyze --json > analysis.json". It runs entirely offline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(analysisFile)
			if err != nil {
				return fmt.Errorf("reading analysis file: %w", err)
			}

			var outcome pipeline.Outcome
			if err := json.Unmarshal(data, &outcome); err != nil {
				return fmt.Errorf("parsing analysis file: %w", err)
			}
			if len(outcome.Summaries) == 0 {
				return fmt.Errorf("analysis %s has no client summaries to reconcile against", analysisFile)
			}

			statuses, err := reconcileFromFile(args[0], outcome.Summaries)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			renderStatuses(cmd.OutOrStdout(), statuses)
			return nil
		},
	}

	cmd.Flags().StringVar(&analysisFile, "analysis", "", "saved analysis JSON file (required)")
	_ = cmd.MarkFlagRequired("analysis")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the statuses as JSON")

	return cmd
}
