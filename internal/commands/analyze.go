package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dvloznov/statement-analyzer/internal/analysis"
	"github.com/dvloznov/statement-analyzer/internal/config"
	"github.com/dvloznov/statement-analyzer/internal/domain"
	"github.com/dvloznov/statement-analyzer/internal/expected"
	"github.com/dvloznov/statement-analyzer/internal/export"
	"github.com/dvloznov/statement-analyzer/internal/logger"
	"github.com/dvloznov/statement-analyzer/internal/pipeline"
)

func newAnalyzeCommand() *cobra.Command {
	var (
		expectedFile string
		outFile      string
		outFormat    string
		asJSON       bool
		showTrends   bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [statement.txt]",
		Short: "Analyze a bank statement from a text file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readStatementText(args)
			if err != nil {
				return err
			}

			cfg := config.Load()
			if err := cfg.ValidateForExtraction(); err != nil {
				return err
			}

			log := logger.NewWithLevel(cfg.LogLevel)
			analyzer := pipeline.NewAnalyzer(pipeline.NewGeminiExtractor(cfg.GeminiAPIKey, cfg.Model), log)

			outcome, err := analyzer.AnalyzeStatement(cmd.Context(), text)
			if err != nil {
				return err
			}

			var statuses []domain.PaymentStatus
			if expectedFile != "" {
				statuses, err = reconcileFromFile(expectedFile, outcome.Summaries)
				if err != nil {
					return err
				}
			}

			if outFile != "" {
				if err := writeReport(outFile, outFormat, outcome, statuses); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", outFile)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					*pipeline.Outcome
					Statuses []domain.PaymentStatus `json:"statuses,omitempty"`
				}{outcome, statuses})
			}

			renderOutcome(cmd.OutOrStdout(), outcome, showTrends)
			if statuses != nil {
				renderStatuses(cmd.OutOrStdout(), statuses)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&expectedFile, "expected", "", "expected-payments file (CSV or Excel) to reconcile against")
	cmd.Flags().StringVar(&outFile, "out", "", "write a report to this path")
	cmd.Flags().StringVar(&outFormat, "format", "xlsx", "report format: xlsx or csv")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full analysis as JSON")
	cmd.Flags().BoolVar(&showTrends, "trends", false, "include the per-client monthly trends table")

	return cmd
}

func readStatementText(args []string) (string, error) {
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("opening statement file: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading statement text: %w", err)
	}
	return string(data), nil
}

func reconcileFromFile(path string, summaries []domain.ClientSummary) ([]domain.PaymentStatus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening expected-payments file: %w", err)
	}
	defer f.Close()

	payments, err := expected.Parse(path, f)
	if err != nil {
		return nil, err
	}
	return analysis.Reconcile(summaries, payments), nil
}

func writeReport(path, format string, outcome *pipeline.Outcome, statuses []domain.PaymentStatus) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	switch format {
	case "xlsx":
		return export.ReportXLSX(f, export.Report{
			Result:       outcome.Result,
			Summaries:    outcome.Summaries,
			Trends:       outcome.Trends,
			Verification: outcome.Verification,
			Statuses:     statuses,
		})
	case "csv":
		// The CSV report is the summaries table; other tables are served by
		// the API's table parameter.
		return export.SummariesCSV(f, outcome.Summaries)
	default:
		return fmt.Errorf("unknown report format %q (want xlsx or csv)", format)
	}
}

func renderOutcome(w io.Writer, outcome *pipeline.Outcome, showTrends bool) {
	fmt.Fprintf(w, "Statement period: %s\n", outcome.Result.StatementPeriod)
	fmt.Fprintf(w, "Opening balance:  %s\n", money(outcome.Result.OpeningBalance))
	fmt.Fprintf(w, "Closing balance:  %s\n", money(outcome.Result.ClosingBalance))

	v := outcome.Verification
	if v.IsMatch {
		fmt.Fprintf(w, "Balance check:    OK (calculated %s)\n", money(v.CalculatedClosing))
	} else {
		fmt.Fprintf(w, "Balance check:    MISMATCH (calculated %s, off by %s)\n",
			money(v.CalculatedClosing), money(v.Difference))
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tCREDITS\t#\tDEBITS\t#\tNET")
	for _, s := range outcome.Summaries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n",
			s.ClientName, money(s.TotalCredit), s.CreditCount,
			money(s.TotalDebit), s.DebitCount, money(s.NetTotal))
	}
	totals := analysis.Totals(outcome.Summaries)
	fmt.Fprintf(tw, "TOTAL\t%s\t\t%s\t\t%s\n",
		money(totals.TotalCredit), money(totals.TotalDebit), money(totals.NetTotal))
	tw.Flush()

	if showTrends && len(outcome.Trends) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CLIENT\tMONTH\tCREDITS\tDEBITS\tNET CHANGE")
		for _, tr := range outcome.Trends {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				tr.ClientName, tr.Month, money(tr.TotalCredit), money(tr.TotalDebit), money(tr.NetChange))
		}
		tw.Flush()
	}
}

func renderStatuses(w io.Writer, statuses []domain.PaymentStatus) {
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CLIENT\tEXPECTED\tPAID\tDIFFERENCE\tSTATUS")
	for _, s := range statuses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.ClientName, money(s.ExpectedAmount), money(s.PaidAmount), money(s.Difference), s.Status)
	}
	tw.Flush()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
