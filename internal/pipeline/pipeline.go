// Package pipeline orchestrates statement analysis: it hands raw statement
// text to the model, normalizes the extracted JSON into domain records, and
// runs the deterministic aggregation and balance verification over them.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-analyzer/internal/analysis"
	"github.com/dvloznov/statement-analyzer/internal/domain"
)

// Outcome bundles everything one analysis run produces. All fields are value
// records derived fresh from the transaction list; nothing here is mutated
// after AnalyzeStatement returns.
type Outcome struct {
	Result       domain.AnalysisResult       `json:"result"`
	Summaries    []domain.ClientSummary      `json:"summaries"`
	Trends       []domain.ClientMonthlyTrend `json:"trends"`
	Verification domain.BalanceVerification  `json:"verification"`
}

// Analyzer runs the extract → transform → aggregate → verify pipeline.
type Analyzer struct {
	extractor Extractor
	log       zerolog.Logger
}

// NewAnalyzer creates an Analyzer using the given extractor.
func NewAnalyzer(extractor Extractor, log zerolog.Logger) *Analyzer {
	return &Analyzer{extractor: extractor, log: log}
}

// AnalyzeStatement processes one statement's raw text end to end.
func (a *Analyzer) AnalyzeStatement(ctx context.Context, statementText string) (*Outcome, error) {
	if strings.TrimSpace(statementText) == "" {
		return nil, fmt.Errorf("AnalyzeStatement: statement text is empty")
	}

	// 1. Ask the model for the structured statement.
	rawOutput, err := a.extractor.ExtractStatement(ctx, statementText)
	if err != nil {
		return nil, fmt.Errorf("AnalyzeStatement: extract: %w", err)
	}

	// 2. Normalize the model output into domain records.
	result, err := TransformModelOutput(rawOutput)
	if err != nil {
		return nil, fmt.Errorf("AnalyzeStatement: transform: %w", err)
	}

	// 3. Deterministic aggregation and balance verification.
	summaries, trends := analysis.Aggregate(result.Transactions)
	verification := analysis.Verify(result.OpeningBalance, result.ClosingBalance, summaries)

	a.log.Info().
		Str("statement_period", result.StatementPeriod).
		Int("transactions", len(result.Transactions)).
		Int("clients", len(summaries)).
		Bool("balance_match", verification.IsMatch).
		Msg("Statement analyzed")

	return &Outcome{
		Result:       *result,
		Summaries:    summaries,
		Trends:       trends,
		Verification: verification,
	}, nil
}
