// Package analysis holds the deterministic core that runs after the model
// has extracted a transaction list: per-client aggregation, monthly trends,
// balance verification, expected-payment reconciliation and the filter/sort
// query layer. Every function here is pure — no I/O, no shared state, same
// output for the same input.
package analysis

import (
	"regexp"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

var dateShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidDate reports whether a transaction date can answer "when": it must
// have the exact YYYY-MM-DD shape and be a real calendar date. Transactions
// failing this are excluded from monthly trends but still counted in client
// summaries and grand totals.
func ValidDate(date string) bool {
	if !dateShape.MatchString(date) {
		return false
	}
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// Aggregate folds a transaction list into per-client summaries and
// per-client-per-month trend rows. The fold is additive and
// order-independent: aggregating two halves of a list and summing the
// corresponding fields gives the same result as aggregating the whole list.
//
// Summaries come back sorted ascending by client name using locale-aware
// comparison. Trend order is unspecified; callers sort via SortTrends.
func Aggregate(txs []domain.Transaction) ([]domain.ClientSummary, []domain.ClientMonthlyTrend) {
	type trendKey struct {
		client string
		month  string
	}

	summaryByClient := make(map[string]*domain.ClientSummary)
	trendByKey := make(map[trendKey]*domain.ClientMonthlyTrend)

	for _, tx := range txs {
		s, ok := summaryByClient[tx.ClientName]
		if !ok {
			s = &domain.ClientSummary{ClientName: tx.ClientName}
			summaryByClient[tx.ClientName] = s
		}

		// A zero amount still increments the count; the row is evidence of
		// a movement even when its magnitude is zero.
		switch tx.Type {
		case domain.TypeCredit:
			s.TotalCredit += tx.Amount
			s.CreditCount++
		case domain.TypeDebit:
			s.TotalDebit += tx.Amount
			s.DebitCount++
		}

		if !ValidDate(tx.Date) {
			continue
		}
		key := trendKey{client: tx.ClientName, month: tx.Date[:7]}
		tr, ok := trendByKey[key]
		if !ok {
			tr = &domain.ClientMonthlyTrend{ClientName: tx.ClientName, Month: key.month}
			trendByKey[key] = tr
		}
		switch tx.Type {
		case domain.TypeCredit:
			tr.TotalCredit += tx.Amount
		case domain.TypeDebit:
			tr.TotalDebit += tx.Amount
		}
	}

	summaries := make([]domain.ClientSummary, 0, len(summaryByClient))
	for _, s := range summaryByClient {
		s.NetTotal = s.TotalCredit - s.TotalDebit
		summaries = append(summaries, *s)
	}

	// Collators carry an internal buffer, so build one per call rather than
	// sharing a package-level instance across goroutines.
	coll := collate.New(language.Und)
	sort.Slice(summaries, func(i, j int) bool {
		return coll.CompareString(summaries[i].ClientName, summaries[j].ClientName) < 0
	})

	trends := make([]domain.ClientMonthlyTrend, 0, len(trendByKey))
	for _, tr := range trendByKey {
		tr.NetChange = tr.TotalCredit - tr.TotalDebit
		trends = append(trends, *tr)
	}

	return summaries, trends
}
