package analysis

import (
	"sort"
	"strings"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

// SortKey selects the field a sort runs on. Month and net-change keys apply
// to trend rows, the net-total key to summary rows; the rest apply to both.
type SortKey string

const (
	SortByClientName  SortKey = "clientName"
	SortByMonth       SortKey = "month"
	SortByTotalCredit SortKey = "totalCredit"
	SortByTotalDebit  SortKey = "totalDebit"
	SortByNetChange   SortKey = "netChange"
	SortByNetTotal    SortKey = "netTotal"
)

// Direction is a sort direction.
type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// SortState is the click-to-sort state machine: the zero value means
// unsorted, otherwise it names the active key and direction.
type SortState struct {
	Key       SortKey `json:"key"`
	Direction Direction    `json:"direction"`
}

// NextSortState transitions the sort state for a click on the given key.
// Clicking the key that is already sorted ascending flips it to descending;
// any other click (a new key, or a key already descending) yields that key
// ascending.
func NextSortState(current SortState, clicked SortKey) SortState {
	if current.Key == clicked && current.Direction == Ascending {
		return SortState{Key: clicked, Direction: Descending}
	}
	return SortState{Key: clicked, Direction: Ascending}
}

// matchClient is the shared filter predicate: case-insensitive substring
// match of query against a client name. An empty query matches everything.
func matchClient(name, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

func filterByClient[T any](items []T, query string, name func(T) string) []T {
	if query == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matchClient(name(it), query) {
			out = append(out, it)
		}
	}
	return out
}

// FilterSummaries keeps the summaries whose client name contains query,
// case-insensitively. An empty query returns the input unchanged.
func FilterSummaries(items []domain.ClientSummary, query string) []domain.ClientSummary {
	return filterByClient(items, query, func(s domain.ClientSummary) string { return s.ClientName })
}

// FilterTrends is FilterSummaries for trend rows.
func FilterTrends(items []domain.ClientMonthlyTrend, query string) []domain.ClientMonthlyTrend {
	return filterByClient(items, query, func(t domain.ClientMonthlyTrend) string { return t.ClientName })
}

// FilterStatuses is FilterSummaries for reconciliation rows.
func FilterStatuses(items []domain.PaymentStatus, query string) []domain.PaymentStatus {
	return filterByClient(items, query, func(p domain.PaymentStatus) string { return p.ClientName })
}

// SortTrends returns a stably sorted copy of trends on the given key and
// direction. Ties preserve the relative input order, so repeated sorts are
// reproducible. An unknown key returns the input order unchanged.
func SortTrends(trends []domain.ClientMonthlyTrend, key SortKey, dir Direction) []domain.ClientMonthlyTrend {
	out := make([]domain.ClientMonthlyTrend, len(trends))
	copy(out, trends)

	var less func(a, b domain.ClientMonthlyTrend) bool
	switch key {
	case SortByClientName:
		less = func(a, b domain.ClientMonthlyTrend) bool { return a.ClientName < b.ClientName }
	case SortByMonth:
		less = func(a, b domain.ClientMonthlyTrend) bool { return a.Month < b.Month }
	case SortByTotalCredit:
		less = func(a, b domain.ClientMonthlyTrend) bool { return a.TotalCredit < b.TotalCredit }
	case SortByTotalDebit:
		less = func(a, b domain.ClientMonthlyTrend) bool { return a.TotalDebit < b.TotalDebit }
	case SortByNetChange:
		less = func(a, b domain.ClientMonthlyTrend) bool { return a.NetChange < b.NetChange }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// SortSummaries is SortTrends for summary rows. It supports the client name,
// total credit, total debit and net total keys; any other key returns the
// input order unchanged.
func SortSummaries(summaries []domain.ClientSummary, key SortKey, dir Direction) []domain.ClientSummary {
	out := make([]domain.ClientSummary, len(summaries))
	copy(out, summaries)

	var less func(a, b domain.ClientSummary) bool
	switch key {
	case SortByClientName:
		less = func(a, b domain.ClientSummary) bool { return a.ClientName < b.ClientName }
	case SortByTotalCredit:
		less = func(a, b domain.ClientSummary) bool { return a.TotalCredit < b.TotalCredit }
	case SortByTotalDebit:
		less = func(a, b domain.ClientSummary) bool { return a.TotalDebit < b.TotalDebit }
	case SortByNetTotal:
		less = func(a, b domain.ClientSummary) bool { return a.NetTotal < b.NetTotal }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

// Totals re-reduces a summary set into grand totals. It must be invoked on
// whatever subset filtering produced; filtered totals are a fresh reduction,
// not a slice of the unfiltered ones.
func Totals(summaries []domain.ClientSummary) domain.SummaryTotals {
	var t domain.SummaryTotals
	for _, s := range summaries {
		t.TotalCredit += s.TotalCredit
		t.CreditCount += s.CreditCount
		t.TotalDebit += s.TotalDebit
		t.DebitCount += s.DebitCount
	}
	t.NetTotal = t.TotalCredit - t.TotalDebit
	return t
}
