package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

func credit(client string, amount float64, date string) domain.Transaction {
	return domain.Transaction{ClientName: client, Amount: amount, Type: domain.TypeCredit, Date: date}
}

func debit(client string, amount float64, date string) domain.Transaction {
	return domain.Transaction{ClientName: client, Amount: amount, Type: domain.TypeDebit, Date: date}
}

func TestAggregate_Empty(t *testing.T) {
	summaries, trends := Aggregate(nil)
	assert.Empty(t, summaries)
	assert.Empty(t, trends)
	assert.NotNil(t, summaries)
	assert.NotNil(t, trends)
}

func TestAggregate_SummariesAndTrends(t *testing.T) {
	txs := []domain.Transaction{
		credit("Acme", 500, "2025-01-10"),
		debit("Acme", 200, "2025-01-20"),
		credit("Acme", 300, "2025-02-05"),
		credit("Beta Ltd", 100, "2025-01-15"),
	}

	summaries, trends := Aggregate(txs)

	require.Len(t, summaries, 2)
	acme := summaries[0]
	assert.Equal(t, "Acme", acme.ClientName)
	assert.Equal(t, 800.0, acme.TotalCredit)
	assert.Equal(t, 2, acme.CreditCount)
	assert.Equal(t, 200.0, acme.TotalDebit)
	assert.Equal(t, 1, acme.DebitCount)
	assert.Equal(t, 600.0, acme.NetTotal)

	beta := summaries[1]
	assert.Equal(t, "Beta Ltd", beta.ClientName)
	assert.Equal(t, 100.0, beta.NetTotal)

	require.Len(t, trends, 3)
	byKey := make(map[string]domain.ClientMonthlyTrend)
	for _, tr := range trends {
		byKey[tr.ClientName+"|"+tr.Month] = tr
	}
	jan := byKey["Acme|2025-01"]
	assert.Equal(t, 500.0, jan.TotalCredit)
	assert.Equal(t, 200.0, jan.TotalDebit)
	assert.Equal(t, 300.0, jan.NetChange)
	feb := byKey["Acme|2025-02"]
	assert.Equal(t, 300.0, feb.NetChange)
}

func TestAggregate_SummariesSortedByClientName(t *testing.T) {
	txs := []domain.Transaction{
		credit("zeta", 1, "2025-01-01"),
		credit("Acme", 1, "2025-01-01"),
		credit("beta", 1, "2025-01-01"),
	}
	summaries, _ := Aggregate(txs)
	require.Len(t, summaries, 3)

	names := []string{summaries[0].ClientName, summaries[1].ClientName, summaries[2].ClientName}
	// Locale-aware comparison orders case-insensitively, unlike byte order.
	assert.Equal(t, []string{"Acme", "beta", "zeta"}, names)
}

func TestAggregate_InvalidDateExcludedFromTrendsOnly(t *testing.T) {
	txs := []domain.Transaction{
		credit("X", 10, "not-a-date"),
	}
	summaries, trends := Aggregate(txs)

	require.Len(t, summaries, 1)
	assert.Equal(t, 10.0, summaries[0].TotalCredit)
	assert.Equal(t, 1, summaries[0].CreditCount)
	assert.Empty(t, trends)
}

func TestAggregate_ZeroAmountStillCounted(t *testing.T) {
	txs := []domain.Transaction{
		credit("X", 0, "2025-03-01"),
		debit("X", 0, "2025-03-02"),
	}
	summaries, trends := Aggregate(txs)

	require.Len(t, summaries, 1)
	assert.Equal(t, 0.0, summaries[0].TotalCredit)
	assert.Equal(t, 1, summaries[0].CreditCount)
	assert.Equal(t, 1, summaries[0].DebitCount)
	require.Len(t, trends, 1)
	assert.Equal(t, 0.0, trends[0].NetChange)
}

// Aggregation is an additive fold: aggregating two halves of a list and
// summing the corresponding fields must equal aggregating the whole list.
func TestAggregate_Additivity(t *testing.T) {
	full := []domain.Transaction{
		credit("Acme", 500, "2025-01-10"),
		debit("Acme", 200, "2025-01-20"),
		credit("Beta", 100, "2025-02-15"),
		debit("Beta", 40, "2025-02-16"),
		credit("Acme", 300, "bad-date"),
	}

	for split := 0; split <= len(full); split++ {
		whole, _ := Aggregate(full)
		left, _ := Aggregate(full[:split])
		right, _ := Aggregate(full[split:])

		merged := make(map[string]domain.ClientSummary)
		for _, s := range append(left, right...) {
			m := merged[s.ClientName]
			m.ClientName = s.ClientName
			m.TotalCredit += s.TotalCredit
			m.CreditCount += s.CreditCount
			m.TotalDebit += s.TotalDebit
			m.DebitCount += s.DebitCount
			m.NetTotal = m.TotalCredit - m.TotalDebit
			merged[s.ClientName] = m
		}

		require.Len(t, merged, len(whole), "split at %d", split)
		for _, w := range whole {
			assert.Equal(t, w, merged[w.ClientName], "split at %d", split)
		}
	}
}

func TestValidDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2025-01-31", true},
		{"2025-1-31", false},
		{"not-a-date", false},
		{"", false},
		{"2025-13-45", false}, // right shape, not a real date
		{"2025-02-29", false}, // 2025 is not a leap year
		{"2024-02-29", true},
		{"2025-01-31T00:00:00", false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidDate(tt.date))
		})
	}
}
