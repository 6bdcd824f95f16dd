package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

func TestSummariesCSV(t *testing.T) {
	var buf bytes.Buffer
	summaries := []domain.ClientSummary{
		{ClientName: "Acme Corp", TotalCredit: 1000.5, CreditCount: 3, TotalDebit: 200, DebitCount: 1, NetTotal: 800.5},
	}

	require.NoError(t, SummariesCSV(&buf, summaries))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Client,Total Credit,Credit Count,Total Debit,Debit Count,Net Total", lines[0])
	assert.Equal(t, "Acme Corp,1000.50,3,200.00,1,800.50", lines[1])
}

func TestTrendsCSV(t *testing.T) {
	var buf bytes.Buffer
	trends := []domain.ClientMonthlyTrend{
		{ClientName: "Acme", Month: "2025-01", TotalCredit: 500, TotalDebit: 200, NetChange: 300},
	}

	require.NoError(t, TrendsCSV(&buf, trends))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Acme,2025-01,500.00,200.00,300.00", lines[1])
}

func TestStatusesCSV_WithPassthroughColumns(t *testing.T) {
	var buf bytes.Buffer
	statuses := []domain.PaymentStatus{
		{
			ClientName:     "Acme",
			ExpectedAmount: 1000,
			PaidAmount:     1000,
			Difference:     0,
			Status:         domain.StatusPaid,
			Extra:          []domain.Field{{Name: "Due Date", Value: "2025-02-01"}},
		},
		{
			ClientName:     "Ghost",
			ExpectedAmount: 100,
			PaidAmount:     0,
			Difference:     -100,
			Status:         domain.StatusNotPaid,
			Extra:          []domain.Field{{Name: "Due Date", Value: "2025-02-15"}},
		},
	}

	require.NoError(t, StatusesCSV(&buf, statuses))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Client,Expected Amount,Paid Amount,Difference,Status,Due Date", lines[0])
	assert.Equal(t, "Acme,1000.00,1000.00,0.00,Paid,2025-02-01", lines[1])
	assert.Equal(t, "Ghost,100.00,0.00,-100.00,Not Paid,2025-02-15", lines[2])
}

func TestStatusesCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, StatusesCSV(&buf, nil))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1, "header only")
}
