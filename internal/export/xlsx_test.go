package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

func TestReportXLSX(t *testing.T) {
	report := Report{
		Result: domain.AnalysisResult{
			StatementPeriod: "Jan 2025",
			OpeningBalance:  1000,
			ClosingBalance:  1300,
			Transactions: []domain.Transaction{
				{ClientName: "Acme", Amount: 500, Type: domain.TypeCredit, Date: "2025-01-10"},
				{ClientName: "Acme", Amount: 200, Type: domain.TypeDebit, Date: "2025-01-20"},
			},
		},
		Summaries: []domain.ClientSummary{
			{ClientName: "Acme", TotalCredit: 500, CreditCount: 1, TotalDebit: 200, DebitCount: 1, NetTotal: 300},
		},
		Trends: []domain.ClientMonthlyTrend{
			{ClientName: "Acme", Month: "2025-01", TotalCredit: 500, TotalDebit: 200, NetChange: 300},
		},
		Verification: domain.BalanceVerification{CalculatedClosing: 1300, Difference: 0, IsMatch: true},
		Statuses: []domain.PaymentStatus{
			{ClientName: "Acme", ExpectedAmount: 500, PaidAmount: 500, Status: domain.StatusPaid},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, ReportXLSX(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t,
		[]string{"Statement", "Client Summaries", "Monthly Trends", "Reconciliation"},
		f.GetSheetList())

	period, err := f.GetCellValue("Statement", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Jan 2025", period)

	verdict, err := f.GetCellValue("Statement", "B6")
	require.NoError(t, err)
	assert.Equal(t, "OK", verdict)

	client, err := f.GetCellValue("Client Summaries", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Acme", client)

	net, err := f.GetCellValue("Client Summaries", "F2")
	require.NoError(t, err)
	assert.Equal(t, "300", net)

	status, err := f.GetCellValue("Reconciliation", "E2")
	require.NoError(t, err)
	assert.Equal(t, "Paid", status)
}

func TestReportXLSX_NoReconciliationSheetWhenSkipped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ReportXLSX(&buf, Report{}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.NotContains(t, f.GetSheetList(), "Reconciliation")
	assert.Contains(t, f.GetSheetList(), "Statement")
}
