package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

func TestReconcile_Classification(t *testing.T) {
	summaries := []domain.ClientSummary{{ClientName: "Acme", TotalCredit: 1000}}

	tests := []struct {
		name       string
		expected   domain.ExpectedPayment
		wantStatus domain.PaymentState
		wantPaid   float64
		wantDiff   float64
	}{
		{
			name:       "paid in full",
			expected:   domain.ExpectedPayment{ClientName: "Acme", Amount: 1000},
			wantStatus: domain.StatusPaid,
			wantPaid:   1000,
			wantDiff:   0,
		},
		{
			name:       "partial payment",
			expected:   domain.ExpectedPayment{ClientName: "Acme", Amount: 1500},
			wantStatus: domain.StatusPartialPayment,
			wantPaid:   1000,
			wantDiff:   -500,
		},
		{
			name:       "payment exceeded",
			expected:   domain.ExpectedPayment{ClientName: "Acme", Amount: 700},
			wantStatus: domain.StatusPaymentExceeded,
			wantPaid:   1000,
			wantDiff:   300,
		},
		{
			name:       "no matching client",
			expected:   domain.ExpectedPayment{ClientName: "Ghost", Amount: 100},
			wantStatus: domain.StatusNotPaid,
			wantPaid:   0,
			wantDiff:   -100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statuses := Reconcile(summaries, []domain.ExpectedPayment{tt.expected})
			require.Len(t, statuses, 1)
			st := statuses[0]
			assert.Equal(t, tt.wantStatus, st.Status)
			assert.Equal(t, tt.wantPaid, st.PaidAmount)
			assert.Equal(t, tt.wantDiff, st.Difference)
			assert.Equal(t, tt.expected.ClientName, st.ClientName)
			assert.Equal(t, tt.expected.Amount, st.ExpectedAmount)
		})
	}
}

func TestReconcile_CaseInsensitiveTrimmedMatch(t *testing.T) {
	summaries := []domain.ClientSummary{{ClientName: "Acme ", TotalCredit: 250}}

	statuses := Reconcile(summaries, []domain.ExpectedPayment{{ClientName: "ACME", Amount: 250}})

	require.Len(t, statuses, 1)
	assert.Equal(t, domain.StatusPaid, statuses[0].Status)
	assert.Equal(t, 250.0, statuses[0].PaidAmount)
}

func TestReconcile_DebitsNeverCountAsPaid(t *testing.T) {
	summaries := []domain.ClientSummary{{ClientName: "Acme", TotalCredit: 0, TotalDebit: 500}}

	statuses := Reconcile(summaries, []domain.ExpectedPayment{{ClientName: "Acme", Amount: 100}})

	require.Len(t, statuses, 1)
	assert.Equal(t, domain.StatusNotPaid, statuses[0].Status)
	assert.Equal(t, 0.0, statuses[0].PaidAmount)
}

func TestReconcile_WithinTolerance(t *testing.T) {
	summaries := []domain.ClientSummary{{ClientName: "Acme", TotalCredit: 99.995}}

	statuses := Reconcile(summaries, []domain.ExpectedPayment{{ClientName: "Acme", Amount: 100}})

	require.Len(t, statuses, 1)
	assert.Equal(t, domain.StatusPaid, statuses[0].Status)
	assert.InDelta(t, -0.005, statuses[0].Difference, 1e-9)
}

func TestReconcile_PreservesInputOrderAndExtras(t *testing.T) {
	summaries := []domain.ClientSummary{{ClientName: "Beta", TotalCredit: 50}}
	expected := []domain.ExpectedPayment{
		{ClientName: "Zed", Amount: 10, Extra: []domain.Field{{Name: "Due Date", Value: "2025-04-01"}, {Name: "Invoice", Value: "INV-7"}}},
		{ClientName: "Beta", Amount: 50},
		{ClientName: "Alpha", Amount: 20},
	}

	statuses := Reconcile(summaries, expected)

	require.Len(t, statuses, 3)
	assert.Equal(t, "Zed", statuses[0].ClientName)
	assert.Equal(t, "Beta", statuses[1].ClientName)
	assert.Equal(t, "Alpha", statuses[2].ClientName)
	// Passthrough fields survive verbatim and in order.
	require.Len(t, statuses[0].Extra, 2)
	assert.Equal(t, domain.Field{Name: "Due Date", Value: "2025-04-01"}, statuses[0].Extra[0])
	assert.Equal(t, domain.Field{Name: "Invoice", Value: "INV-7"}, statuses[0].Extra[1])
}

func TestReconcile_EmptyExpectedList(t *testing.T) {
	summaries := []domain.ClientSummary{{ClientName: "Acme", TotalCredit: 10}}
	statuses := Reconcile(summaries, nil)
	assert.Empty(t, statuses)
}
