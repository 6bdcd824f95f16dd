package analysis

import (
	"math"
	"strings"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

// normalizeClientName lowercases and trims a client name so that
// reconciliation matching tolerates case and stray whitespace differences
// between the statement and the expected-payments sheet.
func normalizeClientName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Reconcile matches an expected-payments list against aggregated per-client
// credit totals. Each expected payment yields exactly one PaymentStatus, in
// input order; unmatched rows are classified Not Paid rather than dropped.
// Debits never count toward "paid".
//
// Reconciliation is an optional enrichment step: callers skip it entirely
// when either list is missing, they never treat that as an error.
func Reconcile(summaries []domain.ClientSummary, expected []domain.ExpectedPayment) []domain.PaymentStatus {
	byName := make(map[string]domain.ClientSummary, len(summaries))
	for _, s := range summaries {
		byName[normalizeClientName(s.ClientName)] = s
	}

	statuses := make([]domain.PaymentStatus, 0, len(expected))
	for _, ep := range expected {
		var paid float64
		if s, ok := byName[normalizeClientName(ep.ClientName)]; ok {
			paid = s.TotalCredit
		}

		statuses = append(statuses, domain.PaymentStatus{
			ClientName:     ep.ClientName,
			ExpectedAmount: ep.Amount,
			PaidAmount:     paid,
			Difference:     paid - ep.Amount,
			Status:         classifyPayment(paid, ep.Amount),
			Extra:          ep.Extra,
		})
	}
	return statuses
}

// classifyPayment derives the payment status. The rules are evaluated in
// this exact order, first match wins:
//
//  1. nothing received at all      -> Not Paid
//  2. received within tolerance    -> Paid
//  3. received less than expected  -> Partial Payment
//  4. received more than expected  -> Payment Exceeded
func classifyPayment(paid, expected float64) domain.PaymentState {
	switch diff := paid - expected; {
	case paid == 0:
		return domain.StatusNotPaid
	case math.Abs(diff) < domain.Tolerance:
		return domain.StatusPaid
	case diff < 0:
		return domain.StatusPartialPayment
	default:
		return domain.StatusPaymentExceeded
	}
}
