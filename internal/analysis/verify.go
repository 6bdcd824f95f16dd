package analysis

import (
	"math"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

// Verify recomputes the closing balance from the statement's opening balance
// and the grand credit/debit totals, then compares it against the declared
// closing balance within the fixed tolerance.
//
// Callers must pass the full, unfiltered summary set — never a search-filtered
// subset. An empty summary set is valid input: the calculated closing balance
// is then simply the opening balance. Verification against a statement that
// was never analyzed is the caller's concern; there is nothing to verify
// before an analysis exists.
func Verify(opening, closing float64, summaries []domain.ClientSummary) domain.BalanceVerification {
	var credits, debits float64
	for _, s := range summaries {
		credits += s.TotalCredit
		debits += s.TotalDebit
	}

	calculated := opening + credits - debits
	diff := calculated - closing

	return domain.BalanceVerification{
		CalculatedClosing: calculated,
		Difference:        diff,
		IsMatch:           math.Abs(diff) < domain.Tolerance,
	}
}
