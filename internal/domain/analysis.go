package domain

// Tolerance is the absolute difference below which two currency amounts are
// considered equal, in the statement's currency unit. It applies to both
// balance verification and payment reconciliation.
const Tolerance = 0.01

// ClientSummary is one row per distinct client name in the transaction list.
type ClientSummary struct {
	ClientName  string  `json:"clientName"`
	TotalCredit float64 `json:"totalCredit"`
	CreditCount int     `json:"creditCount"`
	TotalDebit  float64 `json:"totalDebit"`
	DebitCount  int     `json:"debitCount"`
	NetTotal    float64 `json:"netTotal"` // TotalCredit - TotalDebit
}

// ClientMonthlyTrend is one row per (client, month) pair. Month is the
// "YYYY-MM" prefix of the transaction date, kept as a plain string so that
// lexicographic order equals chronological order for well-formed dates.
type ClientMonthlyTrend struct {
	ClientName  string  `json:"clientName"`
	Month       string  `json:"month"`
	TotalCredit float64 `json:"totalCredit"`
	TotalDebit  float64 `json:"totalDebit"`
	NetChange   float64 `json:"netChange"` // TotalCredit - TotalDebit
}

// SummaryTotals is the additive reduction over a set of client summaries.
// It is recomputed over whatever subset filtering produced, never sliced
// out of the unfiltered grand totals.
type SummaryTotals struct {
	TotalCredit float64 `json:"totalCredit"`
	CreditCount int     `json:"creditCount"`
	TotalDebit  float64 `json:"totalDebit"`
	DebitCount  int     `json:"debitCount"`
	NetTotal    float64 `json:"netTotal"`
}

// BalanceVerification compares the declared closing balance against the
// closing balance recomputed from the grand totals.
type BalanceVerification struct {
	CalculatedClosing float64 `json:"calculatedClosing"` // opening + credits - debits
	Difference        float64 `json:"difference"`        // CalculatedClosing - declared closing
	IsMatch           bool    `json:"isMatch"`           // |Difference| < Tolerance
}
