package domain

// TransactionType says which direction money moved: into the account
// (credit) or out of it (debit).
type TransactionType string

const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

// Transaction represents one normalized movement produced by the model.
// Amount is always a non-negative magnitude; the direction is carried by Type.
type Transaction struct {
	ClientName string          `json:"clientName"` // canonical identity or generic description label
	Amount     float64         `json:"amount"`
	Type       TransactionType `json:"type"`
	Date       string          `json:"date"` // "YYYY-MM-DD"; may be malformed, see analysis.ValidDate
}

// AnalysisResult is the structured statement the model extracts from raw
// text: the header plus the full transaction list. The analyzer treats it
// as read-only input.
type AnalysisResult struct {
	StatementPeriod string        `json:"statementPeriod"`
	OpeningBalance  float64       `json:"openingBalance"`
	ClosingBalance  float64       `json:"closingBalance"`
	Transactions    []Transaction `json:"transactions"`
}
