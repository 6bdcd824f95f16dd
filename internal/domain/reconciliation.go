package domain

// PaymentState classifies how an expected payment compares to what was
// actually received.
type PaymentState string

const (
	StatusNotPaid         PaymentState = "Not Paid"
	StatusPaid            PaymentState = "Paid"
	StatusPartialPayment  PaymentState = "Partial Payment"
	StatusPaymentExceeded PaymentState = "Payment Exceeded"
)

// Field is one passthrough column from the expected-payments source that the
// analyzer does not interpret (due dates, invoice numbers, notes). Order is
// preserved from the source document.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ExpectedPayment is one row of the externally supplied "who owes what" list.
// Extra carries every source column other than the client name and amount,
// verbatim and in source order.
type ExpectedPayment struct {
	ClientName string  `json:"clientName"`
	Amount     float64 `json:"amount"` // expected amount owed, positive
	Extra      []Field `json:"extra,omitempty"`
}

// PaymentStatus is the reconciliation verdict for one expected payment.
// There is exactly one PaymentStatus per ExpectedPayment, in input order,
// even when no client summary matched.
type PaymentStatus struct {
	ClientName     string       `json:"clientName"`
	ExpectedAmount float64      `json:"expectedAmount"`
	PaidAmount     float64      `json:"paidAmount"` // matched summary's TotalCredit, else 0
	Difference     float64      `json:"difference"` // PaidAmount - ExpectedAmount, always reported
	Status         PaymentState `json:"status"`
	Extra          []Field      `json:"extra,omitempty"`
}
