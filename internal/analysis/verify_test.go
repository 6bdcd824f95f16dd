package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

func TestVerify_RoundTrip(t *testing.T) {
	summaries, _ := Aggregate([]domain.Transaction{
		credit("A", 500, "2025-01-01"),
		debit("A", 200, "2025-01-02"),
	})

	v := Verify(1000, 1300, summaries)

	assert.Equal(t, 1300.0, v.CalculatedClosing)
	assert.Equal(t, 0.0, v.Difference)
	assert.True(t, v.IsMatch)
}

func TestVerify_MismatchDetection(t *testing.T) {
	summaries, _ := Aggregate([]domain.Transaction{
		credit("A", 500, "2025-01-01"),
		debit("A", 200, "2025-01-02"),
	})

	v := Verify(1000, 1250, summaries)

	assert.Equal(t, 1300.0, v.CalculatedClosing)
	assert.Equal(t, 50.0, v.Difference)
	assert.False(t, v.IsMatch)
}

func TestVerify_EmptySummaries(t *testing.T) {
	// No transactions is a valid statement: calculated closing = opening.
	v := Verify(1000, 1000, nil)

	assert.Equal(t, 1000.0, v.CalculatedClosing)
	assert.True(t, v.IsMatch)
}

func TestVerify_WithinTolerance(t *testing.T) {
	summaries := []domain.ClientSummary{{ClientName: "A", TotalCredit: 100.005}}

	v := Verify(0, 100, summaries)

	assert.InDelta(t, 0.005, v.Difference, 1e-9)
	assert.True(t, v.IsMatch, "differences below 0.01 are treated as equal")
}
