package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

func sample(id string, created time.Time) *Analysis {
	return &Analysis{
		ID:        id,
		CreatedAt: created,
		Result:    domain.AnalysisResult{StatementPeriod: "Jan 2025"},
		Summaries: []domain.ClientSummary{{ClientName: "Acme", TotalCredit: 100}},
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	s := New()
	require.NoError(t, s.Save(sample("a1", time.Now())))

	got, err := s.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, "Jan 2025", got.Result.StatementPeriod)
	require.Len(t, got.Summaries, 1)
}

func TestStore_SaveRequiresID(t *testing.T) {
	s := New()
	assert.Error(t, s.Save(&Analysis{}))
}

func TestStore_GetNotFound(t *testing.T) {
	s := New()
	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := New()
	require.NoError(t, s.Save(sample("a1", time.Now())))

	first, err := s.Get("a1")
	require.NoError(t, err)
	first.Summaries[0].TotalCredit = 999

	second, err := s.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, second.Summaries[0].TotalCredit, "mutating a returned copy must not touch stored state")
}

func TestStore_AttachReconciliation(t *testing.T) {
	s := New()
	require.NoError(t, s.Save(sample("a1", time.Now())))

	expected := []domain.ExpectedPayment{{ClientName: "Acme", Amount: 100}}
	statuses := []domain.PaymentStatus{{ClientName: "Acme", Status: domain.StatusPaid}}
	require.NoError(t, s.AttachReconciliation("a1", expected, statuses))

	got, err := s.Get("a1")
	require.NoError(t, err)
	require.Len(t, got.Statuses, 1)
	assert.Equal(t, domain.StatusPaid, got.Statuses[0].Status)

	assert.ErrorIs(t, s.AttachReconciliation("nope", expected, statuses), ErrNotFound)
}

func TestStore_ListNewestFirstWithPaging(t *testing.T) {
	s := New()
	base := time.Now()
	require.NoError(t, s.Save(sample("old", base.Add(-2*time.Hour))))
	require.NoError(t, s.Save(sample("mid", base.Add(-1*time.Hour))))
	require.NoError(t, s.Save(sample("new", base)))

	all := s.List(ListFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "old", all[2].ID)

	page := s.List(ListFilter{Limit: 1, Offset: 1})
	require.Len(t, page, 1)
	assert.Equal(t, "mid", page[0].ID)

	assert.Empty(t, s.List(ListFilter{Offset: 5}))
}
