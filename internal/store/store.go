// Package store keeps completed analyses in memory for the lifetime of the
// process. It replaces the ad-hoc "cached analysis in browser storage" idea
// with an explicit object that is constructed once and passed to whoever
// needs it; nothing in this package is ambient global state.
package store

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/dvloznov/statement-analyzer/internal/domain"
)

// ErrNotFound is returned when no analysis exists for the given ID.
var ErrNotFound = errors.New("analysis not found")

// Analysis is one completed statement analysis plus its derived records.
// Expected and Statuses stay nil until a reconciliation has been attached.
type Analysis struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Source is the raw statement text the analysis was produced from. It is
	// kept for operator inspection but never serialized into API responses.
	Source string `json:"-"`

	Result       domain.AnalysisResult       `json:"result"`
	Summaries    []domain.ClientSummary      `json:"summaries"`
	Trends       []domain.ClientMonthlyTrend `json:"trends"`
	Verification domain.BalanceVerification  `json:"verification"`

	Expected []domain.ExpectedPayment `json:"expected,omitempty"`
	Statuses []domain.PaymentStatus   `json:"statuses,omitempty"`
}

// clone copies the analysis so callers can never mutate stored state through
// a returned pointer. Record slices hold value types, so a slice clone is a
// full copy.
func (a *Analysis) clone() *Analysis {
	c := *a
	c.Result.Transactions = slices.Clone(a.Result.Transactions)
	c.Summaries = slices.Clone(a.Summaries)
	c.Trends = slices.Clone(a.Trends)
	c.Expected = slices.Clone(a.Expected)
	c.Statuses = slices.Clone(a.Statuses)
	return &c
}

// Store is an in-memory analysis store, safe for concurrent use.
// Data is lost on service restart.
type Store struct {
	mu       sync.RWMutex
	analyses map[string]*Analysis
}

// New creates an empty Store.
func New() *Store {
	return &Store{analyses: make(map[string]*Analysis)}
}

// Save stores or replaces an analysis.
func (s *Store) Save(a *Analysis) error {
	if a.ID == "" {
		return fmt.Errorf("store.Save: analysis ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[a.ID] = a.clone()
	return nil
}

// Get retrieves an analysis by ID.
func (s *Store) Get(id string) (*Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id]
	if !ok {
		return nil, fmt.Errorf("store.Get %s: %w", id, ErrNotFound)
	}
	return a.clone(), nil
}

// AttachReconciliation records the expected-payments list and the statuses
// computed from it on an existing analysis.
func (s *Store) AttachReconciliation(id string, expected []domain.ExpectedPayment, statuses []domain.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.analyses[id]
	if !ok {
		return fmt.Errorf("store.AttachReconciliation %s: %w", id, ErrNotFound)
	}
	a.Expected = slices.Clone(expected)
	a.Statuses = slices.Clone(statuses)
	return nil
}

// ListFilter narrows and pages List results.
type ListFilter struct {
	Limit  int
	Offset int
}

// List returns stored analyses, newest first.
func (s *Store) List(filter ListFilter) []*Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Analysis, 0, len(s.analyses))
	for _, a := range s.analyses {
		result = append(result, a.clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*Analysis{}
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result
}
