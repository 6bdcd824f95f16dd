// Package handlers implements the HTTP endpoints for statement analyses:
// submission, retrieval with filter/sort queries, reconciliation uploads
// and report export.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-analyzer/internal/analysis"
	"github.com/dvloznov/statement-analyzer/internal/api/middleware"
	"github.com/dvloznov/statement-analyzer/internal/domain"
	"github.com/dvloznov/statement-analyzer/internal/expected"
	"github.com/dvloznov/statement-analyzer/internal/export"
	"github.com/dvloznov/statement-analyzer/internal/jobs"
	"github.com/dvloznov/statement-analyzer/internal/pipeline"
	"github.com/dvloznov/statement-analyzer/internal/store"
)

// AnalysesHandler handles analysis-related endpoints.
type AnalysesHandler struct {
	store     *store.Store
	analyzer  *pipeline.Analyzer
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewAnalysesHandler creates a new analyses handler.
func NewAnalysesHandler(st *store.Store, analyzer *pipeline.Analyzer, publisher jobs.Publisher, log zerolog.Logger) *AnalysesHandler {
	return &AnalysesHandler{
		store:     st,
		analyzer:  analyzer,
		publisher: publisher,
		log:       log,
	}
}

// CreateAnalysis handles POST /api/analyses.
// The default path enqueues a background job and returns 202; ?sync=1 runs
// the pipeline inline and returns the completed analysis.
func (h *AnalysesHandler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Statement text is required")
		return
	}

	analysisID := uuid.New().String()

	if r.URL.Query().Get("sync") == "1" {
		a, err := h.runAnalysis(r, analysisID, req.Text)
		if err != nil {
			h.log.Error().Err(err).Msg("Synchronous analysis failed")
			middleware.WriteError(w, http.StatusUnprocessableEntity, "Analysis failed: "+err.Error())
			return
		}
		middleware.WriteJSON(w, http.StatusOK, a)
		return
	}

	job := &jobs.AnalyzeStatementJob{
		AnalysisID:    analysisID,
		StatementText: req.Text,
	}
	if err := h.publisher.PublishAnalyzeStatement(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue analysis job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue analysis")
		return
	}

	h.log.Info().
		Str("analysis_id", analysisID).
		Str("job_id", job.JobID).
		Int("text_bytes", len(req.Text)).
		Msg("Analysis enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"analysis_id": analysisID,
		"job_id":      job.JobID,
		"status":      string(job.Status),
	})
}

// runAnalysis executes the pipeline inline and stores the outcome.
func (h *AnalysesHandler) runAnalysis(r *http.Request, analysisID, text string) (*store.Analysis, error) {
	outcome, err := h.analyzer.AnalyzeStatement(r.Context(), text)
	if err != nil {
		return nil, err
	}

	a := &store.Analysis{
		ID:           analysisID,
		CreatedAt:    time.Now(),
		Source:       text,
		Result:       outcome.Result,
		Summaries:    outcome.Summaries,
		Trends:       outcome.Trends,
		Verification: outcome.Verification,
	}
	if err := h.store.Save(a); err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}
	return a, nil
}

// ListAnalyses handles GET /api/analyses.
func (h *AnalysesHandler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	analyses := h.store.List(store.ListFilter{Limit: limit, Offset: offset})

	infos := make([]map[string]interface{}, 0, len(analyses))
	for _, a := range analyses {
		infos = append(infos, map[string]interface{}{
			"id":               a.ID,
			"created_at":       a.CreatedAt,
			"statement_period": a.Result.StatementPeriod,
			"transactions":     len(a.Result.Transactions),
			"clients":          len(a.Summaries),
			"balance_match":    a.Verification.IsMatch,
			"reconciled":       a.Statuses != nil,
		})
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": infos,
		"count":    len(infos),
	})
}

// GetAnalysis handles GET /api/analyses/{id}.
func (h *AnalysesHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	a, ok := h.lookup(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, a)
}

// GetSummaries handles GET /api/analyses/{id}/summaries.
// The ?q= filter narrows by client name and the totals are re-reduced over
// the filtered subset, never sliced from the grand totals.
func (h *AnalysesHandler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	a, ok := h.lookup(w, r)
	if !ok {
		return
	}

	filtered := analysis.FilterSummaries(a.Summaries, r.URL.Query().Get("q"))

	sortKey, sortDir, err := parseSortParams(r, summarySortKeys)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if sortKey != "" {
		filtered = analysis.SortSummaries(filtered, sortKey, sortDir)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"summaries": filtered,
		"totals":    analysis.Totals(filtered),
		"count":     len(filtered),
	})
}

// GetTrends handles GET /api/analyses/{id}/trends.
func (h *AnalysesHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	a, ok := h.lookup(w, r)
	if !ok {
		return
	}

	trends := analysis.FilterTrends(a.Trends, r.URL.Query().Get("q"))

	sortKey, sortDir, err := parseSortParams(r, trendSortKeys)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if sortKey == "" {
		// Default presentation order; callers override via sortKey/sortDir.
		trends = analysis.SortTrends(trends, analysis.SortByMonth, analysis.Ascending)
	} else {
		trends = analysis.SortTrends(trends, sortKey, sortDir)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"trends": trends,
		"count":  len(trends),
	})
}

// GetVerification handles GET /api/analyses/{id}/verification.
// There is no verdict to serve before an analysis exists; that case is a
// 404 on the analysis itself, never a zeroed verification record.
func (h *AnalysesHandler) GetVerification(w http.ResponseWriter, r *http.Request) {
	a, ok := h.lookup(w, r)
	if !ok {
		return
	}
	middleware.WriteJSON(w, http.StatusOK, a.Verification)
}

// Reconcile handles POST /api/analyses/{id}/reconcile.
// Accepts either a multipart upload ("file" field, CSV or Excel) or a JSON
// array of expected payments.
func (h *AnalysesHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	a, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if len(a.Summaries) == 0 {
		// Reconciliation is an enrichment step over aggregated credits;
		// with no summaries there is nothing to match against.
		middleware.WriteError(w, http.StatusConflict, "Analysis has no client summaries to reconcile against")
		return
	}

	expectedPayments, err := h.readExpectedPayments(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(expectedPayments) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "No usable expected-payment rows found")
		return
	}

	statuses := analysis.Reconcile(a.Summaries, expectedPayments)

	if err := h.store.AttachReconciliation(a.ID, expectedPayments, statuses); err != nil {
		h.log.Error().Err(err).Str("analysis_id", a.ID).Msg("Failed to store reconciliation")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to store reconciliation")
		return
	}

	h.log.Info().
		Str("analysis_id", a.ID).
		Int("expected", len(expectedPayments)).
		Msg("Reconciliation completed")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"statuses": statuses,
		"count":    len(statuses),
	})
}

func (h *AnalysesHandler) readExpectedPayments(r *http.Request) ([]domain.ExpectedPayment, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "application/json") {
		var payments []domain.ExpectedPayment
		if err := json.NewDecoder(r.Body).Decode(&payments); err != nil {
			return nil, fmt.Errorf("invalid expected-payments JSON: %w", err)
		}
		return payments, nil
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("file field is required: %w", err)
	}
	defer file.Close()

	payments, err := expected.Parse(header.Filename, file)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// Export handles GET /api/analyses/{id}/export.
// ?format=xlsx returns the full workbook; ?format=csv requires
// ?table=summaries|trends|statuses.
func (h *AnalysesHandler) Export(w http.ResponseWriter, r *http.Request) {
	a, ok := h.lookup(w, r)
	if !ok {
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "xlsx":
		var buf bytes.Buffer
		err := export.ReportXLSX(&buf, export.Report{
			Result:       a.Result,
			Summaries:    a.Summaries,
			Trends:       a.Trends,
			Verification: a.Verification,
			Statuses:     a.Statuses,
		})
		if err != nil {
			h.log.Error().Err(err).Str("analysis_id", a.ID).Msg("XLSX export failed")
			middleware.WriteError(w, http.StatusInternalServerError, "Export failed")
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "analysis-"+a.ID+".xlsx"))
		_, _ = w.Write(buf.Bytes())

	case "csv":
		table := r.URL.Query().Get("table")
		var buf bytes.Buffer
		var err error
		switch table {
		case "summaries":
			err = export.SummariesCSV(&buf, a.Summaries)
		case "trends":
			err = export.TrendsCSV(&buf, a.Trends)
		case "statuses":
			err = export.StatusesCSV(&buf, a.Statuses)
		default:
			middleware.WriteError(w, http.StatusBadRequest, "table must be summaries, trends or statuses")
			return
		}
		if err != nil {
			h.log.Error().Err(err).Str("analysis_id", a.ID).Str("table", table).Msg("CSV export failed")
			middleware.WriteError(w, http.StatusInternalServerError, "Export failed")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table+"-"+a.ID+".csv"))
		_, _ = w.Write(buf.Bytes())

	default:
		middleware.WriteError(w, http.StatusBadRequest, "format must be csv or xlsx")
	}
}

// lookup fetches the analysis named in the path, writing the error response
// itself when it is missing.
func (h *AnalysesHandler) lookup(w http.ResponseWriter, r *http.Request) (*store.Analysis, bool) {
	id := r.PathValue("id")
	a, err := h.store.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Analysis not found")
		} else {
			h.log.Error().Err(err).Str("analysis_id", id).Msg("Failed to load analysis")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to load analysis")
		}
		return nil, false
	}
	return a, true
}

var trendSortKeys = []analysis.SortKey{
	analysis.SortByClientName, analysis.SortByMonth, analysis.SortByTotalCredit,
	analysis.SortByTotalDebit, analysis.SortByNetChange,
}

var summarySortKeys = []analysis.SortKey{
	analysis.SortByClientName, analysis.SortByTotalCredit,
	analysis.SortByTotalDebit, analysis.SortByNetTotal,
}

func parseSortParams(r *http.Request, allowed []analysis.SortKey) (analysis.SortKey, analysis.Direction, error) {
	keyParam := r.URL.Query().Get("sortKey")
	if keyParam == "" {
		return "", analysis.Ascending, nil
	}

	key := analysis.SortKey(keyParam)
	if !slices.Contains(allowed, key) {
		return "", "", fmt.Errorf("unknown sortKey %q", keyParam)
	}

	switch dir := r.URL.Query().Get("sortDir"); dir {
	case "", "asc", "ascending":
		return key, analysis.Ascending, nil
	case "desc", "descending":
		return key, analysis.Descending, nil
	default:
		return "", "", fmt.Errorf("sortDir must be ascending or descending, got %q", dir)
	}
}
