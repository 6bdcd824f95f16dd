package handlers

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/dvloznov/statement-analyzer/internal/api/middleware"
	"github.com/dvloznov/statement-analyzer/internal/jobs"
)

// JobsHandler serves job status for background statement analyses.
type JobsHandler struct {
	jobStore jobs.JobStore
	log      zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(jobStore jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{jobStore: jobStore, log: log}
}

// GetJob handles GET /api/jobs/{id}.
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	job, err := h.jobStore.GetJob(r.Context(), id)
	if err != nil {
		h.log.Debug().Err(err).Str("job_id", id).Msg("Job lookup failed")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs.
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	filter := jobs.JobFilter{
		AnalysisID: r.URL.Query().Get("analysis_id"),
		Status:     jobs.JobStatus(r.URL.Query().Get("status")),
		Limit:      limit,
		Offset:     offset,
	}

	list, err := h.jobStore.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  list,
		"count": len(list),
	})
}

// Health handles GET /api/health.
func Health(w http.ResponseWriter, r *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
