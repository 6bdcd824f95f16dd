package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/statement-analyzer/internal/api/handlers"
	"github.com/dvloznov/statement-analyzer/internal/api/middleware"
	"github.com/dvloznov/statement-analyzer/internal/config"
	"github.com/dvloznov/statement-analyzer/internal/jobs"
	"github.com/dvloznov/statement-analyzer/internal/jobs/inmemory"
	"github.com/dvloznov/statement-analyzer/internal/logger"
	"github.com/dvloznov/statement-analyzer/internal/pipeline"
	"github.com/dvloznov/statement-analyzer/internal/store"
)

func main() {
	cfg := config.Load()

	var (
		port    = flag.String("port", cfg.Port, "HTTP server port")
		model   = flag.String("model", cfg.Model, "Gemini model used for statement extraction")
		workers = flag.Int("workers", 4, "Number of concurrent analysis workers")
	)
	flag.Parse()

	log := logger.NewWithLevel(cfg.LogLevel)

	if err := cfg.ValidateForExtraction(); err != nil {
		log.Fatal().Err(err).Msg("Missing extraction configuration")
	}

	ctx := context.Background()

	extractor := pipeline.NewGeminiExtractor(cfg.GeminiAPIKey, *model)
	analyzer := pipeline.NewAnalyzer(extractor, log)
	analysisStore := store.New()

	// Job infrastructure: statement analysis runs in the background so the
	// submit request can return immediately.
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, *workers, jobStore)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		analyzeJob, ok := job.(*jobs.AnalyzeStatementJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("analysis_id", analyzeJob.AnalysisID).
			Msg("Processing analysis job")

		outcome, err := analyzer.AnalyzeStatement(ctx, analyzeJob.StatementText)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", analyzeJob.JobID).
				Str("analysis_id", analyzeJob.AnalysisID).
				Msg("Analysis failed")
			return err
		}

		if err := analysisStore.Save(&store.Analysis{
			ID:           analyzeJob.AnalysisID,
			CreatedAt:    time.Now(),
			Source:       analyzeJob.StatementText,
			Result:       outcome.Result,
			Summaries:    outcome.Summaries,
			Trends:       outcome.Trends,
			Verification: outcome.Verification,
		}); err != nil {
			return fmt.Errorf("saving analysis: %w", err)
		}

		log.Info().
			Str("job_id", analyzeJob.JobID).
			Str("analysis_id", analyzeJob.AnalysisID).
			Int("transactions", len(outcome.Result.Transactions)).
			Msg("Analysis completed")

		return nil
	}

	go func() {
		log.Info().Int("workers", *workers).Msg("Starting analysis workers")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Job worker stopped with error")
		}
	}()

	analysesHandler := handlers.NewAnalysesHandler(analysisStore, analyzer, jobQueue, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/analyses", analysesHandler.CreateAnalysis)
	mux.HandleFunc("GET /api/analyses", analysesHandler.ListAnalyses)
	mux.HandleFunc("GET /api/analyses/{id}", analysesHandler.GetAnalysis)
	mux.HandleFunc("GET /api/analyses/{id}/summaries", analysesHandler.GetSummaries)
	mux.HandleFunc("GET /api/analyses/{id}/trends", analysesHandler.GetTrends)
	mux.HandleFunc("GET /api/analyses/{id}/verification", analysesHandler.GetVerification)
	mux.HandleFunc("POST /api/analyses/{id}/reconcile", analysesHandler.Reconcile)
	mux.HandleFunc("GET /api/analyses/{id}/export", analysesHandler.Export)
	mux.HandleFunc("GET /api/jobs", jobsHandler.ListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", jobsHandler.GetJob)
	mux.HandleFunc("GET /api/health", handlers.Health)

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Str("model", *model).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
