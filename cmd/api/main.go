package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nsarda/cashlens/internal/agent"
	"github.com/nsarda/cashlens/internal/api/handlers"
	"github.com/nsarda/cashlens/internal/api/middleware"
	"github.com/nsarda/cashlens/internal/config"
	"github.com/nsarda/cashlens/internal/ingest"
	"github.com/nsarda/cashlens/internal/jobs"
	"github.com/nsarda/cashlens/internal/jobs/inmemory"
	"github.com/nsarda/cashlens/internal/ledger"
	"github.com/nsarda/cashlens/internal/llm"
	"github.com/nsarda/cashlens/internal/logger"
)

func main() {
	log := logger.New()
	cfg := config.Load(log)

	if cfg.GCPProject == "" {
		log.Fatal().Msg("GCP_PROJECT is required")
	}
	if cfg.Bucket == "" {
		log.Warn().Msg("No GCS bucket configured - CSV ingestion will be disabled")
	}

	ctx := context.Background()

	store, err := ledger.NewBigQueryStore(ctx, cfg.GCPProject, cfg.Dataset)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create ledger store")
	}
	defer store.Close()

	completer := llm.NewGemini(cfg.GeminiModel, cfg.LLMTimeout)
	engine := agent.New(store, completer, log)

	loader := ingest.NewLoader(store.Client(), cfg.GCPProject, cfg.Dataset, log)

	// Initialize job infrastructure
	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(100, 2, jobStore)

	// Start worker in background to process jobs
	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	jobHandler := func(ctx context.Context, job jobs.Job) error {
		ingestJob, ok := job.(*jobs.IngestCSVJob)
		if !ok {
			return fmt.Errorf("unexpected job type: %T", job)
		}

		log.Info().
			Str("job_id", ingestJob.JobID).
			Str("table", ingestJob.Table).
			Str("gcs_uri", ingestJob.GCSURI).
			Msg("Processing ingest job")

		rows, err := loader.LoadFromGCS(ctx, ingestJob.Table, ingestJob.GCSURI)
		if err != nil {
			log.Error().
				Err(err).
				Str("job_id", ingestJob.JobID).
				Str("table", ingestJob.Table).
				Msg("Ingest failed")
			return err
		}

		log.Info().
			Str("job_id", ingestJob.JobID).
			Str("table", ingestJob.Table).
			Int("rows", rows).
			Msg("Ingest completed")

		return nil
	}

	go func() {
		log.Info().Msg("Starting ingest worker")
		if err := jobQueue.Start(workerCtx, jobHandler); err != nil {
			log.Error().Err(err).Msg("Ingest worker stopped with error")
		}
	}()

	// Initialize handlers
	askHandler := handlers.NewAskHandler(engine, log)
	analyticsHandler := handlers.NewAnalyticsHandler(engine, log)
	ingestHandler := handlers.NewIngestHandler(jobQueue, log)
	jobsHandler := handlers.NewJobsHandler(jobStore, log)
	chatHandler := handlers.NewChatHandler(engine, log)

	// Create router
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ask", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			askHandler.Ask(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analyticsHandler.Dashboard(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/simulate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analyticsHandler.Simulate(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/forecast", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analyticsHandler.Forecast(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/alerts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			analyticsHandler.Alerts(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/ingest", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			ingestHandler.EnqueueIngest(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobsHandler.ListJobs(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/jobs/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			jobID := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
			if jobID == "" {
				middleware.WriteError(w, http.StatusBadRequest, "Job ID is required")
				return
			}
			jobsHandler.GetJob(w, r, jobID)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Interactive chat over WebSocket; skips the REST middleware chain
	// because the connection is long-lived.
	mux.HandleFunc("/ws/chat", chatHandler.Serve)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	cancelWorker()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}

	log.Info().Msg("Server exited")
}
