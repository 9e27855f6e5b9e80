package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nsarda/cashlens/internal/agent"
	"github.com/nsarda/cashlens/internal/api/middleware"
	"github.com/nsarda/cashlens/internal/domain"
	"github.com/nsarda/cashlens/internal/ingest"
	"github.com/nsarda/cashlens/internal/jobs"
	"github.com/nsarda/cashlens/internal/metrics"
)

// Analytics is the engine surface the HTTP layer depends on.
// *agent.Engine satisfies it.
type Analytics interface {
	Ask(ctx context.Context, question string, prior []domain.ConversationTurn) (string, []domain.ConversationTurn)
	Dashboard(ctx context.Context) (agent.Dashboard, error)
	Simulate(ctx context.Context, in metrics.ScenarioInput) (metrics.ScenarioResult, error)
	Forecast(ctx context.Context, days int) ([]metrics.ForecastPoint, error)
	Alerts(ctx context.Context) (agent.Alerts, error)
}

// AskHandler handles the question answering endpoint.
type AskHandler struct {
	engine Analytics
	log    zerolog.Logger
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(engine Analytics, log zerolog.Logger) *AskHandler {
	return &AskHandler{engine: engine, log: log}
}

type askRequest struct {
	Question   string                    `json:"question"`
	Transcript []domain.ConversationTurn `json:"transcript,omitempty"`
}

type askResponse struct {
	Answer     string                    `json:"answer"`
	Transcript []domain.ConversationTurn `json:"transcript"`
}

// Ask handles POST /api/ask
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		middleware.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, transcript := h.engine.Ask(r.Context(), req.Question, req.Transcript)

	middleware.WriteJSON(w, http.StatusOK, askResponse{
		Answer:     answer,
		Transcript: transcript,
	})
}

// AnalyticsHandler handles the dashboard, scenario, forecast and alert
// endpoints.
type AnalyticsHandler struct {
	engine Analytics
	log    zerolog.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(engine Analytics, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{engine: engine, log: log}
}

// Dashboard handles GET /api/dashboard
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.engine.Dashboard(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to assemble dashboard")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to assemble dashboard")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dash)
}

// Simulate handles POST /api/simulate
func (h *AnalyticsHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var in metrics.ScenarioInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.engine.Simulate(r.Context(), in)
	if err != nil {
		var invalid *metrics.InvalidScenarioInputError
		if errors.As(err, &invalid) {
			middleware.WriteError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to run scenario")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to run scenario")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// Forecast handles GET /api/forecast?days=N
func (h *AnalyticsHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 0 {
			middleware.WriteError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = parsed
	}

	points, err := h.engine.Forecast(r.Context(), days)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to compute forecast")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to compute forecast")
		return
	}

	if points == nil {
		points = []metrics.ForecastPoint{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"forecast": points,
		"days":     len(points),
	})
}

// Alerts handles GET /api/alerts
func (h *AnalyticsHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.engine.Alerts(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to gather alerts")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to gather alerts")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, alerts)
}

// IngestHandler handles CSV load endpoints.
type IngestHandler struct {
	publisher jobs.Publisher
	log       zerolog.Logger
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(publisher jobs.Publisher, log zerolog.Logger) *IngestHandler {
	return &IngestHandler{publisher: publisher, log: log}
}

// EnqueueIngest handles POST /api/ingest
func (h *IngestHandler) EnqueueIngest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Table  string `json:"table"`
		GCSURI string `json:"gcs_uri"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Table == "" || req.GCSURI == "" {
		middleware.WriteError(w, http.StatusBadRequest, "table and gcs_uri are required")
		return
	}
	if !ingest.KnownTable(req.Table) {
		middleware.WriteError(w, http.StatusBadRequest, "unknown table "+req.Table)
		return
	}

	job := &jobs.IngestCSVJob{
		Table:  req.Table,
		GCSURI: req.GCSURI,
	}

	if err := h.publisher.PublishIngestCSV(r.Context(), job); err != nil {
		h.log.Error().Err(err).Msg("Failed to enqueue ingest job")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to enqueue ingest job")
		return
	}

	h.log.Info().Str("job_id", job.JobID).Str("table", req.Table).Msg("Ingest job enqueued")

	middleware.WriteJSON(w, http.StatusAccepted, map[string]string{
		"job_id": job.JobID,
		"table":  req.Table,
		"status": string(job.Status),
	})
}

// JobsHandler handles job-related endpoints.
type JobsHandler struct {
	store jobs.JobStore
	log   zerolog.Logger
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(store jobs.JobStore, log zerolog.Logger) *JobsHandler {
	return &JobsHandler{store: store, log: log}
}

// GetJob handles GET /api/jobs/{id}
func (h *JobsHandler) GetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	job, err := h.store.GetJob(r.Context(), jobID)
	if err != nil {
		h.log.Error().Err(err).Str("job_id", jobID).Msg("Failed to get job")
		middleware.WriteError(w, http.StatusNotFound, "Job not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := jobs.JobFilter{
		Table:  query.Get("table"),
		Status: jobs.JobStatus(query.Get("status")),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}

	jobsList, err := h.store.ListJobs(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list jobs")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  jobsList,
		"count": len(jobsList),
	})
}
