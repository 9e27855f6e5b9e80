package jobs

import (
	"context"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeIngestCSV loads one CSV export from GCS into a ledger table.
	JobTypeIngestCSV JobType = "ingest_csv"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// IngestCSVJob describes one CSV-to-ledger load.
type IngestCSVJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// Table is the destination ledger table (bank_statements,
	// vendor_invoices, client_invoices, payroll, expense_receipts).
	Table string `json:"table"`

	// GCSURI points at the CSV export, "gs://bucket/path/file.csv".
	GCSURI string `json:"gcs_uri"`

	Status JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains failure details once the job has failed.
	Error string `json:"error,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *IngestCSVJob) GetID() string        { return j.JobID }
func (j *IngestCSVJob) GetType() JobType     { return JobTypeIngestCSV }
func (j *IngestCSVJob) GetStatus() JobStatus { return j.Status }

// Publisher defines the interface for publishing jobs to a queue.
// The abstraction keeps the HTTP layer independent of the queue
// implementation (in-memory today, Cloud Tasks or Pub/Sub later).
type Publisher interface {
	PublishIngestCSV(ctx context.Context, job *IngestCSVJob) error
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs; handler is invoked per job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming and waits for in-flight jobs.
	Stop(ctx context.Context) error
}

// JobHandler processes one job; a returned error triggers a retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore tracks job execution state.
type JobStore interface {
	SaveJob(ctx context.Context, job *IngestCSVJob) error
	GetJob(ctx context.Context, jobID string) (*IngestCSVJob, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*IngestCSVJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	Table  string
	Status JobStatus
	Limit  int
}
