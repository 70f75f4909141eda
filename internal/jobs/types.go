package jobs

import (
	"context"
	"time"

	"github.com/spendlens/spendlens/internal/domain"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
)

// ArchiveStatementJob asks the worker to archive one processed statement:
// the raw uploaded bytes go to object storage, the extracted transactions to
// the archive dataset. The job owns a copy of the bytes; the uploaded temp
// file is already gone by the time the worker runs.
type ArchiveStatementJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// BatchID identifies the upload request the statement arrived in.
	BatchID string `json:"batch_id"`

	// Filename is the user-facing name of the statement file.
	Filename string `json:"filename"`

	// ContentType is the MIME type reported at upload time.
	ContentType string `json:"content_type,omitempty"`

	// Data is the raw statement file. Excluded from job listings.
	Data []byte `json:"-"`

	// Transactions are the normalized, categorized records extracted from
	// the statement. Excluded from job listings.
	Transactions []domain.Transaction `json:"-"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`
}

// Publisher defines the interface for publishing archive jobs to a queue.
// The abstraction keeps the upload handler independent of the queue
// implementation.
type Publisher interface {
	// PublishArchiveStatement publishes a statement archival job.
	PublishArchiveStatement(ctx context.Context, job *ArchiveStatementJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// JobHandler is a function that processes a job. It returns an error when
// the job failed.
type JobHandler func(ctx context.Context, job *ArchiveStatementJob) error

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs; handler is called for each job.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *ArchiveStatementJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*ArchiveStatementJob, error)

	// ListJobs retrieves all known jobs, most recent first.
	ListJobs(ctx context.Context) ([]*ArchiveStatementJob, error)

	// UpdateJobStatus updates the status of a job.
	UpdateJobStatus(ctx context.Context, jobID string, status JobStatus, errorMsg string) error
}
