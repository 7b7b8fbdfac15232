package jobs

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
)

// JobStatus represents the current status of a sync run.
type JobStatus string

const (
	// JobStatusPending indicates the run is created but has not started.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the run is extracting or posting.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates every record was posted.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the run aborted. Posted tells how many
	// records reached the ledger before it did.
	JobStatusFailed JobStatus = "failed"
)

// Trigger names what started a run.
type Trigger string

const (
	TriggerManual   Trigger = "manual"
	TriggerSchedule Trigger = "schedule"
)

// SyncJob records one extract-then-post run for a single target date.
type SyncJob struct {
	// JobID is the unique identifier of the run. It doubles as the run_id
	// log field and the archive object name.
	JobID string `json:"job_id"`

	// TargetDate is the history date the run copies.
	TargetDate civil.Date `json:"target_date"`

	Trigger Trigger   `json:"trigger"`
	Status  JobStatus `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the run failed.
	Error string `json:"error,omitempty"`

	// Extracted is the number of records read from the history.
	Extracted int `json:"extracted"`

	// Posted is the number of records submitted to the ledger.
	Posted int `json:"posted"`

	// ArchiveURI is where the extracted records were archived, if anywhere.
	ArchiveURI string `json:"archive_uri,omitempty"`
}

// Start marks the job running.
func (j *SyncJob) Start(now time.Time) {
	j.Status = JobStatusRunning
	j.StartedAt = &now
}

// Finish marks the job completed, or failed when err is non-nil.
func (j *SyncJob) Finish(now time.Time, err error) {
	j.CompletedAt = &now
	if err != nil {
		j.Status = JobStatusFailed
		j.Error = err.Error()
		return
	}
	j.Status = JobStatusCompleted
	j.Error = ""
}

// Duration is how long the run took, or zero while it has not finished.
func (j *SyncJob) Duration() time.Duration {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return 0
	}
	return j.CompletedAt.Sub(*j.StartedAt)
}

// JobStore defines the interface for storing and retrieving runs.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *SyncJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*SyncJob, error)

	// ListJobs retrieves jobs with optional filtering, oldest first.
	ListJobs(ctx context.Context, filter JobFilter) ([]*SyncJob, error)
}

// ErrJobNotFound is returned by GetJob for an unknown run ID.
var ErrJobNotFound = errors.New("job not found")

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// TargetDate filters jobs by target date. The zero date matches all.
	TargetDate civil.Date

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
