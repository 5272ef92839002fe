package backfill

import (
	"time"

	"github.com/lib/pq"
)

// Source selects where season averages are loaded from.
type Source string

const (
	// SourceReference scrapes Basketball Reference season pages.
	SourceReference Source = "bref"
	// SourceDataset reads a historical CSV export.
	SourceDataset Source = "csv"
)

// JobStatus represents the lifecycle state for a job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job models the database representation of a backfill job.
type Job struct {
	JobID           string         `json:"job_id" db:"job_id"`
	Source          Source         `json:"source" db:"source"`
	Seasons         pq.StringArray `json:"seasons" db:"seasons"`
	Path            string         `json:"path,omitempty" db:"path"`
	Status          JobStatus      `json:"status" db:"status"`
	StatusMessage   *string        `json:"status_message,omitempty" db:"status_message"`
	ProgressCurrent int            `json:"progress_current" db:"progress_current"`
	ProgressTotal   int            `json:"progress_total" db:"progress_total"`
	RowsLoaded      int            `json:"rows_loaded" db:"rows_loaded"`
	LastError       *string        `json:"last_error,omitempty" db:"last_error"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
	StartedAt       *time.Time     `json:"started_at,omitempty" db:"started_at"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
}

// Copy returns a shallow copy to prevent external mutation.
func (j *Job) Copy() *Job {
	if j == nil {
		return nil
	}
	cpy := *j
	cpy.Seasons = append(pq.StringArray(nil), j.Seasons...)
	return &cpy
}

// JobSpec describes the work to be performed by the runner.
type JobSpec struct {
	Source  Source
	Seasons []string
	Path    string
	DryRun  bool
}

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnJobStart(spec JobSpec)
	OnSeasonStart(season string, index int, total int)
	OnSeasonLoaded(season string, rows int)
	OnProgress(message string, current int, total int)
	OnJobComplete()
	OnJobError(err error)
}

// StatusSummary is returned to API callers.
type StatusSummary struct {
	ActiveJob *Job   `json:"active_job,omitempty"`
	History   []*Job `json:"recent_jobs,omitempty"`
}
