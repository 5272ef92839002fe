package backfill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fortuna/courtside/internal/stats"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrInvalidRequest marks requests that cannot be turned into a job.
var ErrInvalidRequest = errors.New("invalid backfill request")

// Request represents a backfill invocation request.
type Request struct {
	Source  Source   `json:"source"`
	Seasons []string `json:"seasons"`
	Path    string   `json:"path,omitempty"`
}

// Validate checks the request can be turned into a job.
func (r Request) Validate() error {
	switch r.Source {
	case SourceReference:
		if len(r.Seasons) == 0 {
			return fmt.Errorf("%w: reference backfill requires seasons", ErrInvalidRequest)
		}
	case SourceDataset:
		if strings.TrimSpace(r.Path) == "" {
			return fmt.Errorf("%w: dataset backfill requires path", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidRequest, r.Source)
	}
	for _, s := range r.Seasons {
		if _, err := stats.ParseSeasonTag(s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	return nil
}

// Service coordinates job persistence, execution, and status reporting.
type Service struct {
	store  JobStore
	runner *Runner

	historyLimit int
	pollInterval time.Duration
	wake         chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	log *logrus.Entry
}

// NewService constructs a Service. Call Start to launch the worker.
func NewService(store JobStore, runner *Runner, log *logrus.Entry) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	return &Service{
		store:        store,
		runner:       runner,
		historyLimit: 10,
		pollInterval: 3 * time.Second,
		wake:         make(chan struct{}, 1),
		ctx:          ctx,
		cancel:       cancel,
		log:          log.WithField("component", "backfill"),
	}
}

// Start launches the background worker loop.
func (s *Service) Start() {
	if err := s.store.ResetStuckJobs(s.ctx); err != nil {
		s.log.WithError(err).Warn("failed to reset jobs")
	}

	s.wg.Add(1)
	go s.worker()
}

// Shutdown stops workers and waits for completion.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.wg.Wait()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Enqueue creates a new job from the provided request.
func (s *Service) Enqueue(ctx context.Context, req Request) (*Job, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	msg := "Queued"
	job := &Job{
		JobID:         uuid.NewString(),
		Source:        req.Source,
		Seasons:       pq.StringArray(req.Seasons),
		Path:          req.Path,
		Status:        JobStatusQueued,
		StatusMessage: &msg,
		ProgressTotal: len(req.Seasons),
	}

	stored, err := s.store.CreateJob(ctx, job)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"job_id": stored.JobID, "source": stored.Source}).Info("job queued")

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return stored, nil
}

// GetStatus returns the currently running job plus recent history.
func (s *Service) GetStatus(ctx context.Context) (*StatusSummary, error) {
	active, err := s.store.GetActiveJob(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.store.ListRecentJobs(ctx, s.historyLimit)
	if err != nil {
		return nil, err
	}

	return &StatusSummary{ActiveJob: active, History: history}, nil
}

func (s *Service) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		if s.ctx.Err() != nil {
			return
		}

		job, err := s.store.MarkNextJobRunning(s.ctx)
		if err != nil {
			s.log.WithError(err).Warn("claim job error")
			job = nil
		}
		if job == nil {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
			case <-s.wake:
			}
			continue
		}

		s.executeJob(job)
	}
}

func (s *Service) executeJob(job *Job) {
	log := s.log.WithField("job_id", job.JobID)
	spec := JobSpec{Source: job.Source, Seasons: job.Seasons, Path: job.Path}
	reporter := &jobReporter{ctx: s.ctx, store: s.store, jobID: job.JobID, total: job.ProgressTotal}

	start := time.Now()
	if err := s.runner.Run(s.ctx, spec, reporter); err != nil {
		log.WithError(err).Error("backfill job failed")
		_ = s.store.UpdateStatus(s.ctx, job.JobID, JobStatusFailed, "Job failed", err)
		return
	}

	log.WithFields(logrus.Fields{
		"rows":     reporter.rows,
		"duration": time.Since(start).String(),
	}).Info("backfill job completed")
	_ = s.store.UpdateStatus(s.ctx, job.JobID, JobStatusCompleted, "Job completed", nil)
}

type jobReporter struct {
	ctx     context.Context
	store   JobStore
	jobID   string
	total   int
	current int
	rows    int
}

func (r *jobReporter) OnJobStart(spec JobSpec) {
	if r.total == 0 {
		r.total = len(spec.Seasons)
	}
	_ = r.store.UpdateProgress(r.ctx, r.jobID, 0, r.total, 0, "Job starting")
}

func (r *jobReporter) OnSeasonStart(season string, index int, total int) {
	r.total = total
	msg := fmt.Sprintf("Loading %s (%d/%d)", season, index+1, total)
	_ = r.store.UpdateProgress(r.ctx, r.jobID, index, total, r.rows, msg)
}

func (r *jobReporter) OnSeasonLoaded(season string, rows int) {
	r.rows += rows
}

func (r *jobReporter) OnProgress(message string, current int, total int) {
	r.current = current
	_ = r.store.UpdateProgress(r.ctx, r.jobID, current, total, r.rows, message)
}

func (r *jobReporter) OnJobComplete() {
	_ = r.store.UpdateProgress(r.ctx, r.jobID, r.total, r.total, r.rows, "Job complete")
}

func (r *jobReporter) OnJobError(err error) {
	_ = r.store.UpdateProgress(r.ctx, r.jobID, r.current, r.total, r.rows, err.Error())
}
