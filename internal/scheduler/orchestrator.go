package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fortuna/courtside/internal/backfill"
	"github.com/fortuna/courtside/internal/service"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

// Scoreboard is the part of the scoreboard service the warm-up needs.
type Scoreboard interface {
	DefaultDate() time.Time
	GetMatchups(ctx context.Context, date time.Time) (*service.Scoreboard, error)
}

// BoxScoreWarmer loads finished box scores into the cache.
type BoxScoreWarmer interface {
	Warm(ctx context.Context, gameID string) error
}

// Backfiller queues season reloads.
type Backfiller interface {
	Enqueue(ctx context.Context, req backfill.Request) (*backfill.Job, error)
}

// Config holds scheduler configuration
type Config struct {
	WarmupHour     uint           // Default: 6 (6 AM)
	Location       *time.Location // Default: UTC
	CurrentSeason  string         // e.g., "2024-25"
	EnableBackfill bool           // weekly reload of the current season
	BackfillDay    time.Weekday   // Default: Monday
	MaxRetries     int            // Default: 3
	RetryDelay     time.Duration  // Default: 5s
	JobTimeout     time.Duration  // Default: 10m
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() *Config {
	return &Config{
		WarmupHour:     6,
		Location:       time.UTC,
		CurrentSeason:  stats.SeasonTag(2024),
		EnableBackfill: true,
		BackfillDay:    time.Monday,
		MaxRetries:     3,
		RetryDelay:     5 * time.Second,
		JobTimeout:     10 * time.Minute,
	}
}

// WarmupResult summarizes one warm-up run.
type WarmupResult struct {
	Date   string    `json:"date"`
	Games  int       `json:"games"`
	Warmed int       `json:"warmed"`
	Failed int       `json:"failed"`
	RanAt  time.Time `json:"ran_at"`
}

// Orchestrator manages scheduled cache warm-ups and season reloads.
type Orchestrator struct {
	s          gocron.Scheduler
	scoreboard Scoreboard
	boxScores  BoxScoreWarmer
	backfill   Backfiller
	config     *Config
	log        *logrus.Entry

	mu         sync.Mutex
	lastWarmup *WarmupResult
	lastJobID  string
}

// NewOrchestrator creates a new scheduler orchestrator. backfillSvc may be nil,
// which disables the weekly reload.
func NewOrchestrator(scoreboard Scoreboard, boxScores BoxScoreWarmer, backfillSvc Backfiller, config *Config, log *logrus.Entry) (*Orchestrator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}

	s, err := gocron.NewScheduler(gocron.WithLocation(config.Location))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Orchestrator{
		s:          s,
		scoreboard: scoreboard,
		boxScores:  boxScores,
		backfill:   backfillSvc,
		config:     config,
		log:        log.WithField("component", "scheduler"),
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (o *Orchestrator) Start() error {
	_, err := o.s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(o.config.WarmupHour, 0, 0))),
		gocron.NewTask(o.runWarmupTask),
		gocron.WithName("warmup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create warm-up job: %w", err)
	}

	if o.config.EnableBackfill && o.backfill != nil {
		_, err = o.s.NewJob(
			gocron.WeeklyJob(1, gocron.NewWeekdays(o.config.BackfillDay), gocron.NewAtTimes(gocron.NewAtTime(o.config.WarmupHour, 30, 0))),
			gocron.NewTask(o.runBackfillTask),
			gocron.WithName("season-backfill"),
		)
		if err != nil {
			return fmt.Errorf("failed to create backfill job: %w", err)
		}
	}

	o.log.WithFields(logrus.Fields{
		"warmup_hour": o.config.WarmupHour,
		"location":    o.config.Location.String(),
		"season":      o.config.CurrentSeason,
		"backfill":    o.config.EnableBackfill && o.backfill != nil,
	}).Info("scheduler started")

	o.s.Start()
	return nil
}

// Stop shuts the scheduler down and waits for running jobs.
func (o *Orchestrator) Stop() error {
	o.log.Info("scheduler stopping")
	return o.s.Shutdown()
}

func (o *Orchestrator) runWarmupTask() {
	ctx, cancel := context.WithTimeout(context.Background(), o.config.JobTimeout)
	defer cancel()

	if _, err := o.Warmup(ctx, o.scoreboard.DefaultDate()); err != nil {
		o.log.WithError(err).Error("warm-up failed")
	}
}

func (o *Orchestrator) runBackfillTask() {
	ctx, cancel := context.WithTimeout(context.Background(), o.config.JobTimeout)
	defer cancel()

	if _, err := o.TriggerSeasonBackfill(ctx); err != nil {
		o.log.WithError(err).Error("season backfill failed")
	}
}

// Warmup loads the scoreboard of date and every game's box score into the cache.
// Failures on single games are counted and logged; the run continues.
func (o *Orchestrator) Warmup(ctx context.Context, date time.Time) (*WarmupResult, error) {
	start := time.Now()
	day := date.Format("2006-01-02")
	result := &WarmupResult{Date: day, RanAt: start}

	var board *service.Scoreboard
	err := o.withRetry(ctx, "scoreboard "+day, func() error {
		var err error
		board, err = o.scoreboard.GetMatchups(ctx, date)
		return err
	})

	var empty *stats.EmptyResultError
	switch {
	case errors.As(err, &empty):
		o.log.WithField("date", day).Info("no games to warm")
		o.record(result)
		return result, nil
	case err != nil:
		return nil, err
	}

	result.Games = len(board.Games)
	for _, game := range board.Games {
		err := o.withRetry(ctx, "box score "+game.GameID, func() error {
			return o.boxScores.Warm(ctx, game.GameID)
		})
		if err != nil {
			result.Failed++
			o.log.WithError(err).WithField("game_id", game.GameID).Warn("box score warm-up failed")
			continue
		}
		result.Warmed++
	}

	o.log.WithFields(logrus.Fields{
		"date":     day,
		"games":    result.Games,
		"warmed":   result.Warmed,
		"failed":   result.Failed,
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Info("warm-up complete")
	o.record(result)
	return result, nil
}

// TriggerSeasonBackfill queues a reload of the current season.
func (o *Orchestrator) TriggerSeasonBackfill(ctx context.Context) (*backfill.Job, error) {
	if o.backfill == nil {
		return nil, fmt.Errorf("backfill is not configured")
	}
	job, err := o.backfill.Enqueue(ctx, backfill.Request{
		Source:  backfill.SourceReference,
		Seasons: []string{o.config.CurrentSeason},
	})
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.lastJobID = job.JobID
	o.mu.Unlock()
	o.log.WithFields(logrus.Fields{"job_id": job.JobID, "season": o.config.CurrentSeason}).Info("season backfill queued")
	return job, nil
}

// GetStatus returns the orchestrator status
func (o *Orchestrator) GetStatus() map[string]any {
	o.mu.Lock()
	defer o.mu.Unlock()

	status := map[string]any{
		"warmup_hour":    o.config.WarmupHour,
		"current_season": o.config.CurrentSeason,
		"backfill":       o.config.EnableBackfill && o.backfill != nil,
	}
	if o.lastWarmup != nil {
		status["last_warmup"] = *o.lastWarmup
	}
	if o.lastJobID != "" {
		status["last_backfill_job"] = o.lastJobID
	}
	return status
}

func (o *Orchestrator) record(result *WarmupResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	cpy := *result
	o.lastWarmup = &cpy
}

// withRetry runs fn up to MaxRetries times. Empty results are final and not retried.
func (o *Orchestrator) withRetry(ctx context.Context, what string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= o.config.MaxRetries; attempt++ {
		err = fn()
		var empty *stats.EmptyResultError
		if err == nil || errors.As(err, &empty) {
			return err
		}

		o.log.WithError(err).WithFields(logrus.Fields{
			"task":    what,
			"attempt": attempt,
			"max":     o.config.MaxRetries,
		}).Warn("attempt failed")

		if attempt < o.config.MaxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(o.config.RetryDelay):
			}
		}
	}
	return fmt.Errorf("%s: all %d attempts failed: %w", what, o.config.MaxRetries, err)
}
