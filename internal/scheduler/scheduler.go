// Package scheduler runs the periodic remote-to-store fund sync.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/seenimoa/fundlens/internal/repository"
	"github.com/seenimoa/fundlens/pkg/models"
)

// ErrEmptyPull is returned when the source answers with no funds.
var ErrEmptyPull = errors.New("source returned no funds")

// Lister is the part of a fund source a sync needs.
type Lister interface {
	Name() string
	ListFunds(ctx context.Context, c models.Criteria) ([]models.Fund, error)
}

// Saver persists a fund snapshot.
type Saver interface {
	SaveSnapshot(ctx context.Context, funds []models.Fund, source string) (string, error)
}

// Job represents a scheduled job.
type Job interface {
	Run(ctx context.Context) error
	Name() string
}

// SyncJob pulls every fund from a source and stores a snapshot.
type SyncJob struct {
	source  Lister
	store   Saver
	timeout time.Duration
	log     zerolog.Logger
}

// NewSyncJob creates a sync job. A zero timeout means none.
func NewSyncJob(source Lister, store Saver, timeout time.Duration, log zerolog.Logger) *SyncJob {
	return &SyncJob{
		source:  source,
		store:   store,
		timeout: timeout,
		log:     log.With().Str("job", "fund_sync").Logger(),
	}
}

// Name returns the job name.
func (j *SyncJob) Name() string { return "fund_sync" }

// Run performs one sync. Funds that would not load into a repository are
// rejected before anything is written. There is no retry.
func (j *SyncJob) Run(ctx context.Context) error {
	_, err := j.Sync(ctx)
	return err
}

// Sync is Run returning the stored run id.
func (j *SyncJob) Sync(ctx context.Context) (string, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	funds, err := j.source.ListFunds(ctx, models.Criteria{})
	if err != nil {
		return "", fmt.Errorf("pull from %s: %w", j.source.Name(), err)
	}
	if len(funds) == 0 {
		return "", ErrEmptyPull
	}
	if _, err := repository.New(funds, repository.WithLogger(j.log)); err != nil {
		return "", fmt.Errorf("pulled funds rejected: %w", err)
	}

	runID, err := j.store.SaveSnapshot(ctx, funds, j.source.Name())
	if err != nil {
		return "", fmt.Errorf("save snapshot: %w", err)
	}
	j.log.Info().
		Str("run", runID).
		Int("funds", len(funds)).
		Dur("took", time.Since(start)).
		Msg("fund snapshot stored")
	return runID, nil
}

// Scheduler manages background jobs.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
	log  zerolog.Logger
}

// New creates a scheduler. Jobs receive ctx; cancel it to abort a running
// job. A job still running when its next tick fires is skipped.
func New(ctx context.Context, log zerolog.Logger) *Scheduler {
	l := log.With().Str("component", "scheduler").Logger()
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{l}))),
		ctx:  ctx,
		log:  l,
	}
}

// AddJob registers a job on a cron schedule.
// Schedule examples:
//   - "@every 6h"       - every six hours
//   - "@daily"          - midnight
//   - "30 21 * * 1-5"   - 21:30 on weekdays
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug().Str("job", job.Name()).Msg("Running job")
		if err := job.Run(s.ctx); err != nil {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("Job failed")
			return
		}
		s.log.Debug().Str("job", job.Name()).Msg("Job completed")
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}

	s.log.Info().Str("schedule", schedule).Str("job", job.Name()).Msg("Job registered")
	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("Scheduler started")
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info().Str("job", job.Name()).Msg("Running job immediately")
	return job.Run(s.ctx)
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
