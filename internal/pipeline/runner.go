package pipeline

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/dvloznov/points-sync/internal/jobs"
	"github.com/dvloznov/points-sync/internal/logger"
	"github.com/dvloznov/points-sync/internal/webagent"
)

// Launcher starts the browser session of a run.
type Launcher interface {
	Launch(ctx context.Context) (webagent.Session, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context) (webagent.Session, error)

// Launch implements Launcher.
func (f LauncherFunc) Launch(ctx context.Context) (webagent.Session, error) {
	return f(ctx)
}

// Runner executes sync runs and records each one in a job store.
type Runner struct {
	launcher Launcher
	store    jobs.JobStore
	opts     Options
	now      func() time.Time
}

// NewRunner creates a Runner.
func NewRunner(launcher Launcher, store jobs.JobStore, opts Options) *Runner {
	return &Runner{launcher: launcher, store: store, opts: opts, now: time.Now}
}

// Run copies one target date. The browser session is acquired once and
// released when the run ends, on success and on failure alike. The returned
// job reflects the outcome even when err is non-nil.
func (r *Runner) Run(ctx context.Context, target civil.Date, trigger jobs.Trigger) (*jobs.SyncJob, error) {
	job := &jobs.SyncJob{
		JobID:      uuid.NewString(),
		TargetDate: target,
		Trigger:    trigger,
		Status:     jobs.JobStatusPending,
		CreatedAt:  r.now(),
	}
	if err := r.store.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("Run: save job: %w", err)
	}

	log := logger.WithFields(logger.FromContext(ctx), map[string]interface{}{
		"run_id":      job.JobID,
		"target_date": target.String(),
	})
	ctx = logger.WithContext(ctx, log)

	job.Start(r.now())
	if err := r.store.SaveJob(ctx, job); err != nil {
		log.Error().Err(err).Msg("Failed to save job")
	}
	log.Info().Str("trigger", string(trigger)).Bool("dry_run", r.opts.DryRun).Msg("Sync run started")

	err := r.execute(ctx, job)

	job.Finish(r.now(), err)
	if serr := r.store.SaveJob(ctx, job); serr != nil {
		log.Error().Err(serr).Msg("Failed to save job")
	}

	if err != nil {
		log.Error().
			Err(err).
			Int("extracted", job.Extracted).
			Int("posted", job.Posted).
			Msg("Sync run failed")
		return job, fmt.Errorf("Run: %w", err)
	}

	log.Info().
		Int("extracted", job.Extracted).
		Int("posted", job.Posted).
		Dur("duration", job.Duration()).
		Msg("Sync run completed")
	return job, nil
}

func (r *Runner) execute(ctx context.Context, job *jobs.SyncJob) error {
	log := logger.FromContext(ctx)

	session, err := r.launcher.Launch(ctx)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close browser session")
		}
	}()

	state := &SyncState{
		RunID:      job.JobID,
		TargetDate: job.TargetDate,
		Agent:      session,
	}
	err = NewSyncPipeline(r.opts).Execute(ctx, state)

	job.Extracted = len(state.Records)
	job.Posted = state.Posted
	job.ArchiveURI = state.ArchiveURI
	return err
}
