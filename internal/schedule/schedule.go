package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/robfig/cron/v3"

	"github.com/dvloznov/points-sync/internal/jobs"
	"github.com/dvloznov/points-sync/internal/logger"
)

// ErrAlreadySynced means the target date was already copied by this process.
var ErrAlreadySynced = errors.New("target date already synced")

// Runner performs one sync run.
type Runner interface {
	Run(ctx context.Context, target civil.Date, trigger jobs.Trigger) (*jobs.SyncJob, error)
}

// Scheduler triggers a run for the previous day on a cron schedule.
type Scheduler struct {
	runner Runner
	store  jobs.JobStore
	loc    *time.Location
	now    func() time.Time
	cron   *cron.Cron
}

// New creates a Scheduler whose days and cron fields are evaluated in loc.
func New(runner Runner, store jobs.JobStore, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{runner: runner, store: store, loc: loc, now: time.Now}
}

// Yesterday is the calendar day before now, as seen in loc.
func Yesterday(now time.Time, loc *time.Location) civil.Date {
	return civil.DateOf(now.In(loc)).AddDays(-1)
}

// Start registers spec (standard five-field cron) and starts the scheduler.
// A tick that fires while the previous run is still going is skipped.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	log := logger.FromContext(ctx)
	cronLog := logger.Cron(log)

	s.cron = cron.New(
		cron.WithLocation(s.loc),
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
	)

	_, err := s.cron.AddFunc(spec, func() {
		if err := s.Tick(ctx); err != nil && !errors.Is(err, ErrAlreadySynced) {
			log.Error().Err(err).Msg("Scheduled sync failed")
		}
	})
	if err != nil {
		return fmt.Errorf("unable to schedule sync %q: %w", spec, err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", spec).
		Str("timezone", s.loc.String()).
		Time("next_run", s.cron.Entries()[0].Next).
		Msg("Sync scheduler started")
	return nil
}

// Stop stops scheduling new runs. The returned context is done once a run
// in progress has finished.
func (s *Scheduler) Stop() context.Context {
	if s.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return s.cron.Stop()
}

// Tick runs the sync for yesterday unless this process already completed it.
func (s *Scheduler) Tick(ctx context.Context) error {
	target := Yesterday(s.now(), s.loc)
	log := logger.FromContext(ctx).With().Str("target_date", target.String()).Logger()

	done, err := s.store.ListJobs(ctx, jobs.JobFilter{TargetDate: target, Status: jobs.JobStatusCompleted, Limit: 1})
	if err != nil {
		return fmt.Errorf("Tick: list jobs: %w", err)
	}
	if len(done) > 0 {
		log.Info().Str("job_id", done[0].JobID).Msg("Target date already synced, skipping")
		return ErrAlreadySynced
	}

	if _, err := s.runner.Run(ctx, target, jobs.TriggerSchedule); err != nil {
		return fmt.Errorf("Tick: %w", err)
	}
	return nil
}
