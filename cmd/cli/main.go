package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/dvloznov/points-sync/internal/archive"
	"github.com/dvloznov/points-sync/internal/config"
	"github.com/dvloznov/points-sync/internal/history"
	"github.com/dvloznov/points-sync/internal/jobs"
	"github.com/dvloznov/points-sync/internal/jobs/inmemory"
	"github.com/dvloznov/points-sync/internal/ledger"
	"github.com/dvloznov/points-sync/internal/logger"
	"github.com/dvloznov/points-sync/internal/pipeline"
	"github.com/dvloznov/points-sync/internal/schedule"
	"github.com/dvloznov/points-sync/internal/webagent"
)

// exitUsage is the exit code for bad commands and flags, matching flag.ExitOnError.
const exitUsage = 2

const shutdownTimeout = 2 * time.Minute

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitUsage)
	}

	switch os.Args[1] {
	case "run":
		runSync(log, "run", os.Args[2:], false)
	case "extract":
		runSync(log, "extract", os.Args[2:], true)
	case "schedule":
		runSchedule(log, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(exitUsage)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Points Sync CLI")
	fmt.Fprintln(os.Stderr, "\nCopies one day of Rakuten cash history into the MoneyForward ledger.")
	fmt.Fprintln(os.Stderr, "\nUsage:")
	fmt.Fprintln(os.Stderr, "  cli <command> [options]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	fmt.Fprintln(os.Stderr, "  run       Extract the target date's records and post them to the ledger")
	fmt.Fprintln(os.Stderr, "  extract   Extract and print the records without posting")
	fmt.Fprintln(os.Stderr, "  schedule  Run daily on SYNC_SCHEDULE until interrupted")
	fmt.Fprintln(os.Stderr, "  help      Show this help message")
	fmt.Fprintln(os.Stderr, "\nRun 'cli <command> -h' for more information on a command.")
}

func runSync(log zerolog.Logger, name string, args []string, dryRun bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	envFile := fs.String("env-file", "", "Path to a .env file (default: .env if present)")
	date := fs.String("date", "", "Target date YYYY-MM-DD (default: yesterday in SYNC_TIMEZONE)")
	fs.Parse(args)

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log = cfg.Logger()

	target, err := targetDate(*date, time.Now(), cfg.Location)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(exitUsage)
	}

	runner, err := newRunner(cfg, inmemory.NewStore(), os.Stdout, dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up run")
	}

	ctx := logger.WithContext(context.Background(), log)

	job, err := runner.Run(ctx, target, jobs.TriggerManual)
	if err != nil {
		event := log.Fatal().Err(err)
		if job != nil {
			event = event.Str("run_id", job.JobID).Int("posted", job.Posted)
		}
		event.Msg("Sync failed")
	}
}

func runSchedule(log zerolog.Logger, args []string) {
	fs := flag.NewFlagSet("schedule", flag.ExitOnError)
	envFile := fs.String("env-file", "", "Path to a .env file (default: .env if present)")
	fs.Parse(args)

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log = cfg.Logger()

	store := inmemory.NewStore()
	runner, err := newRunner(cfg, store, os.Stdout, false)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up run")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	sched := schedule.New(runner, store, cfg.Location)
	if err := sched.Start(ctx, cfg.Schedule); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down scheduler...")

	// Let a run in progress finish so its browser session is released.
	select {
	case <-sched.Stop().Done():
	case <-time.After(shutdownTimeout):
		log.Error().Msg("Timed out waiting for the running sync")
		cancel()
	}

	summarize(ctx, log, store)
	log.Info().Msg("Scheduler exited")
}

// summarize logs the runs this process performed.
func summarize(ctx context.Context, log zerolog.Logger, store jobs.JobStore) {
	runs, err := store.ListJobs(ctx, jobs.JobFilter{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to list runs")
		return
	}
	for _, j := range runs {
		log.Info().
			Str("run_id", j.JobID).
			Str("target_date", j.TargetDate.String()).
			Str("status", string(j.Status)).
			Int("extracted", j.Extracted).
			Int("posted", j.Posted).
			Str("error", j.Error).
			Msg("Run summary")
	}
}

// targetDate parses the -date flag, defaulting to yesterday in loc.
func targetDate(flagValue string, now time.Time, loc *time.Location) (civil.Date, error) {
	if flagValue == "" {
		return schedule.Yesterday(now, loc), nil
	}
	d, err := civil.ParseDate(flagValue)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid -date %q, want YYYY-MM-DD", flagValue)
	}
	return d, nil
}

// newRunner wires the configured browser, archive and credentials into a
// pipeline runner.
func newRunner(cfg *config.Config, store jobs.JobStore, audit io.Writer, dryRun bool) (*pipeline.Runner, error) {
	opts := pipeline.Options{
		History: history.Credentials(cfg.Rakuten),
		Ledger:  ledger.Credentials(cfg.MoneyForward),
		Account: cfg.LedgerAccount,
		Audit:   audit,
		DryRun:  dryRun,
	}

	if cfg.ArchiveURI != "" {
		a, err := archive.New(archive.NewGCSStore(), cfg.ArchiveURI)
		if err != nil {
			return nil, err
		}
		opts.Archiver = a
	}

	chrome := webagent.ChromeOptions{
		Headless: cfg.Headless,
		ExecPath: cfg.ChromePath,
		Timeouts: cfg.Timeouts,
	}
	launcher := pipeline.LauncherFunc(func(ctx context.Context) (webagent.Session, error) {
		return webagent.Launch(ctx, chrome)
	})

	return pipeline.NewRunner(launcher, store, opts), nil
}
