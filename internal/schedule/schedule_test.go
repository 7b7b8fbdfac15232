package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/points-sync/internal/jobs"
	"github.com/dvloznov/points-sync/internal/jobs/inmemory"
)

// mockRunner is a test double for Runner.
type mockRunner struct {
	RunFunc func(ctx context.Context, target civil.Date, trigger jobs.Trigger) (*jobs.SyncJob, error)
	targets []civil.Date
}

func (m *mockRunner) Run(ctx context.Context, target civil.Date, trigger jobs.Trigger) (*jobs.SyncJob, error) {
	m.targets = append(m.targets, target)
	if m.RunFunc != nil {
		return m.RunFunc(ctx, target, trigger)
	}
	return &jobs.SyncJob{TargetDate: target, Status: jobs.JobStatusCompleted}, nil
}

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("time zone database unavailable: %v", err)
	}
	return loc
}

func TestYesterday(t *testing.T) {
	loc := tokyo(t)

	tests := []struct {
		name string
		now  time.Time
		want civil.Date
	}{
		{"UTC afternoon is already tomorrow in Tokyo", time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC), civil.Date{Year: 2024, Month: 5, Day: 1}},
		{"UTC morning", time.Date(2024, 5, 1, 2, 0, 0, 0, time.UTC), civil.Date{Year: 2024, Month: 4, Day: 30}},
		{"new year", time.Date(2024, 1, 1, 6, 0, 0, 0, loc), civil.Date{Year: 2023, Month: 12, Day: 31}},
		{"leap day", time.Date(2024, 3, 1, 6, 0, 0, 0, loc), civil.Date{Year: 2024, Month: 2, Day: 29}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Yesterday(tt.now, loc); got != tt.want {
				t.Errorf("Yesterday(%s) = %s, want %s", tt.now, got, tt.want)
			}
		})
	}
}

func TestScheduler_Tick(t *testing.T) {
	ctx := context.Background()
	runner := &mockRunner{}
	s := New(runner, inmemory.NewStore(), time.UTC)
	s.now = func() time.Time { return time.Date(2024, 5, 2, 6, 0, 0, 0, time.UTC) }

	if err := s.Tick(ctx); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if len(runner.targets) != 1 || runner.targets[0] != (civil.Date{Year: 2024, Month: 5, Day: 1}) {
		t.Errorf("targets = %v", runner.targets)
	}
}

func TestScheduler_TickSkipsCompletedDate(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	may1 := civil.Date{Year: 2024, Month: 5, Day: 1}
	_ = store.SaveJob(ctx, &jobs.SyncJob{JobID: "earlier", TargetDate: may1, Status: jobs.JobStatusCompleted})

	runner := &mockRunner{}
	s := New(runner, store, time.UTC)
	s.now = func() time.Time { return time.Date(2024, 5, 2, 6, 0, 0, 0, time.UTC) }

	if err := s.Tick(ctx); !errors.Is(err, ErrAlreadySynced) {
		t.Fatalf("Expected ErrAlreadySynced, got %v", err)
	}
	if len(runner.targets) != 0 {
		t.Errorf("Expected no run, got %v", runner.targets)
	}
}

func TestScheduler_TickRetriesFailedDate(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewStore()
	may1 := civil.Date{Year: 2024, Month: 5, Day: 1}
	_ = store.SaveJob(ctx, &jobs.SyncJob{JobID: "earlier", TargetDate: may1, Status: jobs.JobStatusFailed})

	runErr := errors.New("timed out")
	runner := &mockRunner{
		RunFunc: func(ctx context.Context, target civil.Date, trigger jobs.Trigger) (*jobs.SyncJob, error) {
			if trigger != jobs.TriggerSchedule {
				t.Errorf("trigger = %s, want %s", trigger, jobs.TriggerSchedule)
			}
			return nil, runErr
		},
	}
	s := New(runner, store, time.UTC)
	s.now = func() time.Time { return time.Date(2024, 5, 2, 6, 0, 0, 0, time.UTC) }

	if err := s.Tick(ctx); !errors.Is(err, runErr) {
		t.Fatalf("Expected run error, got %v", err)
	}
	if len(runner.targets) != 1 {
		t.Errorf("Expected a new run after a failed one, got %v", runner.targets)
	}
}

func TestScheduler_Start(t *testing.T) {
	s := New(&mockRunner{}, inmemory.NewStore(), time.UTC)

	if err := s.Start(context.Background(), "not a schedule"); err == nil {
		t.Error("Expected an error for an invalid schedule")
	}

	if err := s.Start(context.Background(), "0 6 * * *"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	select {
	case <-s.Stop().Done():
	case <-time.After(time.Second):
		t.Error("Expected Stop to finish without a run in progress")
	}
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := New(&mockRunner{}, inmemory.NewStore(), nil)
	select {
	case <-s.Stop().Done():
	default:
		t.Error("Expected Stop on an unstarted scheduler to be done immediately")
	}
}
