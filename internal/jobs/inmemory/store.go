package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/points-sync/internal/jobs"
)

// Store keeps run history for the life of the process.
// Runs are listed in the order they were first saved. It is safe for
// concurrent use.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]*jobs.SyncJob
	order []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*jobs.SyncJob)}
}

// SaveJob records job, replacing any earlier state of the same run.
// The store keeps its own copy.
func (s *Store) SaveJob(ctx context.Context, job *jobs.SyncJob) error {
	if job.JobID == "" {
		return errors.New("SaveJob: run ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, seen := s.byID[job.JobID]; !seen {
		s.order = append(s.order, job.JobID)
	}
	saved := *job
	s.byID[job.JobID] = &saved
	return nil
}

func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.SyncJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.byID[jobID]
	if !ok {
		return nil, fmt.Errorf("GetJob %s: %w", jobID, jobs.ErrJobNotFound)
	}
	out := *job
	return &out, nil
}

// ListJobs returns copies of the runs matching filter, oldest first.
func (s *Store) ListJobs(ctx context.Context, filter jobs.JobFilter) ([]*jobs.SyncJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*jobs.SyncJob
	skip := filter.Offset
	for _, id := range s.order {
		job := s.byID[id]
		if filter.TargetDate != (civil.Date{}) && job.TargetDate != filter.TargetDate {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		copied := *job
		out = append(out, &copied)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

var _ jobs.JobStore = (*Store)(nil)
