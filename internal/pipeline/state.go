package pipeline

import (
	"cloud.google.com/go/civil"
	"github.com/dvloznov/points-sync/internal/domain"
	"github.com/dvloznov/points-sync/internal/webagent"
)

// SyncState holds the shared state across all pipeline steps of one run.
type SyncState struct {
	RunID      string
	TargetDate civil.Date

	// Agent is the run's single browser session, shared by both phases.
	Agent webagent.Agent

	Records    []domain.TransactionRecord
	ArchiveURI string
	Posted     int
}
