package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dvloznov/points-sync/internal/archive"
	"github.com/dvloznov/points-sync/internal/domain"
	"github.com/dvloznov/points-sync/internal/history"
	"github.com/dvloznov/points-sync/internal/ledger"
)

// PipelineStep represents a single step of a sync run.
type PipelineStep interface {
	Execute(ctx context.Context, state *SyncState) error
}

// Step 1: ExtractStep reads the target date's records from the point history.
type ExtractStep struct {
	Credentials history.Credentials
}

func (s *ExtractStep) Execute(ctx context.Context, state *SyncState) error {
	records, err := history.NewSource(state.Agent, s.Credentials).Fetch(ctx, state.TargetDate)
	if err != nil {
		return err
	}
	state.Records = records
	return nil
}

// Step 2: AuditStep prints the extracted records as a JSON array.
type AuditStep struct {
	Out io.Writer
}

func (s *AuditStep) Execute(ctx context.Context, state *SyncState) error {
	records := state.Records
	if records == nil {
		records = []domain.TransactionRecord{}
	}

	enc := json.NewEncoder(s.Out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("print records: %w", err)
	}
	return nil
}

// Step 3: ArchiveStep uploads the extracted records to cloud storage.
type ArchiveStep struct {
	Archiver *archive.Archiver
}

func (s *ArchiveStep) Execute(ctx context.Context, state *SyncState) error {
	uri, err := s.Archiver.Save(ctx, state.TargetDate, state.RunID, state.Records)
	if err != nil {
		return err
	}
	state.ArchiveURI = uri
	return nil
}

// Step 4: PostStep books the records in the ledger, oldest first.
type PostStep struct {
	Credentials ledger.Credentials
	Account     string
}

func (s *PostStep) Execute(ctx context.Context, state *SyncState) error {
	posted, err := ledger.NewDriver(state.Agent, s.Credentials, s.Account).PostAll(ctx, state.Records)
	state.Posted = posted
	return err
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially. The first failure
// stops the run.
func (p *Pipeline) Execute(ctx context.Context, state *SyncState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// Options selects what a sync run does.
type Options struct {
	History history.Credentials
	Ledger  ledger.Credentials
	Account string

	// Audit receives the printed record list.
	Audit io.Writer

	// Archiver is nil when archiving is off.
	Archiver *archive.Archiver

	// DryRun stops after the records are printed and archived.
	DryRun bool
}

// NewSyncPipeline creates the extract, audit, archive, post pipeline.
func NewSyncPipeline(opts Options) *Pipeline {
	steps := []PipelineStep{
		&ExtractStep{Credentials: opts.History},
		&AuditStep{Out: opts.Audit},
	}
	if opts.Archiver != nil {
		steps = append(steps, &ArchiveStep{Archiver: opts.Archiver})
	}
	if !opts.DryRun {
		steps = append(steps, &PostStep{Credentials: opts.Ledger, Account: opts.Account})
	}
	return NewPipeline(steps...)
}
