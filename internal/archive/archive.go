package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/points-sync/internal/domain"
	"github.com/dvloznov/points-sync/internal/logger"
)

// Archiver uploads the audit snapshot of a run's extracted records.
type Archiver struct {
	store Store
	loc   Location
}

// New creates an Archiver that writes under uri (gs://bucket/prefix).
func New(store Store, uri string) (*Archiver, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	return &Archiver{store: store, loc: loc}, nil
}

// Save uploads records as JSON and returns the object's URI. The content is
// the same array printed for audit on stdout.
func (a *Archiver) Save(ctx context.Context, target civil.Date, runID string, records []domain.TransactionRecord) (string, error) {
	if records == nil {
		records = []domain.TransactionRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("Save: encode records: %w", err)
	}

	object := a.loc.ObjectName(target, runID)
	if err := a.store.Put(ctx, a.loc.Bucket, object, data, "application/json"); err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}

	uri := a.loc.URI(object)
	log := logger.FromContext(ctx)
	log.Info().
		Str("uri", uri).
		Int("records", len(records)).
		Msg("Archived extracted records")
	return uri, nil
}
