package history

import (
	"context"
	"fmt"
	"slices"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/points-sync/internal/domain"
	"github.com/dvloznov/points-sync/internal/logger"
	"github.com/dvloznov/points-sync/internal/webagent"
)

// Extract walks the history rows, newest first, and returns the target
// date's records oldest first. It stops at the first row older than target
// without visiting the rest. Rows off the target date are judged by their
// date cell alone.
func Extract(ctx context.Context, rows []webagent.Element, target civil.Date) ([]domain.TransactionRecord, error) {
	log := logger.FromContext(ctx)

	var records []domain.TransactionRecord
	visited := 0

scan:
	for i, tr := range rows {
		visited++

		head, ok, err := ReadRow(ctx, tr)
		if err != nil {
			return nil, fmt.Errorf("Extract: row %d: %w", i, err)
		}
		if !ok {
			continue
		}
		switch {
		case head.Date.After(target):
			continue
		case head.Date.Before(target):
			break scan
		}

		row, err := head.Parse(ctx)
		if err != nil {
			return nil, fmt.Errorf("Extract: row %d: %w", i, err)
		}

		outcome, rec, err := Classify(target, row)
		if err != nil {
			return nil, fmt.Errorf("Extract: row %d: %w", i, err)
		}

		switch outcome {
		case Emit:
			records = append(records, *rec)
		case Stop:
			break scan
		}
	}

	slices.Reverse(records)

	log.Debug().
		Str("target_date", target.String()).
		Int("rows_total", len(rows)).
		Int("rows_visited", visited).
		Int("records", len(records)).
		Msg("Extracted history rows")

	return records, nil
}
