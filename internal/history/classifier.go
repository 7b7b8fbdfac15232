package history

import (
	"fmt"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/points-sync/internal/domain"
)

// Outcome tells the extractor what to do with a classified row.
type Outcome int

const (
	// Skip produces nothing; keep scanning.
	Skip Outcome = iota
	// Emit produces one record; keep scanning.
	Emit
	// Stop produces nothing; every following row is older than the target.
	Stop
)

func (o Outcome) String() string {
	switch o {
	case Skip:
		return "skip"
	case Emit:
		return "emit"
	case Stop:
		return "stop"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Category labels of the history table.
const (
	CategoryCharge = "チャージ\nキャッシュ"
	CategoryUse    = "利用"
)

// investmentMarker prefixes the content of investment-trust purchases paid
// with cash, which carry no breakdown note.
const investmentMarker = "投信積立（楽天キャッシュ）"

// annotationLength is the width of the trailing date annotation the site
// appends to every content cell, including its separator.
const annotationLength = 13

// boilerplate phrases stripped from breakdown descriptions, applied in order.
var boilerplate = []string{
	"楽天ペイでポイントを利用",
	"で楽天ペイを利用しての購入によるポイント利用",
	"でポイント利用",
}

// Classify decides what a row contributes to the target date's records.
func Classify(target civil.Date, row domain.HistoryRow) (Outcome, *domain.TransactionRecord, error) {
	switch {
	case row.Date.After(target):
		return Skip, nil, nil
	case row.Date.Before(target):
		return Stop, nil, nil
	}

	rec := &domain.TransactionRecord{
		IsIncome:    false,
		Amount:      parseAmountOrZero(row.RawAmountText),
		OccurredOn:  target,
		Description: trimAnnotation(row.RawContent),
	}

	switch row.Category {
	case CategoryCharge:
		// Top-ups are reconciled from the funding account instead.
		return Skip, nil, nil

	case CategoryUse:
		if row.Note.HasBreakdown {
			amount, err := parseCashAmount(row.Note.CashText)
			if err != nil {
				return Skip, nil, fmt.Errorf("Classify: breakdown of %q: %w", row.RawContent, err)
			}
			rec.Amount = amount
			rec.Description = stripBoilerplate(rec.Description)
			return Emit, rec, nil
		}
		if firstRunes(row.RawContent, len([]rune(investmentMarker))) == investmentMarker {
			return Emit, rec, nil
		}
		// Paid entirely with points; nothing left the tracked wallet.
		return Skip, nil, nil
	}

	return Skip, nil, nil
}

// trimAnnotation drops the trailing date annotation, e.g. "\n[2022/01/01]".
func trimAnnotation(s string) string {
	r := []rune(s)
	if len(r) <= annotationLength {
		return ""
	}
	return string(r[:len(r)-annotationLength])
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) < n {
		return s
	}
	return string(r[:n])
}

func stripBoilerplate(s string) string {
	for _, phrase := range boilerplate {
		s = strings.ReplaceAll(s, phrase, "")
	}
	return s
}

// parseAmountOrZero reads a primary amount cell such as "1,500".
// Anything unparsable, negative values included, counts as zero.
func parseAmountOrZero(s string) int64 {
	n, err := strconv.ParseUint(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 10, 63)
	if err != nil {
		return 0
	}
	return int64(n)
}

// parseCashAmount reads a breakdown figure such as "1,200円". It must parse.
func parseCashAmount(s string) (int64, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	clean = strings.TrimSuffix(clean, "円")
	n, err := strconv.ParseUint(clean, 10, 63)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrAmountParse, s)
	}
	return int64(n), nil
}
