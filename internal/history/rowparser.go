package history

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/points-sync/internal/domain"
	"github.com/dvloznov/points-sync/internal/webagent"
)

// Row is a transaction row of the history table with only its date read.
// The other cells are read by Parse, so rows off the target date never touch
// them.
type Row struct {
	Date        civil.Date
	RawDateText string

	cells []webagent.Element
}

// ReadRow reads the class and the date cell of one table row.
// ok is false when the row's class is neither "get" nor "use"; such rows are
// headers, separators or ads and carry no transaction.
func ReadRow(ctx context.Context, tr webagent.Element) (row Row, ok bool, err error) {
	class, err := tr.Attribute(ctx, "class")
	if err != nil {
		return Row{}, false, fmt.Errorf("ReadRow: reading class: %w", err)
	}
	if class != ClassGet && class != ClassUse {
		return Row{}, false, nil
	}

	cells, err := tr.FindAll(ctx, selCell)
	if err != nil {
		return Row{}, false, fmt.Errorf("ReadRow: reading cells: %w", err)
	}
	if len(cells) <= cellDate {
		return Row{}, false, fmt.Errorf("ReadRow: row has no cells: %w", webagent.ErrElementNotFound)
	}

	text, err := cells[cellDate].Text(ctx)
	if err != nil {
		return Row{}, false, fmt.Errorf("ReadRow: reading date cell: %w", err)
	}
	date, err := ParseDate(text)
	if err != nil {
		return Row{}, false, fmt.Errorf("ReadRow: %w", err)
	}

	return Row{Date: date, RawDateText: text, cells: cells}, true, nil
}

// Parse reads the content, category, amount and note cells.
// The breakdown figure is read only for "利用" rows that show a note icon.
func (r Row) Parse(ctx context.Context) (domain.HistoryRow, error) {
	if len(r.cells) <= cellAmount {
		return domain.HistoryRow{}, fmt.Errorf("Parse: row has %d cells, want at least %d: %w",
			len(r.cells), cellAmount+1, webagent.ErrElementNotFound)
	}

	texts := make(map[int]string, 3)
	for _, i := range []int{cellContent, cellCategory, cellAmount} {
		text, err := r.cells[i].Text(ctx)
		if err != nil {
			return domain.HistoryRow{}, fmt.Errorf("Parse: reading cell %d: %w", i, err)
		}
		texts[i] = text
	}

	row := domain.HistoryRow{
		Date:          r.Date,
		RawDateText:   r.RawDateText,
		Category:      texts[cellCategory],
		RawContent:    texts[cellContent],
		RawAmountText: texts[cellAmount],
	}

	if len(r.cells) > cellNote {
		note, err := parseNote(ctx, r.cells[cellNote], row.Category == CategoryUse)
		if err != nil {
			return domain.HistoryRow{}, fmt.Errorf("Parse: %w", err)
		}
		row.Note = note
	}

	return row, nil
}

// ParseRow reads a whole table row: ReadRow followed by Parse.
func ParseRow(ctx context.Context, tr webagent.Element) (domain.HistoryRow, bool, error) {
	r, ok, err := ReadRow(ctx, tr)
	if err != nil || !ok {
		return domain.HistoryRow{}, ok, err
	}
	row, err := r.Parse(ctx)
	if err != nil {
		return domain.HistoryRow{}, false, err
	}
	return row, true, nil
}

// parseNote reports whether the note cell shows a breakdown and, when
// readCash is set, reads its cash figure.
func parseNote(ctx context.Context, td webagent.Element, readCash bool) (domain.NoteCell, error) {
	icons, err := td.FindAll(ctx, selNoteIcon)
	if err != nil {
		return domain.NoteCell{}, fmt.Errorf("reading note icon: %w", err)
	}
	if len(icons) == 0 {
		return domain.NoteCell{}, nil
	}
	if !readCash {
		return domain.NoteCell{HasBreakdown: true}, nil
	}

	cash, err := td.Find(ctx, selNoteCash)
	if err != nil {
		return domain.NoteCell{}, fmt.Errorf("reading note cash: %w", err)
	}
	text, err := cash.Text(ctx)
	if err != nil {
		return domain.NoteCell{}, fmt.Errorf("reading note cash: %w", err)
	}
	return domain.NoteCell{HasBreakdown: true, CashText: text}, nil
}

// ParseDate reads a date from the fixed offsets of a date cell:
// year at [0:4], month at [5:7], day at [8:10], e.g. "2024/05/01 12:00".
func ParseDate(text string) (civil.Date, error) {
	if len(text) < 10 {
		return civil.Date{}, fmt.Errorf("%w: %q is too short", domain.ErrDateParse, text)
	}

	year, errY := strconv.Atoi(text[0:4])
	month, errM := strconv.Atoi(text[5:7])
	day, errD := strconv.Atoi(text[8:10])
	if errY != nil || errM != nil || errD != nil {
		return civil.Date{}, fmt.Errorf("%w: %q", domain.ErrDateParse, text)
	}

	d := civil.Date{Year: year, Month: time.Month(month), Day: day}
	if !d.IsValid() {
		return civil.Date{}, fmt.Errorf("%w: %q is not a calendar date", domain.ErrDateParse, text)
	}
	return d, nil
}
