package domain

import (
	"encoding/json"
	"fmt"

	"cloud.google.com/go/civil"
)

// TransactionRecord represents one normalized transaction extracted from the
// point history and ready to be posted to the ledger.
type TransactionRecord struct {
	IsIncome    bool       // true = credit, false = debit
	Amount      int64      // whole yen, never negative
	OccurredOn  civil.Date // always the target date of the run
	Description string     // sanitized of date annotations and boilerplate
}

// FormattedDate returns OccurredOn as yyyy/mm/dd.
func (r TransactionRecord) FormattedDate() string {
	return FormatDate(r.OccurredOn)
}

// FormatDate renders d as yyyy/mm/dd.
func FormatDate(d civil.Date) string {
	return fmt.Sprintf("%04d/%02d/%02d", d.Year, int(d.Month), d.Day)
}

// recordJSON is the audit shape printed before posting.
type recordJSON struct {
	IsIncome  bool   `json:"is_income"`
	Amount    int64  `json:"amount"`
	UpdatedAt string `json:"updated_at"`
	Content   string `json:"content"`
}

// MarshalJSON implements json.Marshaler.
func (r TransactionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON{
		IsIncome:  r.IsIncome,
		Amount:    r.Amount,
		UpdatedAt: r.FormattedDate(),
		Content:   r.Description,
	})
}

// HistoryRow is the typed view of one transaction row of the history table.
// It is built per visited row and discarded once classified.
type HistoryRow struct {
	Date          civil.Date
	RawDateText   string
	Category      string // e.g. "利用" or "チャージ\nキャッシュ"
	RawContent    string // category-adjacent cell, still carrying its date annotation
	RawAmountText string // primary amount cell, e.g. "1,500"
	Note          NoteCell
}

// NoteCell is the note column of a history row.
type NoteCell struct {
	HasBreakdown bool   // a note-icon element is present
	CashText     string // note-cash text, e.g. "1,200円"; read for "利用" rows only
}

// AccountOption is one selectable ledger account, labelled with its live
// balance, e.g. "CashWallet(10,000円)".
type AccountOption struct {
	Label string
}
