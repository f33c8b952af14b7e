package domain

import "time"

// Book is the top-level ledger container. Accounts, periods, drafts and
// transactions are all scoped to exactly one book.
type Book struct {
	BookID         string    `json:"bookID"`
	Name           string    `json:"name"`
	BaseCurrencyID string    `json:"baseCurrencyID"` // FK -> commodities, fallback transaction currency
	CreatedAt      time.Time `json:"createdAt"`
}

// PeriodStatus is the open/closed state of an accounting period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod is one (book, year, month) bucket. Posting and draft
// creation require the draft's period to be OPEN.
type AccountingPeriod struct {
	PeriodID string       `json:"periodID"`
	BookID   string       `json:"bookID"`
	Year     int          `json:"year"`
	Month    int          `json:"month"`
	Status   PeriodStatus `json:"status"`
}

// Key returns the sortable integer key (year*100+month) used for
// cumulative "through period" comparisons.
func (p AccountingPeriod) Key() int {
	return p.Year*100 + p.Month
}

// IsOpen reports whether the period accepts postings.
func (p AccountingPeriod) IsOpen() bool {
	return p.Status == PeriodOpen
}
