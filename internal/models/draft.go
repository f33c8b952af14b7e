package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft is the row shape of the drafts table. Nullable columns are
// pointers so scans map NULL cleanly.
type Draft struct {
	DraftID       string    `json:"draftID"` // Primary Key (UUID)
	BookID        string    `json:"bookID"`
	PeriodID      string    `json:"periodID"`
	CurrencyID    *string   `json:"currencyID"` // NULL -> book base currency at posting
	TxnDate       time.Time `json:"txnDate"`
	SourceType    string    `json:"sourceType"`
	SourceID      string    `json:"sourceID"`
	SourceVersion int       `json:"sourceVersion"`
	Description   *string   `json:"description"`
	Status        string    `json:"status"`
	ApprovedBy    *string   `json:"approvedBy"`
	PostedTxnID   *string   `json:"postedTxnID"` // unique once set
	AuditFields
}

// DraftLine is the row shape of the draft_lines table.
type DraftLine struct {
	LineID    string          `json:"lineID"`
	DraftID   string          `json:"draftID"`
	LineNo    int             `json:"lineNo"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      *string         `json:"memo"`
	Role      string          `json:"role"`
	LotID     *string         `json:"lotID"`
}

// DraftRevision is the row shape of the draft_revisions table. Snapshot
// is the raw JSONB column.
type DraftRevision struct {
	RevisionID string    `json:"revisionID"`
	DraftID    string    `json:"draftID"`
	RevNo      int       `json:"revNo"`
	Action     string    `json:"action"`
	Reason     *string   `json:"reason"`
	ActorID    string    `json:"actorID"`
	At         time.Time `json:"at"`
	Snapshot   []byte    `json:"snapshot"`
}
