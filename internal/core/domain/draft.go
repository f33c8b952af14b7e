package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftStatus is the lifecycle state of a transaction draft.
type DraftStatus string

const (
	DraftOpen     DraftStatus = "DRAFT"
	DraftApproved DraftStatus = "APPROVED"
	DraftRejected DraftStatus = "REJECTED"
	DraftPosted   DraftStatus = "POSTED"
)

// Terminal reports whether no further transition is allowed out of the
// status. POSTED is terminal absolutely; REJECTED is terminal for this
// draft (the owning document may spawn a successor version).
func (s DraftStatus) Terminal() bool {
	return s == DraftPosted || s == DraftRejected
}

// Draft is a proposed, not-yet-final set of balanced ledger lines.
// Identified by (book, source_type, source_id, version); never deleted.
type Draft struct {
	DraftID     string      `json:"draftID"`
	BookID      string      `json:"bookID"`
	PeriodID    string      `json:"periodID"`
	CurrencyID  string      `json:"currencyID"` // empty -> book base currency at posting
	TxnDate     time.Time   `json:"txnDate"`
	Source      SourceRef   `json:"source"`
	Description string      `json:"description"`
	Status      DraftStatus `json:"status"`
	ApprovedBy  string      `json:"approvedBy,omitempty"`
	PostedTxnID *string     `json:"postedTxnID,omitempty"` // 1:1, unique once set
	AuditFields
}

// LineRole tags the special role a draft line plays, if any.
type LineRole string

const (
	LineRoleNone      LineRole = ""
	LineRoleARControl LineRole = "AR_CONTROL"
	LineRoleAPControl LineRole = "AP_CONTROL"
	LineRoleRevenue   LineRole = "REVENUE"
	LineRoleExpense   LineRole = "EXPENSE"
	LineRoleLot       LineRole = "LOT"
	LineRoleUnknown   LineRole = "UNKNOWN"
)

// ParseLineRole maps free-form role input to a known variant. Anything
// unrecognized becomes LineRoleUnknown rather than an error.
func ParseLineRole(raw string) LineRole {
	switch LineRole(raw) {
	case LineRoleNone, LineRoleARControl, LineRoleAPControl, LineRoleRevenue, LineRoleExpense, LineRoleLot:
		return LineRole(raw)
	}
	return LineRoleUnknown
}

// LineTag is the auxiliary metadata carried by a draft line.
type LineTag struct {
	Role  LineRole `json:"role"`
	LotID string   `json:"lotID,omitempty"` // only meaningful for LineRoleLot
}

// DraftLine is one ordered debit-or-credit entry of a draft.
// Exactly one of Debit/Credit is non-zero; both are non-negative.
type DraftLine struct {
	LineID    string          `json:"lineID"`
	DraftID   string          `json:"draftID"`
	LineNo    int             `json:"lineNo"` // unique within the draft
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	Tag       LineTag         `json:"tag"`
}

// Value is the signed contribution of the line in transaction currency.
func (l DraftLine) Value() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// WellFormed reports whether the line obeys the one-sided rule.
func (l DraftLine) WellFormed() bool {
	if l.Debit.IsNegative() || l.Credit.IsNegative() {
		return false
	}
	return l.Debit.IsZero() != l.Credit.IsZero()
}

// RevisionAction names the lifecycle event a revision records.
type RevisionAction string

const (
	RevisionCreate   RevisionAction = "CREATE"
	RevisionApprove  RevisionAction = "APPROVE"
	RevisionReject   RevisionAction = "REJECT"
	RevisionResubmit RevisionAction = "RESUBMIT"
	RevisionPost     RevisionAction = "POST"
)

// DraftSnapshot is the full point-in-time copy of a draft and its lines
// embedded in every revision.
type DraftSnapshot struct {
	Draft Draft       `json:"draft"`
	Lines []DraftLine `json:"lines"`
}

// DraftRevision is one append-only entry of a draft's revision log.
// RevNo is strictly increasing per draft; entries are never mutated.
type DraftRevision struct {
	RevisionID string         `json:"revisionID"`
	DraftID    string         `json:"draftID"`
	RevNo      int            `json:"revNo"`
	Action     RevisionAction `json:"action"`
	Reason     string         `json:"reason"`
	ActorID    string         `json:"actorID"`
	At         time.Time      `json:"at"`
	Snapshot   DraftSnapshot  `json:"snapshot"`
}
