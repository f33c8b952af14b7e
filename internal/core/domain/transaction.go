package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is POSTED for live transactions; VOID is the only
// terminal status change ever applied afterwards.
type TransactionStatus string

const (
	TxnPosted TransactionStatus = "POSTED"
	TxnVoid   TransactionStatus = "VOID"
)

// Transaction is a posted, immutable ledger entry. Created exactly once
// per successfully posted draft; splits sum to zero by value.
type Transaction struct {
	TxnID          string            `json:"txnID"`
	BookID         string            `json:"bookID"`
	PeriodID       string            `json:"periodID"`
	TxnDate        time.Time         `json:"txnDate"`
	EnterDate      time.Time         `json:"enterDate"`
	CurrencyID     string            `json:"currencyID"`
	VoucherNum     string            `json:"voucherNum"` // unique within (book, period)
	Description    string            `json:"description"`
	Source         SourceRef         `json:"source"`
	IdempotencyKey string            `json:"idempotencyKey"` // globally unique
	PostedBy       string            `json:"postedBy"`
	PostedAt       time.Time         `json:"postedAt"`
	Status         TransactionStatus `json:"status"`
}

// ReconcileState tracks the reconciliation of a split against a statement.
type ReconcileState string

const (
	ReconcileNone    ReconcileState = "n"
	ReconcileCleared ReconcileState = "c"
	ReconcileDone    ReconcileState = "y"
)

// Split is one account-leg of a posted transaction. Value is signed in
// transaction currency; Amount is signed in the account's own commodity.
type Split struct {
	SplitID        string          `json:"splitID"`
	TxnID          string          `json:"txnID"`
	LineNo         int             `json:"lineNo"` // unique within the transaction
	AccountID      string          `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"`
	Value          decimal.Decimal `json:"value"`
	Memo           string          `json:"memo"`
	Action         string          `json:"action"` // line role tag carried over from the draft
	ReconcileState ReconcileState  `json:"reconcileState"`
	LotID          string          `json:"lotID,omitempty"`
}

// AccountBalance is the per-(book, period, account) cache of cumulative
// posted split amounts. Derived data, maintained incrementally inside the
// posting transaction; never recomputed lazily on read.
type AccountBalance struct {
	BookID    string          `json:"bookID"`
	PeriodID  string          `json:"periodID"`
	AccountID string          `json:"accountID"`
	Balance   decimal.Decimal `json:"balance"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
