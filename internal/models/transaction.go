package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the row shape of the transactions table.
type Transaction struct {
	TxnID          string    `json:"txnID"` // Primary Key (UUID)
	BookID         string    `json:"bookID"`
	PeriodID       string    `json:"periodID"`
	TxnDate        time.Time `json:"txnDate"`
	EnterDate      time.Time `json:"enterDate"`
	CurrencyID     string    `json:"currencyID"`
	VoucherNum     string    `json:"voucherNum"`
	Description    *string   `json:"description"`
	SourceType     string    `json:"sourceType"`
	SourceID       string    `json:"sourceID"`
	SourceVersion  int       `json:"sourceVersion"`
	IdempotencyKey string    `json:"idempotencyKey"` // unique
	PostedBy       string    `json:"postedBy"`
	PostedAt       time.Time `json:"postedAt"`
	Status         string    `json:"status"`
}

// Split is the row shape of the splits table.
type Split struct {
	SplitID        string          `json:"splitID"`
	TxnID          string          `json:"txnID"`
	LineNo         int             `json:"lineNo"`
	AccountID      string          `json:"accountID"`
	Amount         decimal.Decimal `json:"amount"`
	Value          decimal.Decimal `json:"value"`
	Memo           *string         `json:"memo"`
	Action         *string         `json:"action"`
	ReconcileState string          `json:"reconcileState"`
	LotID          *string         `json:"lotID"`
}
