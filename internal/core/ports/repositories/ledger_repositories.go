package repositories

import (
	"context"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepository owns posted transactions, splits, the voucher sequence
// and the account balance cache. All mutating methods must run inside the
// posting transaction.
type LedgerRepository interface {
	FindTransactionByID(ctx context.Context, txnID string) (*domain.Transaction, error)
	FindTransactionBySource(ctx context.Context, bookID string, src domain.SourceRef) (*domain.Transaction, error)

	// InsertTransactionIdempotent tries to insert and, on an idempotency
	// key collision, re-reads and returns the winning row instead. The
	// second return reports whether this call created the transaction.
	InsertTransactionIdempotent(ctx context.Context, txn domain.Transaction) (*domain.Transaction, bool, error)

	InsertSplits(ctx context.Context, splits []domain.Split) error
	FindSplitsByTxnID(ctx context.Context, txnID string) ([]domain.Split, error)

	// NextVoucherSeq locks the (book, year, month) sequence row, advances
	// it (initializing at 1), and returns the allocated integer.
	NextVoucherSeq(ctx context.Context, bookID string, year, month int) (int64, error)

	// UpsertAccountBalance applies a signed delta to the (book, period,
	// account) balance cache under a row lock.
	UpsertAccountBalance(ctx context.Context, bookID, periodID, accountID string, delta decimal.Decimal) error
	FindAccountBalance(ctx context.Context, bookID, periodID, accountID string) (*domain.AccountBalance, error)
}
