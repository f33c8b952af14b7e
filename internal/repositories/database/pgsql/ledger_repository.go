package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	"github.com/finbooks-io/ledger_backend/internal/models"
	"github.com/finbooks-io/ledger_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates the repository for posted transactions,
// splits, voucher sequences and the balance cache.
func newPgxLedgerRepository(db DBTX) portsrepo.LedgerRepository {
	return &PgxLedgerRepository{BaseRepository{db: db}}
}

var _ portsrepo.LedgerRepository = (*PgxLedgerRepository)(nil)

const txnColumns = `
	txn_id, book_id, period_id, txn_date, enter_date, currency_id, voucher_num,
	description, source_type, source_id, source_version, idempotency_key,
	posted_by, posted_at, status
`

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TxnID,
		&m.BookID,
		&m.PeriodID,
		&m.TxnDate,
		&m.EnterDate,
		&m.CurrencyID,
		&m.VoucherNum,
		&m.Description,
		&m.SourceType,
		&m.SourceID,
		&m.SourceVersion,
		&m.IdempotencyKey,
		&m.PostedBy,
		&m.PostedAt,
		&m.Status,
	)
	if err != nil {
		return domain.Transaction{}, err
	}
	return mapping.ToDomainTransaction(m), nil
}

func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, txnID string) (*domain.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE txn_id = $1;`
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, txnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+txnID, err)
	}
	return &txn, nil
}

func (r *PgxLedgerRepository) FindTransactionBySource(ctx context.Context, bookID string, src domain.SourceRef) (*domain.Transaction, error) {
	query := `SELECT ` + txnColumns + ` FROM transactions WHERE book_id = $1 AND idempotency_key = $2;`
	txn, err := scanTransaction(r.db.QueryRow(ctx, query, bookID, src.IdempotencyKey()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by source "+src.IdempotencyKey(), err)
	}
	return &txn, nil
}

// InsertTransactionIdempotent inserts the transaction, and on an
// idempotency key collision fetches and returns the winning row instead.
func (r *PgxLedgerRepository) InsertTransactionIdempotent(ctx context.Context, txn domain.Transaction) (*domain.Transaction, bool, error) {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (
			txn_id, book_id, period_id, txn_date, enter_date, currency_id, voucher_num,
			description, source_type, source_id, source_version, idempotency_key,
			posted_by, posted_at, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.db.Exec(ctx, query,
		m.TxnID, m.BookID, m.PeriodID, m.TxnDate, m.EnterDate, m.CurrencyID, m.VoucherNum,
		m.Description, m.SourceType, m.SourceID, m.SourceVersion, m.IdempotencyKey,
		m.PostedBy, m.PostedAt, m.Status,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			existing, findErr := r.FindTransactionBySource(ctx, txn.BookID, txn.Source)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, apperrors.NewAppError(500, "failed to insert transaction "+m.TxnID, err)
	}
	return &txn, true, nil
}

func (r *PgxLedgerRepository) InsertSplits(ctx context.Context, splits []domain.Split) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO splits (split_id, txn_id, line_no, account_id, amount, value, memo, action, reconcile_state, lot_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	for _, sp := range splits {
		m := mapping.ToModelSplit(sp)
		batch.Queue(query,
			m.SplitID, m.TxnID, m.LineNo, m.AccountID,
			m.Amount, m.Value, m.Memo, m.Action, m.ReconcileState, m.LotID,
		)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert splits", err)
	}
	return nil
}

func (r *PgxLedgerRepository) FindSplitsByTxnID(ctx context.Context, txnID string) ([]domain.Split, error) {
	query := `
		SELECT split_id, txn_id, line_no, account_id, amount, value, memo, action, reconcile_state, lot_id
		FROM splits
		WHERE txn_id = $1
		ORDER BY line_no;
	`
	rows, err := r.db.Query(ctx, query, txnID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query splits for transaction "+txnID, err)
	}
	defer rows.Close()

	modelSplits := []models.Split{}
	for rows.Next() {
		var m models.Split
		if err := rows.Scan(&m.SplitID, &m.TxnID, &m.LineNo, &m.AccountID,
			&m.Amount, &m.Value, &m.Memo, &m.Action, &m.ReconcileState, &m.LotID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan split row", err)
		}
		modelSplits = append(modelSplits, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating split rows", err)
	}
	return mapping.ToDomainSplitSlice(modelSplits), nil
}

// NextVoucherSeq locks the (book, year, month) sequence row and advances
// it. The upsert initializes missing rows at 1; the RETURNING value is the
// number allocated to this caller. Concurrent posters in the same period
// serialize on the row lock, so vouchers stay gapless per period as long
// as the enclosing transaction commits.
func (r *PgxLedgerRepository) NextVoucherSeq(ctx context.Context, bookID string, year, month int) (int64, error) {
	query := `
		INSERT INTO voucher_sequences (book_id, year, month, last_seq)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (book_id, year, month)
		DO UPDATE SET last_seq = voucher_sequences.last_seq + 1
		RETURNING last_seq;
	`
	var seq int64
	if err := r.db.QueryRow(ctx, query, bookID, year, month).Scan(&seq); err != nil {
		return 0, apperrors.NewAppError(500, "failed to advance voucher sequence", err)
	}
	return seq, nil
}

// UpsertAccountBalance applies a signed delta to the balance cache row.
func (r *PgxLedgerRepository) UpsertAccountBalance(ctx context.Context, bookID, periodID, accountID string, delta decimal.Decimal) error {
	query := `
		INSERT INTO account_balances (book_id, period_id, account_id, balance, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (book_id, period_id, account_id)
		DO UPDATE SET balance = account_balances.balance + EXCLUDED.balance,
		              updated_at = EXCLUDED.updated_at;
	`
	_, err := r.db.Exec(ctx, query, bookID, periodID, accountID, delta, time.Now().UTC())
	if err != nil {
		return apperrors.NewAppError(500, "failed to upsert balance for account "+accountID, err)
	}
	return nil
}

func (r *PgxLedgerRepository) FindAccountBalance(ctx context.Context, bookID, periodID, accountID string) (*domain.AccountBalance, error) {
	query := `
		SELECT book_id, period_id, account_id, balance, updated_at
		FROM account_balances
		WHERE book_id = $1 AND period_id = $2 AND account_id = $3;
	`
	var b domain.AccountBalance
	err := r.db.QueryRow(ctx, query, bookID, periodID, accountID).Scan(
		&b.BookID, &b.PeriodID, &b.AccountID, &b.Balance, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find balance for account "+accountID, err)
	}
	return &b, nil
}
