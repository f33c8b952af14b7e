package pgsql

import (
	"context"
	"errors"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// newRepositories binds every repository to the given query handle.
func newRepositories(db DBTX) portsrepo.Repositories {
	return portsrepo.Repositories{
		Chart:  newPgxChartRepository(db),
		Draft:  newPgxDraftRepository(db),
		Ledger: newPgxLedgerRepository(db),
		Price:  newPgxPriceRepository(db),
		Audit:  newPgxAuditRepository(db),
		Report: newPgxReportRepository(db),
		Source: newPgxSourceRepository(db),
	}
}

// NewRepositoryProvider returns the pool-bound repository bundle used for
// reads outside any transaction.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.Repositories {
	return newRepositories(dbPool)
}

// TxManager runs functions inside one database transaction with a
// transaction-bound repository bundle.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a TxManager on the shared pool.
func NewTxManager(dbPool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: dbPool}
}

var _ portsrepo.TxManager = (*TxManager)(nil)

// WithinTx begins a transaction, hands fn a bundle bound to it, and
// commits on success. Any error from fn rolls everything back.
func (m *TxManager) WithinTx(ctx context.Context, fn func(r portsrepo.Repositories) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			_ = rbErr
		}
	}()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}
