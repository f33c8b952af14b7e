package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxSourceRepository struct {
	BaseRepository
}

// newPgxSourceRepository creates the status write-back repository for the
// entities that originate drafts: business documents, invoices, payments.
func newPgxSourceRepository(db DBTX) portsrepo.SourceRepository {
	return &PgxSourceRepository{BaseRepository{db: db}}
}

var _ portsrepo.SourceRepository = (*PgxSourceRepository)(nil)

func (r *PgxSourceRepository) setStatus(ctx context.Context, table, idColumn, id, status, actorID string) error {
	query := `
		UPDATE ` + table + `
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE ` + idColumn + ` = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, id, status, time.Now().UTC(), actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update "+table+" "+id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SyncApproved mirrors a draft approval onto its source entity. Sources
// without a mirrored entity (manual, scheduled) are a no-op.
func (r *PgxSourceRepository) SyncApproved(ctx context.Context, src domain.SourceRef, actorID string) error {
	switch {
	case src.IsBusinessDocument():
		return r.setStatus(ctx, "source_documents", "doc_id", src.ID, "APPROVED", actorID)
	case src.IsInvoice():
		return r.setStatus(ctx, "invoices", "invoice_id", src.ID, "APPROVED", actorID)
	case src.IsPayment():
		return r.setStatus(ctx, "payments", "payment_id", src.ID, "APPROVED", actorID)
	}
	return nil
}

func (r *PgxSourceRepository) setRejected(ctx context.Context, table, idColumn, id, actorID, reason string) error {
	query := `
		UPDATE ` + table + `
		SET status = 'REJECTED', reject_reason = $2, last_updated_at = $3, last_updated_by = $4
		WHERE ` + idColumn + ` = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, id, reason, time.Now().UTC(), actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to reject "+table+" "+id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SyncRejected mirrors a rejection and its reason onto the source entity.
func (r *PgxSourceRepository) SyncRejected(ctx context.Context, src domain.SourceRef, actorID, reason string) error {
	switch {
	case src.IsBusinessDocument():
		return r.setRejected(ctx, "source_documents", "doc_id", src.ID, actorID, reason)
	case src.IsInvoice():
		return r.setRejected(ctx, "invoices", "invoice_id", src.ID, actorID, reason)
	case src.IsPayment():
		return r.setRejected(ctx, "payments", "payment_id", src.ID, actorID, reason)
	}
	return nil
}

// SyncPosted mirrors a successful post. Documents flip to POSTED; invoices
// additionally get the transaction link and a settlement lot if they lack
// one; payments settle the invoices whose allocations now cover the gross
// total, closing their lots.
func (r *PgxSourceRepository) SyncPosted(ctx context.Context, src domain.SourceRef, txnID string) error {
	switch {
	case src.IsBusinessDocument():
		return r.setStatus(ctx, "source_documents", "doc_id", src.ID, "POSTED", "")

	case src.IsInvoice():
		return r.syncInvoicePosted(ctx, src.ID, txnID)

	case src.IsPayment():
		return r.syncPaymentPosted(ctx, src.ID, txnID)
	}
	return nil
}

func (r *PgxSourceRepository) syncInvoicePosted(ctx context.Context, invoiceID, txnID string) error {
	var lotID *string
	err := r.db.QueryRow(ctx, `SELECT lot_id FROM invoices WHERE invoice_id = $1 FOR UPDATE;`, invoiceID).Scan(&lotID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to lock invoice "+invoiceID, err)
	}

	if lotID == nil {
		newLotID := uuid.NewString()
		_, err = r.db.Exec(ctx,
			`INSERT INTO settlement_lots (lot_id, invoice_id, status, created_at) VALUES ($1, $2, 'OPEN', $3);`,
			newLotID, invoiceID, time.Now().UTC(),
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to create settlement lot for invoice "+invoiceID, err)
		}
		lotID = &newLotID
	}

	query := `
		UPDATE invoices
		SET status = 'POSTED', txn_id = $2, lot_id = $3, last_updated_at = $4
		WHERE invoice_id = $1;
	`
	if _, err := r.db.Exec(ctx, query, invoiceID, txnID, lotID, time.Now().UTC()); err != nil {
		return apperrors.NewAppError(500, "failed to mark invoice "+invoiceID+" posted", err)
	}
	return nil
}

func (r *PgxSourceRepository) syncPaymentPosted(ctx context.Context, paymentID, txnID string) error {
	query := `
		UPDATE payments
		SET status = 'POSTED', txn_id = $2, last_updated_at = $3
		WHERE payment_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, paymentID, txnID, time.Now().UTC())
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark payment "+paymentID+" posted", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	// Lock the invoices this payment touches, then settle each one only
	// when its cumulative allocations cover the gross total. A partially
	// covered invoice keeps its status and its open lot.
	lockQuery := `
		SELECT invoice_id, total_gross
		FROM invoices
		WHERE invoice_id IN (SELECT invoice_id FROM payment_allocations WHERE payment_id = $1)
		FOR UPDATE;
	`
	rows, err := r.db.Query(ctx, lockQuery, paymentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock covered invoices for payment "+paymentID, err)
	}
	type coveredInvoice struct {
		invoiceID  string
		totalGross decimal.Decimal
	}
	covered := []coveredInvoice{}
	for rows.Next() {
		var inv coveredInvoice
		if err := rows.Scan(&inv.invoiceID, &inv.totalGross); err != nil {
			rows.Close()
			return apperrors.NewAppError(500, "failed to scan covered invoice row", err)
		}
		covered = append(covered, inv)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating covered invoice rows", err)
	}

	for _, inv := range covered {
		var applied decimal.Decimal
		err := r.db.QueryRow(ctx,
			`SELECT COALESCE(SUM(amount), 0) FROM payment_allocations WHERE invoice_id = $1;`,
			inv.invoiceID,
		).Scan(&applied)
		if err != nil {
			return apperrors.NewAppError(500, "failed to sum allocations of invoice "+inv.invoiceID, err)
		}
		if applied.LessThan(inv.totalGross) {
			continue
		}

		paidQuery := `
			UPDATE invoices
			SET status = 'PAID', last_updated_at = $2
			WHERE invoice_id = $1;
		`
		if _, err := r.db.Exec(ctx, paidQuery, inv.invoiceID, time.Now().UTC()); err != nil {
			return apperrors.NewAppError(500, "failed to mark invoice "+inv.invoiceID+" paid", err)
		}

		lotQuery := `
			UPDATE settlement_lots
			SET status = 'CLOSED', closed_at = $2
			WHERE invoice_id = $1 AND status = 'OPEN';
		`
		if _, err := r.db.Exec(ctx, lotQuery, inv.invoiceID, time.Now().UTC()); err != nil {
			return apperrors.NewAppError(500, "failed to close settlement lot of invoice "+inv.invoiceID, err)
		}
	}
	return nil
}

// FindDocumentInfo returns the source entity's identity and status for
// drilldown, or nil for sources without a mirrored entity.
func (r *PgxSourceRepository) FindDocumentInfo(ctx context.Context, src domain.SourceRef) (*domain.SourceDocumentInfo, error) {
	var query string
	switch {
	case src.IsBusinessDocument():
		query = `
			SELECT doc_id, doc_no, status, doc_date, COALESCE(description, ''), revision_no, COALESCE(draft_id, '')
			FROM source_documents WHERE doc_id = $1;
		`
	case src.IsInvoice():
		query = `
			SELECT invoice_id, invoice_no, status, invoice_date, COALESCE(description, ''), revision_no, COALESCE(draft_id, '')
			FROM invoices WHERE invoice_id = $1;
		`
	case src.IsPayment():
		query = `
			SELECT payment_id, payment_no, status, payment_date, COALESCE(description, ''), revision_no, COALESCE(draft_id, '')
			FROM payments WHERE payment_id = $1;
		`
	default:
		return nil, nil
	}

	var info domain.SourceDocumentInfo
	info.DocType = string(src.Type)
	err := r.db.QueryRow(ctx, query, src.ID).Scan(
		&info.DocID, &info.DocNo, &info.Status, &info.DocDate,
		&info.Description, &info.RevisionNo, &info.DraftID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find source document "+src.ID, err)
	}
	return &info, nil
}
