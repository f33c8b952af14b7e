package repositories

import (
	"context"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
)

// SourceRepository is the status write-back port against whichever entity
// owns a draft's source key (business document, invoice, payment). It is a
// narrow mirror contract: the core never evaluates those entities'
// business rules beyond the settlement checks named here.
type SourceRepository interface {
	// SyncApproved mirrors a draft approval onto its source document.
	// A no-op for sources without a mirrored entity (manual, scheduled).
	SyncApproved(ctx context.Context, src domain.SourceRef, actorID string) error

	// SyncRejected mirrors a rejection and its reason.
	SyncRejected(ctx context.Context, src domain.SourceRef, actorID, reason string) error

	// SyncPosted mirrors a successful post: documents become POSTED,
	// invoices get the transaction link (backfilling a settlement lot if
	// missing), payments become POSTED and flip covered invoices to PAID,
	// closing their lots.
	SyncPosted(ctx context.Context, src domain.SourceRef, txnID string) error

	// FindDocumentInfo returns the source document identity/status for
	// drilldown, or nil when the source has no mirrored entity.
	FindDocumentInfo(ctx context.Context, src domain.SourceRef) (*domain.SourceDocumentInfo, error)
}
