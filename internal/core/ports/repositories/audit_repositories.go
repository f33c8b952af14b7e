package repositories

import (
	"context"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
)

// AuditRepository owns the append-only hash-chained audit log.
type AuditRepository interface {
	// Append links the entry to the current chain tail and inserts it.
	// Implementations must serialize concurrent appends (singleton tail
	// row lock) so the prev-hash read cannot go stale; the unique
	// constraint on the hash remains as a backstop.
	Append(ctx context.Context, entry domain.AuditLogEntry) (*domain.AuditLogEntry, error)

	// ListOrdered returns entries oldest-first for chain verification.
	// A non-positive limit returns the whole log.
	ListOrdered(ctx context.Context, limit int) ([]domain.AuditLogEntry, error)
}
