package repositories

import (
	"context"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
)

// DraftFilter narrows draft listings.
type DraftFilter struct {
	BookID     string
	PeriodID   string
	SourceType domain.SourceType
	Statuses   []domain.DraftStatus
}

// DraftRepository owns drafts, their lines, and the append-only per-draft
// revision log.
type DraftRepository interface {
	// SaveDraft inserts the draft, its lines, and revision 0 atomically.
	SaveDraft(ctx context.Context, draft domain.Draft, lines []domain.DraftLine, action domain.RevisionAction, actorID string) error

	FindDraftByID(ctx context.Context, draftID string) (*domain.Draft, error)
	// FindDraftByIDForUpdate locks the draft row for the duration of the
	// enclosing transaction, serializing concurrent lifecycle calls.
	FindDraftByIDForUpdate(ctx context.Context, draftID string) (*domain.Draft, error)
	FindLinesByDraftID(ctx context.Context, draftID string) ([]domain.DraftLine, error)
	ListDrafts(ctx context.Context, filter DraftFilter, limit int, nextToken *string) ([]domain.Draft, *string, error)

	// FindActiveDraftBySource returns the non-rejected draft holding the
	// source key, or ErrNotFound.
	FindActiveDraftBySource(ctx context.Context, bookID string, src domain.SourceRef) (*domain.Draft, error)

	UpdateDraftStatus(ctx context.Context, draftID string, status domain.DraftStatus, approvedBy string) error
	MarkDraftPosted(ctx context.Context, draftID string, txnID string) error

	// AppendRevision assigns the next rev_no and stores a full snapshot of
	// the draft and its lines. Revisions are never mutated or deleted.
	AppendRevision(ctx context.Context, draftID string, action domain.RevisionAction, reason string, actorID string) error
	ListRevisions(ctx context.Context, draftID string) ([]domain.DraftRevision, error)
}
