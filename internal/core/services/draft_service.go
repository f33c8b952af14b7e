package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/utils/accounting"
	"github.com/google/uuid"
)

// draftService implements the draft lifecycle: create, approve, reject,
// resubmit, with an append-only revision log and source status mirroring.
type draftService struct {
	BaseService
	txm   portsrepo.TxManager
	repos portsrepo.Repositories
}

// NewDraftService creates a new draft lifecycle service.
func NewDraftService(txm portsrepo.TxManager, repos portsrepo.Repositories) portssvc.DraftSvcFacade {
	return &draftService{txm: txm, repos: repos}
}

var _ portssvc.DraftSvcFacade = (*draftService)(nil)

// buildLines assigns IDs and line numbers to the proposed lines.
func buildLines(draftID string, inputs []portssvc.DraftLineInput) []domain.DraftLine {
	lines := make([]domain.DraftLine, len(inputs))
	for i, in := range inputs {
		lines[i] = domain.DraftLine{
			LineID:    uuid.NewString(),
			DraftID:   draftID,
			LineNo:    i + 1,
			AccountID: in.AccountID,
			Debit:     in.Debit,
			Credit:    in.Credit,
			Memo:      in.Memo,
			Tag:       in.Tag,
		}
	}
	return lines
}

// validateAgainstChart checks that the period belongs to the book and is
// open, and that every referenced account exists in the book and is open
// for posting.
func (s *draftService) validateAgainstChart(ctx context.Context, r portsrepo.Repositories, bookID, periodID string, lines []domain.DraftLine) error {
	if _, err := r.Chart.FindBookByID(ctx, bookID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: book %s not found", apperrors.ErrValidation, bookID)
		}
		return err
	}

	period, err := r.Chart.FindPeriodByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: period %s not found", apperrors.ErrValidation, periodID)
		}
		return err
	}
	if period.BookID != bookID {
		return fmt.Errorf("%w: period %s does not belong to book %s", apperrors.ErrValidation, periodID, bookID)
	}
	if !period.IsOpen() {
		return fmt.Errorf("%w: period %d-%02d is not open", apperrors.ErrValidation, period.Year, period.Month)
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, ln := range lines {
		if !seen[ln.AccountID] {
			seen[ln.AccountID] = true
			accountIDs = append(accountIDs, ln.AccountID)
		}
	}
	accounts, err := r.Chart.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return err
	}
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, id)
		}
		if acc.BookID != bookID {
			return fmt.Errorf("%w: account %s does not belong to book %s", apperrors.ErrValidation, id, bookID)
		}
		if !acc.Postable() {
			return fmt.Errorf("%w: account %s (%s) is not open for posting", apperrors.ErrValidation, acc.Code, id)
		}
	}
	return nil
}

// persistNewDraft runs the chart checks and the one-live-draft-per-source
// guard, then stores the draft with its lines and revision 0. Must run on
// a transaction-bound bundle.
func (s *draftService) persistNewDraft(ctx context.Context, r portsrepo.Repositories, actorID string, draft domain.Draft, lines []domain.DraftLine, action domain.RevisionAction) error {
	if err := s.validateAgainstChart(ctx, r, draft.BookID, draft.PeriodID, lines); err != nil {
		return err
	}

	existing, err := r.Draft.FindActiveDraftBySource(ctx, draft.BookID, draft.Source)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: draft %s already holds source %s", apperrors.ErrDuplicate, existing.DraftID, draft.Source.IdempotencyKey())
	}

	return r.Draft.SaveDraft(ctx, draft, lines, action, actorID)
}

// CreateDraft validates and stores a new draft with its revision 0.
// At most one non-rejected draft may hold a given source key per book.
func (s *draftService) CreateDraft(ctx context.Context, actorID string, input portssvc.DraftInput) (*domain.DraftSnapshot, error) {
	if input.Source.Type == "" || input.Source.ID == "" {
		return nil, fmt.Errorf("%w: source type and id are required", apperrors.ErrValidation)
	}

	draftID := uuid.NewString()
	lines := buildLines(draftID, input.Lines)
	if err := accounting.ValidateDraftLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	draft := domain.Draft{
		DraftID:     draftID,
		BookID:      input.BookID,
		PeriodID:    input.PeriodID,
		CurrencyID:  input.CurrencyID,
		TxnDate:     input.TxnDate,
		Source:      input.Source,
		Description: input.Description,
		Status:      domain.DraftOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	err := s.txm.WithinTx(ctx, func(r portsrepo.Repositories) error {
		return s.persistNewDraft(ctx, r, actorID, draft, lines, domain.RevisionCreate)
	})
	if err != nil {
		s.LogError(ctx, err, "failed to create draft", slog.String("book_id", input.BookID))
		return nil, err
	}

	s.LogInfo(ctx, "draft created",
		slog.String("draft_id", draftID),
		slog.String("source", draft.Source.IdempotencyKey()))
	return &domain.DraftSnapshot{Draft: draft, Lines: lines}, nil
}

// GetDraft returns the draft and its lines.
func (s *draftService) GetDraft(ctx context.Context, draftID string) (*domain.DraftSnapshot, error) {
	draft, err := s.repos.Draft.FindDraftByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	lines, err := s.repos.Draft.FindLinesByDraftID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	return &domain.DraftSnapshot{Draft: *draft, Lines: lines}, nil
}

// ListDrafts returns a filtered page of drafts, newest first.
func (s *draftService) ListDrafts(ctx context.Context, filter portsrepo.DraftFilter, limit int, nextToken *string) ([]domain.Draft, *string, error) {
	if filter.BookID == "" {
		return nil, nil, fmt.Errorf("%w: book id is required", apperrors.ErrValidation)
	}
	return s.repos.Draft.ListDrafts(ctx, filter, limit, nextToken)
}

// ApproveDraft transitions DRAFT -> APPROVED and mirrors the approval onto
// the source document. Approving an already APPROVED draft is a no-op that
// returns it unchanged.
func (s *draftService) ApproveDraft(ctx context.Context, actorID, draftID string) (*domain.Draft, error) {
	var approved *domain.Draft
	err := s.txm.WithinTx(ctx, func(r portsrepo.Repositories) error {
		draft, err := r.Draft.FindDraftByIDForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if draft.Status == domain.DraftApproved {
			approved = draft
			return nil
		}
		if draft.Status != domain.DraftOpen {
			return fmt.Errorf("%w: draft %s is %s and cannot be approved", apperrors.ErrConflict, draftID, draft.Status)
		}

		if err := r.Draft.UpdateDraftStatus(ctx, draftID, domain.DraftApproved, actorID); err != nil {
			return err
		}
		if err := r.Draft.AppendRevision(ctx, draftID, domain.RevisionApprove, "", actorID); err != nil {
			return err
		}
		if err := r.Source.SyncApproved(ctx, draft.Source, actorID); err != nil {
			return err
		}

		draft.Status = domain.DraftApproved
		draft.ApprovedBy = actorID
		approved = draft
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "failed to approve draft", slog.String("draft_id", draftID))
		return nil, err
	}

	s.LogInfo(ctx, "draft approved", slog.String("draft_id", draftID), slog.String("actor_id", actorID))
	return approved, nil
}

// RejectDraft transitions DRAFT or APPROVED -> REJECTED with a mandatory
// reason, freeing the source key for a successor version. Rejecting an
// already REJECTED draft returns it unchanged.
func (s *draftService) RejectDraft(ctx context.Context, actorID, draftID, reason string) (*domain.Draft, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}

	var rejected *domain.Draft
	err := s.txm.WithinTx(ctx, func(r portsrepo.Repositories) error {
		draft, err := r.Draft.FindDraftByIDForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if draft.Status == domain.DraftRejected {
			rejected = draft
			return nil
		}
		if draft.Status != domain.DraftOpen && draft.Status != domain.DraftApproved {
			return fmt.Errorf("%w: draft %s is %s and cannot be rejected", apperrors.ErrConflict, draftID, draft.Status)
		}

		if err := r.Draft.UpdateDraftStatus(ctx, draftID, domain.DraftRejected, ""); err != nil {
			return err
		}
		if err := r.Draft.AppendRevision(ctx, draftID, domain.RevisionReject, reason, actorID); err != nil {
			return err
		}
		if err := r.Source.SyncRejected(ctx, draft.Source, actorID, reason); err != nil {
			return err
		}

		draft.Status = domain.DraftRejected
		rejected = draft
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "failed to reject draft", slog.String("draft_id", draftID))
		return nil, err
	}

	s.LogInfo(ctx, "draft rejected", slog.String("draft_id", draftID), slog.String("actor_id", actorID))
	return rejected, nil
}

// ResubmitDraft creates the successor of a REJECTED draft: a fresh draft
// under the same source identity at version+1, stored with a RESUBMIT
// revision 0. The rejected draft is never modified; REJECTED is terminal
// for it.
func (s *draftService) ResubmitDraft(ctx context.Context, actorID, draftID string, input portssvc.DraftInput) (*domain.DraftSnapshot, error) {
	newDraftID := uuid.NewString()
	lines := buildLines(newDraftID, input.Lines)
	if err := accounting.ValidateDraftLines(lines); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	var snapshot *domain.DraftSnapshot
	err := s.txm.WithinTx(ctx, func(r portsrepo.Repositories) error {
		prev, err := r.Draft.FindDraftByIDForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if prev.Status != domain.DraftRejected {
			return fmt.Errorf("%w: draft %s is %s, only REJECTED can be resubmitted", apperrors.ErrConflict, draftID, prev.Status)
		}

		periodID := input.PeriodID
		if periodID == "" {
			periodID = prev.PeriodID
		}

		now := time.Now().UTC()
		draft := domain.Draft{
			DraftID:    newDraftID,
			BookID:     prev.BookID,
			PeriodID:   periodID,
			CurrencyID: input.CurrencyID,
			TxnDate:    input.TxnDate,
			Source: domain.SourceRef{
				Type:    prev.Source.Type,
				ID:      prev.Source.ID,
				Version: prev.Source.Version + 1,
			},
			Description: input.Description,
			Status:      domain.DraftOpen,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}

		if err := s.persistNewDraft(ctx, r, actorID, draft, lines, domain.RevisionResubmit); err != nil {
			return err
		}

		snapshot = &domain.DraftSnapshot{Draft: draft, Lines: lines}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "failed to resubmit draft", slog.String("draft_id", draftID))
		return nil, err
	}

	s.LogInfo(ctx, "draft resubmitted",
		slog.String("rejected_draft_id", draftID),
		slog.String("draft_id", newDraftID),
		slog.String("actor_id", actorID))
	return snapshot, nil
}

// ListRevisions returns the draft's append-only revision log.
func (s *draftService) ListRevisions(ctx context.Context, draftID string) ([]domain.DraftRevision, error) {
	if _, err := s.repos.Draft.FindDraftByID(ctx, draftID); err != nil {
		return nil, err
	}
	return s.repos.Draft.ListRevisions(ctx, draftID)
}
