package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	"github.com/finbooks-io/ledger_backend/internal/models"
	"github.com/finbooks-io/ledger_backend/internal/utils/mapping"
	"github.com/finbooks-io/ledger_backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type PgxDraftRepository struct {
	BaseRepository
}

// newPgxDraftRepository creates the repository for drafts, their lines and
// the revision log.
func newPgxDraftRepository(db DBTX) portsrepo.DraftRepository {
	return &PgxDraftRepository{BaseRepository{db: db}}
}

var _ portsrepo.DraftRepository = (*PgxDraftRepository)(nil)

const draftColumns = `
	draft_id, book_id, period_id, currency_id, txn_date,
	source_type, source_id, source_version, description, status,
	approved_by, posted_txn_id,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanDraft(row pgx.Row) (domain.Draft, error) {
	var m models.Draft
	err := row.Scan(
		&m.DraftID,
		&m.BookID,
		&m.PeriodID,
		&m.CurrencyID,
		&m.TxnDate,
		&m.SourceType,
		&m.SourceID,
		&m.SourceVersion,
		&m.Description,
		&m.Status,
		&m.ApprovedBy,
		&m.PostedTxnID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Draft{}, err
	}
	return mapping.ToDomainDraft(m), nil
}

// SaveDraft inserts the draft, its lines and revision 0 atomically. Must
// run on a transaction-bound bundle.
func (r *PgxDraftRepository) SaveDraft(ctx context.Context, draft domain.Draft, lines []domain.DraftLine, action domain.RevisionAction, actorID string) error {
	m := mapping.ToModelDraft(draft)
	draftQuery := `
		INSERT INTO drafts (
			draft_id, book_id, period_id, currency_id, txn_date,
			source_type, source_id, source_version, description, status,
			approved_by, posted_txn_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.db.Exec(ctx, draftQuery,
		m.DraftID, m.BookID, m.PeriodID, m.CurrencyID, m.TxnDate,
		m.SourceType, m.SourceID, m.SourceVersion, m.Description, m.Status,
		m.ApprovedBy, m.PostedTxnID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert draft "+m.DraftID, err)
	}

	if err := r.insertLines(ctx, lines); err != nil {
		return err
	}

	return r.appendRevisionSnapshot(ctx, draft, lines, action, "", actorID)
}

func (r *PgxDraftRepository) insertLines(ctx context.Context, lines []domain.DraftLine) error {
	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO draft_lines (line_id, draft_id, line_no, account_id, debit, credit, memo, role, lot_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, ln := range lines {
		ml := mapping.ToModelDraftLine(ln)
		batch.Queue(lineQuery,
			ml.LineID, ml.DraftID, ml.LineNo, ml.AccountID,
			ml.Debit, ml.Credit, ml.Memo, ml.Role, ml.LotID,
		)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert draft lines", err)
	}
	return nil
}

func (r *PgxDraftRepository) FindDraftByID(ctx context.Context, draftID string) (*domain.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE draft_id = $1;`
	draft, err := scanDraft(r.db.QueryRow(ctx, query, draftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find draft "+draftID, err)
	}
	return &draft, nil
}

// FindDraftByIDForUpdate locks the draft row, serializing every lifecycle
// transition on it for the duration of the enclosing transaction.
func (r *PgxDraftRepository) FindDraftByIDForUpdate(ctx context.Context, draftID string) (*domain.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE draft_id = $1 FOR UPDATE;`
	draft, err := scanDraft(r.db.QueryRow(ctx, query, draftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock draft "+draftID, err)
	}
	return &draft, nil
}

func (r *PgxDraftRepository) FindLinesByDraftID(ctx context.Context, draftID string) ([]domain.DraftLine, error) {
	query := `
		SELECT line_id, draft_id, line_no, account_id, debit, credit, memo, role, lot_id
		FROM draft_lines
		WHERE draft_id = $1
		ORDER BY line_no;
	`
	rows, err := r.db.Query(ctx, query, draftID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for draft "+draftID, err)
	}
	defer rows.Close()

	modelLines := []models.DraftLine{}
	for rows.Next() {
		var ml models.DraftLine
		if err := rows.Scan(&ml.LineID, &ml.DraftID, &ml.LineNo, &ml.AccountID,
			&ml.Debit, &ml.Credit, &ml.Memo, &ml.Role, &ml.LotID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan draft line row", err)
		}
		modelLines = append(modelLines, ml)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating draft line rows", err)
	}
	return mapping.ToDomainDraftLineSlice(modelLines), nil
}

func (r *PgxDraftRepository) FindActiveDraftBySource(ctx context.Context, bookID string, src domain.SourceRef) (*domain.Draft, error) {
	query := `SELECT ` + draftColumns + `
		FROM drafts
		WHERE book_id = $1 AND source_type = $2 AND source_id = $3 AND source_version = $4
		  AND status != 'REJECTED';
	`
	draft, err := scanDraft(r.db.QueryRow(ctx, query, bookID, string(src.Type), src.ID, src.Version))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find draft by source "+src.IdempotencyKey(), err)
	}
	return &draft, nil
}

// ListDrafts returns a filtered page of drafts, newest first, with
// token-based keyset pagination on (created_at, draft_id).
func (r *PgxDraftRepository) ListDrafts(ctx context.Context, filter portsrepo.DraftFilter, limit int, nextToken *string) ([]domain.Draft, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + draftColumns + ` FROM drafts WHERE book_id = $1`
	args := []any{filter.BookID}

	if filter.PeriodID != "" {
		args = append(args, filter.PeriodID)
		query += ` AND period_id = $` + strconv.Itoa(len(args))
	}
	if filter.SourceType != "" {
		args = append(args, string(filter.SourceType))
		query += ` AND source_type = $` + strconv.Itoa(len(args))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, st := range filter.Statuses {
			statuses[i] = string(st)
		}
		args = append(args, statuses)
		query += ` AND status = ANY($` + strconv.Itoa(len(args)) + `)`
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, draft_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, draft_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query drafts for book "+filter.BookID, err)
	}
	defer rows.Close()

	drafts := []domain.Draft{}
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan draft row", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating draft rows", err)
	}

	var nextTokenVal *string
	if len(drafts) > limit {
		last := drafts[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.DraftID)
		nextTokenVal = &token
		drafts = drafts[:limit]
	}
	return drafts, nextTokenVal, nil
}

func (r *PgxDraftRepository) UpdateDraftStatus(ctx context.Context, draftID string, status domain.DraftStatus, approvedBy string) error {
	query := `
		UPDATE drafts
		SET status = $2,
		    approved_by = NULLIF($3, ''),
		    last_updated_at = $4,
		    last_updated_by = COALESCE(NULLIF($3, ''), last_updated_by)
		WHERE draft_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, draftID, string(status), approvedBy, time.Now().UTC())
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of draft "+draftID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDraftRepository) MarkDraftPosted(ctx context.Context, draftID string, txnID string) error {
	query := `
		UPDATE drafts
		SET status = 'POSTED',
		    posted_txn_id = $2,
		    last_updated_at = $3
		WHERE draft_id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, draftID, txnID, time.Now().UTC())
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark draft "+draftID+" posted", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AppendRevision snapshots the draft's current state under the next rev_no.
func (r *PgxDraftRepository) AppendRevision(ctx context.Context, draftID string, action domain.RevisionAction, reason string, actorID string) error {
	draft, err := r.FindDraftByID(ctx, draftID)
	if err != nil {
		return err
	}
	lines, err := r.FindLinesByDraftID(ctx, draftID)
	if err != nil {
		return err
	}
	return r.appendRevisionSnapshot(ctx, *draft, lines, action, reason, actorID)
}

func (r *PgxDraftRepository) appendRevisionSnapshot(ctx context.Context, draft domain.Draft, lines []domain.DraftLine, action domain.RevisionAction, reason string, actorID string) error {
	snapshot, err := json.Marshal(domain.DraftSnapshot{Draft: draft, Lines: lines})
	if err != nil {
		return apperrors.NewAppError(500, "failed to serialize draft snapshot", err)
	}

	query := `
		INSERT INTO draft_revisions (revision_id, draft_id, rev_no, action, reason, actor_id, at, snapshot)
		VALUES (
			$1, $2,
			COALESCE((SELECT MAX(rev_no) FROM draft_revisions WHERE draft_id = $2), -1) + 1,
			$3, NULLIF($4, ''), $5, $6, $7
		);
	`
	_, err = r.db.Exec(ctx, query,
		uuid.NewString(), draft.DraftID, string(action), reason, actorID, time.Now().UTC(), snapshot,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to append revision for draft "+draft.DraftID, err)
	}
	return nil
}

func (r *PgxDraftRepository) ListRevisions(ctx context.Context, draftID string) ([]domain.DraftRevision, error) {
	query := `
		SELECT revision_id, draft_id, rev_no, action, COALESCE(reason, ''), actor_id, at, snapshot
		FROM draft_revisions
		WHERE draft_id = $1
		ORDER BY rev_no;
	`
	rows, err := r.db.Query(ctx, query, draftID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query revisions for draft "+draftID, err)
	}
	defer rows.Close()

	revisions := []domain.DraftRevision{}
	for rows.Next() {
		var rev domain.DraftRevision
		var action string
		var snapshot []byte
		if err := rows.Scan(&rev.RevisionID, &rev.DraftID, &rev.RevNo, &action, &rev.Reason, &rev.ActorID, &rev.At, &snapshot); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan revision row", err)
		}
		rev.Action = domain.RevisionAction(action)
		if err := json.Unmarshal(snapshot, &rev.Snapshot); err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode snapshot of revision "+rev.RevisionID, err)
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating revision rows", err)
	}
	return revisions, nil
}
