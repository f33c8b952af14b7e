package pgsql

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	"github.com/finbooks-io/ledger_backend/internal/utils/hashing"
	"github.com/jackc/pgx/v5/pgconn"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates the repository for the hash-linked audit log.
func newPgxAuditRepository(db DBTX) portsrepo.AuditRepository {
	return &PgxAuditRepository{BaseRepository{db: db}}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// Append links the entry to the chain tail and inserts it. The singleton
// audit_chain_tail row is locked first, which serializes concurrent
// appends so the tail read can never go stale between read and insert.
// Must run on a transaction-bound bundle; the unique hash constraint stays
// as a backstop against any bypassing writer.
func (r *PgxAuditRepository) Append(ctx context.Context, entry domain.AuditLogEntry) (*domain.AuditLogEntry, error) {
	var prevHash string
	err := r.db.QueryRow(ctx, `SELECT tail_hash FROM audit_chain_tail WHERE id = 1 FOR UPDATE;`).Scan(&prevHash)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock audit chain tail", err)
	}

	entry.PrevHash = prevHash
	hash, err := hashing.ChainHash(prevHash, entry.Payload)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to hash audit payload", err)
	}
	entry.Hash = hash

	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to serialize audit payload", err)
	}

	insertQuery := `
		INSERT INTO audit_log (entry_id, actor_id, action, entity_type, entity_id, at, payload, prev_hash, hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9);
	`
	_, err = r.db.Exec(ctx, insertQuery,
		entry.EntryID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID,
		entry.At, payload, entry.PrevHash, entry.Hash,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.NewAppError(500, "audit chain hash collision", err)
		}
		return nil, apperrors.NewAppError(500, "failed to insert audit entry "+entry.EntryID, err)
	}

	if _, err := r.db.Exec(ctx, `UPDATE audit_chain_tail SET tail_hash = $1 WHERE id = 1;`, entry.Hash); err != nil {
		return nil, apperrors.NewAppError(500, "failed to advance audit chain tail", err)
	}

	return &entry, nil
}

// ListOrdered returns entries in chain order; a non-positive limit
// returns the whole log. Ordering follows the insertion sequence, not the
// entry timestamps: "at" is captured before the tail lock is taken, so
// two concurrent appends can carry timestamps in the opposite order of
// their chain links.
func (r *PgxAuditRepository) ListOrdered(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	query := `
		SELECT entry_id, actor_id, action, entity_type, entity_id, at, payload, COALESCE(prev_hash, ''), hash
		FROM audit_log
		ORDER BY seq
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	query += `;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit log", err)
	}
	defer rows.Close()

	entries := []domain.AuditLogEntry{}
	for rows.Next() {
		var e domain.AuditLogEntry
		var payload []byte
		if err := rows.Scan(&e.EntryID, &e.ActorID, &e.Action, &e.EntityType, &e.EntityID,
			&e.At, &payload, &e.PrevHash, &e.Hash); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit row", err)
		}
		if err := json.Unmarshal(payload, &e.Payload); err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode payload of audit entry "+e.EntryID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit rows", err)
	}
	return entries, nil
}
