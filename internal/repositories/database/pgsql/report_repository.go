package pgsql

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxReportRepository struct {
	BaseRepository
}

// newPgxReportRepository creates the repository for report configuration,
// snapshots and the aggregation queries behind statements and drilldown.
func newPgxReportRepository(db DBTX) portsrepo.ReportRepository {
	return &PgxReportRepository{BaseRepository{db: db}}
}

var _ portsrepo.ReportRepository = (*PgxReportRepository)(nil)

// normalizedSum flips the sign for credit-normal account types so report
// figures read positively in their natural direction. Keep in sync with
// domain.AccountType.IsCreditNormal.
const normalizedSum = `
	SUM(CASE WHEN a.account_type IN ('LIABILITY', 'EQUITY', 'INCOME', 'AP')
	         THEN -s.value ELSE s.value END)
`

func (r *PgxReportRepository) FindBasisByCode(ctx context.Context, code string) (*domain.ReportBasis, error) {
	query := `SELECT basis_id, code, name FROM report_bases WHERE code = $1;`
	var b domain.ReportBasis
	err := r.db.QueryRow(ctx, query, code).Scan(&b.BasisID, &b.Code, &b.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find report basis "+code, err)
	}
	return &b, nil
}

func (r *PgxReportRepository) ListItems(ctx context.Context) ([]domain.ReportItem, error) {
	query := `
		SELECT item_id, statement_type, code, name, display_order, calc_mode
		FROM report_items
		ORDER BY statement_type, display_order;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query report items", err)
	}
	defer rows.Close()

	items := []domain.ReportItem{}
	for rows.Next() {
		var it domain.ReportItem
		if err := rows.Scan(&it.ItemID, &it.StatementType, &it.Code, &it.Name, &it.DisplayOrder, &it.CalcMode); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan report item row", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating report item rows", err)
	}
	return items, nil
}

func (r *PgxReportRepository) FindItemByCode(ctx context.Context, statementType domain.StatementType, code string) (*domain.ReportItem, error) {
	query := `
		SELECT item_id, statement_type, code, name, display_order, calc_mode
		FROM report_items
		WHERE statement_type = $1 AND code = $2;
	`
	var it domain.ReportItem
	err := r.db.QueryRow(ctx, query, string(statementType), code).Scan(
		&it.ItemID, &it.StatementType, &it.Code, &it.Name, &it.DisplayOrder, &it.CalcMode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find report item "+code, err)
	}
	return &it, nil
}

func (r *PgxReportRepository) listMappings(ctx context.Context, query string, args ...any) ([]domain.ReportMapping, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query report mappings", err)
	}
	defer rows.Close()

	mappings := []domain.ReportMapping{}
	for rows.Next() {
		var m domain.ReportMapping
		if err := rows.Scan(&m.MappingID, &m.BasisID, &m.StatementType, &m.ItemID, &m.AccountID, &m.IncludeChildren); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan report mapping row", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating report mapping rows", err)
	}
	return mappings, nil
}

func (r *PgxReportRepository) ListMappingsByBasis(ctx context.Context, basisID string) ([]domain.ReportMapping, error) {
	query := `
		SELECT m.mapping_id, m.basis_id, i.statement_type, m.item_id, m.account_id, m.include_children
		FROM report_mappings m
		JOIN report_items i ON i.item_id = m.item_id
		WHERE m.basis_id = $1;
	`
	return r.listMappings(ctx, query, basisID)
}

func (r *PgxReportRepository) ListMappingsByBasisItem(ctx context.Context, basisID, itemID string) ([]domain.ReportMapping, error) {
	query := `
		SELECT m.mapping_id, m.basis_id, i.statement_type, m.item_id, m.account_id, m.include_children
		FROM report_mappings m
		JOIN report_items i ON i.item_id = m.item_id
		WHERE m.basis_id = $1 AND m.item_id = $2;
	`
	return r.listMappings(ctx, query, basisID, itemID)
}

const snapshotColumns = `
	snapshot_id, book_id, period_id, basis_id, params_hash,
	generated_by, generated_at, is_stale, result, log
`

func scanSnapshot(row pgx.Row) (*domain.ReportSnapshot, error) {
	var s domain.ReportSnapshot
	var result, logBody []byte
	err := row.Scan(
		&s.SnapshotID, &s.BookID, &s.PeriodID, &s.BasisID, &s.ParamsHash,
		&s.GeneratedBy, &s.GeneratedAt, &s.IsStale, &result, &logBody,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(result, &s.Result); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(logBody, &s.Log); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PgxReportRepository) FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.ReportSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM report_snapshots WHERE snapshot_id = $1;`
	s, err := scanSnapshot(r.db.QueryRow(ctx, query, snapshotID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find report snapshot "+snapshotID, err)
	}
	return s, nil
}

func (r *PgxReportRepository) FindSnapshotByKey(ctx context.Context, bookID, paramsHash string) (*domain.ReportSnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM report_snapshots WHERE book_id = $1 AND params_hash = $2;`
	s, err := scanSnapshot(r.db.QueryRow(ctx, query, bookID, paramsHash))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find report snapshot by key", err)
	}
	return s, nil
}

// UpsertSnapshot writes the snapshot keyed by (book, params hash),
// updating the existing row in place on regeneration. The stored
// snapshot_id survives regeneration so drilldown links stay valid.
func (r *PgxReportRepository) UpsertSnapshot(ctx context.Context, snapshot domain.ReportSnapshot) (string, error) {
	result, err := json.Marshal(snapshot.Result)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to serialize snapshot result", err)
	}
	logBody, err := json.Marshal(snapshot.Log)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to serialize snapshot log", err)
	}

	query := `
		INSERT INTO report_snapshots (
			snapshot_id, book_id, period_id, basis_id, params_hash,
			generated_by, generated_at, is_stale, result, log
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (book_id, params_hash)
		DO UPDATE SET generated_by = EXCLUDED.generated_by,
		              generated_at = EXCLUDED.generated_at,
		              is_stale = EXCLUDED.is_stale,
		              result = EXCLUDED.result,
		              log = EXCLUDED.log
		RETURNING snapshot_id;
	`
	var snapshotID string
	err = r.db.QueryRow(ctx, query,
		snapshot.SnapshotID, snapshot.BookID, snapshot.PeriodID, snapshot.BasisID, snapshot.ParamsHash,
		snapshot.GeneratedBy, snapshot.GeneratedAt, snapshot.IsStale, result, logBody,
	).Scan(&snapshotID)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to upsert report snapshot", err)
	}
	return snapshotID, nil
}

// MarkSnapshotsStale flags every snapshot of the book; any posting
// invalidates memoized figures.
func (r *PgxReportRepository) MarkSnapshotsStale(ctx context.Context, bookID string) error {
	query := `UPDATE report_snapshots SET is_stale = TRUE WHERE book_id = $1 AND is_stale = FALSE;`
	if _, err := r.db.Exec(ctx, query, bookID); err != nil {
		return apperrors.NewAppError(500, "failed to mark snapshots stale for book "+bookID, err)
	}
	return nil
}

func (r *PgxReportRepository) sumByAccount(ctx context.Context, query string, args ...any) (map[string]decimal.Decimal, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to run report aggregation", err)
	}
	defer rows.Close()

	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var accountID string
		var sum decimal.Decimal
		if err := rows.Scan(&accountID, &sum); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan aggregation row", err)
		}
		out[accountID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating aggregation rows", err)
	}
	return out, nil
}

// BalanceByAccount sums normalized split values per account cumulatively
// across all periods with key <= periodKey.
func (r *PgxReportRepository) BalanceByAccount(ctx context.Context, bookID string, accountIDs []string, periodKey int) (map[string]decimal.Decimal, error) {
	if len(accountIDs) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	query := `
		SELECT s.account_id, ` + normalizedSum + `
		FROM splits s
		JOIN transactions t ON t.txn_id = s.txn_id
		JOIN accounting_periods p ON p.period_id = t.period_id
		JOIN accounts a ON a.account_id = s.account_id
		WHERE t.book_id = $1
		  AND t.status = 'POSTED'
		  AND s.account_id = ANY($2)
		  AND (p.year * 100 + p.month) <= $3
		GROUP BY s.account_id;
	`
	return r.sumByAccount(ctx, query, bookID, accountIDs, periodKey)
}

// ActivityByAccount sums normalized split values per account within one
// period only.
func (r *PgxReportRepository) ActivityByAccount(ctx context.Context, bookID string, accountIDs []string, periodID string) (map[string]decimal.Decimal, error) {
	if len(accountIDs) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	query := `
		SELECT s.account_id, ` + normalizedSum + `
		FROM splits s
		JOIN transactions t ON t.txn_id = s.txn_id
		JOIN accounts a ON a.account_id = s.account_id
		WHERE t.book_id = $1
		  AND t.status = 'POSTED'
		  AND s.account_id = ANY($2)
		  AND t.period_id = $3
		GROUP BY s.account_id;
	`
	return r.sumByAccount(ctx, query, bookID, accountIDs, periodID)
}

const registerSelect = `
	SELECT t.txn_id, t.voucher_num, t.txn_date, COALESCE(t.description, ''), s.line_no,
	       CASE WHEN a.account_type IN ('LIABILITY', 'EQUITY', 'INCOME', 'AP')
	            THEN -s.value ELSE s.value END,
	       COALESCE(s.memo, ''), t.source_type, t.source_id, t.source_version
	FROM splits s
	JOIN transactions t ON t.txn_id = s.txn_id
	JOIN accounts a ON a.account_id = s.account_id
`

func (r *PgxReportRepository) queryRegister(ctx context.Context, query string, args ...any) ([]domain.RegisterEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query register", err)
	}
	defer rows.Close()

	entries := []domain.RegisterEntry{}
	for rows.Next() {
		var e domain.RegisterEntry
		var srcType string
		if err := rows.Scan(&e.TxnID, &e.VoucherNum, &e.TxnDate, &e.Description, &e.LineNo,
			&e.Value, &e.Memo, &srcType, &e.Source.ID, &e.Source.Version); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan register row", err)
		}
		e.Source.Type = domain.SourceType(srcType)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating register rows", err)
	}
	return entries, nil
}

func (r *PgxReportRepository) RegisterThroughPeriod(ctx context.Context, bookID string, accountIDs []string, periodKey int, limit int) ([]domain.RegisterEntry, error) {
	query := registerSelect + `
		JOIN accounting_periods p ON p.period_id = t.period_id
		WHERE t.book_id = $1
		  AND t.status = 'POSTED'
		  AND s.account_id = ANY($2)
		  AND (p.year * 100 + p.month) <= $3
		ORDER BY t.txn_date DESC, t.enter_date DESC, s.line_no
		LIMIT $4;
	`
	return r.queryRegister(ctx, query, bookID, accountIDs, periodKey, limit)
}

func (r *PgxReportRepository) RegisterInPeriod(ctx context.Context, bookID string, accountIDs []string, periodID string, limit int) ([]domain.RegisterEntry, error) {
	query := registerSelect + `
		WHERE t.book_id = $1
		  AND t.status = 'POSTED'
		  AND s.account_id = ANY($2)
		  AND t.period_id = $3
		ORDER BY t.txn_date DESC, t.enter_date DESC, s.line_no
		LIMIT $4;
	`
	return r.queryRegister(ctx, query, bookID, accountIDs, periodID, limit)
}
