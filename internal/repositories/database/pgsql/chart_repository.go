package pgsql

import (
	"context"
	"errors"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxChartRepository struct {
	BaseRepository
}

// newPgxChartRepository creates the repository for chart and period reads.
func newPgxChartRepository(db DBTX) portsrepo.ChartRepository {
	return &PgxChartRepository{BaseRepository{db: db}}
}

var _ portsrepo.ChartRepository = (*PgxChartRepository)(nil)

func (r *PgxChartRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	query := `
		SELECT book_id, name, base_currency_id, created_at
		FROM books
		WHERE book_id = $1;
	`
	var b domain.Book
	err := r.db.QueryRow(ctx, query, bookID).Scan(&b.BookID, &b.Name, &b.BaseCurrencyID, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find book "+bookID, err)
	}
	return &b, nil
}

func (r *PgxChartRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `
		SELECT period_id, book_id, year, month, status
		FROM accounting_periods
		WHERE period_id = $1;
	`
	var p domain.AccountingPeriod
	err := r.db.QueryRow(ctx, query, periodID).Scan(&p.PeriodID, &p.BookID, &p.Year, &p.Month, &p.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find period "+periodID, err)
	}
	return &p, nil
}

func (r *PgxChartRepository) ListPeriodsByBook(ctx context.Context, bookID string) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT period_id, book_id, year, month, status
		FROM accounting_periods
		WHERE book_id = $1
		ORDER BY year, month;
	`
	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query periods for book "+bookID, err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		var p domain.AccountingPeriod
		if err := rows.Scan(&p.PeriodID, &p.BookID, &p.Year, &p.Month, &p.Status); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan period row", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating period rows", err)
	}
	return periods, nil
}

const accountColumns = `
	account_id, book_id, COALESCE(parent_id, ''), code, name, COALESCE(description, ''),
	account_type, commodity_id, allow_post, is_active, is_hidden, is_placeholder
`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.AccountID,
		&a.BookID,
		&a.ParentID,
		&a.Code,
		&a.Name,
		&a.Description,
		&a.AccountType,
		&a.CommodityID,
		&a.AllowPost,
		&a.IsActive,
		&a.IsHidden,
		&a.IsPlaceholder,
	)
	return a, err
}

func (r *PgxChartRepository) ListAccountsByBook(ctx context.Context, bookID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE book_id = $1 ORDER BY code;`
	rows, err := r.db.Query(ctx, query, bookID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts for book "+bookID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}
	return accounts, nil
}

// FindAccountsByIDs returns the requested accounts keyed by ID. A missing
// ID yields ErrNotFound so callers never silently post to ghosts.
func (r *PgxChartRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`
	rows, err := r.db.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts by IDs", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan account row", err)
		}
		out[a.AccountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating account rows", err)
	}

	for _, id := range accountIDs {
		if _, ok := out[id]; !ok {
			return nil, apperrors.ErrNotFound
		}
	}
	return out, nil
}

func (r *PgxChartRepository) FindCommodityByID(ctx context.Context, commodityID string) (*domain.Commodity, error) {
	query := `
		SELECT commodity_id, type, code, name, precision
		FROM commodities
		WHERE commodity_id = $1;
	`
	var c domain.Commodity
	err := r.db.QueryRow(ctx, query, commodityID).Scan(&c.CommodityID, &c.Type, &c.Code, &c.Name, &c.Precision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find commodity "+commodityID, err)
	}
	return &c, nil
}

func (r *PgxChartRepository) FindCommoditiesByIDs(ctx context.Context, commodityIDs []string) (map[string]domain.Commodity, error) {
	if len(commodityIDs) == 0 {
		return map[string]domain.Commodity{}, nil
	}

	query := `
		SELECT commodity_id, type, code, name, precision
		FROM commodities
		WHERE commodity_id = ANY($1);
	`
	rows, err := r.db.Query(ctx, query, commodityIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query commodities by IDs", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Commodity, len(commodityIDs))
	for rows.Next() {
		var c domain.Commodity
		if err := rows.Scan(&c.CommodityID, &c.Type, &c.Code, &c.Name, &c.Precision); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan commodity row", err)
		}
		out[c.CommodityID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating commodity rows", err)
	}
	return out, nil
}
