package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxPriceRepository struct {
	BaseRepository
}

// newPgxPriceRepository creates the repository for price observations.
func newPgxPriceRepository(db DBTX) portsrepo.PriceRepository {
	return &PgxPriceRepository{BaseRepository{db: db}}
}

var _ portsrepo.PriceRepository = (*PgxPriceRepository)(nil)

// LatestPriceValue returns the newest observation on or before asOf.
// Ties on price_date break toward the most recently inserted row.
func (r *PgxPriceRepository) LatestPriceValue(ctx context.Context, bookID, commodityID, currencyID string, asOf time.Time) (decimal.Decimal, bool, error) {
	query := `
		SELECT value
		FROM prices
		WHERE book_id = $1 AND commodity_id = $2 AND currency_id = $3 AND price_date <= $4
		ORDER BY price_date DESC, price_id DESC
		LIMIT 1;
	`
	var value decimal.Decimal
	err := r.db.QueryRow(ctx, query, bookID, commodityID, currencyID, asOf).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, apperrors.NewAppError(500, "failed to query price for "+commodityID+"/"+currencyID, err)
	}
	return value, true, nil
}

func (r *PgxPriceRepository) SavePrice(ctx context.Context, price domain.Price) error {
	query := `
		INSERT INTO prices (price_id, book_id, commodity_id, currency_id, price_date, source, type, value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		price.PriceID, price.BookID, price.CommodityID, price.CurrencyID,
		price.PriceDate, price.Source, price.Type, price.Value,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert price "+price.PriceID, err)
	}
	return nil
}

func (r *PgxPriceRepository) ListPrices(ctx context.Context, bookID string, commodityID string) ([]domain.Price, error) {
	query := `
		SELECT price_id, book_id, commodity_id, currency_id, price_date, source, type, value
		FROM prices
		WHERE book_id = $1
	`
	args := []any{bookID}
	if commodityID != "" {
		args = append(args, commodityID)
		query += ` AND commodity_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY price_date DESC, price_id DESC;`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query prices for book "+bookID, err)
	}
	defer rows.Close()

	prices := []domain.Price{}
	for rows.Next() {
		var p domain.Price
		if err := rows.Scan(&p.PriceID, &p.BookID, &p.CommodityID, &p.CurrencyID,
			&p.PriceDate, &p.Source, &p.Type, &p.Value); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan price row", err)
		}
		prices = append(prices, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating price rows", err)
	}
	return prices, nil
}
