package repositories

import (
	"context"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PriceRepository reads and maintains price rows. The posting engine only
// reads; writes come from the external price feed surface.
type PriceRepository interface {
	// LatestPriceValue returns the value of the newest price with date <=
	// asOf for the pair, or found=false when none exists.
	LatestPriceValue(ctx context.Context, bookID, commodityID, currencyID string, asOf time.Time) (decimal.Decimal, bool, error)
	SavePrice(ctx context.Context, price domain.Price) error
	ListPrices(ctx context.Context, bookID string, commodityID string) ([]domain.Price, error)
}
