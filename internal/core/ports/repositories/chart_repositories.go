package repositories

import (
	"context"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
)

// ChartRepository reads the read-mostly chart of accounts and period
// directory. Accounts and periods are mutated by administrative tooling
// outside this core.
type ChartRepository interface {
	FindBookByID(ctx context.Context, bookID string) (*domain.Book, error)
	FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error)
	ListPeriodsByBook(ctx context.Context, bookID string) ([]domain.AccountingPeriod, error)
	ListAccountsByBook(ctx context.Context, bookID string) ([]domain.Account, error)
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	FindCommodityByID(ctx context.Context, commodityID string) (*domain.Commodity, error)
	FindCommoditiesByIDs(ctx context.Context, commodityIDs []string) (map[string]domain.Commodity, error)
}
