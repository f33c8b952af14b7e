package repositories

import (
	"context"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportRepository owns report configuration, snapshots, and the
// sign-normalized aggregation queries shared by generation and drilldown.
type ReportRepository interface {
	FindBasisByCode(ctx context.Context, code string) (*domain.ReportBasis, error)
	ListItems(ctx context.Context) ([]domain.ReportItem, error)
	FindItemByCode(ctx context.Context, statementType domain.StatementType, code string) (*domain.ReportItem, error)
	ListMappingsByBasis(ctx context.Context, basisID string) ([]domain.ReportMapping, error)
	ListMappingsByBasisItem(ctx context.Context, basisID, itemID string) ([]domain.ReportMapping, error)

	FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.ReportSnapshot, error)
	FindSnapshotByKey(ctx context.Context, bookID, paramsHash string) (*domain.ReportSnapshot, error)
	// UpsertSnapshot updates the row for (book, params hash) in place when
	// it exists, otherwise inserts; returns the snapshot id either way.
	UpsertSnapshot(ctx context.Context, snapshot domain.ReportSnapshot) (string, error)
	MarkSnapshotsStale(ctx context.Context, bookID string) error

	// BalanceByAccount sums normalized split values per account across all
	// periods with key <= periodKey.
	BalanceByAccount(ctx context.Context, bookID string, accountIDs []string, periodKey int) (map[string]decimal.Decimal, error)
	// ActivityByAccount sums normalized split values per account within
	// one period only.
	ActivityByAccount(ctx context.Context, bookID string, accountIDs []string, periodID string) (map[string]decimal.Decimal, error)

	// Register listings, newest first, bounded by limit.
	RegisterThroughPeriod(ctx context.Context, bookID string, accountIDs []string, periodKey int, limit int) ([]domain.RegisterEntry, error)
	RegisterInPeriod(ctx context.Context, bookID string, accountIDs []string, periodID string, limit int) ([]domain.RegisterEntry, error)
}
