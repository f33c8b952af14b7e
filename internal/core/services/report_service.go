package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/utils/accounting"
	"github.com/finbooks-io/ledger_backend/internal/utils/hashing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// balanceTolerance is the absolute rounding slack allowed between the two
// sides of the balance sheet before the snapshot is flagged.
var balanceTolerance = decimal.RequireFromString("0.5")

// reportService generates BS/IS/CF statements from basis-driven account
// mappings and memoizes the result per (book, params hash).
type reportService struct {
	BaseService
	repos portsrepo.Repositories
}

// NewReportService creates a new statement generation service.
func NewReportService(repos portsrepo.Repositories) portssvc.ReportSvcFacade {
	return &reportService{repos: repos}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// expandMappings resolves every mapping of a basis to concrete account ID
// sets per item, walking children where requested. An account claimed by
// two items of the same statement type is a configuration error that
// aborts generation.
func expandMappings(
	mappings []domain.ReportMapping,
	items map[string]domain.ReportItem,
	children map[string][]domain.Account,
) (map[string]map[string]struct{}, error) {
	perItem := make(map[string]map[string]struct{})
	// (statement type, account) -> owning item, for conflict detection
	claimed := make(map[string]string)

	for _, m := range mappings {
		item, ok := items[m.ItemID]
		if !ok {
			continue
		}
		accountSet := map[string]struct{}{m.AccountID: {}}
		if m.IncludeChildren {
			accountSet = accounting.CollectDescendants(children, m.AccountID)
		}
		if perItem[m.ItemID] == nil {
			perItem[m.ItemID] = make(map[string]struct{})
		}
		for accID := range accountSet {
			claimKey := string(item.StatementType) + "/" + accID
			if owner, dup := claimed[claimKey]; dup && owner != m.ItemID {
				return nil, fmt.Errorf("%w: account %s is mapped to items %s and %s on the %s statement",
					apperrors.ErrMappingConflict, accID, owner, m.ItemID, item.StatementType)
			}
			claimed[claimKey] = m.ItemID
			perItem[m.ItemID][accID] = struct{}{}
		}
	}
	return perItem, nil
}

// itemAmount sums the normalized figures of an item's accounts, cumulative
// or in-period depending on the item's calc mode.
func (s *reportService) itemAmount(ctx context.Context, item domain.ReportItem, accountIDs []string, bookID string, period *domain.AccountingPeriod) (decimal.Decimal, error) {
	if len(accountIDs) == 0 {
		return decimal.Zero, nil
	}

	var amounts map[string]decimal.Decimal
	var err error
	if item.CalcMode == domain.CalcActivity {
		amounts, err = s.repos.Report.ActivityByAccount(ctx, bookID, accountIDs, period.PeriodID)
	} else {
		amounts, err = s.repos.Report.BalanceByAccount(ctx, bookID, accountIDs, period.Key())
	}
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, v := range amounts {
		total = total.Add(v)
	}
	return total, nil
}

// lineAmount returns the rendered amount of a statement line, zero when
// the basis has no such item.
func lineAmount(lines []domain.StatementLine, code string) decimal.Decimal {
	for _, ln := range lines {
		if ln.Code == code {
			return ln.Amount
		}
	}
	return decimal.Zero
}

// setOrAppend replaces a roll-up line's amount, keeping the configured
// name when the item exists, or appends it at the end otherwise.
func setOrAppend(lines []domain.StatementLine, code, name string, amount decimal.Decimal) []domain.StatementLine {
	for i := range lines {
		if lines[i].Code == code {
			lines[i].Amount = amount
			return lines
		}
	}
	return append(lines, domain.StatementLine{Code: code, Name: name, Amount: amount})
}

// sumAmounts totals a per-account amount map.
func sumAmounts(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}

// applyRollups computes the formula lines that are derived rather than
// mapped: balance sheet totals, net profit, and the cash-flow begin/net/
// end figures over the book's cash-like accounts. Totals come from the
// detail items so no account is double counted. Returns the balance
// identity diagnostic.
func (s *reportService) applyRollups(ctx context.Context, statements *domain.Statements, bookID string, accounts []domain.Account, period *domain.AccountingPeriod) (domain.GenerationChecks, error) {
	checks := domain.GenerationChecks{Tolerance: balanceTolerance}

	assetsTotal := lineAmount(statements.BS, "BS_ASSETS")
	liabEquityTotal := lineAmount(statements.BS, "BS_LIABILITIES").Add(lineAmount(statements.BS, "BS_EQUITY"))
	statements.BS = setOrAppend(statements.BS, "BS_ASSETS_TOTAL", "Total assets", assetsTotal)
	statements.BS = setOrAppend(statements.BS, "BS_LIAB_EQUITY_TOTAL", "Total liabilities and equity", liabEquityTotal)

	netProfit := lineAmount(statements.IS, "IS_REVENUE").Sub(lineAmount(statements.IS, "IS_EXPENSE"))
	statements.IS = setOrAppend(statements.IS, "IS_NET_PROFIT", "Net profit", netProfit)

	cashIDs := make([]string, 0, len(accounts))
	for _, a := range accounts {
		if a.AccountType.IsCashLike() {
			cashIDs = append(cashIDs, a.AccountID)
		}
	}
	cashBegin, cashNet, cashEnd := decimal.Zero, decimal.Zero, decimal.Zero
	if len(cashIDs) > 0 {
		endBalances, err := s.repos.Report.BalanceByAccount(ctx, bookID, cashIDs, period.Key())
		if err != nil {
			return checks, err
		}
		beginBalances, err := s.repos.Report.BalanceByAccount(ctx, bookID, cashIDs, period.Key()-1)
		if err != nil {
			return checks, err
		}
		netActivity, err := s.repos.Report.ActivityByAccount(ctx, bookID, cashIDs, period.PeriodID)
		if err != nil {
			return checks, err
		}
		cashEnd = sumAmounts(endBalances)
		cashBegin = sumAmounts(beginBalances)
		cashNet = sumAmounts(netActivity)
	}
	statements.CF = setOrAppend(statements.CF, "CF_BEGIN_CASH", "Beginning cash", cashBegin)
	statements.CF = setOrAppend(statements.CF, "CF_NET_CASH", "Net cash movement", cashNet)
	statements.CF = setOrAppend(statements.CF, "CF_END_CASH", "Ending cash", cashEnd)

	checks.AssetsTotal = assetsTotal
	checks.LiabEquityTotal = liabEquityTotal
	checks.BalanceOK = assetsTotal.Sub(liabEquityTotal).Abs().LessThanOrEqual(balanceTolerance)
	return checks, nil
}

// GenerateStatements produces the three statements for (book, period,
// basis). An existing fresh snapshot for identical parameters is returned
// without recomputation; a stale or missing one triggers a full rebuild
// that updates the snapshot row in place.
func (s *reportService) GenerateStatements(ctx context.Context, actorID string, params domain.ReportParams) (*domain.ReportSnapshot, error) {
	basis, err := s.repos.Report.FindBasisByCode(ctx, params.BasisCode)
	if err != nil {
		return nil, err
	}
	period, err := s.repos.Chart.FindPeriodByID(ctx, params.PeriodID)
	if err != nil {
		return nil, err
	}
	if period.BookID != params.BookID {
		return nil, fmt.Errorf("%w: period %s does not belong to book %s", apperrors.ErrValidation, params.PeriodID, params.BookID)
	}

	paramsHash, err := hashing.ParamsHash(params)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to hash report params", err)
	}

	if existing, err := s.repos.Report.FindSnapshotByKey(ctx, params.BookID, paramsHash); err == nil && !existing.IsStale {
		s.LogDebug(ctx, "serving memoized report snapshot", slog.String("snapshot_id", existing.SnapshotID))
		return existing, nil
	}

	accounts, err := s.repos.Chart.ListAccountsByBook(ctx, params.BookID)
	if err != nil {
		return nil, err
	}
	children := accounting.BuildChildrenMap(accounts)

	allItems, err := s.repos.Report.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	itemsByID := make(map[string]domain.ReportItem, len(allItems))
	for _, it := range allItems {
		itemsByID[it.ItemID] = it
	}

	mappings, err := s.repos.Report.ListMappingsByBasis(ctx, basis.BasisID)
	if err != nil {
		return nil, err
	}
	perItem, err := expandMappings(mappings, itemsByID, children)
	if err != nil {
		// Conflict aborts before any snapshot write; a previous snapshot
		// for these params stays untouched.
		s.LogError(ctx, err, "report mapping conflict", slog.String("basis_code", params.BasisCode))
		return nil, err
	}

	byType := make(map[domain.StatementType][]domain.ReportItem)
	for _, it := range allItems {
		byType[it.StatementType] = append(byType[it.StatementType], it)
	}
	for _, its := range byType {
		sort.Slice(its, func(i, j int) bool { return its[i].DisplayOrder < its[j].DisplayOrder })
	}

	expandedCount := 0
	renderLines := func(stmtType domain.StatementType) ([]domain.StatementLine, error) {
		lines := []domain.StatementLine{}
		for _, item := range byType[stmtType] {
			accountSet := perItem[item.ItemID]
			accountIDs := make([]string, 0, len(accountSet))
			for id := range accountSet {
				accountIDs = append(accountIDs, id)
			}
			sort.Strings(accountIDs)
			expandedCount += len(accountIDs)

			amount, err := s.itemAmount(ctx, item, accountIDs, params.BookID, period)
			if err != nil {
				return nil, err
			}
			lines = append(lines, domain.StatementLine{Code: item.Code, Name: item.Name, Amount: amount})
		}
		return lines, nil
	}

	var statements domain.Statements
	if statements.BS, err = renderLines(domain.BalanceSheet); err != nil {
		return nil, err
	}
	if statements.IS, err = renderLines(domain.IncomeStmt); err != nil {
		return nil, err
	}
	if statements.CF, err = renderLines(domain.CashFlow); err != nil {
		return nil, err
	}

	checks, err := s.applyRollups(ctx, &statements, params.BookID, accounts, period)
	if err != nil {
		return nil, err
	}
	if !checks.BalanceOK {
		s.LogInfo(ctx, "balance sheet identity check failed",
			slog.String("book_id", params.BookID),
			slog.String("assets_total", checks.AssetsTotal.String()),
			slog.String("liab_equity_total", checks.LiabEquityTotal.String()))
	}

	now := time.Now().UTC()
	snapshot := domain.ReportSnapshot{
		SnapshotID:  uuid.NewString(),
		BookID:      params.BookID,
		PeriodID:    params.PeriodID,
		BasisID:     basis.BasisID,
		ParamsHash:  paramsHash,
		GeneratedBy: actorID,
		GeneratedAt: now,
		IsStale:     false,
		Result: domain.ReportResult{
			Statements: statements,
			Checks:     checks,
			Params:     params,
		},
		Log: domain.GenerationLog{
			BasisCode:            params.BasisCode,
			ExpandedAccountCount: expandedCount,
			Checks:               checks,
			GeneratedAt:          now,
		},
	}

	snapshotID, err := s.repos.Report.UpsertSnapshot(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	snapshot.SnapshotID = snapshotID

	s.LogInfo(ctx, "report snapshot generated",
		slog.String("snapshot_id", snapshotID),
		slog.String("book_id", params.BookID),
		slog.String("basis_code", params.BasisCode),
		slog.Bool("balance_ok", checks.BalanceOK))
	return &snapshot, nil
}

// GetSnapshot returns a stored snapshot by ID.
func (s *reportService) GetSnapshot(ctx context.Context, snapshotID string) (*domain.ReportSnapshot, error) {
	return s.repos.Report.FindSnapshotByID(ctx, snapshotID)
}
