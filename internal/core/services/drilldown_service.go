package services

import (
	"context"
	"errors"
	"sort"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// registerLimit caps drilldown register listings; deeper digging goes
// through the draft/transaction endpoints directly.
const registerLimit = 500

// drilldownService walks a statement figure down to its accounts, an
// account down to its register rows, and a register row down to the full
// transaction with its originating document.
type drilldownService struct {
	BaseService
	repos portsrepo.Repositories
}

// NewDrilldownService creates a new drilldown service.
func NewDrilldownService(repos portsrepo.Repositories) portssvc.DrilldownSvcFacade {
	return &drilldownService{repos: repos}
}

var _ portssvc.DrilldownSvcFacade = (*drilldownService)(nil)

// itemScope is a snapshot's statement item resolved to its expanded
// account set, built against the snapshot's own basis and period so the
// breakdown reconciles with the stored figure.
type itemScope struct {
	snapshot   *domain.ReportSnapshot
	period     *domain.AccountingPeriod
	item       *domain.ReportItem
	accountIDs []string
	accountSet map[string]struct{}
	children   map[string][]domain.Account
}

func (s *drilldownService) resolveItemScope(ctx context.Context, snapshotID string, statementType domain.StatementType, itemCode string) (*itemScope, error) {
	snapshot, err := s.repos.Report.FindSnapshotByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	period, err := s.repos.Chart.FindPeriodByID(ctx, snapshot.PeriodID)
	if err != nil {
		return nil, err
	}
	item, err := s.repos.Report.FindItemByCode(ctx, statementType, itemCode)
	if err != nil {
		return nil, err
	}

	mappings, err := s.repos.Report.ListMappingsByBasisItem(ctx, snapshot.BasisID, item.ItemID)
	if err != nil {
		return nil, err
	}
	accounts, err := s.repos.Chart.ListAccountsByBook(ctx, snapshot.BookID)
	if err != nil {
		return nil, err
	}
	children := accounting.BuildChildrenMap(accounts)

	accountSet := make(map[string]struct{})
	for _, m := range mappings {
		if m.IncludeChildren {
			for id := range accounting.CollectDescendants(children, m.AccountID) {
				accountSet[id] = struct{}{}
			}
		} else {
			accountSet[m.AccountID] = struct{}{}
		}
	}
	accountIDs := make([]string, 0, len(accountSet))
	for id := range accountSet {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	return &itemScope{
		snapshot:   snapshot,
		period:     period,
		item:       item,
		accountIDs: accountIDs,
		accountSet: accountSet,
		children:   children,
	}, nil
}

// ItemAccounts breaks one statement line into per-account contributions.
// The contributions sum to the snapshot line's figure for a fresh snapshot.
func (s *drilldownService) ItemAccounts(ctx context.Context, snapshotID string, statementType domain.StatementType, itemCode string) ([]domain.ItemAccountAmount, error) {
	scope, err := s.resolveItemScope(ctx, snapshotID, statementType, itemCode)
	if err != nil {
		return nil, err
	}
	accountIDs := scope.accountIDs
	if len(accountIDs) == 0 {
		return []domain.ItemAccountAmount{}, nil
	}

	var amounts map[string]decimal.Decimal
	if scope.item.CalcMode == domain.CalcActivity {
		amounts, err = s.repos.Report.ActivityByAccount(ctx, scope.snapshot.BookID, accountIDs, scope.period.PeriodID)
	} else {
		amounts, err = s.repos.Report.BalanceByAccount(ctx, scope.snapshot.BookID, accountIDs, scope.period.Key())
	}
	if err != nil {
		return nil, err
	}

	accountInfo, err := s.repos.Chart.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ItemAccountAmount, 0, len(accountIDs))
	for _, id := range accountIDs {
		amount, ok := amounts[id]
		if !ok || amount.IsZero() {
			continue
		}
		acc := accountInfo[id]
		out = append(out, domain.ItemAccountAmount{
			AccountID: id,
			Code:      acc.Code,
			Name:      acc.Name,
			Amount:    amount,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// AccountRegister lists the split rows behind one account's contribution
// to a statement item, newest first. The listing covers the intersection
// of the requested account (plus its descendants when asked) and the
// item's mapped account set, so the register can never reach accounts
// outside the figure being explained. Balance-sheet figures are
// cumulative, so their register spans all periods through the snapshot's;
// IS/CF registers cover the snapshot period only.
func (s *drilldownService) AccountRegister(ctx context.Context, snapshotID string, statementType domain.StatementType, itemCode, accountID string, includeChildren bool) ([]domain.RegisterEntry, error) {
	scope, err := s.resolveItemScope(ctx, snapshotID, statementType, itemCode)
	if err != nil {
		return nil, err
	}

	requested := map[string]struct{}{accountID: {}}
	if includeChildren {
		requested = accounting.CollectDescendants(scope.children, accountID)
	}
	accountIDs := make([]string, 0, len(requested))
	for id := range requested {
		if _, mapped := scope.accountSet[id]; mapped {
			accountIDs = append(accountIDs, id)
		}
	}
	if len(accountIDs) == 0 {
		return []domain.RegisterEntry{}, nil
	}
	sort.Strings(accountIDs)

	if statementType == domain.BalanceSheet {
		return s.repos.Report.RegisterThroughPeriod(ctx, scope.snapshot.BookID, accountIDs, scope.period.Key(), registerLimit)
	}
	return s.repos.Report.RegisterInPeriod(ctx, scope.snapshot.BookID, accountIDs, scope.period.PeriodID, registerLimit)
}

// TransactionDetail returns a posted transaction with every split joined
// to its account and, when the source is a mirrored document, the
// document's identity and status.
func (s *drilldownService) TransactionDetail(ctx context.Context, txnID string) (*domain.TransactionDetail, error) {
	txn, err := s.repos.Ledger.FindTransactionByID(ctx, txnID)
	if err != nil {
		return nil, err
	}
	splits, err := s.repos.Ledger.FindSplitsByTxnID(ctx, txnID)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(splits))
	seen := make(map[string]bool, len(splits))
	for _, sp := range splits {
		if !seen[sp.AccountID] {
			seen[sp.AccountID] = true
			accountIDs = append(accountIDs, sp.AccountID)
		}
	}
	accounts, err := s.repos.Chart.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	details := make([]domain.SplitDetail, len(splits))
	for i, sp := range splits {
		acc := accounts[sp.AccountID]
		details[i] = domain.SplitDetail{
			LineNo:      sp.LineNo,
			AccountID:   sp.AccountID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			Value:       sp.Value,
			Amount:      sp.Amount,
			Memo:        sp.Memo,
		}
	}

	sourceDoc, err := s.repos.Source.FindDocumentInfo(ctx, txn.Source)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	return &domain.TransactionDetail{
		Transaction: *txn,
		Splits:      details,
		SourceDoc:   sourceDoc,
	}, nil
}
