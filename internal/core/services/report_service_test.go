package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportServiceTestSuite struct {
	suite.Suite
	service    portssvc.ReportSvcFacade
	mockChart  *MockChartRepository
	mockReport *MockReportRepository
	ctx        context.Context

	actorID   string
	basis     domain.ReportBasis
	period    domain.AccountingPeriod
	params    domain.ReportParams
	assetAcc  domain.Account
	liabAcc   domain.Account
	equityAcc domain.Account
	incomeAcc domain.Account
}

func (suite *ReportServiceTestSuite) SetupTest() {
	repos, chart, _, _, _, _, report, _ := newMockRepos()
	suite.mockChart = chart
	suite.mockReport = report
	suite.service = services.NewReportService(repos)
	suite.ctx = context.Background()

	suite.actorID = uuid.NewString()
	bookID := uuid.NewString()
	suite.basis = domain.ReportBasis{BasisID: uuid.NewString(), Code: "LEGAL", Name: "Legal Basis"}
	suite.period = domain.AccountingPeriod{
		PeriodID: uuid.NewString(),
		BookID:   bookID,
		Year:     2026,
		Month:    3,
		Status:   domain.PeriodOpen,
	}
	suite.params = domain.ReportParams{
		BookID:    bookID,
		PeriodID:  suite.period.PeriodID,
		BasisCode: "LEGAL",
	}
	suite.assetAcc = domain.Account{
		AccountID: uuid.NewString(), BookID: bookID, Code: "1000", Name: "Cash",
		AccountType: domain.Cash, CommodityID: "USD", AllowPost: true, IsActive: true,
	}
	suite.liabAcc = domain.Account{
		AccountID: uuid.NewString(), BookID: bookID, Code: "2000", Name: "Loans",
		AccountType: domain.Liability, CommodityID: "USD", AllowPost: true, IsActive: true,
	}
	suite.equityAcc = domain.Account{
		AccountID: uuid.NewString(), BookID: bookID, Code: "3000", Name: "Capital",
		AccountType: domain.Equity, CommodityID: "USD", AllowPost: true, IsActive: true,
	}
	suite.incomeAcc = domain.Account{
		AccountID: uuid.NewString(), BookID: bookID, Code: "4000", Name: "Revenue",
		AccountType: domain.Income, CommodityID: "USD", AllowPost: true, IsActive: true,
	}
}

func (suite *ReportServiceTestSuite) TestGenerateStatements_FreshSnapshotMemoized() {
	existing := &domain.ReportSnapshot{
		SnapshotID: uuid.NewString(),
		BookID:     suite.params.BookID,
		PeriodID:   suite.params.PeriodID,
		BasisID:    suite.basis.BasisID,
		IsStale:    false,
	}

	suite.mockReport.On("FindBasisByCode", suite.ctx, "LEGAL").Return(&suite.basis, nil).Once()
	suite.mockChart.On("FindPeriodByID", suite.ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockReport.On("FindSnapshotByKey", suite.ctx, suite.params.BookID, mock.Anything).Return(existing, nil).Once()

	snapshot, err := suite.service.GenerateStatements(suite.ctx, suite.actorID, suite.params)

	suite.Require().NoError(err)
	suite.Equal(existing.SnapshotID, snapshot.SnapshotID)
	suite.mockReport.AssertNotCalled(suite.T(), "ListItems", mock.Anything)
	suite.mockReport.AssertNotCalled(suite.T(), "UpsertSnapshot", mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestGenerateStatements_PeriodBookMismatch() {
	foreign := suite.period
	foreign.BookID = uuid.NewString()

	suite.mockReport.On("FindBasisByCode", suite.ctx, "LEGAL").Return(&suite.basis, nil).Once()
	suite.mockChart.On("FindPeriodByID", suite.ctx, suite.period.PeriodID).Return(&foreign, nil).Once()

	_, err := suite.service.GenerateStatements(suite.ctx, suite.actorID, suite.params)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportServiceTestSuite) TestGenerateStatements_MappingConflictAborts() {
	itemA := domain.ReportItem{ItemID: uuid.NewString(), StatementType: domain.BalanceSheet, Code: "ASSETS", DisplayOrder: 1, CalcMode: domain.CalcBalance}
	itemB := domain.ReportItem{ItemID: uuid.NewString(), StatementType: domain.BalanceSheet, Code: "CURRENT_ASSETS", DisplayOrder: 2, CalcMode: domain.CalcBalance}
	mappings := []domain.ReportMapping{
		{MappingID: uuid.NewString(), BasisID: suite.basis.BasisID, ItemID: itemA.ItemID, AccountID: suite.assetAcc.AccountID},
		{MappingID: uuid.NewString(), BasisID: suite.basis.BasisID, ItemID: itemB.ItemID, AccountID: suite.assetAcc.AccountID},
	}

	suite.mockReport.On("FindBasisByCode", suite.ctx, "LEGAL").Return(&suite.basis, nil).Once()
	suite.mockChart.On("FindPeriodByID", suite.ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockReport.On("FindSnapshotByKey", suite.ctx, suite.params.BookID, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockChart.On("ListAccountsByBook", suite.ctx, suite.params.BookID).Return([]domain.Account{suite.assetAcc}, nil).Once()
	suite.mockReport.On("ListItems", suite.ctx).Return([]domain.ReportItem{itemA, itemB}, nil).Once()
	suite.mockReport.On("ListMappingsByBasis", suite.ctx, suite.basis.BasisID).Return(mappings, nil).Once()

	snapshot, err := suite.service.GenerateStatements(suite.ctx, suite.actorID, suite.params)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMappingConflict)
	suite.Nil(snapshot)
	suite.mockReport.AssertNotCalled(suite.T(), "UpsertSnapshot", mock.Anything, mock.Anything)
	suite.mockReport.AssertNotCalled(suite.T(), "BalanceByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportServiceTestSuite) TestGenerateStatements_FullGeneration() {
	accounts := []domain.Account{suite.assetAcc, suite.liabAcc, suite.equityAcc, suite.incomeAcc}

	assetsItem := domain.ReportItem{ItemID: uuid.NewString(), StatementType: domain.BalanceSheet, Code: "BS_ASSETS", Name: "Assets", DisplayOrder: 1, CalcMode: domain.CalcBalance}
	liabItem := domain.ReportItem{ItemID: uuid.NewString(), StatementType: domain.BalanceSheet, Code: "BS_LIABILITIES", Name: "Liabilities", DisplayOrder: 2, CalcMode: domain.CalcBalance}
	equityItem := domain.ReportItem{ItemID: uuid.NewString(), StatementType: domain.BalanceSheet, Code: "BS_EQUITY", Name: "Equity", DisplayOrder: 3, CalcMode: domain.CalcBalance}
	revItem := domain.ReportItem{ItemID: uuid.NewString(), StatementType: domain.IncomeStmt, Code: "IS_REVENUE", Name: "Revenue", DisplayOrder: 1, CalcMode: domain.CalcActivity}
	mappings := []domain.ReportMapping{
		{MappingID: uuid.NewString(), BasisID: suite.basis.BasisID, ItemID: assetsItem.ItemID, AccountID: suite.assetAcc.AccountID},
		{MappingID: uuid.NewString(), BasisID: suite.basis.BasisID, ItemID: liabItem.ItemID, AccountID: suite.liabAcc.AccountID},
		{MappingID: uuid.NewString(), BasisID: suite.basis.BasisID, ItemID: equityItem.ItemID, AccountID: suite.equityAcc.AccountID},
		{MappingID: uuid.NewString(), BasisID: suite.basis.BasisID, ItemID: revItem.ItemID, AccountID: suite.incomeAcc.AccountID},
	}

	suite.mockReport.On("FindBasisByCode", suite.ctx, "LEGAL").Return(&suite.basis, nil).Once()
	suite.mockChart.On("FindPeriodByID", suite.ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockReport.On("FindSnapshotByKey", suite.ctx, suite.params.BookID, mock.Anything).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockChart.On("ListAccountsByBook", suite.ctx, suite.params.BookID).Return(accounts, nil).Once()
	suite.mockReport.On("ListItems", suite.ctx).Return([]domain.ReportItem{assetsItem, liabItem, equityItem, revItem}, nil).Once()
	suite.mockReport.On("ListMappingsByBasis", suite.ctx, suite.basis.BasisID).Return(mappings, nil).Once()

	periodKey := suite.period.Key()
	cashIDs := []string{suite.assetAcc.AccountID}

	// BS_ASSETS item figure and the CF ending-cash roll-up share these args.
	suite.mockReport.On("BalanceByAccount", suite.ctx, suite.params.BookID, cashIDs, periodKey).
		Return(map[string]decimal.Decimal{suite.assetAcc.AccountID: decimal.NewFromInt(200)}, nil).Times(2)
	suite.mockReport.On("BalanceByAccount", suite.ctx, suite.params.BookID, []string{suite.liabAcc.AccountID}, periodKey).
		Return(map[string]decimal.Decimal{suite.liabAcc.AccountID: decimal.NewFromInt(100)}, nil).Once()
	suite.mockReport.On("BalanceByAccount", suite.ctx, suite.params.BookID, []string{suite.equityAcc.AccountID}, periodKey).
		Return(map[string]decimal.Decimal{suite.equityAcc.AccountID: decimal.NewFromInt(100)}, nil).Once()
	suite.mockReport.On("ActivityByAccount", suite.ctx, suite.params.BookID, []string{suite.incomeAcc.AccountID}, suite.period.PeriodID).
		Return(map[string]decimal.Decimal{suite.incomeAcc.AccountID: decimal.NewFromInt(100)}, nil).Once()

	// CF beginning cash and in-period movement
	suite.mockReport.On("BalanceByAccount", suite.ctx, suite.params.BookID, cashIDs, periodKey-1).
		Return(map[string]decimal.Decimal{suite.assetAcc.AccountID: decimal.NewFromInt(150)}, nil).Once()
	suite.mockReport.On("ActivityByAccount", suite.ctx, suite.params.BookID, cashIDs, suite.period.PeriodID).
		Return(map[string]decimal.Decimal{suite.assetAcc.AccountID: decimal.NewFromInt(50)}, nil).Once()

	snapshotID := uuid.NewString()
	suite.mockReport.On("UpsertSnapshot", suite.ctx, mock.MatchedBy(func(snap domain.ReportSnapshot) bool {
		return snap.BookID == suite.params.BookID && !snap.IsStale && snap.Result.Checks.BalanceOK
	})).Return(snapshotID, nil).Once()

	snapshot, err := suite.service.GenerateStatements(suite.ctx, suite.actorID, suite.params)

	suite.Require().NoError(err)
	suite.Equal(snapshotID, snapshot.SnapshotID)
	suite.Equal(suite.actorID, snapshot.GeneratedBy)

	bs := snapshot.Result.Statements.BS
	suite.Require().Len(bs, 5)
	suite.Equal("BS_ASSETS", bs[0].Code)
	suite.True(bs[0].Amount.Equal(decimal.NewFromInt(200)))
	suite.Equal("BS_LIABILITIES", bs[1].Code)
	suite.Equal("BS_EQUITY", bs[2].Code)
	suite.Equal("BS_ASSETS_TOTAL", bs[3].Code)
	suite.True(bs[3].Amount.Equal(decimal.NewFromInt(200)))
	suite.Equal("BS_LIAB_EQUITY_TOTAL", bs[4].Code)
	suite.True(bs[4].Amount.Equal(decimal.NewFromInt(200)))

	is := snapshot.Result.Statements.IS
	suite.Require().Len(is, 2)
	suite.Equal("IS_REVENUE", is[0].Code)
	suite.Equal("IS_NET_PROFIT", is[1].Code)
	suite.True(is[1].Amount.Equal(decimal.NewFromInt(100)))

	cf := snapshot.Result.Statements.CF
	suite.Require().Len(cf, 3)
	suite.Equal("CF_BEGIN_CASH", cf[0].Code)
	suite.True(cf[0].Amount.Equal(decimal.NewFromInt(150)))
	suite.Equal("CF_NET_CASH", cf[1].Code)
	suite.True(cf[1].Amount.Equal(decimal.NewFromInt(50)))
	suite.Equal("CF_END_CASH", cf[2].Code)
	suite.True(cf[2].Amount.Equal(decimal.NewFromInt(200)))

	suite.True(snapshot.Result.Checks.BalanceOK)
	suite.True(snapshot.Result.Checks.AssetsTotal.Equal(decimal.NewFromInt(200)))
	suite.True(snapshot.Result.Checks.LiabEquityTotal.Equal(decimal.NewFromInt(200)))
	suite.mockReport.AssertExpectations(suite.T())
}

func (suite *ReportServiceTestSuite) TestGetSnapshot() {
	snapshotID := uuid.NewString()
	stored := &domain.ReportSnapshot{SnapshotID: snapshotID, GeneratedAt: time.Now().UTC()}

	suite.mockReport.On("FindSnapshotByID", suite.ctx, snapshotID).Return(stored, nil).Once()

	got, err := suite.service.GetSnapshot(suite.ctx, snapshotID)

	suite.Require().NoError(err)
	suite.Equal(snapshotID, got.SnapshotID)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
