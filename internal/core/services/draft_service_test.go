package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DraftServiceTestSuite struct {
	suite.Suite
	service    portssvc.DraftSvcFacade
	mockChart  *MockChartRepository
	mockDraft  *MockDraftRepository
	mockSource *MockSourceRepository
	ctx        context.Context

	actorID string
	book    domain.Book
	period  domain.AccountingPeriod
	cashAcc domain.Account
	revAcc  domain.Account
}

func (suite *DraftServiceTestSuite) SetupTest() {
	repos, chart, draft, _, _, _, _, source := newMockRepos()
	suite.mockChart = chart
	suite.mockDraft = draft
	suite.mockSource = source
	suite.service = services.NewDraftService(&fakeTxManager{repos: repos}, repos)
	suite.ctx = context.Background()

	suite.actorID = uuid.NewString()
	suite.book = domain.Book{
		BookID:         uuid.NewString(),
		Name:           "Main Book",
		BaseCurrencyID: "USD",
	}
	suite.period = domain.AccountingPeriod{
		PeriodID: uuid.NewString(),
		BookID:   suite.book.BookID,
		Year:     2026,
		Month:    1,
		Status:   domain.PeriodOpen,
	}
	suite.cashAcc = domain.Account{
		AccountID:   uuid.NewString(),
		BookID:      suite.book.BookID,
		Code:        "1000",
		Name:        "Cash",
		AccountType: domain.Cash,
		CommodityID: "USD",
		AllowPost:   true,
		IsActive:    true,
	}
	suite.revAcc = domain.Account{
		AccountID:   uuid.NewString(),
		BookID:      suite.book.BookID,
		Code:        "4000",
		Name:        "Revenue",
		AccountType: domain.Income,
		CommodityID: "USD",
		AllowPost:   true,
		IsActive:    true,
	}
}

func (suite *DraftServiceTestSuite) balancedInput() portssvc.DraftInput {
	return portssvc.DraftInput{
		BookID:     suite.book.BookID,
		PeriodID:   suite.period.PeriodID,
		CurrencyID: "USD",
		TxnDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Source:     domain.SourceRef{Type: domain.SourceManual, ID: uuid.NewString(), Version: 0},
		Lines: []portssvc.DraftLineInput{
			{AccountID: suite.cashAcc.AccountID, Debit: decimal.NewFromInt(100)},
			{AccountID: suite.revAcc.AccountID, Credit: decimal.NewFromInt(100)},
		},
	}
}

func (suite *DraftServiceTestSuite) expectChartLookups() {
	suite.mockChart.On("FindBookByID", suite.ctx, suite.book.BookID).Return(&suite.book, nil).Once()
	suite.mockChart.On("FindPeriodByID", suite.ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockChart.On("FindAccountsByIDs", suite.ctx, mock.Anything).Return(map[string]domain.Account{
		suite.cashAcc.AccountID: suite.cashAcc,
		suite.revAcc.AccountID:  suite.revAcc,
	}, nil).Once()
}

func (suite *DraftServiceTestSuite) TestCreateDraft_Success() {
	input := suite.balancedInput()

	suite.expectChartLookups()
	suite.mockDraft.On("FindActiveDraftBySource", suite.ctx, suite.book.BookID, input.Source).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDraft.On("SaveDraft", suite.ctx, mock.Anything, mock.Anything, domain.RevisionCreate, suite.actorID).
		Return(nil).Once()

	snapshot, err := suite.service.CreateDraft(suite.ctx, suite.actorID, input)

	suite.Require().NoError(err)
	suite.Require().NotNil(snapshot)
	suite.Equal(domain.DraftOpen, snapshot.Draft.Status)
	suite.Equal(input.Source, snapshot.Draft.Source)
	suite.Equal(suite.actorID, snapshot.Draft.CreatedBy)
	suite.Require().Len(snapshot.Lines, 2)
	suite.Equal(1, snapshot.Lines[0].LineNo)
	suite.Equal(2, snapshot.Lines[1].LineNo)
	suite.mockDraft.AssertExpectations(suite.T())
	suite.mockChart.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestCreateDraft_DuplicateActiveSource() {
	input := suite.balancedInput()
	existing := &domain.Draft{
		DraftID: uuid.NewString(),
		BookID:  suite.book.BookID,
		Source:  input.Source,
		Status:  domain.DraftOpen,
	}

	suite.expectChartLookups()
	suite.mockDraft.On("FindActiveDraftBySource", suite.ctx, suite.book.BookID, input.Source).
		Return(existing, nil).Once()

	snapshot, err := suite.service.CreateDraft(suite.ctx, suite.actorID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(snapshot)
	suite.mockDraft.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestCreateDraft_UnbalancedLines() {
	input := suite.balancedInput()
	input.Lines[1].Credit = decimal.NewFromInt(90)

	snapshot, err := suite.service.CreateDraft(suite.ctx, suite.actorID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(snapshot)
	suite.mockChart.AssertNotCalled(suite.T(), "FindBookByID", mock.Anything, mock.Anything)
	suite.mockDraft.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestCreateDraft_MissingSource() {
	input := suite.balancedInput()
	input.Source.ID = ""

	_, err := suite.service.CreateDraft(suite.ctx, suite.actorID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DraftServiceTestSuite) TestCreateDraft_ClosedPeriod() {
	input := suite.balancedInput()
	closed := suite.period
	closed.Status = domain.PeriodClosed

	suite.mockChart.On("FindBookByID", suite.ctx, suite.book.BookID).Return(&suite.book, nil).Once()
	suite.mockChart.On("FindPeriodByID", suite.ctx, suite.period.PeriodID).Return(&closed, nil).Once()

	_, err := suite.service.CreateDraft(suite.ctx, suite.actorID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDraft.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestCreateDraft_NonPostableAccount() {
	input := suite.balancedInput()
	blocked := suite.cashAcc
	blocked.AllowPost = false
	blocked.IsActive = false
	blocked.IsPlaceholder = true

	suite.mockChart.On("FindBookByID", suite.ctx, suite.book.BookID).Return(&suite.book, nil).Once()
	suite.mockChart.On("FindPeriodByID", suite.ctx, suite.period.PeriodID).Return(&suite.period, nil).Once()
	suite.mockChart.On("FindAccountsByIDs", suite.ctx, mock.Anything).Return(map[string]domain.Account{
		blocked.AccountID:      blocked,
		suite.revAcc.AccountID: suite.revAcc,
	}, nil).Once()

	snapshot, err := suite.service.CreateDraft(suite.ctx, suite.actorID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), blocked.Code)
	suite.Nil(snapshot)
	suite.mockDraft.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestApproveDraft_Success() {
	draftID := uuid.NewString()
	draft := &domain.Draft{
		DraftID: draftID,
		BookID:  suite.book.BookID,
		Source:  domain.SourceRef{Type: domain.SourceInvoiceAR, ID: uuid.NewString()},
		Status:  domain.DraftOpen,
	}

	suite.mockDraft.On("FindDraftByIDForUpdate", suite.ctx, draftID).Return(draft, nil).Once()
	suite.mockDraft.On("UpdateDraftStatus", suite.ctx, draftID, domain.DraftApproved, suite.actorID).Return(nil).Once()
	suite.mockDraft.On("AppendRevision", suite.ctx, draftID, domain.RevisionApprove, "", suite.actorID).Return(nil).Once()
	suite.mockSource.On("SyncApproved", suite.ctx, draft.Source, suite.actorID).Return(nil).Once()

	approved, err := suite.service.ApproveDraft(suite.ctx, suite.actorID, draftID)

	suite.Require().NoError(err)
	suite.Require().NotNil(approved)
	suite.Equal(domain.DraftApproved, approved.Status)
	suite.Equal(suite.actorID, approved.ApprovedBy)
	suite.mockDraft.AssertExpectations(suite.T())
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestApproveDraft_WrongStatus() {
	draftID := uuid.NewString()
	draft := &domain.Draft{DraftID: draftID, Status: domain.DraftPosted}

	suite.mockDraft.On("FindDraftByIDForUpdate", suite.ctx, draftID).Return(draft, nil).Once()

	approved, err := suite.service.ApproveDraft(suite.ctx, suite.actorID, draftID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(approved)
	suite.mockDraft.AssertNotCalled(suite.T(), "UpdateDraftStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestApproveDraft_Idempotent() {
	draftID := uuid.NewString()
	draft := &domain.Draft{DraftID: draftID, Status: domain.DraftApproved, ApprovedBy: suite.actorID}

	suite.mockDraft.On("FindDraftByIDForUpdate", suite.ctx, draftID).Return(draft, nil).Once()

	approved, err := suite.service.ApproveDraft(suite.ctx, suite.actorID, draftID)

	suite.Require().NoError(err)
	suite.Equal(domain.DraftApproved, approved.Status)
	suite.mockDraft.AssertNotCalled(suite.T(), "UpdateDraftStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockDraft.AssertNotCalled(suite.T(), "AppendRevision", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockSource.AssertNotCalled(suite.T(), "SyncApproved", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestRejectDraft_RequiresReason() {
	_, err := suite.service.RejectDraft(suite.ctx, suite.actorID, uuid.NewString(), "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockDraft.AssertNotCalled(suite.T(), "FindDraftByIDForUpdate", mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestRejectDraft_FromApproved() {
	draftID := uuid.NewString()
	reason := "wrong period"
	draft := &domain.Draft{
		DraftID: draftID,
		Source:  domain.SourceRef{Type: domain.SourcePurchaseOrder, ID: uuid.NewString(), Version: 2},
		Status:  domain.DraftApproved,
	}

	suite.mockDraft.On("FindDraftByIDForUpdate", suite.ctx, draftID).Return(draft, nil).Once()
	suite.mockDraft.On("UpdateDraftStatus", suite.ctx, draftID, domain.DraftRejected, "").Return(nil).Once()
	suite.mockDraft.On("AppendRevision", suite.ctx, draftID, domain.RevisionReject, reason, suite.actorID).Return(nil).Once()
	suite.mockSource.On("SyncRejected", suite.ctx, draft.Source, suite.actorID, reason).Return(nil).Once()

	rejected, err := suite.service.RejectDraft(suite.ctx, suite.actorID, draftID, reason)

	suite.Require().NoError(err)
	suite.Equal(domain.DraftRejected, rejected.Status)
	suite.mockDraft.AssertExpectations(suite.T())
	suite.mockSource.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestRejectDraft_AlreadyPosted() {
	draftID := uuid.NewString()
	draft := &domain.Draft{DraftID: draftID, Status: domain.DraftPosted}

	suite.mockDraft.On("FindDraftByIDForUpdate", suite.ctx, draftID).Return(draft, nil).Once()

	_, err := suite.service.RejectDraft(suite.ctx, suite.actorID, draftID, "too late")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *DraftServiceTestSuite) TestRejectDraft_Idempotent() {
	draftID := uuid.NewString()
	draft := &domain.Draft{DraftID: draftID, Status: domain.DraftRejected}

	suite.mockDraft.On("FindDraftByIDForUpdate", suite.ctx, draftID).Return(draft, nil).Once()

	rejected, err := suite.service.RejectDraft(suite.ctx, suite.actorID, draftID, "still wrong")

	suite.Require().NoError(err)
	suite.Equal(domain.DraftRejected, rejected.Status)
	suite.mockDraft.AssertNotCalled(suite.T(), "UpdateDraftStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestResubmitDraft_CreatesNextVersion() {
	draftID := uuid.NewString()
	input := suite.balancedInput()
	rejected := &domain.Draft{
		DraftID:  draftID,
		BookID:   suite.book.BookID,
		PeriodID: suite.period.PeriodID,
		Source:   domain.SourceRef{Type: domain.SourceInvoiceAR, ID: uuid.NewString(), Version: 2},
		Status:   domain.DraftRejected,
	}
	successorSource := domain.SourceRef{Type: domain.SourceInvoiceAR, ID: rejected.Source.ID, Version: 3}

	suite.mockDraft.On("FindDraftByIDForUpdate", suite.ctx, draftID).Return(rejected, nil).Once()
	suite.expectChartLookups()
	suite.mockDraft.On("FindActiveDraftBySource", suite.ctx, suite.book.BookID, successorSource).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockDraft.On("SaveDraft", suite.ctx, mock.MatchedBy(func(d domain.Draft) bool {
		return d.DraftID != draftID && d.Source == successorSource && d.Status == domain.DraftOpen
	}), mock.Anything, domain.RevisionResubmit, suite.actorID).Return(nil).Once()

	snapshot, err := suite.service.ResubmitDraft(suite.ctx, suite.actorID, draftID, input)

	suite.Require().NoError(err)
	suite.Require().NotNil(snapshot)
	suite.NotEqual(draftID, snapshot.Draft.DraftID)
	suite.Equal(successorSource, snapshot.Draft.Source)
	suite.Equal(domain.DraftOpen, snapshot.Draft.Status)
	suite.Require().Len(snapshot.Lines, 2)
	// The rejected draft stays as it was.
	suite.mockDraft.AssertNotCalled(suite.T(), "UpdateDraftStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockDraft.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestResubmitDraft_NotRejected() {
	draftID := uuid.NewString()
	input := suite.balancedInput()
	draft := &domain.Draft{DraftID: draftID, Status: domain.DraftOpen}

	suite.mockDraft.On("FindDraftByIDForUpdate", suite.ctx, draftID).Return(draft, nil).Once()

	_, err := suite.service.ResubmitDraft(suite.ctx, suite.actorID, draftID, input)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockDraft.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestGetDraft() {
	draftID := uuid.NewString()
	draft := &domain.Draft{DraftID: draftID, Status: domain.DraftOpen}
	lines := []domain.DraftLine{{LineID: uuid.NewString(), DraftID: draftID, LineNo: 1}}

	suite.mockDraft.On("FindDraftByID", suite.ctx, draftID).Return(draft, nil).Once()
	suite.mockDraft.On("FindLinesByDraftID", suite.ctx, draftID).Return(lines, nil).Once()

	snapshot, err := suite.service.GetDraft(suite.ctx, draftID)

	suite.Require().NoError(err)
	suite.Equal(draftID, snapshot.Draft.DraftID)
	suite.Len(snapshot.Lines, 1)
}

func (suite *DraftServiceTestSuite) TestListDrafts_RequiresBookID() {
	_, _, err := suite.service.ListDrafts(suite.ctx, portsrepo.DraftFilter{}, 20, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DraftServiceTestSuite) TestListRevisions() {
	draftID := uuid.NewString()
	draft := &domain.Draft{DraftID: draftID}
	revisions := []domain.DraftRevision{
		{RevisionID: uuid.NewString(), DraftID: draftID, RevNo: 0, Action: domain.RevisionCreate},
		{RevisionID: uuid.NewString(), DraftID: draftID, RevNo: 1, Action: domain.RevisionApprove},
	}

	suite.mockDraft.On("FindDraftByID", suite.ctx, draftID).Return(draft, nil).Once()
	suite.mockDraft.On("ListRevisions", suite.ctx, draftID).Return(revisions, nil).Once()

	got, err := suite.service.ListRevisions(suite.ctx, draftID)

	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.Equal(0, got[0].RevNo)
	suite.Equal(domain.RevisionApprove, got[1].Action)
}

func TestDraftServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DraftServiceTestSuite))
}
