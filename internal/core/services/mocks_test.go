package services_test

import (
	"context"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// fakeTxManager runs the callback directly against the mock bundle; the
// services under test never see a real database transaction.
type fakeTxManager struct {
	repos portsrepo.Repositories
}

var _ portsrepo.TxManager = (*fakeTxManager)(nil)

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(r portsrepo.Repositories) error) error {
	return fn(f.repos)
}

// --- Mock ChartRepository ---

type MockChartRepository struct {
	mock.Mock
}

var _ portsrepo.ChartRepository = (*MockChartRepository)(nil)

func (m *MockChartRepository) FindBookByID(ctx context.Context, bookID string) (*domain.Book, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockChartRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockChartRepository) ListPeriodsByBook(ctx context.Context, bookID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockChartRepository) ListAccountsByBook(ctx context.Context, bookID string) ([]domain.Account, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockChartRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockChartRepository) FindCommodityByID(ctx context.Context, commodityID string) (*domain.Commodity, error) {
	args := m.Called(ctx, commodityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commodity), args.Error(1)
}

func (m *MockChartRepository) FindCommoditiesByIDs(ctx context.Context, commodityIDs []string) (map[string]domain.Commodity, error) {
	args := m.Called(ctx, commodityIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Commodity), args.Error(1)
}

// --- Mock DraftRepository ---

type MockDraftRepository struct {
	mock.Mock
}

var _ portsrepo.DraftRepository = (*MockDraftRepository)(nil)

func (m *MockDraftRepository) SaveDraft(ctx context.Context, draft domain.Draft, lines []domain.DraftLine, action domain.RevisionAction, actorID string) error {
	args := m.Called(ctx, draft, lines, action, actorID)
	return args.Error(0)
}

func (m *MockDraftRepository) FindDraftByID(ctx context.Context, draftID string) (*domain.Draft, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockDraftRepository) FindDraftByIDForUpdate(ctx context.Context, draftID string) (*domain.Draft, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockDraftRepository) FindLinesByDraftID(ctx context.Context, draftID string) ([]domain.DraftLine, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DraftLine), args.Error(1)
}

func (m *MockDraftRepository) ListDrafts(ctx context.Context, filter portsrepo.DraftFilter, limit int, nextToken *string) ([]domain.Draft, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Draft), token, args.Error(2)
}

func (m *MockDraftRepository) FindActiveDraftBySource(ctx context.Context, bookID string, src domain.SourceRef) (*domain.Draft, error) {
	args := m.Called(ctx, bookID, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Draft), args.Error(1)
}

func (m *MockDraftRepository) UpdateDraftStatus(ctx context.Context, draftID string, status domain.DraftStatus, approvedBy string) error {
	args := m.Called(ctx, draftID, status, approvedBy)
	return args.Error(0)
}

func (m *MockDraftRepository) MarkDraftPosted(ctx context.Context, draftID string, txnID string) error {
	args := m.Called(ctx, draftID, txnID)
	return args.Error(0)
}

func (m *MockDraftRepository) AppendRevision(ctx context.Context, draftID string, action domain.RevisionAction, reason string, actorID string) error {
	args := m.Called(ctx, draftID, action, reason, actorID)
	return args.Error(0)
}

func (m *MockDraftRepository) ListRevisions(ctx context.Context, draftID string) ([]domain.DraftRevision, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DraftRevision), args.Error(1)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepository = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, txnID string) (*domain.Transaction, error) {
	args := m.Called(ctx, txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) FindTransactionBySource(ctx context.Context, bookID string, src domain.SourceRef) (*domain.Transaction, error) {
	args := m.Called(ctx, bookID, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) InsertTransactionIdempotent(ctx context.Context, txn domain.Transaction) (*domain.Transaction, bool, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Bool(1), args.Error(2)
}

func (m *MockLedgerRepository) InsertSplits(ctx context.Context, splits []domain.Split) error {
	args := m.Called(ctx, splits)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindSplitsByTxnID(ctx context.Context, txnID string) ([]domain.Split, error) {
	args := m.Called(ctx, txnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Split), args.Error(1)
}

func (m *MockLedgerRepository) NextVoucherSeq(ctx context.Context, bookID string, year, month int) (int64, error) {
	args := m.Called(ctx, bookID, year, month)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) UpsertAccountBalance(ctx context.Context, bookID, periodID, accountID string, delta decimal.Decimal) error {
	args := m.Called(ctx, bookID, periodID, accountID, delta)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindAccountBalance(ctx context.Context, bookID, periodID, accountID string) (*domain.AccountBalance, error) {
	args := m.Called(ctx, bookID, periodID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountBalance), args.Error(1)
}

// --- Mock PriceRepository ---

type MockPriceRepository struct {
	mock.Mock
}

var _ portsrepo.PriceRepository = (*MockPriceRepository)(nil)

func (m *MockPriceRepository) LatestPriceValue(ctx context.Context, bookID, commodityID, currencyID string, asOf time.Time) (decimal.Decimal, bool, error) {
	args := m.Called(ctx, bookID, commodityID, currencyID, asOf)
	return args.Get(0).(decimal.Decimal), args.Bool(1), args.Error(2)
}

func (m *MockPriceRepository) SavePrice(ctx context.Context, price domain.Price) error {
	args := m.Called(ctx, price)
	return args.Error(0)
}

func (m *MockPriceRepository) ListPrices(ctx context.Context, bookID string, commodityID string) ([]domain.Price, error) {
	args := m.Called(ctx, bookID, commodityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Price), args.Error(1)
}

// --- Mock AuditRepository ---

type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepository = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) Append(ctx context.Context, entry domain.AuditLogEntry) (*domain.AuditLogEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditLogEntry), args.Error(1)
}

func (m *MockAuditRepository) ListOrdered(ctx context.Context, limit int) ([]domain.AuditLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLogEntry), args.Error(1)
}

// --- Mock ReportRepository ---

type MockReportRepository struct {
	mock.Mock
}

var _ portsrepo.ReportRepository = (*MockReportRepository)(nil)

func (m *MockReportRepository) FindBasisByCode(ctx context.Context, code string) (*domain.ReportBasis, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportBasis), args.Error(1)
}

func (m *MockReportRepository) ListItems(ctx context.Context) ([]domain.ReportItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReportItem), args.Error(1)
}

func (m *MockReportRepository) FindItemByCode(ctx context.Context, statementType domain.StatementType, code string) (*domain.ReportItem, error) {
	args := m.Called(ctx, statementType, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportItem), args.Error(1)
}

func (m *MockReportRepository) ListMappingsByBasis(ctx context.Context, basisID string) ([]domain.ReportMapping, error) {
	args := m.Called(ctx, basisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReportMapping), args.Error(1)
}

func (m *MockReportRepository) ListMappingsByBasisItem(ctx context.Context, basisID, itemID string) ([]domain.ReportMapping, error) {
	args := m.Called(ctx, basisID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReportMapping), args.Error(1)
}

func (m *MockReportRepository) FindSnapshotByID(ctx context.Context, snapshotID string) (*domain.ReportSnapshot, error) {
	args := m.Called(ctx, snapshotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportSnapshot), args.Error(1)
}

func (m *MockReportRepository) FindSnapshotByKey(ctx context.Context, bookID, paramsHash string) (*domain.ReportSnapshot, error) {
	args := m.Called(ctx, bookID, paramsHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReportSnapshot), args.Error(1)
}

func (m *MockReportRepository) UpsertSnapshot(ctx context.Context, snapshot domain.ReportSnapshot) (string, error) {
	args := m.Called(ctx, snapshot)
	return args.String(0), args.Error(1)
}

func (m *MockReportRepository) MarkSnapshotsStale(ctx context.Context, bookID string) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}

func (m *MockReportRepository) BalanceByAccount(ctx context.Context, bookID string, accountIDs []string, periodKey int) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, bookID, accountIDs, periodKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockReportRepository) ActivityByAccount(ctx context.Context, bookID string, accountIDs []string, periodID string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, bookID, accountIDs, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockReportRepository) RegisterThroughPeriod(ctx context.Context, bookID string, accountIDs []string, periodKey int, limit int) ([]domain.RegisterEntry, error) {
	args := m.Called(ctx, bookID, accountIDs, periodKey, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RegisterEntry), args.Error(1)
}

func (m *MockReportRepository) RegisterInPeriod(ctx context.Context, bookID string, accountIDs []string, periodID string, limit int) ([]domain.RegisterEntry, error) {
	args := m.Called(ctx, bookID, accountIDs, periodID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RegisterEntry), args.Error(1)
}

// --- Mock SourceRepository ---

type MockSourceRepository struct {
	mock.Mock
}

var _ portsrepo.SourceRepository = (*MockSourceRepository)(nil)

func (m *MockSourceRepository) SyncApproved(ctx context.Context, src domain.SourceRef, actorID string) error {
	args := m.Called(ctx, src, actorID)
	return args.Error(0)
}

func (m *MockSourceRepository) SyncRejected(ctx context.Context, src domain.SourceRef, actorID, reason string) error {
	args := m.Called(ctx, src, actorID, reason)
	return args.Error(0)
}

func (m *MockSourceRepository) SyncPosted(ctx context.Context, src domain.SourceRef, txnID string) error {
	args := m.Called(ctx, src, txnID)
	return args.Error(0)
}

func (m *MockSourceRepository) FindDocumentInfo(ctx context.Context, src domain.SourceRef) (*domain.SourceDocumentInfo, error) {
	args := m.Called(ctx, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SourceDocumentInfo), args.Error(1)
}

// newMockRepos builds a bundle of fresh mocks plus the bundle struct.
func newMockRepos() (portsrepo.Repositories, *MockChartRepository, *MockDraftRepository, *MockLedgerRepository, *MockPriceRepository, *MockAuditRepository, *MockReportRepository, *MockSourceRepository) {
	chart := new(MockChartRepository)
	draft := new(MockDraftRepository)
	ledger := new(MockLedgerRepository)
	price := new(MockPriceRepository)
	audit := new(MockAuditRepository)
	report := new(MockReportRepository)
	source := new(MockSourceRepository)
	repos := portsrepo.Repositories{
		Chart:  chart,
		Draft:  draft,
		Ledger: ledger,
		Price:  price,
		Audit:  audit,
		Report: report,
		Source: source,
	}
	return repos, chart, draft, ledger, price, audit, report, source
}
