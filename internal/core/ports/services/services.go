package services

import (
	"context"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// DraftInput is the service-level shape of a draft create or resubmit.
type DraftInput struct {
	BookID      string
	PeriodID    string
	CurrencyID  string
	TxnDate     time.Time
	Source      domain.SourceRef
	Description string
	Lines       []DraftLineInput
}

// DraftLineInput carries one proposed line.
type DraftLineInput struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Memo      string
	Tag       domain.LineTag
}

// DraftSvcFacade is the draft lifecycle surface.
type DraftSvcFacade interface {
	CreateDraft(ctx context.Context, actorID string, input DraftInput) (*domain.DraftSnapshot, error)
	GetDraft(ctx context.Context, draftID string) (*domain.DraftSnapshot, error)
	ListDrafts(ctx context.Context, filter repositories.DraftFilter, limit int, nextToken *string) ([]domain.Draft, *string, error)
	ApproveDraft(ctx context.Context, actorID, draftID string) (*domain.Draft, error)
	RejectDraft(ctx context.Context, actorID, draftID, reason string) (*domain.Draft, error)
	ResubmitDraft(ctx context.Context, actorID, draftID string, input DraftInput) (*domain.DraftSnapshot, error)
	ListRevisions(ctx context.Context, draftID string) ([]domain.DraftRevision, error)
}

// PostingSvcFacade is the posting engine surface.
type PostingSvcFacade interface {
	PrecheckDraft(ctx context.Context, draftID string) (*domain.PrecheckResult, error)
	PostDraft(ctx context.Context, actorID, draftID string) (*domain.PostResult, error)
}

// ReportSvcFacade is the statement generation surface.
type ReportSvcFacade interface {
	GenerateStatements(ctx context.Context, actorID string, params domain.ReportParams) (*domain.ReportSnapshot, error)
	GetSnapshot(ctx context.Context, snapshotID string) (*domain.ReportSnapshot, error)
}

// DrilldownSvcFacade walks snapshot line -> accounts -> register -> entry.
type DrilldownSvcFacade interface {
	ItemAccounts(ctx context.Context, snapshotID string, statementType domain.StatementType, itemCode string) ([]domain.ItemAccountAmount, error)
	// AccountRegister is restricted to the intersection of the requested
	// account set and the item's mapped accounts.
	AccountRegister(ctx context.Context, snapshotID string, statementType domain.StatementType, itemCode, accountID string, includeChildren bool) ([]domain.RegisterEntry, error)
	TransactionDetail(ctx context.Context, txnID string) (*domain.TransactionDetail, error)
}

// ChartSvcFacade exposes chart and period reads.
type ChartSvcFacade interface {
	GetBook(ctx context.Context, bookID string) (*domain.Book, error)
	ListPeriods(ctx context.Context, bookID string) ([]domain.AccountingPeriod, error)
	ListAccounts(ctx context.Context, bookID string) ([]domain.Account, error)
}

// PriceSvcFacade exposes the price feed surface.
type PriceSvcFacade interface {
	SavePrice(ctx context.Context, actorID string, price domain.Price) (*domain.Price, error)
	ListPrices(ctx context.Context, bookID, commodityID string) ([]domain.Price, error)
}

// AuditSvcFacade exposes audit log reads and chain verification.
type AuditSvcFacade interface {
	ListEntries(ctx context.Context, limit int) ([]domain.AuditLogEntry, error)
	VerifyChain(ctx context.Context) (bool, string, error)
}
