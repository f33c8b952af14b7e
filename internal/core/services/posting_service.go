package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// postingService turns an approved draft into an immutable transaction.
// Posting is atomic: transaction, splits, balance cache, draft flip,
// source mirror, and audit entry all commit together or not at all.
type postingService struct {
	BaseService
	txm   portsrepo.TxManager
	repos portsrepo.Repositories
}

// NewPostingService creates a new posting engine service.
func NewPostingService(txm portsrepo.TxManager, repos portsrepo.Repositories) portssvc.PostingSvcFacade {
	return &postingService{txm: txm, repos: repos}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// convertValue turns a signed transaction-currency value into the account
// commodity's amount. A direct price (1 unit of commodity = rate currency)
// divides; failing that an inverse price (1 unit of currency = rate
// commodity) multiplies; with neither the posting hard-fails. The result
// is rounded half-up at the commodity's precision.
func convertValue(ctx context.Context, prices portsrepo.PriceRepository, bookID string, value decimal.Decimal, currencyID string, commodity domain.Commodity, asOf time.Time) (decimal.Decimal, error) {
	if commodity.CommodityID == currencyID {
		return value, nil
	}

	rate, found, err := prices.LatestPriceValue(ctx, bookID, commodity.CommodityID, currencyID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if found {
		if rate.IsZero() {
			return decimal.Zero, fmt.Errorf("%w: zero price for %s in %s", apperrors.ErrMissingPrice, commodity.CommodityID, currencyID)
		}
		return accounting.RoundHalfUp(value.Div(rate), commodity.Precision), nil
	}

	rate, found, err = prices.LatestPriceValue(ctx, bookID, currencyID, commodity.CommodityID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if found {
		return accounting.RoundHalfUp(value.Mul(rate), commodity.Precision), nil
	}

	return decimal.Zero, fmt.Errorf("%w: no price between %s and %s on or before %s",
		apperrors.ErrMissingPrice, currencyID, commodity.CommodityID, asOf.Format("2006-01-02"))
}

// draftContext is everything precheck and post need loaded up front.
type draftContext struct {
	draft       *domain.Draft
	lines       []domain.DraftLine
	book        *domain.Book
	period      *domain.AccountingPeriod
	accounts    map[string]domain.Account
	commodities map[string]domain.Commodity
	currencyID  string
}

func loadDraftContext(ctx context.Context, r portsrepo.Repositories, draft *domain.Draft) (*draftContext, error) {
	lines, err := r.Draft.FindLinesByDraftID(ctx, draft.DraftID)
	if err != nil {
		return nil, err
	}
	book, err := r.Chart.FindBookByID(ctx, draft.BookID)
	if err != nil {
		return nil, err
	}
	period, err := r.Chart.FindPeriodByID(ctx, draft.PeriodID)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, ln := range lines {
		if !seen[ln.AccountID] {
			seen[ln.AccountID] = true
			accountIDs = append(accountIDs, ln.AccountID)
		}
	}
	accounts, err := r.Chart.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	commodityIDs := make([]string, 0, len(accounts))
	seenCom := make(map[string]bool, len(accounts))
	for _, acc := range accounts {
		if !seenCom[acc.CommodityID] {
			seenCom[acc.CommodityID] = true
			commodityIDs = append(commodityIDs, acc.CommodityID)
		}
	}
	commodities, err := r.Chart.FindCommoditiesByIDs(ctx, commodityIDs)
	if err != nil {
		return nil, err
	}

	currencyID := draft.CurrencyID
	if currencyID == "" {
		currencyID = book.BaseCurrencyID
	}

	return &draftContext{
		draft:       draft,
		lines:       lines,
		book:        book,
		period:      period,
		accounts:    accounts,
		commodities: commodities,
		currencyID:  currencyID,
	}, nil
}

// PrecheckDraft runs every posting gate without writing anything and
// returns the full structured report rather than stopping at the first
// failure.
func (s *postingService) PrecheckDraft(ctx context.Context, draftID string) (*domain.PrecheckResult, error) {
	result := &domain.PrecheckResult{OK: true}
	addCheck := func(code domain.CheckCode, passed bool, message string, details map[string]any) {
		result.Checks = append(result.Checks, domain.PrecheckItem{
			Code: code, Passed: passed, Message: message, Details: details,
		})
		if !passed {
			result.OK = false
		}
	}

	draft, err := s.repos.Draft.FindDraftByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			addCheck(domain.CheckDraftExists, false, "draft not found", map[string]any{"draft_id": draftID})
			return result, nil
		}
		return nil, err
	}
	if draft.Status != domain.DraftApproved {
		addCheck(domain.CheckDraftExists, false,
			fmt.Sprintf("draft is %s, must be APPROVED", draft.Status),
			map[string]any{"status": string(draft.Status)})
		return result, nil
	}
	addCheck(domain.CheckDraftExists, true, "draft exists and is approved", nil)

	dc, err := loadDraftContext(ctx, s.repos, draft)
	if err != nil {
		return nil, err
	}

	if len(dc.lines) < 2 {
		addCheck(domain.CheckMinSplits, false,
			fmt.Sprintf("draft has %d lines, needs at least 2", len(dc.lines)),
			map[string]any{"line_count": len(dc.lines)})
	} else {
		addCheck(domain.CheckMinSplits, true, "", nil)
	}

	if err := accounting.ValidateDraftLines(dc.lines); err != nil {
		addCheck(domain.CheckBalanceValueZero, false, err.Error(), nil)
	} else {
		addCheck(domain.CheckBalanceValueZero, true, "", nil)
	}

	if !dc.period.IsOpen() {
		addCheck(domain.CheckPeriodOpen, false,
			fmt.Sprintf("period %d-%02d is %s", dc.period.Year, dc.period.Month, dc.period.Status),
			map[string]any{"period_id": dc.period.PeriodID})
	} else {
		addCheck(domain.CheckPeriodOpen, true, "", nil)
	}

	badAccounts := []string{}
	for _, ln := range dc.lines {
		acc, ok := dc.accounts[ln.AccountID]
		if !ok || !acc.Postable() {
			badAccounts = append(badAccounts, ln.AccountID)
		}
	}
	if len(badAccounts) > 0 {
		addCheck(domain.CheckAccountAllowPost, false,
			"one or more accounts do not accept postings",
			map[string]any{"account_ids": badAccounts})
	} else {
		addCheck(domain.CheckAccountAllowPost, true, "", nil)
	}

	existing, err := s.repos.Ledger.FindTransactionBySource(ctx, draft.BookID, draft.Source)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		addCheck(domain.CheckIdempotency, false,
			"a transaction already exists for this source; posting will return it unchanged",
			map[string]any{"txn_id": existing.TxnID, "voucher_num": existing.VoucherNum})
	} else {
		addCheck(domain.CheckIdempotency, true, "", nil)
	}

	return result, nil
}

// PostDraft atomically posts an APPROVED draft. Re-posting an already
// POSTED draft returns the original transaction without writing anything.
func (s *postingService) PostDraft(ctx context.Context, actorID, draftID string) (*domain.PostResult, error) {
	var result *domain.PostResult
	err := s.txm.WithinTx(ctx, func(r portsrepo.Repositories) error {
		draft, err := r.Draft.FindDraftByIDForUpdate(ctx, draftID)
		if err != nil {
			return err
		}

		if draft.Status == domain.DraftPosted {
			if draft.PostedTxnID == nil {
				return apperrors.NewAppError(500, "draft "+draftID+" is POSTED without a transaction link", nil)
			}
			txn, err := r.Ledger.FindTransactionByID(ctx, *draft.PostedTxnID)
			if err != nil {
				return err
			}
			result = &domain.PostResult{TxnID: txn.TxnID, VoucherNum: txn.VoucherNum}
			return nil
		}
		if draft.Status != domain.DraftApproved {
			return fmt.Errorf("%w: draft %s is %s, only APPROVED can be posted", apperrors.ErrConflict, draftID, draft.Status)
		}

		// A transaction may already hold this source key (for example a
		// crashed poster that committed but never flipped the draft).
		// Adopt it before touching the voucher sequence so no number is
		// consumed for a transaction that will not be created.
		if existing, err := r.Ledger.FindTransactionBySource(ctx, draft.BookID, draft.Source); err == nil {
			if err := r.Draft.MarkDraftPosted(ctx, draftID, existing.TxnID); err != nil {
				return err
			}
			if err := r.Draft.AppendRevision(ctx, draftID, domain.RevisionPost, "", actorID); err != nil {
				return err
			}
			result = &domain.PostResult{TxnID: existing.TxnID, VoucherNum: existing.VoucherNum}
			return nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		dc, err := loadDraftContext(ctx, r, draft)
		if err != nil {
			return err
		}

		if err := accounting.ValidateDraftLines(dc.lines); err != nil {
			return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		if !dc.period.IsOpen() {
			return fmt.Errorf("%w: period %d-%02d is not open", apperrors.ErrValidation, dc.period.Year, dc.period.Month)
		}
		for _, ln := range dc.lines {
			acc, ok := dc.accounts[ln.AccountID]
			if !ok {
				return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, ln.AccountID)
			}
			if !acc.Postable() {
				return fmt.Errorf("%w: account %s does not accept postings", apperrors.ErrValidation, acc.Code)
			}
		}

		now := time.Now().UTC()
		txnID := uuid.NewString()

		seq, err := r.Ledger.NextVoucherSeq(ctx, draft.BookID, dc.period.Year, dc.period.Month)
		if err != nil {
			return err
		}
		voucherNum := accounting.FormatVoucherNum(dc.period.Year, dc.period.Month, seq)

		txn := domain.Transaction{
			TxnID:          txnID,
			BookID:         draft.BookID,
			PeriodID:       draft.PeriodID,
			TxnDate:        draft.TxnDate,
			EnterDate:      now,
			CurrencyID:     dc.currencyID,
			VoucherNum:     voucherNum,
			Description:    draft.Description,
			Source:         draft.Source,
			IdempotencyKey: draft.Source.IdempotencyKey(),
			PostedBy:       actorID,
			PostedAt:       now,
			Status:         domain.TxnPosted,
		}

		inserted, created, err := r.Ledger.InsertTransactionIdempotent(ctx, txn)
		if err != nil {
			return err
		}
		if !created {
			// A concurrent poster won the idempotency race between the
			// source re-query and the insert. Adopt its transaction, link
			// the draft to it, and leave the ledger writes to the winner.
			if err := r.Draft.MarkDraftPosted(ctx, draftID, inserted.TxnID); err != nil {
				return err
			}
			if err := r.Draft.AppendRevision(ctx, draftID, domain.RevisionPost, "", actorID); err != nil {
				return err
			}
			result = &domain.PostResult{TxnID: inserted.TxnID, VoucherNum: inserted.VoucherNum}
			return nil
		}

		splits := make([]domain.Split, len(dc.lines))
		balanceDeltas := make(map[string]decimal.Decimal)
		for i, ln := range dc.lines {
			acc := dc.accounts[ln.AccountID]
			commodity, ok := dc.commodities[acc.CommodityID]
			if !ok {
				return fmt.Errorf("%w: commodity %s not found", apperrors.ErrValidation, acc.CommodityID)
			}

			value := ln.Value()
			amount, err := convertValue(ctx, r.Price, draft.BookID, value, dc.currencyID, commodity, draft.TxnDate)
			if err != nil {
				return err
			}

			splits[i] = domain.Split{
				SplitID:        uuid.NewString(),
				TxnID:          txnID,
				LineNo:         ln.LineNo,
				AccountID:      ln.AccountID,
				Amount:         amount,
				Value:          value,
				Memo:           ln.Memo,
				Action:         string(ln.Tag.Role),
				ReconcileState: domain.ReconcileNone,
				LotID:          ln.Tag.LotID,
			}
			balanceDeltas[ln.AccountID] = balanceDeltas[ln.AccountID].Add(amount)
		}

		if err := r.Ledger.InsertSplits(ctx, splits); err != nil {
			return err
		}
		for accountID, delta := range balanceDeltas {
			if err := r.Ledger.UpsertAccountBalance(ctx, draft.BookID, draft.PeriodID, accountID, delta); err != nil {
				return err
			}
		}

		if err := r.Draft.MarkDraftPosted(ctx, draftID, txnID); err != nil {
			return err
		}
		if err := r.Draft.AppendRevision(ctx, draftID, domain.RevisionPost, "", actorID); err != nil {
			return err
		}
		if err := r.Source.SyncPosted(ctx, draft.Source, txnID); err != nil {
			return err
		}

		entry := domain.AuditLogEntry{
			EntryID:    uuid.NewString(),
			ActorID:    actorID,
			Action:     domain.AuditActionPost,
			EntityType: "transaction",
			EntityID:   txnID,
			At:         now,
			Payload: map[string]any{
				"draft_id":    draftID,
				"txn_id":      txnID,
				"voucher_num": voucherNum,
				"book_id":     draft.BookID,
				"period_id":   draft.PeriodID,
				"actor_id":    actorID,
				"source_key":  draft.Source.IdempotencyKey(),
			},
		}
		if _, err := r.Audit.Append(ctx, entry); err != nil {
			return err
		}

		if err := r.Report.MarkSnapshotsStale(ctx, draft.BookID); err != nil {
			return err
		}

		result = &domain.PostResult{TxnID: txnID, VoucherNum: voucherNum}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "failed to post draft", slog.String("draft_id", draftID))
		return nil, err
	}

	s.LogInfo(ctx, "draft posted",
		slog.String("draft_id", draftID),
		slog.String("txn_id", result.TxnID),
		slog.String("voucher_num", result.VoucherNum))
	return result, nil
}
