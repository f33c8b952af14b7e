package dto

import (
	"time"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ItemAccountResponse is one account's contribution to a statement item.
type ItemAccountResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ItemAccountsResponse lists the accounts behind one statement line.
type ItemAccountsResponse struct {
	Accounts []ItemAccountResponse `json:"accounts"`
	Total    decimal.Decimal       `json:"total"`
}

// RegisterEntryResponse is one split row of an account register.
type RegisterEntryResponse struct {
	TxnID       string          `json:"txnID"`
	VoucherNum  string          `json:"voucherNum"`
	TxnDate     time.Time       `json:"txnDate"`
	Description string          `json:"description,omitempty"`
	LineNo      int             `json:"lineNo"`
	Value       decimal.Decimal `json:"value"`
	Memo        string          `json:"memo,omitempty"`
	Source      SourceRefDTO    `json:"source"`
}

// RegisterResponse lists register entries newest first.
type RegisterResponse struct {
	Entries []RegisterEntryResponse `json:"entries"`
}

// SplitDetailResponse is one leg of a posted transaction.
type SplitDetailResponse struct {
	LineNo      int             `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Value       decimal.Decimal `json:"value"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
}

// SourceDocumentResponse is the originating document of a transaction.
type SourceDocumentResponse struct {
	DocType     string    `json:"docType"`
	DocID       string    `json:"docID"`
	DocNo       string    `json:"docNo"`
	Status      string    `json:"status"`
	DocDate     time.Time `json:"docDate"`
	Description string    `json:"description,omitempty"`
	RevisionNo  int       `json:"revisionNo"`
	DraftID     string    `json:"draftID,omitempty"`
}

// TransactionDetailResponse is the full drill-through view of a transaction.
type TransactionDetailResponse struct {
	TxnID       string                  `json:"txnID"`
	BookID      string                  `json:"bookID"`
	PeriodID    string                  `json:"periodID"`
	TxnDate     time.Time               `json:"txnDate"`
	CurrencyID  string                  `json:"currencyID"`
	VoucherNum  string                  `json:"voucherNum"`
	Description string                  `json:"description,omitempty"`
	Source      SourceRefDTO            `json:"source"`
	PostedBy    string                  `json:"postedBy"`
	PostedAt    time.Time               `json:"postedAt"`
	Status      string                  `json:"status"`
	Splits      []SplitDetailResponse   `json:"splits"`
	SourceDoc   *SourceDocumentResponse `json:"sourceDoc,omitempty"`
}

// ToItemAccountsResponse converts drilldown rows and derives their total.
func ToItemAccountsResponse(rows []domain.ItemAccountAmount) ItemAccountsResponse {
	out := make([]ItemAccountResponse, len(rows))
	total := decimal.Zero
	for i, r := range rows {
		out[i] = ItemAccountResponse{
			AccountID: r.AccountID,
			Code:      r.Code,
			Name:      r.Name,
			Amount:    r.Amount,
		}
		total = total.Add(r.Amount)
	}
	return ItemAccountsResponse{Accounts: out, Total: total}
}

// ToRegisterResponse converts register entries to the response shape.
func ToRegisterResponse(entries []domain.RegisterEntry) RegisterResponse {
	out := make([]RegisterEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = RegisterEntryResponse{
			TxnID:       e.TxnID,
			VoucherNum:  e.VoucherNum,
			TxnDate:     e.TxnDate,
			Description: e.Description,
			LineNo:      e.LineNo,
			Value:       e.Value,
			Memo:        e.Memo,
			Source: SourceRefDTO{
				Type:    string(e.Source.Type),
				ID:      e.Source.ID,
				Version: e.Source.Version,
			},
		}
	}
	return RegisterResponse{Entries: out}
}

// ToTransactionDetailResponse converts a domain.TransactionDetail to its DTO.
func ToTransactionDetailResponse(d *domain.TransactionDetail) TransactionDetailResponse {
	splits := make([]SplitDetailResponse, len(d.Splits))
	for i, s := range d.Splits {
		splits[i] = SplitDetailResponse{
			LineNo:      s.LineNo,
			AccountID:   s.AccountID,
			AccountCode: s.AccountCode,
			AccountName: s.AccountName,
			Value:       s.Value,
			Amount:      s.Amount,
			Memo:        s.Memo,
		}
	}
	var sourceDoc *SourceDocumentResponse
	if d.SourceDoc != nil {
		sourceDoc = &SourceDocumentResponse{
			DocType:     d.SourceDoc.DocType,
			DocID:       d.SourceDoc.DocID,
			DocNo:       d.SourceDoc.DocNo,
			Status:      d.SourceDoc.Status,
			DocDate:     d.SourceDoc.DocDate,
			Description: d.SourceDoc.Description,
			RevisionNo:  d.SourceDoc.RevisionNo,
			DraftID:     d.SourceDoc.DraftID,
		}
	}
	t := d.Transaction
	return TransactionDetailResponse{
		TxnID:       t.TxnID,
		BookID:      t.BookID,
		PeriodID:    t.PeriodID,
		TxnDate:     t.TxnDate,
		CurrencyID:  t.CurrencyID,
		VoucherNum:  t.VoucherNum,
		Description: t.Description,
		Source: SourceRefDTO{
			Type:    string(t.Source.Type),
			ID:      t.Source.ID,
			Version: t.Source.Version,
		},
		PostedBy: t.PostedBy,
		PostedAt: t.PostedAt,
		Status:   string(t.Status),
		Splits:   splits,
		SourceDoc: sourceDoc,
	}
}
