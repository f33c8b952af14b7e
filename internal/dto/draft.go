package dto

import (
	"time"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// SourceRefDTO identifies the document a draft originates from.
type SourceRefDTO struct {
	Type    string `json:"type" binding:"required,sourcetype"`
	ID      string `json:"id" binding:"required"`
	Version int    `json:"version" binding:"min=0"`
}

// DraftLineRequest defines one proposed line in a draft.
type DraftLineRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo"`
	Role      string          `json:"role"`
	LotID     string          `json:"lotID,omitempty"`
}

// CreateDraftRequest defines the payload for creating a draft.
type CreateDraftRequest struct {
	BookID      string             `json:"bookID" binding:"required"`
	PeriodID    string             `json:"periodID" binding:"required"`
	CurrencyID  string             `json:"currencyID" binding:"required"`
	TxnDate     time.Time          `json:"txnDate" binding:"required"`
	Source      SourceRefDTO       `json:"source" binding:"required"`
	Description string             `json:"description"`
	Lines       []DraftLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// ResubmitDraftRequest replaces a rejected draft's content in full.
type ResubmitDraftRequest struct {
	TxnDate     time.Time          `json:"txnDate" binding:"required"`
	CurrencyID  string             `json:"currencyID" binding:"required"`
	Description string             `json:"description"`
	Lines       []DraftLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// RejectDraftRequest carries the mandatory rejection reason.
type RejectDraftRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// DraftLineResponse defines the data returned for a draft line.
type DraftLineResponse struct {
	LineID    string          `json:"lineID"`
	LineNo    int             `json:"lineNo"`
	AccountID string          `json:"accountID"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Memo      string          `json:"memo,omitempty"`
	Role      string          `json:"role"`
	LotID     string          `json:"lotID,omitempty"`
}

// DraftResponse defines the data returned for a draft.
type DraftResponse struct {
	DraftID     string       `json:"draftID"`
	BookID      string       `json:"bookID"`
	PeriodID    string       `json:"periodID"`
	CurrencyID  string       `json:"currencyID"`
	TxnDate     time.Time    `json:"txnDate"`
	Source      SourceRefDTO `json:"source"`
	Description string       `json:"description,omitempty"`
	Status      string       `json:"status"`
	ApprovedBy  string       `json:"approvedBy,omitempty"`
	PostedTxnID *string      `json:"postedTxnID,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	CreatedBy   string       `json:"createdBy"`
}

// GetDraftResponse combines a draft with its lines.
type GetDraftResponse struct {
	Draft DraftResponse       `json:"draft"`
	Lines []DraftLineResponse `json:"lines"`
}

// ListDraftsResponse is a page of drafts plus the continuation token.
type ListDraftsResponse struct {
	Drafts    []DraftResponse `json:"drafts"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// DraftRevisionResponse defines one entry of a draft's revision log.
type DraftRevisionResponse struct {
	RevisionID string               `json:"revisionID"`
	RevNo      int                  `json:"revNo"`
	Action     string               `json:"action"`
	Reason     string               `json:"reason,omitempty"`
	ActorID    string               `json:"actorID"`
	At         time.Time            `json:"at"`
	Snapshot   domain.DraftSnapshot `json:"snapshot"`
}

// ToServiceDraftInput converts the create request to the service input shape.
func (r CreateDraftRequest) ToServiceDraftInput() services.DraftInput {
	return services.DraftInput{
		BookID:     r.BookID,
		PeriodID:   r.PeriodID,
		CurrencyID: r.CurrencyID,
		TxnDate:    r.TxnDate,
		Source: domain.SourceRef{
			Type:    domain.SourceType(r.Source.Type),
			ID:      r.Source.ID,
			Version: r.Source.Version,
		},
		Description: r.Description,
		Lines:       toServiceDraftLines(r.Lines),
	}
}

// ToServiceDraftInput converts the resubmit request; book, period, and source
// stay with the existing draft.
func (r ResubmitDraftRequest) ToServiceDraftInput() services.DraftInput {
	return services.DraftInput{
		CurrencyID:  r.CurrencyID,
		TxnDate:     r.TxnDate,
		Description: r.Description,
		Lines:       toServiceDraftLines(r.Lines),
	}
}

func toServiceDraftLines(lines []DraftLineRequest) []services.DraftLineInput {
	out := make([]services.DraftLineInput, len(lines))
	for i, l := range lines {
		out[i] = services.DraftLineInput{
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
			Tag: domain.LineTag{
				Role:  domain.ParseLineRole(l.Role),
				LotID: l.LotID,
			},
		}
	}
	return out
}

// ToDraftResponse converts a domain.Draft to DraftResponse DTO.
func ToDraftResponse(d *domain.Draft) DraftResponse {
	return DraftResponse{
		DraftID:    d.DraftID,
		BookID:     d.BookID,
		PeriodID:   d.PeriodID,
		CurrencyID: d.CurrencyID,
		TxnDate:    d.TxnDate,
		Source: SourceRefDTO{
			Type:    string(d.Source.Type),
			ID:      d.Source.ID,
			Version: d.Source.Version,
		},
		Description: d.Description,
		Status:      string(d.Status),
		ApprovedBy:  d.ApprovedBy,
		PostedTxnID: d.PostedTxnID,
		CreatedAt:   d.CreatedAt,
		CreatedBy:   d.CreatedBy,
	}
}

// ToDraftLineResponses converts a slice of domain.DraftLine to DTOs.
func ToDraftLineResponses(lines []domain.DraftLine) []DraftLineResponse {
	out := make([]DraftLineResponse, len(lines))
	for i, l := range lines {
		out[i] = DraftLineResponse{
			LineID:    l.LineID,
			LineNo:    l.LineNo,
			AccountID: l.AccountID,
			Debit:     l.Debit,
			Credit:    l.Credit,
			Memo:      l.Memo,
			Role:      string(l.Tag.Role),
			LotID:     l.Tag.LotID,
		}
	}
	return out
}

// ToGetDraftResponse converts a draft snapshot to the combined response.
func ToGetDraftResponse(s *domain.DraftSnapshot) GetDraftResponse {
	return GetDraftResponse{
		Draft: ToDraftResponse(&s.Draft),
		Lines: ToDraftLineResponses(s.Lines),
	}
}

// ToListDraftsResponse converts a page of drafts to the list response.
func ToListDraftsResponse(drafts []domain.Draft, nextToken *string) ListDraftsResponse {
	out := make([]DraftResponse, len(drafts))
	for i := range drafts {
		out[i] = ToDraftResponse(&drafts[i])
	}
	return ListDraftsResponse{Drafts: out, NextToken: nextToken}
}

// ToDraftRevisionResponses converts revision log entries to DTOs.
func ToDraftRevisionResponses(revs []domain.DraftRevision) []DraftRevisionResponse {
	out := make([]DraftRevisionResponse, len(revs))
	for i, r := range revs {
		out[i] = DraftRevisionResponse{
			RevisionID: r.RevisionID,
			RevNo:      r.RevNo,
			Action:     string(r.Action),
			Reason:     r.Reason,
			ActorID:    r.ActorID,
			At:         r.At,
			Snapshot:   r.Snapshot,
		}
	}
	return out
}
