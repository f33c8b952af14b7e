package mapping

import (
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/finbooks-io/ledger_backend/internal/models"
)

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// ToModelDraft converts a domain Draft to a model Draft
func ToModelDraft(d domain.Draft) models.Draft {
	return models.Draft{
		DraftID:       d.DraftID,
		BookID:        d.BookID,
		PeriodID:      d.PeriodID,
		CurrencyID:    strOrNil(d.CurrencyID),
		TxnDate:       d.TxnDate,
		SourceType:    string(d.Source.Type),
		SourceID:      d.Source.ID,
		SourceVersion: d.Source.Version,
		Description:   strOrNil(d.Description),
		Status:        string(d.Status),
		ApprovedBy:    strOrNil(d.ApprovedBy),
		PostedTxnID:   d.PostedTxnID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDraft converts a model Draft to a domain Draft
func ToDomainDraft(m models.Draft) domain.Draft {
	return domain.Draft{
		DraftID:    m.DraftID,
		BookID:     m.BookID,
		PeriodID:   m.PeriodID,
		CurrencyID: derefStr(m.CurrencyID),
		TxnDate:    m.TxnDate,
		Source: domain.SourceRef{
			Type:    domain.SourceType(m.SourceType),
			ID:      m.SourceID,
			Version: m.SourceVersion,
		},
		Description: derefStr(m.Description),
		Status:      domain.DraftStatus(m.Status),
		ApprovedBy:  derefStr(m.ApprovedBy),
		PostedTxnID: m.PostedTxnID,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelDraftLine converts a domain DraftLine to a model DraftLine
func ToModelDraftLine(d domain.DraftLine) models.DraftLine {
	return models.DraftLine{
		LineID:    d.LineID,
		DraftID:   d.DraftID,
		LineNo:    d.LineNo,
		AccountID: d.AccountID,
		Debit:     d.Debit,
		Credit:    d.Credit,
		Memo:      strOrNil(d.Memo),
		Role:      string(d.Tag.Role),
		LotID:     strOrNil(d.Tag.LotID),
	}
}

// ToDomainDraftLine converts a model DraftLine to a domain DraftLine
func ToDomainDraftLine(m models.DraftLine) domain.DraftLine {
	return domain.DraftLine{
		LineID:    m.LineID,
		DraftID:   m.DraftID,
		LineNo:    m.LineNo,
		AccountID: m.AccountID,
		Debit:     m.Debit,
		Credit:    m.Credit,
		Memo:      derefStr(m.Memo),
		Tag: domain.LineTag{
			Role:  domain.ParseLineRole(m.Role),
			LotID: derefStr(m.LotID),
		},
	}
}

// ToDomainDraftLineSlice converts model draft lines to domain draft lines
func ToDomainDraftLineSlice(ms []models.DraftLine) []domain.DraftLine {
	out := make([]domain.DraftLine, len(ms))
	for i, m := range ms {
		out[i] = ToDomainDraftLine(m)
	}
	return out
}
