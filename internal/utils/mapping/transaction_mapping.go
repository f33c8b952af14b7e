package mapping

import (
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/finbooks-io/ledger_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TxnID:          d.TxnID,
		BookID:         d.BookID,
		PeriodID:       d.PeriodID,
		TxnDate:        d.TxnDate,
		EnterDate:      d.EnterDate,
		CurrencyID:     d.CurrencyID,
		VoucherNum:     d.VoucherNum,
		Description:    strOrNil(d.Description),
		SourceType:     string(d.Source.Type),
		SourceID:       d.Source.ID,
		SourceVersion:  d.Source.Version,
		IdempotencyKey: d.IdempotencyKey,
		PostedBy:       d.PostedBy,
		PostedAt:       d.PostedAt,
		Status:         string(d.Status),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TxnID:      m.TxnID,
		BookID:     m.BookID,
		PeriodID:   m.PeriodID,
		TxnDate:    m.TxnDate,
		EnterDate:  m.EnterDate,
		CurrencyID: m.CurrencyID,
		VoucherNum: m.VoucherNum,
		Description: derefStr(m.Description),
		Source: domain.SourceRef{
			Type:    domain.SourceType(m.SourceType),
			ID:      m.SourceID,
			Version: m.SourceVersion,
		},
		IdempotencyKey: m.IdempotencyKey,
		PostedBy:       m.PostedBy,
		PostedAt:       m.PostedAt,
		Status:         domain.TransactionStatus(m.Status),
	}
}

// ToModelSplit converts a domain Split to a model Split
func ToModelSplit(d domain.Split) models.Split {
	return models.Split{
		SplitID:        d.SplitID,
		TxnID:          d.TxnID,
		LineNo:         d.LineNo,
		AccountID:      d.AccountID,
		Amount:         d.Amount,
		Value:          d.Value,
		Memo:           strOrNil(d.Memo),
		Action:         strOrNil(d.Action),
		ReconcileState: string(d.ReconcileState),
		LotID:          strOrNil(d.LotID),
	}
}

// ToDomainSplit converts a model Split to a domain Split
func ToDomainSplit(m models.Split) domain.Split {
	return domain.Split{
		SplitID:        m.SplitID,
		TxnID:          m.TxnID,
		LineNo:         m.LineNo,
		AccountID:      m.AccountID,
		Amount:         m.Amount,
		Value:          m.Value,
		Memo:           derefStr(m.Memo),
		Action:         derefStr(m.Action),
		ReconcileState: domain.ReconcileState(m.ReconcileState),
		LotID:          derefStr(m.LotID),
	}
}

// ToDomainSplitSlice converts model splits to domain splits
func ToDomainSplitSlice(ms []models.Split) []domain.Split {
	out := make([]domain.Split, len(ms))
	for i, m := range ms {
		out[i] = ToDomainSplit(m)
	}
	return out
}
