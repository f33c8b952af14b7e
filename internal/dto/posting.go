package dto

import (
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
)

// PrecheckItemResponse reports one precheck rule outcome.
type PrecheckItemResponse struct {
	Code    string         `json:"code"`
	Passed  bool           `json:"passed"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// PrecheckResponse is the full dry-run report for a draft.
type PrecheckResponse struct {
	OK     bool                   `json:"ok"`
	Checks []PrecheckItemResponse `json:"checks"`
}

// PostResponse identifies the posted transaction.
type PostResponse struct {
	TxnID      string `json:"txnID"`
	VoucherNum string `json:"voucherNum"`
}

// ToPrecheckResponse converts a domain.PrecheckResult to its DTO.
func ToPrecheckResponse(r *domain.PrecheckResult) PrecheckResponse {
	checks := make([]PrecheckItemResponse, len(r.Checks))
	for i, c := range r.Checks {
		checks[i] = PrecheckItemResponse{
			Code:    string(c.Code),
			Passed:  c.Passed,
			Message: c.Message,
			Details: c.Details,
		}
	}
	return PrecheckResponse{OK: r.OK, Checks: checks}
}

// ToPostResponse converts a domain.PostResult to its DTO.
func ToPostResponse(r *domain.PostResult) PostResponse {
	return PostResponse{TxnID: r.TxnID, VoucherNum: r.VoucherNum}
}
