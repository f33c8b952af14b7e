package dto

import (
	"time"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GenerateStatementsRequest defines the parameters of a statement run.
type GenerateStatementsRequest struct {
	BookID    string `json:"bookID" binding:"required"`
	PeriodID  string `json:"periodID" binding:"required"`
	BasisCode string `json:"basisCode" binding:"required"`
}

// StatementLineResponse is one row of a generated statement.
type StatementLineResponse struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// GenerationChecksResponse carries the balance identity diagnostic.
type GenerationChecksResponse struct {
	BalanceOK       bool            `json:"balanceOK"`
	AssetsTotal     decimal.Decimal `json:"assetsTotal"`
	LiabEquityTotal decimal.Decimal `json:"liabEquityTotal"`
	Tolerance       decimal.Decimal `json:"tolerance"`
}

// ReportSnapshotResponse is a stored statement run.
type ReportSnapshotResponse struct {
	SnapshotID  string                             `json:"snapshotID"`
	BookID      string                             `json:"bookID"`
	PeriodID    string                             `json:"periodID"`
	BasisCode   string                             `json:"basisCode"`
	ParamsHash  string                             `json:"paramsHash"`
	IsStale     bool                               `json:"isStale"`
	Statements  map[string][]StatementLineResponse `json:"statements"`
	Checks      GenerationChecksResponse           `json:"checks"`
	GeneratedBy string                             `json:"generatedBy"`
	GeneratedAt time.Time                          `json:"generatedAt"`
}

func toStatementLineResponses(lines []domain.StatementLine) []StatementLineResponse {
	out := make([]StatementLineResponse, len(lines))
	for i, l := range lines {
		out[i] = StatementLineResponse{Code: l.Code, Name: l.Name, Amount: l.Amount}
	}
	return out
}

// ToReportSnapshotResponse converts a domain.ReportSnapshot to its DTO.
func ToReportSnapshotResponse(s *domain.ReportSnapshot) ReportSnapshotResponse {
	return ReportSnapshotResponse{
		SnapshotID: s.SnapshotID,
		BookID:     s.BookID,
		PeriodID:   s.PeriodID,
		BasisCode:  s.Result.Params.BasisCode,
		ParamsHash: s.ParamsHash,
		IsStale:    s.IsStale,
		Statements: map[string][]StatementLineResponse{
			string(domain.BalanceSheet): toStatementLineResponses(s.Result.Statements.BS),
			string(domain.IncomeStmt):   toStatementLineResponses(s.Result.Statements.IS),
			string(domain.CashFlow):     toStatementLineResponses(s.Result.Statements.CF),
		},
		Checks: GenerationChecksResponse{
			BalanceOK:       s.Result.Checks.BalanceOK,
			AssetsTotal:     s.Result.Checks.AssetsTotal,
			LiabEquityTotal: s.Result.Checks.LiabEquityTotal,
			Tolerance:       s.Result.Checks.Tolerance,
		},
		GeneratedBy: s.GeneratedBy,
		GeneratedAt: s.GeneratedAt,
	}
}
