package dto

import (
	"time"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
)

// BookResponse defines the data returned for a book.
type BookResponse struct {
	BookID         string    `json:"bookID"`
	Name           string    `json:"name"`
	BaseCurrencyID string    `json:"baseCurrencyID"`
	CreatedAt      time.Time `json:"createdAt"`
}

// PeriodResponse defines the data returned for an accounting period.
type PeriodResponse struct {
	PeriodID string `json:"periodID"`
	BookID   string `json:"bookID"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
	Status   string `json:"status"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string `json:"accountID"`
	BookID        string `json:"bookID"`
	ParentID      string `json:"parentID,omitempty"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	AccountType   string `json:"accountType"`
	CommodityID   string `json:"commodityID"`
	AllowPost     bool   `json:"allowPost"`
	IsActive      bool   `json:"isActive"`
	IsHidden      bool   `json:"isHidden"`
	IsPlaceholder bool   `json:"isPlaceholder"`
}

// ToBookResponse converts a domain.Book to its DTO.
func ToBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		BookID:         b.BookID,
		Name:           b.Name,
		BaseCurrencyID: b.BaseCurrencyID,
		CreatedAt:      b.CreatedAt,
	}
}

// ToPeriodResponses converts a slice of domain.AccountingPeriod to DTOs.
func ToPeriodResponses(periods []domain.AccountingPeriod) []PeriodResponse {
	out := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		out[i] = PeriodResponse{
			PeriodID: p.PeriodID,
			BookID:   p.BookID,
			Year:     p.Year,
			Month:    p.Month,
			Status:   string(p.Status),
		}
	}
	return out
}

// ToAccountResponses converts a slice of domain.Account to DTOs.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = AccountResponse{
			AccountID:     a.AccountID,
			BookID:        a.BookID,
			ParentID:      a.ParentID,
			Code:          a.Code,
			Name:          a.Name,
			Description:   a.Description,
			AccountType:   string(a.AccountType),
			CommodityID:   a.CommodityID,
			AllowPost:     a.AllowPost,
			IsActive:      a.IsActive,
			IsHidden:      a.IsHidden,
			IsPlaceholder: a.IsPlaceholder,
		}
	}
	return out
}
