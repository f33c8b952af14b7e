package dto

import (
	"time"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SavePriceRequest defines the payload for recording a price observation.
type SavePriceRequest struct {
	BookID      string          `json:"bookID" binding:"required"`
	CommodityID string          `json:"commodityID" binding:"required"`
	CurrencyID  string          `json:"currencyID" binding:"required"`
	PriceDate   time.Time       `json:"priceDate" binding:"required"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value" binding:"required"`
}

// PriceResponse defines the data returned for a price row.
type PriceResponse struct {
	PriceID     string          `json:"priceID"`
	BookID      string          `json:"bookID"`
	CommodityID string          `json:"commodityID"`
	CurrencyID  string          `json:"currencyID"`
	PriceDate   time.Time       `json:"priceDate"`
	Source      string          `json:"source"`
	Type        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
}

// ToDomainPrice converts the request to a domain.Price (ID assigned later).
func (r SavePriceRequest) ToDomainPrice() domain.Price {
	return domain.Price{
		BookID:      r.BookID,
		CommodityID: r.CommodityID,
		CurrencyID:  r.CurrencyID,
		PriceDate:   r.PriceDate,
		Source:      r.Source,
		Type:        r.Type,
		Value:       r.Value,
	}
}

// ToPriceResponse converts a domain.Price to its DTO.
func ToPriceResponse(p *domain.Price) PriceResponse {
	return PriceResponse{
		PriceID:     p.PriceID,
		BookID:      p.BookID,
		CommodityID: p.CommodityID,
		CurrencyID:  p.CurrencyID,
		PriceDate:   p.PriceDate,
		Source:      p.Source,
		Type:        p.Type,
		Value:       p.Value,
	}
}

// ToPriceResponses converts a slice of domain.Price to DTOs.
func ToPriceResponses(prices []domain.Price) []PriceResponse {
	out := make([]PriceResponse, len(prices))
	for i := range prices {
		out[i] = ToPriceResponse(&prices[i])
	}
	return out
}
