package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/google/uuid"
)

// priceService records and lists price observations consumed by the
// posting engine's currency conversion.
type priceService struct {
	BaseService
	repos portsrepo.Repositories
}

// NewPriceService creates a new price feed service.
func NewPriceService(repos portsrepo.Repositories) portssvc.PriceSvcFacade {
	return &priceService{repos: repos}
}

var _ portssvc.PriceSvcFacade = (*priceService)(nil)

// SavePrice validates and stores one observation. Repeated observations
// for the same pair and date are allowed; conversion picks the newest.
func (s *priceService) SavePrice(ctx context.Context, actorID string, price domain.Price) (*domain.Price, error) {
	if !price.Value.IsPositive() {
		return nil, fmt.Errorf("%w: price value must be positive", apperrors.ErrValidation)
	}
	if price.CommodityID == price.CurrencyID {
		return nil, fmt.Errorf("%w: commodity and currency must differ", apperrors.ErrValidation)
	}

	if _, err := s.repos.Chart.FindBookByID(ctx, price.BookID); err != nil {
		return nil, err
	}
	commodities, err := s.repos.Chart.FindCommoditiesByIDs(ctx, []string{price.CommodityID, price.CurrencyID})
	if err != nil {
		return nil, err
	}
	if _, ok := commodities[price.CommodityID]; !ok {
		return nil, fmt.Errorf("%w: commodity %s not found", apperrors.ErrValidation, price.CommodityID)
	}
	currency, ok := commodities[price.CurrencyID]
	if !ok {
		return nil, fmt.Errorf("%w: currency %s not found", apperrors.ErrValidation, price.CurrencyID)
	}
	if currency.Type != domain.CommodityCurrency {
		return nil, fmt.Errorf("%w: %s is not a currency", apperrors.ErrValidation, price.CurrencyID)
	}

	price.PriceID = uuid.NewString()
	if price.Source == "" {
		price.Source = "USER"
	}
	if price.Type == "" {
		price.Type = "LAST"
	}

	if err := s.repos.Price.SavePrice(ctx, price); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "price saved",
		slog.String("price_id", price.PriceID),
		slog.String("commodity_id", price.CommodityID),
		slog.String("currency_id", price.CurrencyID),
		slog.String("actor_id", actorID))
	return &price, nil
}

// ListPrices returns observations for a book, optionally one commodity.
func (s *priceService) ListPrices(ctx context.Context, bookID, commodityID string) ([]domain.Price, error) {
	if _, err := s.repos.Chart.FindBookByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repos.Price.ListPrices(ctx, bookID, commodityID)
}
