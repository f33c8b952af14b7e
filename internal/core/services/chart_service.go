package services

import (
	"context"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
)

// chartService exposes read access to books, periods and accounts.
// Chart administration happens out of band; this core only reads it.
type chartService struct {
	BaseService
	repos portsrepo.Repositories
}

// NewChartService creates a new chart read service.
func NewChartService(repos portsrepo.Repositories) portssvc.ChartSvcFacade {
	return &chartService{repos: repos}
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

func (s *chartService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.repos.Chart.FindBookByID(ctx, bookID)
}

func (s *chartService) ListPeriods(ctx context.Context, bookID string) ([]domain.AccountingPeriod, error) {
	if _, err := s.repos.Chart.FindBookByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repos.Chart.ListPeriodsByBook(ctx, bookID)
}

func (s *chartService) ListAccounts(ctx context.Context, bookID string) ([]domain.Account, error) {
	if _, err := s.repos.Chart.FindBookByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repos.Chart.ListAccountsByBook(ctx, bookID)
}
