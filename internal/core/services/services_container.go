package services

import (
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(txm portsrepo.TxManager, repos portsrepo.Repositories) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Chart:     NewChartService(repos),
		Draft:     NewDraftService(txm, repos),
		Posting:   NewPostingService(txm, repos),
		Report:    NewReportService(repos),
		Drilldown: NewDrilldownService(repos),
		Price:     NewPriceService(repos),
		Audit:     NewAuditService(repos),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.DraftSvcFacade     = (*draftService)(nil)
	_ portssvc.PostingSvcFacade   = (*postingService)(nil)
	_ portssvc.ReportSvcFacade    = (*reportService)(nil)
	_ portssvc.DrilldownSvcFacade = (*drilldownService)(nil)
)
