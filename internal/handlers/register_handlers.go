package handlers

import (
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/middleware"
	"github.com/finbooks-io/ledger_backend/pkg/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerValidations()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.ActorMiddleware())

	registerChartRoutes(v1, services.Chart)
	registerDraftRoutes(v1, services.Draft)
	registerPostingRoutes(v1, services.Posting)
	registerReportRoutes(v1, services.Report)
	registerDrilldownRoutes(v1, services.Drilldown)
	registerPriceRoutes(v1, services.Price)
	registerAuditRoutes(v1, services.Audit)
}
