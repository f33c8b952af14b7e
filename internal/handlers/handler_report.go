package handlers

import (
	"log/slog"
	"net/http"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/dto"
	"github.com/finbooks-io/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportHandler handles HTTP requests for statement generation.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

func newReportHandler(reportService portssvc.ReportSvcFacade) *reportHandler {
	return &reportHandler{reportService: reportService}
}

func (h *reportHandler) generateStatements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GenerateStatementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for generateStatements", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)
	params := domain.ReportParams{
		BookID:    req.BookID,
		PeriodID:  req.PeriodID,
		BasisCode: req.BasisCode,
	}

	snapshot, err := h.reportService.GenerateStatements(c.Request.Context(), actorID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to generate statements")
		return
	}

	c.JSON(http.StatusOK, dto.ToReportSnapshotResponse(snapshot))
}

func (h *reportHandler) getSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	snapshotID := c.Param("snapshotID")

	snapshot, err := h.reportService.GetSnapshot(c.Request.Context(), snapshotID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve snapshot")
		return
	}

	c.JSON(http.StatusOK, dto.ToReportSnapshotResponse(snapshot))
}

// registerReportRoutes registers statement generation routes
func registerReportRoutes(group *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := newReportHandler(reportService)

	reports := group.Group("/reports")
	{
		reports.POST("/generate", middleware.RequireActorID(), h.generateStatements)
		reports.GET("/snapshots/:snapshotID", h.getSnapshot)
	}
}
