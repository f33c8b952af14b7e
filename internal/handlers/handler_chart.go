package handlers

import (
	"net/http"

	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/dto"
	"github.com/finbooks-io/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// chartHandler handles HTTP requests for chart and period reads.
type chartHandler struct {
	chartService portssvc.ChartSvcFacade
}

func newChartHandler(chartService portssvc.ChartSvcFacade) *chartHandler {
	return &chartHandler{chartService: chartService}
}

func (h *chartHandler) getBook(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	book, err := h.chartService.GetBook(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve book")
		return
	}

	c.JSON(http.StatusOK, dto.ToBookResponse(book))
}

func (h *chartHandler) listPeriods(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	periods, err := h.chartService.ListPeriods(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, logger, err, "Failed to list periods")
		return
	}

	c.JSON(http.StatusOK, dto.ToPeriodResponses(periods))
}

func (h *chartHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	bookID := c.Param("bookID")

	accounts, err := h.chartService.ListAccounts(c.Request.Context(), bookID)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// registerChartRoutes registers book, period and account read routes
func registerChartRoutes(group *gin.RouterGroup, chartService portssvc.ChartSvcFacade) {
	h := newChartHandler(chartService)

	books := group.Group("/books")
	{
		books.GET("/:bookID", h.getBook)
		books.GET("/:bookID/periods", h.listPeriods)
		books.GET("/:bookID/accounts", h.listAccounts)
	}
}
