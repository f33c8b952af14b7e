package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/dto"
	"github.com/finbooks-io/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// priceHandler handles HTTP requests for price observations.
type priceHandler struct {
	priceService portssvc.PriceSvcFacade
}

func newPriceHandler(priceService portssvc.PriceSvcFacade) *priceHandler {
	return &priceHandler{priceService: priceService}
}

func (h *priceHandler) savePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SavePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for savePrice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)

	price, err := h.priceService.SavePrice(c.Request.Context(), actorID, req.ToDomainPrice())
	if err != nil {
		respondError(c, logger, err, "Failed to save price")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPriceResponse(price))
}

func (h *priceHandler) listPrices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	bookID := c.Query("bookID")
	if bookID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bookID is required"})
		return
	}

	prices, err := h.priceService.ListPrices(c.Request.Context(), bookID, c.Query("commodityID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list prices")
		return
	}

	c.JSON(http.StatusOK, dto.ToPriceResponses(prices))
}

// registerPriceRoutes registers price feed routes
func registerPriceRoutes(group *gin.RouterGroup, priceService portssvc.PriceSvcFacade) {
	h := newPriceHandler(priceService)

	prices := group.Group("/prices")
	{
		prices.GET("", h.listPrices)
		prices.POST("", middleware.RequireActorID(), h.savePrice)
	}
}
