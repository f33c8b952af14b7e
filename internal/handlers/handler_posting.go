package handlers

import (
	"net/http"

	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/dto"
	"github.com/finbooks-io/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler handles HTTP requests for precheck and posting.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newPostingHandler(postingService portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{postingService: postingService}
}

func (h *postingHandler) precheckDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("draftID")

	result, err := h.postingService.PrecheckDraft(c.Request.Context(), draftID)
	if err != nil {
		respondError(c, logger, err, "Failed to precheck draft")
		return
	}

	c.JSON(http.StatusOK, dto.ToPrecheckResponse(result))
}

func (h *postingHandler) postDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("draftID")
	actorID, _ := middleware.GetActorIDFromContext(c)

	result, err := h.postingService.PostDraft(c.Request.Context(), actorID, draftID)
	if err != nil {
		respondError(c, logger, err, "Failed to post draft")
		return
	}

	c.JSON(http.StatusOK, dto.ToPostResponse(result))
}

// registerPostingRoutes registers precheck and post routes
func registerPostingRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	drafts := group.Group("/drafts")
	{
		drafts.GET("/:draftID/precheck", h.precheckDraft)
		drafts.POST("/:draftID/post", middleware.RequireActorID(), h.postDraft)
	}
}
