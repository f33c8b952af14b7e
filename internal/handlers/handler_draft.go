package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portsrepo "github.com/finbooks-io/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/dto"
	"github.com/finbooks-io/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// draftHandler handles HTTP requests for the draft lifecycle.
type draftHandler struct {
	draftService portssvc.DraftSvcFacade
}

func newDraftHandler(draftService portssvc.DraftSvcFacade) *draftHandler {
	return &draftHandler{draftService: draftService}
}

func (h *draftHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, _ := middleware.GetActorIDFromContext(c)

	snapshot, err := h.draftService.CreateDraft(c.Request.Context(), actorID, req.ToServiceDraftInput())
	if err != nil {
		respondError(c, logger, err, "Failed to create draft")
		return
	}

	c.JSON(http.StatusCreated, dto.ToGetDraftResponse(snapshot))
}

func (h *draftHandler) getDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("draftID")

	snapshot, err := h.draftService.GetDraft(c.Request.Context(), draftID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve draft")
		return
	}

	c.JSON(http.StatusOK, dto.ToGetDraftResponse(snapshot))
}

func (h *draftHandler) listDrafts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	filter := portsrepo.DraftFilter{
		BookID:     c.Query("bookID"),
		PeriodID:   c.Query("periodID"),
		SourceType: domain.SourceType(c.Query("sourceType")),
	}
	for _, st := range c.QueryArray("status") {
		filter.Statuses = append(filter.Statuses, domain.DraftStatus(st))
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	var nextToken *string
	if token := c.Query("nextToken"); token != "" {
		nextToken = &token
	}

	drafts, newToken, err := h.draftService.ListDrafts(c.Request.Context(), filter, limit, nextToken)
	if err != nil {
		respondError(c, logger, err, "Failed to list drafts")
		return
	}

	c.JSON(http.StatusOK, dto.ToListDraftsResponse(drafts, newToken))
}

func (h *draftHandler) approveDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("draftID")
	actorID, _ := middleware.GetActorIDFromContext(c)

	draft, err := h.draftService.ApproveDraft(c.Request.Context(), actorID, draftID)
	if err != nil {
		respondError(c, logger, err, "Failed to approve draft")
		return
	}

	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

func (h *draftHandler) rejectDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("draftID")
	actorID, _ := middleware.GetActorIDFromContext(c)

	var req dto.RejectDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for rejectDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rejection reason is required"})
		return
	}

	draft, err := h.draftService.RejectDraft(c.Request.Context(), actorID, draftID, req.Reason)
	if err != nil {
		respondError(c, logger, err, "Failed to reject draft")
		return
	}

	c.JSON(http.StatusOK, dto.ToDraftResponse(draft))
}

func (h *draftHandler) resubmitDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("draftID")
	actorID, _ := middleware.GetActorIDFromContext(c)

	var req dto.ResubmitDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for resubmitDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	snapshot, err := h.draftService.ResubmitDraft(c.Request.Context(), actorID, draftID, req.ToServiceDraftInput())
	if err != nil {
		respondError(c, logger, err, "Failed to resubmit draft")
		return
	}

	c.JSON(http.StatusOK, dto.ToGetDraftResponse(snapshot))
}

func (h *draftHandler) listRevisions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	draftID := c.Param("draftID")

	revisions, err := h.draftService.ListRevisions(c.Request.Context(), draftID)
	if err != nil {
		respondError(c, logger, err, "Failed to list draft revisions")
		return
	}

	c.JSON(http.StatusOK, dto.ToDraftRevisionResponses(revisions))
}

// registerDraftRoutes registers draft lifecycle routes
func registerDraftRoutes(group *gin.RouterGroup, draftService portssvc.DraftSvcFacade) {
	h := newDraftHandler(draftService)

	drafts := group.Group("/drafts")
	{
		drafts.GET("", h.listDrafts)
		drafts.GET("/:draftID", h.getDraft)
		drafts.GET("/:draftID/revisions", h.listRevisions)

		mutating := drafts.Group("", middleware.RequireActorID())
		{
			mutating.POST("", h.createDraft)
			mutating.POST("/:draftID/approve", h.approveDraft)
			mutating.POST("/:draftID/reject", h.rejectDraft)
			mutating.POST("/:draftID/resubmit", h.resubmitDraft)
		}
	}
}
