package handlers

import (
	"net/http"
	"strconv"

	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/dto"
	"github.com/finbooks-io/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// auditHandler handles HTTP requests for the audit log.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(auditService portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: auditService}
}

func (h *auditHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.auditService.ListEntries(c.Request.Context(), limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list audit entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditEntryResponses(entries))
}

func (h *auditHandler) verifyChain(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	valid, detail, err := h.auditService.VerifyChain(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to verify audit chain")
		return
	}

	c.JSON(http.StatusOK, dto.VerifyChainResponse{Valid: valid, Detail: detail})
}

// registerAuditRoutes registers audit log routes
func registerAuditRoutes(group *gin.RouterGroup, auditService portssvc.AuditSvcFacade) {
	h := newAuditHandler(auditService)

	audit := group.Group("/audit")
	{
		audit.GET("/entries", h.listEntries)
		audit.GET("/verify", h.verifyChain)
	}
}
