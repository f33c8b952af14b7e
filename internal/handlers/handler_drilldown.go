package handlers

import (
	"net/http"

	"github.com/finbooks-io/ledger_backend/internal/core/domain"
	portssvc "github.com/finbooks-io/ledger_backend/internal/core/ports/services"
	"github.com/finbooks-io/ledger_backend/internal/dto"
	"github.com/finbooks-io/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// drilldownHandler handles HTTP requests for report drilldown.
type drilldownHandler struct {
	drilldownService portssvc.DrilldownSvcFacade
}

func newDrilldownHandler(drilldownService portssvc.DrilldownSvcFacade) *drilldownHandler {
	return &drilldownHandler{drilldownService: drilldownService}
}

func parseStatementType(raw string) (domain.StatementType, bool) {
	switch domain.StatementType(raw) {
	case domain.BalanceSheet, domain.IncomeStmt, domain.CashFlow:
		return domain.StatementType(raw), true
	}
	return "", false
}

func (h *drilldownHandler) itemAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	snapshotID := c.Param("snapshotID")
	itemCode := c.Param("itemCode")

	statementType, ok := parseStatementType(c.Param("statementType"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "statementType must be one of BS, IS, CF"})
		return
	}

	rows, err := h.drilldownService.ItemAccounts(c.Request.Context(), snapshotID, statementType, itemCode)
	if err != nil {
		respondError(c, logger, err, "Failed to drill into statement item")
		return
	}

	c.JSON(http.StatusOK, dto.ToItemAccountsResponse(rows))
}

func (h *drilldownHandler) accountRegister(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	snapshotID := c.Param("snapshotID")
	accountID := c.Param("accountID")

	statementType, ok := parseStatementType(c.DefaultQuery("statementType", string(domain.BalanceSheet)))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "statementType must be one of BS, IS, CF"})
		return
	}
	itemCode := c.Query("itemCode")
	if itemCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemCode is required"})
		return
	}
	includeChildren := c.Query("includeChildren") == "true"

	entries, err := h.drilldownService.AccountRegister(c.Request.Context(), snapshotID, statementType, itemCode, accountID, includeChildren)
	if err != nil {
		respondError(c, logger, err, "Failed to list account register")
		return
	}

	c.JSON(http.StatusOK, dto.ToRegisterResponse(entries))
}

func (h *drilldownHandler) transactionDetail(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	txnID := c.Param("txnID")

	detail, err := h.drilldownService.TransactionDetail(c.Request.Context(), txnID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionDetailResponse(detail))
}

// registerDrilldownRoutes registers the statement -> account -> transaction walk
func registerDrilldownRoutes(group *gin.RouterGroup, drilldownService portssvc.DrilldownSvcFacade) {
	h := newDrilldownHandler(drilldownService)

	snapshots := group.Group("/reports/snapshots/:snapshotID")
	{
		snapshots.GET("/items/:statementType/:itemCode/accounts", h.itemAccounts)
		snapshots.GET("/accounts/:accountID/register", h.accountRegister)
	}

	group.GET("/transactions/:txnID", h.transactionDetail)
}
