package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finbooks-io/ledger_backend/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. Validation and
// state errors surface their message; anything unexpected stays a bare 500.
func respondError(c *gin.Context, logger *slog.Logger, err error, context string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(context, slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(context, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrMappingConflict):
		logger.Warn(context, slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrMissingPrice):
		logger.Warn(context, slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		logger.Error(context, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": context})
	}
}
