package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/ledger_bridge/internal/apperrors"
	"github.com/SscSPs/ledger_bridge/internal/core/services"
	"github.com/SscSPs/ledger_bridge/internal/dto"
)

// respondError maps service errors to HTTP responses.
// Order matters: a ledger 404 is both ErrNotFound and ErrGateway.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var validationErr *services.ValidationFailedError

	switch {
	case errors.Is(err, apperrors.ErrStructuralInput):
		logger.Warn("Invalid input", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &validationErr):
		logger.Warn("Validation failed", slog.Int("error_count", len(validationErr.Result.Errors)))
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationFailedResponse{
			Error:      "journal entry failed validation",
			Validation: validationErr.Result,
		})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrTerminalState):
		logger.Warn("Document is not a draft", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrGateway):
		logger.Error("Ledger call failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// respondBindError reports a malformed request body or query string.
func respondBindError(c *gin.Context, logger *slog.Logger, err error, what string) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}
