package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/SscSPs/finorn_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError writes the {error, details?} body for err. Internal failures are logged and
// reported as "Failed to <action>" so database messages never reach the caller.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	status := apperrors.HTTPStatus(err)
	body := dto.ErrorResponse{Error: "Failed to " + action}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if status != http.StatusInternalServerError {
			body.Error = appErr.Message
		}
		body.Details = appErr.Details
	} else if status != http.StatusInternalServerError {
		body.Error = err.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()), slog.Int("status", status))
	} else {
		logger.Warn("Request rejected", slog.String("action", action), slog.String("error", err.Error()), slog.Int("status", status))
	}
	c.JSON(status, body)
}

// badRequest reports a binding failure.
func badRequest(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
}

// requestScope returns the scope resolved by TenancyMiddleware.
func requestScope(c *gin.Context) (domain.Scope, *slog.Logger, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	scope, ok := middleware.GetScopeFromContext(c)
	if !ok {
		logger.Error("Scope not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return domain.Scope{}, logger, false
	}
	return scope, logger, true
}

// requestUser returns the authenticated user for routes that are not tenant scoped.
func requestUser(c *gin.Context) (string, *slog.Logger, bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return "", logger, false
	}
	return userID, logger, true
}
