package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// OrganizationHeader selects the organization a business account is acting for.
const OrganizationHeader = "x-organization-id"

// TenancyMiddleware resolves the request scope once and stores it for handlers. It must run
// after AuthMiddleware. Failures abort before any handler reads tenant data.
func TenancyMiddleware(tenancy portssvc.TenancySvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		scope, err := tenancy.ResolveScope(c.Request.Context(), userID, strings.TrimSpace(c.GetHeader(OrganizationHeader)))
		if err != nil {
			status := apperrors.HTTPStatus(err)
			msg := "Failed to resolve organization context"
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) && status < http.StatusInternalServerError {
				msg = appErr.Message
			}
			logger.Warn("Tenancy resolution failed", slog.String("error", err.Error()), slog.Int("status", status))
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		if scope.IsOrganization() {
			ctx := WithLogger(c.Request.Context(), logger.With(slog.String("organization_id", scope.OrganizationID)))
			c.Request = c.Request.WithContext(ctx)
		}
		SetScope(c, scope)
		c.Next()
	}
}
