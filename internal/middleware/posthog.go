package middleware

import (
	"net/http"
	"strings"

	"github.com/SscSPs/finorn_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// pathsToSkip contains paths that should not be tracked by PostHog
var pathsToSkip = map[string]bool{
	"/health": true,
}

// PosthogMiddleware creates a Gin middleware handler that tracks API events with PostHog.
// Only authenticated, successful requests are tracked; public share-link traffic carries no user.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if posthogClient == nil || !posthogClient.IsInitialized() || pathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		userID, exists := GetUserIDFromContext(c)
		if !exists {
			return
		}

		// "/api/v1/invoices/:id/send" -> "api_v1_invoices_:id_send"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"status_code": c.Writer.Status(),
		}
		if scope, ok := GetScopeFromContext(c); ok {
			props["scope_kind"] = string(scope.Kind)
			if scope.IsOrganization() {
				props["$groups"] = map[string]any{"organization": scope.OrganizationID}
			}
		}

		posthogClient.Enqueue(userID, eventName, props)
	}
}
