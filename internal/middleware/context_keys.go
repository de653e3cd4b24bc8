package middleware

import (
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey is the key used to store the authenticated user's ID in the request context.
// Using a custom type prevents collisions.
const userIDKey = contextKey("userID")

// scopeKey stores the resolved tenancy scope in the Gin context.
const scopeKey = contextKey("scope")

// GetUserIDFromContext retrieves the authenticated user ID.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetScopeFromContext returns the scope set by TenancyMiddleware.
func GetScopeFromContext(c *gin.Context) (domain.Scope, bool) {
	v, exists := c.Get(string(scopeKey))
	if !exists {
		return domain.Scope{}, false
	}
	scope, ok := v.(domain.Scope)
	return scope, ok
}

// SetScope stores scope for downstream handlers.
func SetScope(c *gin.Context, scope domain.Scope) {
	c.Set(string(scopeKey), scope)
}
