package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/finorn_backend/internal/apperrors"
	"github.com/SscSPs/finorn_backend/internal/core/domain"
	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Notifier portssvc.Notifier
	Tracker  portssvc.EventTracker
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogWarn logs a swallowed side-effect failure
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Notify creates a notification without affecting the caller. Failures are logged.
func (s *BaseService) Notify(ctx context.Context, params portssvc.NotifyParams) {
	if s.Notifier == nil {
		return
	}
	if _, err := s.Notifier.Notify(ctx, params); err != nil {
		s.LogWarn(ctx, err, "Failed to create notification",
			slog.String("type", string(params.Type)),
			slog.String("user_id", params.UserID))
	}
}

// Track records a product analytics event for the acting user.
func (s *BaseService) Track(scope domain.Scope, event string, props map[string]any) {
	if s.Tracker == nil {
		return
	}
	if props == nil {
		props = map[string]any{}
	}
	props["scope_kind"] = string(scope.Kind)
	if scope.IsOrganization() {
		props["organization_id"] = scope.OrganizationID
	}
	s.Tracker.Enqueue(scope.UserID, event, props)
}

// AuthorizeRole checks that the caller holds at least role in an organization scope.
// Individual scopes own all their data and always pass.
func (s *BaseService) AuthorizeRole(ctx context.Context, scope domain.Scope, role domain.OrganizationRole, action string) error {
	if !scope.IsOrganization() || scope.Role.Satisfies(role) {
		return nil
	}
	s.LogDebug(ctx, "User does not have required role",
		slog.String("user_role", string(scope.Role)),
		slog.String("required_role", string(role)),
		slog.String("action", action))
	return apperrors.NewForbiddenError("Only organization " + roleLabel(role) + " can " + action)
}

func roleLabel(role domain.OrganizationRole) string {
	switch role {
	case domain.RoleOwner:
		return "owners"
	case domain.RoleAdmin:
		return "owners and admins"
	default:
		return "members"
	}
}

// scopeNotification addresses a notification to the acting user in scope.
func scopeNotification(scope domain.Scope, t domain.NotificationType, data map[string]any, channels ...domain.NotificationChannel) portssvc.NotifyParams {
	if len(channels) == 0 {
		channels = []domain.NotificationChannel{domain.ChannelInApp}
	}
	return portssvc.NotifyParams{
		UserID:         scope.UserID,
		OrganizationID: scope.OrganizationIDPtr(),
		Type:           t,
		Data:           data,
		Channels:       channels,
	}
}

// ownerScope rebuilds the scope a stored document belongs to.
func ownerScope(userID string, organizationID *string) domain.Scope {
	if organizationID != nil {
		return domain.OrganizationScope(userID, *organizationID, "")
	}
	return domain.IndividualScope(userID)
}
