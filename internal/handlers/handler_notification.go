package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/finorn_backend/internal/core/ports/services"
	"github.com/SscSPs/finorn_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

func registerNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade) {
	h := &notificationHandler{notificationService: notificationService}

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.POST("/:id/read", h.markRead)
	}
}

// listNotifications godoc
// @Summary List in-app notifications
// @Tags notifications
// @Produce  json
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   unread query bool false "Only unread notifications"
// @Param   limit query int false "Maximum results" default(50)
// @Success 200 {object} dto.ListNotificationsResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	var params dto.ListNotificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err)
		return
	}

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), scope, params)
	if err != nil {
		respondError(c, logger, err, "list notifications")
		return
	}
	c.JSON(http.StatusOK, dto.ToListNotificationsResponse(notifications))
}

// markRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Param   x-organization-id header string false "Organization ID (business accounts)"
// @Param   id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	scope, logger, ok := requestScope(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), scope, c.Param("id")); err != nil {
		respondError(c, logger, err, "mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}
