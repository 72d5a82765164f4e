package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/smb_suite/internal/core/ports/services"
	"github.com/SscSPs/smb_suite/internal/dto"
	"github.com/SscSPs/smb_suite/internal/middleware"
	"github.com/gin-gonic/gin"
)

type notificationHandler struct {
	notifications portssvc.NotificationSvc
}

// registerNotificationRoutes registers routes for the caller's notifications.
func registerNotificationRoutes(rg *gin.RouterGroup, notifications portssvc.NotificationSvc) {
	h := &notificationHandler{notifications: notifications}

	n := rg.Group("/notifications")
	{
		n.GET("", h.listNotifications)
		n.POST("/:id/read", h.markRead)
	}
}

// listNotifications godoc
// @Summary List the caller's notifications
// @Description Newest first, at most 50
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} domain.Notification
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var query dto.ListNotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query for ListNotifications", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query: " + err.Error()})
		return
	}
	userID, _ := middleware.GetUserIDFromContext(c)

	list, err := h.notifications.ListNotifications(c.Request.Context(), userID, query.UnreadOnly)
	if err != nil {
		respondError(c, logger, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, list)
}

// markRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Failure 404 {object} map[string]string "Notification not found"
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, _ := middleware.GetUserIDFromContext(c)

	if err := h.notifications.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, logger, err, "Failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}
