package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/service"
)

type NotificationHandler struct {
	app *service.App
}

func NewNotificationHandler(app *service.App) *NotificationHandler {
	return &NotificationHandler{app: app}
}

// GetAll lists the current user's notifications, newest first
func (h *NotificationHandler) GetAll(c *gin.Context) {
	user, ok := h.app.CurrentUser()
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, h.app.ListForUser(user.ID))
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user, ok := h.app.CurrentUser()
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": h.app.UnreadCount(user.ID)})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if !h.app.MarkRead(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"marked": h.app.MarkAllRead(c.Request.Context())})
}
