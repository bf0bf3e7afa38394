package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/socio-africa/backend/internal/util"
)

// GetNotifications returns the caller's notifications, newest first
// GET /api/v1/notifications
func (h *Handlers) GetNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	page := util.Page(c)

	list, err := h.notifications.ListForUser(c.Request.Context(), userID, defaultPageSize, util.PageOffset(page, defaultPageSize))
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	out := make([]gin.H, 0, len(list))
	for i := range list {
		n := &list[i]
		out = append(out, gin.H{
			"id":         n.ID,
			"content":    n.Content,
			"url":        n.URL,
			"read":       n.Read,
			"ref":        n.Ref,
			"initiator":  n.Initiator.Public(),
			"created_at": n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"notifications": out, "page": page})
}

// GetUnreadCount returns how many unread notifications the caller has
// GET /api/v1/notifications/unread-count
func (h *Handlers) GetUnreadCount(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationRead marks one of the caller's notifications as read
// PATCH /api/v1/notifications/:id/read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		util.HandleDBError(c, err, "Notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"read": true})
}

// MarkAllNotificationsRead marks everything read for the caller
// PATCH /api/v1/notifications/read-all
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), userID); err != nil {
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"read": true})
}

// DeleteNotification removes one of the caller's notifications
// DELETE /api/v1/notifications/:id
func (h *Handlers) DeleteNotification(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.notifications.DeleteNotification(c.Request.Context(), userID, c.Param("id")); err != nil {
		util.HandleDBError(c, err, "Notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
