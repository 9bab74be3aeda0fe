package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RecentActivity(c *gin.Context) {
	activities, err := h.Activities.Recent(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

func (h *Handler) UserActivity(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	activities, err := h.Activities.ForUser(c.Request.Context(), u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

func (h *Handler) TaskActivity(c *gin.Context) {
	taskID, ok := paramID(c, "taskId")
	if !ok {
		return
	}
	activities, err := h.Activities.ForTask(c.Request.Context(), taskID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

func (h *Handler) UnreadNotifications(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	activities, err := h.Notifications.Unread(c.Request.Context(), u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activities)
}

func (h *Handler) NotificationCount(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.Notifications.Count(c.Request.Context(), u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (h *Handler) MarkNotificationRead(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "activityId")
	if !ok {
		return
	}
	if _, err := h.Notifications.MarkRead(c.Request.Context(), id, u.ID); err != nil {
		h.respondError(c, err)
		return
	}
	message(c, "Notificación marcada como leída")
}

func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.Notifications.MarkAllRead(c.Request.Context(), u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notificaciones marcadas como leídas", "updated": n})
}
