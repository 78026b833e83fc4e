package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/climaticrisks/climatic-risks/internal/models"
)

// listNotifications
// @Summary List the caller's notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} NotificationResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /notifications [get]
func (h *Handler) listNotifications(c *gin.Context) {
	log := h.logger.WithField("method", "listNotifications")

	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	var (
		notifications []*models.Notification
		err           error
	)
	if c.Query("unread") == "true" {
		notifications, err = h.notificationService.ListUnread(c.Request.Context(), userID)
	} else {
		notifications, err = h.notificationService.ListForUser(c.Request.Context(), userID)
	}
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToNotificationResponses(notifications))
}

// markNotificationRead
// @Summary Mark one notification as read
// @Description Only the addressee may mark a notification.
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204 "No content"
// @Failure 403 {object} map[string]string "Not the addressee"
// @Failure 404 {object} map[string]string "Notification not found"
// @Router /notifications/{id}/read [post]
func (h *Handler) markNotificationRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification ID"})
		return
	}
	log := h.logger.WithField("method", "markNotificationRead").WithField("id", id)

	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, id); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// markAllNotificationsRead
// @Summary Mark all of the caller's notifications as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 204 "No content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /notifications/read-all [put]
func (h *Handler) markAllNotificationsRead(c *gin.Context) {
	log := h.logger.WithField("method", "markAllNotificationsRead")

	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	if err := h.notificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
