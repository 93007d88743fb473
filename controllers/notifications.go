package controllers

import (
	"DuoPlay/middleware"
	"DuoPlay/services/notifications"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} notifications.List
// @Router /api/notifications [get]
// @Security ApiKeyAuth
func ListNotifications(service *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := service.ListNotifications(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary Unread notification count
// @Tags notifications
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{count=integer}
// @Router /api/notifications/unread-count [get]
// @Security ApiKeyAuth
func UnreadCount(service *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := service.UnreadCount(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param id path string true "Notification ID"
// @Success 200 {object} object{success=boolean}
// @Failure 404 {object} utils.AppError "NOTIFICATION_NOT_FOUND"
// @Router /api/notifications/{id}/read [patch]
// @Security ApiKeyAuth
func MarkNotificationRead(service *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.MarkRead(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// @Summary Mark every notification as read
// @Tags notifications
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{success=boolean,updated=integer}
// @Router /api/notifications/read-all [patch]
// @Security ApiKeyAuth
func MarkAllNotificationsRead(service *notifications.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		updated, err := service.MarkAllRead(c.Request.Context(), middleware.CurrentUserID(c))
		if err != nil {
			c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "updated": updated})
	}
}
