// Package notification serves the signed-in user's notification inbox.
package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	notificationsvc "github.com/komi0929/myprompt/internal/service/notification"
	"github.com/komi0929/myprompt/internal/transport/authn"
)

func Register(rg *gin.RouterGroup, svc *notificationsvc.Service) {
	rg.GET("", list(svc))
	rg.GET("/unread", unread(svc))
	rg.POST("/read", markAllRead(svc))
}

func list(svc *notificationsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, err := svc.List(c.Request.Context(), authn.CurrentUser(c).UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, notifications)
	}
}

func unread(svc *notificationsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := svc.UnreadCount(c.Request.Context(), authn.CurrentUser(c).UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"unread": count})
	}
}

func markAllRead(svc *notificationsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.MarkAllRead(c.Request.Context(), authn.CurrentUser(c).UserID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
