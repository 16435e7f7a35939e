// Package analytics receives client-side usage events.
package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	analyticssvc "github.com/komi0929/myprompt/internal/service/analytics"
	"github.com/komi0929/myprompt/internal/transport/authn"
)

func Register(rg *gin.RouterGroup, svc *analyticssvc.Service) {
	rg.POST("", track(svc))
}

type trackReq struct {
	Name      string `json:"name" binding:"required"`
	SessionID string `json:"session_id"`
}

func track(svc *analyticssvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req trackReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var userID *uuid.UUID
		if actor := authn.CurrentUser(c); !actor.IsGuest {
			userID = &actor.UserID
		}

		if err := svc.Track(c.Request.Context(), userID, req.Name, req.SessionID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusAccepted)
	}
}
