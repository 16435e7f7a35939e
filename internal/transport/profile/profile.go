// Package profile serves the caller's own profile and public profile lookup.
package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	profilesvc "github.com/komi0929/myprompt/internal/service/profile"
	"github.com/komi0929/myprompt/internal/transport/authn"
)

func Register(rg *gin.RouterGroup, svc *profilesvc.Service) {
	rg.GET("/me", me(svc))
	rg.PATCH("/me", updateMe(svc))
	rg.GET("/:id", get(svc))
}

// me returns the caller's profile, creating it on first sight so a fresh
// sign-in always has one.
func me(svc *profilesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Ensure(c.Request.Context(), authn.CurrentUser(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

type updateReq struct {
	DisplayName string `json:"display_name" binding:"required"`
	AvatarURL   string `json:"avatar_url"`
}

func updateMe(svc *profilesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		p, err := svc.Update(c.Request.Context(), authn.CurrentUser(c), req.DisplayName, req.AvatarURL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func get(svc *profilesvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		p, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
