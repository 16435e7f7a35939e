// Package prompt serves the public prompt surface: the trend feed of
// public prompts, single prompt lookup, and forking.
package prompt

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
	promptsvc "github.com/komi0929/myprompt/internal/service/prompt"
	"github.com/komi0929/myprompt/internal/transport/authn"
)

func Register(rg *gin.RouterGroup, svc *promptsvc.Service) {
	rg.GET("/trend", trend(svc))
	rg.GET("/:id", getPrompt(svc))
	rg.POST("/:id/fork", fork(svc))
}

func trend(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filters := domainprompt.ListFilters{Search: c.Query("q")}
		if v := c.Query("phase"); v != "" {
			p := domainprompt.ParsePhase(v)
			filters.Phase = &p
		}
		if v := c.Query("author"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author"})
				return
			}
			filters.AuthorID = &id
		}
		if v := c.Query("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			filters.Limit = n
		}

		prompts, err := svc.Trend(c.Request.Context(), filters)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, prompts)
	}
}

func getPrompt(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		p, err := svc.Get(c.Request.Context(), id, authn.CurrentUser(c).UserID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func fork(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		actor := authn.CurrentUser(c)
		if actor.IsGuest {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}

		p, err := svc.Fork(c.Request.Context(), actor, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}
