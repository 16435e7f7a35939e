// Package changelog serves the public release-notes page.
package changelog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	changelogsvc "github.com/komi0929/myprompt/internal/service/changelog"
)

func Register(rg *gin.RouterGroup, svc *changelogsvc.Service) {
	rg.GET("", list(svc))
}

func list(svc *changelogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}
