// Package flag serves the public feature-flag listing used by clients to
// decide what to render.
package flag

import (
	"net/http"

	"github.com/gin-gonic/gin"

	flagsvc "github.com/komi0929/myprompt/internal/service/flag"
)

func Register(rg *gin.RouterGroup, svc *flagsvc.Service) {
	rg.GET("", list(svc))
	rg.GET("/:name", enabled(svc))
}

func list(svc *flagsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		flags, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, flags)
	}
}

func enabled(svc *flagsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    c.Param("name"),
			"enabled": svc.Enabled(c.Request.Context(), c.Param("name")),
		})
	}
}
