// Package contact accepts contact-form submissions.
package contact

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contactsvc "github.com/komi0929/myprompt/internal/service/contact"
)

func Register(rg *gin.RouterGroup, svc *contactsvc.Service) {
	rg.POST("", submit(svc))
}

type submitReq struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Body  string `json:"body" binding:"required"`
}

func submit(svc *contactsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		msg, err := svc.Submit(c.Request.Context(), req.Name, req.Email, req.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, msg)
	}
}
