// Package feedback handles public feedback submission, voting, and the
// screenshot pre-check.
package feedback

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainfeedback "github.com/komi0929/myprompt/internal/domain/feedback"
	feedbacksvc "github.com/komi0929/myprompt/internal/service/feedback"
	"github.com/komi0929/myprompt/internal/transport/authn"
	"github.com/komi0929/myprompt/internal/upload"
)

func Register(rg *gin.RouterGroup, svc *feedbacksvc.Service) {
	rg.GET("", list(svc))
	rg.POST("", submit(svc))
	rg.POST("/:id/like", like(svc))
	rg.POST("/screenshot/check", checkScreenshot())
}

func list(svc *feedbacksvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status *domainfeedback.Status
		if v := c.Query("status"); v != "" {
			s := domainfeedback.Status(v)
			status = &s
		}

		items, err := svc.List(c.Request.Context(), status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

type submitReq struct {
	Category      string `json:"category"`
	Body          string `json:"body" binding:"required"`
	ScreenshotURL string `json:"screenshot_url"`
}

func submit(svc *feedbacksvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req submitReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var userID *uuid.UUID
		if actor := authn.CurrentUser(c); !actor.IsGuest {
			userID = &actor.UserID
		}

		fb, err := svc.Submit(c.Request.Context(), userID, domainfeedback.Category(req.Category), req.Body, req.ScreenshotURL)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, fb)
	}
}

type likeReq struct {
	SessionID string `json:"session_id" binding:"required"`
}

// like records one vote per browser session. A repeat vote from the same
// session is acknowledged without changing the count.
func like(svc *feedbacksvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var req likeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		counted, err := svc.Like(c.Request.Context(), id, req.SessionID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"counted": counted})
	}
}

// checkScreenshot validates the image bytes before the client uploads them
// to the object store, so an oversized or bogus file is rejected early.
func checkScreenshot() gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := io.ReadAll(io.LimitReader(c.Request.Body, upload.MaxSize+1))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}
		if err := upload.Validate(data); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
