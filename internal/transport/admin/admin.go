// Package admin mounts the operator dashboard endpoints: KPI reporting,
// feedback and contact triage, changelog publishing, and feature flags.
// The whole group sits behind the admin gate in the router.
package admin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainchangelog "github.com/komi0929/myprompt/internal/domain/changelog"
	domaincontact "github.com/komi0929/myprompt/internal/domain/contact"
	domainfeedback "github.com/komi0929/myprompt/internal/domain/feedback"
	domainflag "github.com/komi0929/myprompt/internal/domain/flag"
	analyticssvc "github.com/komi0929/myprompt/internal/service/analytics"
	changelogsvc "github.com/komi0929/myprompt/internal/service/changelog"
	contactsvc "github.com/komi0929/myprompt/internal/service/contact"
	feedbacksvc "github.com/komi0929/myprompt/internal/service/feedback"
	flagsvc "github.com/komi0929/myprompt/internal/service/flag"
)

type Services struct {
	Analytics *analyticssvc.Service
	Feedback  *feedbacksvc.Service
	Contact   *contactsvc.Service
	Changelog *changelogsvc.Service
	Flags     *flagsvc.Service
}

func Register(rg *gin.RouterGroup, svcs Services) {
	rg.GET("/kpi", listKPI(svcs.Analytics))
	rg.POST("/kpi/aggregate", aggregateKPI(svcs.Analytics))

	rg.PATCH("/feedback/:id", updateFeedbackStatus(svcs.Feedback))

	rg.GET("/contacts", listContacts(svcs.Contact))
	rg.PATCH("/contacts/:id", updateContactStatus(svcs.Contact))
	rg.DELETE("/contacts/:id", deleteContact(svcs.Contact))

	rg.POST("/changelog", createChangelog(svcs.Changelog))
	rg.PUT("/changelog/:id", updateChangelog(svcs.Changelog))
	rg.DELETE("/changelog/:id", deleteChangelog(svcs.Changelog))

	rg.PUT("/flags/:name", upsertFlag(svcs.Flags))
}

const dateLayout = "2006-01-02"

func listKPI(svc *analyticssvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		to := time.Now().UTC()
		from := to.AddDate(0, 0, -30)
		if v := c.Query("from"); v != "" {
			t, err := time.Parse(dateLayout, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
				return
			}
			from = t
		}
		if v := c.Query("to"); v != "" {
			t, err := time.Parse(dateLayout, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
				return
			}
			to = t
		}

		rows, err := svc.ListKPI(c.Request.Context(), from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

type aggregateReq struct {
	Date string `json:"date"`
}

// aggregateKPI recomputes one day on demand. Without a date it runs for
// yesterday, the same day the nightly job covers.
func aggregateKPI(svc *analyticssvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req aggregateReq
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		date := time.Now().UTC().AddDate(0, 0, -1)
		if req.Date != "" {
			t, err := time.Parse(dateLayout, req.Date)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
				return
			}
			date = t
		}

		kpi, err := svc.AggregateDay(c.Request.Context(), date)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, kpi)
	}
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

func updateFeedbackStatus(svc *feedbacksvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var req statusReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.UpdateStatus(c.Request.Context(), id, domainfeedback.Status(req.Status)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listContacts(svc *contactsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status *domaincontact.Status
		if v := c.Query("status"); v != "" {
			s := domaincontact.Status(v)
			status = &s
		}

		msgs, err := svc.List(c.Request.Context(), status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, msgs)
	}
}

func updateContactStatus(svc *contactsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var req statusReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.UpdateStatus(c.Request.Context(), id, domaincontact.Status(req.Status)); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func deleteContact(svc *contactsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type changelogReq struct {
	Version     string    `json:"version" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Body        string    `json:"body" binding:"required"`
	PublishedAt time.Time `json:"published_at"`
}

func createChangelog(svc *changelogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changelogReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.PublishedAt.IsZero() {
			req.PublishedAt = time.Now().UTC()
		}

		entry, err := svc.Create(c.Request.Context(), req.Version, req.Title, req.Body, req.PublishedAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

func updateChangelog(svc *changelogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		var req changelogReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		entry := domainchangelog.Entry{
			ID:          id,
			Version:     req.Version,
			Title:       req.Title,
			Body:        req.Body,
			PublishedAt: req.PublishedAt,
		}
		if err := svc.Update(c.Request.Context(), entry); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

func deleteChangelog(svc *changelogsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		if err := svc.Delete(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type flagReq struct {
	Enabled     bool   `json:"enabled"`
	Description string `json:"description"`
}

func upsertFlag(svc *flagsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req flagReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		f := domainflag.Flag{
			Name:        c.Param("name"),
			Enabled:     req.Enabled,
			Description: req.Description,
		}
		if err := svc.Upsert(c.Request.Context(), f); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, f)
	}
}
