package transport

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/komi0929/myprompt/internal/transport/authn"
)

// noisyPaths are high-frequency read paths logged at Debug to keep Info clean.
var noisyPaths = map[string]bool{
	"/api/workspace/prompts": true,
	"/api/prompts":           true,
	"/api/notifications":     true,
	"/api/ws":                true,
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.Method == "OPTIONS" {
			return
		}
		if c.Request.Method == "GET" && noisyPaths[c.Request.URL.Path] {
			slog.Debug("request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", c.Writer.Status(),
				"duration", time.Since(start),
			)
			return
		}

		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// CORSMiddleware allows the configured browser origins. An empty list allows
// same-origin requests only.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowed[origin] || allowed["*"]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS, PUT")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// IdempotencyStore persists captured mutation responses keyed per user.
// Replays are scoped to the key's owner; one user's key can never surface
// another user's response.
type IdempotencyStore interface {
	Check(ctx context.Context, key string, userID uuid.UUID) ([]byte, bool, error)
	Store(ctx context.Context, key string, userID uuid.UUID, opType string, resultJSON []byte) error
}

// IdempotencyMiddleware replays the stored response for a repeated
// Idempotency-Key instead of re-running the mutation. Clients retry
// optimistic writes after connectivity blips; the replay keeps a retry from
// double-applying. Requests without the header pass straight through.
func IdempotencyMiddleware(repo IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.Method == "OPTIONS" {
			c.Next()
			return
		}
		key := c.GetHeader("Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		actor := authn.CurrentUser(c)
		stored, found, err := repo.Check(c.Request.Context(), key, actor.UserID)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "idempotency check failed", "error", err)
			c.Next()
			return
		}
		if found {
			c.Data(http.StatusOK, "application/json", stored)
			c.Abort()
			return
		}

		buf := &responseCapture{ResponseWriter: c.Writer}
		c.Writer = buf
		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			op := c.Request.Method + " " + c.FullPath()
			if err := repo.Store(c.Request.Context(), key, actor.UserID, op, buf.body.Bytes()); err != nil {
				slog.ErrorContext(c.Request.Context(), "idempotency store failed", "error", err)
			}
		}
	}
}

type responseCapture struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *responseCapture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// AdminOnly gates the admin dashboard routes.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authn.CurrentUser(c).IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireUser rejects guests on routes that have no guest behavior at all.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if authn.CurrentUser(c).IsGuest {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
