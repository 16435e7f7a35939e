// Package authn verifies bearer tokens and resolves the caller's identity.
// It sits below the rest of the transport tree so any handler package can
// ask who is calling without importing the router.
package authn

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
)

const stateKey = "authState"

type tokenClaims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	jwt.RegisteredClaims
}

// Middleware verifies tokens issued by the hosted auth provider and puts
// the resulting auth.State on the request. No token means guest, which most
// read paths allow; a present but invalid token is rejected outright.
func Middleware(secret string, isAdmin func(email string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(stateKey, domainauth.Guest())
			c.Next()
			return
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			c.Abort()
			return
		}

		claims := &tokenClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			c.Abort()
			return
		}

		c.Set(stateKey, domainauth.State{
			UserID:      userID,
			Email:       claims.Email,
			DisplayName: claims.Name,
			AvatarURL:   claims.AvatarURL,
			IsAdmin:     isAdmin(claims.Email),
		})
		c.Next()
	}
}

// CurrentUser returns the caller's auth state; guest if the middleware never
// ran.
func CurrentUser(c *gin.Context) domainauth.State {
	if v, ok := c.Get(stateKey); ok {
		if state, ok := v.(domainauth.State); ok {
			return state
		}
	}
	return domainauth.Guest()
}
