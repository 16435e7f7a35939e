package authn

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
)

const authTestSecret = "auth-test-secret"

func authRig(t *testing.T, isAdmin func(string) bool) (*gin.Engine, *domainauth.State) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var seen domainauth.State
	r := gin.New()
	r.Use(Middleware(authTestSecret, isAdmin))
	r.GET("/whoami", func(c *gin.Context) {
		seen = CurrentUser(c)
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddleware_NoHeaderMeansGuest(t *testing.T) {
	r, seen := authRig(t, func(string) bool { return false })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, seen.IsGuest)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r, seen := authRig(t, func(email string) bool { return email == "ops@myprompt.app" })
	userID := uuid.New()
	raw := signToken(t, authTestSecret, jwt.MapClaims{
		"sub":   userID.String(),
		"email": "ops@myprompt.app",
		"name":  "Ops",
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, seen.IsGuest)
	assert.Equal(t, userID, seen.UserID)
	assert.Equal(t, "Ops", seen.DisplayName)
	assert.True(t, seen.IsAdmin)
}

func TestAuthMiddleware_WrongSecretRejected(t *testing.T) {
	r, _ := authRig(t, func(string) bool { return false })
	raw := signToken(t, "some-other-secret", jwt.MapClaims{"sub": uuid.NewString()})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeaderRejected(t *testing.T) {
	r, _ := authRig(t, func(string) bool { return false })

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_BadSubjectRejected(t *testing.T) {
	r, _ := authRig(t, func(string) bool { return false })
	raw := signToken(t, authTestSecret, jwt.MapClaims{"sub": "not-a-uuid"})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
