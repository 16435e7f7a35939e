package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komi0929/myprompt/internal/transport/authn"
)

const idemTestSecret = "idem-test-secret"

type memIdempotency struct {
	rows map[string][]byte
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{rows: make(map[string][]byte)}
}

func (m *memIdempotency) compound(key string, userID uuid.UUID) string {
	return key + "/" + userID.String()
}

func (m *memIdempotency) Check(_ context.Context, key string, userID uuid.UUID) ([]byte, bool, error) {
	stored, ok := m.rows[m.compound(key, userID)]
	return stored, ok, nil
}

func (m *memIdempotency) Store(_ context.Context, key string, userID uuid.UUID, _ string, resultJSON []byte) error {
	m.rows[m.compound(key, userID)] = resultJSON
	return nil
}

func idemRig(t *testing.T, store IdempotencyStore) (*gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var handled int
	r := gin.New()
	r.Use(authn.Middleware(idemTestSecret, func(string) bool { return false }))
	r.Use(IdempotencyMiddleware(store))
	r.POST("/mutate", func(c *gin.Context) {
		handled++
		c.JSON(http.StatusOK, gin.H{"actor": authn.CurrentUser(c).UserID.String()})
	})
	return r, &handled
}

func idemToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
	}).SignedString([]byte(idemTestSecret))
	require.NoError(t, err)
	return signed
}

func idemPost(r *gin.Engine, token, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_RetryReplaysStoredResponse(t *testing.T) {
	r, handled := idemRig(t, newMemIdempotency())
	token := idemToken(t, uuid.New())

	first := idemPost(r, token, "key-1")
	retry := idemPost(r, token, "key-1")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, retry.Code)
	assert.Equal(t, first.Body.String(), retry.Body.String())
	assert.Equal(t, 1, *handled, "retry must not re-run the mutation")
}

func TestIdempotency_KeyIsScopedPerUser(t *testing.T) {
	r, handled := idemRig(t, newMemIdempotency())
	alice := uuid.New()
	bob := uuid.New()

	aliceResp := idemPost(r, idemToken(t, alice), "shared-key")
	bobResp := idemPost(r, idemToken(t, bob), "shared-key")

	require.Equal(t, http.StatusOK, aliceResp.Code)
	require.Equal(t, http.StatusOK, bobResp.Code)
	assert.Equal(t, 2, *handled, "another user's key must not replay")
	assert.Contains(t, bobResp.Body.String(), bob.String())
	assert.NotContains(t, bobResp.Body.String(), alice.String())
}

func TestIdempotency_MissingKeyPassesThrough(t *testing.T) {
	store := newMemIdempotency()
	r, handled := idemRig(t, store)
	token := idemToken(t, uuid.New())

	idemPost(r, token, "")
	idemPost(r, token, "")

	assert.Equal(t, 2, *handled)
	assert.Empty(t, store.rows)
}

func TestIdempotency_GetNeverCaptured(t *testing.T) {
	store := newMemIdempotency()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(authn.Middleware(idemTestSecret, func(string) bool { return false }))
	r.Use(IdempotencyMiddleware(store))
	r.GET("/read", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	req.Header.Set("Idempotency-Key", "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.Empty(t, store.rows)
}
