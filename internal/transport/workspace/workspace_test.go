package workspace_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komi0929/myprompt/internal/adapter/memory"
	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
	promptsvc "github.com/komi0929/myprompt/internal/service/prompt"
	"github.com/komi0929/myprompt/internal/store"
	"github.com/komi0929/myprompt/internal/testutil"
	"github.com/komi0929/myprompt/internal/transport/authn"
	"github.com/komi0929/myprompt/internal/transport/workspace"
)

const testSecret = "workspace-test-secret"

type env struct {
	prompts *testutil.FakePrompts
	history *testutil.FakeHistory
	router  *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prompts := testutil.NewFakePrompts()
	history := testutil.NewFakeHistory()
	manager := store.NewManager(store.Gateway{
		Prompts:    prompts,
		Engagement: testutil.NewFakeEngagement(),
		Folders:    testutil.NewFakeFolders(),
		History:    history,
	})
	svc := promptsvc.NewService(prompts, testutil.NewFakeNotifications(), testutil.NewCaptureBus())

	r := gin.New()
	r.Use(authn.Middleware(testSecret, func(string) bool { return false }))
	workspace.Register(r.Group("/api/workspace"), manager, history, memory.NewCache(), svc)

	return &env{prompts: prompts, history: history, router: r}
}

func token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": userID.String(), "name": "Tester"}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (e *env) do(t *testing.T, method, path, auth string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func TestAddPrompt_CreatesAndLists(t *testing.T) {
	e := newEnv(t)
	auth := token(t, uuid.New())

	w := e.do(t, http.MethodPost, "/api/workspace/prompts", auth, gin.H{
		"title":   "Standup notes",
		"content": "Summarize {updates} for the team.",
		"phase":   "planning",
		"tags":    []string{"daily"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created domainprompt.Prompt
	decode(t, w, &created)
	assert.Equal(t, "Standup notes", created.Title)
	assert.Equal(t, domainprompt.PhasePlanning, created.Phase)

	w = e.do(t, http.MethodGet, "/api/workspace/prompts", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Prompts []domainprompt.Prompt `json:"prompts"`
	}
	decode(t, w, &listing)
	require.Len(t, listing.Prompts, 1)
	assert.Equal(t, created.ID, listing.Prompts[0].ID)
}

func TestAddPrompt_GuestRejected(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/workspace/prompts", "", gin.H{
		"title":   "nope",
		"content": "nope",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListPrompts_SearchFilter(t *testing.T) {
	e := newEnv(t)
	auth := token(t, uuid.New())

	for _, title := range []string{"Review checklist", "Deploy runbook"} {
		w := e.do(t, http.MethodPost, "/api/workspace/prompts", auth, gin.H{
			"title": title, "content": "body",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := e.do(t, http.MethodGet, "/api/workspace/prompts?q=review", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Prompts []domainprompt.Prompt `json:"prompts"`
	}
	decode(t, w, &listing)
	require.Len(t, listing.Prompts, 1)
	assert.Equal(t, "Review checklist", listing.Prompts[0].Title)
}

func TestUpdatePrompt_UnknownID(t *testing.T) {
	e := newEnv(t)
	auth := token(t, uuid.New())

	w := e.do(t, http.MethodPatch, "/api/workspace/prompts/"+uuid.NewString(), auth, gin.H{
		"title": "renamed",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTogglePin_SilentAtCap(t *testing.T) {
	e := newEnv(t)
	auth := token(t, uuid.New())

	var ids []uuid.UUID
	for i := 0; i < store.MaxPinned+1; i++ {
		w := e.do(t, http.MethodPost, "/api/workspace/prompts", auth, gin.H{
			"title": fmt.Sprintf("p%d", i), "content": "body",
		})
		require.Equal(t, http.StatusCreated, w.Code)
		var p domainprompt.Prompt
		decode(t, w, &p)
		ids = append(ids, p.ID)
	}

	for i, id := range ids {
		w := e.do(t, http.MethodPost, "/api/workspace/prompts/"+id.String()+"/pin", auth, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out struct {
			IsPinned    bool `json:"is_pinned"`
			PinnedCount int  `json:"pinned_count"`
		}
		decode(t, w, &out)
		if i < store.MaxPinned {
			assert.True(t, out.IsPinned)
		} else {
			// Over the cap the request succeeds but nothing changes.
			assert.False(t, out.IsPinned)
			assert.Equal(t, store.MaxPinned, out.PinnedCount)
		}
	}
}

func TestFolders_LifecycleDetachesPrompts(t *testing.T) {
	e := newEnv(t)
	auth := token(t, uuid.New())

	w := e.do(t, http.MethodPost, "/api/workspace/folders", auth, gin.H{"name": "Work", "color": "#336699"})
	require.Equal(t, http.StatusCreated, w.Code)
	var folder struct {
		ID uuid.UUID `json:"id"`
	}
	decode(t, w, &folder)

	w = e.do(t, http.MethodPost, "/api/workspace/prompts", auth, gin.H{"title": "filed", "content": "body"})
	require.Equal(t, http.StatusCreated, w.Code)
	var p domainprompt.Prompt
	decode(t, w, &p)

	w = e.do(t, http.MethodPost, "/api/workspace/prompts/"+p.ID.String()+"/folder", auth, gin.H{"folder_id": folder.ID})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodDelete, "/api/workspace/folders/"+folder.ID.String(), auth, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// The prompt survives its folder.
	w = e.do(t, http.MethodGet, "/api/workspace/prompts", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Prompts []domainprompt.Prompt `json:"prompts"`
	}
	decode(t, w, &listing)
	require.Len(t, listing.Prompts, 1)
	assert.Nil(t, listing.Prompts[0].FolderID)
}

func TestFillAndVariables_RememberValues(t *testing.T) {
	e := newEnv(t)
	auth := token(t, uuid.New())

	w := e.do(t, http.MethodPost, "/api/workspace/prompts", auth, gin.H{
		"title":   "Greeting",
		"content": "Hello {name}, meet {other}.",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var p domainprompt.Prompt
	decode(t, w, &p)

	w = e.do(t, http.MethodPost, "/api/workspace/prompts/"+p.ID.String()+"/fill", auth, gin.H{
		"values": gin.H{"name": "Mina"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var filled struct {
		Content string `json:"content"`
	}
	decode(t, w, &filled)
	assert.Equal(t, "Hello Mina, meet {other}.", filled.Content)

	w = e.do(t, http.MethodGet, "/api/workspace/prompts/"+p.ID.String()+"/variables", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vars struct {
		Variables []string          `json:"variables"`
		Values    map[string]string `json:"values"`
	}
	decode(t, w, &vars)
	assert.Equal(t, []string{"name", "other"}, vars.Variables)
	assert.Equal(t, "Mina", vars.Values["name"])
}

func TestExport_MarkdownContentType(t *testing.T) {
	e := newEnv(t)
	auth := token(t, uuid.New())

	w := e.do(t, http.MethodPost, "/api/workspace/prompts", auth, gin.H{"title": "Exported", "content": "body"})
	require.Equal(t, http.StatusCreated, w.Code)
	var p domainprompt.Prompt
	decode(t, w, &p)

	w = e.do(t, http.MethodPost, "/api/workspace/export", auth, gin.H{
		"ids":    []uuid.UUID{p.ID},
		"format": "markdown",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/markdown", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Exported")
}

func TestHistoryAndRestore(t *testing.T) {
	e := newEnv(t)
	auth := token(t, uuid.New())

	w := e.do(t, http.MethodPost, "/api/workspace/prompts", auth, gin.H{"title": "v1", "content": "first"})
	require.Equal(t, http.StatusCreated, w.Code)
	var p domainprompt.Prompt
	decode(t, w, &p)

	w = e.do(t, http.MethodPatch, "/api/workspace/prompts/"+p.ID.String(), auth, gin.H{"content": "second"})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/workspace/prompts/"+p.ID.String()+"/history", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []struct {
		ID      uuid.UUID `json:"id"`
		Content string    `json:"content"`
	}
	decode(t, w, &entries)
	require.NotEmpty(t, entries)

	// Restore the first recorded snapshot and check the content comes back.
	first := entries[0]
	require.Equal(t, "first", first.Content)
	w = e.do(t, http.MethodPost, "/api/workspace/prompts/"+p.ID.String()+"/restore", auth, gin.H{
		"history_id": first.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var restored domainprompt.Prompt
	decode(t, w, &restored)
	assert.Equal(t, "first", restored.Content)
}
