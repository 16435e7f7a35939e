// Package workspace exposes a user's prompt workspace over HTTP: the
// filtered listing, the optimistic mutation actions, folders, bulk
// operations, export, and template filling. Every route resolves the
// caller's store through the manager first.
package workspace

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
	"github.com/komi0929/myprompt/internal/export"
	porthistory "github.com/komi0929/myprompt/internal/port/history"
	portsession "github.com/komi0929/myprompt/internal/port/session"
	promptsvc "github.com/komi0929/myprompt/internal/service/prompt"
	"github.com/komi0929/myprompt/internal/store"
	"github.com/komi0929/myprompt/internal/template"
	"github.com/komi0929/myprompt/internal/transport/authn"
)

// maxImportSize caps the accepted import file body.
const maxImportSize = 5 << 20

type Handler struct {
	manager   *store.Manager
	history   porthistory.Repository
	sessions  portsession.Cache
	promptSvc *promptsvc.Service
}

func Register(rg *gin.RouterGroup, manager *store.Manager, history porthistory.Repository, sessions portsession.Cache, promptSvc *promptsvc.Service) {
	h := &Handler{manager: manager, history: history, sessions: sessions, promptSvc: promptSvc}

	rg.POST("/refresh", h.refresh)
	rg.GET("/prompts", h.listPrompts)
	rg.POST("/prompts", h.addPrompt)
	rg.PATCH("/prompts/:id", h.updatePrompt)
	rg.DELETE("/prompts/:id", h.deletePrompt)
	rg.POST("/prompts/:id/favorite", h.toggleFavorite)
	rg.POST("/prompts/:id/like", h.toggleLike)
	rg.POST("/prompts/:id/pin", h.togglePin)
	rg.POST("/prompts/:id/select", h.selectPrompt)
	rg.POST("/prompts/:id/use", h.incrementUse)
	rg.POST("/prompts/:id/folder", h.moveToFolder)
	rg.GET("/prompts/:id/variables", h.variables)
	rg.POST("/prompts/:id/fill", h.fill)
	rg.GET("/prompts/:id/history", h.listHistory)
	rg.POST("/prompts/:id/restore", h.restore)

	rg.GET("/folders", h.listFolders)
	rg.POST("/folders", h.addFolder)
	rg.DELETE("/folders/:id", h.deleteFolder)

	rg.POST("/bulk/tag", h.bulkTag)
	rg.POST("/bulk/delete", h.bulkDelete)
	rg.POST("/bulk/move", h.bulkMove)
	rg.POST("/export", h.exportPrompts)
	rg.POST("/import", h.importPrompts)
}

func (h *Handler) store(c *gin.Context) (*store.Store, bool) {
	s, err := h.manager.ForUser(c.Request.Context(), authn.CurrentUser(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return s, true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) refresh(c *gin.Context) {
	s, ok := h.store(c)
	if !ok {
		return
	}
	if err := s.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

type promptView struct {
	domainprompt.Prompt
	IsFavorite bool `json:"is_favorite"`
	IsLiked    bool `json:"is_liked"`
}

// listPrompts applies the query parameters to the workspace view state and
// returns the recomputed filtered listing.
func (h *Handler) listPrompts(c *gin.Context) {
	s, ok := h.store(c)
	if !ok {
		return
	}

	if v := c.Query("view"); v != "" {
		s.SetView(store.View(v))
	}
	if v, set := c.GetQuery("phase"); set {
		if v == "" {
			s.SetPhaseFilter(nil)
		} else {
			p := domainprompt.ParsePhase(v)
			s.SetPhaseFilter(&p)
		}
	}
	if v, set := c.GetQuery("visibility"); set {
		if v == "" {
			s.SetVisibilityFilter(nil)
		} else {
			vis := domainprompt.ParseVisibility(v)
			s.SetVisibilityFilter(&vis)
		}
	}
	if v, set := c.GetQuery("folder"); set {
		if v == "" {
			s.SetFolderFilter(nil)
		} else {
			id, err := uuid.Parse(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder"})
				return
			}
			s.SetFolderFilter(&id)
		}
	}
	if v, set := c.GetQuery("q"); set {
		s.SetSearchQuery(v)
	}
	if v := c.Query("sort"); v != "" {
		s.SetSort(store.SortKey(v))
	}

	prompts := s.FilteredPrompts()
	views := make([]promptView, 0, len(prompts))
	for _, p := range prompts {
		views = append(views, promptView{
			Prompt:     p,
			IsFavorite: s.IsFavorite(p.ID),
			IsLiked:    s.IsLiked(p.ID),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"prompts":      views,
		"selected_id":  s.Selected(),
		"pinned_count": s.PinnedCount(),
	})
}

type addPromptReq struct {
	Title      string     `json:"title" binding:"required"`
	Content    string     `json:"content" binding:"required"`
	Notes      string     `json:"notes"`
	Tags       []string   `json:"tags"`
	Phase      string     `json:"phase"`
	Visibility string     `json:"visibility"`
	FolderID   *uuid.UUID `json:"folder_id"`
}

func (h *Handler) addPrompt(c *gin.Context) {
	var req addPromptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}

	id := s.AddPrompt(c.Request.Context(), store.AddInput{
		Title:      req.Title,
		Content:    req.Content,
		Notes:      req.Notes,
		Tags:       req.Tags,
		Phase:      domainprompt.ParsePhase(req.Phase),
		Visibility: domainprompt.ParseVisibility(req.Visibility),
		FolderID:   req.FolderID,
	})
	if id == uuid.Nil {
		if authn.CurrentUser(c).IsGuest {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "prompt could not be saved"})
		return
	}

	p, _ := s.Get(id)
	c.JSON(http.StatusCreated, p)
}

type patchPromptReq struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Notes      *string   `json:"notes"`
	Tags       *[]string `json:"tags"`
	Phase      *string   `json:"phase"`
	Visibility *string   `json:"visibility"`
	Rating     *string   `json:"rating"`
}

func (h *Handler) updatePrompt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req patchPromptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}

	patch := store.Patch{
		Title:   req.Title,
		Content: req.Content,
		Notes:   req.Notes,
		Tags:    req.Tags,
	}
	if req.Phase != nil {
		p := domainprompt.ParsePhase(*req.Phase)
		patch.Phase = &p
	}
	if req.Visibility != nil {
		v := domainprompt.ParseVisibility(*req.Visibility)
		patch.Visibility = &v
	}
	if req.Rating != nil {
		r := domainprompt.Rating(*req.Rating)
		patch.Rating = &r
	}

	if !s.UpdatePrompt(c.Request.Context(), id, patch) {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}
	p, _ := s.Get(id)
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deletePrompt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	if !s.DeletePrompt(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) toggleFavorite(c *gin.Context) {
	h.toggle(c, func(s *store.Store, id uuid.UUID) bool {
		return s.ToggleFavorite(c.Request.Context(), id)
	}, func(s *store.Store, id uuid.UUID) gin.H {
		return gin.H{"is_favorite": s.IsFavorite(id)}
	})
}

func (h *Handler) toggleLike(c *gin.Context) {
	if authn.CurrentUser(c).IsGuest {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	h.toggle(c, func(s *store.Store, id uuid.UUID) bool {
		return s.ToggleLike(c.Request.Context(), id)
	}, func(s *store.Store, id uuid.UUID) gin.H {
		p, _ := s.Get(id)
		return gin.H{"is_liked": s.IsLiked(id), "like_count": p.LikeCount}
	})
}

func (h *Handler) togglePin(c *gin.Context) {
	h.toggle(c, func(s *store.Store, id uuid.UUID) bool {
		s.TogglePin(c.Request.Context(), id)
		// A pin attempt over the cap is a silent no-op, not an error.
		return true
	}, func(s *store.Store, id uuid.UUID) gin.H {
		p, _ := s.Get(id)
		return gin.H{"is_pinned": p.IsPinned, "pinned_count": s.PinnedCount()}
	})
}

func (h *Handler) toggle(c *gin.Context, action func(*store.Store, uuid.UUID) bool, result func(*store.Store, uuid.UUID) gin.H) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	if _, found := s.Get(id); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}
	action(s, id)
	c.JSON(http.StatusOK, result(s, id))
}

func (h *Handler) selectPrompt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	s.Select(id)
	c.JSON(http.StatusOK, gin.H{"selected_id": s.Selected()})
}

func (h *Handler) incrementUse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	s.IncrementUseCount(c.Request.Context(), id)
	c.Status(http.StatusAccepted)
}

type moveReq struct {
	FolderID *uuid.UUID `json:"folder_id"`
}

func (h *Handler) moveToFolder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req moveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	if !s.MoveToFolder(c.Request.Context(), id, req.FolderID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) variables(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	p, found := s.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}

	cache := template.NewFillCache(h.sessions, authn.CurrentUser(c).UserID)
	values, err := cache.Values(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"variables": template.ExtractVariables(p.Content),
		"values":    values,
	})
}

type fillReq struct {
	Values map[string]string `json:"values"`
}

// fill renders the prompt with the provided variable values, remembers them
// for next time, and counts the copy as a use.
func (h *Handler) fill(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req fillReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	p, found := s.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}

	actor := authn.CurrentUser(c)
	if !actor.IsGuest {
		cache := template.NewFillCache(h.sessions, actor.UserID)
		for name, value := range req.Values {
			if err := cache.Put(c.Request.Context(), id, name, value); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
	}

	s.IncrementUseCount(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"content": template.FillTemplate(p.Content, req.Values)})
}

func (h *Handler) listHistory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	if _, found := s.Get(id); !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
		return
	}

	entries, err := h.history.ListForPrompt(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

type restoreReq struct {
	HistoryID uuid.UUID `json:"history_id" binding:"required"`
}

// restore applies an old snapshot's title and content back onto the prompt.
// It goes through the normal update action, so a fresh snapshot of the
// restored state is written as well.
func (h *Handler) restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req restoreReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}

	entries, err := h.history.ListForPrompt(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for _, e := range entries {
		if e.ID != req.HistoryID {
			continue
		}
		if !s.UpdatePrompt(c.Request.Context(), id, store.Patch{Title: &e.Title, Content: &e.Content}) {
			c.JSON(http.StatusNotFound, gin.H{"error": "prompt not found"})
			return
		}
		p, _ := s.Get(id)
		c.JSON(http.StatusOK, p)
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "history entry not found"})
}

func (h *Handler) listFolders(c *gin.Context) {
	s, ok := h.store(c)
	if !ok {
		return
	}
	folders := s.Folders()
	c.JSON(http.StatusOK, folders)
}

type addFolderReq struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

func (h *Handler) addFolder(c *gin.Context) {
	var req addFolderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}

	id := s.AddFolder(c.Request.Context(), req.Name, req.Color)
	if id == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) deleteFolder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	if !s.DeleteFolder(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type bulkTagReq struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
	Tag string      `json:"tag" binding:"required"`
}

func (h *Handler) bulkTag(c *gin.Context) {
	var req bulkTagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.AddTagToAll(c.Request.Context(), req.IDs, req.Tag))
}

type bulkIDsReq struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

func (h *Handler) bulkDelete(c *gin.Context) {
	var req bulkIDsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.DeleteAll(c.Request.Context(), req.IDs))
}

type bulkMoveReq struct {
	IDs      []uuid.UUID `json:"ids" binding:"required"`
	FolderID *uuid.UUID  `json:"folder_id"`
}

func (h *Handler) bulkMove(c *gin.Context) {
	var req bulkMoveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.MoveAllToFolder(c.Request.Context(), req.IDs, req.FolderID))
}

type exportReq struct {
	IDs    []uuid.UUID `json:"ids" binding:"required"`
	Format string      `json:"format"`
}

func (h *Handler) exportPrompts(c *gin.Context) {
	var req exportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, ok := h.store(c)
	if !ok {
		return
	}

	format := export.Format(req.Format)
	if req.Format == "" {
		format = export.FormatJSON
	}
	data, err := s.ExportSelection(req.IDs, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contentType := "application/json"
	if format == export.FormatMarkdown {
		contentType = "text/markdown"
	}
	c.Data(http.StatusOK, contentType, data)
}

// importPrompts persists the file's entries and refreshes the workspace so
// the imported prompts appear immediately.
func (h *Handler) importPrompts(c *gin.Context) {
	actor := authn.CurrentUser(c)
	if actor.IsGuest {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	result, err := h.promptSvc.Import(c.Request.Context(), actor, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, ok := h.store(c)
	if !ok {
		return
	}
	if err := s.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
