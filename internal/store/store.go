// Package store holds each user's workspace: an in-memory collection of the
// prompts visible to them, their favorites and likes, and their folders.
// Every mutating action follows the same two-phase protocol: apply the
// change to the in-memory collection first, then persist through the gateway,
// then reconcile on failure. Reads are recomputed views over the collections.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
	domainfolder "github.com/komi0929/myprompt/internal/domain/folder"
	domainhistory "github.com/komi0929/myprompt/internal/domain/history"
	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
	portengagement "github.com/komi0929/myprompt/internal/port/engagement"
	portfolder "github.com/komi0929/myprompt/internal/port/folder"
	porthistory "github.com/komi0929/myprompt/internal/port/history"
	portprompt "github.com/komi0929/myprompt/internal/port/prompt"
)

// MaxPinned is the per-user pin cap, checked against the current pinned
// count at toggle time.
const MaxPinned = 5

// Gateway bundles the persistence ports the store writes through.
// [DIP] all fields are interfaces; tests install fakes.
type Gateway struct {
	Prompts    portprompt.Repository
	Engagement portengagement.Gateway
	Folders    portfolder.Repository
	History    porthistory.Repository
}

// Store is the per-user workspace. The collections are owned exclusively by
// the store; nothing mutates them from outside its action methods. Reads from
// concurrent requests are safe and side-effect-free.
type Store struct {
	auth domainauth.State
	gw   Gateway

	mu        sync.Mutex
	prompts   []domainprompt.Prompt
	favorites map[uuid.UUID]struct{}
	likes     map[uuid.UUID]struct{}
	folders   []domainfolder.Folder
	selected  uuid.UUID
	hydrated  bool
	view      ViewState

	collator *collate.Collator

	// onPromptsChanged fires after any collection change, once auto-selection
	// has been re-evaluated. Deterministic replacement for the original's
	// render-loop re-check.
	onPromptsChanged func(selected uuid.UUID)

	// recordMutation reports each persistence attempt by action name and
	// whether it committed. Nil outside of wired deployments.
	recordMutation func(action string, committed bool)
}

type Option func(*Store)

// WithLocale sets the collation locale for title sorting.
func WithLocale(tag language.Tag) Option {
	return func(s *Store) { s.collator = collate.New(tag) }
}

// WithOnPromptsChanged installs the post-change hook.
func WithOnPromptsChanged(fn func(selected uuid.UUID)) Option {
	return func(s *Store) { s.onPromptsChanged = fn }
}

// WithMutationRecorder installs a sink for mutation outcomes, called once per
// persistence attempt with the action name and whether it committed.
func WithMutationRecorder(fn func(action string, committed bool)) Option {
	return func(s *Store) { s.recordMutation = fn }
}

func New(st domainauth.State, gw Gateway, opts ...Option) *Store {
	s := &Store{
		auth:      st,
		gw:        gw,
		favorites: make(map[uuid.UUID]struct{}),
		likes:     make(map[uuid.UUID]struct{}),
		collator:  collate.New(language.Und),
		view:      defaultViewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate performs the initial load: prompts, then favorites, then likes, in
// that fixed order, then folders. Until it returns, consumers must treat the
// collections as possibly incomplete. A context cancelled mid-sequence (the
// caller tore down) leaves the store untouched rather than half-installed.
func (s *Store) Hydrate(ctx context.Context) error {
	prompts, err := s.loadPrompts(ctx)
	if err != nil {
		return fmt.Errorf("hydrate prompts: %w", err)
	}

	favIDs, likeIDs := []uuid.UUID{}, []uuid.UUID{}
	var folders []domainfolder.Folder
	if !s.auth.IsGuest {
		if favIDs, err = s.gw.Engagement.Favorites(ctx, s.auth.UserID); err != nil {
			return fmt.Errorf("hydrate favorites: %w", err)
		}
		if likeIDs, err = s.gw.Engagement.Likes(ctx, s.auth.UserID); err != nil {
			return fmt.Errorf("hydrate likes: %w", err)
		}
		if folders, err = s.gw.Folders.ListForUser(ctx, s.auth.UserID); err != nil {
			return fmt.Errorf("hydrate folders: %w", err)
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.mu.Lock()
	s.prompts = prompts
	s.favorites = idSet(favIDs)
	s.likes = idSet(likeIDs)
	s.folders = folders
	s.hydrated = true
	s.mu.Unlock()

	s.promptsChanged()
	return nil
}

// Refresh re-reads everything from the source of truth and replaces, never
// merges, the in-memory collections. Any unreconciled optimistic mutation in
// flight is overwritten; this is the reconciliation mechanism of last resort.
func (s *Store) Refresh(ctx context.Context) error {
	if err := s.Hydrate(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	if s.selected != uuid.Nil && s.indexOf(s.selected) < 0 {
		s.selected = uuid.Nil
	}
	s.mu.Unlock()
	s.promptsChanged()
	return nil
}

func (s *Store) loadPrompts(ctx context.Context) ([]domainprompt.Prompt, error) {
	if s.auth.IsGuest {
		public := domainprompt.VisibilityPublic
		return s.gw.Prompts.ListPublic(ctx, domainprompt.ListFilters{Visibility: &public})
	}
	return s.gw.Prompts.ListVisible(ctx, s.auth.UserID)
}

// AddInput is the payload for AddPrompt. A non-nil ParentID records one-hop
// lineage: the new prompt is an arrangement of its source.
type AddInput struct {
	Title      string
	Content    string
	Notes      string
	Tags       []string
	Phase      domainprompt.Phase
	Visibility domainprompt.Visibility
	FolderID   *uuid.UUID
	ParentID   *uuid.UUID
}

// AddPrompt persists a new prompt, prepends it, selects it, and writes the
// initial history snapshot. Guests get uuid.Nil and untouched collections;
// persistence failure also yields uuid.Nil. Neither is an error.
func (s *Store) AddPrompt(ctx context.Context, in AddInput) uuid.UUID {
	if s.auth.IsGuest {
		return uuid.Nil
	}

	p := domainprompt.New(s.auth.UserID, in.Title, in.Content, in.Phase, in.Visibility)
	p.Notes = in.Notes
	if in.Tags != nil {
		p.Tags = in.Tags
	}
	p.FolderID = in.FolderID
	if in.ParentID != nil {
		p.ParentID = in.ParentID
		p.IsOriginal = false
	}
	p.AuthorName = s.auth.DisplayName
	p.AuthorAvatarURL = s.auth.AvatarURL

	created, err := s.gw.Prompts.Create(ctx, p)
	if err != nil {
		slog.WarnContext(ctx, "store: add prompt failed", "user_id", s.auth.UserID, "error", err)
		return uuid.Nil
	}

	s.mu.Lock()
	s.prompts = append([]domainprompt.Prompt{created}, s.prompts...)
	s.selected = created.ID
	s.mu.Unlock()
	s.promptsChanged()

	if err := s.gw.History.Append(ctx, domainhistory.New(created.ID, created.Title, created.Content)); err != nil {
		slog.ErrorContext(ctx, "store: initial history snapshot failed", "prompt_id", created.ID, "error", err)
	}
	return created.ID
}

// Patch is a partial prompt update. Nil fields stay unchanged.
type Patch struct {
	Title      *string
	Content    *string
	Notes      *string
	Tags       *[]string
	Phase      *domainprompt.Phase
	Visibility *domainprompt.Visibility
	Rating     *domainprompt.Rating
}

// UpdatePrompt applies the patch plus a fresh UpdatedAt optimistically, then
// issues the owner-scoped update. When title or content changed, the history
// snapshot uses the post-update values. No rollback: the next refresh
// reconciles a failed update.
func (s *Store) UpdatePrompt(ctx context.Context, id uuid.UUID, patch Patch) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	before := s.prompts[idx]
	updated := applyPatch(before, patch)
	updated.UpdatedAt = time.Now().UTC()
	s.prompts[idx] = updated
	s.mu.Unlock()

	contentChanged := updated.Title != before.Title || updated.Content != before.Content

	ok := s.run(ctx, Mutation{
		Name: "update_prompt",
		Commit: func(ctx context.Context) error {
			return s.gw.Prompts.Update(ctx, id, s.auth.UserID, updated)
		},
	})
	if !ok {
		return false
	}

	if contentChanged {
		if err := s.gw.History.Append(ctx, domainhistory.New(id, updated.Title, updated.Content)); err != nil {
			slog.ErrorContext(ctx, "store: history snapshot failed", "prompt_id", id, "error", err)
		}
	}
	return true
}

// DeletePrompt removes the prompt from prompts, favorites, and likes
// optimistically, clears the selection if it pointed at the prompt, then
// issues the owner-scoped delete.
func (s *Store) DeletePrompt(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.prompts = append(s.prompts[:idx], s.prompts[idx+1:]...)
	delete(s.favorites, id)
	delete(s.likes, id)
	if s.selected == id {
		s.selected = uuid.Nil
	}
	s.mu.Unlock()
	s.promptsChanged()

	return s.run(ctx, Mutation{
		Name: "delete_prompt",
		Commit: func(ctx context.Context) error {
			return s.gw.Prompts.Delete(ctx, id, s.auth.UserID)
		},
	})
}

// ToggleFavorite flips the local favorite membership, then persists.
// There is deliberately no guest gate here, unlike ToggleLike: the original
// gates favorites at the call sites only, and that asymmetry is kept.
func (s *Store) ToggleFavorite(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	_, was := s.favorites[id]
	if was {
		delete(s.favorites, id)
	} else {
		s.favorites[id] = struct{}{}
	}
	s.mu.Unlock()

	return s.run(ctx, Mutation{
		Name: "toggle_favorite",
		Commit: func(ctx context.Context) error {
			return s.gw.Engagement.SetFavorite(ctx, s.auth, id, !was)
		},
		Rollback: func() {
			if was {
				s.favorites[id] = struct{}{}
			} else {
				delete(s.favorites, id)
			}
		},
	})
}

// ToggleLike flips like membership and moves the target's likeCount by ±1
// optimistically. Guests are a no-op, checked before any optimistic change.
func (s *Store) ToggleLike(ctx context.Context, id uuid.UUID) bool {
	if s.auth.IsGuest {
		return false
	}

	s.mu.Lock()
	_, was := s.likes[id]
	delta := 1
	if was {
		delete(s.likes, id)
		delta = -1
	} else {
		s.likes[id] = struct{}{}
	}
	idx := s.indexOf(id)
	if idx >= 0 {
		s.prompts[idx].LikeCount += delta
	}
	s.mu.Unlock()

	return s.run(ctx, Mutation{
		Name: "toggle_like",
		Commit: func(ctx context.Context) error {
			return s.gw.Engagement.SetLike(ctx, s.auth, id, !was)
		},
		Rollback: func() {
			if was {
				s.likes[id] = struct{}{}
			} else {
				delete(s.likes, id)
			}
			if idx := s.indexOf(id); idx >= 0 {
				s.prompts[idx].LikeCount -= delta
			}
		},
	})
}

// TogglePin flips the pin flag. Pinning past MaxPinned is rejected silently,
// no error and no change, judged against the pinned count at this moment.
func (s *Store) TogglePin(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	if !s.prompts[idx].IsPinned && s.pinnedCountLocked() >= MaxPinned {
		s.mu.Unlock()
		return false
	}
	s.prompts[idx].IsPinned = !s.prompts[idx].IsPinned
	pinned := s.prompts[idx].IsPinned
	s.mu.Unlock()

	return s.run(ctx, Mutation{
		Name: "toggle_pin",
		Commit: func(ctx context.Context) error {
			return s.gw.Prompts.SetPinned(ctx, id, s.auth.UserID, pinned)
		},
	})
}

// IncrementUseCount bumps the local counter and stamps LastUsedAt, then fires
// the remote increment without waiting. Duplicate or lost increments under
// network failure are accepted; there is no rollback.
func (s *Store) IncrementUseCount(ctx context.Context, id uuid.UUID) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	now := time.Now().UTC()
	s.prompts[idx].UseCount++
	s.prompts[idx].LastUsedAt = &now
	s.mu.Unlock()

	go func() {
		ctx := context.WithoutCancel(ctx)
		if err := s.gw.Prompts.IncrementUseCount(ctx, id); err != nil {
			slog.DebugContext(ctx, "store: use count increment dropped", "prompt_id", id, "error", err)
		}
	}()
}

// AddFolder inserts optimistically under a temporary client-generated id,
// then patches in the server-assigned id on success (id-swap reconciliation).
func (s *Store) AddFolder(ctx context.Context, name, color string) uuid.UUID {
	if s.auth.IsGuest {
		return uuid.Nil
	}

	s.mu.Lock()
	temp := domainfolder.New(s.auth.UserID, name, color, len(s.folders))
	s.folders = append(s.folders, temp)
	s.mu.Unlock()

	created, err := s.gw.Folders.Create(ctx, temp)
	if err != nil {
		slog.WarnContext(ctx, "store: add folder failed", "user_id", s.auth.UserID, "error", err)
		return temp.ID
	}

	if created.ID != temp.ID {
		s.mu.Lock()
		for i := range s.folders {
			if s.folders[i].ID == temp.ID {
				s.folders[i] = created
				break
			}
		}
		for i := range s.prompts {
			if s.prompts[i].FolderID != nil && *s.prompts[i].FolderID == temp.ID {
				id := created.ID
				s.prompts[i].FolderID = &id
			}
		}
		s.mu.Unlock()
	}
	return created.ID
}

// DeleteFolder detaches member prompts locally first, removes the folder,
// then issues the remote delete (which detaches remotely too).
func (s *Store) DeleteFolder(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	kept := s.folders[:0]
	found := false
	for _, f := range s.folders {
		if f.ID == id {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	s.folders = kept
	if found {
		for i := range s.prompts {
			if s.prompts[i].FolderID != nil && *s.prompts[i].FolderID == id {
				s.prompts[i].FolderID = nil
			}
		}
	}
	s.mu.Unlock()
	if !found {
		return false
	}

	return s.run(ctx, Mutation{
		Name: "delete_folder",
		Commit: func(ctx context.Context) error {
			return s.gw.Folders.Delete(ctx, id, s.auth.UserID)
		},
	})
}

// MoveToFolder is a plain optimistic field update; folderID nil means
// "no folder". No rollback.
func (s *Store) MoveToFolder(ctx context.Context, promptID uuid.UUID, folderID *uuid.UUID) bool {
	s.mu.Lock()
	idx := s.indexOf(promptID)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.prompts[idx].FolderID = folderID
	s.mu.Unlock()

	return s.run(ctx, Mutation{
		Name: "move_to_folder",
		Commit: func(ctx context.Context) error {
			return s.gw.Prompts.SetFolder(ctx, promptID, s.auth.UserID, folderID)
		},
	})
}

// ── accessors ────────────────────────────────────────────────────────────────

func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// Prompts returns a copy of the raw collection in store order.
func (s *Store) Prompts() []domainprompt.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domainprompt.Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

func (s *Store) Folders() []domainfolder.Folder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domainfolder.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

func (s *Store) IsFavorite(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[id]
	return ok
}

func (s *Store) IsLiked(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.likes[id]
	return ok
}

func (s *Store) PinnedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinnedCountLocked()
}

func (s *Store) Select(id uuid.UUID) {
	s.mu.Lock()
	if id == uuid.Nil || s.indexOf(id) >= 0 {
		s.selected = id
	}
	s.mu.Unlock()
}

func (s *Store) Selected() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Store) SelectedPrompt() (domainprompt.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(s.selected); idx >= 0 {
		return s.prompts[idx], true
	}
	return domainprompt.Prompt{}, false
}

// Get returns a single prompt from the collection by id.
func (s *Store) Get(id uuid.UUID) (domainprompt.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.prompts[idx], true
	}
	return domainprompt.Prompt{}, false
}

// ── internals ────────────────────────────────────────────────────────────────

// indexOf requires s.mu held.
func (s *Store) indexOf(id uuid.UUID) int {
	for i := range s.prompts {
		if s.prompts[i].ID == id {
			return i
		}
	}
	return -1
}

// pinnedCountLocked requires s.mu held; counts only the current user's pins.
func (s *Store) pinnedCountLocked() int {
	n := 0
	for i := range s.prompts {
		if s.prompts[i].IsPinned && s.prompts[i].AuthorID == s.auth.UserID {
			n++
		}
	}
	return n
}

// promptsChanged re-evaluates auto-selection and fires the hook: once
// hydrated, with at least one prompt and nothing selected, the first prompt
// in the unfiltered collection is selected. Called after every collection
// change, not just once; prompts can become newly available after initial
// hydration.
func (s *Store) promptsChanged() {
	s.mu.Lock()
	if s.hydrated && len(s.prompts) > 0 && s.selected == uuid.Nil {
		s.selected = s.prompts[0].ID
	}
	cb, sel := s.onPromptsChanged, s.selected
	s.mu.Unlock()
	if cb != nil {
		cb(sel)
	}
}

func applyPatch(p domainprompt.Prompt, patch Patch) domainprompt.Prompt {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Notes != nil {
		p.Notes = *patch.Notes
	}
	if patch.Tags != nil {
		p.Tags = *patch.Tags
	}
	if patch.Phase != nil {
		p.Phase = *patch.Phase
	}
	if patch.Visibility != nil {
		p.Visibility = *patch.Visibility
	}
	if patch.Rating != nil {
		p.Rating = patch.Rating
	}
	return p
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
