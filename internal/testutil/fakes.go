package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
	domainfolder "github.com/komi0929/myprompt/internal/domain/folder"
	domainhistory "github.com/komi0929/myprompt/internal/domain/history"
	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
)

// ErrForced is the error injected by the Fail* switches on the fakes.
var ErrForced = errors.New("testutil: forced failure")

// FakePrompts is an in-memory prompt repository. Safe for concurrent use;
// per-method Fail switches force the next matching call to error.
type FakePrompts struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]domainprompt.Prompt
	order   []uuid.UUID
	UseIncs []uuid.UUID

	FailCreate   bool
	FailUpdate   bool
	FailDelete   bool
	FailSet      bool
	FailList     bool
	FailUseCount bool
}

func NewFakePrompts(seed ...domainprompt.Prompt) *FakePrompts {
	f := &FakePrompts{rows: make(map[uuid.UUID]domainprompt.Prompt)}
	for _, p := range seed {
		f.rows[p.ID] = p
		f.order = append(f.order, p.ID)
	}
	return f
}

func (f *FakePrompts) Create(_ context.Context, p domainprompt.Prompt) (domainprompt.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreate {
		return domainprompt.Prompt{}, ErrForced
	}
	f.rows[p.ID] = p
	f.order = append(f.order, p.ID)
	return p, nil
}

func (f *FakePrompts) GetVisible(_ context.Context, id, viewerID uuid.UUID) (domainprompt.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok || (p.Visibility != domainprompt.VisibilityPublic && p.AuthorID != viewerID) {
		return domainprompt.Prompt{}, errors.New("prompt not found")
	}
	return p, nil
}

func (f *FakePrompts) ListVisible(_ context.Context, userID uuid.UUID) ([]domainprompt.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailList {
		return nil, ErrForced
	}
	var out []domainprompt.Prompt
	for _, id := range f.order {
		p := f.rows[id]
		if p.AuthorID == userID || p.Visibility == domainprompt.VisibilityPublic {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakePrompts) ListPublic(_ context.Context, _ domainprompt.ListFilters) ([]domainprompt.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailList {
		return nil, ErrForced
	}
	var out []domainprompt.Prompt
	for _, id := range f.order {
		if p := f.rows[id]; p.Visibility == domainprompt.VisibilityPublic {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *FakePrompts) Update(_ context.Context, id, ownerID uuid.UUID, p domainprompt.Prompt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUpdate {
		return ErrForced
	}
	existing, ok := f.rows[id]
	if !ok || existing.AuthorID != ownerID {
		return errors.New("no rows updated")
	}
	p.ID, p.AuthorID = id, ownerID
	f.rows[id] = p
	return nil
}

func (f *FakePrompts) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDelete {
		return ErrForced
	}
	existing, ok := f.rows[id]
	if !ok || existing.AuthorID != ownerID {
		return errors.New("no rows deleted")
	}
	delete(f.rows, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *FakePrompts) SetPinned(_ context.Context, id, ownerID uuid.UUID, pinned bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSet {
		return ErrForced
	}
	p, ok := f.rows[id]
	if !ok || p.AuthorID != ownerID {
		return errors.New("no rows updated")
	}
	p.IsPinned = pinned
	f.rows[id] = p
	return nil
}

func (f *FakePrompts) SetFolder(_ context.Context, id, ownerID uuid.UUID, folderID *uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSet {
		return ErrForced
	}
	p, ok := f.rows[id]
	if !ok || p.AuthorID != ownerID {
		return errors.New("no rows updated")
	}
	p.FolderID = folderID
	f.rows[id] = p
	return nil
}

func (f *FakePrompts) IncrementUseCount(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailUseCount {
		return ErrForced
	}
	p, ok := f.rows[id]
	if !ok {
		return errors.New("prompt not found")
	}
	p.UseCount++
	f.rows[id] = p
	f.UseIncs = append(f.UseIncs, id)
	return nil
}

// Row returns the stored row for assertions.
func (f *FakePrompts) Row(id uuid.UUID) (domainprompt.Prompt, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	return p, ok
}

// FakeEngagement implements the engagement gateway over plain maps.
type FakeEngagement struct {
	mu        sync.Mutex
	favorites map[uuid.UUID]map[uuid.UUID]struct{}
	likes     map[uuid.UUID]map[uuid.UUID]struct{}

	FailSetFavorite bool
	FailSetLike     bool
}

func NewFakeEngagement() *FakeEngagement {
	return &FakeEngagement{
		favorites: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		likes:     make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (f *FakeEngagement) Favorites(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return keys(f.favorites[userID]), nil
}

func (f *FakeEngagement) Likes(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return keys(f.likes[userID]), nil
}

func (f *FakeEngagement) SetFavorite(_ context.Context, actor domainauth.State, promptID uuid.UUID, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSetFavorite {
		return ErrForced
	}
	setMembership(f.favorites, actor.UserID, promptID, on)
	return nil
}

func (f *FakeEngagement) SetLike(_ context.Context, actor domainauth.State, promptID uuid.UUID, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailSetLike {
		return ErrForced
	}
	setMembership(f.likes, actor.UserID, promptID, on)
	return nil
}

// HasLike reports remote like membership for assertions.
func (f *FakeEngagement) HasLike(userID, promptID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.likes[userID][promptID]
	return ok
}

// HasFavorite reports remote favorite membership for assertions.
func (f *FakeEngagement) HasFavorite(userID, promptID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.favorites[userID][promptID]
	return ok
}

// FakeFolders is an in-memory folder repository. When AssignIDs is set,
// Create replaces the client id with a fresh one, the way a server-assigned
// key would, to exercise id-swap reconciliation.
type FakeFolders struct {
	mu   sync.Mutex
	rows map[uuid.UUID]domainfolder.Folder

	AssignIDs  bool
	FailCreate bool
	FailDelete bool
}

func NewFakeFolders() *FakeFolders {
	return &FakeFolders{rows: make(map[uuid.UUID]domainfolder.Folder)}
}

func (f *FakeFolders) Create(_ context.Context, fl domainfolder.Folder) (domainfolder.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreate {
		return domainfolder.Folder{}, ErrForced
	}
	if f.AssignIDs {
		fl.ID = uuid.New()
	}
	f.rows[fl.ID] = fl
	return fl, nil
}

func (f *FakeFolders) ListForUser(_ context.Context, userID uuid.UUID) ([]domainfolder.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domainfolder.Folder
	for _, fl := range f.rows {
		if fl.UserID == userID {
			out = append(out, fl)
		}
	}
	return out, nil
}

func (f *FakeFolders) Rename(_ context.Context, id, userID uuid.UUID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.rows[id]
	if !ok || fl.UserID != userID {
		return errors.New("no rows updated")
	}
	fl.Name = name
	f.rows[id] = fl
	return nil
}

func (f *FakeFolders) Delete(_ context.Context, id, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailDelete {
		return ErrForced
	}
	fl, ok := f.rows[id]
	if !ok || fl.UserID != userID {
		return errors.New("no rows deleted")
	}
	delete(f.rows, id)
	return nil
}

// FakeHistory records appended snapshots in order.
type FakeHistory struct {
	mu      sync.Mutex
	Entries []domainhistory.Entry

	FailAppend bool
}

func NewFakeHistory() *FakeHistory {
	return &FakeHistory{}
}

func (f *FakeHistory) Append(_ context.Context, e domainhistory.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailAppend {
		return ErrForced
	}
	f.Entries = append(f.Entries, e)
	return nil
}

func (f *FakeHistory) ListForPrompt(_ context.Context, promptID uuid.UUID) ([]domainhistory.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domainhistory.Entry
	for _, e := range f.Entries {
		if e.PromptID == promptID {
			out = append(out, e)
		}
	}
	return out, nil
}

// ForPrompt returns recorded snapshots for one prompt.
func (f *FakeHistory) ForPrompt(promptID uuid.UUID) []domainhistory.Entry {
	out, _ := f.ListForPrompt(context.Background(), promptID)
	return out
}

func keys(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

func setMembership(m map[uuid.UUID]map[uuid.UUID]struct{}, userID, promptID uuid.UUID, on bool) {
	if m[userID] == nil {
		m[userID] = make(map[uuid.UUID]struct{})
	}
	if on {
		m[userID][promptID] = struct{}{}
	} else {
		delete(m[userID], promptID)
	}
}
