package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
	"github.com/komi0929/myprompt/internal/store"
	"github.com/komi0929/myprompt/internal/testutil"
)

// ── helpers ───────────────────────────────────────────────────────────────────

type fixtures struct {
	prompts *testutil.FakePrompts
	eng     *testutil.FakeEngagement
	folders *testutil.FakeFolders
	history *testutil.FakeHistory
}

func (f fixtures) gateway() store.Gateway {
	return store.Gateway{
		Prompts:    f.prompts,
		Engagement: f.eng,
		Folders:    f.folders,
		History:    f.history,
	}
}

func member() domainauth.State {
	return domainauth.State{
		UserID:      uuid.New(),
		Email:       "alice@example.com",
		DisplayName: "alice",
	}
}

func ownPrompt(st domainauth.State, title string) domainprompt.Prompt {
	p := domainprompt.New(st.UserID, title, "content of "+title, domainprompt.PhaseOther, domainprompt.VisibilityPrivate)
	return p
}

func publicPrompt(title string) domainprompt.Prompt {
	return domainprompt.New(uuid.New(), title, "content of "+title, domainprompt.PhaseOther, domainprompt.VisibilityPublic)
}

func newHydrated(t *testing.T, st domainauth.State, seed ...domainprompt.Prompt) (*store.Store, fixtures) {
	t.Helper()
	f := fixtures{
		prompts: testutil.NewFakePrompts(seed...),
		eng:     testutil.NewFakeEngagement(),
		folders: testutil.NewFakeFolders(),
		history: testutil.NewFakeHistory(),
	}
	s := store.New(st, f.gateway())
	require.NoError(t, s.Hydrate(context.Background()))
	return s, f
}

// ── hydration ─────────────────────────────────────────────────────────────────

func TestHydrate_InstallsCollectionsAndAutoSelects(t *testing.T) {
	st := member()
	a := ownPrompt(st, "A")
	b := ownPrompt(st, "B")
	s, _ := newHydrated(t, st, a, b)

	assert.True(t, s.Hydrated())
	assert.Len(t, s.Prompts(), 2)
	assert.Equal(t, a.ID, s.Selected(), "first prompt auto-selected after hydration")
}

func TestHydrate_CancelledContextLeavesStoreUntouched(t *testing.T) {
	st := member()
	f := fixtures{
		prompts: testutil.NewFakePrompts(ownPrompt(st, "A")),
		eng:     testutil.NewFakeEngagement(),
		folders: testutil.NewFakeFolders(),
		history: testutil.NewFakeHistory(),
	}
	s := store.New(st, f.gateway())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Hydrate(ctx)

	require.Error(t, err)
	assert.False(t, s.Hydrated())
	assert.Empty(t, s.Prompts())
}

func TestHydrate_Guest_SeesOnlyPublicPrompts(t *testing.T) {
	pub := publicPrompt("Pub")
	priv := domainprompt.New(uuid.New(), "Priv", "secret", domainprompt.PhaseOther, domainprompt.VisibilityPrivate)
	s, _ := newHydrated(t, domainauth.Guest(), pub, priv)

	got := s.Prompts()
	require.Len(t, got, 1)
	assert.Equal(t, "Pub", got[0].Title)
}

func TestAutoSelect_ReevaluatedWhenPromptsAppear(t *testing.T) {
	st := member()
	s, _ := newHydrated(t, st)
	assert.Equal(t, uuid.Nil, s.Selected())

	id := s.AddPrompt(context.Background(), store.AddInput{Title: "first", Content: "c"})
	require.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, id, s.Selected(), "newly added prompt becomes selected")
}

// ── add / update / delete ─────────────────────────────────────────────────────

func TestAddPrompt_GuestReturnsNilAndChangesNothing(t *testing.T) {
	s, f := newHydrated(t, domainauth.Guest())

	id := s.AddPrompt(context.Background(), store.AddInput{Title: "x", Content: "y"})

	assert.Equal(t, uuid.Nil, id)
	assert.Empty(t, s.Prompts())
	assert.Empty(t, f.history.Entries)
}

func TestAddPrompt_PrependsSelectsAndSnapshotsHistory(t *testing.T) {
	st := member()
	s, f := newHydrated(t, st, ownPrompt(st, "existing"))

	id := s.AddPrompt(context.Background(), store.AddInput{
		Title:      "new",
		Content:    "body",
		Tags:       []string{"go"},
		Phase:      domainprompt.PhaseDebug,
		Visibility: domainprompt.VisibilityPublic,
	})

	require.NotEqual(t, uuid.Nil, id)
	got := s.Prompts()
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].Title, "new prompt prepended")
	assert.Equal(t, id, s.Selected())

	snaps := f.history.ForPrompt(id)
	require.Len(t, snaps, 1)
	assert.Equal(t, "new", snaps[0].Title)
	assert.Equal(t, "body", snaps[0].Content)
}

func TestAddPrompt_PersistenceFailureReturnsNil(t *testing.T) {
	st := member()
	s, f := newHydrated(t, st)
	f.prompts.FailCreate = true

	id := s.AddPrompt(context.Background(), store.AddInput{Title: "x", Content: "y"})

	assert.Equal(t, uuid.Nil, id)
	assert.Empty(t, s.Prompts())
}

func TestMutationRecorder_SeesCommitsAndRollbacks(t *testing.T) {
	st := member()
	p := ownPrompt(st, "A")

	type outcome struct {
		action    string
		committed bool
	}
	var seen []outcome
	f := fixtures{
		prompts: testutil.NewFakePrompts(p),
		eng:     testutil.NewFakeEngagement(),
		folders: testutil.NewFakeFolders(),
		history: testutil.NewFakeHistory(),
	}
	s := store.New(st, f.gateway(), store.WithMutationRecorder(func(action string, committed bool) {
		seen = append(seen, outcome{action, committed})
	}))
	require.NoError(t, s.Hydrate(context.Background()))

	title := "B"
	require.True(t, s.UpdatePrompt(context.Background(), p.ID, store.Patch{Title: &title}))

	f.prompts.FailUpdate = true
	title = "C"
	require.False(t, s.UpdatePrompt(context.Background(), p.ID, store.Patch{Title: &title}))

	assert.Equal(t, []outcome{
		{"update_prompt", true},
		{"update_prompt", false},
	}, seen)
}

func TestAddPrompt_ForkRecordsLineage(t *testing.T) {
	st := member()
	src := publicPrompt("Source")
	s, _ := newHydrated(t, st, src)

	id := s.AddPrompt(context.Background(), store.AddInput{
		Title:    "Source (arranged)",
		Content:  src.Content,
		ParentID: &src.ID,
	})

	p, ok := s.Get(id)
	require.True(t, ok)
	assert.False(t, p.IsOriginal)
	require.NotNil(t, p.ParentID)
	assert.Equal(t, src.ID, *p.ParentID)
}

func TestUpdatePrompt_SnapshotsPostUpdateValues(t *testing.T) {
	st := member()
	p := ownPrompt(st, "before")
	s, f := newHydrated(t, st, p)

	title := "after"
	ok := s.UpdatePrompt(context.Background(), p.ID, store.Patch{Title: &title})

	require.True(t, ok)
	got, _ := s.Get(p.ID)
	assert.Equal(t, "after", got.Title)
	assert.True(t, got.UpdatedAt.After(p.UpdatedAt) || got.UpdatedAt.Equal(p.UpdatedAt))

	snaps := f.history.ForPrompt(p.ID)
	require.Len(t, snaps, 1)
	assert.Equal(t, "after", snaps[0].Title, "snapshot uses post-update values")
}

func TestUpdatePrompt_NoSnapshotWhenOnlyMetadataChanged(t *testing.T) {
	st := member()
	p := ownPrompt(st, "stable")
	s, f := newHydrated(t, st, p)

	phase := domainprompt.PhaseRelease
	require.True(t, s.UpdatePrompt(context.Background(), p.ID, store.Patch{Phase: &phase}))

	assert.Empty(t, f.history.ForPrompt(p.ID))
}

func TestUpdatePrompt_RemoteFailureKeepsOptimisticValueUntilRefresh(t *testing.T) {
	st := member()
	p := ownPrompt(st, "before")
	s, f := newHydrated(t, st, p)
	f.prompts.FailUpdate = true

	title := "after"
	ok := s.UpdatePrompt(context.Background(), p.ID, store.Patch{Title: &title})

	assert.False(t, ok)
	got, _ := s.Get(p.ID)
	assert.Equal(t, "after", got.Title, "no rollback for updates; refresh reconciles")

	f.prompts.FailUpdate = false
	require.NoError(t, s.Refresh(context.Background()))
	got, _ = s.Get(p.ID)
	assert.Equal(t, "before", got.Title, "refresh replaces, never merges")
}

func TestDeletePrompt_PurgesAllCollectionsAndSelection(t *testing.T) {
	st := member()
	p := ownPrompt(st, "doomed")
	s, _ := newHydrated(t, st, p)
	s.ToggleFavorite(context.Background(), p.ID)
	s.ToggleLike(context.Background(), p.ID)
	s.Select(p.ID)

	ok := s.DeletePrompt(context.Background(), p.ID)

	require.True(t, ok)
	assert.Empty(t, s.Prompts())
	assert.False(t, s.IsFavorite(p.ID))
	assert.False(t, s.IsLiked(p.ID))
	assert.Equal(t, uuid.Nil, s.Selected())
}

func TestDeletePrompt_UnknownIDIsNoOp(t *testing.T) {
	st := member()
	s, _ := newHydrated(t, st, ownPrompt(st, "keep"))

	assert.False(t, s.DeletePrompt(context.Background(), uuid.New()))
	assert.Len(t, s.Prompts(), 1)
}

// ── toggles ───────────────────────────────────────────────────────────────────

func TestToggleLike_TwiceReturnsToOriginalState(t *testing.T) {
	st := member()
	p := publicPrompt("liked")
	s, f := newHydrated(t, st, p)

	require.True(t, s.ToggleLike(context.Background(), p.ID))
	got, _ := s.Get(p.ID)
	assert.Equal(t, 1, got.LikeCount)
	assert.True(t, s.IsLiked(p.ID))
	assert.True(t, f.eng.HasLike(st.UserID, p.ID))

	require.True(t, s.ToggleLike(context.Background(), p.ID))
	got, _ = s.Get(p.ID)
	assert.Equal(t, 0, got.LikeCount)
	assert.False(t, s.IsLiked(p.ID))
	assert.False(t, f.eng.HasLike(st.UserID, p.ID))
}

func TestToggleLike_GuestIsNoOpBeforeAnyOptimisticChange(t *testing.T) {
	p := publicPrompt("liked")
	s, f := newHydrated(t, domainauth.Guest(), p)

	assert.False(t, s.ToggleLike(context.Background(), p.ID))
	got, _ := s.Get(p.ID)
	assert.Equal(t, 0, got.LikeCount)
	assert.False(t, f.eng.HasLike(uuid.Nil, p.ID))
}

func TestToggleLike_RollsBackCountAndMembershipOnFailure(t *testing.T) {
	st := member()
	p := publicPrompt("liked")
	s, f := newHydrated(t, st, p)
	f.eng.FailSetLike = true

	assert.False(t, s.ToggleLike(context.Background(), p.ID))

	got, _ := s.Get(p.ID)
	assert.Equal(t, 0, got.LikeCount, "optimistic +1 rolled back")
	assert.False(t, s.IsLiked(p.ID))
}

func TestToggleFavorite_NotGuestGatedAtStoreLayer(t *testing.T) {
	// Favorites rely on call-site gating; the store itself lets a guest
	// toggle. This mirrors the original asymmetry with ToggleLike.
	p := publicPrompt("fav")
	s, _ := newHydrated(t, domainauth.Guest(), p)

	assert.True(t, s.ToggleFavorite(context.Background(), p.ID))
	assert.True(t, s.IsFavorite(p.ID))
}

func TestToggleFavorite_RollsBackOnFailure(t *testing.T) {
	st := member()
	p := publicPrompt("fav")
	s, f := newHydrated(t, st, p)
	f.eng.FailSetFavorite = true

	assert.False(t, s.ToggleFavorite(context.Background(), p.ID))
	assert.False(t, s.IsFavorite(p.ID))
}

func TestTogglePin_CapAtFiveIsSilent(t *testing.T) {
	st := member()
	var seed []domainprompt.Prompt
	for _, title := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		seed = append(seed, ownPrompt(st, title))
	}
	s, _ := newHydrated(t, st, seed...)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		assert.True(t, s.TogglePin(ctx, seed[i].ID))
	}
	assert.Equal(t, 5, s.PinnedCount())

	// Sixth pin: rejected silently, nothing changes.
	assert.False(t, s.TogglePin(ctx, seed[5].ID))
	assert.Equal(t, 5, s.PinnedCount())
	p, _ := s.Get(seed[5].ID)
	assert.False(t, p.IsPinned)

	// Unpinning frees a slot; the cap check runs at toggle time.
	assert.True(t, s.TogglePin(ctx, seed[0].ID))
	assert.True(t, s.TogglePin(ctx, seed[5].ID))
	assert.Equal(t, 5, s.PinnedCount())
}

func TestIncrementUseCount_BestEffortNoRollback(t *testing.T) {
	st := member()
	p := ownPrompt(st, "used")
	s, f := newHydrated(t, st, p)

	s.IncrementUseCount(context.Background(), p.ID)

	got, _ := s.Get(p.ID)
	assert.Equal(t, 1, got.UseCount)
	require.NotNil(t, got.LastUsedAt)

	require.Eventually(t, func() bool {
		row, ok := f.prompts.Row(p.ID)
		return ok && row.UseCount == 1
	}, time.Second, 5*time.Millisecond, "remote increment fired in the background")
}

func TestIncrementUseCount_RemoteFailureKeepsLocalIncrement(t *testing.T) {
	st := member()
	p := ownPrompt(st, "used")
	s, f := newHydrated(t, st, p)
	f.prompts.FailUseCount = true

	s.IncrementUseCount(context.Background(), p.ID)

	got, _ := s.Get(p.ID)
	assert.Equal(t, 1, got.UseCount, "local increment survives a dropped remote call")
}

// ── folders ───────────────────────────────────────────────────────────────────

func TestAddFolder_IDSwapReconciliation(t *testing.T) {
	st := member()
	s, f := newHydrated(t, st)
	f.folders.AssignIDs = true

	id := s.AddFolder(context.Background(), "work", "#ff0000")

	require.NotEqual(t, uuid.Nil, id)
	folders := s.Folders()
	require.Len(t, folders, 1)
	assert.Equal(t, id, folders[0].ID, "temp id patched to the server-assigned one")
}

func TestAddFolder_FailureLeavesTempEntryUntilRefresh(t *testing.T) {
	st := member()
	s, f := newHydrated(t, st)
	f.folders.FailCreate = true

	id := s.AddFolder(context.Background(), "work", "#ff0000")

	require.NotEqual(t, uuid.Nil, id)
	assert.Len(t, s.Folders(), 1, "optimistic insert kept; refresh reconciles")

	f.folders.FailCreate = false
	require.NoError(t, s.Refresh(context.Background()))
	assert.Empty(t, s.Folders())
}

func TestDeleteFolder_DetachesMemberPromptsLocally(t *testing.T) {
	st := member()
	s, _ := newHydrated(t, st)
	folderID := s.AddFolder(context.Background(), "work", "#fff")
	require.NotEqual(t, uuid.Nil, folderID)

	pid := s.AddPrompt(context.Background(), store.AddInput{Title: "in folder", Content: "c", FolderID: &folderID})
	require.NotEqual(t, uuid.Nil, pid)

	require.True(t, s.DeleteFolder(context.Background(), folderID))

	p, _ := s.Get(pid)
	assert.Nil(t, p.FolderID, "member prompts detached, not deleted")
	assert.Len(t, s.Prompts(), 1)
	assert.Empty(t, s.Folders())
}

func TestMoveToFolder_SetAndClear(t *testing.T) {
	st := member()
	s, _ := newHydrated(t, st)
	folderID := s.AddFolder(context.Background(), "work", "#fff")
	pid := s.AddPrompt(context.Background(), store.AddInput{Title: "p", Content: "c"})

	require.True(t, s.MoveToFolder(context.Background(), pid, &folderID))
	p, _ := s.Get(pid)
	require.NotNil(t, p.FolderID)
	assert.Equal(t, folderID, *p.FolderID)

	require.True(t, s.MoveToFolder(context.Background(), pid, nil))
	p, _ = s.Get(pid)
	assert.Nil(t, p.FolderID)
}

// ── ownership scoping ─────────────────────────────────────────────────────────

func TestUpdatePrompt_NeverLandsOnSomeoneElsesPrompt(t *testing.T) {
	st := member()
	other := publicPrompt("theirs")
	s, f := newHydrated(t, st, other)

	title := "hijacked"
	ok := s.UpdatePrompt(context.Background(), other.ID, store.Patch{Title: &title})

	assert.False(t, ok, "owner-scoped update refuses a foreign prompt")
	row, _ := f.prompts.Row(other.ID)
	assert.Equal(t, "theirs", row.Title)
}
