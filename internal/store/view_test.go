package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
	"github.com/komi0929/myprompt/internal/store"
)

func titles(prompts []domainprompt.Prompt) []string {
	out := make([]string, len(prompts))
	for i, p := range prompts {
		out[i] = p.Title
	}
	return out
}

func TestFilteredPrompts_LibraryShowsAuthoredAndFavorited(t *testing.T) {
	st := member()
	mine := ownPrompt(st, "mine")
	faved := publicPrompt("faved")
	other := publicPrompt("other")
	s, _ := newHydrated(t, st, mine, faved, other)
	s.ToggleFavorite(context.Background(), faved.ID)

	s.SetView(store.ViewLibrary)
	assert.ElementsMatch(t, []string{"mine", "faved"}, titles(s.FilteredPrompts()))
}

func TestFilteredPrompts_TrendNeverShowsPrivatePrompts(t *testing.T) {
	st := member()
	minePrivate := ownPrompt(st, "mine-private")
	pub := publicPrompt("pub")
	s, _ := newHydrated(t, st, minePrivate, pub)

	s.SetView(store.ViewTrend)
	got := titles(s.FilteredPrompts())

	assert.Equal(t, []string{"pub"}, got, "private prompts are invisible in trend even to their author")
}

func TestFilteredPrompts_PhaseAndVisibilityFilters(t *testing.T) {
	st := member()
	debug := ownPrompt(st, "debug")
	debug.Phase = domainprompt.PhaseDebug
	design := ownPrompt(st, "design")
	design.Phase = domainprompt.PhaseDesign
	s, _ := newHydrated(t, st, debug, design)

	phase := domainprompt.PhaseDebug
	s.SetPhaseFilter(&phase)
	assert.Equal(t, []string{"debug"}, titles(s.FilteredPrompts()))

	s.SetPhaseFilter(nil) // back to the All sentinel
	assert.Len(t, s.FilteredPrompts(), 2)

	vis := domainprompt.VisibilityPublic
	s.SetVisibilityFilter(&vis)
	assert.Empty(t, s.FilteredPrompts())
}

func TestFilteredPrompts_FolderFilter(t *testing.T) {
	st := member()
	s, _ := newHydrated(t, st)
	folderID := s.AddFolder(context.Background(), "work", "#fff")
	inFolder := s.AddPrompt(context.Background(), store.AddInput{Title: "in", Content: "c", FolderID: &folderID})
	s.AddPrompt(context.Background(), store.AddInput{Title: "out", Content: "c"})

	s.SetFolderFilter(&folderID)
	got := s.FilteredPrompts()
	require.Len(t, got, 1)
	assert.Equal(t, inFolder, got[0].ID)
}

func TestFilteredPrompts_TagSearch(t *testing.T) {
	st := member()
	a := ownPrompt(st, "A")
	a.Tags = []string{"x"}
	b := ownPrompt(st, "B")
	b.Tags = []string{"y"}
	s, _ := newHydrated(t, st, a, b)

	s.SetSearchQuery("#x")
	assert.Equal(t, []string{"A"}, titles(s.FilteredPrompts()))

	s.SetSearchQuery("#X")
	assert.Equal(t, []string{"A"}, titles(s.FilteredPrompts()), "tag match is case-insensitive")

	s.SetSearchQuery("#z")
	assert.Empty(t, s.FilteredPrompts())
}

func TestFilteredPrompts_SubstringSearchCoversTitleContentTags(t *testing.T) {
	st := member()
	byTitle := ownPrompt(st, "Deploy checklist")
	byContent := ownPrompt(st, "B")
	byContent.Content = "how to deploy safely"
	byTag := ownPrompt(st, "C")
	byTag.Tags = []string{"deployment"}
	miss := ownPrompt(st, "D")
	s, _ := newHydrated(t, st, byTitle, byContent, byTag, miss)

	s.SetSearchQuery("DEPLOY")
	assert.ElementsMatch(t, []string{"Deploy checklist", "B", "C"}, titles(s.FilteredPrompts()))
}

func TestFilteredPrompts_SortOrders(t *testing.T) {
	st := member()
	a := ownPrompt(st, "banana")
	a.UseCount, a.LikeCount = 1, 5
	b := ownPrompt(st, "apple")
	b.UseCount, b.LikeCount = 3, 1
	c := ownPrompt(st, "cherry")
	c.UseCount, c.LikeCount = 2, 9
	s, _ := newHydrated(t, st, a, b, c)

	tests := []struct {
		name string
		sort store.SortKey
		want []string
	}{
		{"updated keeps store order", store.SortUpdated, []string{"banana", "apple", "cherry"}},
		{"usecount desc", store.SortUseCount, []string{"apple", "cherry", "banana"}},
		{"likes desc", store.SortLikes, []string{"cherry", "banana", "apple"}},
		{"title locale-aware", store.SortTitle, []string{"apple", "banana", "cherry"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetSort(tt.sort)
			assert.Equal(t, tt.want, titles(s.FilteredPrompts()))
		})
	}
}

func TestFilteredPrompts_PinPartitionIsUnconditionalAndStable(t *testing.T) {
	st := member()
	a := ownPrompt(st, "a")
	b := ownPrompt(st, "b")
	b.IsPinned = true
	c := ownPrompt(st, "c")
	d := ownPrompt(st, "d")
	d.IsPinned = true
	s, _ := newHydrated(t, st, a, b, c, d)

	for _, k := range []store.SortKey{store.SortUpdated, store.SortUseCount, store.SortLikes, store.SortTitle} {
		s.SetSort(k)
		got := titles(s.FilteredPrompts())
		require.Len(t, got, 4, "sort %s", k)
		assert.Equal(t, []string{"b", "d"}, got[:2], "pinned first under sort %s, relative order kept", k)
	}
}

func TestFilteredPrompts_ReturnsCopySafeForConcurrentReads(t *testing.T) {
	st := member()
	p := ownPrompt(st, "shared")
	s, _ := newHydrated(t, st, p)

	got := s.FilteredPrompts()
	got[0].Title = "mutated by caller"

	fresh := s.FilteredPrompts()
	assert.Equal(t, "shared", fresh[0].Title)
}

func TestSelect_IgnoresUnknownID(t *testing.T) {
	st := member()
	p := ownPrompt(st, "only")
	s, _ := newHydrated(t, st, p)

	s.Select(uuid.New())
	assert.Equal(t, p.ID, s.Selected())
}
