package store

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
)

// View selects which slice of the world the list shows.
type View string

const (
	// ViewLibrary shows prompts the user authored or favorited.
	ViewLibrary View = "library"
	// ViewTrend shows public prompts from everyone.
	ViewTrend View = "trend"
)

type SortKey string

const (
	SortUpdated  SortKey = "updated" // default remote order
	SortUseCount SortKey = "usecount"
	SortLikes    SortKey = "likes"
	SortTitle    SortKey = "title"
)

// ViewState is the current filter/sort configuration. Nil pointer fields are
// the "All" sentinels.
type ViewState struct {
	View       View
	Phase      *domainprompt.Phase
	Visibility *domainprompt.Visibility
	FolderID   *uuid.UUID
	Search     string
	Sort       SortKey
}

func defaultViewState() ViewState {
	return ViewState{View: ViewLibrary, Sort: SortUpdated}
}

func (s *Store) SetView(v View) {
	s.mu.Lock()
	s.view.View = v
	s.mu.Unlock()
}

func (s *Store) SetPhaseFilter(p *domainprompt.Phase) {
	s.mu.Lock()
	s.view.Phase = p
	s.mu.Unlock()
}

func (s *Store) SetVisibilityFilter(v *domainprompt.Visibility) {
	s.mu.Lock()
	s.view.Visibility = v
	s.mu.Unlock()
}

func (s *Store) SetFolderFilter(id *uuid.UUID) {
	s.mu.Lock()
	s.view.FolderID = id
	s.mu.Unlock()
}

func (s *Store) SetSearchQuery(q string) {
	s.mu.Lock()
	s.view.Search = q
	s.mu.Unlock()
}

func (s *Store) SetSort(k SortKey) {
	s.mu.Lock()
	s.view.Sort = k
	s.mu.Unlock()
}

func (s *Store) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// FilteredPrompts recomputes the derived view on every call: view filter,
// phase, visibility, folder, search, sort, then the unconditional pin
// partition, applied after sorting, preserving relative order within each
// half.
func (s *Store) FilteredPrompts() []domainprompt.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domainprompt.Prompt, 0, len(s.prompts))
	for _, p := range s.prompts {
		if !s.matchesViewLocked(p) || !s.matchesFiltersLocked(p) {
			continue
		}
		out = append(out, p)
	}

	switch s.view.Sort {
	case SortUseCount:
		sort.SliceStable(out, func(i, j int) bool { return out[i].UseCount > out[j].UseCount })
	case SortLikes:
		sort.SliceStable(out, func(i, j int) bool { return out[i].LikeCount > out[j].LikeCount })
	case SortTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return s.collator.CompareString(out[i].Title, out[j].Title) < 0
		})
	default:
		// SortUpdated keeps the collection order, which is the remote order
		// (updated desc) with optimistic prepends at the front.
	}

	return pinPartition(out)
}

// matchesViewLocked requires s.mu held.
func (s *Store) matchesViewLocked(p domainprompt.Prompt) bool {
	switch s.view.View {
	case ViewTrend:
		return p.Visibility == domainprompt.VisibilityPublic
	default: // ViewLibrary
		if p.AuthorID == s.auth.UserID && !s.auth.IsGuest {
			return true
		}
		_, fav := s.favorites[p.ID]
		return fav
	}
}

// matchesFiltersLocked requires s.mu held.
func (s *Store) matchesFiltersLocked(p domainprompt.Prompt) bool {
	if s.view.Phase != nil && p.Phase != *s.view.Phase {
		return false
	}
	if s.view.Visibility != nil && p.Visibility != *s.view.Visibility {
		return false
	}
	if s.view.FolderID != nil {
		if p.FolderID == nil || *p.FolderID != *s.view.FolderID {
			return false
		}
	}
	return matchesSearch(p, s.view.Search)
}

// matchesSearch: a query starting with # matches the exact tag
// case-insensitively; anything else is a case-insensitive substring match
// against title, content, or any tag.
func matchesSearch(p domainprompt.Prompt, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	if tag, ok := strings.CutPrefix(q, "#"); ok {
		return p.HasTag(tag)
	}
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Content), q) {
		return true
	}
	for _, t := range p.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// pinPartition moves pinned prompts to the front, keeping relative order
// within each partition. Always the final step, after sorting.
func pinPartition(prompts []domainprompt.Prompt) []domainprompt.Prompt {
	pinned := make([]domainprompt.Prompt, 0, len(prompts))
	rest := make([]domainprompt.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if p.IsPinned {
			pinned = append(pinned, p)
		} else {
			rest = append(rest, p)
		}
	}
	return append(pinned, rest...)
}
