package prompt

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phase classifies where in a development workflow a prompt is used.
type Phase string

const (
	PhasePlanning       Phase = "planning"
	PhaseDesign         Phase = "design"
	PhaseImplementation Phase = "implementation"
	PhaseDebug          Phase = "debug"
	PhaseRelease        Phase = "release"
	PhaseOther          Phase = "other"
)

var validPhases = map[Phase]bool{
	PhasePlanning:       true,
	PhaseDesign:         true,
	PhaseImplementation: true,
	PhaseDebug:          true,
	PhaseRelease:        true,
	PhaseOther:          true,
}

// ParsePhase coerces arbitrary input to a valid phase. Anything unrecognized
// maps to PhaseOther rather than failing.
func ParsePhase(s string) Phase {
	p := Phase(strings.ToLower(strings.TrimSpace(s)))
	if validPhases[p] {
		return p
	}
	return PhaseOther
}

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// ParseVisibility coerces to public only on exact match, else private.
func ParseVisibility(s string) Visibility {
	if Visibility(s) == VisibilityPublic {
		return VisibilityPublic
	}
	return VisibilityPrivate
}

// Rating is an optional tri-state self-assessment.
type Rating string

const (
	RatingGood    Rating = "good"
	RatingNeutral Rating = "neutral"
	RatingBad     Rating = "bad"
)

type Prompt struct {
	ID       uuid.UUID `json:"id"`
	AuthorID uuid.UUID `json:"author_id"`

	Title   string   `json:"title"`
	Content string   `json:"content"`
	Notes   string   `json:"notes,omitempty"`
	Tags    []string `json:"tags"`

	Phase      Phase      `json:"phase"`
	Visibility Visibility `json:"visibility"`

	LikeCount int     `json:"like_count"`
	UseCount  int     `json:"use_count"`
	IsPinned  bool    `json:"is_pinned"`
	Rating    *Rating `json:"rating,omitempty"`

	// One-hop lineage: a forked (arranged) prompt points at its source.
	// No deeper ancestry is maintained.
	IsOriginal bool       `json:"is_original"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`

	FolderID *uuid.UUID `json:"folder_id,omitempty"`

	// Denormalized from the profile row at read time, for display only.
	AuthorName      string `json:"author_name,omitempty"`
	AuthorAvatarURL string `json:"author_avatar_url,omitempty"`

	UpdatedAt  time.Time  `json:"updated_at"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

func New(authorID uuid.UUID, title, content string, phase Phase, visibility Visibility) Prompt {
	now := time.Now().UTC()
	return Prompt{
		ID:         uuid.New(),
		AuthorID:   authorID,
		Title:      title,
		Content:    content,
		Tags:       []string{},
		Phase:      phase,
		Visibility: visibility,
		IsOriginal: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// HasTag reports whether the prompt carries the tag, case-insensitively.
func (p Prompt) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type ListFilters struct {
	AuthorID   *uuid.UUID
	Visibility *Visibility
	Phase      *Phase
	FolderID   *uuid.UUID
	Search     string
	Limit      int
}
