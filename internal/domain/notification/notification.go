package notification

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeLike     Type = "like"
	TypeFavorite Type = "favorite"
	TypeFork     Type = "fork"
)

// Notification tells a prompt's author that someone engaged with it.
// Marked read in bulk when the owner opens the notification panel.
type Notification struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Type        Type      `json:"type"`
	PromptID    uuid.UUID `json:"prompt_id"`
	PromptTitle string    `json:"prompt_title"`
	ActorName   string    `json:"actor_name"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

func New(userID uuid.UUID, t Type, promptID uuid.UUID, promptTitle, actorName string) Notification {
	return Notification{
		ID:          uuid.New(),
		UserID:      userID,
		Type:        t,
		PromptID:    promptID,
		PromptTitle: promptTitle,
		ActorName:   actorName,
		CreatedAt:   time.Now().UTC(),
	}
}
