package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePromptCreated       Type = "prompt_created"
	TypePromptUpdated       Type = "prompt_updated"
	TypePromptDeleted       Type = "prompt_deleted"
	TypePromptLiked         Type = "prompt_liked"
	TypePromptFavorited     Type = "prompt_favorited"
	TypePromptForked        Type = "prompt_forked"
	TypeNotificationCreated Type = "notification_created"
	TypeFeedbackCreated     Type = "feedback_created"
	TypeContactCreated      Type = "contact_created"
)

// Channel is a domain-scoped Postgres NOTIFY channel.
// All event types within a domain share one LISTEN connection.
type Channel string

const (
	ChannelPrompt       Channel = "prompt"
	ChannelEngagement   Channel = "engagement"
	ChannelNotification Channel = "notification"
	ChannelAdmin        Channel = "admin"
)

var typeToChannel = map[Type]Channel{
	TypePromptCreated:       ChannelPrompt,
	TypePromptUpdated:       ChannelPrompt,
	TypePromptDeleted:       ChannelPrompt,
	TypePromptLiked:         ChannelEngagement,
	TypePromptFavorited:     ChannelEngagement,
	TypePromptForked:        ChannelEngagement,
	TypeNotificationCreated: ChannelNotification,
	TypeFeedbackCreated:     ChannelAdmin,
	TypeContactCreated:      ChannelAdmin,
}

// ChannelFor returns the domain channel for a given event type.
func ChannelFor(t Type) Channel { return typeToChannel[t] }

// Event carries identifiers only, not full state.
// Subscribers fetch fresh state from the appropriate repository.
// UserID, when set, names the single recipient the event concerns;
// fan-out layers deliver such events to that user only.
type Event struct {
	Type      Type       `json:"type"`
	EntityID  uuid.UUID  `json:"entity_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

func New(eventType Type, entityID uuid.UUID) Event {
	return Event{
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

// NewFor builds an event addressed to a single user.
func NewFor(eventType Type, entityID, userID uuid.UUID) Event {
	e := New(eventType, entityID)
	e.UserID = &userID
	return e
}
