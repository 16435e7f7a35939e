package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Profile is the display identity for a user. Auth itself (tokens, sessions)
// lives with the hosted provider; this row is lazily self-healed the first
// time an authenticated user is seen without one.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DefaultDisplayName derives a display name from an email local part.
func DefaultDisplayName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "user"
}
