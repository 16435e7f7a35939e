package analytics

import (
	"time"

	"github.com/google/uuid"
)

// Event is one raw client-reported analytics event. Rows are append-only;
// the daily KPI aggregation reads them server-side.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Name      string     `json:"name"`
	SessionID string     `json:"session_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewEvent(userID *uuid.UUID, name, sessionID string) Event {
	return Event{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		SessionID: sessionID,
		CreatedAt: time.Now().UTC(),
	}
}

// DailyKPI is one aggregated row per calendar date, computed by the
// aggregate_daily_kpi server-side routine.
type DailyKPI struct {
	Date           time.Time `json:"date"`
	ActiveUsers    int       `json:"active_users"`
	PromptsCreated int       `json:"prompts_created"`
	PromptsCopied  int       `json:"prompts_copied"`
	Likes          int       `json:"likes"`
	Signups        int       `json:"signups"`
}
