package feedback

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusDeclined   Status = "declined"
)

type Category string

const (
	CategoryBug     Category = "bug"
	CategoryRequest Category = "request"
	CategoryOther   Category = "other"
)

// Feedback is a user-submitted report or request, voted on by visitors and
// triaged from the admin dashboard.
type Feedback struct {
	ID            uuid.UUID  `json:"id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"` // nil for anonymous submissions
	Category      Category   `json:"category"`
	Body          string     `json:"body"`
	ScreenshotURL string     `json:"screenshot_url,omitempty"`
	Status        Status     `json:"status"`
	LikeCount     int        `json:"like_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func New(userID *uuid.UUID, category Category, body, screenshotURL string) Feedback {
	now := time.Now().UTC()
	return Feedback{
		ID:            uuid.New(),
		UserID:        userID,
		Category:      category,
		Body:          body,
		ScreenshotURL: screenshotURL,
		Status:        StatusOpen,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
