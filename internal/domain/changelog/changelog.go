package changelog

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one published release note shown on the changelog page.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	Version     string    `json:"version"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func New(version, title, body string, publishedAt time.Time) Entry {
	return Entry{
		ID:          uuid.New(),
		Version:     version,
		Title:       title,
		Body:        body,
		PublishedAt: publishedAt,
		CreatedAt:   time.Now().UTC(),
	}
}
