package history

import (
	"time"

	"github.com/google/uuid"
)

// Entry is an immutable full snapshot of a prompt's title and content,
// written every time either changes. Entries are never mutated or deleted.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	PromptID  uuid.UUID `json:"prompt_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func New(promptID uuid.UUID, title, content string) Entry {
	return Entry{
		ID:        uuid.New(),
		PromptID:  promptID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
