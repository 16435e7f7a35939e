package folder

import (
	"time"

	"github.com/google/uuid"
)

// Folder groups prompts for one user. Deleting a folder detaches its member
// prompts; it never deletes them.
type Folder struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

func New(userID uuid.UUID, name, color string, sortOrder int) Folder {
	return Folder{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Color:     color,
		SortOrder: sortOrder,
		CreatedAt: time.Now().UTC(),
	}
}
