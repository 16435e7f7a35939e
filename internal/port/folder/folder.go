package folder

import (
	"context"

	"github.com/google/uuid"

	domainfolder "github.com/komi0929/myprompt/internal/domain/folder"
)

type Repository interface {
	Create(ctx context.Context, f domainfolder.Folder) (domainfolder.Folder, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domainfolder.Folder, error)
	Rename(ctx context.Context, id, userID uuid.UUID, name string) error

	// Delete detaches member prompts (folder_id set NULL) before removing the
	// folder row. Prompts are never deleted with their folder.
	Delete(ctx context.Context, id, userID uuid.UUID) error
}
