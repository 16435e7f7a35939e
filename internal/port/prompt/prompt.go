package prompt

import (
	"context"

	"github.com/google/uuid"

	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
)

// Repository is the storage abstraction for prompts.
// [DIP] store and service/prompt depend on this interface, not on Postgres.
type Repository interface {
	Create(ctx context.Context, p domainprompt.Prompt) (domainprompt.Prompt, error)

	// GetVisible returns the prompt only if the viewer may see it:
	// the viewer authored it, or it is public. Private prompts never leak
	// past this check.
	GetVisible(ctx context.Context, id, viewerID uuid.UUID) (domainprompt.Prompt, error)

	// ListVisible returns every prompt the user may see: authored by them,
	// public, or currently favorited by them. This is the store's hydration set.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]domainprompt.Prompt, error)

	// ListPublic serves the anonymous trend view.
	ListPublic(ctx context.Context, filters domainprompt.ListFilters) ([]domainprompt.Prompt, error)

	// Update is owner-scoped: the WHERE clause carries id AND author_id, so an
	// update can never land on a prompt owned by someone else.
	Update(ctx context.Context, id, ownerID uuid.UUID, p domainprompt.Prompt) error

	// Delete is owner-scoped like Update.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// SetPinned and SetFolder are narrow owner-scoped field updates.
	SetPinned(ctx context.Context, id, ownerID uuid.UUID, pinned bool) error
	SetFolder(ctx context.Context, id, ownerID uuid.UUID, folderID *uuid.UUID) error

	// IncrementUseCount is a server-side atomic counter; a plain row update
	// would race under concurrent copies.
	IncrementUseCount(ctx context.Context, id uuid.UUID) error
}
