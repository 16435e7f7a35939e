package history

import (
	"context"

	"github.com/google/uuid"

	domainhistory "github.com/komi0929/myprompt/internal/domain/history"
)

// Repository is append-only: entries are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, e domainhistory.Entry) error
	ListForPrompt(ctx context.Context, promptID uuid.UUID) ([]domainhistory.Entry, error)
}
