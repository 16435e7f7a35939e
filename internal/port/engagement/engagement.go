package engagement

import (
	"context"

	"github.com/google/uuid"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
)

// Gateway is what the store sees of likes and favorites. The concrete
// implementation (service/engagement) also emits notifications and NOTIFY
// events as side effects; the store neither knows nor cares.
type Gateway interface {
	// Favorites and Likes return the prompt ids the user has marked.
	// Called during hydration, favorites before likes.
	Favorites(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Likes(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	// SetFavorite and SetLike flip membership for (actor, prompt).
	// on=true creates the row, on=false removes it. SetLike also moves the
	// denormalized like_count on the prompt row in the same statement.
	SetFavorite(ctx context.Context, actor domainauth.State, promptID uuid.UUID, on bool) error
	SetLike(ctx context.Context, actor domainauth.State, promptID uuid.UUID, on bool) error
}

// Repository is the row-level storage under the engagement service.
type Repository interface {
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListLikes(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	AddFavorite(ctx context.Context, userID, promptID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, promptID uuid.UUID) error

	// AddLike / RemoveLike adjust likes and the prompt's like_count in one
	// transaction, keeping the count equal to the row count.
	AddLike(ctx context.Context, userID, promptID uuid.UUID) error
	RemoveLike(ctx context.Context, userID, promptID uuid.UUID) error
}
