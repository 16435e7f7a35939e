package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domainprofile "github.com/komi0929/myprompt/internal/domain/profile"
)

// ErrNotFound is returned by Get when no profile row exists for the user.
var ErrNotFound = errors.New("profile: not found")

type Repository interface {
	Get(ctx context.Context, userID uuid.UUID) (domainprofile.Profile, error)
	Upsert(ctx context.Context, p domainprofile.Profile) error
}
