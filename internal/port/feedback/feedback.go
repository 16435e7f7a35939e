package feedback

import (
	"context"

	"github.com/google/uuid"

	domainfeedback "github.com/komi0929/myprompt/internal/domain/feedback"
)

type Repository interface {
	Create(ctx context.Context, f domainfeedback.Feedback) (domainfeedback.Feedback, error)
	List(ctx context.Context, status *domainfeedback.Status) ([]domainfeedback.Feedback, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domainfeedback.Status) error

	// IncrementLike is the server-side atomic feedback vote: one CTE inserts
	// the (feedback, session) dedup row and bumps the counter only when the
	// row is new. Returns false when the session already voted.
	IncrementLike(ctx context.Context, id uuid.UUID, sessionID string) (bool, error)
}
