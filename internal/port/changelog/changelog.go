package changelog

import (
	"context"

	"github.com/google/uuid"

	domainchangelog "github.com/komi0929/myprompt/internal/domain/changelog"
)

type Repository interface {
	Create(ctx context.Context, e domainchangelog.Entry) (domainchangelog.Entry, error)
	List(ctx context.Context) ([]domainchangelog.Entry, error)
	Update(ctx context.Context, e domainchangelog.Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
