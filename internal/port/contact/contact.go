package contact

import (
	"context"

	"github.com/google/uuid"

	domaincontact "github.com/komi0929/myprompt/internal/domain/contact"
)

type Repository interface {
	Create(ctx context.Context, m domaincontact.Message) (domaincontact.Message, error)
	List(ctx context.Context, status *domaincontact.Status) ([]domaincontact.Message, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domaincontact.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}
