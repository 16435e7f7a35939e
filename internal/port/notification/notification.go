package notification

import (
	"context"

	"github.com/google/uuid"

	domainnotification "github.com/komi0929/myprompt/internal/domain/notification"
)

type Repository interface {
	Create(ctx context.Context, n domainnotification.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domainnotification.Notification, error)

	// MarkAllRead flips every unread notification for the user in one statement;
	// fired when the notification panel opens or the account page is visited.
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}
