package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domainnotification "github.com/komi0929/myprompt/internal/domain/notification"
	portnotification "github.com/komi0929/myprompt/internal/port/notification"
)

const defaultLimit = 50

type Service struct {
	repo portnotification.Repository
}

func NewService(repo portnotification.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]domainnotification.Notification, error) {
	notifications, err := s.repo.ListForUser(ctx, userID, defaultLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkAllRead fires when the notification panel opens or the account page is
// visited; there is no per-notification read state in the UI.
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
