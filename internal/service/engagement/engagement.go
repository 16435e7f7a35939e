// Package engagement implements the store-facing engagement gateway. Beyond
// flipping rows it owns the side effects: notifying the prompt's author and
// publishing bus events. The store never sees either.
package engagement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
	"github.com/komi0929/myprompt/internal/domain/event"
	domainnotification "github.com/komi0929/myprompt/internal/domain/notification"
	portengagement "github.com/komi0929/myprompt/internal/port/engagement"
	portbus "github.com/komi0929/myprompt/internal/port/eventbus"
	portnotification "github.com/komi0929/myprompt/internal/port/notification"
	portprompt "github.com/komi0929/myprompt/internal/port/prompt"
)

type Service struct {
	repo          portengagement.Repository
	prompts       portprompt.Repository
	notifications portnotification.Repository
	bus           portbus.EventBus
}

func NewService(repo portengagement.Repository, prompts portprompt.Repository, notifications portnotification.Repository, bus portbus.EventBus) *Service {
	return &Service{repo: repo, prompts: prompts, notifications: notifications, bus: bus}
}

func (s *Service) Favorites(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.repo.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return ids, nil
}

func (s *Service) Likes(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	ids, err := s.repo.ListLikes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return ids, nil
}

func (s *Service) SetFavorite(ctx context.Context, actor domainauth.State, promptID uuid.UUID, on bool) error {
	if !on {
		if err := s.repo.RemoveFavorite(ctx, actor.UserID, promptID); err != nil {
			return fmt.Errorf("remove favorite: %w", err)
		}
		return nil
	}

	if err := s.repo.AddFavorite(ctx, actor.UserID, promptID); err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	s.notifyAuthor(ctx, actor, promptID, domainnotification.TypeFavorite)
	s.publish(ctx, event.TypePromptFavorited, promptID)
	return nil
}

func (s *Service) SetLike(ctx context.Context, actor domainauth.State, promptID uuid.UUID, on bool) error {
	if !on {
		if err := s.repo.RemoveLike(ctx, actor.UserID, promptID); err != nil {
			return fmt.Errorf("remove like: %w", err)
		}
		return nil
	}

	if err := s.repo.AddLike(ctx, actor.UserID, promptID); err != nil {
		return fmt.Errorf("add like: %w", err)
	}
	s.notifyAuthor(ctx, actor, promptID, domainnotification.TypeLike)
	s.publish(ctx, event.TypePromptLiked, promptID)
	return nil
}

// notifyAuthor writes a notification for the prompt's author, skipped when
// the actor engaged with their own prompt. Failures are logged, never
// surfaced: the engagement itself already committed.
func (s *Service) notifyAuthor(ctx context.Context, actor domainauth.State, promptID uuid.UUID, t domainnotification.Type) {
	p, err := s.prompts.GetVisible(ctx, promptID, actor.UserID)
	if err != nil {
		slog.WarnContext(ctx, "engagement notification lookup failed",
			"prompt_id", promptID, "error", err)
		return
	}
	if p.AuthorID == actor.UserID {
		return
	}

	n := domainnotification.New(p.AuthorID, t, p.ID, p.Title, actor.DisplayName)
	if err := s.notifications.Create(ctx, n); err != nil {
		slog.ErrorContext(ctx, "failed to create engagement notification",
			"prompt_id", promptID, "error", err)
		return
	}
	if err := s.bus.Publish(ctx, event.NewFor(event.TypeNotificationCreated, n.ID, p.AuthorID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish engagement event",
			"type", event.TypeNotificationCreated, "entity_id", n.ID, "error", err)
	}
}

func (s *Service) publish(ctx context.Context, t event.Type, entityID uuid.UUID) {
	if err := s.bus.Publish(ctx, event.New(t, entityID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish engagement event",
			"type", t, "entity_id", entityID, "error", err)
	}
}
