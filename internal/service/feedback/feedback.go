package feedback

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/komi0929/myprompt/internal/domain/event"
	domainfeedback "github.com/komi0929/myprompt/internal/domain/feedback"
	portbus "github.com/komi0929/myprompt/internal/port/eventbus"
	portfeedback "github.com/komi0929/myprompt/internal/port/feedback"
)

type Service struct {
	repo portfeedback.Repository
	bus  portbus.EventBus
}

func NewService(repo portfeedback.Repository, bus portbus.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Submit accepts feedback from authenticated users and anonymous visitors
// alike; userID is nil for the latter.
func (s *Service) Submit(ctx context.Context, userID *uuid.UUID, category domainfeedback.Category, body, screenshotURL string) (domainfeedback.Feedback, error) {
	if body == "" {
		return domainfeedback.Feedback{}, fmt.Errorf("feedback body is required")
	}

	created, err := s.repo.Create(ctx, domainfeedback.New(userID, category, body, screenshotURL))
	if err != nil {
		return domainfeedback.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}

	if err := s.bus.Publish(ctx, event.New(event.TypeFeedbackCreated, created.ID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish feedback event",
			"feedback_id", created.ID, "error", err)
	}
	return created, nil
}

// Like records one vote per browsing session. An already voted session gets
// counted=false, not an error.
func (s *Service) Like(ctx context.Context, id uuid.UUID, sessionID string) (bool, error) {
	counted, err := s.repo.IncrementLike(ctx, id, sessionID)
	if err != nil {
		return false, fmt.Errorf("like feedback: %w", err)
	}
	return counted, nil
}

func (s *Service) List(ctx context.Context, status *domainfeedback.Status) ([]domainfeedback.Feedback, error) {
	items, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domainfeedback.Status) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update feedback status: %w", err)
	}
	return nil
}
