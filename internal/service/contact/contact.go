package contact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	domaincontact "github.com/komi0929/myprompt/internal/domain/contact"
	"github.com/komi0929/myprompt/internal/domain/event"
	portcontact "github.com/komi0929/myprompt/internal/port/contact"
	portbus "github.com/komi0929/myprompt/internal/port/eventbus"
)

type Service struct {
	repo portcontact.Repository
	bus  portbus.EventBus
}

func NewService(repo portcontact.Repository, bus portbus.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

func (s *Service) Submit(ctx context.Context, name, email, body string) (domaincontact.Message, error) {
	if name == "" || email == "" || body == "" {
		return domaincontact.Message{}, fmt.Errorf("name, email, and body are required")
	}

	created, err := s.repo.Create(ctx, domaincontact.New(name, email, body))
	if err != nil {
		return domaincontact.Message{}, fmt.Errorf("create contact message: %w", err)
	}

	if err := s.bus.Publish(ctx, event.New(event.TypeContactCreated, created.ID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish contact event",
			"contact_id", created.ID, "error", err)
	}
	return created, nil
}

func (s *Service) List(ctx context.Context, status *domaincontact.Status) ([]domaincontact.Message, error) {
	messages, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domaincontact.Status) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	return nil
}
