package changelog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainchangelog "github.com/komi0929/myprompt/internal/domain/changelog"
	portchangelog "github.com/komi0929/myprompt/internal/port/changelog"
)

type Service struct {
	repo portchangelog.Repository
}

func NewService(repo portchangelog.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domainchangelog.Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list changelog: %w", err)
	}
	return entries, nil
}

func (s *Service) Create(ctx context.Context, version, title, body string, publishedAt time.Time) (domainchangelog.Entry, error) {
	if version == "" || title == "" {
		return domainchangelog.Entry{}, fmt.Errorf("version and title are required")
	}
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}

	created, err := s.repo.Create(ctx, domainchangelog.New(version, title, body, publishedAt))
	if err != nil {
		return domainchangelog.Entry{}, fmt.Errorf("create changelog entry: %w", err)
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, e domainchangelog.Entry) error {
	if err := s.repo.Update(ctx, e); err != nil {
		return fmt.Errorf("update changelog entry: %w", err)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete changelog entry: %w", err)
	}
	return nil
}
