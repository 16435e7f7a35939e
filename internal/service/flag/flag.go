package flag

import (
	"context"
	"fmt"

	domainflag "github.com/komi0929/myprompt/internal/domain/flag"
	portflag "github.com/komi0929/myprompt/internal/port/flag"
)

type Service struct {
	repo portflag.Repository
}

func NewService(repo portflag.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domainflag.Flag, error) {
	flags, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list feature flags: %w", err)
	}
	return flags, nil
}

// Enabled reports a single flag; unknown flags read as disabled.
func (s *Service) Enabled(ctx context.Context, name string) bool {
	f, err := s.repo.Get(ctx, name)
	if err != nil {
		return false
	}
	return f.Enabled
}

func (s *Service) Upsert(ctx context.Context, f domainflag.Flag) error {
	if f.Name == "" {
		return fmt.Errorf("flag name is required")
	}
	if err := s.repo.Upsert(ctx, f); err != nil {
		return fmt.Errorf("upsert feature flag: %w", err)
	}
	return nil
}
