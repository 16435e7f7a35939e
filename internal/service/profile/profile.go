package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
	domainprofile "github.com/komi0929/myprompt/internal/domain/profile"
	portprofile "github.com/komi0929/myprompt/internal/port/profile"
)

type Service struct {
	repo portprofile.Repository
}

func NewService(repo portprofile.Repository) *Service {
	return &Service{repo: repo}
}

// Ensure returns the caller's profile, creating it on first sight. Auth rows
// live with the hosted provider, so a valid token can arrive before any
// profile exists; the row self-heals here rather than at signup.
func (s *Service) Ensure(ctx context.Context, actor domainauth.State) (domainprofile.Profile, error) {
	p, err := s.repo.Get(ctx, actor.UserID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, portprofile.ErrNotFound) {
		return domainprofile.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	name := actor.DisplayName
	if name == "" {
		name = domainprofile.DefaultDisplayName(actor.Email)
	}
	p = domainprofile.Profile{
		UserID:      actor.UserID,
		DisplayName: name,
		AvatarURL:   actor.AvatarURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		return domainprofile.Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (domainprofile.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domainprofile.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// Update changes display name and avatar for the caller.
func (s *Service) Update(ctx context.Context, actor domainauth.State, displayName, avatarURL string) (domainprofile.Profile, error) {
	p, err := s.Ensure(ctx, actor)
	if err != nil {
		return domainprofile.Profile{}, err
	}
	p.DisplayName = displayName
	p.AvatarURL = avatarURL
	if err := s.repo.Upsert(ctx, p); err != nil {
		return domainprofile.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}
