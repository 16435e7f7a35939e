// Package prompt serves the read paths that do not go through a user's
// workspace store: the public trend view, forking, and bulk import.
package prompt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
	"github.com/komi0929/myprompt/internal/domain/event"
	domainnotification "github.com/komi0929/myprompt/internal/domain/notification"
	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
	"github.com/komi0929/myprompt/internal/export"
	portbus "github.com/komi0929/myprompt/internal/port/eventbus"
	portnotification "github.com/komi0929/myprompt/internal/port/notification"
	portprompt "github.com/komi0929/myprompt/internal/port/prompt"
)

type Service struct {
	repo          portprompt.Repository
	notifications portnotification.Repository
	bus           portbus.EventBus
}

func NewService(repo portprompt.Repository, notifications portnotification.Repository, bus portbus.EventBus) *Service {
	return &Service{repo: repo, notifications: notifications, bus: bus}
}

// Trend lists public prompts for the shared view, newest first.
func (s *Service) Trend(ctx context.Context, filters domainprompt.ListFilters) ([]domainprompt.Prompt, error) {
	prompts, err := s.repo.ListPublic(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("list trend prompts: %w", err)
	}
	return prompts, nil
}

func (s *Service) Get(ctx context.Context, id, viewerID uuid.UUID) (domainprompt.Prompt, error) {
	p, err := s.repo.GetVisible(ctx, id, viewerID)
	if err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("get prompt: %w", err)
	}
	return p, nil
}

// Fork copies a visible prompt into the actor's library. The copy keeps
// one-hop lineage: it points at the prompt it was forked from, regardless of
// how deep the chain goes. The fork starts private; the actor publishes it
// deliberately or not at all.
func (s *Service) Fork(ctx context.Context, actor domainauth.State, sourceID uuid.UUID) (domainprompt.Prompt, error) {
	if actor.IsGuest {
		return domainprompt.Prompt{}, fmt.Errorf("guests cannot fork prompts")
	}

	source, err := s.repo.GetVisible(ctx, sourceID, actor.UserID)
	if err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("get fork source: %w", err)
	}

	fork := domainprompt.New(actor.UserID, source.Title, source.Content,
		source.Phase, domainprompt.VisibilityPrivate)
	fork.Notes = source.Notes
	fork.Tags = append([]string{}, source.Tags...)
	fork.IsOriginal = false
	parentID := source.ID
	fork.ParentID = &parentID

	created, err := s.repo.Create(ctx, fork)
	if err != nil {
		return domainprompt.Prompt{}, fmt.Errorf("create fork: %w", err)
	}

	if source.AuthorID != actor.UserID {
		n := domainnotification.New(source.AuthorID, domainnotification.TypeFork,
			source.ID, source.Title, actor.DisplayName)
		if err := s.notifications.Create(ctx, n); err != nil {
			slog.ErrorContext(ctx, "failed to create fork notification",
				"prompt_id", source.ID, "error", err)
		} else if err := s.bus.Publish(ctx, event.NewFor(event.TypeNotificationCreated, n.ID, source.AuthorID)); err != nil {
			slog.ErrorContext(ctx, "failed to publish fork notification event",
				"notification_id", n.ID, "error", err)
		}
	}
	if err := s.bus.Publish(ctx, event.New(event.TypePromptForked, created.ID)); err != nil {
		slog.ErrorContext(ctx, "failed to publish fork event",
			"prompt_id", created.ID, "error", err)
	}
	return created, nil
}

// ImportResult reports how an import file landed.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import parses an export file and creates one prompt per accepted entry.
// Entries that fail to persist count as skipped; the rest still land.
func (s *Service) Import(ctx context.Context, actor domainauth.State, data []byte) (ImportResult, error) {
	if actor.IsGuest {
		return ImportResult{}, fmt.Errorf("guests cannot import prompts")
	}

	items, skipped, err := export.Parse(data)
	if err != nil {
		return ImportResult{}, fmt.Errorf("parse import file: %w", err)
	}

	result := ImportResult{Skipped: skipped}
	for _, item := range items {
		p := domainprompt.New(actor.UserID, item.Title, item.Content, item.Phase, item.Visibility)
		p.Tags = item.Tags
		if _, err := s.repo.Create(ctx, p); err != nil {
			slog.WarnContext(ctx, "import entry failed to persist",
				"title", item.Title, "error", err)
			result.Skipped++
			continue
		}
		result.Imported++
	}
	return result, nil
}
