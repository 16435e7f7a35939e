package store

import (
	"context"
	"log/slog"
)

// Mutation is one optimistic write, made explicit in the type system: by the
// time a Mutation exists the local change has already been applied to the
// store's collections. Commit persists it; Rollback (when non-nil) restores
// the pre-mutation value after a failed commit. Actions that accept eventual
// consistency (use-count) carry a nil Rollback.
type Mutation struct {
	Name     string
	Commit   func(ctx context.Context) error
	Rollback func()
}

// run executes the persistence half of a mutation. Commit runs outside the
// store lock; a failed commit takes the lock again only to roll back.
// Expected failures never propagate as errors: the caller gets false and the
// collections are back in their pre-mutation state (or will be reconciled by
// the next refresh when no rollback is defined).
func (s *Store) run(ctx context.Context, m Mutation) bool {
	err := m.Commit(ctx)
	if s.recordMutation != nil {
		s.recordMutation(m.Name, err == nil)
	}
	if err != nil {
		if m.Rollback != nil {
			s.mu.Lock()
			m.Rollback()
			s.mu.Unlock()
		}
		slog.WarnContext(ctx, "store: mutation failed",
			"action", m.Name,
			"user_id", s.auth.UserID,
			"rolled_back", m.Rollback != nil,
			"error", err,
		)
		return false
	}
	return true
}
