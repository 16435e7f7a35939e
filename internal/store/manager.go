package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
)

// Manager hands out one hydrated Store per authenticated user. Stores are
// created lazily on the first workspace request and dropped when the
// identity changes (logout). Guests get a fresh ephemeral store each time;
// their view is public prompts only, with nothing to keep warm.
type Manager struct {
	gw   Gateway
	opts []Option

	mu     sync.Mutex
	stores map[uuid.UUID]*Store
}

func NewManager(gw Gateway, opts ...Option) *Manager {
	return &Manager{
		gw:     gw,
		opts:   opts,
		stores: make(map[uuid.UUID]*Store),
	}
}

// ForUser returns the user's store, hydrating it on first sight.
func (m *Manager) ForUser(ctx context.Context, st domainauth.State) (*Store, error) {
	if st.IsGuest {
		s := New(st, m.gw, m.opts...)
		if err := s.Hydrate(ctx); err != nil {
			return nil, fmt.Errorf("hydrate guest store: %w", err)
		}
		return s, nil
	}

	m.mu.Lock()
	if s, ok := m.stores[st.UserID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	s := New(st, m.gw, m.opts...)
	if err := s.Hydrate(ctx); err != nil {
		return nil, fmt.Errorf("hydrate store: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Two requests can race to hydrate; first writer wins, the duplicate is
	// discarded.
	if existing, ok := m.stores[st.UserID]; ok {
		return existing, nil
	}
	m.stores[st.UserID] = s
	return s, nil
}

// Drop forgets the user's store. The next request rehydrates from scratch.
func (m *Manager) Drop(userID uuid.UUID) {
	m.mu.Lock()
	delete(m.stores, userID)
	m.mu.Unlock()
}

// Len reports how many user stores are currently resident.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
