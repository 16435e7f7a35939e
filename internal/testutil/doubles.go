package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/komi0929/myprompt/internal/domain/event"
	domainnotification "github.com/komi0929/myprompt/internal/domain/notification"
	porteventbus "github.com/komi0929/myprompt/internal/port/eventbus"
)

// FakeEngagementRows is an in-memory engagement row store implementing
// port/engagement.Repository, used to test the engagement service itself.
type FakeEngagementRows struct {
	mu        sync.Mutex
	favorites map[uuid.UUID]map[uuid.UUID]struct{}
	likes     map[uuid.UUID]map[uuid.UUID]struct{}

	FailAdd bool
}

func NewFakeEngagementRows() *FakeEngagementRows {
	return &FakeEngagementRows{
		favorites: make(map[uuid.UUID]map[uuid.UUID]struct{}),
		likes:     make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (f *FakeEngagementRows) ListFavorites(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return f.list(f.favorites, userID), nil
}

func (f *FakeEngagementRows) ListLikes(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return f.list(f.likes, userID), nil
}

func (f *FakeEngagementRows) list(marks map[uuid.UUID]map[uuid.UUID]struct{}, userID uuid.UUID) []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uuid.UUID
	for id := range marks[userID] {
		ids = append(ids, id)
	}
	return ids
}

func (f *FakeEngagementRows) AddFavorite(_ context.Context, userID, promptID uuid.UUID) error {
	return f.add(f.favorites, userID, promptID)
}

func (f *FakeEngagementRows) RemoveFavorite(_ context.Context, userID, promptID uuid.UUID) error {
	f.remove(f.favorites, userID, promptID)
	return nil
}

func (f *FakeEngagementRows) AddLike(_ context.Context, userID, promptID uuid.UUID) error {
	return f.add(f.likes, userID, promptID)
}

func (f *FakeEngagementRows) RemoveLike(_ context.Context, userID, promptID uuid.UUID) error {
	f.remove(f.likes, userID, promptID)
	return nil
}

func (f *FakeEngagementRows) add(marks map[uuid.UUID]map[uuid.UUID]struct{}, userID, promptID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailAdd {
		return ErrForced
	}
	if marks[userID] == nil {
		marks[userID] = make(map[uuid.UUID]struct{})
	}
	marks[userID][promptID] = struct{}{}
	return nil
}

func (f *FakeEngagementRows) remove(marks map[uuid.UUID]map[uuid.UUID]struct{}, userID, promptID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(marks[userID], promptID)
}

// FakeNotifications records created notifications in order.
type FakeNotifications struct {
	mu      sync.Mutex
	Created []domainnotification.Notification

	FailCreate bool
}

func NewFakeNotifications() *FakeNotifications {
	return &FakeNotifications{}
}

func (f *FakeNotifications) Create(_ context.Context, n domainnotification.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailCreate {
		return ErrForced
	}
	f.Created = append(f.Created, n)
	return nil
}

func (f *FakeNotifications) ListForUser(_ context.Context, userID uuid.UUID, limit int) ([]domainnotification.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domainnotification.Notification
	for i := len(f.Created) - 1; i >= 0 && len(out) < limit; i-- {
		if f.Created[i].UserID == userID {
			out = append(out, f.Created[i])
		}
	}
	return out, nil
}

func (f *FakeNotifications) MarkAllRead(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Created {
		if f.Created[i].UserID == userID {
			f.Created[i].Read = true
		}
	}
	return nil
}

func (f *FakeNotifications) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, n := range f.Created {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// ForUser returns all recorded notifications for one user in creation order.
func (f *FakeNotifications) ForUser(userID uuid.UUID) []domainnotification.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domainnotification.Notification
	for _, n := range f.Created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// CaptureBus records published events and hands them straight to local
// subscribers, standing in for the Postgres NOTIFY bus.
type CaptureBus struct {
	mu        sync.Mutex
	Published []event.Event
	handlers  map[event.Channel][]porteventbus.Handler
}

func NewCaptureBus() *CaptureBus {
	return &CaptureBus{handlers: make(map[event.Channel][]porteventbus.Handler)}
}

func (b *CaptureBus) Publish(ctx context.Context, e event.Event) error {
	b.mu.Lock()
	b.Published = append(b.Published, e)
	handlers := append([]porteventbus.Handler{}, b.handlers[event.ChannelFor(e.Type)]...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(ctx, e)
	}
	return nil
}

func (b *CaptureBus) Subscribe(_ context.Context, ch event.Channel, handler porteventbus.Handler) (porteventbus.Subscription, error) {
	b.mu.Lock()
	b.handlers[ch] = append(b.handlers[ch], handler)
	b.mu.Unlock()
	return noopSubscription{}, nil
}

// Types returns the published event types in order.
func (b *CaptureBus) Types() []event.Type {
	b.mu.Lock()
	defer b.mu.Unlock()
	types := make([]event.Type, len(b.Published))
	for i, e := range b.Published {
		types[i] = e.Type
	}
	return types
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}
