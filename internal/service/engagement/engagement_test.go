package engagement_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
	"github.com/komi0929/myprompt/internal/domain/event"
	domainnotification "github.com/komi0929/myprompt/internal/domain/notification"
	domainprompt "github.com/komi0929/myprompt/internal/domain/prompt"
	"github.com/komi0929/myprompt/internal/service/engagement"
	"github.com/komi0929/myprompt/internal/testutil"
)

type deps struct {
	rows          *testutil.FakeEngagementRows
	prompts       *testutil.FakePrompts
	notifications *testutil.FakeNotifications
	bus           *testutil.CaptureBus
	svc           *engagement.Service
}

func newDeps() *deps {
	d := &deps{
		rows:          testutil.NewFakeEngagementRows(),
		prompts:       testutil.NewFakePrompts(),
		notifications: testutil.NewFakeNotifications(),
		bus:           testutil.NewCaptureBus(),
	}
	d.svc = engagement.NewService(d.rows, d.prompts, d.notifications, d.bus)
	return d
}

func member(name string) domainauth.State {
	return domainauth.State{UserID: uuid.New(), DisplayName: name}
}

func seedPublicPrompt(t *testing.T, d *deps, author domainauth.State, title string) domainprompt.Prompt {
	t.Helper()
	p := domainprompt.New(author.UserID, title, "content",
		domainprompt.PhaseOther, domainprompt.VisibilityPublic)
	created, err := d.prompts.Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

func TestSetLike_NotifiesAuthorAndPublishes(t *testing.T) {
	d := newDeps()
	author := member("author")
	actor := member("actor")
	p := seedPublicPrompt(t, d, author, "Liked prompt")

	require.NoError(t, d.svc.SetLike(context.Background(), actor, p.ID, true))

	likes, err := d.rows.ListLikes(context.Background(), actor.UserID)
	require.NoError(t, err)
	assert.Contains(t, likes, p.ID)

	notes := d.notifications.ForUser(author.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, domainnotification.TypeLike, notes[0].Type)
	assert.Equal(t, "Liked prompt", notes[0].PromptTitle)
	assert.Equal(t, "actor", notes[0].ActorName)

	assert.Equal(t, []event.Type{event.TypePromptLiked, event.TypeNotificationCreated}, d.bus.Types())
}

func TestSetLike_SelfLikeSkipsNotification(t *testing.T) {
	d := newDeps()
	author := member("author")
	p := seedPublicPrompt(t, d, author, "Own prompt")

	require.NoError(t, d.svc.SetLike(context.Background(), author, p.ID, true))

	assert.Empty(t, d.notifications.ForUser(author.UserID))
	assert.Equal(t, []event.Type{event.TypePromptLiked}, d.bus.Types())
}

func TestSetLike_OffRemovesWithoutNotification(t *testing.T) {
	d := newDeps()
	author := member("author")
	actor := member("actor")
	p := seedPublicPrompt(t, d, author, "Unliked prompt")

	require.NoError(t, d.svc.SetLike(context.Background(), actor, p.ID, true))
	require.NoError(t, d.svc.SetLike(context.Background(), actor, p.ID, false))

	likes, err := d.rows.ListLikes(context.Background(), actor.UserID)
	require.NoError(t, err)
	assert.NotContains(t, likes, p.ID)
	// Only the original like notified.
	assert.Len(t, d.notifications.ForUser(author.UserID), 1)
}

func TestSetFavorite_NotifiesAuthor(t *testing.T) {
	d := newDeps()
	author := member("author")
	actor := member("actor")
	p := seedPublicPrompt(t, d, author, "Favorited prompt")

	require.NoError(t, d.svc.SetFavorite(context.Background(), actor, p.ID, true))

	notes := d.notifications.ForUser(author.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, domainnotification.TypeFavorite, notes[0].Type)
}

func TestSetLike_RowFailureSurfacesError(t *testing.T) {
	d := newDeps()
	author := member("author")
	actor := member("actor")
	p := seedPublicPrompt(t, d, author, "prompt")
	d.rows.FailAdd = true

	err := d.svc.SetLike(context.Background(), actor, p.ID, true)
	require.ErrorIs(t, err, testutil.ErrForced)
	assert.Empty(t, d.bus.Published)
	assert.Empty(t, d.notifications.Created)
}

func TestSetLike_NotificationFailureDoesNotFailEngagement(t *testing.T) {
	d := newDeps()
	author := member("author")
	actor := member("actor")
	p := seedPublicPrompt(t, d, author, "prompt")
	d.notifications.FailCreate = true

	require.NoError(t, d.svc.SetLike(context.Background(), actor, p.ID, true))
	likes, err := d.rows.ListLikes(context.Background(), actor.UserID)
	require.NoError(t, err)
	assert.Contains(t, likes, p.ID)
	assert.Equal(t, []event.Type{event.TypePromptLiked}, d.bus.Types())
}
