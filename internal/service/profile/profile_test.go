package profile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/komi0929/myprompt/internal/domain/auth"
	domainprofile "github.com/komi0929/myprompt/internal/domain/profile"
	portprofile "github.com/komi0929/myprompt/internal/port/profile"
	"github.com/komi0929/myprompt/internal/testutil"
)

type fakeProfiles struct {
	rows    map[uuid.UUID]domainprofile.Profile
	failGet bool
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{rows: make(map[uuid.UUID]domainprofile.Profile)}
}

func (f *fakeProfiles) Get(_ context.Context, userID uuid.UUID) (domainprofile.Profile, error) {
	if f.failGet {
		return domainprofile.Profile{}, testutil.ErrForced
	}
	p, ok := f.rows[userID]
	if !ok {
		return domainprofile.Profile{}, portprofile.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p domainprofile.Profile) error {
	f.rows[p.UserID] = p
	return nil
}

func TestEnsure_CreatesMissingProfile(t *testing.T) {
	repo := newFakeProfiles()
	svc := NewService(repo)
	actor := domainauth.State{
		UserID:      uuid.New(),
		Email:       "mina@example.com",
		DisplayName: "Mina",
	}

	p, err := svc.Ensure(context.Background(), actor)

	require.NoError(t, err)
	assert.Equal(t, actor.UserID, p.UserID)
	assert.Equal(t, "Mina", p.DisplayName)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Contains(t, repo.rows, actor.UserID)
}

func TestEnsure_DerivesNameFromEmail(t *testing.T) {
	repo := newFakeProfiles()
	svc := NewService(repo)
	actor := domainauth.State{UserID: uuid.New(), Email: "mina@example.com"}

	p, err := svc.Ensure(context.Background(), actor)

	require.NoError(t, err)
	assert.Equal(t, "mina", p.DisplayName)
}

func TestEnsure_ReturnsExistingUnchanged(t *testing.T) {
	repo := newFakeProfiles()
	userID := uuid.New()
	repo.rows[userID] = domainprofile.Profile{
		UserID:      userID,
		DisplayName: "Original",
		CreatedAt:   time.Now().UTC().Add(-time.Hour),
	}
	svc := NewService(repo)

	p, err := svc.Ensure(context.Background(), domainauth.State{UserID: userID, DisplayName: "Newer"})

	require.NoError(t, err)
	assert.Equal(t, "Original", p.DisplayName)
}

func TestEnsure_RepoFailureSurfaces(t *testing.T) {
	repo := newFakeProfiles()
	repo.failGet = true
	svc := NewService(repo)

	_, err := svc.Ensure(context.Background(), domainauth.State{UserID: uuid.New()})

	require.ErrorIs(t, err, testutil.ErrForced)
}

func TestUpdate_OverwritesNameAndAvatar(t *testing.T) {
	repo := newFakeProfiles()
	svc := NewService(repo)
	actor := domainauth.State{UserID: uuid.New(), DisplayName: "Mina"}

	p, err := svc.Update(context.Background(), actor, "Mina K", "https://cdn.example.com/a.png")

	require.NoError(t, err)
	assert.Equal(t, "Mina K", p.DisplayName)
	assert.Equal(t, "https://cdn.example.com/a.png", p.AvatarURL)
	assert.Equal(t, "Mina K", repo.rows[actor.UserID].DisplayName)
}
