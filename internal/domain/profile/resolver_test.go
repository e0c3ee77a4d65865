package profile_test

import (
	"context"
	"testing"

	"github.com/rowanvale/ticketd/internal/domain/profile"
	"github.com/rowanvale/ticketd/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Ada Lovelace", profile.DisplayName(profile.Profile{FullName: "Ada Lovelace", Email: "ada@example.com"}))
	require.Equal(t, "ada@example.com", profile.DisplayName(profile.Profile{Email: "ada@example.com"}))
	require.Equal(t, profile.UnknownUser, profile.DisplayName(profile.Profile{}))
}

func TestResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ProfileRepository{}
	repo.On("GetByIDs", ctx, []string{"u1", "u2"}).Return([]profile.Profile{
		{ID: "u1", FullName: "Ada"},
	}, nil)

	r := profile.NewResolver(repo, nil)
	got, err := r.Resolve(ctx, []string{"u1", "u2", "u1"})
	require.NoError(t, err)

	// Missing IDs are simply absent, not errors.
	require.Len(t, got, 1)
	require.Equal(t, "Ada", got["u1"].FullName)
	_, ok := got["u2"]
	require.False(t, ok)
}

func TestResolver_Resolve_Empty(t *testing.T) {
	r := profile.NewResolver(&mocks.ProfileRepository{}, nil)
	got, err := r.Resolve(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, got)
}
