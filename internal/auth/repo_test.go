package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateDuplicateUsername(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "alice", "hash", false)
	require.NoError(t, err)

	_, err = repo.Create(ctx, "Alice", "hash", false)
	require.ErrorIs(t, err, ErrUsernameTaken, "uniqueness ignores case")
}

func TestGetByUsernameMissing(t *testing.T) {
	repo := NewRepo(newTestDB(t))

	u, err := repo.GetByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestPromote(t *testing.T) {
	repo := NewRepo(newTestDB(t))
	ctx := context.Background()

	u, err := repo.Create(ctx, "alice", "hash", false)
	require.NoError(t, err)
	require.False(t, u.IsAdmin)

	require.NoError(t, repo.Promote(ctx, u.ID))

	promoted, err := repo.Get(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, promoted.IsAdmin)

	require.Error(t, repo.Promote(ctx, 999))
}
