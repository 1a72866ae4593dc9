package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cacheadapter "go-messenger/internal/infrastructure/cache/adapter"
	repository "go-messenger/internal/repository/port"
)

func TestMemoryUpsertKeepsExistingFields(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Upsert(ctx, repository.User{ID: "u1", Username: "alice", DisplayName: "Alice"}))
	require.NoError(t, repo.Upsert(ctx, repository.User{ID: "u1"}))

	u, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "Alice", u.Name())
	assert.Equal(t, StartingBalance, u.Balance)

	_, err = repo.FindByID(ctx, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestMemorySearchAndPresence(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	require.NoError(t, repo.Upsert(ctx, repository.User{ID: "u1", Username: "alice", DisplayName: "Alice A"}))
	require.NoError(t, repo.Upsert(ctx, repository.User{ID: "u2", Username: "bob", DisplayName: "Bobby"}))

	found, err := repo.Search(ctx, "BOB", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "u2", found[0].ID)

	all, err := repo.Search(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	seen := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetPresence(ctx, "u1", true, seen))
	u, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, u.IsOnline)
	assert.Equal(t, seen, *u.LastSeenAt)
	assert.ErrorIs(t, repo.SetPresence(ctx, "ghost", true, seen), repository.ErrUserNotFound)
}

func TestMemoryFriendsAndBlocks(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Upsert(ctx, repository.User{ID: id, Username: id}))
	}
	require.NoError(t, repo.AddFriendship(ctx, "a", "b"))
	require.NoError(t, repo.AddFriendship(ctx, "a", "c"))

	friends, err := repo.ListFriends(ctx, "b")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "a", friends[0].ID)

	require.NoError(t, repo.Block(ctx, "a", "b"))
	friends, err = repo.ListFriends(ctx, "a")
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "c", friends[0].ID)

	blocked, err := repo.IsBlocked(ctx, "a", "b")
	require.NoError(t, err)
	assert.True(t, blocked)
	blocked, err = repo.IsBlocked(ctx, "b", "a")
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, repo.Unblock(ctx, "a", "b"))
	list, err := repo.ListBlocked(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserDirectoryCachesNames(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()
	cache := cacheadapter.NewMemoryCache()
	dir := NewUserDirectory(repo, cache, zap.NewNop())

	require.NoError(t, repo.Upsert(ctx, repository.User{ID: "u1", Username: "alice", DisplayName: "Alice"}))
	assert.Equal(t, "Alice", dir.DisplayName(ctx, "u1"))

	cached, err := cache.Get(ctx, "user:name:u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", cached)

	assert.Equal(t, "ghost", dir.DisplayName(ctx, "ghost"))
}
