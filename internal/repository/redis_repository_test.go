package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovelace/backend/internal/model"
	"lovelace/backend/internal/repository"
)

func setupRedisRepo(t *testing.T) repository.Repository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return repository.NewRedisRepository(rdb)
}

func TestRedisRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := setupRedisRepo(t)

	transcript := []model.Message{
		{Role: model.RoleUser, Content: "Hello"},
		{Role: model.RoleAssistant, Content: "Hi there"},
	}

	require.NoError(t, repo.Put(ctx, testIdentity, "chat1", transcript))

	got, err := repo.Get(ctx, testIdentity, "chat1")
	require.NoError(t, err)
	assert.Equal(t, transcript, got)
}

func TestRedisRepository_GetAbsentChat(t *testing.T) {
	ctx := context.Background()
	repo := setupRedisRepo(t)

	got, err := repo.Get(ctx, testIdentity, "never-created")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRedisRepository_DeleteThenGetEmpty(t *testing.T) {
	ctx := context.Background()
	repo := setupRedisRepo(t)

	require.NoError(t, repo.Put(ctx, testIdentity, "chat1", []model.Message{
		{Role: model.RoleUser, Content: "Hello"},
	}))
	require.NoError(t, repo.Delete(ctx, testIdentity, "chat1"))

	got, err := repo.Get(ctx, testIdentity, "chat1")
	require.NoError(t, err)
	assert.Empty(t, got)

	// The recency index forgets the chat too.
	ids, err := repo.List(ctx, testIdentity)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Deleting again is a no-op, not an error.
	assert.NoError(t, repo.Delete(ctx, testIdentity, "chat1"))
}

func TestRedisRepository_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := setupRedisRepo(t)

	require.NoError(t, repo.Put(ctx, testIdentity, "chat1", []model.Message{
		{Role: model.RoleUser, Content: "first"},
	}))
	require.NoError(t, repo.Put(ctx, testIdentity, "chat1", []model.Message{
		{Role: model.RoleUser, Content: "second"},
		{Role: model.RoleAssistant, Content: "reply"},
	}))

	got, err := repo.Get(ctx, testIdentity, "chat1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Content)

	// Overwriting does not duplicate the id in the index.
	ids, err := repo.List(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, []string{"chat1"}, ids)
}

func TestRedisRepository_PutNilBecomesEmptyList(t *testing.T) {
	ctx := context.Background()
	repo := setupRedisRepo(t)

	require.NoError(t, repo.Put(ctx, testIdentity, "chat1", nil))

	got, err := repo.Get(ctx, testIdentity, "chat1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	ids, err := repo.List(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, []string{"chat1"}, ids)
}

func TestRedisRepository_ListOrdersByRecency(t *testing.T) {
	ctx := context.Background()
	repo := setupRedisRepo(t)

	require.NoError(t, repo.Put(ctx, testIdentity, "chat1", nil))
	time.Sleep(time.Millisecond) // index scores have clock resolution
	require.NoError(t, repo.Put(ctx, testIdentity, "chat2", nil))

	ids, err := repo.List(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, []string{"chat2", "chat1"}, ids)

	// Touching an older chat moves it back to the front.
	time.Sleep(time.Millisecond)
	require.NoError(t, repo.Put(ctx, testIdentity, "chat1", []model.Message{
		{Role: model.RoleUser, Content: "again"},
	}))

	ids, err = repo.List(ctx, testIdentity)
	require.NoError(t, err)
	assert.Equal(t, []string{"chat1", "chat2"}, ids)
}

func TestRedisRepository_ScopedByIdentity(t *testing.T) {
	ctx := context.Background()
	repo := setupRedisRepo(t)
	other := testIdentity + "_2"

	require.NoError(t, repo.Put(ctx, testIdentity, "chat1", []model.Message{
		{Role: model.RoleUser, Content: "mine"},
	}))

	got, err := repo.Get(ctx, other, "chat1")
	require.NoError(t, err)
	assert.Empty(t, got)

	ids, err := repo.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
