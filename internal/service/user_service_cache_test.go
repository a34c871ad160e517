package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/friend-graph/internal/cache"
	"github.com/d60-Lab/friend-graph/internal/repository"
)

type cachedFixture struct {
	svc         UserService
	store       repository.UserRepository
	friendships repository.FriendshipRepository
	mr          *miniredis.Miniredis
}

func newCachedService(t *testing.T) *cachedFixture {
	t.Helper()
	db := setupDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := repository.NewUserRepository(db)
	friendships := repository.NewFriendshipRepository(db)
	users := cache.NewUserCache(store, client, 10*time.Minute)
	return &cachedFixture{
		svc:         NewUserService(users, friendships),
		store:       store,
		friendships: friendships,
		mr:          mr,
	}
}

func TestCachedServiceDeleteThenGet(t *testing.T) {
	f := newCachedService(t)
	ctx := context.Background()

	a := mustCreate(t, f.svc, "a", 20, "chess")
	_, err := f.svc.GetUser(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, f.mr.Exists("user:"+a.ID))

	require.NoError(t, f.svc.DeleteUser(ctx, a.ID))

	_, err = f.svc.GetUser(ctx, a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	score, err := f.svc.ComputePopularity(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestCachedServiceUpdateIsVisible(t *testing.T) {
	f := newCachedService(t)
	ctx := context.Background()

	a := mustCreate(t, f.svc, "a", 20, "chess")
	_, err := f.svc.GetUser(ctx, a.ID)
	require.NoError(t, err)

	hobbies := []string{"go"}
	_, err = f.svc.UpdateUser(ctx, a.ID, UpdateUserInput{Hobbies: &hobbies})
	require.NoError(t, err)

	got, err := f.svc.GetUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, got.Hobbies)
}

func TestCreateFriendshipIgnoresStaleCacheEntry(t *testing.T) {
	f := newCachedService(t)
	ctx := context.Background()

	a := mustCreate(t, f.svc, "a", 20)
	b := mustCreate(t, f.svc, "b", 20)
	_, err := f.svc.GetUser(ctx, a.ID)
	require.NoError(t, err)

	// 直接从存储删除，缓存里仍保留旧行
	_, err = f.store.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, f.mr.Exists("user:"+a.ID))

	err = f.svc.CreateFriendship(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = f.svc.DeleteUser(ctx, a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	cnt, err := f.friendships.CountByUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

// deleteBeforeInsert deletes a user between the existence check and the insert.
type deleteBeforeInsert struct {
	repository.FriendshipRepository
	before func()
}

func (r *deleteBeforeInsert) Create(ctx context.Context, user1ID, user2ID string) error {
	if r.before != nil {
		r.before()
	}
	return r.FriendshipRepository.Create(ctx, user1ID, user2ID)
}

func TestCreateFriendshipRacingDelete(t *testing.T) {
	db := setupDB(t)
	users := repository.NewUserRepository(db)
	racing := &deleteBeforeInsert{FriendshipRepository: repository.NewFriendshipRepository(db)}
	svc := NewUserService(users, racing)
	ctx := context.Background()

	a := mustCreate(t, svc, "a", 20, "chess")
	b := mustCreate(t, svc, "b", 20, "chess")

	racing.before = func() { require.NoError(t, svc.DeleteUser(ctx, a.ID)) }
	err := svc.CreateFriendship(ctx, b.ID, a.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	got, err := svc.GetUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Friends)
	assert.Zero(t, got.PopularityScore)
}
