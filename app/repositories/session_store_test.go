package repositories

import (
	"context"
	"testing"
	"time"

	"toyblog/app/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

func TestRedisSessionStore(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()
	store := NewRedisSessionStore(rdb, "")

	session := &models.Session{ID: models.NewID(), UserID: models.NewID(), Role: models.RoleAdmin, ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, store.Save(ctx, session, time.Minute))
	assert.True(t, mr.Exists(SessionKeyPrefix+session.ID))
	assert.Equal(t, time.Minute, mr.TTL(SessionKeyPrefix+session.ID))

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, got.UserID)
	assert.Equal(t, models.RoleAdmin, got.Role)

	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, store.Save(ctx, session, 0))
}

func TestRedisSessionStoreExpiry(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()
	store := NewRedisSessionStore(rdb, "toyblog_test:session:")

	session := &models.Session{ID: models.NewID(), UserID: models.NewID(), ExpiresAt: time.Now().Add(time.Minute)}
	require.NoError(t, store.Save(ctx, session, time.Minute))
	assert.True(t, mr.Exists("toyblog_test:session:"+session.ID))

	mr.FastForward(2 * time.Minute)
	_, err := store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreWithRedisSessions(t *testing.T) {
	mr, rdb := setupRedis(t)
	ctx := context.Background()
	store := NewBadgerStore(setupTestDB(t)).WithRedisSessions(rdb)

	_, ok := store.Sessions.(*RedisSessionStore)
	assert.True(t, ok)
	assert.NoError(t, store.Ping(ctx))

	mr.Close()
	assert.Error(t, store.Ping(ctx))
}
