package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/feedrank/core"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(RedisConfig{Addr: mr.Addr(), Timeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedis(t)

	_, err := s.Get(ctx, "missing")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.Set(ctx, "k", []byte("v1"), 60))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	require.NoError(t, s.Delete(ctx, "k"))
	_, err = s.Get(ctx, "k")
	assert.True(t, core.IsStoreNotFound(err))
}

func TestRedisStoreBatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedis(t)

	require.NoError(t, s.BatchSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))
	got, err := s.BatchGet(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, got)

	empty, err := s.BatchGet(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRedisStoreHash(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedis(t)

	_, err := s.HGet(ctx, "feed:pref:u1", "ng_keywords")
	assert.True(t, core.IsStoreNotFound(err))

	all, err := s.HGetAll(ctx, "feed:pref:u1")
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, s.HSet(ctx, "feed:pref:u1", "ng_keywords", []byte(`["spoiler"]`)))
	require.NoError(t, s.HSet(ctx, "feed:pref:u1", "genres", []byte(`["jazz"]`)))

	v, err := s.HGet(ctx, "feed:pref:u1", "ng_keywords")
	require.NoError(t, err)
	assert.Equal(t, []byte(`["spoiler"]`), v)

	all, err = s.HGetAll(ctx, "feed:pref:u1")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"ng_keywords": []byte(`["spoiler"]`),
		"genres":      []byte(`["jazz"]`),
	}, all)
}

func TestRedisStoreFromClient(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer s.Close()

	assert.Equal(t, "redis", s.Name())
	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))
	assert.True(t, mr.Exists("k"))
}

func TestNewRedisStorePingFails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(RedisConfig{Addr: addr, Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
