package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/layer-3/authtoken/core"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, delay time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, delay).(*RedisStore), mr
}

func TestRedisStore_AddAndFind(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, 0)

	token := core.Token{
		Owner:     "alice",
		Value:     "value-1",
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Add(ctx, token))
	assert.True(t, mr.Exists("authtoken:token:value-1"))
	assert.Equal(t, time.Duration(0), mr.TTL("authtoken:token:value-1"))

	got, found, err := s.FindByValue(ctx, "value-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, token.Owner, got.Owner)
	assert.Equal(t, token.Value, got.Value)
	assert.True(t, token.CreatedAt.Equal(got.CreatedAt))
}

func TestRedisStore_NotFound(t *testing.T) {
	s, _ := newRedisStore(t, 0)

	_, found, err := s.FindByValue(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_Delay(t *testing.T) {
	delay := 50 * time.Millisecond
	s, _ := newRedisStore(t, delay)

	start := time.Now()
	_, _, err := s.FindByValue(context.Background(), "miss")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), delay)
}

func TestRedisStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t, 0)
	mr.Close()

	err := s.Add(ctx, core.Token{Owner: "alice", Value: "v"})
	assert.ErrorIs(t, err, core.ErrStoreOperationFailed)

	_, found, err := s.FindByValue(ctx, "v")
	assert.ErrorIs(t, err, core.ErrStoreOperationFailed)
	assert.False(t, found)
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	s, mr := newRedisStore(t, 0)
	require.NoError(t, mr.Set("authtoken:token:broken", "not-json"))

	_, found, err := s.FindByValue(context.Background(), "broken")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestRedisStore_KeepsCause(t *testing.T) {
	s, _ := newRedisStore(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Add(ctx, core.Token{Owner: "alice", Value: "v"})
	assert.ErrorIs(t, err, core.ErrStoreOperationFailed)
	assert.ErrorIs(t, err, context.Canceled)
}
