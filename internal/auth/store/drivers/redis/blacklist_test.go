package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *BlacklistCache) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, NewBlacklistCache(client)
}

func TestBlacklistCache_MarkAndCheck(t *testing.T) {
	_, cache := newTestCache(t)
	ctx := context.Background()

	cache.MarkRevoked(ctx, "jti-1", time.Now().Add(time.Hour))

	revoked, known := cache.IsRevoked(ctx, "jti-1")
	assert.True(t, revoked)
	assert.True(t, known)
}

func TestBlacklistCache_MissIsNotAuthoritative(t *testing.T) {
	_, cache := newTestCache(t)
	ctx := context.Background()

	revoked, known := cache.IsRevoked(ctx, "never-seen")
	assert.False(t, revoked)
	assert.False(t, known)
}

func TestBlacklistCache_ExpiredTokenNotCached(t *testing.T) {
	_, cache := newTestCache(t)
	ctx := context.Background()

	cache.MarkRevoked(ctx, "jti-old", time.Now().Add(-time.Minute))

	_, known := cache.IsRevoked(ctx, "jti-old")
	assert.False(t, known)
}

func TestBlacklistCache_EntryExpiresWithToken(t *testing.T) {
	mr, cache := newTestCache(t)
	ctx := context.Background()

	cache.MarkRevoked(ctx, "jti-2", time.Now().Add(time.Minute))
	mr.FastForward(2 * time.Minute)

	_, known := cache.IsRevoked(ctx, "jti-2")
	assert.False(t, known)
}

func TestBlacklistCache_RedisDownFailsOpen(t *testing.T) {
	mr, cache := newTestCache(t)
	ctx := context.Background()

	mr.Close()

	revoked, known := cache.IsRevoked(ctx, "jti-3")
	assert.False(t, revoked)
	assert.False(t, known)

	// Writing into a dead cache must not panic either.
	cache.MarkRevoked(ctx, "jti-3", time.Now().Add(time.Hour))
}
