// Package redis provides an optional read-through cache for token blacklist
// lookups. The sqlite blacklist table stays the source of truth; the cache
// only ever holds positive entries, so a cache miss always falls through to
// the database and a redis outage degrades to plain DB reads.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lockboxlabs/gatekey/pkg/slogx"
)

const blacklistKeyPrefix = "gatekey:blacklist:"

// BlacklistCache caches revoked token jtis in redis.
type BlacklistCache struct {
	client *redis.Client
}

// NewBlacklistCache wraps an existing redis client.
func NewBlacklistCache(client *redis.Client) *BlacklistCache {
	return &BlacklistCache{client: client}
}

func key(jti string) string {
	return blacklistKeyPrefix + jti
}

// MarkRevoked records a revoked jti. The entry lives only as long as the
// token itself would have, after which the DB row is purged too and the
// cache entry is pointless.
func (c *BlacklistCache) MarkRevoked(ctx context.Context, jti string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	if err := c.client.Set(ctx, key(jti), "1", ttl).Err(); err != nil {
		slogx.FromContext(ctx).Warn("blacklist cache: set failed", "error", err)
	}
}

// IsRevoked reports whether the jti is cached as revoked. The second return
// value reports whether the answer is authoritative: on a miss or a redis
// error the caller must consult the database.
func (c *BlacklistCache) IsRevoked(ctx context.Context, jti string) (revoked, known bool) {
	err := c.client.Get(ctx, key(jti)).Err()
	switch {
	case err == nil:
		return true, true
	case err == redis.Nil:
		// A miss is not authoritative; only positives are cached.
		return false, false
	default:
		slogx.FromContext(ctx).Warn("blacklist cache: get failed", "error", err)
		return false, false
	}
}
