// view.go provides a Valkey-backed cache for assembled view payloads.
// The comparison page payload is the same JSON for every visitor, so
// serving it from Valkey skips the three table reads and the matrix
// assembly on every request. Mutations through the admin API invalidate
// the entry; a miss just falls through to the loaders.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// viewKeyPrefix is the Valkey key prefix for cached view payloads.
	viewKeyPrefix = "view:"

	// ComparisonKey identifies the cached comparison page payload.
	ComparisonKey = "comparison"

	// DefaultViewTTL bounds staleness if an invalidation is ever lost.
	DefaultViewTTL = 5 * time.Minute
)

// ViewCache stores serialized view payloads in Valkey. Cache errors are
// logged and treated as misses; the cache never fails a request.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache creates a view cache backed by the given Valkey client.
func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	if ttl == 0 {
		ttl = DefaultViewTTL
	}
	return &ViewCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Returns (nil, false) on miss.
func (vc *ViewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := vc.client.Get(ctx, viewKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("view cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("view cache hit", "key", key)
	return val, true
}

// Set stores a serialized payload with the configured TTL.
func (vc *ViewCache) Set(ctx context.Context, key string, payload []byte) {
	if err := vc.client.Set(ctx, viewKeyPrefix+key, payload, vc.ttl).Err(); err != nil {
		slog.Warn("view cache set error", "key", key, "error", err)
	}
}

// Invalidate removes a cached payload. Admin mutations call this so the
// next comparison request rebuilds from the database.
func (vc *ViewCache) Invalidate(ctx context.Context, key string) {
	if err := vc.client.Del(ctx, viewKeyPrefix+key).Err(); err != nil {
		slog.Warn("view cache invalidate error", "key", key, "error", err)
	}
	slog.Debug("view cache invalidated", "key", key)
}
