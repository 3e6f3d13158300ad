package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	viewGenerationKey = "views:identity:generation"
	viewCacheTTL      = 5 * time.Minute
)

// ViewCache caches rendered identity-dependent views under a generation
// counter. Bumping the generation on reconciliation orphans every cached
// entry at once, the equivalent of revalidating the whole identity-dependent
// surface.
type ViewCache struct {
	client *redis.Client
}

func NewViewCache(client *redis.Client) *ViewCache {
	return &ViewCache{client: client}
}

// InvalidateIdentityViews bumps the generation counter, orphaning all cached
// views keyed under the previous generation.
func (v *ViewCache) InvalidateIdentityViews(ctx context.Context) error {
	if err := v.client.Incr(ctx, viewGenerationKey).Err(); err != nil {
		return fmt.Errorf("bump view generation: %w", err)
	}
	return nil
}

// Get returns the cached payload for a view key, or ("", nil) on a miss.
func (v *ViewCache) Get(ctx context.Context, key string) (string, error) {
	val, err := v.client.Get(ctx, v.versionedKey(ctx, key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("view cache get: %w", err)
	}
	return val, nil
}

// Set stores a rendered view payload under the current generation.
func (v *ViewCache) Set(ctx context.Context, key, payload string) error {
	return v.client.Set(ctx, v.versionedKey(ctx, key), payload, viewCacheTTL).Err()
}

func (v *ViewCache) versionedKey(ctx context.Context, key string) string {
	gen, err := v.client.Get(ctx, viewGenerationKey).Result()
	if err != nil {
		gen = "0"
	}
	return fmt.Sprintf("views:%s:%s", gen, key)
}
