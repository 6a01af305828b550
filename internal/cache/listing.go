// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// listing.go provides a Valkey-backed cache for marketplace listing JSON.
// Catalog pages and listing details are served from Valkey so repeated
// browsing skips the DB queries and markdown rendering entirely.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listingKeyPrefix is the Valkey key prefix for cached listings.
	listingKeyPrefix = "listing:"

	// DefaultListingTTL is how long a serialized listing stays cached.
	DefaultListingTTL = 5 * time.Minute
)

// ListingCache manages serialized marketplace responses in Valkey.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListingCache creates a new listing cache backed by the given Valkey client.
func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl == 0 {
		ttl = DefaultListingTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body for a key. Returns false on miss.
func (lc *ListingCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := lc.client.Get(ctx, listingKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("listing cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("listing cache hit", "key", key)
	return val, true
}

// Set stores a serialized response body for a key with the configured TTL.
func (lc *ListingCache) Set(ctx context.Context, key string, body []byte) {
	if err := lc.client.Set(ctx, listingKeyPrefix+key, body, lc.ttl).Err(); err != nil {
		slog.Warn("listing cache set error", "key", key, "error", err)
	}
}

// InvalidateListing removes a single cached listing by its slug.
func (lc *ListingCache) InvalidateListing(ctx context.Context, slug string) {
	if err := lc.client.Del(ctx, listingKeyPrefix+DetailKey(slug)).Err(); err != nil {
		slog.Warn("listing cache invalidate error", "slug", slug, "error", err)
	}
	slog.Debug("listing cache invalidated", "slug", slug)
}

// InvalidateAll removes all cached listings by scanning for the prefix.
// Called after a publish, since catalog pages on every cursor could be
// affected.
func (lc *ListingCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listingKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("listing cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("listing cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("listing cache fully cleared", "deleted", deleted)
	}
}

// CatalogKey returns the cache key for one catalog page.
func CatalogKey(category string, limit, offset int) string {
	if category == "" {
		category = "_all"
	}
	return fmt.Sprintf("catalog:%s:%d:%d", category, limit, offset)
}

// DetailKey returns the cache key for a listing detail page.
func DetailKey(slug string) string {
	return "detail:" + slug
}
