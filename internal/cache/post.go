// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// post.go provides a Valkey-backed cache for serialized post responses.
// When a post detail is assembled (record, comments, rendered HTML), the
// JSON body is stored in Valkey so subsequent reads skip the DB queries
// and Markdown rendering entirely. View counting still happens on every
// request; only the response body is cached.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// postKeyPrefix is the Valkey key prefix for cached post responses.
	postKeyPrefix = "post:"

	// DefaultPostTTL is how long an assembled post response stays cached.
	DefaultPostTTL = 5 * time.Minute
)

// PostCache manages cached post response bodies in Valkey. A nil
// *PostCache is valid and disables caching, so callers never need to
// branch on whether Valkey is configured.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPostCache creates a new post cache backed by the given Valkey client.
func NewPostCache(client *redis.Client, ttl time.Duration) *PostCache {
	if ttl == 0 {
		ttl = DefaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl}
}

// Get retrieves a cached response body for a post key. Returns nil on miss.
func (pc *PostCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if pc == nil {
		return nil, false
	}
	val, err := pc.client.Get(ctx, postKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("post cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("post cache hit", "key", key)
	return val, true
}

// Set stores a serialized response body with the configured TTL.
func (pc *PostCache) Set(ctx context.Context, key string, body []byte) {
	if pc == nil {
		return
	}
	if err := pc.client.Set(ctx, postKeyPrefix+key, body, pc.ttl).Err(); err != nil {
		slog.Warn("post cache set error", "key", key, "error", err)
	}
}

// Invalidate removes cached entries for the given keys. A post is cached
// under both its ID and its slug, so mutations pass both (plus the old
// slug when a rename changed it).
func (pc *PostCache) Invalidate(ctx context.Context, keys ...string) {
	if pc == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := pc.client.Del(ctx, postKeyPrefix+key).Err(); err != nil {
			slog.Warn("post cache invalidate error", "key", key, "error", err)
		}
	}
}

// InvalidateAll removes all cached post responses by scanning for the
// prefix. Used when a change affects rendering everywhere.
func (pc *PostCache) InvalidateAll(ctx context.Context) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, postKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("post cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("post cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("post cache fully cleared", "deleted", deleted)
	}
}
