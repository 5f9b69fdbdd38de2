// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "post:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	// Verify connection.
	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestPostCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPostCache(client, 1*time.Minute)

	ctx := context.Background()

	// Miss.
	data, ok := pc.Get(ctx, "my-first-post")
	if ok {
		t.Error("expected cache miss")
	}
	if data != nil {
		t.Error("expected nil data on miss")
	}

	// Set.
	body := []byte(`{"success":true,"data":{"title":"My First Post"}}`)
	pc.Set(ctx, "my-first-post", body)

	// Hit.
	data, ok = pc.Get(ctx, "my-first-post")
	if !ok {
		t.Error("expected cache hit")
	}
	if string(data) != string(body) {
		t.Errorf("data mismatch: got %q, want %q", data, body)
	}
}

func TestPostCacheInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPostCache(client, 1*time.Minute)

	ctx := context.Background()

	// A post is cached under both its ID and its slug.
	pc.Set(ctx, "3f2c9a10-0000-0000-0000-000000000001", []byte("by-id"))
	pc.Set(ctx, "invalidate-me", []byte("by-slug"))

	pc.Invalidate(ctx, "3f2c9a10-0000-0000-0000-000000000001", "invalidate-me", "")

	if _, ok := pc.Get(ctx, "3f2c9a10-0000-0000-0000-000000000001"); ok {
		t.Error("expected miss for ID key after invalidation")
	}
	if _, ok := pc.Get(ctx, "invalidate-me"); ok {
		t.Error("expected miss for slug key after invalidation")
	}
}

func TestPostCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	pc := NewPostCache(client, 1*time.Minute)

	ctx := context.Background()

	// Set multiple posts.
	pc.Set(ctx, "post-a", []byte("a"))
	pc.Set(ctx, "post-b", []byte("b"))
	pc.Set(ctx, "post-c", []byte("c"))

	// Invalidate all.
	pc.InvalidateAll(ctx)

	// All should be gone.
	for _, key := range []string{"post-a", "post-b", "post-c"} {
		_, ok := pc.Get(ctx, key)
		if ok {
			t.Errorf("expected miss for %q after InvalidateAll", key)
		}
	}
}

func TestNilPostCacheIsNoop(t *testing.T) {
	var pc *PostCache
	ctx := context.Background()

	// None of these may panic when caching is disabled.
	pc.Set(ctx, "key", []byte("body"))
	pc.Invalidate(ctx, "key")
	pc.InvalidateAll(ctx)

	if _, ok := pc.Get(ctx, "key"); ok {
		t.Error("expected miss from nil cache")
	}
}

func TestNewPostCacheDefaultTTL(t *testing.T) {
	client := testValkeyClient(t)

	// TTL = 0 should use default.
	pc := NewPostCache(client, 0)
	if pc.ttl != DefaultPostTTL {
		t.Errorf("expected DefaultPostTTL (%v), got %v", DefaultPostTTL, pc.ttl)
	}
}
