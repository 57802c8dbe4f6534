package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Set STACKMERGE_TEST_REDIS=redis://localhost:6379/15 to run against a server.
func TestRedisCache(t *testing.T) {
	url := os.Getenv("STACKMERGE_TEST_REDIS")
	if url == "" {
		t.Skip("STACKMERGE_TEST_REDIS not set")
	}
	ctx := context.Background()

	c, err := NewRedisCache(ctx, RedisConfig{URL: url, Prefix: "stackmerge-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()

	key := "stackmerge-test:" + t.Name()
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(got) != "payload" {
		t.Fatalf("Get = %q, hit %v, err %v", got, hit, err)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n < 1 {
		t.Errorf("Clear removed %d keys, want at least 1", n)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("key survived Clear")
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisConfig{URL: "not a url"}); err == nil {
		t.Error("expected error for malformed URL")
	}
}
