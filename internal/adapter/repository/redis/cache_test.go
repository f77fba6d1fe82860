package redis

import (
	"context"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "rate:global", "50000000000", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "rate:global")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if val != "50000000000" {
		t.Fatalf("expected 50000000000, got %s", val)
	}
}

func TestCacheGetMissReturnsEmpty(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)

	val, err := cache.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("expected nil error on miss, got %v", err)
	}

	if val != "" {
		t.Fatalf("expected empty value on miss, got %q", val)
	}
}

func TestCacheDelete(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	val, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if val != "" {
		t.Fatalf("expected empty after delete, got %q", val)
	}
}

func TestCacheTTLExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "key", "value", 30*time.Second); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	mr.FastForward(time.Minute)

	val, err := cache.Get(ctx, "key")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if val != "" {
		t.Fatalf("expected expiry after TTL, got %q", val)
	}
}
