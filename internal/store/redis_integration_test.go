package store

import (
	"context"
	"os"
	"testing"
)

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisKVIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}

	kv, err := ConnectRedis(addr, os.Getenv("REDIS_PASSWORD"), 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer kv.Close()

	ctx := context.Background()

	if err := kv.Set(ctx, "itest:task:X", `{"task_id":"X"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	defer kv.Del(ctx, "itest:task:X", "itest:counter")

	val, err := kv.Get(ctx, "itest:task:X")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != `{"task_id":"X"}` {
		t.Fatalf("unexpected value %q", val)
	}

	if _, err := kv.Get(ctx, "itest:task:absent"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	n, err := kv.Incr(ctx, "itest:counter")
	if err != nil {
		t.Fatalf("incr: %v", err)
	}
	if n < 1 {
		t.Fatalf("expected positive counter, got %d", n)
	}

	exists, err := kv.Exists(ctx, "itest:task:X")
	if err != nil || !exists {
		t.Fatalf("expected key to exist, got %v %v", exists, err)
	}

	keys, err := kv.Keys(ctx, "itest:task:*")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected one key, got %v", keys)
	}
}
