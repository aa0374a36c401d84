package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

func TestMain(m *testing.M) {
	if err := common.InitLogger("error"); err != nil {
		panic(err)
	}
	code := m.Run()
	common.Sync()
	os.RemoveAll("logs")
	os.Exit(code)
}

func newMemoryManager(t *testing.T, maxSize int, ttl time.Duration) *Manager {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.MaxSize = maxSize
	cfg.Cache.TTL = ttl
	cfg.Cache.CleanupInterval = time.Hour

	m := NewManager(cfg)
	if m == nil {
		t.Fatal("NewManager returned nil for memory mode")
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestManagerDisabled(t *testing.T) {
	cfg := &config.Config{}
	if m := NewManager(cfg); m != nil {
		t.Error("expected nil manager when cache disabled")
	}

	// nil manager 的 Close 必須安全
	var m *Manager
	if err := m.Close(); err != nil {
		t.Errorf("nil Close() error: %v", err)
	}
}

func TestManagerSetGet(t *testing.T) {
	m := newMemoryManager(t, 10, time.Minute)
	ctx := context.Background()

	if _, err := m.Get(ctx, "image-a"); err == nil {
		t.Error("expected miss for absent key")
	}

	if err := m.Set(ctx, "image-a", `[{"name":"tomato","confidence":0.9}]`); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, err := m.Get(ctx, "image-a")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != `[{"name":"tomato","confidence":0.9}]` {
		t.Errorf("Get() = %s, want cached value", got)
	}

	// 不同圖片內容不得互相污染
	if _, err := m.Get(ctx, "image-b"); err == nil {
		t.Error("expected miss for different image")
	}
}

func TestManagerExpiry(t *testing.T) {
	m := newMemoryManager(t, 10, 10*time.Millisecond)
	ctx := context.Background()

	if err := m.Set(ctx, "image-a", "value"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := m.Get(ctx, "image-a"); err == nil {
		t.Error("expected miss for expired entry")
	}
}

func TestManagerLRUEviction(t *testing.T) {
	m := newMemoryManager(t, 2, time.Minute)
	ctx := context.Background()

	if err := m.Set(ctx, "image-a", "a"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := m.Set(ctx, "image-b", "b"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	// 提升 image-a 的使用次數，image-b 成為淘汰候選
	if _, err := m.Get(ctx, "image-a"); err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	if err := m.Set(ctx, "image-c", "c"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	if _, err := m.Get(ctx, "image-a"); err != nil {
		t.Error("frequently used entry should survive eviction")
	}
	if _, err := m.Get(ctx, "image-b"); err == nil {
		t.Error("least used entry should have been evicted")
	}
}

func TestManagerStats(t *testing.T) {
	m := newMemoryManager(t, 10, time.Minute)
	ctx := context.Background()

	m.Set(ctx, "image-a", "a")
	m.Get(ctx, "image-a")
	m.Get(ctx, "missing")

	stats := m.GetStats()
	if stats["hits"].(int64) != 1 {
		t.Errorf("hits = %v, want 1", stats["hits"])
	}
	if stats["misses"].(int64) != 1 {
		t.Errorf("misses = %v, want 1", stats["misses"])
	}
	if stats["size"].(int) != 1 {
		t.Errorf("size = %v, want 1", stats["size"])
	}
}
