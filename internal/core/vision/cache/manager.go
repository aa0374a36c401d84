package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Manager 蔬菜辨識結果快取。
// 同一張圖片重複上傳時直接回用上次的辨識結果，避免重打視覺模型。
// 設定了 redis_addr 時走 Redis，否則使用內建的記憶體快取
type Manager struct {
	config *config.Config
	rdb    *redis.Client

	mu    sync.Mutex
	store map[string]cacheEntry
	stats cacheStats
}

// cacheEntry 記憶體快取條目
type cacheEntry struct {
	value       string
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// cacheStats 快取統計
type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewManager 創建快取管理器。快取關閉時回傳 nil
func NewManager(cfg *config.Config) *Manager {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil
	}

	m := &Manager{
		config: cfg,
		store:  make(map[string]cacheEntry),
	}

	if cfg.Cache.RedisAddr != "" {
		m.rdb = redis.NewClient(&redis.Options{
			Addr: cfg.Cache.RedisAddr,
		})
		if err := m.rdb.Ping(context.Background()).Err(); err != nil {
			common.LogError("Failed to connect to Redis", zap.Error(err))
			return nil
		}
		common.LogInfo("快取管理員已初始化 (Redis)",
			zap.String("位址", cfg.Cache.RedisAddr),
			zap.Duration("存活時間", cfg.Cache.TTL),
		)
		return m
	}

	// 記憶體模式：啟動清理過期條目的協程
	go m.startCleanup()

	common.LogInfo("快取管理員已初始化 (記憶體)",
		zap.Int("最大容量", cfg.Cache.MaxSize),
		zap.Duration("存活時間", cfg.Cache.TTL),
		zap.Duration("清理間隔", cfg.Cache.CleanupInterval),
	)
	return m
}

// Get 以圖片內容為鍵取得快取的辨識結果
func (m *Manager) Get(ctx context.Context, imageData string) (string, error) {
	key := m.generateKey(imageData)

	if m.rdb != nil {
		val, err := m.rdb.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				common.LogCacheMiss("detection", key)
				return "", common.ErrCacheDisabled
			}
			return "", fmt.Errorf("failed to get cache: %w", err)
		}
		common.LogCacheHit("detection", key)
		return val, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.store[key]
	if !exists {
		m.stats.misses++
		common.LogCacheMiss("detection", key)
		return "", common.ErrCacheDisabled
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.store, key)
		m.stats.evictions++
		m.stats.misses++
		common.LogCacheMiss("detection", key)
		return "", common.ErrCacheDisabled
	}

	entry.lastAccess = time.Now()
	entry.accessCount++
	m.store[key] = entry
	m.stats.hits++
	common.LogCacheHit("detection", key)
	return entry.value, nil
}

// Set 寫入辨識結果
func (m *Manager) Set(ctx context.Context, imageData, value string) error {
	key := m.generateKey(imageData)

	if m.rdb != nil {
		if err := m.rdb.Set(ctx, key, value, m.config.Cache.TTL).Err(); err != nil {
			return fmt.Errorf("failed to set cache: %w", err)
		}
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// 容量已滿時先清理過期條目，仍滿則 LRU 淘汰
	if len(m.store) >= m.config.Cache.MaxSize {
		m.cleanupLocked()
		if len(m.store) >= m.config.Cache.MaxSize {
			m.evictLRULocked()
		}
		if len(m.store) >= m.config.Cache.MaxSize {
			common.LogWarn("快取已滿",
				zap.Int("目前容量", len(m.store)),
			)
			return common.ErrCacheFull
		}
	}

	now := time.Now()
	m.store[key] = cacheEntry{
		value:      value,
		expiresAt:  now.Add(m.config.Cache.TTL),
		lastAccess: now,
	}
	return nil
}

// generateKey 以圖片內容雜湊生成快取鍵
func (m *Manager) generateKey(imageData string) string {
	hash := sha256.Sum256([]byte(imageData))
	return fmt.Sprintf("vision:detect:%s", hex.EncodeToString(hash[:]))
}

// startCleanup 定期清理過期的記憶體快取
func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.config.Cache.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()
		count := m.cleanupLocked()
		m.mu.Unlock()
		if count > 0 {
			common.LogInfo("Cleaned up expired cache entries",
				zap.Int("count", count),
			)
		}
	}
}

// cleanupLocked 清理過期條目，呼叫端須持有鎖
func (m *Manager) cleanupLocked() int {
	now := time.Now()
	count := 0
	for key, entry := range m.store {
		if now.After(entry.expiresAt) {
			delete(m.store, key)
			count++
			m.stats.evictions++
		}
	}
	return count
}

// evictLRULocked 淘汰最少使用的條目，呼叫端須持有鎖
func (m *Manager) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time
	var lowestAccessCount int

	for key, entry := range m.store {
		if oldestKey == "" ||
			entry.accessCount < lowestAccessCount ||
			(entry.accessCount == lowestAccessCount && entry.lastAccess.Before(oldestAccess)) {
			oldestKey = key
			oldestAccess = entry.lastAccess
			lowestAccessCount = entry.accessCount
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		common.LogInfo("快取已淘汰(LRU)",
			zap.String("鍵", oldestKey),
		)
	}
}

// GetStats 獲取快取統計信息（記憶體模式）
func (m *Manager) GetStats() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.stats.hits + m.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"size":      len(m.store),
		"max_size":  m.config.Cache.MaxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"hit_ratio": hitRatio,
	}
}

// Close 關閉快取管理器
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	if m.rdb != nil {
		return m.rdb.Close()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]cacheEntry)
	common.LogInfo("快取管理員已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)
	return nil
}
