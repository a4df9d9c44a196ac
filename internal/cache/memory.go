package cache

import (
	"context"
	"time"

	"go_tenant_kernel/internal/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMaxEntries はプロセス内キャッシュに保持するテナント数の上限です
const DefaultMaxEntries = 10000

// MemoryCache はプロセス内のTTL付きLRUです。
// LRU 自体の TTL は上限として働き、Set ごとの TTL はエントリの期限で判定する。
type MemoryCache struct {
	lru    *expirable.LRU[string, cacheEntry]
	maxTTL time.Duration
	now    func() time.Time
}

type cacheEntry struct {
	tenant    *model.TenantConfig
	expiresAt time.Time
}

// NewMemoryCache は最大 maxEntries 件、最長 maxTTL 保持するキャッシュを作成します。
func NewMemoryCache(maxEntries int, maxTTL time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if maxTTL <= 0 {
		maxTTL = DefaultTTL
	}
	return &MemoryCache{
		lru:    expirable.NewLRU[string, cacheEntry](maxEntries, nil, maxTTL),
		maxTTL: maxTTL,
		now:    time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*model.TenantConfig, bool, error) {
	entry, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.lru.Remove(key)
		return nil, false, nil
	}
	return entry.tenant.Clone(), true, nil
}

// Set は ttl が上限を超える場合は上限で切り詰めます
func (c *MemoryCache) Set(_ context.Context, key string, tenant *model.TenantConfig, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if ttl > c.maxTTL {
		ttl = c.maxTTL
	}
	c.lru.Add(key, cacheEntry{tenant: tenant.Clone(), expiresAt: c.now().Add(ttl)})
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Size は保持しているエントリ数を返します
func (c *MemoryCache) Size() int {
	return c.lru.Len()
}

func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
