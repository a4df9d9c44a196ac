//go:generate mockery --name TenantStore --output ./mocks --outpkg mocks --case=underscore
// internal/service/tenant_store.go
package service

import (
	"context"
	"errors"
	"time"

	"go_tenant_kernel/internal/cache"
	"go_tenant_kernel/internal/metrics"
	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/repository"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// TenantStore はキャッシュ付きのテナント設定ストアです。
type TenantStore interface {
	// Get は未登録のキーに対して (nil, nil) を返す。
	Get(ctx context.Context, tenantKey string) (*model.TenantConfig, error)
	ListActive(ctx context.Context) ([]*model.TenantConfig, error)
	Upsert(ctx context.Context, tenant *model.TenantConfig) error
}

// tenantLoadTimeout は共有されたホストDB読み込み1回あたりの上限です。
const tenantLoadTimeout = 10 * time.Second

type cachedTenantStore struct {
	db      *gorm.DB // ホストDB
	repo    repository.TenantRepository
	cache   cache.TenantCache
	ttl     time.Duration
	metrics *metrics.Metrics
	group   singleflight.Group
}

func NewCachedTenantStore(db *gorm.DB, repo repository.TenantRepository, c cache.TenantCache, ttl time.Duration, m *metrics.Metrics) TenantStore {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &cachedTenantStore{db: db, repo: repo, cache: c, ttl: ttl, metrics: m}
}

func (s *cachedTenantStore) Get(ctx context.Context, tenantKey string) (*model.TenantConfig, error) {
	logger := middleware.GetLogger(ctx)
	key := cache.TenantKey(tenantKey)

	// 1. キャッシュ（障害時はDBにフォールバック）
	tenant, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Tenant cache read failed, falling back to host DB", "tenant_key", tenantKey, "error", err)
	}
	if hit {
		s.metrics.ObserveCacheLookup(true)
		return tenant, nil
	}
	s.metrics.ObserveCacheLookup(false)

	// 2. ホストDB（同じキーの同時ミスは1回の読み込みにまとめる）
	// 読み込みは呼び出し元のキャンセルから切り離し、待機だけを各自の ctx で打ち切る
	ch := s.group.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tenantLoadTimeout)
		defer cancel()

		found, err := s.repo.FindByKey(loadCtx, s.db, tenantKey)
		if errors.Is(err, model.ErrNotFound) {
			// 未登録のキーはキャッシュしない
			return (*model.TenantConfig)(nil), nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(loadCtx, key, found, s.ttl); err != nil {
			logger.Warn("Tenant cache write failed", "tenant_key", tenantKey, "error", err)
		}
		return found, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		// 共有された結果を呼び出し元ごとにコピーする
		return res.Val.(*model.TenantConfig).Clone(), nil
	}
}

// ListActive は常にホストDBから読みます
func (s *cachedTenantStore) ListActive(ctx context.Context) ([]*model.TenantConfig, error) {
	return s.repo.ListActive(ctx, s.db)
}

// Upsert は保存後にキャッシュを無効化します。
// キーが変更された場合は旧キーのエントリも削除する。
func (s *cachedTenantStore) Upsert(ctx context.Context, tenant *model.TenantConfig) error {
	logger := middleware.GetLogger(ctx)

	var previousKey string
	if tenant.TenantID != 0 {
		prev, err := s.repo.FindByID(ctx, s.db, tenant.TenantID)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		if prev != nil && prev.TenantKey != tenant.TenantKey {
			previousKey = prev.TenantKey
		}
	}

	if err := s.repo.Upsert(ctx, s.db, tenant); err != nil {
		return err
	}

	for _, k := range []string{tenant.TenantKey, previousKey} {
		if k == "" {
			continue
		}
		s.group.Forget(cache.TenantKey(k))
		if err := s.cache.Delete(ctx, cache.TenantKey(k)); err != nil {
			logger.Warn("Tenant cache invalidation failed", "tenant_key", k, "error", err)
		}
	}

	logger.Info("Tenant saved", "tenant_key", tenant.TenantKey, "tenant_id", tenant.TenantID)
	return nil
}
