package service

import (
	"context"
	"fmt"
	"sync"

	"go_tenant_kernel/internal/metrics"
	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/repository"
	"go_tenant_kernel/internal/tenancy"

	"golang.org/x/sync/errgroup"
)

// MigrationResult はテナント1件分のマイグレーション結果です
type MigrationResult struct {
	TenantKey string `json:"tenant_key"`
	Applied   bool   `json:"applied"`
	Skipped   bool   `json:"skipped"`
	Error     string `json:"error,omitempty"`
}

// Migrator はテナントごとのアプリDBにスキーマを適用します。
type Migrator struct {
	store       TenantStore
	dbs         TenantDB
	metrics     *metrics.Metrics
	concurrency int
}

func NewMigrator(store TenantStore, dbs TenantDB, m *metrics.Metrics, concurrency int) *Migrator {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Migrator{store: store, dbs: dbs, metrics: m, concurrency: concurrency}
}

// MigrateShared は共有アプリDB（SharedDb のテナントすべてが使う）を移行します。
func (m *Migrator) MigrateShared(ctx context.Context) (bool, error) {
	db, err := m.dbs.For(ctx)
	if err != nil {
		return false, err
	}
	applied, err := repository.MigrateApp(ctx, db, tenancy.MigrationsTable(nil))
	m.observe(err)
	return applied, err
}

// MigrateTenant は1テナント分を移行します。SharedDb のテナントは共有DBで移行済みのためスキップ。
func (m *Migrator) MigrateTenant(ctx context.Context, tenant *model.TenantConfig) MigrationResult {
	logger := middleware.GetLogger(ctx).With("tenant_key", tenant.TenantKey)
	result := MigrationResult{TenantKey: tenant.TenantKey}

	if tenant.IsolationMode == model.IsolationSharedDb {
		result.Skipped = true
		return result
	}
	if tenant.IsolationMode == model.IsolationSchemaPerTenant && !tenant.IsProvisioned() {
		logger.Warn("Tenant schema is not provisioned; skipped", "status", tenant.ProvisioningStatus)
		result.Skipped = true
		return result
	}

	tctx, err := tenancy.WithTenant(ctx, tenant)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	db, err := m.dbs.For(tctx)
	if err == nil {
		result.Applied, err = repository.MigrateApp(tctx, db, tenancy.MigrationsTable(tenant))
	}
	m.observe(err)
	if err != nil {
		logger.Error("Tenant migration failed", "error", err)
		result.Error = err.Error()
		return result
	}
	logger.Info("Tenant migrated", "applied", result.Applied)
	return result
}

// MigrateByKey はキー指定で1テナントを移行します
func (m *Migrator) MigrateByKey(ctx context.Context, tenantKey string) (MigrationResult, error) {
	tenant, err := m.store.Get(ctx, tenancy.NormalizeKey(tenantKey))
	if err != nil {
		return MigrationResult{}, err
	}
	if tenant == nil {
		return MigrationResult{}, fmt.Errorf("tenant '%s': %w", tenantKey, model.ErrNotFound)
	}
	if tenant.IsolationMode == model.IsolationSharedDb {
		applied, err := m.MigrateShared(ctx)
		return MigrationResult{TenantKey: tenant.TenantKey, Applied: applied}, err
	}
	result := m.MigrateTenant(ctx, tenant)
	if result.Error != "" {
		return result, fmt.Errorf("migrate tenant '%s': %s", tenant.TenantKey, result.Error)
	}
	return result, nil
}

// MigrateAll は共有DBと有効な全テナントを並列に移行します。
// 個々のテナントの失敗で他のテナントは止めず、失敗があればまとめてエラーを返す。
func (m *Migrator) MigrateAll(ctx context.Context) ([]MigrationResult, error) {
	if _, err := m.MigrateShared(ctx); err != nil {
		return nil, fmt.Errorf("migrate shared database: %w", err)
	}

	tenants, err := m.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]MigrationResult, len(tenants))
	var mu sync.Mutex
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, tenant := range tenants {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := m.MigrateTenant(gctx, tenant)
			results[i] = r
			if r.Error != "" {
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	if failed > 0 {
		return results, fmt.Errorf("%d of %d tenant migrations failed", failed, len(tenants))
	}
	return results, nil
}

func (m *Migrator) observe(err error) {
	if err != nil {
		m.metrics.ObserveMigration("error")
		return
	}
	m.metrics.ObserveMigration("ok")
}
