package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"go_tenant_kernel/internal/cache"
	"go_tenant_kernel/internal/metrics"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/repository"
	"go_tenant_kernel/internal/tenancy"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// setupTestDB はテストごとに独立したインメモリSQLiteを返す
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repository.NewDB(repository.ProviderSQLite, dsn, testLogger)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func setupHostDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupTestDB(t)
	require.NoError(t, repository.MigrateHost(context.Background(), db))
	return db
}

func setupAppDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupTestDB(t)
	_, err := repository.MigrateApp(context.Background(), db, "schema_migrations")
	require.NoError(t, err)
	return db
}

type storeFixture struct {
	db      *gorm.DB
	cache   *cache.MemoryCache
	metrics *metrics.Metrics
	store   TenantStore
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	db := setupHostDB(t)
	c := cache.NewMemoryCache(100, time.Hour)
	t.Cleanup(func() { c.Close() })
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return &storeFixture{
		db:      db,
		cache:   c,
		metrics: m,
		store:   NewCachedTenantStore(db, repository.NewGormTenantRepository(), c, time.Minute, m),
	}
}

func tenantCtx(t *testing.T, tenant *model.TenantConfig) context.Context {
	t.Helper()
	ctx, err := tenancy.WithTenant(context.Background(), tenant)
	require.NoError(t, err)
	return ctx
}

func sharedTenant(id int64, key string) *model.TenantConfig {
	return &model.TenantConfig{TenantID: id, TenantKey: key, IsolationMode: model.IsolationSharedDb, IsActive: true, ProvisioningStatus: model.ProvisioningReady}
}
