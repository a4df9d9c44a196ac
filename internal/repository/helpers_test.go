package repository

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/tenancy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// memoryDSN はテストごとに独立したインメモリSQLiteのDSNを返す
func memoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(ProviderSQLite, memoryDSN(), testLogger)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func setupAppDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := setupTestDB(t)
	_, err := MigrateApp(context.Background(), db, "schema_migrations")
	require.NoError(t, err)
	return db
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

func schemaTenant(id int64, key string) *model.TenantConfig {
	return &model.TenantConfig{TenantID: id, TenantKey: key, IsolationMode: model.IsolationSchemaPerTenant, SchemaName: model.StringPtr("tenant_" + key), IsActive: true, ProvisioningStatus: model.ProvisioningReady}
}
