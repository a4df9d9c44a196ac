package repository

import (
	"context"
	"errors"
	"fmt"

	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"

	"gorm.io/gorm"
)

// PublicTenantID は初期投入される共有テナントのIDです
const PublicTenantID int64 = 1

// SeedHost は公開テナント（SharedDb）が無ければ作成します。
func SeedHost(ctx context.Context, db *gorm.DB, repo TenantRepository, provider, publicKey string) error {
	logger := middleware.GetLogger(ctx)

	_, err := repo.FindByKey(ctx, db, publicKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return err
	}

	public := &model.TenantConfig{
		TenantID:           PublicTenantID,
		TenantKey:          publicKey,
		IsolationMode:      model.IsolationSharedDb,
		IsActive:           true,
		ProvisioningStatus: model.ProvisioningReady,
	}
	if err := repo.Upsert(ctx, db, public); err != nil {
		return fmt.Errorf("seed public tenant: %w", err)
	}

	// 明示的なID挿入はシーケンスを進めないため、以降の自動採番と衝突しないよう合わせる
	if provider == ProviderPostgres {
		err := db.WithContext(ctx).Exec(
			"SELECT setval(pg_get_serial_sequence('tenants', 'tenant_id'), (SELECT MAX(tenant_id) FROM tenants))",
		).Error
		if err != nil {
			return fmt.Errorf("sync tenant id sequence: %w", err)
		}
	}

	logger.Info("Public tenant seeded", "tenant_key", publicKey, "tenant_id", PublicTenantID)
	return nil
}
