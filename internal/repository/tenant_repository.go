//go:generate mockery --name TenantRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TenantRepository はホストDBのテナント設定テーブルへのアクセスです。
// テナント設定そのものはテナントフィルタの対象外。
type TenantRepository interface {
	FindByKey(ctx context.Context, db *gorm.DB, tenantKey string) (*model.TenantConfig, error)
	FindByID(ctx context.Context, db *gorm.DB, tenantID int64) (*model.TenantConfig, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]*model.TenantConfig, error)
	Upsert(ctx context.Context, db *gorm.DB, tenant *model.TenantConfig) error
	Count(ctx context.Context, db *gorm.DB) (int64, error)
}

type gormTenantRepository struct{}

func NewGormTenantRepository() TenantRepository {
	return &gormTenantRepository{}
}

func (r *gormTenantRepository) FindByKey(ctx context.Context, db *gorm.DB, tenantKey string) (*model.TenantConfig, error) {
	logger := middleware.GetLogger(ctx)
	var tenant model.TenantConfig

	result := db.WithContext(ctx).Where("tenant_key = ?", tenantKey).First(&tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("Tenant not found by key", "tenant_key", tenantKey)
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding tenant by key in DB", "error", result.Error, "tenant_key", tenantKey)
		return nil, fmt.Errorf("gormTenantRepository.FindByKey: %w", result.Error)
	}
	return &tenant, nil
}

func (r *gormTenantRepository) FindByID(ctx context.Context, db *gorm.DB, tenantID int64) (*model.TenantConfig, error) {
	logger := middleware.GetLogger(ctx)
	var tenant model.TenantConfig

	result := db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding tenant by ID in DB", "error", result.Error, "tenant_id", tenantID)
		return nil, fmt.Errorf("gormTenantRepository.FindByID: %w", result.Error)
	}
	return &tenant, nil
}

func (r *gormTenantRepository) ListActive(ctx context.Context, db *gorm.DB) ([]*model.TenantConfig, error) {
	var tenants []*model.TenantConfig
	result := db.WithContext(ctx).Where("is_active = ?", true).Order("tenant_id").Find(&tenants)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error listing active tenants in DB", "error", result.Error)
		return nil, fmt.Errorf("gormTenantRepository.ListActive: %w", result.Error)
	}
	return tenants, nil
}

// Upsert は TenantID が 0 なら新規作成してIDを採番し、それ以外は同じIDの行を置き換えます。
// IDはDBの自動採番に任せるため、同時作成でもIDが衝突しない。
func (r *gormTenantRepository) Upsert(ctx context.Context, db *gorm.DB, tenant *model.TenantConfig) error {
	logger := middleware.GetLogger(ctx)

	if err := tenant.Validate(); err != nil {
		return err
	}

	q := db.WithContext(ctx)
	if tenant.TenantID != 0 {
		q = q.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			UpdateAll: true,
		})
	}

	if err := q.Create(tenant).Error; err != nil {
		if isDuplicateKey(err) {
			logger.Warn("Duplicate tenant key on upsert", "error", err, "tenant_key", tenant.TenantKey)
			return model.ErrConflict
		}
		logger.Error("Error upserting tenant in DB", "error", err, "tenant_key", tenant.TenantKey)
		return fmt.Errorf("gormTenantRepository.Upsert: %w", err)
	}
	return nil
}

func (r *gormTenantRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&model.TenantConfig{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("gormTenantRepository.Count: %w", err)
	}
	return count, nil
}
