package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go_tenant_kernel/internal/model"

	"gorm.io/gorm"
)

// AppSchemaVersion はアプリDBのスキーマバージョンです。モデル変更時に更新する。
const AppSchemaVersion = "20250601_identity"

// SchemaMigration はマイグレーション履歴の1行です
type SchemaMigration struct {
	Version   string    `gorm:"type:varchar(64);primaryKey"`
	AppliedAt time.Time `gorm:"not null"`
}

// AppModels はテナントごとのアプリDBに作成するモデルです
func AppModels() []interface{} {
	return []interface{}{&model.Role{}, &model.User{}, &model.UserRole{}}
}

// MigrateHost はホストDBのテナント設定テーブルを作成・更新します。
func MigrateHost(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&model.TenantConfig{}); err != nil {
		return fmt.Errorf("migrate host database: %w", err)
	}
	return nil
}

// MigrateApp はアプリDBのテーブルを作成し、履歴を migrationsTable に記録します。
// 既に同じバージョンが記録されていれば何もしない（適用したら true）。
func MigrateApp(ctx context.Context, db *gorm.DB, migrationsTable string) (bool, error) {
	db = db.WithContext(ctx)
	history := db.Table(migrationsTable)

	if err := history.AutoMigrate(&SchemaMigration{}); err != nil {
		return false, fmt.Errorf("migrate %s: %w", migrationsTable, err)
	}

	var applied SchemaMigration
	err := db.Table(migrationsTable).Where("version = ?", AppSchemaVersion).First(&applied).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("read %s: %w", migrationsTable, err)
	}

	if err := db.AutoMigrate(AppModels()...); err != nil {
		return false, fmt.Errorf("migrate app models: %w", err)
	}
	record := SchemaMigration{Version: AppSchemaVersion, AppliedAt: time.Now().UTC()}
	if err := db.Table(migrationsTable).Create(&record).Error; err != nil {
		return false, fmt.Errorf("record migration: %w", err)
	}
	return true, nil
}
