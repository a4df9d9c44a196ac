package service

import (
	"context"

	"gorm.io/gorm"
)

// TenantDB は現在のテナントのアプリDBハンドルを返します（repository.Router が実装）
type TenantDB interface {
	For(ctx context.Context) (*gorm.DB, error)
}

// StaticDB は常に同じハンドルを返す TenantDB です。単一DB構成やテストで使う。
type StaticDB struct {
	DB *gorm.DB
}

func (s StaticDB) For(ctx context.Context) (*gorm.DB, error) {
	return s.DB.WithContext(ctx), nil
}
