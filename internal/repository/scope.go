package repository

import (
	"context"

	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/tenancy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TenantColumn はテナント所有エンティティの識別カラムです
const TenantColumn = "tenant_id"

// TenantScope は現在のテナントのフィルタ条件を付与するGORMスコープです。
// フィルタ値はクエリごとにバインドされるため、条件付きのDBハンドルをキャッシュしてはいけない。
//
//	db.Scopes(TenantScope(ctx)).Find(&roles)
func TenantScope(ctx context.Context) func(*gorm.DB) *gorm.DB {
	tenantID := tenancy.QueryFilterTenantID(ctx)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: TenantColumn},
			Value:  tenantID,
		})
	}
}

// Paginate はページ指定を OFFSET/LIMIT に変換するスコープです。
func Paginate(p model.PageRequest) func(*gorm.DB) *gorm.DB {
	p = p.Normalize()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.PageSize)
	}
}

// stampTenant は SharedDb のテナントの場合のみ所有テナントIDを設定します。
// それ以外は呼び出し元が設定した値をそのまま残す。
func stampTenant(ctx context.Context, entity interface{ SetTenantID(int64) }) {
	if t, ok := tenancy.FromContext(ctx); ok && tenancy.QueryFilterTenantID(ctx) != 0 {
		entity.SetTenantID(t.TenantID)
	}
}
