package cache

import (
	"context"
	"time"

	"go_tenant_kernel/internal/model"
)

const DefaultTTL = 5 * time.Minute

// TenantCache はテナント設定のキャッシュです。
// 実装は格納・取得のたびにコピーを渡し、呼び出し元の変更がキャッシュに波及しないこと。
type TenantCache interface {
	Get(ctx context.Context, key string) (*model.TenantConfig, bool, error)
	Set(ctx context.Context, key string, tenant *model.TenantConfig, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// TenantKey はテナントキーからキャッシュキーを組み立てます。
func TenantKey(tenantKey string) string {
	return "tenant:" + tenantKey
}
