package tenancy

import (
	"context"
	"strings"

	"go_tenant_kernel/internal/model"
)

// tenantCtxKey はコンテキストにテナントを格納するためのキーです。
type tenantCtxKey struct{}

// WithTenant はリクエストスコープのコンテキストにテナントを設定します。
// 既に別のテナントが設定されている場合は ErrTenantAlreadySet を返す。同一テナントの再設定は許可。
func WithTenant(ctx context.Context, tenant *model.TenantConfig) (context.Context, error) {
	if tenant == nil {
		return ctx, model.ErrTenantInvalid
	}
	if current, ok := ctx.Value(tenantCtxKey{}).(*model.TenantConfig); ok {
		if current.TenantID != tenant.TenantID || current.TenantKey != tenant.TenantKey {
			return ctx, model.ErrTenantAlreadySet
		}
		return ctx, nil
	}
	return context.WithValue(ctx, tenantCtxKey{}, tenant.Clone()), nil
}

// FromContext は現在のテナントのコピーを返します。未設定なら false。
func FromContext(ctx context.Context) (*model.TenantConfig, bool) {
	t, ok := ctx.Value(tenantCtxKey{}).(*model.TenantConfig)
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// QueryFilterTenantID はクエリフィルタに使うテナントIDを返します。
// SharedDb のテナントのみ自身のIDを返し、それ以外（未解決を含む）は 0。
func QueryFilterTenantID(ctx context.Context) int64 {
	t, ok := ctx.Value(tenantCtxKey{}).(*model.TenantConfig)
	if !ok || t.IsolationMode != model.IsolationSharedDb {
		return 0
	}
	return t.TenantID
}

// NormalizeKey はテナントキーを比較用の正規形（前後空白除去・小文字）にします。
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
