package tenancy

import (
	"context"
	"testing"

	"go_tenant_kernel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTenant_FromContext(t *testing.T) {
	acme := &model.TenantConfig{TenantID: 7, TenantKey: "acme", IsolationMode: model.IsolationSharedDb, IsActive: true}

	ctx, err := WithTenant(context.Background(), acme)
	require.NoError(t, err)

	got, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.TenantID)

	// 返されたコピーを変更してもコンテキスト内の値は変わらない
	got.TenantID = 99
	again, _ := FromContext(ctx)
	assert.Equal(t, int64(7), again.TenantID)

	// 呼び出し元の元の値を変更しても影響しない
	acme.TenantID = 42
	again, _ = FromContext(ctx)
	assert.Equal(t, int64(7), again.TenantID)
}

func TestWithTenant_AlreadySet(t *testing.T) {
	acme := &model.TenantConfig{TenantID: 7, TenantKey: "acme", IsolationMode: model.IsolationSharedDb}
	beta := &model.TenantConfig{TenantID: 8, TenantKey: "beta", IsolationMode: model.IsolationSharedDb}

	ctx, err := WithTenant(context.Background(), acme)
	require.NoError(t, err)

	_, err = WithTenant(ctx, beta)
	assert.ErrorIs(t, err, model.ErrTenantAlreadySet)

	// 同一テナントの再設定は許可
	_, err = WithTenant(ctx, acme)
	assert.NoError(t, err)

	_, err = WithTenant(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrTenantInvalid)
}

func TestFromContext_Unset(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
}

func TestQueryFilterTenantID(t *testing.T) {
	tests := []struct {
		name   string
		tenant *model.TenantConfig
		want   int64
	}{
		{"未解決", nil, 0},
		{"SharedDb", &model.TenantConfig{TenantID: 7, TenantKey: "acme", IsolationMode: model.IsolationSharedDb}, 7},
		{"SchemaPerTenant", &model.TenantConfig{TenantID: 8, TenantKey: "beta", IsolationMode: model.IsolationSchemaPerTenant}, 0},
		{"DedicatedDb", &model.TenantConfig{TenantID: 9, TenantKey: "gamma", IsolationMode: model.IsolationDedicatedDb}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.tenant != nil {
				var err error
				ctx, err = WithTenant(ctx, tt.tenant)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, QueryFilterTenantID(ctx))
		})
	}
}
