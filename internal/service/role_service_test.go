package service

import (
	"testing"

	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_roleService_CRUD(t *testing.T) {
	db := setupAppDB(t)
	svc := NewRoleService(StaticDB{DB: db}, repository.NewGormRoleRepository())
	acmeCtx := tenantCtx(t, sharedTenant(2, "acme"))
	betaCtx := tenantCtx(t, sharedTenant(3, "beta"))

	role, err := svc.CreateRole(acmeCtx, &model.PostRoleRequest{Name: "  Editor ", Description: "edits"})
	require.NoError(t, err)
	assert.Equal(t, "Editor", role.Name)
	assert.Equal(t, int64(2), role.TenantID)

	t.Run("同名はテナント内で衝突", func(t *testing.T) {
		_, err := svc.CreateRole(acmeCtx, &model.PostRoleRequest{Name: "Editor"})
		assert.ErrorIs(t, err, model.ErrConflict)

		_, err = svc.CreateRole(betaCtx, &model.PostRoleRequest{Name: "Editor"})
		assert.NoError(t, err, "別テナントなら同名を作成できる")
	})

	t.Run("他テナントからは見えない", func(t *testing.T) {
		_, err := svc.GetRole(betaCtx, role.RoleID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		roles, err := svc.ListRoles(betaCtx, model.PageRequest{})
		require.NoError(t, err)
		require.Len(t, roles.Items, 1)
		assert.Equal(t, int64(1), roles.TotalCount)
		assert.NotEqual(t, role.RoleID, roles.Items[0].RoleID)
	})

	t.Run("更新", func(t *testing.T) {
		updated, err := svc.UpdateRole(acmeCtx, role.RoleID, &model.PutRoleRequest{Name: "Writer", Description: "writes"})
		require.NoError(t, err)
		assert.Equal(t, "Writer", updated.Name)
		assert.Equal(t, "writes", updated.Description)

		_, err = svc.UpdateRole(betaCtx, role.RoleID, &model.PutRoleRequest{Name: "Stolen"})
		assert.ErrorIs(t, err, model.ErrNotFound)

		_, err = svc.UpdateRole(acmeCtx, role.RoleID, &model.PutRoleRequest{Name: " "})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("削除", func(t *testing.T) {
		assert.ErrorIs(t, svc.DeleteRole(betaCtx, role.RoleID), model.ErrNotFound)
		require.NoError(t, svc.DeleteRole(acmeCtx, role.RoleID))
		assert.ErrorIs(t, svc.DeleteRole(acmeCtx, uuid.New()), model.ErrNotFound)
	})
}

func Test_roleService_SeedDefaultRoles(t *testing.T) {
	db := setupAppDB(t)
	svc := NewRoleService(StaticDB{DB: db}, repository.NewGormRoleRepository())
	ctx := tenantCtx(t, sharedTenant(1, "public"))

	created, err := svc.SeedDefaultRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultRoles), created)

	created, err = svc.SeedDefaultRoles(ctx)
	require.NoError(t, err)
	assert.Zero(t, created, "既にロールがあれば投入しない")

	roles, err := svc.ListRoles(ctx, model.PageRequest{})
	require.NoError(t, err)
	require.Len(t, roles.Items, 2)
	assert.Equal(t, "Admin", roles.Items[0].Name)

	page, err := svc.ListRoles(ctx, model.PageRequest{Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "User", page.Items[0].Name)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.False(t, page.HasNextPage)

	// 別テナントには影響しない
	created, err = svc.SeedDefaultRoles(tenantCtx(t, sharedTenant(2, "acme")))
	require.NoError(t, err)
	assert.Equal(t, 2, created)
}
