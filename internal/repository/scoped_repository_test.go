package repository

import (
	"context"
	"testing"

	"go_tenant_kernel/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRole(name string) *model.Role {
	return &model.Role{RoleID: uuid.New(), Name: name}
}

func TestScopedRepository_SharedDbIsolation(t *testing.T) {
	db := setupAppDB(t)
	repo := NewGormRoleRepository()

	acmeCtx := tenantCtx(t, sharedTenant(2, "acme"))
	betaCtx := tenantCtx(t, sharedTenant(3, "beta"))

	acmeRole := newRole("Admin")
	require.NoError(t, repo.Create(acmeCtx, db, acmeRole))
	assert.Equal(t, int64(2), acmeRole.TenantID, "作成時に所有テナントが付与される")

	betaRole := newRole("Admin")
	require.NoError(t, repo.Create(betaCtx, db, betaRole))

	t.Run("一覧は自テナントのみ", func(t *testing.T) {
		roles, err := repo.List(acmeCtx, db, model.PageRequest{})
		require.NoError(t, err)
		require.Len(t, roles, 1)
		assert.Equal(t, acmeRole.RoleID, roles[0].RoleID)
	})

	t.Run("他テナントの行はIDで取得できない", func(t *testing.T) {
		_, err := repo.FindByID(betaCtx, db, acmeRole.RoleID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("他テナントの行は更新できない", func(t *testing.T) {
		err := repo.Update(betaCtx, db, acmeRole.RoleID, map[string]interface{}{"name": "Owned"})
		assert.ErrorIs(t, err, model.ErrNotFound)

		got, err := repo.FindByID(acmeCtx, db, acmeRole.RoleID)
		require.NoError(t, err)
		assert.Equal(t, "Admin", got.Name)
	})

	t.Run("tenant_id の付け替えは無視される", func(t *testing.T) {
		err := repo.Update(acmeCtx, db, acmeRole.RoleID, map[string]interface{}{"tenant_id": int64(3), "description": "moved?"})
		require.NoError(t, err)

		got, err := repo.FindByID(acmeCtx, db, acmeRole.RoleID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.TenantID)
		assert.Equal(t, "moved?", got.Description)
	})

	t.Run("他テナントの行は削除できない", func(t *testing.T) {
		err := repo.Delete(betaCtx, db, acmeRole.RoleID)
		assert.ErrorIs(t, err, model.ErrNotFound)

		count, err := repo.Count(acmeCtx, db)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("名前の重複はテナント内でのみ判定", func(t *testing.T) {
		exists, err := repo.NameExists(acmeCtx, db, "Admin", nil)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.NameExists(acmeCtx, db, "Admin", &acmeRole.RoleID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestScopedRepository_NonSharedModesUseZeroFilter(t *testing.T) {
	db := setupAppDB(t)
	repo := NewGormRoleRepository()

	// スキーマ分離のテナントは自分のスキーマに全行を持つためフィルタ値は 0
	schemaCtx := tenantCtx(t, schemaTenant(4, "gamma"))
	role := newRole("User")
	require.NoError(t, repo.Create(schemaCtx, db, role))
	assert.Equal(t, int64(0), role.TenantID, "SharedDb 以外ではテナントIDを付与しない")

	roles, err := repo.List(schemaCtx, db, model.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	// テナント未解決のフォールバックも 0 で絞り込む
	roles, err = repo.List(context.Background(), db, model.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, roles, 1)

	// SharedDb のテナントからは見えない
	roles, err = repo.List(tenantCtx(t, sharedTenant(2, "acme")), db, model.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, roles)
}

// storedRole はテナント条件を付けずに行をそのまま読み出す
func storedRole(t *testing.T, db *gorm.DB, id uuid.UUID) model.Role {
	t.Helper()
	var role model.Role
	require.NoError(t, db.Where("role_id = ?", id).First(&role).Error)
	return role
}

func TestScopedRepository_CreateOverridesCallerTenantID(t *testing.T) {
	db := setupAppDB(t)
	repo := NewGormRoleRepository()

	t.Run("SharedDb では呼び出し元の値を上書きする", func(t *testing.T) {
		role := newRole("Admin")
		role.TenantID = 99
		require.NoError(t, repo.Create(tenantCtx(t, sharedTenant(2, "acme")), db, role))

		assert.Equal(t, int64(2), storedRole(t, db, role.RoleID).TenantID)
		assert.Equal(t, int64(2), role.TenantID)
	})

	t.Run("SchemaPerTenant では呼び出し元の値を残す", func(t *testing.T) {
		role := newRole("Auditor")
		role.TenantID = 99
		require.NoError(t, repo.Create(tenantCtx(t, schemaTenant(4, "gamma")), db, role))

		assert.Equal(t, int64(99), storedRole(t, db, role.RoleID).TenantID)
	})
}

func TestScopedRepository_FindByIDs(t *testing.T) {
	db := setupAppDB(t)
	repo := NewGormRoleRepository()
	ctx := tenantCtx(t, sharedTenant(2, "acme"))

	a, b := newRole("B-role"), newRole("A-role")
	require.NoError(t, repo.Create(ctx, db, a))
	require.NoError(t, repo.Create(ctx, db, b))

	roles, err := repo.FindByIDs(ctx, db, []uuid.UUID{a.RoleID, b.RoleID})
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "A-role", roles[0].Name)

	roles, err = repo.FindByIDs(ctx, db, nil)
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestUserRepository_AssignRole(t *testing.T) {
	db := setupAppDB(t)
	users := NewGormUserRepository()
	ctx := tenantCtx(t, sharedTenant(2, "acme"))

	user := &model.User{UserID: uuid.New(), Email: "Ann@Example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, db, user))

	exists, err := users.EmailExists(ctx, db, "ann@example.com", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = users.EmailExists(tenantCtx(t, sharedTenant(3, "beta")), db, "ann@example.com", nil)
	require.NoError(t, err)
	assert.False(t, exists)

	roleID := uuid.New()
	link := &model.UserRole{UserID: user.UserID, RoleID: roleID}
	require.NoError(t, users.AssignRole(ctx, db, link))
	assert.Equal(t, int64(2), link.TenantID)

	err = users.AssignRole(ctx, db, &model.UserRole{UserID: user.UserID, RoleID: roleID})
	assert.ErrorIs(t, err, model.ErrConflict)

	ids, err := users.RoleIDs(ctx, db, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{roleID}, ids)
}

func TestRoleRepository_ListPaginates(t *testing.T) {
	db := setupAppDB(t)
	repo := NewGormRoleRepository()
	ctx := tenantCtx(t, sharedTenant(2, "acme"))

	for _, name := range []string{"E", "C", "A", "D", "B"} {
		require.NoError(t, repo.Create(ctx, db, newRole(name)))
	}
	// 他テナントの行はページにもカウントにも含まれない
	require.NoError(t, repo.Create(tenantCtx(t, sharedTenant(3, "beta")), db, newRole("AA")))

	first, err := repo.List(ctx, db, model.PageRequest{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "A", first[0].Name)
	assert.Equal(t, "B", first[1].Name)

	last, err := repo.List(ctx, db, model.PageRequest{Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "E", last[0].Name)

	beyond, err := repo.List(ctx, db, model.PageRequest{Page: 4, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)

	count, err := repo.Count(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestUserRepository_DeleteAndRemoveRoles(t *testing.T) {
	db := setupAppDB(t)
	users := NewGormUserRepository()
	acmeCtx := tenantCtx(t, sharedTenant(2, "acme"))
	betaCtx := tenantCtx(t, sharedTenant(3, "beta"))

	ann := &model.User{UserID: uuid.New(), Email: "ann@example.com", PasswordHash: "x", IsActive: true}
	bob := &model.User{UserID: uuid.New(), Email: "bob@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, users.Create(acmeCtx, db, ann))
	require.NoError(t, users.Create(acmeCtx, db, bob))
	require.NoError(t, users.AssignRole(acmeCtx, db, &model.UserRole{UserID: ann.UserID, RoleID: uuid.New()}))

	t.Run("メール重複の判定で自分自身は除外できる", func(t *testing.T) {
		exists, err := users.EmailExists(acmeCtx, db, "ann@example.com", &ann.UserID)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = users.EmailExists(acmeCtx, db, "ann@example.com", &bob.UserID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("他テナントからは削除できない", func(t *testing.T) {
		assert.ErrorIs(t, users.Delete(betaCtx, db, ann.UserID), model.ErrNotFound)
		require.NoError(t, users.RemoveRoles(betaCtx, db, ann.UserID))

		ids, err := users.RoleIDs(acmeCtx, db, ann.UserID)
		require.NoError(t, err)
		assert.Len(t, ids, 1)
	})

	require.NoError(t, users.RemoveRoles(acmeCtx, db, ann.UserID))
	require.NoError(t, users.RemoveRoles(acmeCtx, db, ann.UserID), "紐付けが無くてもエラーにしない")
	require.NoError(t, users.Delete(acmeCtx, db, ann.UserID))

	_, err := users.FindByID(acmeCtx, db, ann.UserID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	count, err := users.Count(acmeCtx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	list, err := users.List(acmeCtx, db, model.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bob.UserID, list[0].UserID)
}
