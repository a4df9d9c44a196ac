package service

import (
	"testing"

	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (UserService, RoleService, *gorm.DB) {
	t.Helper()
	db := setupAppDB(t)
	dbs := StaticDB{DB: db}
	roleRepo := repository.NewGormRoleRepository()
	return NewUserService(dbs, repository.NewGormUserRepository(), roleRepo), NewRoleService(dbs, roleRepo), db
}

func Test_userService_RegisterUser(t *testing.T) {
	users, _, db := newUserService(t)
	acmeCtx := tenantCtx(t, sharedTenant(2, "acme"))
	betaCtx := tenantCtx(t, sharedTenant(3, "beta"))

	resp, err := users.RegisterUser(acmeCtx, &model.RegisterUserRequest{Email: " Ann@Example.com ", Password: "password123", FirstName: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", resp.Email)
	assert.True(t, resp.IsActive)
	assert.Empty(t, resp.Roles)

	t.Run("同じメールはテナント内で衝突", func(t *testing.T) {
		_, err := users.RegisterUser(acmeCtx, &model.RegisterUserRequest{Email: "ann@example.com", Password: "password123"})
		assert.ErrorIs(t, err, model.ErrConflict)

		_, err = users.RegisterUser(betaCtx, &model.RegisterUserRequest{Email: "ann@example.com", Password: "password123"})
		assert.NoError(t, err)
	})

	t.Run("パスワードはハッシュで保存", func(t *testing.T) {
		var stored model.User
		require.NoError(t, db.Where("user_id = ?", resp.UserID).First(&stored).Error)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
		assert.Equal(t, int64(2), stored.TenantID)
	})

	t.Run("入力不足", func(t *testing.T) {
		_, err := users.RegisterUser(acmeCtx, &model.RegisterUserRequest{Email: " ", Password: "password123"})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("一覧は自テナントのみ", func(t *testing.T) {
		list, err := users.ListUsers(acmeCtx, model.PageRequest{})
		require.NoError(t, err)
		require.Len(t, list.Items, 1)
		assert.Equal(t, resp.UserID, list.Items[0].UserID)
		assert.Equal(t, int64(1), list.TotalCount)
		assert.Equal(t, model.DefaultPageSize, list.PageSize)
	})
}

func Test_userService_AssignRoleAndDeactivate(t *testing.T) {
	users, roles, _ := newUserService(t)
	acmeCtx := tenantCtx(t, sharedTenant(2, "acme"))
	betaCtx := tenantCtx(t, sharedTenant(3, "beta"))

	user, err := users.RegisterUser(acmeCtx, &model.RegisterUserRequest{Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)
	admin, err := roles.CreateRole(acmeCtx, &model.PostRoleRequest{Name: "Admin"})
	require.NoError(t, err)
	betaRole, err := roles.CreateRole(betaCtx, &model.PostRoleRequest{Name: "Admin"})
	require.NoError(t, err)

	resp, err := users.AssignRole(acmeCtx, user.UserID, admin.RoleID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin"}, resp.Roles)

	// 付与済みは何もしない
	resp, err = users.AssignRole(acmeCtx, user.UserID, admin.RoleID)
	require.NoError(t, err)
	assert.Len(t, resp.Roles, 1)

	t.Run("他テナントのロールは付与できない", func(t *testing.T) {
		_, err := users.AssignRole(acmeCtx, user.UserID, betaRole.RoleID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("他テナントのユーザーは操作できない", func(t *testing.T) {
		_, err := users.AssignRole(betaCtx, user.UserID, betaRole.RoleID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		_, err = users.DeactivateUser(betaCtx, user.UserID)
		assert.ErrorIs(t, err, model.ErrNotFound)
		_, err = users.GetUser(betaCtx, user.UserID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	deactivated, err := users.DeactivateUser(acmeCtx, user.UserID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	got, err := users.GetUser(acmeCtx, user.UserID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, []string{"Admin"}, got.Roles)

	_, err = users.GetUser(acmeCtx, uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func Test_userService_UpdateAndDeleteUser(t *testing.T) {
	users, roles, db := newUserService(t)
	acmeCtx := tenantCtx(t, sharedTenant(2, "acme"))
	betaCtx := tenantCtx(t, sharedTenant(3, "beta"))

	ann, err := users.RegisterUser(acmeCtx, &model.RegisterUserRequest{Email: "ann@example.com", Password: "password123"})
	require.NoError(t, err)
	bob, err := users.RegisterUser(acmeCtx, &model.RegisterUserRequest{Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)
	admin, err := roles.CreateRole(acmeCtx, &model.PostRoleRequest{Name: "Admin"})
	require.NoError(t, err)
	_, err = users.AssignRole(acmeCtx, ann.UserID, admin.RoleID)
	require.NoError(t, err)

	t.Run("更新", func(t *testing.T) {
		updated, err := users.UpdateUser(acmeCtx, ann.UserID, &model.UpdateUserRequest{Email: " Ann.Smith@Example.com ", FirstName: "Ann", LastName: "Smith"})
		require.NoError(t, err)
		assert.Equal(t, "ann.smith@example.com", updated.Email)
		assert.Equal(t, "Smith", updated.LastName)
		assert.Equal(t, []string{"Admin"}, updated.Roles)

		// 自分自身のメールアドレスのままなら衝突しない
		_, err = users.UpdateUser(acmeCtx, ann.UserID, &model.UpdateUserRequest{Email: "ann.smith@example.com", FirstName: "Ann"})
		require.NoError(t, err)
	})

	t.Run("他ユーザーのメールアドレスには変更できない", func(t *testing.T) {
		_, err := users.UpdateUser(acmeCtx, bob.UserID, &model.UpdateUserRequest{Email: "ann.smith@example.com"})
		assert.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("他テナントのユーザーは更新も削除もできない", func(t *testing.T) {
		_, err := users.UpdateUser(betaCtx, ann.UserID, &model.UpdateUserRequest{Email: "x@example.com"})
		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.ErrorIs(t, users.DeleteUser(betaCtx, ann.UserID), model.ErrNotFound)
	})

	t.Run("入力不足", func(t *testing.T) {
		_, err := users.UpdateUser(acmeCtx, ann.UserID, &model.UpdateUserRequest{Email: " "})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	require.NoError(t, users.DeleteUser(acmeCtx, ann.UserID))
	_, err = users.GetUser(acmeCtx, ann.UserID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, users.DeleteUser(acmeCtx, ann.UserID), model.ErrNotFound)

	var links int64
	require.NoError(t, db.Model(&model.UserRole{}).Where("user_id = ?", ann.UserID).Count(&links).Error)
	assert.Zero(t, links, "ロールの紐付けも削除される")

	list, err := users.ListUsers(acmeCtx, model.PageRequest{Page: 1, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, bob.UserID, list.Items[0].UserID)
	assert.False(t, list.HasNextPage)
}
