//go:generate mockery --name UserRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"strings"

	"go_tenant_kernel/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *model.User) error
	FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error)
	List(ctx context.Context, db *gorm.DB, page model.PageRequest) ([]*model.User, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	EmailExists(ctx context.Context, db *gorm.DB, email string, excludeUserID *uuid.UUID) (bool, error)

	AssignRole(ctx context.Context, tx *gorm.DB, link *model.UserRole) error
	RoleIDs(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	RemoveRoles(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
}

type gormUserRepository struct {
	users *ScopedRepository[model.User, *model.User]
	links *ScopedRepository[model.UserRole, *model.UserRole]
}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{
		users: NewScopedRepository[model.User]("user_id", "gormUserRepository"),
		links: NewScopedRepository[model.UserRole]("user_id", "gormUserRoleRepository"),
	}
}

func (r *gormUserRepository) Create(ctx context.Context, tx *gorm.DB, user *model.User) error {
	return r.users.Create(ctx, tx, user)
}

func (r *gormUserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	return r.users.FindByID(ctx, db, userID)
}

func (r *gormUserRepository) List(ctx context.Context, db *gorm.DB, page model.PageRequest) ([]*model.User, error) {
	return r.users.List(ctx, db, func(q *gorm.DB) *gorm.DB { return q.Order("created_at DESC").Order("user_id") }, Paginate(page))
}

func (r *gormUserRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	return r.users.Count(ctx, db)
}

func (r *gormUserRepository) Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]interface{}) error {
	return r.users.Update(ctx, tx, userID, updates)
}

func (r *gormUserRepository) Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return r.users.Delete(ctx, tx, userID)
}

// EmailExists はメールアドレスを小文字で比較します（excludeUserID は更新時の自分自身）
func (r *gormUserRepository) EmailExists(ctx context.Context, db *gorm.DB, email string, excludeUserID *uuid.UUID) (bool, error) {
	return r.users.Exists(ctx, db, func(q *gorm.DB) *gorm.DB {
		q = q.Where("LOWER(email) = ?", strings.ToLower(email))
		if excludeUserID != nil {
			q = q.Where("user_id <> ?", *excludeUserID)
		}
		return q
	})
}

// AssignRole は紐付けを作成します。既に紐付いている場合は ErrConflict。
func (r *gormUserRepository) AssignRole(ctx context.Context, tx *gorm.DB, link *model.UserRole) error {
	return r.links.Create(ctx, tx, link)
}

// RemoveRoles はユーザーのロール紐付けをすべて削除します。紐付けが無くてもエラーにしない。
func (r *gormUserRepository) RemoveRoles(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	if err := r.links.Delete(ctx, tx, userID); err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	return nil
}

func (r *gormUserRepository) RoleIDs(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	links, err := r.links.List(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.RoleID)
	}
	return ids, nil
}
