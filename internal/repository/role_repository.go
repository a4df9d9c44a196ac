//go:generate mockery --name RoleRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"

	"go_tenant_kernel/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(ctx context.Context, tx *gorm.DB, role *model.Role) error
	FindByID(ctx context.Context, db *gorm.DB, roleID uuid.UUID) (*model.Role, error)
	FindByIDs(ctx context.Context, db *gorm.DB, roleIDs []uuid.UUID) ([]*model.Role, error)
	List(ctx context.Context, db *gorm.DB, page model.PageRequest) ([]*model.Role, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, roleID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) error
	NameExists(ctx context.Context, db *gorm.DB, name string, excludeRoleID *uuid.UUID) (bool, error)
}

type gormRoleRepository struct {
	scoped *ScopedRepository[model.Role, *model.Role]
}

func NewGormRoleRepository() RoleRepository {
	return &gormRoleRepository{scoped: NewScopedRepository[model.Role]("role_id", "gormRoleRepository")}
}

func (r *gormRoleRepository) Create(ctx context.Context, tx *gorm.DB, role *model.Role) error {
	return r.scoped.Create(ctx, tx, role)
}

func (r *gormRoleRepository) FindByID(ctx context.Context, db *gorm.DB, roleID uuid.UUID) (*model.Role, error) {
	return r.scoped.FindByID(ctx, db, roleID)
}

func (r *gormRoleRepository) FindByIDs(ctx context.Context, db *gorm.DB, roleIDs []uuid.UUID) ([]*model.Role, error) {
	if len(roleIDs) == 0 {
		return []*model.Role{}, nil
	}
	return r.scoped.List(ctx, db, func(q *gorm.DB) *gorm.DB {
		return q.Where("role_id IN ?", roleIDs).Order("name")
	})
}

func (r *gormRoleRepository) List(ctx context.Context, db *gorm.DB, page model.PageRequest) ([]*model.Role, error) {
	return r.scoped.List(ctx, db, func(q *gorm.DB) *gorm.DB { return q.Order("name").Order("role_id") }, Paginate(page))
}

func (r *gormRoleRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	return r.scoped.Count(ctx, db)
}

func (r *gormRoleRepository) Update(ctx context.Context, tx *gorm.DB, roleID uuid.UUID, updates map[string]interface{}) error {
	return r.scoped.Update(ctx, tx, roleID, updates)
}

func (r *gormRoleRepository) Delete(ctx context.Context, tx *gorm.DB, roleID uuid.UUID) error {
	return r.scoped.Delete(ctx, tx, roleID)
}

// NameExists はテナント内で同名のロールがあるか確認します（excludeRoleID は更新時の自分自身）
func (r *gormRoleRepository) NameExists(ctx context.Context, db *gorm.DB, name string, excludeRoleID *uuid.UUID) (bool, error) {
	return r.scoped.Exists(ctx, db, func(q *gorm.DB) *gorm.DB {
		q = q.Where("name = ?", name)
		if excludeRoleID != nil {
			q = q.Where("role_id <> ?", *excludeRoleID)
		}
		return q
	})
}
