package repository

import (
	"context"
	"errors"
	"fmt"

	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScopedRepository はテナント所有エンティティの汎用CRUDです。
// 読み取り・更新・削除にはすべて TenantScope が適用され、作成時はテナントIDが付与される。
type ScopedRepository[T any, PT interface {
	*T
	model.MultiTenantEntity
}] struct {
	idColumn string
	name     string
}

func NewScopedRepository[T any, PT interface {
	*T
	model.MultiTenantEntity
}](idColumn, name string) *ScopedRepository[T, PT] {
	return &ScopedRepository[T, PT]{idColumn: idColumn, name: name}
}

func (r *ScopedRepository[T, PT]) idEq(id any) clause.Eq {
	return clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: r.idColumn}, Value: id}
}

func (r *ScopedRepository[T, PT]) Create(ctx context.Context, tx *gorm.DB, entity PT) error {
	logger := middleware.GetLogger(ctx)
	stampTenant(ctx, entity)

	if err := tx.WithContext(ctx).Create(entity).Error; err != nil {
		if isDuplicateKey(err) {
			logger.Warn("Duplicate key error on create", "entity", r.name, "error", err)
			return model.ErrConflict
		}
		logger.Error("Error creating entity in DB", "entity", r.name, "error", err)
		return fmt.Errorf("%s.Create: %w", r.name, err)
	}
	return nil
}

func (r *ScopedRepository[T, PT]) FindByID(ctx context.Context, db *gorm.DB, id any) (PT, error) {
	var entity T
	result := db.WithContext(ctx).Scopes(TenantScope(ctx)).Where(r.idEq(id)).First(&entity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding entity by ID in DB", "entity", r.name, "id", id, "error", result.Error)
		return nil, fmt.Errorf("%s.FindByID: %w", r.name, result.Error)
	}
	return PT(&entity), nil
}

// List は scopes で絞り込み・並び替えを追加できます。テナント条件は scopes より先に適用される。
func (r *ScopedRepository[T, PT]) List(ctx context.Context, db *gorm.DB, scopes ...func(*gorm.DB) *gorm.DB) ([]PT, error) {
	var entities []PT
	q := db.WithContext(ctx).Scopes(TenantScope(ctx)).Scopes(scopes...)
	if err := q.Find(&entities).Error; err != nil {
		middleware.GetLogger(ctx).Error("Error listing entities in DB", "entity", r.name, "error", err)
		return nil, fmt.Errorf("%s.List: %w", r.name, err)
	}
	return entities, nil
}

func (r *ScopedRepository[T, PT]) Count(ctx context.Context, db *gorm.DB, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var count int64
	q := db.WithContext(ctx).Model(PT(new(T))).Scopes(TenantScope(ctx)).Scopes(scopes...)
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%s.Count: %w", r.name, err)
	}
	return count, nil
}

func (r *ScopedRepository[T, PT]) Exists(ctx context.Context, db *gorm.DB, scopes ...func(*gorm.DB) *gorm.DB) (bool, error) {
	count, err := r.Count(ctx, db, scopes...)
	return count > 0, err
}

// Update は現在のテナントに属する行のみ更新します。所有テナントの付け替えはできない。
func (r *ScopedRepository[T, PT]) Update(ctx context.Context, tx *gorm.DB, id any, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)
	delete(updates, TenantColumn)
	delete(updates, r.idColumn)

	result := tx.WithContext(ctx).Model(PT(new(T))).Scopes(TenantScope(ctx)).Where(r.idEq(id)).Updates(updates)
	if result.Error != nil {
		if isDuplicateKey(result.Error) {
			return model.ErrConflict
		}
		logger.Error("Error updating entity in DB", "entity", r.name, "id", id, "error", result.Error)
		return fmt.Errorf("%s.Update: %w", r.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ScopedRepository[T, PT]) Delete(ctx context.Context, tx *gorm.DB, id any) error {
	logger := middleware.GetLogger(ctx)
	result := tx.WithContext(ctx).Scopes(TenantScope(ctx)).Where(r.idEq(id)).Delete(PT(new(T)))
	if result.Error != nil {
		logger.Error("Error deleting entity in DB", "entity", r.name, "id", id, "error", result.Error)
		return fmt.Errorf("%s.Delete: %w", r.name, result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
