//go:generate mockery --name RoleService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"fmt"
	"strings"

	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultRoles は新しいアプリDBに投入される初期ロールです
var DefaultRoles = []model.PostRoleRequest{
	{Name: "Admin", Description: "Full access within the tenant"},
	{Name: "User", Description: "Standard access"},
}

type RoleService interface {
	CreateRole(ctx context.Context, req *model.PostRoleRequest) (*model.Role, error)
	GetRole(ctx context.Context, roleID uuid.UUID) (*model.Role, error)
	ListRoles(ctx context.Context, page model.PageRequest) (*model.PageResponse[*model.Role], error)
	UpdateRole(ctx context.Context, roleID uuid.UUID, req *model.PutRoleRequest) (*model.Role, error)
	DeleteRole(ctx context.Context, roleID uuid.UUID) error
	SeedDefaultRoles(ctx context.Context) (int, error)
}

type roleService struct {
	dbs      TenantDB
	roleRepo repository.RoleRepository
}

func NewRoleService(dbs TenantDB, roleRepo repository.RoleRepository) RoleService {
	return &roleService{dbs: dbs, roleRepo: roleRepo}
}

func (s *roleService) CreateRole(ctx context.Context, req *model.PostRoleRequest) (*model.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrInvalidInput
	}
	db, err := s.dbs.For(ctx)
	if err != nil {
		return nil, err
	}

	role := &model.Role{
		RoleID:      uuid.New(),
		Name:        name,
		Description: req.Description,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.roleRepo.NameExists(ctx, tx, name, nil)
		if err != nil {
			return err
		}
		if exists {
			return model.NewAppError("ROLE_EXISTS", fmt.Sprintf("role '%s' already exists", name), "name", model.ErrConflict)
		}
		return s.roleRepo.Create(ctx, tx, role)
	})
	if err != nil {
		return nil, err
	}
	middleware.GetLogger(ctx).Info("Role created", "role_id", role.RoleID, "name", role.Name)
	return role, nil
}

func (s *roleService) GetRole(ctx context.Context, roleID uuid.UUID) (*model.Role, error) {
	db, err := s.dbs.For(ctx)
	if err != nil {
		return nil, err
	}
	return s.roleRepo.FindByID(ctx, db, roleID)
}

func (s *roleService) ListRoles(ctx context.Context, page model.PageRequest) (*model.PageResponse[*model.Role], error) {
	db, err := s.dbs.For(ctx)
	if err != nil {
		return nil, err
	}
	page = page.Normalize()
	total, err := s.roleRepo.Count(ctx, db)
	if err != nil {
		return nil, err
	}
	roles, err := s.roleRepo.List(ctx, db, page)
	if err != nil {
		return nil, err
	}
	return model.NewPageResponse(roles, page, total), nil
}

func (s *roleService) UpdateRole(ctx context.Context, roleID uuid.UUID, req *model.PutRoleRequest) (*model.Role, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, model.ErrInvalidInput
	}
	db, err := s.dbs.For(ctx)
	if err != nil {
		return nil, err
	}

	var updated *model.Role
	err = db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.roleRepo.NameExists(ctx, tx, name, &roleID)
		if err != nil {
			return err
		}
		if exists {
			return model.NewAppError("ROLE_EXISTS", fmt.Sprintf("role '%s' already exists", name), "name", model.ErrConflict)
		}
		if err := s.roleRepo.Update(ctx, tx, roleID, map[string]interface{}{
			"name":        name,
			"description": req.Description,
		}); err != nil {
			return err
		}
		updated, err = s.roleRepo.FindByID(ctx, tx, roleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *roleService) DeleteRole(ctx context.Context, roleID uuid.UUID) error {
	db, err := s.dbs.For(ctx)
	if err != nil {
		return err
	}
	return s.roleRepo.Delete(ctx, db, roleID)
}

// SeedDefaultRoles は現在のテナントにロールが1件も無い場合のみ初期ロールを作成します。
func (s *roleService) SeedDefaultRoles(ctx context.Context) (int, error) {
	db, err := s.dbs.For(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		count, err := s.roleRepo.Count(ctx, tx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		for _, r := range DefaultRoles {
			role := &model.Role{RoleID: uuid.New(), Name: r.Name, Description: r.Description}
			if err := s.roleRepo.Create(ctx, tx, role); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}
