//go:generate mockery --name UserService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	RegisterUser(ctx context.Context, req *model.RegisterUserRequest) (*model.UserResponse, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
	ListUsers(ctx context.Context, page model.PageRequest) (*model.PageResponse[*model.UserResponse], error)
	UpdateUser(ctx context.Context, userID uuid.UUID, req *model.UpdateUserRequest) (*model.UserResponse, error)
	DeleteUser(ctx context.Context, userID uuid.UUID) error
	DeactivateUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error)
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) (*model.UserResponse, error)
}

type userService struct {
	dbs      TenantDB
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewUserService(dbs TenantDB, userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{dbs: dbs, userRepo: userRepo, roleRepo: roleRepo}
}

func (s *userService) RegisterUser(ctx context.Context, req *model.RegisterUserRequest) (*model.UserResponse, error) {
	logger := middleware.GetLogger(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, model.ErrInvalidInput
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Failed to hash password", "error", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	db, err := s.dbs.For(ctx)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:       uuid.New(),
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.userRepo.EmailExists(ctx, tx, email, nil)
		if err != nil {
			return err
		}
		if exists {
			return model.NewAppError("EMAIL_EXISTS", "email is already registered", "email", model.ErrConflict)
		}
		return s.userRepo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("User registered", "user_id", user.UserID)
	resp := model.NewUserResponse(user, nil)
	return &resp, nil
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	db, err := s.dbs.For(ctx)
	if err != nil {
		return nil, err
	}
	return s.loadUser(ctx, db, userID)
}

func (s *userService) ListUsers(ctx context.Context, page model.PageRequest) (*model.PageResponse[*model.UserResponse], error) {
	db, err := s.dbs.For(ctx)
	if err != nil {
		return nil, err
	}
	page = page.Normalize()
	total, err := s.userRepo.Count(ctx, db)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx, db, page)
	if err != nil {
		return nil, err
	}
	result := make([]*model.UserResponse, 0, len(users))
	for _, u := range users {
		resp := model.NewUserResponse(u, nil)
		result = append(result, &resp)
	}
	return model.NewPageResponse(result, page, total), nil
}

// UpdateUser はメールアドレスと氏名を更新します。メールアドレスはテナント内で一意。
func (s *userService) UpdateUser(ctx context.Context, userID uuid.UUID, req *model.UpdateUserRequest) (*model.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, model.ErrInvalidInput
	}
	db, err := s.dbs.For(ctx)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.userRepo.EmailExists(ctx, tx, email, &userID)
		if err != nil {
			return err
		}
		if exists {
			return model.NewAppError("EMAIL_EXISTS", "email is already registered", "email", model.ErrConflict)
		}
		return s.userRepo.Update(ctx, tx, userID, map[string]interface{}{
			"email":      email,
			"first_name": req.FirstName,
			"last_name":  req.LastName,
		})
	})
	if err != nil {
		return nil, err
	}
	middleware.GetLogger(ctx).Info("User updated", "user_id", userID)
	return s.loadUser(ctx, db, userID)
}

// DeleteUser はユーザーとそのロール紐付けを削除します。
func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	db, err := s.dbs.For(ctx)
	if err != nil {
		return err
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByID(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.userRepo.RemoveRoles(ctx, tx, userID); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, tx, userID)
	})
	if err != nil {
		return err
	}
	middleware.GetLogger(ctx).Info("User deleted", "user_id", userID)
	return nil
}

func (s *userService) DeactivateUser(ctx context.Context, userID uuid.UUID) (*model.UserResponse, error) {
	db, err := s.dbs.For(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, db, userID, map[string]interface{}{"is_active": false}); err != nil {
		return nil, err
	}
	return s.loadUser(ctx, db, userID)
}

// AssignRole はユーザーにロールを付与します。ユーザーとロールは同じテナントに属している必要がある。
// 付与済みの場合は何もしない。
func (s *userService) AssignRole(ctx context.Context, userID, roleID uuid.UUID) (*model.UserResponse, error) {
	db, err := s.dbs.For(ctx)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.userRepo.FindByID(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := s.roleRepo.FindByID(ctx, tx, roleID); err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("ROLE_NOT_FOUND", "role not found", "role_id", model.ErrNotFound)
			}
			return err
		}
		assigned, err := s.userRepo.RoleIDs(ctx, tx, userID)
		if err != nil {
			return err
		}
		for _, id := range assigned {
			if id == roleID {
				return nil
			}
		}
		return s.userRepo.AssignRole(ctx, tx, &model.UserRole{UserID: userID, RoleID: roleID})
	})
	if err != nil {
		return nil, err
	}
	return s.loadUser(ctx, db, userID)
}

func (s *userService) loadUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	ids, err := s.userRepo.RoleIDs(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	roles, err := s.roleRepo.FindByIDs(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	resp := model.NewUserResponse(user, names)
	return &resp, nil
}
