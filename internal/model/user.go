package model

import (
	"time"

	"github.com/google/uuid"
)

// User はテナント内のユーザーです
type User struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	TenantOwned
	Email          string     `gorm:"type:varchar(255);not null;index" json:"email"`
	PasswordHash   string     `gorm:"not null" json:"-"`
	FirstName      string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName       string     `gorm:"type:varchar(100)" json:"last_name"`
	EmailConfirmed bool       `gorm:"not null" json:"email_confirmed"`
	IsActive       bool       `gorm:"not null" json:"is_active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserRole はユーザーとロールの紐付けです
type UserRole struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	RoleID uuid.UUID `gorm:"type:uuid;primaryKey" json:"role_id"`
	TenantOwned
	CreatedAt time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// RegisterUserRequest はユーザー登録APIのリクエストボディ (DTO)
type RegisterUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// UpdateUserRequest はユーザー更新（全体）APIのリクエストボディ (DTO)
type UpdateUserRequest struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// UserResponse はクライアントに返すユーザー情報
type UserResponse struct {
	UserID         uuid.UUID  `json:"user_id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	EmailConfirmed bool       `json:"email_confirmed"`
	IsActive       bool       `json:"is_active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	Roles          []string   `json:"roles"`
	CreatedAt      time.Time  `json:"created_at"`
}

func NewUserResponse(u *User, roles []string) UserResponse {
	if roles == nil {
		roles = []string{}
	}
	return UserResponse{
		UserID:         u.UserID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		EmailConfirmed: u.EmailConfirmed,
		IsActive:       u.IsActive,
		LastLoginAt:    u.LastLoginAt,
		Roles:          roles,
		CreatedAt:      u.CreatedAt,
	}
}
