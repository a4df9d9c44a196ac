package model

import (
	"time"

	"github.com/google/uuid"
)

// Role はテナント内のロールです
type Role struct {
	RoleID uuid.UUID `gorm:"type:uuid;primaryKey" json:"role_id"`
	TenantOwned
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Description string    `gorm:"type:varchar(500)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

// ロール作成リクエストDTO
type PostRoleRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// ロール更新（全体）リクエストDTO
type PutRoleRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}
