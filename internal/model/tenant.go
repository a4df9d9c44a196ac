package model

import (
	"fmt"
	"strings"
	"time"
)

// IsolationMode はテナントデータの物理的な分離方式です。
type IsolationMode string

const (
	IsolationSharedDb        IsolationMode = "SharedDb"
	IsolationSchemaPerTenant IsolationMode = "SchemaPerTenant"
	IsolationDedicatedDb     IsolationMode = "DedicatedDb"
)

// ParseIsolationMode は分離方式名を大文字小文字を区別せずに解釈します。
func ParseIsolationMode(s string) (IsolationMode, error) {
	for _, m := range []IsolationMode{IsolationSharedDb, IsolationSchemaPerTenant, IsolationDedicatedDb} {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown isolation mode %q", ErrInvalidInput, s)
}

// ProvisioningStatus はテナントの物理ストレージ（スキーマ）の作成状況です。
type ProvisioningStatus string

const (
	ProvisioningPending ProvisioningStatus = "Pending"
	ProvisioningReady   ProvisioningStatus = "Ready"
	ProvisioningFailed  ProvisioningStatus = "Failed"
)

// TenantConfig はホストDBに保存されるテナント設定です。
type TenantConfig struct {
	TenantID           int64              `gorm:"primaryKey;autoIncrement" json:"tenant_id"`
	TenantKey          string             `gorm:"type:varchar(100);uniqueIndex;not null" json:"tenant_key"`
	IsolationMode      IsolationMode      `gorm:"type:varchar(30);not null" json:"isolation_mode"`
	SchemaName         *string            `gorm:"type:varchar(100)" json:"schema_name,omitempty"`
	ConnectionString   *string            `gorm:"type:varchar(1024)" json:"-"` // 資格情報を含むためJSONには出さない
	IsActive           bool               `gorm:"not null" json:"is_active"`
	ProvisioningStatus ProvisioningStatus `gorm:"type:varchar(20);not null" json:"provisioning_status"`
	LastError          *string            `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func (TenantConfig) TableName() string {
	return "tenants"
}

// Validate は分離方式ごとの必須項目を検証します。
func (t *TenantConfig) Validate() error {
	if strings.TrimSpace(t.TenantKey) == "" {
		return fmt.Errorf("%w: tenant key is required", ErrInvalidInput)
	}
	if len(t.TenantKey) > 100 {
		return fmt.Errorf("%w: tenant key exceeds 100 characters", ErrInvalidInput)
	}
	switch t.IsolationMode {
	case IsolationSharedDb:
	case IsolationSchemaPerTenant:
		if t.SchemaName == nil || strings.TrimSpace(*t.SchemaName) == "" {
			return fmt.Errorf("%w: schema name is required for %s", ErrInvalidInput, t.IsolationMode)
		}
	case IsolationDedicatedDb:
		if t.ConnectionString == nil || strings.TrimSpace(*t.ConnectionString) == "" {
			return fmt.Errorf("%w: connection string is required for %s", ErrInvalidInput, t.IsolationMode)
		}
	default:
		return fmt.Errorf("%w: unknown isolation mode %q", ErrInvalidInput, t.IsolationMode)
	}
	return nil
}

// IsProvisioned はプロビジョニングが完了しているかを返します。
// ステータス列追加前のレコード（空文字）は Ready とみなす。
func (t *TenantConfig) IsProvisioned() bool {
	return t.ProvisioningStatus == ProvisioningReady || t.ProvisioningStatus == ""
}

// IsServable はリクエストをこのテナントへルーティングしてよいかを返します。
func (t *TenantConfig) IsServable() bool {
	return t.IsActive && t.IsProvisioned()
}

// Clone はポインタフィールドも含めたディープコピーを返します。
func (t *TenantConfig) Clone() *TenantConfig {
	if t == nil {
		return nil
	}
	c := *t
	c.SchemaName = cloneString(t.SchemaName)
	c.ConnectionString = cloneString(t.ConnectionString)
	c.LastError = cloneString(t.LastError)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr は任意項目のカラム用ヘルパーです。
func StringPtr(s string) *string {
	return &s
}

// テナント作成リクエストDTO
type CreateTenantRequest struct {
	TenantKey     string `json:"tenant_key" validate:"required,min=1,max=63"`
	IsolationMode string `json:"isolation_mode" validate:"required,isolation_mode"`
}

// テナント更新（部分）リクエストDTO
type PatchTenantRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// TenantResponse は管理APIが返すテナント情報です
type TenantResponse struct {
	TenantID           int64              `json:"tenant_id"`
	TenantKey          string             `json:"tenant_key"`
	IsolationMode      IsolationMode      `json:"isolation_mode"`
	SchemaName         *string            `json:"schema_name,omitempty"`
	HasConnection      bool               `json:"has_dedicated_connection"`
	IsActive           bool               `json:"is_active"`
	ProvisioningStatus ProvisioningStatus `json:"provisioning_status"`
	LastError          *string            `json:"last_error,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func NewTenantResponse(t *TenantConfig) TenantResponse {
	return TenantResponse{
		TenantID:           t.TenantID,
		TenantKey:          t.TenantKey,
		IsolationMode:      t.IsolationMode,
		SchemaName:         t.SchemaName,
		HasConnection:      t.ConnectionString != nil && *t.ConnectionString != "",
		IsActive:           t.IsActive,
		ProvisioningStatus: t.ProvisioningStatus,
		LastError:          t.LastError,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}
