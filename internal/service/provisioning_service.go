//go:generate mockery --name ProvisioningService --output ./mocks --outpkg mocks --case=underscore
package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go_tenant_kernel/internal/metrics"
	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/repository"
	"go_tenant_kernel/internal/tenancy"
)

// DefaultDedicatedConnectionTemplate は専用DBの接続文字列テンプレートです。{key} がテナントキーに置換される。
const DefaultDedicatedConnectionTemplate = "host=localhost dbname={key}_db user=postgres password=postgres sslmode=disable"

// スキーマ名に使えるキー（小文字英数字・ハイフン・アンダースコア、先頭は英数字）
var tenantKeyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// ProvisioningService はテナントの作成と状態管理を行います。
type ProvisioningService interface {
	CreateTenant(ctx context.Context, tenantKey string, mode model.IsolationMode) (*model.TenantConfig, error)
	RetrySchema(ctx context.Context, tenantKey string) (*model.TenantConfig, error)
	SetActive(ctx context.Context, tenantKey string, active bool) (*model.TenantConfig, error)
	GetTenant(ctx context.Context, tenantKey string) (*model.TenantConfig, error)
	ListActive(ctx context.Context) ([]*model.TenantConfig, error)
}

type provisioningService struct {
	store              TenantStore
	schemas            repository.SchemaCreator
	connectionTemplate string
	metrics            *metrics.Metrics
}

func NewProvisioningService(store TenantStore, schemas repository.SchemaCreator, connectionTemplate string, m *metrics.Metrics) ProvisioningService {
	if strings.TrimSpace(connectionTemplate) == "" {
		connectionTemplate = DefaultDedicatedConnectionTemplate
	}
	return &provisioningService{store: store, schemas: schemas, connectionTemplate: connectionTemplate, metrics: m}
}

// SchemaNameFor はテナントキーからスキーマ名を決定します
func SchemaNameFor(tenantKey string) string {
	return "tenant_" + tenantKey
}

func (s *provisioningService) CreateTenant(ctx context.Context, tenantKey string, mode model.IsolationMode) (*model.TenantConfig, error) {
	logger := middleware.GetLogger(ctx)

	key := tenancy.NormalizeKey(tenantKey)
	if !tenantKeyPattern.MatchString(key) {
		return nil, model.NewAppError("INVALID_TENANT_KEY",
			"tenant_key must be 1-63 characters of lowercase letters, digits, '-' or '_' and start with a letter or digit",
			"tenant_key", model.ErrInvalidInput)
	}
	if _, err := model.ParseIsolationMode(string(mode)); err != nil {
		return nil, model.NewAppError("INVALID_ISOLATION_MODE", err.Error(), "isolation_mode", model.ErrInvalidInput)
	}

	existing, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.NewAppError("TENANT_EXISTS", fmt.Sprintf("tenant '%s' already exists", key), "tenant_key", model.ErrConflict)
	}

	tenant := &model.TenantConfig{
		TenantKey:          key,
		IsolationMode:      mode,
		IsActive:           true,
		ProvisioningStatus: model.ProvisioningReady,
	}
	switch mode {
	case model.IsolationSchemaPerTenant:
		tenant.SchemaName = model.StringPtr(SchemaNameFor(key))
		tenant.ProvisioningStatus = model.ProvisioningPending
	case model.IsolationDedicatedDb:
		tenant.ConnectionString = model.StringPtr(strings.ReplaceAll(s.connectionTemplate, "{key}", key))
	}

	// 1. 設定を保存（IDはDBが採番）
	if err := s.store.Upsert(ctx, tenant); err != nil {
		s.metrics.ObserveProvisioning(string(mode), "error")
		return nil, err
	}

	// 2. スキーマ分離の場合はスキーマを作成
	if mode == model.IsolationSchemaPerTenant {
		if err := s.provisionSchema(ctx, tenant); err != nil {
			return tenant, err
		}
	}

	s.metrics.ObserveProvisioning(string(mode), "ok")
	logger.Info("Tenant provisioned", "tenant_key", key, "tenant_id", tenant.TenantID, "isolation_mode", mode)
	return tenant, nil
}

// provisionSchema はスキーマを作成し、結果（Ready/Failed）を保存します。
// 失敗時は ErrProvisioningPartial をラップして返す。
func (s *provisioningService) provisionSchema(ctx context.Context, tenant *model.TenantConfig) error {
	logger := middleware.GetLogger(ctx)

	schemaErr := s.schemas.CreateSchema(ctx, *tenant.SchemaName)
	if schemaErr != nil {
		tenant.ProvisioningStatus = model.ProvisioningFailed
		tenant.LastError = model.StringPtr(schemaErr.Error())
	} else {
		tenant.ProvisioningStatus = model.ProvisioningReady
		tenant.LastError = nil
	}

	if err := s.store.Upsert(ctx, tenant); err != nil {
		logger.Error("Failed to record provisioning status", "tenant_key", tenant.TenantKey, "status", tenant.ProvisioningStatus, "error", err)
		if schemaErr == nil {
			return err
		}
	}

	if schemaErr != nil {
		s.metrics.ObserveProvisioning(string(tenant.IsolationMode), "partial")
		logger.Error("Tenant schema provisioning failed", "tenant_key", tenant.TenantKey, "schema", *tenant.SchemaName, "error", schemaErr)
		return fmt.Errorf("%w: %v", model.ErrProvisioningPartial, schemaErr)
	}
	return nil
}

// RetrySchema は Pending/Failed のスキーマ作成を再試行します（CREATE SCHEMA IF NOT EXISTS なので何度でも実行可能）。
func (s *provisioningService) RetrySchema(ctx context.Context, tenantKey string) (*model.TenantConfig, error) {
	tenant, err := s.GetTenant(ctx, tenantKey)
	if err != nil {
		return nil, err
	}
	if tenant.IsolationMode != model.IsolationSchemaPerTenant {
		return nil, model.NewAppError("NOT_SCHEMA_TENANT",
			fmt.Sprintf("tenant '%s' does not use %s", tenant.TenantKey, model.IsolationSchemaPerTenant),
			"tenant_key", model.ErrInvalidInput)
	}
	if tenant.SchemaName == nil || *tenant.SchemaName == "" {
		tenant.SchemaName = model.StringPtr(SchemaNameFor(tenant.TenantKey))
	}
	if err := s.provisionSchema(ctx, tenant); err != nil {
		return tenant, err
	}
	return tenant, nil
}

func (s *provisioningService) SetActive(ctx context.Context, tenantKey string, active bool) (*model.TenantConfig, error) {
	tenant, err := s.GetTenant(ctx, tenantKey)
	if err != nil {
		return nil, err
	}
	if tenant.IsActive == active {
		return tenant, nil
	}
	tenant.IsActive = active
	if err := s.store.Upsert(ctx, tenant); err != nil {
		return nil, err
	}
	middleware.GetLogger(ctx).Info("Tenant activation changed", "tenant_key", tenant.TenantKey, "is_active", active)
	return tenant, nil
}

func (s *provisioningService) GetTenant(ctx context.Context, tenantKey string) (*model.TenantConfig, error) {
	tenant, err := s.store.Get(ctx, tenancy.NormalizeKey(tenantKey))
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, model.ErrNotFound
	}
	return tenant, nil
}

func (s *provisioningService) ListActive(ctx context.Context) ([]*model.TenantConfig, error) {
	return s.store.ListActive(ctx)
}
