package tenancy

import (
	"fmt"
	"strings"

	"go_tenant_kernel/internal/model"
)

// Target はテナントのデータが置かれている物理的な場所です。
// SchemaName が空の場合は search_path を変更しない。
type Target struct {
	ConnectionString string
	SchemaName       string
}

// ConnectionResolver はテナント設定から接続先を決定します。
type ConnectionResolver struct {
	sharedConnection string
}

func NewConnectionResolver(sharedConnection string) *ConnectionResolver {
	return &ConnectionResolver{sharedConnection: strings.TrimSpace(sharedConnection)}
}

// Shared は共有アプリDBの接続文字列を返します。
func (r *ConnectionResolver) Shared() (string, error) {
	if r.sharedConnection == "" {
		return "", fmt.Errorf("%w: multitenancy.app_db_connection is required", model.ErrConfiguration)
	}
	return r.sharedConnection, nil
}

// Resolve はテナントの接続先を返します。tenant が nil の場合は共有DB。
func (r *ConnectionResolver) Resolve(tenant *model.TenantConfig) (Target, error) {
	if tenant == nil {
		shared, err := r.Shared()
		return Target{ConnectionString: shared}, err
	}

	switch tenant.IsolationMode {
	case model.IsolationDedicatedDb:
		if tenant.ConnectionString == nil || strings.TrimSpace(*tenant.ConnectionString) == "" {
			return Target{}, fmt.Errorf("%w: tenant '%s' requires dedicated connection string", model.ErrConfiguration, tenant.TenantKey)
		}
		return Target{ConnectionString: *tenant.ConnectionString}, nil
	case model.IsolationSchemaPerTenant:
		shared, err := r.Shared()
		if err != nil {
			return Target{}, err
		}
		if tenant.SchemaName == nil || strings.TrimSpace(*tenant.SchemaName) == "" {
			return Target{}, fmt.Errorf("%w: tenant '%s' requires schema name", model.ErrConfiguration, tenant.TenantKey)
		}
		return Target{ConnectionString: shared, SchemaName: *tenant.SchemaName}, nil
	default:
		shared, err := r.Shared()
		return Target{ConnectionString: shared}, err
	}
}

// MigrationsTable はマイグレーション履歴テーブル名を返します。
// スキーマ分離のテナントではスキーマで修飾し、テナント間で履歴が混ざらないようにする。
func MigrationsTable(tenant *model.TenantConfig) string {
	const table = "schema_migrations"
	if tenant != nil && tenant.IsolationMode == model.IsolationSchemaPerTenant &&
		tenant.SchemaName != nil && *tenant.SchemaName != "" {
		return *tenant.SchemaName + "." + table
	}
	return table
}
