package main

import (
	"context"
	"encoding/json"
	"io"

	"go_tenant_kernel/internal/service"
)

type tenantMigrator interface {
	MigrateAll(ctx context.Context) ([]service.MigrationResult, error)
	MigrateByKey(ctx context.Context, tenantKey string) (service.MigrationResult, error)
}

// runMigrate は結果を1行1テナントのJSONで out に書き出します。
// 失敗したテナントがあっても全件の結果を出力してからエラーを返す。
func runMigrate(ctx context.Context, m tenantMigrator, all bool, tenantKey string, out io.Writer) error {
	enc := json.NewEncoder(out)

	if !all {
		result, err := m.MigrateByKey(ctx, tenantKey)
		if result.TenantKey != "" {
			if encErr := enc.Encode(result); encErr != nil {
				return encErr
			}
		}
		return err
	}

	results, err := m.MigrateAll(ctx)
	for _, r := range results {
		if r.TenantKey == "" {
			// キャンセルで実行されなかったテナント
			continue
		}
		if encErr := enc.Encode(r); encErr != nil {
			return encErr
		}
	}
	return err
}
