//go:generate mockery --name SchemaCreator --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"go_tenant_kernel/internal/middleware"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// SchemaCreator はテナント用スキーマを作成します。
type SchemaCreator interface {
	CreateSchema(ctx context.Context, schema string) error
}

// NewSchemaCreator はプロバイダに応じた SchemaCreator を返します。
func NewSchemaCreator(provider, connString string, logger *slog.Logger) SchemaCreator {
	if provider == ProviderPostgres {
		return &PgxSchemaCreator{connString: connString}
	}
	return &noopSchemaCreator{provider: provider, logger: logger}
}

// PgxSchemaCreator は共有アプリDBに専用の管理接続を張ってスキーマを作成します
type PgxSchemaCreator struct {
	connString string
}

func (c *PgxSchemaCreator) CreateSchema(ctx context.Context, schema string) error {
	conn, err := pgx.Connect(ctx, c.connString)
	if err != nil {
		return fmt.Errorf("connect for schema creation: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(schema)); err != nil {
		return fmt.Errorf("create schema %s: %w", schema, err)
	}
	middleware.GetLogger(ctx).Info("Tenant schema created", "schema", schema)
	return nil
}

type noopSchemaCreator struct {
	provider string
	logger   *slog.Logger
}

func (c *noopSchemaCreator) CreateSchema(ctx context.Context, schema string) error {
	c.logger.Warn("Provider does not support schemas; schema creation skipped", "provider", c.provider, "schema", schema)
	return nil
}
