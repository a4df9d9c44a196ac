package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go_tenant_kernel/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisCache は複数インスタンスでテナント設定を共有するためのキャッシュです
type RedisCache struct {
	client *redis.Client
}

// cachedTenant は ConnectionString を含めて保存するための表現。
// model.TenantConfig の JSON は接続文字列を出力しないため専用の型を使う。
type cachedTenant struct {
	TenantID           int64                    `json:"tenant_id"`
	TenantKey          string                   `json:"tenant_key"`
	IsolationMode      model.IsolationMode      `json:"isolation_mode"`
	SchemaName         *string                  `json:"schema_name,omitempty"`
	ConnectionString   *string                  `json:"connection_string,omitempty"`
	IsActive           bool                     `json:"is_active"`
	ProvisioningStatus model.ProvisioningStatus `json:"provisioning_status"`
	LastError          *string                  `json:"last_error,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at"`
}

// NewRedisCache は接続確認を行ってからキャッシュを返します
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (*model.TenantConfig, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var ct cachedTenant
	if err := json.Unmarshal(data, &ct); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached tenant: %w", err)
	}
	return ct.toModel(), true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, tenant *model.TenantConfig, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	data, err := json.Marshal(fromModel(tenant))
	if err != nil {
		return fmt.Errorf("failed to marshal tenant: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func fromModel(t *model.TenantConfig) cachedTenant {
	return cachedTenant{
		TenantID:           t.TenantID,
		TenantKey:          t.TenantKey,
		IsolationMode:      t.IsolationMode,
		SchemaName:         t.SchemaName,
		ConnectionString:   t.ConnectionString,
		IsActive:           t.IsActive,
		ProvisioningStatus: t.ProvisioningStatus,
		LastError:          t.LastError,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

func (ct cachedTenant) toModel() *model.TenantConfig {
	return &model.TenantConfig{
		TenantID:           ct.TenantID,
		TenantKey:          ct.TenantKey,
		IsolationMode:      ct.IsolationMode,
		SchemaName:         ct.SchemaName,
		ConnectionString:   ct.ConnectionString,
		IsActive:           ct.IsActive,
		ProvisioningStatus: ct.ProvisioningStatus,
		LastError:          ct.LastError,
		CreatedAt:          ct.CreatedAt,
		UpdatedAt:          ct.UpdatedAt,
	}
}
