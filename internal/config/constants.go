// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "go_tenant_kernel"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort = ":8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"

	DefaultHeaderName             = "X-Tenant"
	DefaultAllowPublicFallback    = false
	DefaultPublicTenantKey        = "public"
	DefaultProvider               = "postgres"
	DefaultEnableTenantMiddleware = true
	DefaultCacheTTL               = 5 * time.Minute

	DefaultCacheType       = CacheTypeMemory
	DefaultCacheMaxEntries = 10000
	DefaultRedisAddr       = "localhost:6379"
	DefaultMigrationJobs   = 4
)

// テナントキャッシュの実装
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
)
