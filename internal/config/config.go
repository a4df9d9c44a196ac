// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // json | text
	} `mapstructure:"log"`
	MultiTenancy MultiTenancyConfig `mapstructure:"multitenancy"`
	Cache        struct {
		Type       string `mapstructure:"type"` // memory | redis
		MaxEntries int    `mapstructure:"max_entries"`
		Redis      struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`
	Migrations struct {
		Concurrency int `mapstructure:"concurrency"`
	} `mapstructure:"migrations"`
}

// MultiTenancyConfig はテナント解決とデータベース接続の設定です。
type MultiTenancyConfig struct {
	HeaderName                  string        `mapstructure:"header_name"`
	AllowPublicFallback         bool          `mapstructure:"allow_public_fallback"`
	PublicTenantKey             string        `mapstructure:"public_tenant_key"`
	Provider                    string        `mapstructure:"provider"` // postgres | sqlite
	HostDbConnection            string        `mapstructure:"host_db_connection"`
	AppDbConnection             string        `mapstructure:"app_db_connection"`
	EnableTenantMiddleware      bool          `mapstructure:"enable_tenant_middleware"`
	DedicatedConnectionTemplate string        `mapstructure:"dedicated_connection_template"`
	CacheTTL                    time.Duration `mapstructure:"cache_ttl"`
}

// LoadConfig は path の config.yaml と APP_ 接頭辞の環境変数から設定を読み込みます。
// 例: APP_MULTITENANCY_HOST_DB_CONNECTION
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config.LoadConfig: read config: %w", err)
		}
		// 設定ファイルが無ければデフォルトと環境変数だけで動かす
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config.LoadConfig: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AutomaticEnv は登録済みのキーしか Unmarshal に反映しないので、全キーにデフォルトを置く
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("multitenancy.header_name", DefaultHeaderName)
	v.SetDefault("multitenancy.allow_public_fallback", DefaultAllowPublicFallback)
	v.SetDefault("multitenancy.public_tenant_key", DefaultPublicTenantKey)
	v.SetDefault("multitenancy.provider", DefaultProvider)
	v.SetDefault("multitenancy.host_db_connection", "")
	v.SetDefault("multitenancy.app_db_connection", "")
	v.SetDefault("multitenancy.enable_tenant_middleware", DefaultEnableTenantMiddleware)
	v.SetDefault("multitenancy.dedicated_connection_template", "")
	v.SetDefault("multitenancy.cache_ttl", DefaultCacheTTL)

	v.SetDefault("cache.type", DefaultCacheType)
	v.SetDefault("cache.max_entries", DefaultCacheMaxEntries)
	v.SetDefault("cache.redis.addr", DefaultRedisAddr)
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)

	v.SetDefault("migrations.concurrency", DefaultMigrationJobs)
}

// Validate は起動前に検出できる設定ミスを返します。
func (c *Config) Validate() error {
	mt := c.MultiTenancy
	switch mt.Provider {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unsupported multitenancy.provider %q", mt.Provider)
	}
	if strings.TrimSpace(mt.HostDbConnection) == "" {
		return errors.New("config: multitenancy.host_db_connection is required")
	}
	switch c.Cache.Type {
	case CacheTypeMemory, CacheTypeRedis:
	default:
		return fmt.Errorf("config: unsupported cache.type %q", c.Cache.Type)
	}
	if mt.CacheTTL <= 0 {
		return fmt.Errorf("config: multitenancy.cache_ttl must be positive, got %s", mt.CacheTTL)
	}
	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("config: cache.max_entries must be positive, got %d", c.Cache.MaxEntries)
	}
	if c.Migrations.Concurrency <= 0 {
		c.Migrations.Concurrency = DefaultMigrationJobs
	}
	return nil
}
