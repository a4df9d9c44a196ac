// Package bootstrap は API サーバーとマイグレーター CLI が共有する初期化処理です。
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go_tenant_kernel/internal/cache"
	"go_tenant_kernel/internal/config"
	"go_tenant_kernel/internal/metrics"
	"go_tenant_kernel/internal/repository"
	"go_tenant_kernel/internal/service"
	"go_tenant_kernel/internal/tenancy"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// NewLogger は設定に基づいて slog ロガーを作ります。
// APP_ENV=dev または log.format=text なら tint、それ以外は JSON。
func NewLogger(cfg *config.Config) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
	}

	var handler slog.Handler
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" || strings.ToLower(cfg.Log.Format) == "text" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	return slog.New(handler).With("app", config.AppName)
}

// Infra はホストDB、テナントストア、ルーターなどテナント基盤の共通部品です。
type Infra struct {
	Config     *config.Config
	Logger     *slog.Logger
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	HostDB     *gorm.DB
	TenantRepo repository.TenantRepository
	Cache      cache.TenantCache
	Store      service.TenantStore
	Router     *repository.Router
}

// Open はホストDBに接続し、テナント設定テーブルの移行と公開テナントの投入まで行います。
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Infra, error) {
	mt := cfg.MultiTenancy

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewMetrics(reg)

	hostDB, err := repository.NewDB(mt.Provider, mt.HostDbConnection, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: open host database: %w", err)
	}
	closeHost := func() {
		if sqlDB, err := hostDB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	tenantRepo := repository.NewGormTenantRepository()
	if err := repository.MigrateHost(ctx, hostDB); err != nil {
		closeHost()
		return nil, err
	}
	if err := repository.SeedHost(ctx, hostDB, tenantRepo, mt.Provider, tenancy.NormalizeKey(mt.PublicTenantKey)); err != nil {
		closeHost()
		return nil, err
	}

	tenantCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		closeHost()
		return nil, err
	}

	store := service.NewCachedTenantStore(hostDB, tenantRepo, tenantCache, mt.CacheTTL, m)

	router := repository.NewRouter(mt.Provider, tenancy.NewConnectionResolver(mt.AppDbConnection), m, logger)
	if app := strings.TrimSpace(mt.AppDbConnection); app != "" && app == strings.TrimSpace(mt.HostDbConnection) {
		// ホストDBと共有アプリDBが同じなら接続プールを共有する
		router.Attach(tenancy.Target{ConnectionString: app}, hostDB)
	}

	return &Infra{
		Config:     cfg,
		Logger:     logger,
		Registry:   reg,
		Metrics:    m,
		HostDB:     hostDB,
		TenantRepo: tenantRepo,
		Cache:      tenantCache,
		Store:      store,
		Router:     router,
	}, nil
}

func newCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.TenantCache, error) {
	if cfg.Cache.Type == config.CacheTypeRedis {
		c, err := cache.NewRedisCache(ctx, cfg.Cache.Redis.Addr, cfg.Cache.Redis.Password, cfg.Cache.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
		logger.Info("Using Redis tenant cache", "addr", cfg.Cache.Redis.Addr)
		return c, nil
	}
	logger.Info("Using in-memory tenant cache")
	return cache.NewMemoryCache(cfg.Cache.MaxEntries, cfg.MultiTenancy.CacheTTL), nil
}

// Migrator はテナントDBのマイグレーターを返します。
func (i *Infra) Migrator() *service.Migrator {
	return service.NewMigrator(i.Store, i.Router, i.Metrics, i.Config.Migrations.Concurrency)
}

// PublicTenantContext は公開テナントを設定したコンテキストを返します（初期データ投入用）。
func (i *Infra) PublicTenantContext(ctx context.Context) (context.Context, error) {
	key := tenancy.NormalizeKey(i.Config.MultiTenancy.PublicTenantKey)
	tenant, err := i.Store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, fmt.Errorf("bootstrap: public tenant %q is not registered", key)
	}
	return tenancy.WithTenant(ctx, tenant)
}

// Close はルーターが開いた接続、キャッシュ、ホストDBを閉じます。
func (i *Infra) Close() error {
	var firstErr error
	if err := i.Router.Close(); err != nil {
		firstErr = err
	}
	if err := i.Cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if sqlDB, err := i.HostDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
