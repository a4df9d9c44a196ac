// cmd/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go_tenant_kernel/internal/bootstrap"
	"go_tenant_kernel/internal/config"
	"go_tenant_kernel/internal/handlers"
	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/repository"
	"go_tenant_kernel/internal/service"
	"go_tenant_kernel/internal/tenancy"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	configDir := os.Getenv("APP_CONFIG_DIR")
	if configDir == "" {
		configDir = "configs"
	}
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := bootstrap.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("Application starting...", slog.String("version", config.AppVersion))

	ctx := context.Background()

	// 1. ホストDB・テナントストア・ルーター
	infra, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		slog.Error("Error initializing tenant infrastructure", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := infra.Close(); err != nil {
			slog.Error("Error closing database connections", slog.Any("error", err))
		} else {
			slog.Info("Database connections closed.")
		}
	}()

	// 2. 共有アプリDBの移行と公開テナントの初期ロール
	if _, err := infra.Migrator().MigrateShared(ctx); err != nil {
		slog.Error("Error migrating shared application database", slog.Any("error", err))
		os.Exit(1)
	}

	roleRepo := repository.NewGormRoleRepository()
	userRepo := repository.NewGormUserRepository()
	roleService := service.NewRoleService(infra.Router, roleRepo)
	userService := service.NewUserService(infra.Router, userRepo, roleRepo)

	if pctx, err := infra.PublicTenantContext(ctx); err != nil {
		slog.Warn("Skipping default role seed", slog.Any("error", err))
	} else if n, err := roleService.SeedDefaultRoles(pctx); err != nil {
		slog.Error("Error seeding default roles", slog.Any("error", err))
		os.Exit(1)
	} else if n > 0 {
		slog.Info("Default roles seeded", slog.Int("count", n))
	}

	// 3. Dependency Injection
	mt := cfg.MultiTenancy
	schemaCreator := repository.NewSchemaCreator(mt.Provider, mt.AppDbConnection, logger)
	provisioningService := service.NewProvisioningService(infra.Store, schemaCreator, mt.DedicatedConnectionTemplate, infra.Metrics)

	deps := handlers.RouterDeps{
		Tenants: handlers.NewTenantHandler(provisioningService),
		Roles:   handlers.NewRoleHandler(roleService),
		Users:   handlers.NewUserHandler(userService),
		Health:  handlers.NewHealthHandler(infra.HostDB),
		Metrics: promhttp.HandlerFor(infra.Registry, promhttp.HandlerOpts{}),
		Logger:  logger,
	}
	if mt.EnableTenantMiddleware {
		deps.TenantResolution = middleware.TenantResolution(
			tenancy.NewHeaderAndSubdomainResolver(mt.HeaderName),
			infra.Store,
			middleware.TenantResolutionOptions{
				AllowPublicFallback: mt.AllowPublicFallback,
				PublicTenantKey:     mt.PublicTenantKey,
			},
			infra.Metrics,
		)
	}
	r := handlers.NewRouter(deps)

	// 4. Start Server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", slog.String("port", cfg.Server.Port),
			slog.Bool("tenant_middleware", mt.EnableTenantMiddleware),
			slog.String("provider", mt.Provider))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		slog.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
	}
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	slog.Info("Server exiting")
}
