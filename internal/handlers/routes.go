package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"go_tenant_kernel/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterDeps はルーティングに必要なハンドラとミドルウェアです。
type RouterDeps struct {
	Tenants *TenantHandler
	Roles   *RoleHandler
	Users   *UserHandler
	Health  *HealthHandler

	// TenantResolution が nil の場合、テナント解決ミドルウェアはマウントしない
	TenantResolution func(http.Handler) http.Handler
	// Metrics が nil の場合 /metrics は公開しない
	Metrics http.Handler

	Logger         *slog.Logger
	RequestTimeout time.Duration
}

// NewRouter はアプリケーションの全ルートを組み立てます。
func NewRouter(deps RouterDeps) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	if deps.Health != nil {
		r.Get("/health", deps.Health.Health)
	}
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// テナント管理（テナント解決の対象外）
		if deps.Tenants != nil {
			r.Route("/tenants", func(r chi.Router) {
				r.Post("/", deps.Tenants.CreateTenant)
				r.Get("/", deps.Tenants.ListTenants)
				r.Get("/{tenant_key}", deps.Tenants.GetTenant)
				r.Patch("/{tenant_key}", deps.Tenants.PatchTenant)
				r.Post("/{tenant_key}/schema", deps.Tenants.RetrySchema)
			})
		}

		// テナントスコープのAPI
		r.Group(func(r chi.Router) {
			if deps.TenantResolution != nil {
				r.Use(deps.TenantResolution)
			} else {
				logger.Warn("Tenant resolution middleware is disabled; tenant-scoped routes run without a tenant")
			}

			if deps.Roles != nil {
				r.Route("/roles", func(r chi.Router) {
					r.Post("/", deps.Roles.PostRole)
					r.Get("/", deps.Roles.GetRoles)
					r.Get("/{role_id}", deps.Roles.GetRole)
					r.Put("/{role_id}", deps.Roles.PutRole)
					r.Delete("/{role_id}", deps.Roles.DeleteRole)
				})
			}
			if deps.Users != nil {
				r.Route("/users", func(r chi.Router) {
					r.Post("/", deps.Users.RegisterUser)
					r.Get("/", deps.Users.GetUsers)
					r.Get("/{user_id}", deps.Users.GetUser)
					r.Put("/{user_id}", deps.Users.PutUser)
					r.Delete("/{user_id}", deps.Users.DeleteUser)
					r.Patch("/{user_id}/deactivate", deps.Users.DeactivateUser)
					r.Put("/{user_id}/roles/{role_id}", deps.Users.AssignRole)
				})
			}
		})
	})

	return r
}
