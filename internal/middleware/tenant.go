package middleware

import (
	"context"
	"net/http"
	"strings"

	"go_tenant_kernel/internal/metrics"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/tenancy"
)

// テナント解決に失敗したときのレスポンス本文 (text/plain)
const (
	MsgTenantNotProvided = "Tenant was not provided."
	MsgTenantInvalid     = "Tenant is invalid or inactive."
	MsgTenantLookup      = "Tenant lookup failed."
)

const DefaultPublicTenantKey = "public"

// TenantLookup はテナントキーから設定を引きます（service.TenantStore が実装）。
// 未登録のキーには (nil, nil) を返すこと。
type TenantLookup interface {
	Get(ctx context.Context, tenantKey string) (*model.TenantConfig, error)
}

type TenantResolutionOptions struct {
	AllowPublicFallback bool
	PublicTenantKey     string
}

// TenantResolution はリクエストのテナントを解決してコンテキストに設定するミドルウェアです。
// 解決できなければ後続のハンドラを呼ばずに 400 を返すため、下流は必ず解決済みのテナントを参照する。
func TenantResolution(resolver tenancy.Resolver, store TenantLookup, opts TenantResolutionOptions, m *metrics.Metrics) func(http.Handler) http.Handler {
	publicKey := tenancy.NormalizeKey(opts.PublicTenantKey)
	if publicKey == "" {
		publicKey = DefaultPublicTenantKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			logger := GetLogger(ctx)

			key, ok := resolver.ResolveTenantKey(r)
			outcome := metrics.OutcomeResolved
			if !ok && opts.AllowPublicFallback {
				key, ok = publicKey, true
				outcome = metrics.OutcomeFallback
			}
			if !ok || key == "" {
				logger.Warn("Tenant resolution rejected: no tenant key", "host", r.Host)
				m.ObserveResolution(metrics.OutcomeMissing)
				writePlain(w, http.StatusBadRequest, MsgTenantNotProvided)
				return
			}

			tenant, err := store.Get(ctx, key)
			if err != nil {
				m.ObserveResolution(metrics.OutcomeLookupError)
				if ctx.Err() != nil {
					// クライアントが切断済み。応答は届かないので書き込まない
					logger.Warn("Tenant lookup aborted", "tenant_key", key, "error", ctx.Err())
					return
				}
				logger.Error("Tenant lookup failed", "tenant_key", key, "error", err)
				writePlain(w, http.StatusInternalServerError, MsgTenantLookup)
				return
			}
			if tenant == nil || !tenant.IsServable() {
				args := []any{"tenant_key", key}
				if tenant != nil {
					args = append(args, "tenant_id", tenant.TenantID, "is_active", tenant.IsActive, "provisioning_status", tenant.ProvisioningStatus)
				}
				logger.Warn("Tenant resolution rejected: invalid or inactive tenant", args...)
				m.ObserveResolution(metrics.OutcomeInvalid)
				writePlain(w, http.StatusBadRequest, MsgTenantInvalid)
				return
			}

			ctx, err = tenancy.WithTenant(ctx, tenant)
			if err != nil {
				logger.Error("Failed to bind tenant to request", "tenant_key", key, "error", err)
				m.ObserveResolution(metrics.OutcomeLookupError)
				writePlain(w, http.StatusInternalServerError, MsgTenantLookup)
				return
			}

			// 以降のログにはテナントを付与する
			tenantLogger := logger.With("tenant_id", tenant.TenantID, "tenant_key", tenant.TenantKey)
			ctx = WithLogger(ctx, tenantLogger)

			m.ObserveResolution(outcome)
			tenantLogger.Debug("Tenant resolved", "isolation_mode", tenant.IsolationMode)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writePlain(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(strings.TrimSpace(msg)))
}
