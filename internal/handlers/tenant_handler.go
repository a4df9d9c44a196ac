// Package handlers は HTTP リクエストを解析し、サービス層を呼び出してレスポンスを生成します。
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/service"
	"go_tenant_kernel/internal/webutil"

	"github.com/go-chi/chi/v5"
)

// TenantHandler はテナント管理API（テナント解決の対象外）を処理します。
type TenantHandler struct {
	service service.ProvisioningService
}

func NewTenantHandler(s service.ProvisioningService) *TenantHandler {
	return &TenantHandler{service: s}
}

// provisioningFailureResponse はスキーマ作成に失敗したときのレスポンスです。
// レコードは保存済みなので、運用者が Failed 状態を確認できるようテナントも返す。
type provisioningFailureResponse struct {
	Error  model.ErrorDetail    `json:"error"`
	Tenant model.TenantResponse `json:"tenant"`
}

// CreateTenant は POST /api/v1/tenants
func (h *TenantHandler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "CreateTenant"))

	var req model.CreateTenantRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", err)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err), slog.Any("request", req))
		webutil.HandleError(w, logger, err)
		return
	}
	mode, err := model.ParseIsolationMode(req.IsolationMode)
	if err != nil {
		webutil.HandleError(w, logger, model.NewAppError("VALIDATION_ERROR", err.Error(), "isolation_mode", model.ErrInvalidInput))
		return
	}

	tenant, err := h.service.CreateTenant(r.Context(), req.TenantKey, mode)
	if err != nil {
		h.respondProvisioningError(w, logger, tenant, err)
		return
	}

	logger.Info("Tenant created", slog.String("tenant_key", tenant.TenantKey), slog.Int64("tenant_id", tenant.TenantID))
	webutil.RespondWithJSON(w, http.StatusCreated, model.NewTenantResponse(tenant), logger)
}

// ListTenants は GET /api/v1/tenants（有効なテナントのみ）
func (h *TenantHandler) ListTenants(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "ListTenants"))

	tenants, err := h.service.ListActive(r.Context())
	if err != nil {
		logger.Error("Error listing tenants in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	resp := make([]model.TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		resp = append(resp, model.NewTenantResponse(t))
	}
	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// GetTenant は GET /api/v1/tenants/{tenant_key}
func (h *TenantHandler) GetTenant(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "tenant_key")
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetTenant"), slog.String("tenant_key", key))

	tenant, err := h.service.GetTenant(r.Context(), key)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error getting tenant from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.NewTenantResponse(tenant), logger)
}

// PatchTenant は PATCH /api/v1/tenants/{tenant_key}（有効化・無効化）
func (h *TenantHandler) PatchTenant(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "tenant_key")
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "PatchTenant"), slog.String("tenant_key", key))

	var req model.PatchTenantRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", err)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	tenant, err := h.service.SetActive(r.Context(), key, *req.IsActive)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error updating tenant in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, model.NewTenantResponse(tenant), logger)
}

// RetrySchema は POST /api/v1/tenants/{tenant_key}/schema
func (h *TenantHandler) RetrySchema(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "tenant_key")
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "RetrySchema"), slog.String("tenant_key", key))

	tenant, err := h.service.RetrySchema(r.Context(), key)
	if err != nil {
		h.respondProvisioningError(w, logger, tenant, err)
		return
	}

	logger.Info("Tenant schema provisioned")
	webutil.RespondWithJSON(w, http.StatusOK, model.NewTenantResponse(tenant), logger)
}

func (h *TenantHandler) respondProvisioningError(w http.ResponseWriter, logger *slog.Logger, tenant *model.TenantConfig, err error) {
	if errors.Is(err, model.ErrProvisioningPartial) && tenant != nil {
		logger.Error("Tenant saved but schema provisioning failed", slog.String("tenant_key", tenant.TenantKey), slog.Any("error", err))
		webutil.RespondWithJSON(w, http.StatusInternalServerError, provisioningFailureResponse{
			Error: model.ErrorDetail{
				Code:    "PROVISIONING_PARTIAL_FAILURE",
				Message: err.Error(),
			},
			Tenant: model.NewTenantResponse(tenant),
		}, logger)
		return
	}
	if webutil.MapErrorToStatusCode(err) == http.StatusInternalServerError {
		logger.Error("Error provisioning tenant in service", slog.Any("error", err))
	} else {
		logger.Warn("Tenant provisioning rejected", slog.Any("error", err))
	}
	webutil.HandleError(w, logger, err)
}
