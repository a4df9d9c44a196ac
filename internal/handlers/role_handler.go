package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/service"
	"go_tenant_kernel/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type RoleHandler struct {
	service service.RoleService
}

func NewRoleHandler(s service.RoleService) *RoleHandler {
	return &RoleHandler{service: s}
}

// parseUUIDParam は URL パラメータを UUID として解釈します
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, model.NewAppError("INVALID_URL_PARAM", name+" is not a valid UUID.", name, model.ErrInvalidInput)
	}
	return id, nil
}

// parsePageParams はクエリの page と page_size を読み取ります。未指定は既定値。
func parsePageParams(r *http.Request) (model.PageRequest, error) {
	var page model.PageRequest
	for _, p := range []struct {
		name string
		dst  *int
	}{{"page", &page.Page}, {"page_size", &page.PageSize}} {
		raw := r.URL.Query().Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return model.PageRequest{}, model.NewAppError("INVALID_QUERY_PARAM", p.name+" must be a positive integer.", p.name, model.ErrInvalidInput)
		}
		*p.dst = n
	}
	return page.Normalize(), nil
}

// PostRole は新しいロールを作成するためのハンドラ
func (h *RoleHandler) PostRole(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "PostRole"))

	var req model.PostRoleRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", err)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	role, err := h.service.CreateRole(r.Context(), &req)
	if err != nil {
		logger.Error("Error creating role in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Role created", slog.String("role_id", role.RoleID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, role, logger)
}

// GetRoles はロールの一覧を取得するためのハンドラ
func (h *RoleHandler) GetRoles(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetRoles"))

	page, err := parsePageParams(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	roles, err := h.service.ListRoles(r.Context(), page)
	if err != nil {
		logger.Error("Error listing roles in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if roles == nil {
		roles = model.NewPageResponse[*model.Role](nil, page, 0)
	}
	webutil.RespondWithJSON(w, http.StatusOK, roles, logger)
}

// GetRole は特定のロールを取得するためのハンドラ
func (h *RoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetRole"))

	roleID, err := parseUUIDParam(r, "role_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	role, err := h.service.GetRole(r.Context(), roleID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error getting role from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, role, logger)
}

// PutRole はロールを置き換えるためのハンドラ
func (h *RoleHandler) PutRole(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "PutRole"))

	roleID, err := parseUUIDParam(r, "role_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.PutRoleRequest
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

	role, err := h.service.UpdateRole(r.Context(), roleID, &req)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error updating role in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, role, logger)
}

// DeleteRole はロールを削除するためのハンドラ
func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "DeleteRole"))

	roleID, err := parseUUIDParam(r, "role_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.DeleteRole(r.Context(), roleID); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error deleting role in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("Role deleted", slog.String("role_id", roleID.String()))
	w.WriteHeader(http.StatusNoContent)
}
