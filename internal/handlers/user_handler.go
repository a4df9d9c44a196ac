package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/service"
	"go_tenant_kernel/internal/webutil"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// RegisterUser はユーザーを登録します
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "RegisterUser"))

	var req model.RegisterUserRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode request body", slog.String("error", err.Error()))
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "The request body is malformed.", "", err)
		webutil.HandleError(w, logger, appErr)
		return
	}
	if err := webutil.ValidateStruct(req); err != nil {
		// パスワードを含むためリクエストはログに出さない
		logger.Warn("Validation failed", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			logger.Info("User already registered", slog.String("email", req.Email))
		} else {
			logger.Error("Error registering user in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID.String()))
	webutil.RespondWithJSON(w, http.StatusCreated, user, logger)
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetUsers"))

	page, err := parsePageParams(r)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	users, err := h.service.ListUsers(r.Context(), page)
	if err != nil {
		logger.Error("Error listing users in service", slog.Any("error", err))
		webutil.HandleError(w, logger, err)
		return
	}
	if users == nil {
		users = model.NewPageResponse[*model.UserResponse](nil, page, 0)
	}
	webutil.RespondWithJSON(w, http.StatusOK, users, logger)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "GetUser"))

	userID, err := parseUUIDParam(r, "user_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error getting user from service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, user, logger)
}

// PutUser は PUT /users/{user_id}
func (h *UserHandler) PutUser(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "PutUser"))

	userID, err := parseUUIDParam(r, "user_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateUserRequest
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

	user, err := h.service.UpdateUser(r.Context(), userID, &req)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) && !errors.Is(err, model.ErrConflict) {
			logger.Error("Error updating user in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User updated", slog.String("user_id", userID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, user, logger)
}

// DeleteUser は DELETE /users/{user_id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "DeleteUser"))

	userID, err := parseUUIDParam(r, "user_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	if err := h.service.DeleteUser(r.Context(), userID); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error deleting user in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User deleted", slog.String("user_id", userID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// DeactivateUser は PATCH /users/{user_id}/deactivate
func (h *UserHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "DeactivateUser"))

	userID, err := parseUUIDParam(r, "user_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.DeactivateUser(r.Context(), userID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error deactivating user in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}

	logger.Info("User deactivated", slog.String("user_id", userID.String()))
	webutil.RespondWithJSON(w, http.StatusOK, user, logger)
}

// AssignRole は PUT /users/{user_id}/roles/{role_id}
func (h *UserHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context()).With(slog.String("handler", "AssignRole"))

	userID, err := parseUUIDParam(r, "user_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}
	roleID, err := parseUUIDParam(r, "role_id")
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.AssignRole(r.Context(), userID, roleID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Error assigning role in service", slog.Any("error", err))
		}
		webutil.HandleError(w, logger, err)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, user, logger)
}
