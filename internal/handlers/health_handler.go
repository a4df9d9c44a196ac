package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/webutil"

	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// HealthHandler はホストDBへの疎通を確認します。
type HealthHandler struct {
	hostDB *gorm.DB
}

func NewHealthHandler(hostDB *gorm.DB) *HealthHandler {
	return &HealthHandler{hostDB: hostDB}
}

type healthResponse struct {
	Status string `json:"status"`
	HostDB string `json:"host_db"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	sqlDB, err := h.hostDB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		logger.Error("Health check failed", slog.Any("error", err))
		webutil.RespondWithJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", HostDB: "down"}, logger)
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, healthResponse{Status: "ok", HostDB: "up"}, logger)
}
