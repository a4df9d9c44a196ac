package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_tenant_kernel/internal/handlers"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/tenancy"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// acmeTenant はテナントスコープのルートで使う解決済みテナント
var acmeTenant = &model.TenantConfig{
	TenantID:           2,
	TenantKey:          "acme",
	IsolationMode:      model.IsolationSharedDb,
	IsActive:           true,
	ProvisioningStatus: model.ProvisioningReady,
}

// bindTenant は解決済みのテナントをコンテキストに設定するだけのミドルウェア
func bindTenant(tenant *model.TenantConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, err := tenancy.WithTenant(r.Context(), tenant)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestRouter(deps handlers.RouterDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = testLogger
	}
	return handlers.NewRouter(deps)
}

// doRequest は body が string ならそのまま、それ以外は JSON にして送る
func doRequest(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) model.ErrorDetail {
	t.Helper()
	var resp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Error
}
