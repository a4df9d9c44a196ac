package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"go_tenant_kernel/internal/handlers"
	"go_tenant_kernel/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	db, err := repository.NewDB(repository.ProviderSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), testLogger)
	require.NoError(t, err)
	router := newTestRouter(handlers.RouterDeps{Health: handlers.NewHealthHandler(db)})

	rr := doRequest(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","host_db":"up"}`, rr.Body.String())

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rr = doRequest(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
