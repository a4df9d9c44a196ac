package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"go_tenant_kernel/internal/handlers"
	"go_tenant_kernel/internal/model"
	"go_tenant_kernel/internal/service/mocks"
	"go_tenant_kernel/internal/tenancy"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func roleRouter(svc *mocks.RoleService) http.Handler {
	return newTestRouter(handlers.RouterDeps{
		Roles:            handlers.NewRoleHandler(svc),
		TenantResolution: bindTenant(acmeTenant),
	})
}

func TestRoleHandler_PostRole(t *testing.T) {
	validReq := model.PostRoleRequest{Name: "Editor", Description: "can edit"}
	created := &model.Role{RoleID: uuid.New(), Name: "Editor", Description: "can edit"}

	tests := []struct {
		name         string
		body         any
		setupMock    func(svc *mocks.RoleService)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "正常系",
			body: validReq,
			setupMock: func(svc *mocks.RoleService) {
				svc.On("CreateRole", mock.Anything, &validReq).Return(created, nil).Once()
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "異常系: name 未指定",
			body:         model.PostRoleRequest{Description: "no name"},
			setupMock:    func(svc *mocks.RoleService) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "VALIDATION_ERROR",
		},
		{
			name:         "異常系: 壊れたJSON",
			body:         `{"name":`,
			setupMock:    func(svc *mocks.RoleService) {},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "INVALID_REQUEST_BODY",
		},
		{
			name: "異常系: 同名のロール",
			body: validReq,
			setupMock: func(svc *mocks.RoleService) {
				svc.On("CreateRole", mock.Anything, &validReq).
					Return(nil, model.NewAppError("ROLE_EXISTS", "role 'Editor' already exists", "name", model.ErrConflict)).Once()
			},
			expectedCode: http.StatusConflict,
			expectedErr:  "ROLE_EXISTS",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewRoleService(t)
			tc.setupMock(svc)

			rr := doRequest(t, roleRouter(svc), http.MethodPost, "/api/v1/roles", tc.body, nil)

			assert.Equal(t, tc.expectedCode, rr.Code, rr.Body.String())
			if tc.expectedErr != "" {
				assert.Equal(t, tc.expectedErr, decodeError(t, rr).Code)
				return
			}
			var got model.Role
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, created.RoleID, got.RoleID)
		})
	}
}

func TestRoleHandler_PassesTenantContext(t *testing.T) {
	var seen *model.TenantConfig
	svc := mocks.NewRoleService(t)
	svc.On("ListRoles", mock.Anything, mock.AnythingOfType("model.PageRequest")).Run(func(args mock.Arguments) {
		seen, _ = tenancy.FromContext(args.Get(0).(context.Context))
	}).Return(model.NewPageResponse([]*model.Role{}, model.PageRequest{}, 0), nil).Once()

	rr := doRequest(t, roleRouter(svc), http.MethodGet, "/api/v1/roles", nil, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "acme", seen.TenantKey)
}

func TestRoleHandler_GetRoles_Empty(t *testing.T) {
	svc := mocks.NewRoleService(t)
	svc.On("ListRoles", mock.Anything, model.PageRequest{Page: 2, PageSize: 5}).Return(nil, nil).Once()

	rr := doRequest(t, roleRouter(svc), http.MethodGet, "/api/v1/roles?page=2&page_size=5", nil, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"items":[],"page":2,"page_size":5,"total_count":0,"has_next_page":false}`, rr.Body.String())
}

func TestRoleHandler_ByID(t *testing.T) {
	roleID := uuid.New()
	role := &model.Role{RoleID: roleID, Name: "Admin"}
	putReq := model.PutRoleRequest{Name: "Owner"}

	tests := []struct {
		name         string
		method       string
		path         string
		body         any
		setupMock    func(svc *mocks.RoleService)
		expectedCode int
	}{
		{
			name: "GET 正常系", method: http.MethodGet, path: "/api/v1/roles/" + roleID.String(),
			setupMock: func(svc *mocks.RoleService) {
				svc.On("GetRole", mock.Anything, roleID).Return(role, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "GET 他テナントのロールは見つからない", method: http.MethodGet, path: "/api/v1/roles/" + roleID.String(),
			setupMock: func(svc *mocks.RoleService) {
				svc.On("GetRole", mock.Anything, roleID).Return(nil, model.ErrNotFound).Once()
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "GET 不正なUUID", method: http.MethodGet, path: "/api/v1/roles/not-a-uuid",
			setupMock:    func(svc *mocks.RoleService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "PUT 正常系", method: http.MethodPut, path: "/api/v1/roles/" + roleID.String(), body: putReq,
			setupMock: func(svc *mocks.RoleService) {
				svc.On("UpdateRole", mock.Anything, roleID, &putReq).Return(&model.Role{RoleID: roleID, Name: "Owner"}, nil).Once()
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "PUT name が長すぎる", method: http.MethodPut, path: "/api/v1/roles/" + roleID.String(),
			body:         model.PutRoleRequest{Name: strings.Repeat("a", 101)},
			setupMock:    func(svc *mocks.RoleService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "DELETE 正常系", method: http.MethodDelete, path: "/api/v1/roles/" + roleID.String(),
			setupMock: func(svc *mocks.RoleService) {
				svc.On("DeleteRole", mock.Anything, roleID).Return(nil).Once()
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "DELETE 見つからない", method: http.MethodDelete, path: "/api/v1/roles/" + roleID.String(),
			setupMock: func(svc *mocks.RoleService) {
				svc.On("DeleteRole", mock.Anything, roleID).Return(model.ErrNotFound).Once()
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := mocks.NewRoleService(t)
			tc.setupMock(svc)

			rr := doRequest(t, roleRouter(svc), tc.method, tc.path, tc.body, nil)

			assert.Equal(t, tc.expectedCode, rr.Code, rr.Body.String())
		})
	}
}
