package tenancy

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderAndSubdomainResolver_ResolveTenantKey(t *testing.T) {
	resolver := NewHeaderAndSubdomainResolver("X-Tenant")

	tests := []struct {
		name    string
		host    string
		header  string
		wantKey string
		wantOK  bool
	}{
		{name: "正常系: ヘッダーを小文字化", host: "api.example.com", header: "AcMe", wantKey: "acme", wantOK: true},
		{name: "正常系: ヘッダーがサブドメインより優先", host: "beta.example.com", header: "acme", wantKey: "acme", wantOK: true},
		{name: "正常系: ヘッダーの前後空白を除去", host: "example.com", header: "  acme ", wantKey: "acme", wantOK: true},
		{name: "正常系: サブドメイン", host: "Acme.example.com", wantKey: "acme", wantOK: true},
		{name: "正常系: ポート付きホスト", host: "acme.example.com:8080", wantKey: "acme", wantOK: true},
		{name: "正常系: 空ラベルは無視", host: "acme..example.com", wantKey: "acme", wantOK: true},
		{name: "境界値: ラベル2つは未解決", host: "example.com", wantOK: false},
		{name: "境界値: localhost", host: "localhost:8080", wantOK: false},
		{name: "境界値: 空白のみのヘッダーはサブドメインへ", host: "acme.example.com", header: "   ", wantKey: "acme", wantOK: true},
		{name: "境界値: IPアドレス", host: "10.0.0.1:8080", wantOK: false},
		{name: "異常系: ホストもヘッダーも無し", host: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/roles", nil)
			req.Host = tt.host
			if tt.header != "" {
				req.Header.Set("X-Tenant", tt.header)
			}

			key, ok := resolver.ResolveTenantKey(req)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestNewHeaderAndSubdomainResolver_DefaultHeader(t *testing.T) {
	resolver := NewHeaderAndSubdomainResolver("")
	req := httptest.NewRequest("GET", "/", nil)
	req.Host = "example.com"
	req.Header.Set(DefaultHeaderName, "acme")

	key, ok := resolver.ResolveTenantKey(req)

	assert.True(t, ok)
	assert.Equal(t, "acme", key)
}
