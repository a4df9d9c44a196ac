package tenancy

import (
	"net"
	"net/http"
	"strings"
)

const DefaultHeaderName = "X-Tenant"

// Resolver はリクエストからテナントキーを取り出します。
type Resolver interface {
	ResolveTenantKey(r *http.Request) (string, bool)
}

// HeaderAndSubdomainResolver はヘッダーを優先し、無ければサブドメインを見ます。
type HeaderAndSubdomainResolver struct {
	headerName string
}

func NewHeaderAndSubdomainResolver(headerName string) *HeaderAndSubdomainResolver {
	if strings.TrimSpace(headerName) == "" {
		headerName = DefaultHeaderName
	}
	return &HeaderAndSubdomainResolver{headerName: headerName}
}

func (res *HeaderAndSubdomainResolver) ResolveTenantKey(r *http.Request) (string, bool) {
	// 1. ヘッダー（空白のみは未指定扱い）
	if v := strings.TrimSpace(r.Header.Get(res.headerName)); v != "" {
		return NormalizeKey(v), true
	}

	// 2. サブドメイン: ラベルが3つ以上ある場合のみ先頭ラベルを採用
	return subdomainKey(r.Host)
}

func subdomainKey(host string) (string, bool) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", false
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	// IPアドレスはサブドメインを持たない
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return "", false
	}

	labels := make([]string, 0, 4)
	for _, l := range strings.Split(host, ".") {
		if l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) < 3 {
		return "", false
	}
	return NormalizeKey(labels[0]), true
}
