package model

// 一覧APIのページサイズ
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest は一覧取得のページ指定です。Page は1始まり。
type PageRequest struct {
	Page     int
	PageSize int
}

// Normalize は未指定の値を既定値で埋め、上限を超えるサイズを切り詰めます。
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// PageResponse はページ分割された一覧レスポンスです
type PageResponse[T any] struct {
	Items       []T   `json:"items"`
	Page        int   `json:"page"`
	PageSize    int   `json:"page_size"`
	TotalCount  int64 `json:"total_count"`
	HasNextPage bool  `json:"has_next_page"`
}

func NewPageResponse[T any](items []T, p PageRequest, total int64) *PageResponse[T] {
	p = p.Normalize()
	if items == nil {
		items = []T{}
	}
	return &PageResponse[T]{
		Items:       items,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalCount:  total,
		HasNextPage: int64(p.Page*p.PageSize) < total,
	}
}
