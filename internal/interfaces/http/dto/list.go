package dto

import (
	"github.com/marketplace/backend/internal/domain/shared"
)

// ListRequest carries common list query parameters
type ListRequest struct {
	Page     int    `form:"page,default=1" binding:"min=0"`
	PageSize int    `form:"page_size,default=20" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Search   string `form:"search"`
	Status   string `form:"status"`
}

// orderableColumns is the allow list for user-supplied ordering. The
// column name goes into the ORDER BY clause verbatim, so anything not
// listed here falls back to the default ordering.
var orderableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"sort_order": true,
	"status":     true,
}

// ToFilter converts the request to a repository filter
func (r ListRequest) ToFilter() shared.Filter {
	filter := shared.DefaultFilter()
	if r.Page > 0 {
		filter.Page = r.Page
	}
	if r.PageSize > 0 {
		filter.PageSize = r.PageSize
	}
	if orderableColumns[r.OrderBy] {
		filter.OrderBy = r.OrderBy
		if r.OrderDir != "" {
			filter.OrderDir = r.OrderDir
		}
	}
	filter.Search = r.Search
	if r.Status != "" {
		filter.Filters = map[string]interface{}{"status": r.Status}
	}
	return filter
}

// PaginatedMeta builds response metadata from a paginated result
func PaginatedMeta[T any](page *shared.Paginated[T]) Meta {
	return Meta{
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}
