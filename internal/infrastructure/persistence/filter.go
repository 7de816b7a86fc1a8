package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/shared"
)

// applyPagination applies page-based offset and limit to the query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyOrdering applies the requested ordering, defaulting to newest first.
// The order column must come from a caller-validated allow list; raw request
// input must never reach OrderBy.
func applyOrdering(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		return query.Order(filter.OrderBy + " " + orderDir)
	}
	return query.Order("created_at DESC")
}

// applyFilter applies ordering and pagination in one step
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	return applyPagination(applyOrdering(query, filter), filter)
}
