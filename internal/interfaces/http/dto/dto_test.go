package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marketplace/backend/internal/domain/shared"
)

func TestDomainErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		kind     shared.ErrorKind
		expected int
	}{
		{"validation", shared.KindValidation, http.StatusBadRequest},
		{"not found", shared.KindNotFound, http.StatusNotFound},
		{"conflict", shared.KindConflict, http.StatusConflict},
		{"invalid state", shared.KindInvalidState, http.StatusUnprocessableEntity},
		{"integrity", shared.KindIntegrity, http.StatusInternalServerError},
		{"unknown kind falls back to 500", shared.ErrorKind("BOGUS"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DomainErrorStatus(tt.kind))
		})
	}
}

func TestListRequest_ToFilter(t *testing.T) {
	t.Run("defaults when empty", func(t *testing.T) {
		filter := ListRequest{}.ToFilter()
		assert.Equal(t, 1, filter.Page)
		assert.Equal(t, 20, filter.PageSize)
		assert.Equal(t, "created_at", filter.OrderBy)
	})

	t.Run("carries pagination and search", func(t *testing.T) {
		filter := ListRequest{Page: 3, PageSize: 50, Search: "electronics"}.ToFilter()
		assert.Equal(t, 3, filter.Page)
		assert.Equal(t, 50, filter.PageSize)
		assert.Equal(t, "electronics", filter.Search)
	})

	t.Run("allows only known order columns", func(t *testing.T) {
		filter := ListRequest{OrderBy: "name", OrderDir: "asc"}.ToFilter()
		assert.Equal(t, "name", filter.OrderBy)
		assert.Equal(t, "asc", filter.OrderDir)

		filter = ListRequest{OrderBy: "pg_sleep(10)", OrderDir: "asc"}.ToFilter()
		assert.Equal(t, "created_at", filter.OrderBy)
	})

	t.Run("status becomes a column filter", func(t *testing.T) {
		filter := ListRequest{Status: "pending"}.ToFilter()
		assert.Equal(t, "pending", filter.Filters["status"])
	})
}

func TestResponseEnvelope(t *testing.T) {
	success := NewSuccessResponse("payload")
	assert.True(t, success.Success)
	assert.Nil(t, success.Error)

	failure := NewErrorResponse("NOT_FOUND", "missing")
	assert.False(t, failure.Success)
	assert.Equal(t, "NOT_FOUND", failure.Error.Code)

	withMeta := NewSuccessResponseWithMeta([]int{1, 2}, Meta{Page: 1, PageSize: 2, Total: 4, TotalPages: 2})
	assert.NotNil(t, withMeta.Meta)
	assert.Equal(t, 2, withMeta.Meta.TotalPages)
}
