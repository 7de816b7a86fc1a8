package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
)

// ==================== Category DTOs ====================

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string                  `json:"name" binding:"required,min=1,max=100"`
	Description string                  `json:"description" binding:"max=500"`
	Icon        string                  `json:"icon"`
	ParentID    *uuid.UUID              `json:"parent_id"`
	SortOrder   int                     `json:"sort_order"`
	IsFeatured  bool                    `json:"is_featured"`
	Attributes  []CategoryAttributeInput `json:"attributes"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string                   `json:"name" binding:"required,min=1,max=100"`
	Description string                   `json:"description" binding:"max=500"`
	SortOrder   *int                     `json:"sort_order"`
	Attributes  []CategoryAttributeInput `json:"attributes"`
}

// MoveCategoryRequest represents a request to reparent a category
type MoveCategoryRequest struct {
	NewParentID *uuid.UUID `json:"new_parent_id"`
}

// CategoryAttributeInput represents an attribute definition in a request
type CategoryAttributeInput struct {
	Name       string   `json:"name" binding:"required,min=1,max=100"`
	Type       string   `json:"type" binding:"required,oneof=text number boolean select multiselect"`
	Required   bool     `json:"required"`
	Filterable bool     `json:"filterable"`
	Options    []string `json:"options"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Slug         string              `json:"slug"`
	Description  string              `json:"description,omitempty"`
	Icon         string              `json:"icon,omitempty"`
	ParentID     *uuid.UUID          `json:"parent_id,omitempty"`
	Level        int                 `json:"level"`
	SortOrder    int                 `json:"sort_order"`
	IsActive     bool                `json:"is_active"`
	IsFeatured   bool                `json:"is_featured"`
	ProductCount int64               `json:"product_count"`
	Attributes   []catalog.Attribute `json:"attributes,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// CategoryTreeNode represents a category with its nested children
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}

// ToCategoryResponse converts a domain category to a response DTO
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		Icon:         c.Icon,
		ParentID:     c.ParentID,
		Level:        c.Level,
		SortOrder:    c.SortOrder,
		IsActive:     c.IsActive,
		IsFeatured:   c.IsFeatured,
		ProductCount: c.ProductCount,
		Attributes:   c.Attributes,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain categories
func ToCategoryResponses(categories []catalog.Category) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses
}

func toAttributeList(inputs []CategoryAttributeInput) catalog.AttributeList {
	attrs := make(catalog.AttributeList, len(inputs))
	for i, in := range inputs {
		attrs[i] = catalog.Attribute{
			Name:       in.Name,
			Type:       catalog.AttributeType(in.Type),
			Required:   in.Required,
			Filterable: in.Filterable,
			Options:    in.Options,
		}
	}
	return attrs
}
