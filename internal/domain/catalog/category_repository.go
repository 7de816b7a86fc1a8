package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by its slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// FindAll finds all categories matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)

	// FindChildren finds the direct children of a category,
	// ordered by (sort_order, name)
	FindChildren(ctx context.Context, parentID uuid.UUID) ([]Category, error)

	// FindRoots finds all root categories, ordered by (sort_order, name)
	FindRoots(ctx context.Context) ([]Category, error)

	// FindFeatured finds active featured categories ordered by
	// (sort_order, name), limited to the given count
	FindFeatured(ctx context.Context, limit int) ([]Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error

	// Delete deletes a category
	Delete(ctx context.Context, id uuid.UUID) error

	// HasChildren checks if a category has any children
	HasChildren(ctx context.Context, categoryID uuid.UUID) (bool, error)

	// ExistsByName checks if a category with the given name exists,
	// excluding the given id (uuid.Nil to check all)
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// Count counts categories matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
