package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// It doubles as the product-catalog port consumed by category product
// counting and vendor stats recomputation.
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByVendor finds all products owned by a vendor
	FindByVendor(ctx context.Context, vendorID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindByCategory finds all products in a category
	FindByCategory(ctx context.Context, categoryID uuid.UUID, filter shared.Filter) ([]Product, error)

	// CountActiveByCategories counts active products across the given
	// category ids (a category plus its descendants)
	CountActiveByCategories(ctx context.Context, categoryIDs []uuid.UUID) (int64, error)

	// CountActiveByVendor counts a vendor's active products
	CountActiveByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}
