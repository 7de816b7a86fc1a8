package review

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the read port the rating aggregation needs
type Repository interface {
	FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]Review, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Review, error)
	Save(ctx context.Context, r *Review) error
	CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error)
}
