package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/review"
)

// GormReviewRepository implements review.Repository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByVendor finds all reviews left for a vendor
func (r *GormReviewRepository) FindByVendor(ctx context.Context, vendorID uuid.UUID) ([]review.Review, error) {
	var reviews []review.Review
	if err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByProduct finds all reviews for a product
func (r *GormReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]review.Review, error) {
	var reviews []review.Review
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, rev *review.Review) error {
	return r.db.WithContext(ctx).Save(rev).Error
}

// CountByVendor counts reviews left for a vendor
func (r *GormReviewRepository) CountByVendor(ctx context.Context, vendorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&review.Review{}).
		Where("vendor_id = ?", vendorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ review.Repository = (*GormReviewRepository)(nil)
