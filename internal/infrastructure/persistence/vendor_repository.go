package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/vendor"
)

// GormVendorRepository implements vendor.Repository using GORM
type GormVendorRepository struct {
	db *gorm.DB
}

// NewGormVendorRepository creates a new GormVendorRepository
func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

// FindByID finds a vendor by its ID
func (r *GormVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*vendor.Vendor, error) {
	var v vendor.Vendor
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindByUserID finds the vendor account owned by a user
func (r *GormVendorRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*vendor.Vendor, error) {
	var v vendor.Vendor
	if err := r.db.WithContext(ctx).First(&v, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// FindAll finds vendors matching the filter, paginated
func (r *GormVendorRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[vendor.Vendor], error) {
	return r.findPaginated(ctx, r.db.WithContext(ctx).Model(&vendor.Vendor{}), filter)
}

// FindByStatus finds vendors in the given status, paginated
func (r *GormVendorRepository) FindByStatus(ctx context.Context, status vendor.Status, filter shared.Filter) (*shared.Paginated[vendor.Vendor], error) {
	query := r.db.WithContext(ctx).
		Model(&vendor.Vendor{}).
		Where("status = ?", status)
	return r.findPaginated(ctx, query, filter)
}

func (r *GormVendorRepository) findPaginated(ctx context.Context, query *gorm.DB, filter shared.Filter) (*shared.Paginated[vendor.Vendor], error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var vendors []vendor.Vendor
	if err := applyFilter(query, filter).Find(&vendors).Error; err != nil {
		return nil, err
	}

	page, pageSize := filter.Page, filter.PageSize
	if pageSize <= 0 {
		page, pageSize = 1, len(vendors)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	result := shared.NewPaginated(vendors, total, page, pageSize)
	return &result, nil
}

// Save creates or updates a vendor
func (r *GormVendorRepository) Save(ctx context.Context, v *vendor.Vendor) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// SaveWithLock updates a vendor only if the stored version still matches
// expectedVersion. A mismatch means another transaction won the race.
func (r *GormVendorRepository) SaveWithLock(ctx context.Context, v *vendor.Vendor, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&vendor.Vendor{}).
			Where("id = ? AND version = ?", v.ID, expectedVersion).
			Update("version", v.Version)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return tx.Save(v).Error
	})
}

// Delete deletes a vendor
func (r *GormVendorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&vendor.Vendor{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByUserID checks if a user already has a vendor account
func (r *GormVendorRepository) ExistsByUserID(ctx context.Context, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&vendor.Vendor{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count counts all vendors
func (r *GormVendorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&vendor.Vendor{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ vendor.Repository = (*GormVendorRepository)(nil)
