package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Review is a customer product review. Only the fields the rating
// aggregation needs are modelled; moderation lives elsewhere.
type Review struct {
	shared.BaseEntity
	VendorID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:varchar(2000)"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a validated review. Rating is an integer star count
// from 1 to 5.
func NewReview(vendorID, productID, customerID uuid.UUID, rating int, comment string, now time.Time) (*Review, error) {
	if vendorID == uuid.Nil {
		return nil, shared.NewValidationError("review", "vendor_id", "vendor cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("review", "product_id", "product cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("review", "customer_id", "customer cannot be empty")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewValidationError("review", "rating", "rating must lie within [1, 5]")
	}
	if len(comment) > 2000 {
		return nil, shared.NewValidationError("review", "comment", "comment cannot exceed 2000 characters")
	}

	return &Review{
		BaseEntity: shared.NewBaseEntity(now),
		VendorID:   vendorID,
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     rating,
		Comment:    comment,
	}, nil
}
