package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the lifecycle status of a product listing
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a vendor's product listing. Only the fields the
// order and category domains depend on are modeled here; merchandising
// detail lives with the storefront.
type Product struct {
	shared.BaseAggregateRoot
	Name       string          `gorm:"type:varchar(200);not null"`
	Slug       string          `gorm:"type:varchar(220);not null;uniqueIndex"`
	SKU        string          `gorm:"type:varchar(100)"`
	VendorID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Image      string          `gorm:"type:varchar(500)"`
	Status     ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new active product listing
func NewProduct(name, sku string, vendorID, categoryID uuid.UUID, price decimal.Decimal, now time.Time) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("product", "name", "product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewValidationError("product", "name", "product name cannot exceed 200 characters")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewValidationError("product", "vendor_id", "product vendor cannot be empty")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewValidationError("product", "category_id", "product category cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("product", "price", "product price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Name:              name,
		Slug:              Slugify(name),
		SKU:               sku,
		VendorID:          vendorID,
		CategoryID:        categoryID,
		Price:             price,
		Status:            ProductStatusActive,
	}, nil
}

// UpdatePrice changes the listing price
func (p *Product) UpdatePrice(price decimal.Decimal, now time.Time) error {
	if price.IsNegative() {
		return shared.NewValidationError("product", "price", "product price cannot be negative")
	}
	p.Price = price
	p.Touch(now)
	p.IncrementVersion()
	return nil
}

// Activate makes the listing visible and purchasable
func (p *Product) Activate(now time.Time) {
	p.Status = ProductStatusActive
	p.Touch(now)
	p.IncrementVersion()
}

// Deactivate hides the listing
func (p *Product) Deactivate(now time.Time) {
	p.Status = ProductStatusInactive
	p.Touch(now)
	p.IncrementVersion()
}

// IsActive returns true if the product is purchasable
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}
