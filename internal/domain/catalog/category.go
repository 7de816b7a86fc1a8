package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MaxCategoryLevel is the deepest level a category may occupy (root = 0).
// Creating a child under a level-3 parent is rejected, not clamped.
const MaxCategoryLevel = 3

// AttributeType enumerates the value types a category attribute can take
type AttributeType string

const (
	AttributeTypeText        AttributeType = "text"
	AttributeTypeNumber      AttributeType = "number"
	AttributeTypeBoolean     AttributeType = "boolean"
	AttributeTypeSelect      AttributeType = "select"
	AttributeTypeMultiSelect AttributeType = "multiselect"
)

// IsValid checks if the attribute type is known
func (t AttributeType) IsValid() bool {
	switch t {
	case AttributeTypeText, AttributeTypeNumber, AttributeTypeBoolean, AttributeTypeSelect, AttributeTypeMultiSelect:
		return true
	}
	return false
}

// Attribute describes a product attribute exposed by a category
// (e.g. "Screen Size" on Laptops)
type Attribute struct {
	Name       string        `json:"name"`
	Type       AttributeType `json:"type"`
	Options    []string      `json:"options,omitempty"`
	Required   bool          `json:"required"`
	Filterable bool          `json:"filterable"`
}

// AttributeList is the category's owned attribute collection,
// stored as a JSON column
type AttributeList []Attribute

// Value implements driver.Valuer for database storage
func (l AttributeList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for database retrieval
func (l *AttributeList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into AttributeList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Category represents a product category in the marketplace catalog.
// Categories form a tree via ParentID references (an id arena, never
// direct pointers), so a cycle can only exist as corrupt data and is
// detected by traversals rather than chased forever.
type Category struct {
	shared.BaseAggregateRoot
	Name         string        `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug         string        `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description  string        `gorm:"type:varchar(500)"`
	Icon         string        `gorm:"type:varchar(255)"`
	ParentID     *uuid.UUID    `gorm:"type:uuid;index"`
	Level        int           `gorm:"not null;default:0"`
	SortOrder    int           `gorm:"not null;default:0"`
	IsActive     bool          `gorm:"not null;default:true"`
	IsFeatured   bool          `gorm:"not null;default:false"`
	ProductCount int64         `gorm:"not null;default:0"` // derived cache, refreshed on demand
	Attributes   AttributeList `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new root category
func NewCategory(name, description, icon string, now time.Time) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	if err := validateCategoryDescription(description); err != nil {
		return nil, err
	}

	category := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Name:              name,
		Slug:              Slugify(name),
		Description:       description,
		Icon:              icon,
		Level:             0,
		IsActive:          true,
	}

	category.AddDomainEvent(NewCategoryCreatedEvent(category, now))

	return category, nil
}

// NewChildCategory creates a new category under a parent
func NewChildCategory(name, description, icon string, parent *Category, now time.Time) (*Category, error) {
	if parent == nil {
		return nil, shared.NewNotFoundError("category", "parent category is required")
	}
	if parent.Level >= MaxCategoryLevel {
		return nil, shared.NewValidationError("category", "level",
			fmt.Sprintf("category depth cannot exceed level %d", MaxCategoryLevel))
	}

	category, err := NewCategory(name, description, icon, now)
	if err != nil {
		return nil, err
	}

	category.ParentID = &parent.ID
	category.Level = parent.Level + 1
	category.ClearDomainEvents()
	category.AddDomainEvent(NewCategoryCreatedEvent(category, now))

	return category, nil
}

// Update updates the category's basic information.
// Renaming re-derives the slug so the two never drift apart.
func (c *Category) Update(name, description string, now time.Time) error {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return err
	}
	if err := validateCategoryDescription(description); err != nil {
		return err
	}

	c.Name = name
	c.Slug = Slugify(name)
	c.Description = description
	c.Touch(now)
	c.IncrementVersion()

	c.AddDomainEvent(NewCategoryUpdatedEvent(c, now))

	return nil
}

// Reparent moves the category under a new parent (nil = move to root).
// The caller must have verified the new parent is not a descendant of
// this category.
func (c *Category) Reparent(newParent *Category, now time.Time) error {
	if newParent == nil {
		c.ParentID = nil
		c.Level = 0
	} else {
		if newParent.ID == c.ID {
			return shared.NewIntegrityError("category", "category cannot be its own parent")
		}
		if newParent.Level >= MaxCategoryLevel {
			return shared.NewValidationError("category", "level",
				fmt.Sprintf("category depth cannot exceed level %d", MaxCategoryLevel))
		}
		c.ParentID = &newParent.ID
		c.Level = newParent.Level + 1
	}

	c.Touch(now)
	c.IncrementVersion()

	c.AddDomainEvent(NewCategoryMovedEvent(c, now))

	return nil
}

// SetAttributes replaces the category's attribute definitions
func (c *Category) SetAttributes(attrs AttributeList, now time.Time) error {
	for _, attr := range attrs {
		if strings.TrimSpace(attr.Name) == "" {
			return shared.NewValidationError("category", "attributes", "attribute name cannot be empty")
		}
		if !attr.Type.IsValid() {
			return shared.NewValidationError("category", "attributes",
				fmt.Sprintf("unknown attribute type %q", attr.Type))
		}
		needsOptions := attr.Type == AttributeTypeSelect || attr.Type == AttributeTypeMultiSelect
		if needsOptions && len(attr.Options) == 0 {
			return shared.NewValidationError("category", "attributes",
				fmt.Sprintf("attribute %q requires options", attr.Name))
		}
	}

	c.Attributes = attrs
	c.Touch(now)
	c.IncrementVersion()

	return nil
}

// SetSortOrder sets the display order of the category
func (c *Category) SetSortOrder(order int, now time.Time) {
	c.SortOrder = order
	c.Touch(now)
	c.IncrementVersion()
}

// SetProductCount updates the cached product count for the category's subtree
func (c *Category) SetProductCount(count int64, now time.Time) {
	c.ProductCount = count
	c.Touch(now)
}

// Feature marks the category as featured
func (c *Category) Feature(now time.Time) {
	c.IsFeatured = true
	c.Touch(now)
	c.IncrementVersion()
}

// Unfeature removes the featured flag
func (c *Category) Unfeature(now time.Time) {
	c.IsFeatured = false
	c.Touch(now)
	c.IncrementVersion()
}

// Activate activates the category
func (c *Category) Activate(now time.Time) error {
	if c.IsActive {
		return shared.NewDomainError(shared.KindInvalidState, "ALREADY_ACTIVE", "category is already active")
	}

	c.IsActive = true
	c.Touch(now)
	c.IncrementVersion()

	c.AddDomainEvent(NewCategoryStatusChangedEvent(c, now))

	return nil
}

// Deactivate deactivates the category
func (c *Category) Deactivate(now time.Time) error {
	if !c.IsActive {
		return shared.NewDomainError(shared.KindInvalidState, "ALREADY_INACTIVE", "category is already inactive")
	}

	c.IsActive = false
	c.Touch(now)
	c.IncrementVersion()

	c.AddDomainEvent(NewCategoryStatusChangedEvent(c, now))

	return nil
}

// IsRoot returns true if this is a root category
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func validateCategoryName(name string) error {
	if name == "" {
		return shared.NewValidationError("category", "name", "category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("category", "name", "category name cannot exceed 100 characters")
	}
	return nil
}

func validateCategoryDescription(description string) error {
	if len(description) > 500 {
		return shared.NewValidationError("category", "description", "category description cannot exceed 500 characters")
	}
	return nil
}
