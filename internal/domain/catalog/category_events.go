package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeCategory = "Category"

// Event type constants
const (
	EventTypeCategoryCreated       = "CategoryCreated"
	EventTypeCategoryUpdated       = "CategoryUpdated"
	EventTypeCategoryMoved         = "CategoryMoved"
	EventTypeCategoryStatusChanged = "CategoryStatusChanged"
	EventTypeCategoryDeleted       = "CategoryDeleted"
)

// CategoryCreatedEvent is published when a new category is created
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID  `json:"category_id"`
	Name       string     `json:"name"`
	Slug       string     `json:"slug"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Level      int        `json:"level"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(category *Category, occurredAt time.Time) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, category.ID, occurredAt),
		CategoryID:      category.ID,
		Name:            category.Name,
		Slug:            category.Slug,
		ParentID:        category.ParentID,
		Level:           category.Level,
	}
}

// CategoryUpdatedEvent is published when a category is updated
type CategoryUpdatedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
}

// NewCategoryUpdatedEvent creates a new CategoryUpdatedEvent
func NewCategoryUpdatedEvent(category *Category, occurredAt time.Time) *CategoryUpdatedEvent {
	return &CategoryUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryUpdated, AggregateTypeCategory, category.ID, occurredAt),
		CategoryID:      category.ID,
		Name:            category.Name,
		Slug:            category.Slug,
	}
}

// CategoryMovedEvent is published when a category is reparented
type CategoryMovedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID  `json:"category_id"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Level      int        `json:"level"`
}

// NewCategoryMovedEvent creates a new CategoryMovedEvent
func NewCategoryMovedEvent(category *Category, occurredAt time.Time) *CategoryMovedEvent {
	return &CategoryMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryMoved, AggregateTypeCategory, category.ID, occurredAt),
		CategoryID:      category.ID,
		ParentID:        category.ParentID,
		Level:           category.Level,
	}
}

// CategoryStatusChangedEvent is published when a category is activated or deactivated
type CategoryStatusChangedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	IsActive   bool      `json:"is_active"`
}

// NewCategoryStatusChangedEvent creates a new CategoryStatusChangedEvent
func NewCategoryStatusChangedEvent(category *Category, occurredAt time.Time) *CategoryStatusChangedEvent {
	return &CategoryStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryStatusChanged, AggregateTypeCategory, category.ID, occurredAt),
		CategoryID:      category.ID,
		IsActive:        category.IsActive,
	}
}

// CategoryDeletedEvent is published when a category is deleted
type CategoryDeletedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID  `json:"category_id"`
	Slug       string     `json:"slug"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
}

// NewCategoryDeletedEvent creates a new CategoryDeletedEvent
func NewCategoryDeletedEvent(category *Category, occurredAt time.Time) *CategoryDeletedEvent {
	return &CategoryDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryDeleted, AggregateTypeCategory, category.ID, occurredAt),
		CategoryID:      category.ID,
		Slug:            category.Slug,
		ParentID:        category.ParentID,
	}
}
