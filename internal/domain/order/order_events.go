package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated         = "OrderCreated"
	EventTypeOrderStatusChanged   = "OrderStatusChanged"
	EventTypeOrderCancelled       = "OrderCancelled"
	EventTypeOrderReturnRequested = "OrderReturnRequested"
	EventTypeOrderReturned        = "OrderReturned"
	EventTypeOrderPaid            = "OrderPaid"
	EventTypeOrderRefunded        = "OrderRefunded"
)

// OrderCreatedEvent is published when a new order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	CustomerID  uuid.UUID         `json:"customer_id"`
	VendorID    uuid.UUID         `json:"vendor_id"`
	Total       valueobject.Money `json:"total"`
	ItemCount   int               `json:"item_count"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order, occurredAt time.Time) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID, occurredAt),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		VendorID:        o.VendorID,
		Total:           o.Pricing.Total,
		ItemCount:       len(o.Items),
	}
}

// OrderStatusChangedEvent is published on every lifecycle transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	OrderNumber    string    `json:"order_number"`
	PreviousStatus Status    `json:"previous_status"`
	NewStatus      Status    `json:"new_status"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, previous Status, occurredAt time.Time) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, occurredAt),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		PreviousStatus:  previous,
		NewStatus:       o.Status,
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason,omitempty"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order, reason string, occurredAt time.Time) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID, occurredAt),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Reason:          reason,
	}
}

// OrderReturnRequestedEvent is published when a customer opens a return
type OrderReturnRequestedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
}

// NewOrderReturnRequestedEvent creates a new OrderReturnRequestedEvent
func NewOrderReturnRequestedEvent(o *Order, reason string, occurredAt time.Time) *OrderReturnRequestedEvent {
	return &OrderReturnRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReturnRequested, AggregateTypeOrder, o.ID, occurredAt),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Reason:          reason,
	}
}

// OrderReturnedEvent is published when a return is approved
type OrderReturnedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
}

// NewOrderReturnedEvent creates a new OrderReturnedEvent
func NewOrderReturnedEvent(o *Order, occurredAt time.Time) *OrderReturnedEvent {
	return &OrderReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReturned, AggregateTypeOrder, o.ID, occurredAt),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
	}
}

// OrderPaidEvent is published when a payment completes
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID         `json:"order_id"`
	OrderNumber   string            `json:"order_number"`
	Amount        valueobject.Money `json:"amount"`
	TransactionID string            `json:"transaction_id,omitempty"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order, occurredAt time.Time) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID, occurredAt),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Amount:          o.Payment.Amount,
		TransactionID:   o.Payment.TransactionID,
	}
}

// OrderRefundedEvent is published when a refund is recorded
type OrderRefundedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Amount      valueobject.Money `json:"amount"`
}

// NewOrderRefundedEvent creates a new OrderRefundedEvent
func NewOrderRefundedEvent(o *Order, amount valueobject.Money, occurredAt time.Time) *OrderRefundedEvent {
	return &OrderRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRefunded, AggregateTypeOrder, o.ID, occurredAt),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Amount:          amount,
	}
}
