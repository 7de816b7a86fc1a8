package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultReturnWindowDays applies when the vendor has no return policy of their own
const DefaultReturnWindowDays = 30

// Status represents the order's position in its lifecycle
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
)

// CanTransitionTo checks if the status can transition to the target status.
// Delivered orders move to returned only through the return approval flow,
// never through a direct status update.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusShipped
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered, StatusCancelled, StatusReturned:
		return false
	}
	return false
}

// IsTerminal returns true when no further status updates are allowed
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusReturned
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPaypal PaymentMethod = "paypal"
	PaymentMethodCOD    PaymentMethod = "cod"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodStripe, PaymentMethodPaypal, PaymentMethodCOD:
		return true
	}
	return false
}

// PaymentStatus tracks the payment independently of the order status
type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusProcessing        PaymentStatus = "processing"
	PaymentStatusCompleted         PaymentStatus = "completed"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

// Payment holds the payment record. The marketplace stores these fields
// as data only and never talks to a gateway itself.
type Payment struct {
	Method        PaymentMethod     `gorm:"column:payment_method;type:varchar(20);not null"`
	Status        PaymentStatus     `gorm:"column:payment_status;type:varchar(20);not null;default:'pending'"`
	TransactionID string            `gorm:"column:payment_transaction_id;type:varchar(100)"`
	Amount        valueobject.Money `gorm:"column:payment_amount;type:decimal(12,2)"`
	PaidAt        *time.Time        `gorm:"column:payment_paid_at"`
	RefundedAt    *time.Time        `gorm:"column:payment_refunded_at"`
	RefundAmount  valueobject.Money `gorm:"column:payment_refund_amount;type:decimal(12,2)"`
}

// Tracking holds shipment tracking details
type Tracking struct {
	Carrier           string     `gorm:"column:tracking_carrier;type:varchar(100)"`
	TrackingNumber    string     `gorm:"column:tracking_number;type:varchar(100)"`
	ShippedAt         *time.Time `gorm:"column:shipped_at"`
	DeliveredAt       *time.Time `gorm:"column:delivered_at"`
	EstimatedDelivery *time.Time `gorm:"column:estimated_delivery"`
}

// Commission is the marketplace cut, locked from the vendor's rate at
// order creation so later rate changes never affect existing orders
type Commission struct {
	Rate   decimal.Decimal   `gorm:"column:commission_rate;type:decimal(5,2);not null"`
	Amount valueobject.Money `gorm:"column:commission_amount;type:decimal(12,2);not null"`
}

// Cancellation records why and by whom an order was cancelled
type Cancellation struct {
	Reason          string     `gorm:"column:cancellation_reason;type:varchar(500)"`
	CancelledAt     *time.Time `gorm:"column:cancelled_at"`
	CancelledBy     string     `gorm:"column:cancelled_by;type:varchar(100)"`
	RefundProcessed bool       `gorm:"column:refund_processed;not null;default:false"`
}

// ReturnStatus tracks the return request workflow
type ReturnStatus string

const (
	ReturnStatusNone      ReturnStatus = "none"
	ReturnStatusRequested ReturnStatus = "requested"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusRejected  ReturnStatus = "rejected"
)

// Return records the customer's return request and its outcome
type Return struct {
	Requested   bool         `gorm:"column:return_requested;not null;default:false"`
	Reason      string       `gorm:"column:return_reason;type:varchar(500)"`
	Status      ReturnStatus `gorm:"column:return_status;type:varchar(20);not null;default:'none'"`
	RequestedAt *time.Time   `gorm:"column:return_requested_at"`
	ResolvedAt  *time.Time   `gorm:"column:return_resolved_at"`
}

// Pricing breaks the order total down into its components.
// Total = Subtotal + Tax + Shipping - Discount always holds.
type Pricing struct {
	Subtotal valueobject.Money `gorm:"column:pricing_subtotal;type:decimal(12,2);not null"`
	Tax      valueobject.Money `gorm:"column:pricing_tax;type:decimal(12,2);not null"`
	Shipping valueobject.Money `gorm:"column:pricing_shipping;type:decimal(12,2);not null"`
	Discount valueobject.Money `gorm:"column:pricing_discount;type:decimal(12,2);not null"`
	Total    valueobject.Money `gorm:"column:pricing_total;type:decimal(12,2);not null"`
}

// OrderItem is a line item snapshot. Product name, image and price are
// copied at order time so later product edits never change the order.
type OrderItem struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID         `gorm:"type:uuid;not null"`
	Name      string            `gorm:"type:varchar(200);not null"`
	Image     string            `gorm:"type:varchar(500)"`
	Price     valueobject.Money `gorm:"type:decimal(12,2);not null"`
	Quantity  int               `gorm:"not null"`
	Variant   string            `gorm:"type:varchar(100)"`
	SKU       string            `gorm:"type:varchar(100)"`
	Subtotal  valueobject.Money `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// NewOrderItem creates a validated line item with its subtotal computed
func NewOrderItem(productID uuid.UUID, name, image string, price valueobject.Money, quantity int, variant, sku string) (OrderItem, error) {
	if productID == uuid.Nil {
		return OrderItem{}, shared.NewValidationError("order_item", "product_id", "product cannot be empty")
	}
	if name == "" {
		return OrderItem{}, shared.NewValidationError("order_item", "name", "item name cannot be empty")
	}
	if price.IsNegative() {
		return OrderItem{}, shared.NewValidationError("order_item", "price", "item price cannot be negative")
	}
	if quantity < 1 {
		return OrderItem{}, shared.NewValidationError("order_item", "quantity", "item quantity must be at least 1")
	}

	return OrderItem{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      name,
		Image:     image,
		Price:     price,
		Quantity:  quantity,
		Variant:   variant,
		SKU:       sku,
		Subtotal:  price.MultiplyByInt(int64(quantity)),
	}, nil
}

// TimelineEntry is one append-only record of a status transition
type TimelineEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Status    Status    `gorm:"type:varchar(20);not null"`
	Message   string    `gorm:"type:varchar(500)"`
	Timestamp time.Time `gorm:"not null"`
	UpdatedBy string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (TimelineEntry) TableName() string {
	return "order_timeline_entries"
}

// Order represents a single-vendor order. A mixed-vendor cart is split
// into one Order per vendor before any Order exists.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(40);not null;uniqueIndex"`
	CustomerID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	VendorID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID"`
	Pricing         Pricing             `gorm:"embedded"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb"`
	BillingAddress  valueobject.Address `gorm:"type:jsonb"`
	Payment         Payment             `gorm:"embedded"`
	Status          Status              `gorm:"type:varchar(20);not null;default:'pending';index"`
	Tracking        Tracking            `gorm:"embedded"`
	Timeline        []TimelineEntry     `gorm:"foreignKey:OrderID"`
	Commission      Commission          `gorm:"embedded"`
	CouponCode      string              `gorm:"type:varchar(50)"`
	Cancellation    Cancellation        `gorm:"embedded"`
	Return          Return              `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order. The commission is locked from the
// vendor's current rate and rounded half-up to cents; later rate changes
// do not touch it. Creation writes no timeline entry, the first entry
// appears on the first explicit status update.
func NewOrder(
	orderNumber string,
	customerID, vendorID uuid.UUID,
	items []OrderItem,
	tax, shipping, discount valueobject.Money,
	shippingAddress, billingAddress valueobject.Address,
	paymentMethod PaymentMethod,
	commissionRate decimal.Decimal,
	couponCode string,
	now time.Time,
) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("order", "order_number", "order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("order", "customer_id", "customer cannot be empty")
	}
	if vendorID == uuid.Nil {
		return nil, shared.NewValidationError("order", "vendor_id", "vendor cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewValidationError("order", "items", "order must contain at least one item")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewValidationError("order", "payment.method",
			fmt.Sprintf("unknown payment method %q", paymentMethod))
	}
	if commissionRate.IsNegative() || commissionRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewValidationError("order", "commission.rate", "commission rate must lie within [0, 100]")
	}
	if tax.IsNegative() || shipping.IsNegative() || discount.IsNegative() {
		return nil, shared.NewValidationError("order", "pricing", "pricing components cannot be negative")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		VendorID:          vendorID,
		Items:             items,
		Pricing: Pricing{
			Tax:      tax,
			Shipping: shipping,
			Discount: discount,
		},
		ShippingAddress: shippingAddress,
		BillingAddress:  billingAddress,
		Payment: Payment{
			Method:       paymentMethod,
			Status:       PaymentStatusPending,
			Amount:       valueobject.ZeroUSD(),
			RefundAmount: valueobject.ZeroUSD(),
		},
		Status:     StatusPending,
		CouponCode: couponCode,
		Return:     Return{Status: ReturnStatusNone},
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}

	if err := o.CalculateTotals(); err != nil {
		return nil, err
	}

	o.Commission = Commission{
		Rate:   commissionRate,
		Amount: o.Pricing.Total.CalculatePercentage(commissionRate).Round(2),
	}
	o.Payment.Amount = o.Pricing.Total

	o.AddDomainEvent(NewOrderCreatedEvent(o, now))

	return o, nil
}

// CalculateTotals recomputes every item subtotal and the pricing block
// from current items. It is idempotent and never touches the commission.
func (o *Order) CalculateTotals() error {
	subtotal := valueobject.ZeroUSD()
	for i := range o.Items {
		o.Items[i].Subtotal = o.Items[i].Price.MultiplyByInt(int64(o.Items[i].Quantity))
		subtotal = subtotal.MustAdd(o.Items[i].Subtotal)
	}

	total := subtotal.MustAdd(o.Pricing.Tax).MustAdd(o.Pricing.Shipping).MustSubtract(o.Pricing.Discount)
	if total.IsNegative() {
		return shared.NewValidationError("order", "pricing.total", "order total cannot be negative")
	}

	o.Pricing.Subtotal = subtotal
	o.Pricing.Total = total
	return nil
}

// RelockCommission recomputes the commission amount from the current
// total at the given rate. This is an explicit operation; totals
// recalculation alone never touches the commission.
func (o *Order) RelockCommission(rate decimal.Decimal, now time.Time) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewValidationError("order", "commission.rate", "commission rate must lie within [0, 100]")
	}

	o.Commission = Commission{
		Rate:   rate,
		Amount: o.Pricing.Total.CalculatePercentage(rate).Round(2),
	}
	o.Touch(now)

	return nil
}

// UpdateStatus moves the order along its lifecycle. On an illegal
// transition the order is left untouched. A successful update appends
// exactly one timeline entry.
func (o *Order) UpdateStatus(newStatus Status, message, updatedBy string, now time.Time) error {
	if !o.Status.CanTransitionTo(newStatus) {
		return shared.NewInvalidTransitionError("order", o.Status.String(), newStatus.String())
	}

	previous := o.Status
	o.Status = newStatus

	switch newStatus {
	case StatusShipped:
		shippedAt := now
		o.Tracking.ShippedAt = &shippedAt
	case StatusDelivered:
		deliveredAt := now
		o.Tracking.DeliveredAt = &deliveredAt
	case StatusCancelled:
		cancelledAt := now
		o.Cancellation = Cancellation{
			Reason:      message,
			CancelledAt: &cancelledAt,
			CancelledBy: updatedBy,
		}
	}

	o.appendTimeline(newStatus, message, updatedBy, now)
	o.Touch(now)
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous, now))
	if newStatus == StatusCancelled {
		o.AddDomainEvent(NewOrderCancelledEvent(o, message, now))
	}

	return nil
}

// CanBeCancelled returns true when the order has not yet entered fulfilment
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// Cancel cancels the order with an explicit reason
func (o *Order) Cancel(reason, cancelledBy string, now time.Time) error {
	return o.UpdateStatus(StatusCancelled, reason, cancelledBy, now)
}

// CanBeReturned checks the return window. The window is the vendor's
// return period when set, otherwise the marketplace default of 30 days.
// Exactly at the window boundary the order is still returnable. Orders
// delivered without a tracking timestamp (external imports) count the
// window from the last update instead.
func (o *Order) CanBeReturned(now time.Time, vendorReturnPeriodDays int) bool {
	if o.Status != StatusDelivered {
		return false
	}

	deliveredAt := o.UpdatedAt
	if o.Tracking.DeliveredAt != nil {
		deliveredAt = *o.Tracking.DeliveredAt
	}

	days := vendorReturnPeriodDays
	if days <= 0 {
		days = DefaultReturnWindowDays
	}
	window := time.Duration(days) * 24 * time.Hour

	return now.Sub(deliveredAt) <= window
}

// RequestReturn opens a return request inside the return window
func (o *Order) RequestReturn(reason string, now time.Time, vendorReturnPeriodDays int) error {
	if o.Return.Status != ReturnStatusNone {
		return shared.NewDomainError(shared.KindInvalidState, "RETURN_ALREADY_REQUESTED",
			"a return has already been requested for this order")
	}
	if !o.CanBeReturned(now, vendorReturnPeriodDays) {
		return shared.NewDomainError(shared.KindInvalidState, "RETURN_WINDOW_CLOSED",
			"order is not delivered or the return window has closed")
	}

	requestedAt := now
	o.Return = Return{
		Requested:   true,
		Reason:      reason,
		Status:      ReturnStatusRequested,
		RequestedAt: &requestedAt,
	}
	o.Touch(now)
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderReturnRequestedEvent(o, reason, now))

	return nil
}

// ApproveReturn approves a pending return request and moves the order
// to returned. This is the only path to the returned status.
func (o *Order) ApproveReturn(updatedBy string, now time.Time) error {
	if o.Return.Status != ReturnStatusRequested {
		return shared.NewDomainError(shared.KindInvalidState, "NO_PENDING_RETURN",
			"there is no pending return request to approve")
	}

	previous := o.Status
	resolvedAt := now
	o.Return.Status = ReturnStatusApproved
	o.Return.ResolvedAt = &resolvedAt
	o.Status = StatusReturned
	o.appendTimeline(StatusReturned, "Return approved", updatedBy, now)
	o.Touch(now)
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, previous, now))
	o.AddDomainEvent(NewOrderReturnedEvent(o, now))

	return nil
}

// RejectReturn rejects a pending return request. The order stays delivered.
func (o *Order) RejectReturn(reason string, now time.Time) error {
	if o.Return.Status != ReturnStatusRequested {
		return shared.NewDomainError(shared.KindInvalidState, "NO_PENDING_RETURN",
			"there is no pending return request to reject")
	}

	resolvedAt := now
	o.Return.Status = ReturnStatusRejected
	o.Return.Reason = reason
	o.Return.ResolvedAt = &resolvedAt
	o.Touch(now)
	o.IncrementVersion()

	return nil
}

// MarkPaid records a completed payment
func (o *Order) MarkPaid(transactionID string, now time.Time) error {
	if o.Payment.Status == PaymentStatusCompleted {
		return shared.NewDomainError(shared.KindInvalidState, "ALREADY_PAID", "payment has already completed")
	}

	paidAt := now
	o.Payment.Status = PaymentStatusCompleted
	o.Payment.TransactionID = transactionID
	o.Payment.PaidAt = &paidAt
	o.Touch(now)

	o.AddDomainEvent(NewOrderPaidEvent(o, now))

	return nil
}

// MarkRefunded records a full or partial refund
func (o *Order) MarkRefunded(amount valueobject.Money, now time.Time) error {
	if o.Payment.Status != PaymentStatusCompleted && o.Payment.Status != PaymentStatusPartiallyRefunded {
		return shared.NewDomainError(shared.KindInvalidState, "NOT_PAID", "cannot refund an unpaid order")
	}
	if amount.IsNegative() || amount.IsZero() {
		return shared.NewValidationError("order", "payment.refund_amount", "refund amount must be positive")
	}

	refunded, err := o.Payment.RefundAmount.Add(amount)
	if err != nil {
		return err
	}
	over, err := o.Payment.Amount.LessThan(refunded)
	if err != nil {
		return err
	}
	if over {
		return shared.NewValidationError("order", "payment.refund_amount", "refund cannot exceed the amount paid")
	}

	refundedAt := now
	o.Payment.RefundAmount = refunded
	o.Payment.RefundedAt = &refundedAt
	if refunded.Equals(o.Payment.Amount) {
		o.Payment.Status = PaymentStatusRefunded
	} else {
		o.Payment.Status = PaymentStatusPartiallyRefunded
	}
	if o.Status == StatusCancelled {
		o.Cancellation.RefundProcessed = true
	}
	o.Touch(now)

	o.AddDomainEvent(NewOrderRefundedEvent(o, amount, now))

	return nil
}

// SetTracking records carrier details without changing the order status
func (o *Order) SetTracking(carrier, trackingNumber string, estimatedDelivery *time.Time, now time.Time) {
	o.Tracking.Carrier = carrier
	o.Tracking.TrackingNumber = trackingNumber
	o.Tracking.EstimatedDelivery = estimatedDelivery
	o.Touch(now)
}

func (o *Order) appendTimeline(status Status, message, updatedBy string, now time.Time) {
	if message == "" {
		message = fmt.Sprintf("Order status updated to %s", status)
	}
	o.Timeline = append(o.Timeline, TimelineEntry{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Status:    status,
		Message:   message,
		Timestamp: now,
		UpdatedBy: updatedBy,
	})
}
