package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ==================== Order DTOs ====================

// CartItemInput is one line of a customer's cart. A cart may mix
// vendors; placing it creates one order per vendor.
type CartItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	VendorID  uuid.UUID       `json:"vendor_id" binding:"required"`
	Name      string          `json:"name" binding:"required,min=1,max=200"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,min=1"`
	Variant   string          `json:"variant"`
	SKU       string          `json:"sku"`
}

// AddressInput carries an address in a request
type AddressInput struct {
	FullName   string `json:"full_name" binding:"required,min=1,max=100"`
	Street     string `json:"street" binding:"required,min=1,max=200"`
	City       string `json:"city" binding:"required,min=1,max=100"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" binding:"required,min=1,max=20"`
	Country    string `json:"country" binding:"required,min=2,max=100"`
	Phone      string `json:"phone"`
}

func (in AddressInput) toAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(in.FullName, in.Street, in.City, in.PostalCode, in.Country,
		valueobject.WithState(in.State), valueobject.WithPhone(in.Phone))
}

// PlaceOrderRequest represents a checkout. Tax is charged as a
// percentage of each vendor order's subtotal; the shipping fee is flat
// per vendor shipment.
type PlaceOrderRequest struct {
	CustomerID      uuid.UUID       `json:"customer_id" binding:"required"`
	Items           []CartItemInput `json:"items" binding:"required,min=1,dive"`
	ShippingAddress AddressInput    `json:"shipping_address" binding:"required"`
	BillingAddress  *AddressInput   `json:"billing_address"`
	PaymentMethod   string          `json:"payment_method" binding:"required,oneof=stripe paypal cod"`
	CouponCode      string          `json:"coupon_code"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
}

// UpdateOrderStatusRequest represents a lifecycle transition request
type UpdateOrderStatusRequest struct {
	Status    string `json:"status" binding:"required,oneof=pending confirmed processing shipped delivered cancelled returned"`
	Message   string `json:"message" binding:"max=500"`
	UpdatedBy string `json:"updated_by" binding:"max=100"`
}

// CancelOrderRequest represents an order cancellation request
type CancelOrderRequest struct {
	Reason      string `json:"reason" binding:"required,min=1,max=500"`
	CancelledBy string `json:"cancelled_by" binding:"max=100"`
}

// ReturnRequest represents a customer return request
type ReturnRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// RejectReturnRequest represents a vendor rejecting a return
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// StatsQuery restricts order stats to a creation date range
type StatsQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// OrderItemResponse represents a line item in API responses
type OrderItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Image     string    `json:"image,omitempty"`
	Price     string    `json:"price"`
	Quantity  int       `json:"quantity"`
	Variant   string    `json:"variant,omitempty"`
	SKU       string    `json:"sku,omitempty"`
	Subtotal  string    `json:"subtotal"`
}

// PricingResponse represents the order pricing breakdown
type PricingResponse struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Shipping string `json:"shipping"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// TimelineEntryResponse represents one status transition record
type TimelineEntryResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID               uuid.UUID               `json:"id"`
	OrderNumber      string                  `json:"order_number"`
	CustomerID       uuid.UUID               `json:"customer_id"`
	VendorID         uuid.UUID               `json:"vendor_id"`
	Status           string                  `json:"status"`
	Items            []OrderItemResponse     `json:"items"`
	Pricing          PricingResponse         `json:"pricing"`
	PaymentMethod    string                  `json:"payment_method"`
	PaymentStatus    string                  `json:"payment_status"`
	CommissionRate   string                  `json:"commission_rate"`
	CommissionAmount string                  `json:"commission_amount"`
	CouponCode       string                  `json:"coupon_code,omitempty"`
	Timeline         []TimelineEntryResponse `json:"timeline"`
	ReturnStatus     string                  `json:"return_status"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// StatsResponse represents per-vendor order statistics
type StatsResponse struct {
	TotalOrders       int64  `json:"total_orders"`
	TotalRevenue      string `json:"total_revenue"`
	AverageOrderValue string `json:"average_order_value"`
	PendingOrders     int64  `json:"pending_orders"`
	CompletedOrders   int64  `json:"completed_orders"`
	CancelledOrders   int64  `json:"cancelled_orders"`
}

// ToOrderResponse converts a domain order to a response DTO
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price.StringFixed(2),
			Quantity:  item.Quantity,
			Variant:   item.Variant,
			SKU:       item.SKU,
			Subtotal:  item.Subtotal.StringFixed(2),
		}
	}

	timeline := make([]TimelineEntryResponse, len(o.Timeline))
	for i, entry := range o.Timeline {
		timeline[i] = TimelineEntryResponse{
			Status:    string(entry.Status),
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
			UpdatedBy: entry.UpdatedBy,
		}
	}

	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		VendorID:    o.VendorID,
		Status:      string(o.Status),
		Items:       items,
		Pricing: PricingResponse{
			Subtotal: o.Pricing.Subtotal.StringFixed(2),
			Tax:      o.Pricing.Tax.StringFixed(2),
			Shipping: o.Pricing.Shipping.StringFixed(2),
			Discount: o.Pricing.Discount.StringFixed(2),
			Total:    o.Pricing.Total.StringFixed(2),
		},
		PaymentMethod:    string(o.Payment.Method),
		PaymentStatus:    string(o.Payment.Status),
		CommissionRate:   o.Commission.Rate.String(),
		CommissionAmount: o.Commission.Amount.StringFixed(2),
		CouponCode:       o.CouponCode,
		Timeline:         timeline,
		ReturnStatus:     string(o.Return.Status),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// ToStatsResponse converts domain stats to a response DTO
func ToStatsResponse(s *order.Stats) StatsResponse {
	return StatsResponse{
		TotalOrders:       s.TotalOrders,
		TotalRevenue:      s.TotalRevenue.StringFixed(2),
		AverageOrderValue: s.AverageOrderValue.StringFixed(2),
		PendingOrders:     s.PendingOrders,
		CompletedOrders:   s.CompletedOrders,
		CancelledOrders:   s.CancelledOrders,
	}
}
